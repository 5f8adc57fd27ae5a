package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"smartlodge/internal/availability"
	"smartlodge/internal/checkout"
	"smartlodge/internal/notifications"
	"smartlodge/pkg/cache"
	"smartlodge/pkg/logger"

	"gorm.io/gorm"
)

const testHotelID = "3f8c7a2e-5b1d-4e6f-9a0b-1c2d3e4f5a6b"

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]checkout.CheckoutSession
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]checkout.CheckoutSession)}
}

func (m *memSessionStore) Save(ctx context.Context, session *checkout.CheckoutSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = *session
	return nil
}

func (m *memSessionStore) Get(ctx context.Context, sessionID string) (*checkout.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, checkout.ErrSessionNotFound
	}
	return &session, nil
}

func (m *memSessionStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// memRepo keeps bookings in a slice and mimics gorm's not-found error.
type memRepo struct {
	mu       sync.Mutex
	bookings []Booking
}

func (r *memRepo) Create(booking *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = append(r.bookings, *booking)
	return nil
}

func (r *memRepo) GetByRef(ref string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bookings {
		if r.bookings[i].BookingRef == ref {
			booking := r.bookings[i]
			return &booking, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRepo) GetBySessionID(sessionID string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bookings {
		if r.bookings[i].SessionID == sessionID {
			booking := r.bookings[i]
			return &booking, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRepo) GetByUserID(userID string, limit int) ([]Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Booking
	for i := range r.bookings {
		if r.bookings[i].UserID == userID {
			out = append(out, r.bookings[i])
		}
	}
	return out, nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	data, ok := c.entries[key]
	c.mu.Unlock()
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[key] = data
	c.mu.Unlock()
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

func (c *memCache) Exists(ctx context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

func (c *memCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}
	data, err := fetcher()
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	return c.Get(ctx, key, dest)
}

func (c *memCache) Ping(ctx context.Context) error { return nil }

// chanPublisher hands published notifications to the test over a channel,
// since the service publishes from a goroutine.
type chanPublisher struct {
	published chan notifications.BookingConfirmedNotification
}

func newChanPublisher() *chanPublisher {
	return &chanPublisher{published: make(chan notifications.BookingConfirmedNotification, 1)}
}

func (p *chanPublisher) PublishBookingConfirmed(ctx context.Context, n notifications.BookingConfirmedNotification) error {
	p.published <- n
	return nil
}

func (p *chanPublisher) Close() error { return nil }

type fixture struct {
	service   Service
	store     *memSessionStore
	repo      *memRepo
	cache     *memCache
	publisher *chanPublisher
	processor *SimulatedProcessor
	watcher   *availability.Watcher
}

func newFixture(watcher *availability.Watcher) *fixture {
	f := &fixture{
		store:     newMemSessionStore(),
		repo:      &memRepo{},
		cache:     newMemCache(),
		publisher: newChanPublisher(),
		processor: NewSimulatedProcessor(0),
		watcher:   watcher,
	}
	f.service = NewService(f.repo, f.store, watcher, f.processor, f.cache,
		f.publisher, logger.GetDefault(), "USD", time.Hour)
	return f
}

// paymentSession seeds a session parked on the payment step with a priced
// draft and complete guest info.
func paymentSession(t *testing.T, store *memSessionStore) *checkout.CheckoutSession {
	t.Helper()

	session := &checkout.CheckoutSession{
		ID:            "sess-1",
		HotelID:       testHotelID,
		HotelName:     "Grand Hotel Palace",
		HotelLocation: "New York City, NY",
		NightlyRate:   100,
		Step:          checkout.StepPayment,
		Authenticated: true,
		UserID:        "user-1",
		Draft: checkout.BookingDraft{
			CheckIn:  "2025-06-01",
			CheckOut: "2025-06-04",
			Guests:   checkout.GuestCount{Adults: 2, Children: 1},
			Rooms:    2,
			GuestInfo: checkout.GuestInfo{
				FirstName: "Ada",
				LastName:  "Lovelace",
				Email:     "ada@example.com",
				Phone:     "+1 555 0100",
			},
		},
	}
	session.Draft.Reprice(session.NightlyRate)

	if err := store.Save(context.Background(), session); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return session
}

func TestProcessPaymentConfirmsBooking(t *testing.T) {
	f := newFixture(nil)
	session := paymentSession(t, f.store)

	confirmation, err := f.service.ProcessPayment(context.Background(), session.ID, PaymentRequest{Method: "card"})
	if err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}

	refPattern := regexp.MustCompile(`^BK-\d{8}-[A-Z0-9]{6}$`)
	if !refPattern.MatchString(confirmation.BookingRef) {
		t.Errorf("booking ref %q does not match BK-YYYYMMDD-XXXXXX", confirmation.BookingRef)
	}
	if confirmation.PaymentStatus != PaymentStatusConfirmed {
		t.Errorf("payment status = %s, want confirmed", confirmation.PaymentStatus)
	}
	if confirmation.TotalAmount != 672 || confirmation.Subtotal != 600 || confirmation.Tax != 72 {
		t.Errorf("amounts = %v/%v/%v, want 600/72/672",
			confirmation.Subtotal, confirmation.Tax, confirmation.TotalAmount)
	}
	if confirmation.Currency != "USD" {
		t.Errorf("currency = %s, want USD", confirmation.Currency)
	}

	if f.repo.count() != 1 {
		t.Fatalf("bookings persisted = %d, want 1", f.repo.count())
	}

	saved, err := f.store.Get(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if saved.Step != checkout.StepConfirmed {
		t.Errorf("session step = %s, want confirmed", saved.Step)
	}
	if saved.Draft.CheckIn != "" || saved.Draft.TotalPrice != 0 {
		t.Errorf("expected draft retired after confirmation, got %+v", saved.Draft)
	}
	if saved.Availability != nil {
		t.Error("expected availability cleared after confirmation")
	}

	if !f.cache.Exists(context.Background(), checkout.ConfirmationKey(session.ID)) {
		t.Error("expected confirmation mirrored in cache")
	}

	select {
	case n := <-f.publisher.published:
		if n.BookingRef != confirmation.BookingRef {
			t.Errorf("published ref = %s, want %s", n.BookingRef, confirmation.BookingRef)
		}
		if n.RecipientEmail != "ada@example.com" {
			t.Errorf("recipient = %s, want ada@example.com", n.RecipientEmail)
		}
	case <-time.After(time.Second):
		t.Error("expected a booking-confirmed notification")
	}
}

func TestProcessPaymentChargeFailureKeepsDraft(t *testing.T) {
	f := newFixture(nil)
	f.processor.FailWith = errors.New("card declined")
	session := paymentSession(t, f.store)

	_, err := f.service.ProcessPayment(context.Background(), session.ID, PaymentRequest{Method: "card"})
	if !errors.Is(err, ErrPaymentFailed) {
		t.Fatalf("err = %v, want ErrPaymentFailed", err)
	}

	if f.repo.count() != 0 {
		t.Errorf("bookings persisted = %d, want 0", f.repo.count())
	}

	saved, _ := f.store.Get(context.Background(), session.ID)
	if saved.Step != checkout.StepPayment {
		t.Errorf("session step = %s, want payment for a retry", saved.Step)
	}
	if saved.Draft.CheckIn != "2025-06-01" || saved.Draft.TotalPrice != 672 {
		t.Errorf("expected draft intact after decline, got %+v", saved.Draft)
	}
}

func TestProcessPaymentAllowedWithoutEvaluation(t *testing.T) {
	f := newFixture(nil)
	session := paymentSession(t, f.store)
	// No availability result on the session: the charge decides.

	if _, err := f.service.ProcessPayment(context.Background(), session.ID, PaymentRequest{Method: "paypal"}); err != nil {
		t.Fatalf("ProcessPayment without evaluation: %v", err)
	}
}

func TestProcessPaymentBlockedWhenUnavailable(t *testing.T) {
	f := newFixture(nil)
	session := paymentSession(t, f.store)
	session.Availability = &availability.Result{Outcome: availability.OutcomeUnavailable}
	if err := f.store.Save(context.Background(), session); err != nil {
		t.Fatalf("save session: %v", err)
	}

	_, err := f.service.ProcessPayment(context.Background(), session.ID, PaymentRequest{Method: "card"})
	if !errors.Is(err, ErrNotAvailable) {
		t.Errorf("err = %v, want ErrNotAvailable", err)
	}
	if f.repo.count() != 0 {
		t.Errorf("bookings persisted = %d, want 0", f.repo.count())
	}
}

func TestProcessPaymentBlockedWhileChecking(t *testing.T) {
	evaluator := availability.NewEvaluator(availability.NewSimulatedInventory(0), 30)
	watcher := availability.NewWatcher(evaluator, time.Hour, nil)
	f := newFixture(watcher)
	session := paymentSession(t, f.store)

	// Kick arms an evaluation that will not fire within the test.
	watcher.Kick(session.ID, session.AvailabilityQuery())

	_, err := f.service.ProcessPayment(context.Background(), session.ID, PaymentRequest{Method: "card"})
	if !errors.Is(err, ErrAvailabilityPending) {
		t.Errorf("err = %v, want ErrAvailabilityPending", err)
	}
}

func TestProcessPaymentStepGuards(t *testing.T) {
	tests := []struct {
		name    string
		step    checkout.Step
		wantErr error
	}{
		{"summary step", checkout.StepSummary, ErrPaymentStepNotActive},
		{"auth step", checkout.StepAuth, ErrPaymentStepNotActive},
		{"already confirmed", checkout.StepConfirmed, checkout.ErrSessionConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(nil)
			session := paymentSession(t, f.store)
			session.Step = tt.step
			if err := f.store.Save(context.Background(), session); err != nil {
				t.Fatalf("save session: %v", err)
			}

			_, err := f.service.ProcessPayment(context.Background(), session.ID, PaymentRequest{Method: "card"})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProcessPaymentRequiresGuestInfo(t *testing.T) {
	f := newFixture(nil)
	session := paymentSession(t, f.store)
	session.Draft.GuestInfo = checkout.GuestInfo{}
	if err := f.store.Save(context.Background(), session); err != nil {
		t.Fatalf("save session: %v", err)
	}

	_, err := f.service.ProcessPayment(context.Background(), session.ID, PaymentRequest{Method: "card"})
	if !errors.Is(err, checkout.ErrGuestInfoIncomplete) {
		t.Errorf("err = %v, want ErrGuestInfoIncomplete", err)
	}
}

func TestProcessPaymentRejectsEmptyParty(t *testing.T) {
	f := newFixture(nil)
	session := paymentSession(t, f.store)
	session.Draft.Guests = checkout.GuestCount{}
	if err := f.store.Save(context.Background(), session); err != nil {
		t.Fatalf("save session: %v", err)
	}

	_, err := f.service.ProcessPayment(context.Background(), session.ID, PaymentRequest{Method: "card"})
	if !errors.Is(err, ErrInvalidParty) {
		t.Errorf("err = %v, want ErrInvalidParty", err)
	}
	if f.repo.count() != 0 {
		t.Errorf("bookings persisted = %d, want 0 for a zero-guest draft", f.repo.count())
	}

	saved, _ := f.store.Get(context.Background(), session.ID)
	if saved.Step != checkout.StepPayment {
		t.Errorf("session step = %s, want payment", saved.Step)
	}
}

func TestProcessPaymentRejectsZeroNightStay(t *testing.T) {
	f := newFixture(nil)
	session := paymentSession(t, f.store)
	session.Draft.CheckOut = session.Draft.CheckIn
	session.Draft.Reprice(session.NightlyRate)
	if err := f.store.Save(context.Background(), session); err != nil {
		t.Fatalf("save session: %v", err)
	}

	_, err := f.service.ProcessPayment(context.Background(), session.ID, PaymentRequest{Method: "card"})
	if !errors.Is(err, ErrInvalidStay) {
		t.Errorf("err = %v, want ErrInvalidStay", err)
	}
}

func TestProcessPaymentUnknownSession(t *testing.T) {
	f := newFixture(nil)

	_, err := f.service.ProcessPayment(context.Background(), "missing", PaymentRequest{Method: "card"})
	if !errors.Is(err, checkout.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestGetConfirmationFallsBackToDatabase(t *testing.T) {
	f := newFixture(nil)
	session := paymentSession(t, f.store)

	confirmed, err := f.service.ProcessPayment(context.Background(), session.ID, PaymentRequest{Method: "card"})
	if err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}

	// Simulate the Redis mirror expiring.
	if err := f.cache.Delete(context.Background(), checkout.ConfirmationKey(session.ID)); err != nil {
		t.Fatalf("delete mirror: %v", err)
	}

	confirmation, err := f.service.GetConfirmation(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("GetConfirmation after mirror expiry: %v", err)
	}
	if confirmation.BookingRef != confirmed.BookingRef {
		t.Errorf("booking ref = %s, want %s", confirmation.BookingRef, confirmed.BookingRef)
	}
	if !strings.HasPrefix(confirmation.GuestName, "Ada") {
		t.Errorf("guest name = %q, want Ada Lovelace", confirmation.GuestName)
	}
}

func TestGetConfirmationUnknownSession(t *testing.T) {
	f := newFixture(nil)

	_, err := f.service.GetConfirmation(context.Background(), "missing")
	if !errors.Is(err, ErrConfirmationNotFound) {
		t.Errorf("err = %v, want ErrConfirmationNotFound", err)
	}
}

func TestGetByRefUnknown(t *testing.T) {
	f := newFixture(nil)

	_, err := f.service.GetByRef(context.Background(), "BK-20250601-ZZZZZZ")
	if !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("err = %v, want ErrBookingNotFound", err)
	}
}

func TestGetUserBookings(t *testing.T) {
	f := newFixture(nil)
	session := paymentSession(t, f.store)

	if _, err := f.service.ProcessPayment(context.Background(), session.ID, PaymentRequest{Method: "card"}); err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}

	bookings, err := f.service.GetUserBookings(context.Background(), "user-1", 10)
	if err != nil {
		t.Fatalf("GetUserBookings: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("bookings = %d, want 1", len(bookings))
	}
	if bookings[0].Guests.Total() != 3 {
		t.Errorf("guests total = %d, want 3", bookings[0].Guests.Total())
	}
}
