package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"smartlodge/internal/availability"
	"smartlodge/internal/hotels"
	"smartlodge/pkg/cache"
	"smartlodge/pkg/logger"

	"github.com/google/uuid"
)

// memStore is an in-memory Store for tests. Values are stored by copy so
// mutations only land through Save, like the Redis-backed store.
type memStore struct {
	mu       sync.Mutex
	sessions map[string]CheckoutSession
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]CheckoutSession)}
}

func (m *memStore) Save(ctx context.Context, session *CheckoutSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = *session
	return nil
}

func (m *memStore) Get(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (m *memStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

type stubHotelService struct {
	resolveFn func(ctx context.Context, rawID string) (*hotels.Hotel, error)
}

func (s *stubHotelService) SetCacheService(cache.Service) {}

func (s *stubHotelService) GetHotelByID(context.Context, uuid.UUID) (*hotels.HotelResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubHotelService) GetAllHotels(context.Context, hotels.HotelListQuery) (*hotels.PaginatedHotels, error) {
	return nil, errors.New("not implemented")
}

func (s *stubHotelService) Resolve(ctx context.Context, rawID string) (*hotels.Hotel, error) {
	return s.resolveFn(ctx, rawID)
}

func testHotel() *hotels.Hotel {
	return &hotels.Hotel{
		ID:            uuid.MustParse("3f8c7a2e-5b1d-4e6f-9a0b-1c2d3e4f5a6b"),
		Name:          "Grand Hotel Palace",
		Location:      "New York City, NY",
		PricePerNight: 100,
	}
}

func newTestService(store Store) Service {
	hotelSvc := &stubHotelService{
		resolveFn: func(ctx context.Context, rawID string) (*hotels.Hotel, error) {
			if rawID == testHotel().ID.String() {
				return testHotel(), nil
			}
			return nil, hotels.ErrNotFound
		},
	}
	return NewService(store, hotelSvc, logger.GetDefault())
}

func openSession(t *testing.T, svc Service, visitor Visitor) *SessionResponse {
	t.Helper()
	session, err := svc.Open(context.Background(), testHotel().ID.String(), visitor)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return session
}

func TestOpenStartsAtAuthForGuests(t *testing.T) {
	svc := newTestService(newMemStore())

	session := openSession(t, svc, Visitor{})

	if session.Step != int(StepAuth) {
		t.Errorf("step = %d, want auth", session.Step)
	}
	if session.Authenticated {
		t.Error("expected unauthenticated session")
	}
	if session.NightlyRate != 100 {
		t.Errorf("nightly rate = %v, want 100", session.NightlyRate)
	}
	if session.Draft.Guests.Adults != 2 || session.Draft.Rooms != 1 {
		t.Errorf("draft defaults = %+v", session.Draft)
	}
}

func TestOpenSkipsAuthForSignedInVisitors(t *testing.T) {
	svc := newTestService(newMemStore())

	session := openSession(t, svc, Visitor{Authenticated: true, UserID: "user-1", Email: "ada@example.com"})

	if session.Step != int(StepSummary) {
		t.Errorf("step = %d, want summary", session.Step)
	}
	if !session.Authenticated {
		t.Error("expected authenticated session")
	}
}

func TestOpenUnknownHotel(t *testing.T) {
	svc := newTestService(newMemStore())

	_, err := svc.Open(context.Background(), "no-such-hotel", Visitor{})
	if !errors.Is(err, hotels.ErrNotFound) {
		t.Errorf("err = %v, want hotels.ErrNotFound", err)
	}
}

func TestCompleteAuthAsGuest(t *testing.T) {
	svc := newTestService(newMemStore())
	opened := openSession(t, svc, Visitor{})

	session, err := svc.CompleteAuth(context.Background(), opened.ID, AuthRequest{Mode: "guest"}, Visitor{})
	if err != nil {
		t.Fatalf("CompleteAuth: %v", err)
	}

	if session.Step != int(StepSummary) || !session.Authenticated {
		t.Errorf("session = step %d authenticated %v, want summary/true", session.Step, session.Authenticated)
	}
}

func TestCompleteAuthLoginRequiresToken(t *testing.T) {
	svc := newTestService(newMemStore())
	opened := openSession(t, svc, Visitor{})

	_, err := svc.CompleteAuth(context.Background(), opened.ID, AuthRequest{Mode: "login"}, Visitor{})
	if !errors.Is(err, ErrLoginTokenRequired) {
		t.Errorf("err = %v, want ErrLoginTokenRequired", err)
	}
}

func TestUpdateDraftRepricesAndKicksWatcher(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	evaluator := availability.NewEvaluator(availability.NewSimulatedInventory(0), 30)
	watcher := availability.NewWatcher(evaluator, 50*time.Millisecond, svc.ApplyAvailability)
	svc.SetWatcher(watcher)

	opened := openSession(t, svc, Visitor{Authenticated: true})

	checkIn, checkOut, rooms := "2025-06-01", "2025-06-04", 2
	session, err := svc.UpdateDraft(context.Background(), opened.ID, UpdateDraftRequest{
		CheckIn:  &checkIn,
		CheckOut: &checkOut,
		Rooms:    &rooms,
	})
	if err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}

	if session.Draft.Nights != 3 {
		t.Errorf("nights = %d, want 3", session.Draft.Nights)
	}
	if session.Draft.Subtotal != 600 || session.Draft.Tax != 72 || session.Draft.TotalPrice != 672 {
		t.Errorf("pricing = %v/%v/%v, want 600/72/672",
			session.Draft.Subtotal, session.Draft.Tax, session.Draft.TotalPrice)
	}
	if !session.Availability.Checking && session.Availability.Result == nil {
		t.Error("expected an availability evaluation to be pending or applied")
	}
}

func TestUpdateDraftNormalizesLegacyGuestCount(t *testing.T) {
	svc := newTestService(newMemStore())
	opened := openSession(t, svc, Visitor{Authenticated: true})

	guests := GuestCount{Adults: -2, Children: 1}
	session, err := svc.UpdateDraft(context.Background(), opened.ID, UpdateDraftRequest{Guests: &guests})
	if err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}

	if session.Draft.Guests.Adults != 0 || session.Draft.Guests.Children != 1 {
		t.Errorf("guests = %+v, want {0 1}", session.Draft.Guests)
	}
}

func TestUpdateDraftRejectsEmptyParty(t *testing.T) {
	svc := newTestService(newMemStore())
	opened := openSession(t, svc, Visitor{Authenticated: true})

	for _, guests := range []GuestCount{{}, {Adults: 0, Children: 0}, {Adults: -1, Children: -2}} {
		g := guests
		_, err := svc.UpdateDraft(context.Background(), opened.ID, UpdateDraftRequest{Guests: &g})
		if !errors.Is(err, ErrGuestsRequired) {
			t.Errorf("UpdateDraft(%+v) err = %v, want ErrGuestsRequired", guests, err)
		}
	}

	// The refused update must not touch the stored party
	session, err := svc.Get(context.Background(), opened.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if session.Draft.Guests.Total() == 0 {
		t.Errorf("stored guests = %+v, want the opening default", session.Draft.Guests)
	}
}

func TestUpdateGuestInfoThenAdvance(t *testing.T) {
	svc := newTestService(newMemStore())
	opened := openSession(t, svc, Visitor{Authenticated: true})

	_, err := svc.UpdateGuestInfo(context.Background(), opened.ID, GuestInfoRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+1 555 0100",
	})
	if err != nil {
		t.Fatalf("UpdateGuestInfo: %v", err)
	}

	session, err := svc.GoToStep(context.Background(), opened.ID, int(StepPayment))
	if err != nil {
		t.Fatalf("GoToStep(payment): %v", err)
	}
	if session.Step != int(StepPayment) {
		t.Errorf("step = %d, want payment", session.Step)
	}
}

func TestGoToStepBlockedWithoutGuestInfo(t *testing.T) {
	svc := newTestService(newMemStore())
	opened := openSession(t, svc, Visitor{Authenticated: true})

	_, err := svc.GoToStep(context.Background(), opened.ID, int(StepPayment))
	if !errors.Is(err, ErrGuestInfoIncomplete) {
		t.Errorf("err = %v, want ErrGuestInfoIncomplete", err)
	}
}

func TestGetUnknownSession(t *testing.T) {
	svc := newTestService(newMemStore())

	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestApplyAvailabilityPersistsResult(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	opened := openSession(t, svc, Visitor{Authenticated: true})

	svc.ApplyAvailability(opened.ID, &availability.Result{
		Outcome:            availability.OutcomeAvailable,
		AvailableRoomCount: 7,
		Sequence:           1,
	})

	session, err := svc.Get(context.Background(), opened.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if session.Availability.Result == nil {
		t.Fatal("expected a persisted availability result")
	}
	if session.Availability.Result.Outcome != string(availability.OutcomeAvailable) {
		t.Errorf("outcome = %s, want available", session.Availability.Result.Outcome)
	}
	if session.Availability.Result.AvailableRoomCount != 7 {
		t.Errorf("room count = %d, want 7", session.Availability.Result.AvailableRoomCount)
	}
}

func TestApplyAvailabilityDropsUnknownSession(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	// Session expired between kick and apply; nothing may be written back
	svc.ApplyAvailability("expired-session", &availability.Result{
		Outcome:  availability.OutcomeAvailable,
		Sequence: 1,
	})

	if _, err := svc.Get(context.Background(), "expired-session"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}
