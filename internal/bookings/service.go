package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smartlodge/internal/availability"
	"smartlodge/internal/checkout"
	"smartlodge/internal/notifications"
	"smartlodge/pkg/cache"
	"smartlodge/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrPaymentStepNotActive rejects charges for sessions that have not
	// reached the payment step.
	ErrPaymentStepNotActive = errors.New("payment step is not active")

	// ErrAvailabilityPending blocks payment while the latest draft change
	// is still being evaluated.
	ErrAvailabilityPending = errors.New("availability check in progress")

	// ErrNotAvailable blocks payment when the last completed evaluation
	// came back with anything other than available.
	ErrNotAvailable = errors.New("selected stay is not available")

	// ErrInvalidStay rejects drafts without a positive number of nights.
	ErrInvalidStay = errors.New("booking requires valid stay dates")

	// ErrInvalidParty rejects drafts whose party totals zero guests.
	ErrInvalidParty = errors.New("booking requires at least one guest")

	// ErrPaymentFailed wraps a gateway decline or outage. The draft stays
	// intact and the charge can be retried.
	ErrPaymentFailed = errors.New("payment processing failed")

	// ErrBookingNotFound is returned for unknown booking references.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrConfirmationNotFound is returned when a session has no mirrored
	// confirmation.
	ErrConfirmationNotFound = errors.New("no confirmation for this session")
)

type Service interface {
	// ProcessPayment runs the charge for a session sitting on the payment
	// step and, on success, produces exactly one confirmation.
	ProcessPayment(ctx context.Context, sessionID string, req PaymentRequest) (*ConfirmationResponse, error)

	GetConfirmation(ctx context.Context, sessionID string) (*ConfirmationResponse, error)
	GetByRef(ctx context.Context, ref string) (*ConfirmationResponse, error)
	GetUserBookings(ctx context.Context, userID string, limit int) ([]ConfirmationResponse, error)
}

type service struct {
	repo         Repository
	store        checkout.Store
	watcher      *availability.Watcher
	processor    Processor
	cacheService cache.Service
	publisher    notifications.Publisher
	log          *logger.Logger

	currency        string
	confirmationTTL time.Duration
}

func NewService(
	repo Repository,
	store checkout.Store,
	watcher *availability.Watcher,
	processor Processor,
	cacheService cache.Service,
	publisher notifications.Publisher,
	log *logger.Logger,
	currency string,
	confirmationTTL time.Duration,
) Service {
	return &service{
		repo:            repo,
		store:           store,
		watcher:         watcher,
		processor:       processor,
		cacheService:    cacheService,
		publisher:       publisher,
		log:             log,
		currency:        currency,
		confirmationTTL: confirmationTTL,
	}
}

func (s *service) ProcessPayment(ctx context.Context, sessionID string, req PaymentRequest) (*ConfirmationResponse, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Step == checkout.StepConfirmed {
		return nil, checkout.ErrSessionConfirmed
	}
	if session.Step != checkout.StepPayment {
		return nil, ErrPaymentStepNotActive
	}
	if !session.Draft.GuestInfo.Complete() {
		return nil, checkout.ErrGuestInfoIncomplete
	}
	if session.Draft.Nights <= 0 {
		return nil, ErrInvalidStay
	}
	if session.Draft.Guests.Total() <= 0 {
		return nil, ErrInvalidParty
	}

	// Availability gate: block while a fresh evaluation is pending, block
	// on a non-available outcome, but let a draft with no completed
	// evaluation through. The inventory source is a stand-in, so the
	// final word belongs to the charge, not the probe.
	if s.watcher != nil && s.watcher.Checking(sessionID) {
		return nil, ErrAvailabilityPending
	}
	if session.Availability != nil && !session.Availability.Outcome.Bookable() {
		return nil, ErrNotAvailable
	}

	charge, err := s.processor.Charge(ctx, ChargeRequest{
		SessionID: sessionID,
		Method:    req.Method,
		Amount:    session.Draft.TotalPrice,
		Currency:  s.currency,
	})
	s.log.LogPaymentProcessed(ctx, sessionID, req.Method, session.Draft.TotalPrice, err)
	if err != nil {
		// Draft and step stay intact; the guest can retry
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	booking, err := s.buildBooking(session, req.Method, charge)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(booking); err != nil {
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	confirmation := toConfirmation(booking)

	// Mirror the confirmation for the success screen, then retire the
	// draft: the session keeps only its terminal state.
	if err := s.cacheService.Set(ctx, checkout.ConfirmationKey(sessionID), confirmation, s.confirmationTTL); err != nil {
		s.log.WithError(err).Error("failed to mirror confirmation", "session_id", sessionID)
	}

	session.Draft = checkout.BookingDraft{}
	session.Availability = nil
	session.MarkConfirmed()
	if err := s.store.Save(ctx, session); err != nil {
		s.log.WithError(err).Error("failed to save confirmed session", "session_id", sessionID)
	}

	if s.watcher != nil {
		s.watcher.Forget(sessionID)
	}

	s.log.LogBookingConfirmed(ctx, booking.BookingRef, sessionID, booking.HotelID.String())

	s.publishConfirmed(booking)

	return confirmation, nil
}

func (s *service) GetConfirmation(ctx context.Context, sessionID string) (*ConfirmationResponse, error) {
	var confirmation ConfirmationResponse
	err := s.cacheService.Get(ctx, checkout.ConfirmationKey(sessionID), &confirmation)
	if err == nil {
		return &confirmation, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		return nil, err
	}

	// Mirror expired; fall back to the durable record
	booking, err := s.repo.GetBySessionID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConfirmationNotFound
		}
		return nil, fmt.Errorf("failed to load confirmation: %w", err)
	}

	return toConfirmation(booking), nil
}

func (s *service) GetByRef(ctx context.Context, ref string) (*ConfirmationResponse, error) {
	booking, err := s.repo.GetByRef(ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	return toConfirmation(booking), nil
}

func (s *service) GetUserBookings(ctx context.Context, userID string, limit int) ([]ConfirmationResponse, error) {
	bookings, err := s.repo.GetByUserID(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	responses := make([]ConfirmationResponse, len(bookings))
	for i := range bookings {
		responses[i] = *toConfirmation(&bookings[i])
	}
	return responses, nil
}

func (s *service) buildBooking(session *checkout.CheckoutSession, method string, charge *ChargeResult) (*Booking, error) {
	hotelID, err := uuid.Parse(session.HotelID)
	if err != nil {
		return nil, fmt.Errorf("invalid hotel id on session: %w", err)
	}

	checkIn, err := time.Parse(availability.DateLayout, session.Draft.CheckIn)
	if err != nil {
		return nil, ErrInvalidStay
	}
	checkOut, err := time.Parse(availability.DateLayout, session.Draft.CheckOut)
	if err != nil {
		return nil, ErrInvalidStay
	}

	return &Booking{
		BookingRef:      generateBookingRef(),
		SessionID:       session.ID,
		UserID:          session.UserID,
		HotelID:         hotelID,
		HotelName:       session.HotelName,
		HotelLocation:   session.HotelLocation,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Nights:          session.Draft.Nights,
		Adults:          session.Draft.Guests.Adults,
		Children:        session.Draft.Guests.Children,
		Rooms:           session.Draft.Rooms,
		GuestFirstName:  session.Draft.GuestInfo.FirstName,
		GuestLastName:   session.Draft.GuestInfo.LastName,
		GuestEmail:      session.Draft.GuestInfo.Email,
		GuestPhone:      session.Draft.GuestInfo.Phone,
		SpecialRequests: session.Draft.GuestInfo.SpecialRequests,
		PaymentMethod:   method,
		TransactionID:   charge.TransactionID,
		Subtotal:        session.Draft.Subtotal,
		Tax:             session.Draft.Tax,
		TotalAmount:     session.Draft.TotalPrice,
		Currency:        s.currency,
		PaymentStatus:   PaymentStatusConfirmed,
		BookingDate:     charge.ProcessedAt,
	}, nil
}

// publishConfirmed emits the booking-confirmed notification without
// blocking or failing the confirmation.
func (s *service) publishConfirmed(booking *Booking) {
	if s.publisher == nil {
		return
	}

	notification := notifications.BookingConfirmedNotification{
		BookingRef:     booking.BookingRef,
		SessionID:      booking.SessionID,
		RecipientEmail: booking.GuestEmail,
		RecipientName:  booking.GuestFirstName + " " + booking.GuestLastName,
		HotelName:      booking.HotelName,
		HotelLocation:  booking.HotelLocation,
		CheckIn:        booking.CheckIn.Format(availability.DateLayout),
		CheckOut:       booking.CheckOut.Format(availability.DateLayout),
		Nights:         booking.Nights,
		Rooms:          booking.Rooms,
		TotalAmount:    booking.TotalAmount,
		Currency:       booking.Currency,
		BookingDate:    booking.BookingDate,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.publisher.PublishBookingConfirmed(ctx, notification); err != nil {
			s.log.WithError(err).Error("failed to publish booking notification",
				"booking_ref", booking.BookingRef)
		}
	}()
}

func toConfirmation(booking *Booking) *ConfirmationResponse {
	return &ConfirmationResponse{
		BookingRef:    booking.BookingRef,
		SessionID:     booking.SessionID,
		HotelID:       booking.HotelID.String(),
		HotelName:     booking.HotelName,
		HotelLocation: booking.HotelLocation,
		CheckIn:       booking.CheckIn.Format(availability.DateLayout),
		CheckOut:      booking.CheckOut.Format(availability.DateLayout),
		Nights:        booking.Nights,
		Guests: checkout.GuestCount{
			Adults:   booking.Adults,
			Children: booking.Children,
		},
		Rooms:         booking.Rooms,
		GuestName:     booking.GuestFirstName + " " + booking.GuestLastName,
		GuestEmail:    booking.GuestEmail,
		PaymentMethod: booking.PaymentMethod,
		Subtotal:      booking.Subtotal,
		Tax:           booking.Tax,
		TotalAmount:   booking.TotalAmount,
		Currency:      booking.Currency,
		PaymentStatus: booking.PaymentStatus,
		BookingDate:   booking.BookingDate,
	}
}
