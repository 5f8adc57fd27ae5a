package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smartlodge/internal/availability"
	"smartlodge/internal/hotels"
	"smartlodge/pkg/logger"

	"github.com/google/uuid"
)

// ErrLoginTokenRequired rejects a login completion without a valid bearer.
var ErrLoginTokenRequired = errors.New("a valid identity provider token is required to complete login")

// ErrGuestsRequired rejects drafts whose party totals zero guests.
var ErrGuestsRequired = errors.New("at least one guest is required")

// Visitor is what the transport layer knows about the caller.
type Visitor struct {
	Authenticated bool
	UserID        string
	Email         string
}

type Service interface {
	// Watcher is injected after construction to break the cycle between
	// the service and the watcher's apply callback.
	SetWatcher(watcher *availability.Watcher)

	Open(ctx context.Context, hotelID string, visitor Visitor) (*SessionResponse, error)
	Get(ctx context.Context, sessionID string) (*SessionResponse, error)
	CompleteAuth(ctx context.Context, sessionID string, req AuthRequest, visitor Visitor) (*SessionResponse, error)
	UpdateDraft(ctx context.Context, sessionID string, req UpdateDraftRequest) (*SessionResponse, error)
	UpdateGuestInfo(ctx context.Context, sessionID string, req GuestInfoRequest) (*SessionResponse, error)
	GoToStep(ctx context.Context, sessionID string, target int) (*SessionResponse, error)
	Availability(ctx context.Context, sessionID string) (*AvailabilityStatus, error)

	// ApplyAvailability is the watcher's apply callback; it persists the
	// evaluation onto the session.
	ApplyAvailability(sessionID string, result *availability.Result)
}

type service struct {
	store        Store
	hotelService hotels.Service
	watcher      *availability.Watcher
	log          *logger.Logger
}

func NewService(store Store, hotelService hotels.Service, log *logger.Logger) Service {
	return &service{
		store:        store,
		hotelService: hotelService,
		log:          log,
	}
}

func (s *service) SetWatcher(watcher *availability.Watcher) {
	s.watcher = watcher
}

func (s *service) Open(ctx context.Context, hotelID string, visitor Visitor) (*SessionResponse, error) {
	hotel, err := s.hotelService.Resolve(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &CheckoutSession{
		ID:            uuid.New().String(),
		HotelID:       hotel.ID.String(),
		HotelName:     hotel.Name,
		HotelLocation: hotel.Location,
		NightlyRate:   hotel.PricePerNight,
		Step:          StepAuth,
		Draft: BookingDraft{
			Guests: GuestCount{Adults: 2},
			Rooms:  1,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	// A signed-in visitor skips the auth step entirely
	if visitor.Authenticated {
		session.Authenticated = true
		session.UserID = visitor.UserID
		session.Email = visitor.Email
		session.Step = StepSummary
	}

	session.Draft.Reprice(session.NightlyRate)

	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save checkout session: %w", err)
	}

	s.log.LogCheckoutOpened(ctx, session.ID, session.HotelID, session.Authenticated)

	return s.toResponse(session), nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*SessionResponse, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(session), nil
}

func (s *service) CompleteAuth(ctx context.Context, sessionID string, req AuthRequest, visitor Visitor) (*SessionResponse, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if req.Mode == "login" {
		if !visitor.Authenticated {
			return nil, ErrLoginTokenRequired
		}
		session.UserID = visitor.UserID
		session.Email = visitor.Email
	}

	from := session.Step
	if err := session.CompleteAuth(); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save checkout session: %w", err)
	}

	s.log.LogStepChanged(ctx, session.ID, int(from), int(session.Step))

	return s.toResponse(session), nil
}

func (s *service) UpdateDraft(ctx context.Context, sessionID string, req UpdateDraftRequest) (*SessionResponse, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Step == StepConfirmed {
		return nil, ErrSessionConfirmed
	}

	if req.CheckIn != nil {
		session.Draft.CheckIn = *req.CheckIn
	}
	if req.CheckOut != nil {
		session.Draft.CheckOut = *req.CheckOut
	}
	if req.Guests != nil {
		guests := *req.Guests
		guests.Normalize()
		if guests.Total() == 0 {
			return nil, ErrGuestsRequired
		}
		session.Draft.Guests = guests
	}
	if req.Rooms != nil {
		session.Draft.Rooms = *req.Rooms
	}

	// Derived pricing is never left stale
	session.Draft.Reprice(session.NightlyRate)

	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save checkout session: %w", err)
	}

	if s.watcher != nil {
		s.watcher.Kick(session.ID, session.AvailabilityQuery())
	}

	return s.toResponse(session), nil
}

func (s *service) UpdateGuestInfo(ctx context.Context, sessionID string, req GuestInfoRequest) (*SessionResponse, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Step == StepConfirmed {
		return nil, ErrSessionConfirmed
	}

	session.Draft.GuestInfo = GuestInfo{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		SpecialRequests: req.SpecialRequests,
	}

	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save checkout session: %w", err)
	}

	return s.toResponse(session), nil
}

func (s *service) GoToStep(ctx context.Context, sessionID string, target int) (*SessionResponse, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	step := Step(target)
	if !step.Valid() {
		return nil, ErrStepNotReachable
	}

	from := session.Step
	if err := session.GoToStep(step); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save checkout session: %w", err)
	}

	s.log.LogStepChanged(ctx, session.ID, int(from), int(session.Step))

	return s.toResponse(session), nil
}

func (s *service) Availability(ctx context.Context, sessionID string) (*AvailabilityStatus, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	status := s.availabilityStatus(session)
	return &status, nil
}

func (s *service) ApplyAvailability(sessionID string, result *availability.Result) {
	ctx := context.Background()

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		// Session expired or confirmed between kick and apply
		s.log.Debug("dropping availability result",
			"session_id", sessionID, "error", err.Error())
		return
	}

	session.Availability = result
	if err := s.store.Save(ctx, session); err != nil {
		s.log.WithError(err).Error("failed to persist availability result", "session_id", sessionID)
		return
	}

	if result != nil {
		s.log.LogAvailabilityEvaluated(ctx, sessionID, string(result.Outcome), result.AvailableRoomCount, result.Sequence)
	}
}

func (s *service) toResponse(session *CheckoutSession) *SessionResponse {
	return &SessionResponse{
		ID:            session.ID,
		HotelID:       session.HotelID,
		HotelName:     session.HotelName,
		HotelLocation: session.HotelLocation,
		NightlyRate:   session.NightlyRate,
		Step:          int(session.Step),
		StepName:      session.Step.String(),
		Authenticated: session.Authenticated,
		Draft:         session.Draft,
		Availability:  s.availabilityStatus(session),
		CreatedAt:     session.CreatedAt,
		UpdatedAt:     session.UpdatedAt,
	}
}

func (s *service) availabilityStatus(session *CheckoutSession) AvailabilityStatus {
	status := AvailabilityStatus{}
	if s.watcher != nil {
		status.Checking = s.watcher.Checking(session.ID)
	}
	if session.Availability != nil {
		status.Result = &AvailabilityResult{
			Outcome:            string(session.Availability.Outcome),
			AvailableRoomCount: session.Availability.AvailableRoomCount,
			EvaluatedAt:        session.Availability.EvaluatedAt,
		}
	}
	return status
}
