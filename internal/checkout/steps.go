package checkout

import "errors"

var (
	// ErrAuthRequired blocks the summary and payment steps for visitors
	// who have neither signed in nor continued as guest.
	ErrAuthRequired = errors.New("sign in or continue as guest first")

	// ErrGuestInfoIncomplete blocks Summary -> Payment until first name,
	// last name, email and phone are all filled.
	ErrGuestInfoIncomplete = errors.New("guest contact details are incomplete")

	// ErrPaymentRequired marks transitions into Confirmed that did not
	// come from a successful payment.
	ErrPaymentRequired = errors.New("confirmation requires a successful payment")

	// ErrSessionConfirmed rejects mutations of a finished session.
	ErrSessionConfirmed = errors.New("checkout session is already confirmed")

	// ErrStepNotReachable rejects jumps the transition rules don't allow.
	ErrStepNotReachable = errors.New("requested step is not reachable")
)

// CompleteAuth finishes the auth step, for both a completed login and an
// explicit continue-as-guest.
func (s *CheckoutSession) CompleteAuth() error {
	if s.Step == StepConfirmed {
		return ErrSessionConfirmed
	}

	s.Authenticated = true
	if s.Step == StepAuth {
		s.Step = StepSummary
	}
	return nil
}

// CompleteStep advances past the current step, enforcing its exit rule.
// Payment never advances here; only a successful charge confirms.
func (s *CheckoutSession) CompleteStep() error {
	switch s.Step {
	case StepAuth:
		return s.CompleteAuth()
	case StepSummary:
		if !s.Draft.GuestInfo.Complete() {
			return ErrGuestInfoIncomplete
		}
		s.Step = StepPayment
		return nil
	case StepPayment:
		return ErrPaymentRequired
	case StepConfirmed:
		return ErrSessionConfirmed
	default:
		return ErrStepNotReachable
	}
}

// GoToStep moves the wizard directly to a step. Going back to auth is
// always allowed; summary and payment require the auth step to be done,
// and payment additionally requires complete guest info. Confirmed is
// never reachable by navigation.
func (s *CheckoutSession) GoToStep(target Step) error {
	if s.Step == StepConfirmed {
		return ErrSessionConfirmed
	}

	switch target {
	case StepAuth:
		s.Step = StepAuth
		return nil
	case StepSummary:
		if !s.Authenticated {
			return ErrAuthRequired
		}
		s.Step = StepSummary
		return nil
	case StepPayment:
		if !s.Authenticated {
			return ErrAuthRequired
		}
		if !s.Draft.GuestInfo.Complete() {
			return ErrGuestInfoIncomplete
		}
		s.Step = StepPayment
		return nil
	case StepConfirmed:
		return ErrPaymentRequired
	default:
		return ErrStepNotReachable
	}
}

// MarkConfirmed transitions into the terminal step. Only the booking
// confirmation flow calls this, after a successful charge.
func (s *CheckoutSession) MarkConfirmed() {
	s.Step = StepConfirmed
}
