package webhooks

import (
	"context"
	"errors"

	"codeberg.org/codewithacp/server/codewithacp/payments"
	"github.com/stripe/stripe-go/v76"
)

var (
	ErrMissingSignature = errors.New("missing stripe-signature header")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedEvent   = errors.New("malformed event payload")
	ErrDeliveryInFlight = errors.New("webhook event is already being processed")
)

// event kinds the reconciler acts on
const (
	KindPaymentSucceeded = "payment_intent.succeeded"
	KindPaymentFailed    = "payment_intent.payment_failed"
	KindCheckoutComplete = "checkout.session.completed"
)

type Outcome string

const (
	// a payment status was written (or already had the target status)
	OutcomeApplied Outcome = "applied"
	// the event would move a payment out of a terminal status; acknowledged, not written
	OutcomeStale Outcome = "stale"
	// the event kind is not handled
	OutcomeIgnored Outcome = "ignored"
	// the delivery ledger has already seen this event id
	OutcomeDuplicate Outcome = "duplicate"
	// a side-effect hook ran
	OutcomeHook Outcome = "hook"
	// only reported to the recorder
	OutcomeError Outcome = "error"
)

type Result struct {
	EventID         string
	EventType       string
	Outcome         Outcome
	PaymentIntentID string
	Enrolled        bool
}

// checks a signed payload and returns the decoded event
type Verifier interface {
	Verify(payload []byte, signature string) (stripe.Event, error)
}

type PaymentStore interface {
	Transition(ctx context.Context, intentID string, status payments.Status) (*payments.Payment, payments.TransitionOutcome, error)
}

type Enroller interface {
	Enroll(ctx context.Context, userID, courseID string, paymentID *string) (bool, error)
}

// counts reconciled events
type Recorder interface {
	WebhookEvent(eventType, outcome string)
}

// remembers which event ids have been processed.
// Claim reports false when the id is already processed and
// ErrDeliveryInFlight while another delivery holds it.
type Ledger interface {
	Claim(ctx context.Context, eventID string) (bool, error)
	Complete(ctx context.Context, eventID string) error
	Release(ctx context.Context, eventID string) error
}

type Reconciler struct {
	verifier Verifier
	payments PaymentStore
	enroller Enroller
	ledger   Ledger
	recorder Recorder
}
