package webhooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/codewithacp/server/codewithacp/payments"
	"codeberg.org/codewithacp/server/internal/logger"
	"github.com/stripe/stripe-go/v76"
)

// creates a reconciler; a nil ledger disables duplicate detection
func NewReconciler(
	verifier Verifier,
	paymentStore PaymentStore,
	enroller Enroller,
	ledger Ledger,
	recorder Recorder,
) *Reconciler {
	if ledger == nil {
		ledger = NopLedger{}
	}

	return &Reconciler{
		verifier: verifier,
		payments: paymentStore,
		enroller: enroller,
		ledger:   ledger,
		recorder: recorder,
	}
}

// verifies a webhook delivery and applies it to stored payment state.
// signature failures wrap ErrMissingSignature or ErrInvalidSignature;
// any other error means the delivery should be retried.
func (r *Reconciler) Reconcile(ctx context.Context, payload []byte, signature string) (*Result, error) {
	if strings.TrimSpace(signature) == "" {
		return nil, ErrMissingSignature
	}

	event, err := r.verifier.Verify(payload, signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	eventType := string(event.Type)
	log := logger.FromContext(ctx).With("event_id", event.ID, "event_type", eventType)

	claimed, err := r.ledger.Claim(ctx, event.ID)
	if errors.Is(err, ErrDeliveryInFlight) {
		log.Info("webhook delivery already in flight, asking for retry")
		r.record(eventType, OutcomeError)
		return nil, err
	}

	if err != nil {
		log.Warn("webhook ledger unavailable, processing without dedupe", "error", err)
		claimed = true
	}

	if !claimed {
		log.Info("duplicate webhook delivery acknowledged")
		r.record(eventType, OutcomeDuplicate)
		return &Result{EventID: event.ID, EventType: eventType, Outcome: OutcomeDuplicate}, nil
	}

	result, err := r.dispatch(ctx, event)

	// the request context may already be canceled here
	ledgerCtx := context.WithoutCancel(ctx)

	if err != nil {
		if releaseErr := r.ledger.Release(ledgerCtx, event.ID); releaseErr != nil {
			log.Warn("failed to release webhook ledger claim", "error", releaseErr)
		}

		r.record(eventType, OutcomeError)
		return nil, err
	}

	if completeErr := r.ledger.Complete(ledgerCtx, event.ID); completeErr != nil {
		log.Warn("failed to mark webhook event processed", "error", completeErr)
	}

	result.EventID = event.ID
	result.EventType = eventType
	r.record(eventType, result.Outcome)

	log.Info("webhook reconciled",
		"outcome", result.Outcome,
		"payment_intent_id", result.PaymentIntentID,
	)

	return result, nil
}

func (r *Reconciler) dispatch(ctx context.Context, event stripe.Event) (*Result, error) {
	switch string(event.Type) {
	case KindPaymentSucceeded:
		return r.applyPaymentStatus(ctx, event, payments.StatusCompleted)
	case KindPaymentFailed:
		return r.applyPaymentStatus(ctx, event, payments.StatusFailed)
	case KindCheckoutComplete:
		return r.checkoutCompleted(ctx, event)
	default:
		logger.FromContext(ctx).Info("unhandled webhook event type", "event_type", string(event.Type))
		return &Result{Outcome: OutcomeIgnored}, nil
	}
}

func (r *Reconciler) applyPaymentStatus(ctx context.Context, event stripe.Event, status payments.Status) (*Result, error) {
	var intent stripe.PaymentIntent
	if err := decodeObject(event, &intent); err != nil {
		return nil, err
	}

	if intent.ID == "" {
		return nil, fmt.Errorf("%w: payment intent without id", ErrMalformedEvent)
	}

	payment, outcome, err := r.payments.Transition(ctx, intent.ID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to apply %s to %s: %w", status, intent.ID, err)
	}

	result := &Result{Outcome: OutcomeApplied, PaymentIntentID: intent.ID}

	if outcome == payments.TransitionStale {
		logger.FromContext(ctx).Warn("stale payment transition ignored",
			"payment_intent_id", intent.ID,
			"current_status", payment.Status,
			"requested_status", status,
		)

		result.Outcome = OutcomeStale
		return result, nil
	}

	if status == payments.StatusCompleted && payment.CourseID != nil && r.enroller != nil {
		paymentID := payment.ID

		enrolled, err := r.enroller.Enroll(ctx, payment.UserID, *payment.CourseID, &paymentID)
		if err != nil {
			return nil, fmt.Errorf("failed to enroll after payment %s: %w", intent.ID, err)
		}

		result.Enrolled = enrolled
	}

	return result, nil
}

// enrollment hook for hosted checkout sessions
func (r *Reconciler) checkoutCompleted(ctx context.Context, event stripe.Event) (*Result, error) {
	var session stripe.CheckoutSession
	if err := decodeObject(event, &session); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("checkout completed", "checkout_session_id", session.ID)

	result := &Result{Outcome: OutcomeHook}

	userID := session.Metadata["user_id"]
	courseID := session.Metadata["course_id"]

	if userID == "" || courseID == "" || r.enroller == nil {
		return result, nil
	}

	enrolled, err := r.enroller.Enroll(ctx, userID, courseID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to enroll after checkout %s: %w", session.ID, err)
	}

	result.Enrolled = enrolled
	return result, nil
}

func (r *Reconciler) record(eventType string, outcome Outcome) {
	if r.recorder != nil {
		r.recorder.WebhookEvent(eventType, string(outcome))
	}
}

func decodeObject(event stripe.Event, target any) error {
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return fmt.Errorf("%w: event %s has no data object", ErrMalformedEvent, event.ID)
	}

	if err := json.Unmarshal(event.Data.Raw, target); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	return nil
}

// reports whether the error is a signature failure (client error, no retry)
func IsSignatureError(err error) bool {
	return errors.Is(err, ErrMissingSignature) || errors.Is(err, ErrInvalidSignature)
}
