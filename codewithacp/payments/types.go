package payments

import (
	"time"

	"codeberg.org/codewithacp/server/internal/database"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// result of applying a status to a stored payment
type TransitionOutcome int

const (
	// the row moved to the new status
	TransitionChanged TransitionOutcome = iota
	// the row already had the requested status
	TransitionUnchanged
	// the row has a status the requested one may not replace
	TransitionStale
)

type Repository struct {
	db database.DB
}

type Payment struct {
	ID                    string    `json:"id"`
	UserID                string    `json:"user_id"`
	CourseID              *string   `json:"course_id,omitempty"`
	StripePaymentIntentID string    `json:"stripe_payment_intent_id"`
	Amount                int64     `json:"amount"`
	Currency              string    `json:"currency"`
	PaymentMethod         string    `json:"payment_method"`
	Status                Status    `json:"status"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// reports whether a payment in status from may move to status to.
// COMPLETED is terminal, FAILED may still complete on retry.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusCompleted || to == StatusFailed
	case StatusFailed:
		return to == StatusCompleted
	default:
		return false
	}
}
