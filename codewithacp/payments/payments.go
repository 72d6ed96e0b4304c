package payments

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/codewithacp/server/internal/database"
	"github.com/jackc/pgx/v5"
)

var (
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrTransitionRejected = errors.New("payment status update rejected")
)

func NewRepository(db database.DB) *Repository {
	return &Repository{db: db}
}

// records a freshly created payment intent
func (r *Repository) Create(ctx context.Context, payment *Payment) (*Payment, error) {
	status := payment.Status
	if status == "" {
		status = StatusPending
	}

	created, err := scanPayment(r.db.QueryRow(
		ctx,
		queryCreate,
		payment.UserID,
		payment.CourseID,
		payment.StripePaymentIntentID,
		payment.Amount,
		payment.Currency,
		payment.PaymentMethod,
		string(status),
	))

	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return created, nil
}

func (r *Repository) FindByIntentID(ctx context.Context, intentID string) (*Payment, error) {
	payment, err := scanPayment(r.db.QueryRow(ctx, queryFindByIntentID, intentID))

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}

	return payment, nil
}

// moves the payment for intentID to status, refusing transitions out of a terminal state
func (r *Repository) Transition(ctx context.Context, intentID string, status Status) (*Payment, TransitionOutcome, error) {
	payment, err := scanPayment(r.db.QueryRow(ctx, queryTransition, intentID, string(status)))
	if err == nil {
		return payment, TransitionChanged, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, TransitionStale, fmt.Errorf("failed to update payment status: %w", err)
	}

	// nothing updated: either the row is missing or the guard rejected it
	current, err := r.FindByIntentID(ctx, intentID)
	if err != nil {
		return nil, TransitionStale, err
	}

	if current.Status == status {
		return current, TransitionUnchanged, nil
	}

	if CanTransition(current.Status, status) {
		// the guard refused a move the status rules allow; retry rather than drop the event
		return current, TransitionStale, fmt.Errorf("%w: %s %s -> %s", ErrTransitionRejected, intentID, current.Status, status)
	}

	return current, TransitionStale, nil
}

// returns the user's payments, newest first
func (r *Repository) ListForUser(ctx context.Context, userID string) ([]Payment, error) {
	rows, err := r.db.Query(ctx, queryListByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	defer rows.Close()
	payments := []Payment{}

	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}

		payments = append(payments, *payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return payments, nil
}

func scanPayment(row pgx.Row) (*Payment, error) {
	var (
		p      Payment
		status string
	)

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.CourseID,
		&p.StripePaymentIntentID,
		&p.Amount,
		&p.Currency,
		&p.PaymentMethod,
		&status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	p.Status = Status(status)
	return &p, nil
}
