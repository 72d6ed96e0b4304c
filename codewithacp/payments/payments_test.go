package payments

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var paymentCols = []string{
	"id", "user_id", "course_id", "stripe_payment_intent_id", "amount",
	"currency", "payment_method", "status", "created_at", "updated_at",
}

func strPtr(s string) *string { return &s }

func paymentRow(status Status) []any {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	return []any{"p-1", "u-1", strPtr("c-1"), "pi_123", int64(4900), "usd", "card", string(status), now, now}
}

func newMockRepo(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewRepository(mock), mock
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusFailed, true},
		{StatusFailed, StatusCompleted, true},
		{StatusFailed, StatusFailed, false},
		{StatusCompleted, StatusFailed, false},
		{StatusCompleted, StatusCompleted, false},
		{StatusCompleted, StatusPending, false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCreate_DefaultsToPending(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payments")).
		WithArgs("u-1", pgxmock.AnyArg(), "pi_123", int64(4900), "usd", "card", "PENDING").
		WillReturnRows(pgxmock.NewRows(paymentCols).AddRow(paymentRow(StatusPending)...))

	payment, err := repo.Create(context.Background(), &Payment{
		UserID:                "u-1",
		CourseID:              strPtr("c-1"),
		StripePaymentIntentID: "pi_123",
		Amount:                4900,
		Currency:              "usd",
		PaymentMethod:         "card",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, payment.Status)
	assert.Equal(t, "c-1", *payment.CourseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_Changed(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE payments")).
		WithArgs("pi_123", "COMPLETED").
		WillReturnRows(pgxmock.NewRows(paymentCols).AddRow(paymentRow(StatusCompleted)...))

	payment, outcome, err := repo.Transition(context.Background(), "pi_123", StatusCompleted)

	require.NoError(t, err)
	assert.Equal(t, TransitionChanged, outcome)
	assert.Equal(t, StatusCompleted, payment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_RepeatedStatusIsUnchanged(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE payments")).
		WithArgs("pi_123", "COMPLETED").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("FROM payments")).
		WithArgs("pi_123").
		WillReturnRows(pgxmock.NewRows(paymentCols).AddRow(paymentRow(StatusCompleted)...))

	payment, outcome, err := repo.Transition(context.Background(), "pi_123", StatusCompleted)

	require.NoError(t, err)
	assert.Equal(t, TransitionUnchanged, outcome)
	assert.Equal(t, StatusCompleted, payment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_LateFailureIsStale(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE payments")).
		WithArgs("pi_123", "FAILED").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("FROM payments")).
		WithArgs("pi_123").
		WillReturnRows(pgxmock.NewRows(paymentCols).AddRow(paymentRow(StatusCompleted)...))

	payment, outcome, err := repo.Transition(context.Background(), "pi_123", StatusFailed)

	require.NoError(t, err)
	assert.Equal(t, TransitionStale, outcome)
	assert.Equal(t, StatusCompleted, payment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_GuardDisagreesWithRules(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE payments")).
		WithArgs("pi_123", "COMPLETED").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("FROM payments")).
		WithArgs("pi_123").
		WillReturnRows(pgxmock.NewRows(paymentCols).AddRow(paymentRow(StatusPending)...))

	_, _, err := repo.Transition(context.Background(), "pi_123", StatusCompleted)

	assert.ErrorIs(t, err, ErrTransitionRejected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_UnknownIntent(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE payments")).
		WithArgs("pi_missing", "COMPLETED").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("FROM payments")).
		WithArgs("pi_missing").
		WillReturnError(pgx.ErrNoRows)

	_, _, err := repo.Transition(context.Background(), "pi_missing", StatusCompleted)

	assert.ErrorIs(t, err, ErrPaymentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_DatabaseError(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("connection refused")

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE payments")).
		WithArgs("pi_123", "COMPLETED").
		WillReturnError(boom)

	_, _, err := repo.Transition(context.Background(), "pi_123", StatusCompleted)

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListForUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows(paymentCols).
			AddRow(paymentRow(StatusCompleted)...).
			AddRow(paymentRow(StatusFailed)...))

	payments, err := repo.ListForUser(context.Background(), "u-1")

	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, StatusCompleted, payments[0].Status)
	assert.Equal(t, StatusFailed, payments[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListForUser_Empty(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM payments")).
		WithArgs("u-2").
		WillReturnRows(pgxmock.NewRows(paymentCols))

	payments, err := repo.ListForUser(context.Background(), "u-2")

	require.NoError(t, err)
	assert.NotNil(t, payments)
	assert.Empty(t, payments)
}
