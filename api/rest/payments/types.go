package payments

import (
	"context"

	"codeberg.org/codewithacp/server/codewithacp/courses"
	"codeberg.org/codewithacp/server/codewithacp/payments"
	"codeberg.org/codewithacp/server/internal/billing"
	"codeberg.org/codewithacp/server/internal/webhooks"
)

// webhook bodies larger than this are rejected
const maxWebhookBody = 1 << 20

var allowedPaymentMethods = []string{"card", "google_pay", "upi"}

type PaymentStore interface {
	Create(ctx context.Context, payment *payments.Payment) (*payments.Payment, error)
	ListForUser(ctx context.Context, userID string) ([]payments.Payment, error)
}

type CourseFinder interface {
	GetByID(ctx context.Context, id string) (*courses.Course, error)
}

type Reconciler interface {
	Reconcile(ctx context.Context, payload []byte, signature string) (*webhooks.Result, error)
}

// counts payment intent attempts
type Recorder interface {
	PaymentIntent(result string)
}

type Dependencies struct {
	Gateway    billing.Gateway
	Payments   PaymentStore
	Courses    CourseFinder
	Reconciler Reconciler
	Recorder   Recorder
}

// body of POST /payments/create-payment-intent
type CreatePaymentIntentRequest struct {
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	CourseID      string  `json:"courseId,omitempty"`
	PlanID        string  `json:"planId,omitempty"`
	PaymentMethod string  `json:"paymentMethod,omitempty"`
}

type CreatePaymentIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}

type ListPaymentsResponse struct {
	Payments []payments.Payment `json:"payments"`
}
