package billing

import (
	"context"

	"github.com/stripe/stripe-go/v76/client"
	"golang.org/x/time/rate"
)

// creates payment intents with the payment processor
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}

type IntentRequest struct {
	AmountMinor   int64
	Currency      string
	PaymentMethod string
	Metadata      map[string]string
}

// the parts of a created intent the client needs to confirm payment
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
}

// Gateway backed by the Stripe API
type StripeGateway struct {
	api     *client.API
	limiter *rate.Limiter
}

// verifies Stripe-Signature headers against the endpoint secret
type WebhookVerifier struct {
	secret string
}
