package billing

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"golang.org/x/time/rate"
)

const (
	// stays well under Stripe's live-mode limit of 100 requests per second
	defaultRequestsPerSecond = 25
	defaultBurst             = 5

	DefaultCurrency = "usd"
)

// creates a Stripe-backed gateway with a client-side request limiter
func NewStripeGateway(secretKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeGateway{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultBurst),
	}
}

// creates a payment intent with automatic payment methods enabled
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	if req.AmountMinor <= 0 {
		return nil, fmt.Errorf("invalid amount: %d", req.AmountMinor)
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("stripe rate limiter: %w", err)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountMinor),
		Currency: stripe.String(NormalizeCurrency(req.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	for key, value := range req.Metadata {
		params.AddMetadata(key, value)
	}

	if req.PaymentMethod != "" {
		params.AddMetadata("payment_method", req.PaymentMethod)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
	}, nil
}

// converts a major-unit amount to minor units, rounding half away from zero
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// lower-cases the currency code, falling back to usd
func NormalizeCurrency(currency string) string {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		return DefaultCurrency
	}

	return currency
}
