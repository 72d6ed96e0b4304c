package webhooks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyDeliveredEvent = "codewithacp:webhooks:event:%s"

	ledgerProcessing = "processing"
	ledgerProcessed  = "processed"

	// Stripe retries failed deliveries for up to three days
	DefaultLedgerTTL = 72 * time.Hour

	// how long a claim survives a crashed worker before another delivery may take it
	DefaultClaimLease = 30 * time.Second
)

// Ledger backed by redis. a claim is a short lease; only Complete keeps the id for the full ttl.
type RedisLedger struct {
	client *redis.Client
	lease  time.Duration
	ttl    time.Duration
}

func NewRedisLedger(client *redis.Client, ttl time.Duration) *RedisLedger {
	if ttl <= 0 {
		ttl = DefaultLedgerTTL
	}

	return &RedisLedger{client: client, lease: DefaultClaimLease, ttl: ttl}
}

// returns ErrDeliveryInFlight when another delivery holds an unexpired lease
func (l *RedisLedger) Claim(ctx context.Context, eventID string) (bool, error) {
	key := fmt.Sprintf(keyDeliveredEvent, eventID)

	claimed, err := l.client.SetNX(ctx, key, ledgerProcessing, l.lease).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim webhook event: %w", err)
	}

	if claimed {
		return true, nil
	}

	state, err := l.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		// lease expired between the two calls
		return l.Claim(ctx, eventID)
	}

	if err != nil {
		return false, fmt.Errorf("failed to read webhook event claim: %w", err)
	}

	if state == ledgerProcessing {
		return false, ErrDeliveryInFlight
	}

	return false, nil
}

// marks the event processed for the full ttl
func (l *RedisLedger) Complete(ctx context.Context, eventID string) error {
	if err := l.client.Set(ctx, fmt.Sprintf(keyDeliveredEvent, eventID), ledgerProcessed, l.ttl).Err(); err != nil {
		return fmt.Errorf("failed to complete webhook event: %w", err)
	}

	return nil
}

// frees the claim so a retried delivery is processed again
func (l *RedisLedger) Release(ctx context.Context, eventID string) error {
	if err := l.client.Del(ctx, fmt.Sprintf(keyDeliveredEvent, eventID)).Err(); err != nil {
		return fmt.Errorf("failed to release webhook event: %w", err)
	}

	return nil
}

// Ledger that claims every event; used when redis is not configured
type NopLedger struct{}

func (NopLedger) Claim(context.Context, string) (bool, error) { return true, nil }

func (NopLedger) Complete(context.Context, string) error { return nil }

func (NopLedger) Release(context.Context, string) error { return nil }
