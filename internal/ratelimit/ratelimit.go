package ratelimit

import (
	"fmt"

	apperrors "codeberg.org/codewithacp/server/internal/errors"
	"codeberg.org/codewithacp/server/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const keyPrefix = "codewithacp:ratelimit"

// default limits per client, in ulule's "<limit>-<period>" format
const (
	PaymentsRate = "20-M"
	AuthRate     = "30-M"
	WebhookRate  = "300-M"
)

// notified whenever a request is rejected
type Recorder interface {
	RateLimited(scope string)
}

// returns a redis-backed store when a client is given, else an in-process one
func NewStore(client *redis.Client) (limiter.Store, error) {
	if client == nil {
		return memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          keyPrefix,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		}), nil
	}

	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   keyPrefix,
		MaxRetry: 3,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
	}

	return store, nil
}

// builds a gin middleware enforcing formatted per client under the given scope.
// clients are keyed by user id when authenticated, else by ip.
func Middleware(store limiter.Store, scope, formatted string, recorder Recorder) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q for %s: %w", formatted, scope, err)
	}

	instance := limiter.New(store, rate)

	return mgin.NewMiddleware(
		instance,
		mgin.WithKeyGetter(func(c *gin.Context) string {
			return scope + ":" + clientKey(c)
		}),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			logger.FromContext(c.Request.Context()).Warn("rate limit exceeded",
				"scope", scope,
				"client", clientKey(c),
			)

			if recorder != nil {
				recorder.RateLimited(scope)
			}

			apperrors.TooManyRequests(c, "")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			// fail open
			logger.FromContext(c.Request.Context()).Warn("rate limiter unavailable", "scope", scope, "error", err)
			c.Next()
		}),
	), nil
}

func clientKey(c *gin.Context) string {
	if userID, ok := c.Get("user_id"); ok {
		if id, ok := userID.(string); ok && id != "" {
			return "user:" + id
		}
	}

	return "ip:" + c.ClientIP()
}
