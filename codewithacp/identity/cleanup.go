package identity

import (
	"context"
	"time"

	"codeberg.org/codewithacp/server/internal/logger"
)

// anything that can purge expired sessions and verification tokens
type Purger interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// handles periodic removal of expired sessions and verification tokens
type CleanupService struct {
	store         Purger
	checkInterval time.Duration
	now           func() time.Time
}

// creates a new cleanup service
func NewCleanupService(store Purger, checkInterval time.Duration) *CleanupService {
	return &CleanupService{
		store:         store,
		checkInterval: checkInterval,
		now:           time.Now,
	}
}

// begins the cleanup service background loop
func (s *CleanupService) Start(ctx context.Context) {
	logger.Info("starting identity cleanup service",
		"check_interval", s.checkInterval,
	)

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("identity cleanup service stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// purges expired records once and reports how many were removed
func (s *CleanupService) RunOnce(ctx context.Context) int64 {
	removed, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		logger.ErrorErr(err, "failed to delete expired identity records")
		return removed
	}

	if removed > 0 {
		logger.Info("deleted expired identity records", "count", removed)
	}

	return removed
}
