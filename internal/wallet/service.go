// Package wallet implements the wallet account operations, the transfer
// engine and the viewer-relative transaction history.
package wallet

import (
	"context" // Request contexts
	"time"    // Clock

	"digital_wallet/internal/domain" // Domain models
	"digital_wallet/internal/store"  // Ledger store

	"github.com/sirupsen/logrus" // Logging library
)

// HistoryCache caches history results per user. Implemented by utils.Cache.
type HistoryCache interface {
	// GetHistory reports a hit and the ledger version it looked under.
	GetHistory(ctx context.Context, userID uint, rangeKey string, dest any) (bool, int64, error)
	// SetHistory stores value under the version returned by GetHistory.
	SetHistory(ctx context.Context, userID uint, version int64, rangeKey string, value any) error
	InvalidateHistory(ctx context.Context, userIDs ...uint) error
}

// Recorder receives business metrics. Implemented by metrics.Collector.
type Recorder interface {
	TransferCompleted(amount, fee domain.Amount)
	TransferRejected(reason string)
	DepositCompleted(amount domain.Amount)
}

// Service is the wallet account, transfer engine and history classifier.
// It holds no mutable state; correctness under concurrency comes from the store.
type Service struct {
	store   store.Store
	cache   HistoryCache
	metrics Recorder
	now     func() time.Time
}

// NewService creates a wallet service. cache and metrics may be nil.
func NewService(st store.Store, cache HistoryCache, metrics Recorder) *Service {
	if cache == nil {
		cache = noopCache{} // Caching disabled
	}
	if metrics == nil {
		metrics = noopRecorder{} // Metrics disabled
	}
	return &Service{
		store:   st,
		cache:   cache,
		metrics: metrics,
		now:     func() time.Time { return time.Now().UTC() }, // Replaced in tests
	}
}

// invalidate drops cached history for users whose ledger just changed
func (s *Service) invalidate(ctx context.Context, userIDs ...uint) {
	if err := s.cache.InvalidateHistory(ctx, userIDs...); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_ids": userIDs,     // Affected users
			"error":    err.Error(), // Error message
		}).Warn("History cache invalidation failed")
	}
}

type noopCache struct{}

func (noopCache) GetHistory(context.Context, uint, string, any) (bool, int64, error) {
	return false, 0, nil
}
func (noopCache) SetHistory(context.Context, uint, int64, string, any) error { return nil }
func (noopCache) InvalidateHistory(context.Context, ...uint) error           { return nil }

type noopRecorder struct{}

func (noopRecorder) TransferCompleted(domain.Amount, domain.Amount) {}
func (noopRecorder) TransferRejected(string)                        {}
func (noopRecorder) DepositCompleted(domain.Amount)                 {}
