package wallet

import (
	"context" // Request contexts
	"fmt"     // Cache key formatting
	"time"    // Range arithmetic

	"digital_wallet/internal/apperr" // Error kinds
	"digital_wallet/internal/domain" // Domain models

	"github.com/sirupsen/logrus" // Logging library
)

// MaxHistoryMonths bounds the span of a history query.
const MaxHistoryMonths = 3

// HistoryRange selects transactions created in [Start, End).
// A nil Start defaults to End minus three months, a nil End to now.
type HistoryRange struct {
	Start *time.Time
	End   *time.Time
}

// HistoryEntry is a transaction annotated for one viewer.
type HistoryEntry struct {
	ID           uint                   `json:"id"`
	Type         domain.TransactionType `json:"type"`
	Status       domain.Status          `json:"status"`
	Amount       domain.Amount          `json:"amount"`
	Counterparty *domain.UserSummary    `json:"counterparty_user"`
	CreatedAt    time.Time              `json:"created_at"`
}

// ListTransactions returns the viewer's transactions in the range, oldest first,
// each classified relative to viewerID.
func (s *Service) ListTransactions(ctx context.Context, viewerID uint, r HistoryRange) ([]HistoryEntry, error) {
	const op = "wallet.ListTransactions"
	end := s.now() // Default end is now
	if r.End != nil {
		end = r.End.UTC()
	}
	start := end.AddDate(0, -MaxHistoryMonths, 0) // Default start is three months back
	if r.Start != nil {
		start = r.Start.UTC()
	}
	if end.Before(start) {
		return nil, apperr.Validation(op, "end_date", "The end date field must be a date after or equal to start date.")
	}
	if end.After(start.AddDate(0, MaxHistoryMonths, 0)) {
		return nil, apperr.Validation(op, "end_date", "Date range exceeds 3 months")
	}

	// Open-ended ranges move with the clock and would never hit the cache.
	cacheable := r.Start != nil && r.End != nil
	rangeKey := fmt.Sprintf("%d-%d", start.UnixNano(), end.UnixNano())
	var version int64 // Ledger version the result is cached under
	if cacheable {
		var cached []HistoryEntry
		found, v, err := s.cache.GetHistory(ctx, viewerID, rangeKey, &cached)
		switch {
		case err != nil:
			cacheable = false // Version unknown, skip the write as well
		case found:
			return cached, nil
		default:
			version = v
		}
	}

	txs, err := s.store.ListTransactions(ctx, viewerID, start, end) // Oldest first
	if err != nil {
		return nil, apperr.Storage(op, err)
	}

	ids := make([]uint, 0, len(txs))
	for _, tx := range txs {
		if id := domain.CounterpartyID(tx, viewerID, tx.SourceUserID); id != nil {
			ids = append(ids, *id)
		}
	}
	users, err := s.store.UsersByIDs(ctx, ids) // One query for all counterparties
	if err != nil {
		return nil, apperr.Storage(op, err)
	}

	entries := make([]HistoryEntry, 0, len(txs))
	for _, tx := range txs {
		entry := HistoryEntry{
			ID:        tx.ID,
			Type:      tx.Type,
			Status:    domain.Classify(tx, viewerID), // Relative to the viewer
			Amount:    tx.Amount,
			CreatedAt: tx.CreatedAt,
		}
		if id := domain.CounterpartyID(tx, viewerID, tx.SourceUserID); id != nil {
			if u, ok := users[*id]; ok {
				summary := u.Summary()
				entry.Counterparty = &summary
			}
		}
		entries = append(entries, entry)
	}

	if cacheable {
		if err := s.cache.SetHistory(ctx, viewerID, version, rangeKey, entries); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": viewerID,    // Viewer
				"error":   err.Error(), // Error message
			}).Warn("History cache write failed")
		}
	}
	return entries, nil
}
