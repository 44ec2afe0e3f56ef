package wallet

import (
	"context"
	"sync"

	"digital_wallet/internal/domain"

	"github.com/shopspring/decimal"
)

type fakeRecorder struct {
	mu        sync.Mutex
	completed int
	fees      domain.Amount
	rejected  map[string]int
	deposits  int
}

func (r *fakeRecorder) TransferCompleted(_, fee domain.Amount) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
	r.fees += fee
}

func (r *fakeRecorder) TransferRejected(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rejected == nil {
		r.rejected = map[string]int{}
	}
	r.rejected[reason]++
}

func (r *fakeRecorder) DepositCompleted(domain.Amount) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deposits++
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string][]HistoryEntry
	invalidated []uint
	gets        int
}

func (c *fakeCache) GetHistory(_ context.Context, _ uint, key string, dest any) (bool, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.entries[key]
	if ok {
		*(dest.(*[]HistoryEntry)) = v
	}
	return ok, 0, nil
}

func (c *fakeCache) SetHistory(_ context.Context, _ uint, _ int64, key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = map[string][]HistoryEntry{}
	}
	c.entries[key] = value.([]HistoryEntry)
	return nil
}

func (c *fakeCache) InvalidateHistory(_ context.Context, ids ...uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, ids...)
	return nil
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
