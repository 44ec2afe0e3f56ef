package testutil

import (
	"testing"
	"time"

	"digital_wallet/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// NewCache starts an in-process Redis and returns a cache over it.
// The server is shut down when the test ends.
func NewCache(t *testing.T) (*utils.Cache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return utils.NewCache(rdb, time.Minute), srv
}
