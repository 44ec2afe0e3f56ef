package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Error values
	"fmt"           // Key formatting
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"github.com/sony/gobreaker"    // Circuit breaker
)

// Cache wraps Redis for JSON values, history versioning and revoked tokens.
// Every call goes through a circuit breaker so a Redis outage fails fast.
type Cache struct {
	rdb *redis.Client             // Redis client
	cb  *gobreaker.CircuitBreaker // Breaker around all Redis calls
	ttl time.Duration             // Default TTL for cached values
}

// NewCache creates a cache over rdb with a default value TTL
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	settings := gobreaker.Settings{
		Name:    "redis",          // Breaker name used in logs
		Timeout: 30 * time.Second, // Time spent open before probing again
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5 // Trip after 5 consecutive failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil) // A miss is not a failure
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logrus.WithFields(logrus.Fields{
				"breaker": name,          // Breaker name
				"from":    from.String(), // Previous state
				"to":      to.String(),   // New state
			}).Warn("Cache circuit breaker state changed")
		},
	}
	return &Cache{rdb: rdb, cb: gobreaker.NewCircuitBreaker(settings), ttl: ttl}
}

// exec runs fn under the circuit breaker
func (c *Cache) exec(fn func() (any, error)) (any, error) {
	return c.cb.Execute(fn)
}

// Ping checks the Redis connection
func (c *Cache) Ping(ctx context.Context) error {
	_, err := c.exec(func() (any, error) {
		return nil, c.rdb.Ping(ctx).Err()
	})
	return err
}

// Get retrieves a value from Redis and unmarshals it into dest
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.exec(func() (any, error) {
		return c.rdb.Get(ctx, key).Bytes() // Get value from Redis
	})
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error or open breaker
	}
	return true, json.Unmarshal(val.([]byte), dest) // Unmarshal JSON into dest
}

// Set stores a value in Redis with a specified TTL, or the default TTL when ttl is zero
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	if ttl == 0 {
		ttl = c.ttl
	}
	_, err = c.exec(func() (any, error) {
		return nil, c.rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
	})
	return err
}

// HistoryVersionKey is the per-user counter bumped whenever the user's ledger changes
func HistoryVersionKey(userID uint) string {
	return fmt.Sprintf("txhistory:user:%d:version", userID)
}

// HistoryKey is the cache key of one history page for a user at a ledger version
func HistoryKey(userID uint, version int64, rangeKey string) string {
	return fmt.Sprintf("txhistory:user:%d:v%d:%s", userID, version, rangeKey)
}

// historyVersion reads the user's current history version, zero when unset
func (c *Cache) historyVersion(ctx context.Context, userID uint) (int64, error) {
	v, err := c.exec(func() (any, error) {
		return c.rdb.Get(ctx, HistoryVersionKey(userID)).Int64()
	})
	if errors.Is(err, redis.Nil) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// GetHistory loads a cached history result for the user's current ledger version.
// The version it read is returned so a result computed afterwards is stored under
// that version and not a newer one.
func (c *Cache) GetHistory(ctx context.Context, userID uint, rangeKey string, dest any) (bool, int64, error) {
	version, err := c.historyVersion(ctx, userID) // Read the version once
	if err != nil {
		return false, 0, err
	}
	found, err := c.Get(ctx, HistoryKey(userID, version, rangeKey), dest)
	return found, version, err
}

// SetHistory caches a history result under the given ledger version.
// A result read before an invalidation lands under the old, unreachable version.
func (c *Cache) SetHistory(ctx context.Context, userID uint, version int64, rangeKey string, value any) error {
	return c.Set(ctx, HistoryKey(userID, version, rangeKey), value, 0) // Store with the default TTL
}

// InvalidateHistory bumps the history version of every given user.
// Entries cached under older versions expire on their own TTL.
func (c *Cache) InvalidateHistory(ctx context.Context, userIDs ...uint) error {
	_, err := c.exec(func() (any, error) {
		pipe := c.rdb.TxPipeline()
		for _, id := range userIDs {
			pipe.Incr(ctx, HistoryVersionKey(id))
		}
		_, err := pipe.Exec(ctx)
		return nil, err
	})
	return err
}

// revokedKey is the Redis key marking a token ID as logged out
func revokedKey(jti string) string {
	return "revoked:token:" + jti
}

// RevokeToken marks a token ID as revoked until the token would have expired anyway
func (c *Cache) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil // Already expired, nothing to remember
	}
	_, err := c.exec(func() (any, error) {
		return nil, c.rdb.Set(ctx, revokedKey(jti), 1, ttl).Err()
	})
	return err
}

// IsTokenRevoked reports whether a token ID was revoked by logout
func (c *Cache) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := c.exec(func() (any, error) {
		return c.rdb.Exists(ctx, revokedKey(jti)).Result()
	})
	if err != nil {
		return false, err
	}
	return n.(int64) > 0, nil
}
