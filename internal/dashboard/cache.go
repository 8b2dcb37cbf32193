package dashboard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"admissions_crm_backend/internal/leads/domain"
	"admissions_crm_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "dashboard:metrics:"

// defaultCacheTTL keeps entries short-lived; day-boundary counters make the
// hash itself rotate daily, the TTL just bounds memory.
const defaultCacheTTL = 5 * time.Minute

// Cache memoizes computed metrics in Redis, keyed by a content hash of the
// aggregator inputs. Compute is deterministic for a snapshot, so a hash hit
// can serve the stored result without recomputing.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

// NewCache creates a metrics cache. A zero ttl falls back to the default.
func NewCache(rdb *redis.Client, ttl time.Duration, log *logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{rdb: rdb, ttl: ttl, log: log}
}

// SnapshotKey derives the cache key for a snapshot. The day component is part
// of the key because "today" counters change at midnight even when the data
// does not.
func SnapshotKey(leads []domain.Lead, statuses []domain.Status, advisors []Advisor, now time.Time) string {
	hasher := sha256.New()

	encoder := json.NewEncoder(hasher)
	// Encoding errors cannot occur for these plain structs.
	_ = encoder.Encode(leads)
	_ = encoder.Encode(statuses)
	_ = encoder.Encode(advisors)
	_ = encoder.Encode(now.Format("2006-01-02"))

	return cacheKeyPrefix + hex.EncodeToString(hasher.Sum(nil))
}

// Get returns the cached metrics for key, if present. Cache failures degrade
// to a miss; the caller recomputes.
func (c *Cache) Get(ctx context.Context, key string) (Metrics, bool) {
	if c == nil || c.rdb == nil {
		return Metrics{}, false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil && c.log != nil {
			c.log.Warn("dashboard cache read failed", "error", err)
		}
		return Metrics{}, false
	}

	var metrics Metrics
	if err := json.Unmarshal(raw, &metrics); err != nil {
		if c.log != nil {
			c.log.Warn("dashboard cache entry corrupt", "error", err)
		}
		return Metrics{}, false
	}
	return metrics, true
}

// Set stores metrics under key. Failures are logged and ignored.
func (c *Cache) Set(ctx context.Context, key string, metrics Metrics) {
	if c == nil || c.rdb == nil {
		return
	}

	raw, err := json.Marshal(metrics)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil && c.log != nil {
		c.log.Warn("dashboard cache write failed", "error", err)
	}
}
