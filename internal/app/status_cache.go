package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"time_recorder_bot/internal/domain/attendance"
	idb "time_recorder_bot/internal/infra/database"
	"time_recorder_bot/internal/infra/metrics"
)

// CacheTTL is how long a scraped status is served without a portal request.
const CacheTTL = 4 * time.Hour

// StatusCache memoizes the last authorized status in the key-value store.
type StatusCache struct {
	store  attendance.KeyValueStore
	now    func() time.Time
	logger *logrus.Entry
}

func NewStatusCache(store attendance.KeyValueStore, now func() time.Time, logger *logrus.Entry) *StatusCache {
	if now == nil {
		now = time.Now
	}
	return &StatusCache{store: store, now: now, logger: logger}
}

// Read returns the cached status while it is live. Missing, expired or
// malformed entries are all reported as a miss.
func (c *StatusCache) Read(ctx context.Context) *attendance.Status {
	raw, err := c.store.Get(ctx, attendance.KeyStatusCache)
	if err != nil {
		if !errors.Is(err, idb.ErrKeyNotFound) {
			c.logger.WithError(err).Warn("Status cache lookup failed")
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil
	}

	var cached attendance.CachedStatus
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		c.logger.WithError(err).Debug("Discarding undecodable status cache")
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil
	}

	if c.now().UnixMilli() > cached.Expires {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil
	}

	metrics.CacheLookups.WithLabelValues("hit").Inc()
	status := cached.Data
	return &status
}

// Write stores status without its menus for CacheTTL. A nil status deletes
// the entry.
func (c *StatusCache) Write(ctx context.Context, status *attendance.Status) error {
	if status == nil {
		return c.store.Delete(ctx, attendance.KeyStatusCache)
	}

	cached := attendance.CachedStatus{
		Data:    status.WithoutMenus(),
		Expires: c.now().Add(CacheTTL).UnixMilli(),
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("encode status cache: %w", err)
	}
	return c.store.Set(ctx, attendance.KeyStatusCache, string(raw))
}
