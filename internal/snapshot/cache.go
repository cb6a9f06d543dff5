package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"jobmarket-workers/internal/common/logger"
	"jobmarket-workers/internal/models"
)

// CachedSource is a read-through redis cache in front of another Source.
// Redis failures are logged and the inner source is used instead, so the
// cache only ever changes latency.
type CachedSource struct {
	inner  Source
	client redis.Cmdable
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

func NewCachedSource(inner Source, client redis.Cmdable, ttl time.Duration, prefix string, log logger.Logger) *CachedSource {
	return &CachedSource{
		inner:  inner,
		client: client,
		ttl:    ttl,
		prefix: prefix,
		logger: log.WithFields(map[string]interface{}{"component": "snapshot-cache"}),
	}
}

func (s *CachedSource) key(region string) string {
	return s.prefix + region
}

func (s *CachedSource) Load(ctx context.Context, region string) (*models.Snapshot, error) {
	region = NormalizeRegion(region)
	key := s.key(region)

	cached, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var snap models.Snapshot
		if err := json.Unmarshal(cached, &snap); err == nil {
			return &snap, nil
		}
		s.logger.Warn("discarding unreadable cache entry", map[string]interface{}{"key": key})
	case !errors.Is(err, redis.Nil):
		s.logger.Warn("snapshot cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	snap, err := s.inner.Load(ctx, region)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(snap); err == nil {
		if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
			s.logger.Warn("snapshot cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
	return snap, nil
}
