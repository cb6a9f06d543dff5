package snapshot

import (
	"fmt"
	"io"

	"jobmarket-workers/internal/common/config"
	"jobmarket-workers/internal/common/database"
	"jobmarket-workers/internal/common/logger"
)

// Chain is the configured source plus the clients it holds open.
type Chain struct {
	Source  Source
	closers []io.Closer
}

func (c *Chain) Close() error {
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// FromConfig builds the snapshot source selected by cfg.Snapshots, wrapped in
// the redis cache when a TTL is configured. Connections are opened lazily by
// the drivers; nothing is pinged here.
func FromConfig(cfg *config.Config, log logger.Logger) (*Chain, error) {
	chain := &Chain{}

	switch cfg.Snapshots.Source {
	case config.SnapshotSourceFile, "":
		chain.Source = NewFileSource(cfg.Snapshots.Directory)

	case config.SnapshotSourcePostgres:
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, err
		}
		chain.closers = append(chain.closers, pg)
		chain.Source = NewPostgresSource(pg.DB, cfg.Snapshots.Table)

	case config.SnapshotSourceElasticsearch:
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch, nil)
		if err != nil {
			return nil, err
		}
		chain.Source = NewElasticsearchSource(es.Client, cfg.Snapshots.Index)

	default:
		return nil, fmt.Errorf("unknown snapshot source %q", cfg.Snapshots.Source)
	}

	if ttl := cfg.Snapshots.CacheDuration(); ttl > 0 {
		rdb := database.NewRedis(cfg.Database.Redis)
		chain.closers = append(chain.closers, rdb)
		chain.Source = NewCachedSource(chain.Source, rdb.Client, ttl, cfg.Snapshots.CachePrefix, log)
	}

	log.Info("snapshot source configured", map[string]interface{}{
		"source":   cfg.Snapshots.Source,
		"cacheTTL": cfg.Snapshots.CacheTTL,
	})
	return chain, nil
}
