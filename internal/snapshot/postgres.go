package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	apperrors "jobmarket-workers/internal/common/errors"
	"jobmarket-workers/internal/models"
)

// PostgresSource reads snapshot documents from a table shaped
// (region text primary key, document jsonb). It never writes.
type PostgresSource struct {
	db    *sql.DB
	query string
}

func NewPostgresSource(db *sql.DB, table string) *PostgresSource {
	if table == "" {
		table = "market_snapshots"
	}
	return &PostgresSource{
		db:    db,
		query: fmt.Sprintf("SELECT document FROM %s WHERE region = $1", pq.QuoteIdentifier(table)),
	}
}

func (s *PostgresSource) Load(ctx context.Context, region string) (*models.Snapshot, error) {
	region = NormalizeRegion(region)
	if region == "" {
		return nil, apperrors.NewSnapshotNotFoundError(region)
	}

	var raw []byte
	err := s.db.QueryRowContext(ctx, s.query, region).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewSnapshotNotFoundError(region)
	}
	if err != nil {
		return nil, apperrors.NewSnapshotSourceFailedError("postgres", err)
	}

	return Decode(raw)
}
