package snapshot

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "jobmarket-workers/internal/common/errors"
)

var snapshotQuery = regexp.QuoteMeta(`SELECT document FROM "market_snapshots" WHERE region = $1`)

func TestPostgresSource_Load(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(snapshotQuery).
		WithArgs("uk").
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow(fixture(t, "uk")))

	snap, err := NewPostgresSource(db, "").Load(context.Background(), "UK")
	require.NoError(t, err)
	assert.Equal(t, "GBP", snap.Summary.Currency)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(snapshotQuery).
		WithArgs("fr").
		WillReturnRows(sqlmock.NewRows([]string{"document"}))

	_, err = NewPostgresSource(db, "market_snapshots").Load(context.Background(), "fr")
	assert.True(t, errors.Is(err, apperrors.ErrSnapshotNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_QueryFailureIsRetryable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(snapshotQuery).
		WithArgs("uk").
		WillReturnError(errors.New("connection refused"))

	_, err = NewPostgresSource(db, "").Load(context.Background(), "uk")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrSnapshotSourceFailed))
	assert.True(t, apperrors.Normalize(err).Retryable)
}

func TestPostgresSource_CustomTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT document FROM "snapshots_v2" WHERE region = $1`)).
		WithArgs("us").
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow(fixture(t, "us")))

	_, err = NewPostgresSource(db, "snapshots_v2").Load(context.Background(), "us")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
