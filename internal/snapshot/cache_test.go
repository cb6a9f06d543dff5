package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "jobmarket-workers/internal/common/errors"
	"jobmarket-workers/internal/common/logger"
	"jobmarket-workers/internal/models"
)

type countingSource struct {
	inner Source
	calls int
}

func (c *countingSource) Load(ctx context.Context, region string) (*models.Snapshot, error) {
	c.calls++
	return c.inner.Load(ctx, region)
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCachedSource_ReadThrough(t *testing.T) {
	mr, client := newMiniredis(t)
	inner := &countingSource{inner: NewFileSource("")}
	src := NewCachedSource(inner, client, 5*time.Minute, "snapshot:", logger.NewTestLogger(t))

	first, err := src.Load(context.Background(), "UK")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.True(t, mr.Exists("snapshot:uk"))
	assert.Equal(t, 5*time.Minute, mr.TTL("snapshot:uk"))

	second, err := src.Load(context.Background(), "uk")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)
}

func TestCachedSource_ExpiredEntryReloads(t *testing.T) {
	mr, client := newMiniredis(t)
	inner := &countingSource{inner: NewFileSource("")}
	src := NewCachedSource(inner, client, time.Minute, "snapshot:", logger.NewTestLogger(t))

	_, err := src.Load(context.Background(), "us")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = src.Load(context.Background(), "us")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedSource_UnreadableEntry(t *testing.T) {
	mr, client := newMiniredis(t)
	require.NoError(t, mr.Set("snapshot:uk", "not json"))

	inner := &countingSource{inner: NewFileSource("")}
	src := NewCachedSource(inner, client, time.Minute, "snapshot:", logger.NewTestLogger(t))

	snap, err := src.Load(context.Background(), "uk")
	require.NoError(t, err)
	assert.Equal(t, "GBP", snap.Summary.Currency)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedSource_InnerErrorIsNotCached(t *testing.T) {
	mr, client := newMiniredis(t)
	src := NewCachedSource(NewFileSource(""), client, time.Minute, "snapshot:", logger.NewTestLogger(t))

	_, err := src.Load(context.Background(), "fr")
	assert.True(t, errors.Is(err, apperrors.ErrSnapshotNotFound))
	assert.False(t, mr.Exists("snapshot:fr"))
}

func TestCachedSource_RedisDownFallsThrough(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("snapshot:uk").SetErr(errors.New("connection refused"))

	inner := &countingSource{inner: NewFileSource("")}
	src := NewCachedSource(inner, client, time.Minute, "snapshot:", logger.NewTestLogger(t))

	snap, err := src.Load(context.Background(), "uk")
	require.NoError(t, err)
	assert.Equal(t, "GBP", snap.Summary.Currency)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedSource_MissUsesRedisNil(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("snapshot:us").RedisNil()

	inner := &countingSource{inner: NewFileSource("")}
	src := NewCachedSource(inner, client, time.Minute, "snapshot:", logger.NewNoOpLogger())

	_, err := src.Load(context.Background(), "us")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
}
