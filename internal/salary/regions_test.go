package salary

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "jobmarket-workers/internal/common/errors"
	"jobmarket-workers/internal/models"
)

func TestNewRegional_Builtins(t *testing.T) {
	r, err := NewRegional(nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"uk", "us"}, r.Regions())

	uk, ok := r.For(" UK ")
	require.True(t, ok)
	assert.Equal(t, "GBP", uk.Currency())
	assert.Equal(t, 28000.0, uk.Estimate(models.PredictionInput{}))

	_, ok = r.For("de")
	assert.False(t, ok)
}

func TestNewRegional_Override(t *testing.T) {
	de := UKTables()
	de.Currency = "EUR"
	de.Base = 40000

	r, err := NewRegional(map[string]Tables{"DE": de})
	require.NoError(t, err)

	est, ok := r.For("de")
	require.True(t, ok)
	assert.Equal(t, "EUR", est.Currency())
	assert.Equal(t, 40000.0, est.Estimate(models.PredictionInput{}))
	assert.Len(t, r.Regions(), 3)
}

func TestNewRegional_InvalidOverride(t *testing.T) {
	bad := UKTables()
	bad.RoundingGranularity = 0

	_, err := NewRegional(map[string]Tables{"uk": bad})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidConfiguration))
}
