package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "jobmarket-workers/internal/common/errors"
)

func estimateSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"region":     map[string]interface{}{"type": "string"},
			"experience": map[string]interface{}{"type": "string"},
			"skills": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
		},
		"required": []interface{}{"region"},
	}
}

func TestValidator_ValidateJSON(t *testing.T) {
	v, err := NewValidator(estimateSchema())
	require.NoError(t, err)

	tests := []struct {
		name      string
		document  string
		wantValid bool
		wantCode  string
	}{
		{"valid", `{"region":"uk","skills":["Go"]}`, true, ""},
		{"missing region", `{"skills":["Go"]}`, false, "REQUIRED"},
		{"wrong skill type", `{"region":"uk","skills":[1]}`, false, "INVALID_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := v.ValidateJSON(tt.document)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid)
			if tt.wantCode != "" {
				require.NotEmpty(t, result.Errors)
				assert.Equal(t, tt.wantCode, result.Errors[0].Code)
				assert.True(t, errors.Is(result.Err(), apperrors.ErrInvalidInput))
			} else {
				assert.NoError(t, result.Err())
			}
		})
	}
}

func TestValidator_MalformedDocument(t *testing.T) {
	v, err := NewValidator(estimateSchema())
	require.NoError(t, err)

	_, err = v.ValidateJSON(`{"region":`)
	assert.Error(t, err)
}

func TestValidator_ValidateInput(t *testing.T) {
	v, err := NewValidator(estimateSchema())
	require.NoError(t, err)

	result, err := v.ValidateInput(map[string]interface{}{"region": 5})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "region", result.Errors[0].Field)
}

func TestValidator_EmptySchemaAcceptsAll(t *testing.T) {
	v, err := NewValidator(nil)
	require.NoError(t, err)

	result, err := v.ValidateJSON(`anything`)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestNewValidator_BadSchema(t *testing.T) {
	_, err := NewValidator(map[string]interface{}{"type": 42})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidConfiguration))
}
