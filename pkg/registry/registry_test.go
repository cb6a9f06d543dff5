package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegistry_ShippedFile(t *testing.T) {
	reg, err := LoadRegistry("../../configs/activity-registry.json")
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"estimate-salary", "aggregate-analytics", "build-dashboard"},
		reg.Implemented())

	for _, taskType := range reg.Implemented() {
		assert.NotEmpty(t, reg.InputSchema(taskType), taskType)
	}
}

func TestFind(t *testing.T) {
	reg, err := ParseRegistry([]byte(`{"activities":[{"id":"a","taskType":"task-a","implementationStatus":"implemented"}]}`))
	require.NoError(t, err)

	a, ok := reg.Find("task-a")
	require.True(t, ok)
	assert.Equal(t, "a", a.ID)

	_, ok = reg.Find("missing")
	assert.False(t, ok)
	assert.Nil(t, reg.InputSchema("missing"))

	var nilReg *ActivityRegistry
	_, ok = nilReg.Find("task-a")
	assert.False(t, ok)
}

func TestParseRegistry_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", `{"activities":`},
		{"missing task type", `{"activities":[{"id":"a"}]}`},
		{"duplicate task type", `{"activities":[{"id":"a","taskType":"t"},{"id":"b","taskType":"t"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRegistry([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	_, err := LoadRegistry("does-not-exist.json")
	assert.Error(t, err)
}
