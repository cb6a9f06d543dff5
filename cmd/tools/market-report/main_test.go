package main

import (
	"context"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmarket-workers/internal/analytics"
	"jobmarket-workers/internal/models"
	"jobmarket-workers/internal/salary"
	"jobmarket-workers/internal/snapshot"
)

func TestSplitSkills(t *testing.T) {
	assert.Equal(t, []string{"Go", "Rust", "Machine Learning"}, splitSkills(" Go, Rust,,Machine Learning ,"))
	assert.Nil(t, splitSkills(""))
}

func TestColorSalary(t *testing.T) {
	for _, pct := range []float64{100, 80, 65, 10} {
		assert.Contains(t, colorSalary("£1,000", pct), "£1,000")
	}
}

func TestRender(t *testing.T) {
	pterm.DisableOutput()
	defer pterm.EnableOutput()

	snap, err := snapshot.NewFileSource("").Load(context.Background(), "uk")
	require.NoError(t, err)
	assert.NoError(t, renderDashboard(analytics.BuildDashboard("uk", snap, analytics.ViewState{}), snap.Summary.Currency))

	est, err := salary.NewEstimator(salary.UKTables())
	require.NoError(t, err)
	assert.NoError(t, renderEstimate(est, models.PredictionInput{Experience: "Senior (5-8 yrs)", Skills: []string{"Go"}}))
}
