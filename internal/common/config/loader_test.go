package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
camunda:
  broker_address: localhost:26500
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "jobmarket-workers", cfg.App.Name)
	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)
	assert.Equal(t, SnapshotSourceFile, cfg.Snapshots.Source)
	assert.Equal(t, "uk", cfg.Snapshots.DefaultRegion)
	assert.Equal(t, "market_snapshots", cfg.Snapshots.Table)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":8080", cfg.Metrics.Address)
	assert.Equal(t, "configs/activity-registry.json", cfg.Registry.Path)
}

func TestLoadFromFile_FullDocument(t *testing.T) {
	t.Setenv("TEST_BROKER", "zeebe:26500")

	path := writeConfig(t, `
app:
  name: market
camunda:
  broker_address: ${TEST_BROKER}
database:
  postgres:
    host: db
    database: market
    user: reader
  redis:
    address: redis:6379
snapshots:
  source: Postgres
  cache_ttl: 300
workers:
  estimate-salary:
    enabled: true
    max_jobs_active: 20
  build-dashboard:
    enabled: false
estimator:
  tables:
    uk:
      currency: GBP
      base: 30000
      rounding_granularity: 1000
      default_skill_bonus: 1000
      specialization_multiplier: 1.1
      senior_high_demand_multiplier: 1.05
      experience:
        - label: Junior
          multiplier: 1
        - label: Senior
          multiplier: 2
      locations:
        London: 1.5
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "zeebe:26500", cfg.Camunda.BrokerAddress)
	assert.Equal(t, SnapshotSourcePostgres, cfg.Snapshots.Source)
	assert.Equal(t, 300.0, cfg.Snapshots.CacheDuration().Seconds())
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)

	worker := GetWorkerConfig(cfg, "estimate-salary")
	assert.Equal(t, 20, worker.MaxJobsActive)
	assert.Equal(t, 30000, worker.Timeout)
	assert.False(t, IsWorkerEnabled(cfg, "build-dashboard"))
	assert.True(t, IsWorkerEnabled(cfg, "aggregate-analytics"))

	uk, ok := cfg.Estimator.Tables["uk"]
	require.True(t, ok)
	assert.Equal(t, 30000.0, uk.Base)
	require.Len(t, uk.Experience, 2)
	assert.Equal(t, "Senior", uk.Experience[1].Label)
	assert.Equal(t, 1.5, uk.Locations["london"])
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing broker", `snapshots: {source: file}`},
		{"unknown source", "camunda: {broker_address: x}\nsnapshots: {source: s3}"},
		{"postgres without host", "camunda: {broker_address: x}\nsnapshots: {source: postgres}"},
		{"elasticsearch without address", "camunda: {broker_address: x}\nsnapshots: {source: elasticsearch}"},
		{"cache without redis", "camunda: {broker_address: x}\nsnapshots: {cache_ttl: 60}"},
		{"tracing without endpoint", "camunda: {broker_address: x}\ntracing: {enabled: true}"},
		{"sample ratio out of range", "camunda: {broker_address: x}\ntracing: {sample_ratio: 2}"},
		{"bad tables", "camunda: {broker_address: x}\nestimator: {tables: {uk: {base: -1, rounding_granularity: 500}}}"},
		{"tables missing multipliers", "camunda: {broker_address: x}\nestimator: {tables: {de: {base: 40000, rounding_granularity: 500}}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetWorkerConfig_Fallback(t *testing.T) {
	cfg := &Config{}
	worker := GetWorkerConfig(cfg, "unknown")
	assert.True(t, worker.Enabled)
	assert.Equal(t, 5, worker.MaxJobsActive)
	assert.Equal(t, 3, worker.MaxRetries)
}

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "m", SSLMode: "disable"}.GetDSN()
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=m sslmode=disable", dsn)
}

func TestLoadFromFile_ShippedConfig(t *testing.T) {
	t.Setenv("ZEEBE_ADDRESS", "zeebe:26500")

	cfg, err := LoadFromFile("../../../configs/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "zeebe:26500", cfg.Camunda.BrokerAddress)
	assert.Equal(t, SnapshotSourceFile, cfg.Snapshots.Source)
	assert.Empty(t, cfg.Estimator.Tables)
	for _, taskType := range []string{"estimate-salary", "aggregate-analytics", "build-dashboard"} {
		assert.True(t, IsWorkerEnabled(cfg, taskType), taskType)
	}
	assert.Equal(t, 10000, GetWorkerConfig(cfg, "estimate-salary").Timeout)
}
