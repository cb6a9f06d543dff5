// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmarket-workers/internal/common/camunda"
	"jobmarket-workers/internal/common/config"
	"jobmarket-workers/internal/common/database"
	"jobmarket-workers/internal/common/logger"
	"jobmarket-workers/internal/salary"
	"jobmarket-workers/internal/snapshot"
	es "jobmarket-workers/internal/workers/market/estimate-salary"
)

// These tests run against the docker-compose services and are skipped unless
// E2E is set.
func requireE2E(t *testing.T) {
	t.Helper()
	if os.Getenv("E2E") == "" {
		t.Skip("set E2E=1 to run against live services")
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func liveConfig() *config.Config {
	return &config.Config{
		Camunda: config.CamundaConfig{BrokerAddress: envOr("ZEEBE_ADDRESS", "localhost:26500"), Timeout: 10000},
		Database: config.DatabaseConfig{
			Postgres: config.PostgresConfig{
				Host:     envOr("DB_HOST", "localhost"),
				Port:     5432,
				Database: envOr("DB_NAME", "market"),
				User:     envOr("DB_USER", "postgres"),
				Password: envOr("DB_PASSWORD", "postgres"),
				SSLMode:  "disable",
			},
			Elasticsearch: config.ElasticsearchConfig{URL: envOr("ES_URL", "http://localhost:9200")},
			Redis:         config.RedisConfig{Address: envOr("REDIS_ADDRESS", "localhost:6379")},
		},
		Snapshots: config.SnapshotsConfig{
			Table:       "market_snapshots_e2e",
			Index:       "market-snapshots-e2e",
			CacheTTL:    30,
			CachePrefix: "e2e:snapshot:",
		},
	}
}

func fixture(t *testing.T, region string) []byte {
	t.Helper()
	raw, err := os.ReadFile("../../internal/snapshot/fixtures/" + region + ".json")
	require.NoError(t, err)
	return raw
}

func TestSnapshotSources(t *testing.T) {
	requireE2E(t)
	ctx := context.Background()
	cfg := liveConfig()
	raw := fixture(t, "uk")

	want, err := snapshot.NewFileSource("").Load(ctx, "uk")
	require.NoError(t, err)

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer pg.Close()
	_, err = pg.DB.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS market_snapshots_e2e (region TEXT PRIMARY KEY, document JSONB NOT NULL)`)
	require.NoError(t, err)
	_, err = pg.DB.ExecContext(ctx, `INSERT INTO market_snapshots_e2e (region, document) VALUES ('uk', $1)
		ON CONFLICT (region) DO UPDATE SET document = EXCLUDED.document`, string(raw))
	require.NoError(t, err)

	esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch, nil)
	require.NoError(t, err)
	res, err := esClient.Client.Index(cfg.Snapshots.Index, bytes.NewReader(raw),
		esClient.Client.Index.WithDocumentID("uk"),
		esClient.Client.Index.WithRefresh("true"),
	)
	require.NoError(t, err)
	res.Body.Close()
	require.False(t, res.IsError(), res.String())

	rdb := database.NewRedis(cfg.Database.Redis)
	defer rdb.Close()
	require.NoError(t, rdb.Client.Del(ctx, cfg.Snapshots.CachePrefix+"uk").Err())

	for _, source := range []string{config.SnapshotSourcePostgres, config.SnapshotSourceElasticsearch} {
		t.Run(source, func(t *testing.T) {
			c := *cfg
			c.Snapshots.Source = source
			c.Snapshots.CachePrefix = cfg.Snapshots.CachePrefix + source + ":"

			chain, err := snapshot.FromConfig(&c, logger.NewTestLogger(t))
			require.NoError(t, err)
			defer chain.Close()

			got, err := chain.Source.Load(ctx, "UK")
			require.NoError(t, err)
			assert.Equal(t, want, got)

			cached, err := chain.Source.Load(ctx, "uk")
			require.NoError(t, err)
			assert.Equal(t, want, cached)

			_, err = chain.Source.Load(ctx, "atlantis")
			assert.Error(t, err)
		})
	}
}

const salaryProcess = `<?xml version="1.0" encoding="UTF-8"?>
<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL" xmlns:zeebe="http://camunda.org/schema/zeebe/1.0" id="salary-insight-e2e" targetNamespace="http://bpmn.io/schema/bpmn">
  <bpmn:process id="salary-insight-e2e" isExecutable="true">
    <bpmn:startEvent id="start"><bpmn:outgoing>to-estimate</bpmn:outgoing></bpmn:startEvent>
    <bpmn:serviceTask id="estimate" name="Estimate salary">
      <bpmn:extensionElements><zeebe:taskDefinition type="estimate-salary" /></bpmn:extensionElements>
      <bpmn:incoming>to-estimate</bpmn:incoming>
      <bpmn:outgoing>to-end</bpmn:outgoing>
    </bpmn:serviceTask>
    <bpmn:endEvent id="end"><bpmn:incoming>to-end</bpmn:incoming></bpmn:endEvent>
    <bpmn:sequenceFlow id="to-estimate" sourceRef="start" targetRef="estimate" />
    <bpmn:sequenceFlow id="to-end" sourceRef="estimate" targetRef="end" />
  </bpmn:process>
</bpmn:definitions>`

func TestEstimateSalaryWorkflow(t *testing.T) {
	requireE2E(t)
	cfg := liveConfig()
	log := logger.NewTestLogger(t)

	client, err := camunda.NewClient(camunda.ConfigFrom(cfg.Camunda))
	require.NoError(t, err)
	defer client.Close()
	zeebe := client.Raw()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	_, err = zeebe.NewDeployResourceCommand().AddResource([]byte(salaryProcess), "salary-insight-e2e.bpmn").Send(ctx)
	require.NoError(t, err)

	estimators, err := salary.NewRegional(nil)
	require.NoError(t, err)
	handler := es.NewHandler(es.LoadConfig(), estimators, nil, nil, log)

	pool := camunda.NewPool(zeebe, log)
	defer pool.Close()
	require.True(t, pool.Start(es.TaskType, config.WorkerConfig{Enabled: true, MaxJobsActive: 1, Timeout: 30000}, handler.Handle))

	result := runProcess(ctx, t, zeebe, map[string]interface{}{
		"region":     "uk",
		"experience": "Senior (5-8 yrs)",
		"location":   "London",
		"skills":     []string{"Go", "Kubernetes"},
	})

	assert.Equal(t, 111500.0, result["predictedSalary"])
	assert.Equal(t, "£111,500", result["formatted"])
	assert.NotEmpty(t, result["estimateId"])
}

func runProcess(ctx context.Context, t *testing.T, zeebe zbc.Client, variables map[string]interface{}) map[string]interface{} {
	t.Helper()

	cmd, err := zeebe.NewCreateInstanceCommand().
		BPMNProcessId("salary-insight-e2e").
		LatestVersion().
		VariablesFromMap(variables)
	require.NoError(t, err)

	res, err := cmd.WithResult().Send(ctx)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(res.GetVariables()), &out))
	return out
}
