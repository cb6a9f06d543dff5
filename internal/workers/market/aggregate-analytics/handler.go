// internal/workers/market/aggregate-analytics/handler.go
package aggregateanalytics

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"jobmarket-workers/internal/analytics"
	apperrors "jobmarket-workers/internal/common/errors"
	"jobmarket-workers/internal/common/logger"
	"jobmarket-workers/internal/common/metrics"
	"jobmarket-workers/internal/common/observability"
	"jobmarket-workers/internal/common/validation"
	"jobmarket-workers/internal/models"
	"jobmarket-workers/internal/snapshot"
)

const (
	TaskType = "aggregate-analytics"
)

type Handler struct {
	config    *Config
	source    snapshot.Source
	validator *validation.Validator
	obs       *observability.Observability
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, source snapshot.Source, validator *validation.Validator, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		source:    source,
		validator: validator,
		obs:       obs,
		errors:    apperrors.NewErrorHandler(l),
		logger:    l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	timer := metrics.StartJob(TaskType)
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	ctx, span := h.obs.StartSpan(ctx, TaskType, attribute.Int64("jobKey", job.Key))
	defer span.End()

	output, err := h.run(ctx, job.Variables)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	h.obs.RecordJobProcessed(ctx, TaskType, status)
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), status)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		timer.Done(string(apperrors.Normalize(err).Code))
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	timer.Done("")
	h.completeJob(ctx, client, job, output)
}

func (h *Handler) run(ctx context.Context, variables string) (*Output, error) {
	input, err := h.Decode(variables)
	if err != nil {
		return nil, err
	}
	return h.execute(ctx, input)
}

// Decode validates and parses the job variables. A bad sort direction keeps
// its INVALID_CONFIGURATION code instead of becoming a parse error.
func (h *Handler) Decode(variables string) (*Input, error) {
	if h.validator != nil {
		result, err := h.validator.ValidateJSON(variables)
		if err != nil {
			return nil, err
		}
		if err := result.Err(); err != nil {
			return nil, err
		}
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		var stdErr *apperrors.StandardError
		if stderrors.As(err, &stdErr) {
			return nil, stdErr
		}
		return nil, apperrors.NewParseError(err)
	}
	return &input, nil
}

func rowsFor(snap *models.Snapshot, dataset Dataset) ([]analytics.Row, error) {
	a := snap.Analytics
	switch dataset {
	case DatasetLanguages:
		return analytics.LanguageRows(a.LanguageSalary), nil
	case DatasetLocations:
		return analytics.LocationRows(a.LocationSalary), nil
	case DatasetExperience:
		return analytics.ExperienceRows(a.ExperienceSalary), nil
	case DatasetRemote:
		return analytics.RemoteRows(a.RemoteWorkStats), nil
	}
	return nil, apperrors.NewInvalidInputError(fmt.Sprintf("unknown dataset %q", dataset))
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	region := snapshot.NormalizeRegion(input.Region)
	if region == "" {
		region = h.config.DefaultRegion
	}

	snap, err := h.source.Load(ctx, region)
	if err != nil {
		metrics.RecordSnapshotLoad(region, string(apperrors.Normalize(err).Code))
		return nil, err
	}
	metrics.RecordSnapshotLoad(region, "ok")

	rows, err := rowsFor(snap, input.Dataset)
	if err != nil {
		return nil, err
	}

	view, err := analytics.Aggregate(rows, input.Operation, input.Params)
	if err != nil {
		return nil, err
	}

	h.logger.Info("analytics aggregated", map[string]interface{}{
		"region":    region,
		"dataset":   input.Dataset,
		"operation": input.Operation,
		"rows":      len(view.Rows),
		"noData":    view.NoData,
	})

	return &Output{
		Region:      region,
		Dataset:     input.Dataset,
		View:        view,
		LastUpdated: snap.Metadata.LastUpdated,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
