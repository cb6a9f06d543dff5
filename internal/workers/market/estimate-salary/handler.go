// internal/workers/market/estimate-salary/handler.go
package estimatesalary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "jobmarket-workers/internal/common/errors"
	"jobmarket-workers/internal/common/logger"
	"jobmarket-workers/internal/common/metrics"
	"jobmarket-workers/internal/common/observability"
	"jobmarket-workers/internal/common/validation"
	"jobmarket-workers/internal/salary"
)

const (
	TaskType = "estimate-salary"
)

type Handler struct {
	config     *Config
	estimators salary.Regional
	validator  *validation.Validator
	obs        *observability.Observability
	errors     *apperrors.ErrorHandler
	logger     logger.Logger
}

// NewHandler wires the handler. validator and obs may be nil.
func NewHandler(config *Config, estimators salary.Regional, validator *validation.Validator, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		estimators: estimators,
		validator:  validator,
		obs:        obs,
		errors:     apperrors.NewErrorHandler(l),
		logger:     l,
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
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		timer.Done(string(apperrors.Normalize(err).Code))
		h.obs.RecordJobProcessed(ctx, TaskType, "failed")
		h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	timer.Done("")
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "completed")
	h.completeJob(ctx, client, job, output)
}

func (h *Handler) run(ctx context.Context, variables string) (*Output, error) {
	input, err := h.Decode(variables)
	if err != nil {
		return nil, err
	}
	return h.execute(ctx, input)
}

// Decode validates the job variables against the registered input schema and
// parses them.
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
		return nil, apperrors.NewParseError(err)
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	region := strings.ToLower(strings.TrimSpace(input.Region))
	if region == "" {
		region = h.config.DefaultRegion
	}

	est, ok := h.estimators.For(region)
	if !ok {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("no salary tables for region %q", region))
	}

	breakdown := est.Breakdown(input.prediction())

	output := &Output{
		EstimateID:      uuid.NewString(),
		Region:          region,
		Currency:        est.Currency(),
		PredictedSalary: breakdown.Rounded,
		Formatted:       salary.FormatAmount(breakdown.Rounded, est.Currency()),
		Breakdown:       breakdown,
	}

	metrics.SalaryEstimates.WithLabelValues(region).Inc()
	h.obs.RecordEstimate(ctx, region, breakdown.Rounded)

	h.logger.Info("salary estimated", map[string]interface{}{
		"estimateId": output.EstimateID,
		"region":     region,
		"experience": input.Experience,
		"location":   input.Location,
		"skillCount": breakdown.SkillCount,
		"salary":     breakdown.Rounded,
	})

	return output, nil
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
