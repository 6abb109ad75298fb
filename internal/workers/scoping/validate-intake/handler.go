// internal/workers/scoping/validate-intake/handler.go
package validateintake

import (
	"context"
	"encoding/json"
	"time"

	"certscope-workers/internal/common/errors"
	"certscope-workers/internal/common/logger"
	"certscope-workers/internal/common/metrics"
	"certscope-workers/internal/engine"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-intake"
)

type Handler struct {
	config *Config
	errors *errors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		errors: errors.NewErrorHandler(l),
		logger: l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errors.HandleJobError(context.Background(), client, job, errors.NewIntakeParseError(err.Error()))
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.ErrCodeIntakeParseFailed)).Inc()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errors.HandleJobError(context.Background(), client, job, err)
		code := "INTERNAL_ERROR"
		if stdErr, ok := err.(*errors.StandardError); ok {
			code = string(stdErr.Code)
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

// execute never fails on an incomplete record. The verdict goes back as
// variables so the process can route to a correction step.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.Intake == nil {
		return nil, errors.NewIntakeParseError("intake record is required")
	}

	result := engine.ValidateCompleteness(input.Intake)

	if !result.IsComplete {
		h.logger.Warn("intake record incomplete", map[string]interface{}{
			"assessmentId":          input.AssessmentID,
			"missingFields":         result.MissingFields,
			"completionPercentage":  result.CompletionPercentage,
			"criticalFieldsMissing": result.CriticalFieldsMissing,
		})
	} else {
		h.logger.Info("intake record complete", map[string]interface{}{
			"assessmentId": input.AssessmentID,
		})
	}

	return &Output{
		AssessmentID: input.AssessmentID,
		Result:       result,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
