// internal/workers/scoping/filter-questions/handler.go
package filterquestions

import (
	"context"
	"encoding/json"
	"time"

	"certscope-workers/internal/common/errors"
	"certscope-workers/internal/common/logger"
	"certscope-workers/internal/common/metrics"
	"certscope-workers/internal/engine"
	"certscope-workers/internal/models"
	"certscope-workers/internal/refdata"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "filter-questions"
)

// SnapshotProvider supplies the current reference-data snapshot.
type SnapshotProvider interface {
	Snapshot() (*refdata.Snapshot, error)
}

type Handler struct {
	config  *Config
	engine  *engine.Engine
	refdata SnapshotProvider
	errors  *errors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, eng *engine.Engine, store SnapshotProvider, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		engine:  eng,
		refdata: store,
		errors:  errors.NewErrorHandler(l),
		logger:  l,
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	snap, err := h.refdata.Snapshot()
	if err != nil {
		return nil, err
	}

	result := h.engine.FilterQuestions(input.ApplicableRECCodes, input.RequiredAppendices, snap.Questions)
	result = applyCallerFilters(result, input)

	h.logger.Info("questions filtered", map[string]interface{}{
		"assessmentId":      input.AssessmentID,
		"totalQuestions":    result.TotalQuestions,
		"relevantQuestions": result.RelevantQuestions,
		"filteringRatio":    result.FilteringRatio,
		"fallbackApplied":   result.FallbackApplied,
	})

	return &Output{
		AssessmentID: input.AssessmentID,
		Result:       result,
	}, nil
}

// applyCallerFilters narrows the scope-filtered set by the caller's
// category and required-only switches. The total stays the size of the
// active bank so the ratio still reflects how much of it survived.
func applyCallerFilters(result models.FilteredQuestionSet, input *Input) models.FilteredQuestionSet {
	if input.Category == "" && !input.RequiredOnly {
		return result
	}

	kept := make([]models.Question, 0, len(result.Questions))
	for _, q := range result.Questions {
		if input.RequiredOnly && !q.Required {
			continue
		}
		if input.Category != "" && models.CodeCategory(q.CategoryCode) != input.Category {
			continue
		}
		kept = append(kept, q)
	}

	result.Questions = kept
	result.RelevantQuestions = len(kept)
	if result.TotalQuestions > 0 {
		result.FilteringRatio = float64(len(kept)) / float64(result.TotalQuestions)
	}
	return result
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
