// internal/workers/scoping/compute-scope/handler.go
package computescope

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"certscope-workers/internal/common/errors"
	"certscope-workers/internal/common/logger"
	"certscope-workers/internal/common/metrics"
	"certscope-workers/internal/engine"
	"certscope-workers/internal/refdata"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "compute-scope"
)

// SnapshotProvider supplies the current reference-data snapshot.
type SnapshotProvider interface {
	Snapshot() (*refdata.Snapshot, error)
}

type Handler struct {
	config  *Config
	engine  *engine.Engine
	refdata SnapshotProvider
	redis   *redis.Client
	errors  *errors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, eng *engine.Engine, store SnapshotProvider, rdb *redis.Client, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		engine:  eng,
		refdata: store,
		redis:   rdb,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Intake == nil {
		return nil, errors.NewIntakeParseError("intake record is required")
	}

	// Submission gate runs before anything else.
	completeness := engine.ValidateCompleteness(input.Intake)
	if !completeness.IsComplete {
		return nil, errors.NewIntakeIncompleteError(completeness.MissingFields)
	}

	if !input.ForceRefresh && input.AssessmentID != "" {
		if cached := h.getCachedScope(ctx, input.AssessmentID); cached != nil {
			return cached, nil
		}
	}

	snap, err := h.refdata.Snapshot()
	if err != nil {
		return nil, err
	}

	computationID := uuid.NewString()
	start := time.Now()
	scope := h.engine.ComputeScope(input.Intake, snap.Compiled)
	metrics.ScopeComputationDuration.Observe(time.Since(start).Seconds())
	metrics.ScopeComputations.WithLabelValues(string(input.Intake.CertificationType)).Inc()

	h.logger.Info("assessment scope computed", map[string]interface{}{
		"assessmentId":       input.AssessmentID,
		"computationId":      computationID,
		"applicableCodes":    len(scope.ApplicableRECCodes),
		"requiredAppendices": scope.RequiredAppendices,
		"estimatedAuditDays": scope.EstimatedAuditDays,
	})

	output := &Output{
		AssessmentID:  input.AssessmentID,
		ComputationID: computationID,
		Scope:         scope,
	}

	if input.AssessmentID != "" {
		h.cacheScope(ctx, input.AssessmentID, output)
	}

	return output, nil
}

// getCachedScope returns a previously computed scope, or nil on any cache
// miss or error. Recomputation is idempotent, so a lost cache entry costs
// only work, never correctness.
func (h *Handler) getCachedScope(ctx context.Context, assessmentID string) *Output {
	if h.redis == nil {
		return nil
	}
	val, err := h.redis.Get(ctx, scopeCacheKey(assessmentID)).Result()
	if err != nil {
		return nil
	}
	var cached Output
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil
	}
	cached.FromCache = true
	return &cached
}

func (h *Handler) cacheScope(ctx context.Context, assessmentID string, output *Output) {
	if h.redis == nil {
		return
	}
	data, err := json.Marshal(output)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, scopeCacheKey(assessmentID), data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("failed to cache assessment scope", map[string]interface{}{
			"assessmentId": assessmentID,
			"error":        err,
		})
	}
}

func scopeCacheKey(assessmentID string) string {
	return fmt.Sprintf("assessment:scope:%s", assessmentID)
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
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
