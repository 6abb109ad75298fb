// internal/workers/scoping/compute-scope/models.go
package computescope

import "certscope-workers/internal/models"

type Input struct {
	AssessmentID string               `json:"assessmentId"`
	Intake       *models.IntakeRecord `json:"intake"`
	ForceRefresh bool                 `json:"forceRefresh,omitempty"` // skip the cache and recompute
}

type Output struct {
	AssessmentID  string                 `json:"assessmentId"`
	ComputationID string                 `json:"computationId"`
	Scope         models.AssessmentScope `json:"scope"`
	FromCache     bool                   `json:"fromCache"`
}
