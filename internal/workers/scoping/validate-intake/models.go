// internal/workers/scoping/validate-intake/models.go
package validateintake

import "certscope-workers/internal/models"

// Input carries the intake record to check before scope computation runs.
type Input struct {
	AssessmentID string               `json:"assessmentId"`
	Intake       *models.IntakeRecord `json:"intake"`
}

// Output reports the completeness verdict. The job completes either way;
// the process model branches on isComplete.
type Output struct {
	AssessmentID string                    `json:"assessmentId"`
	Result       models.CompletenessResult `json:"completenessResult"`
}
