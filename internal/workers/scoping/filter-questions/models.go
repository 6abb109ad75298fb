// internal/workers/scoping/filter-questions/models.go
package filterquestions

import "certscope-workers/internal/models"

type Input struct {
	AssessmentID       string   `json:"assessmentId"`
	ApplicableRECCodes []string `json:"applicableRecCodes"`
	RequiredAppendices []string `json:"requiredAppendices"`

	// Caller-side narrowing applied on top of the scope predicate.
	Category     string `json:"category,omitempty"`
	RequiredOnly bool   `json:"requiredOnly,omitempty"`
}

type Output struct {
	AssessmentID string                     `json:"assessmentId"`
	Result       models.FilteredQuestionSet `json:"result"`
}
