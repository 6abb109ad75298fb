// internal/models/scope.go
package models

import "time"

// ComplexityFactors are the four operational complexity multipliers and
// their arithmetic mean. Each factor is at least 1.0.
type ComplexityFactors struct {
	Facility      float64 `json:"facilityComplexity"`
	Process       float64 `json:"processComplexity"`
	Data          float64 `json:"dataComplexity"`
	International float64 `json:"internationalComplexity"`
	Overall       float64 `json:"overallComplexity"`
}

// AssessmentScope is the engine's primary output. Every field is a pure
// function of (IntakeRecord, RequirementCatalog) at computation time;
// recomputation with unchanged inputs yields an identical result except
// for LastRefreshed.
type AssessmentScope struct {
	ApplicableRECCodes   []string          `json:"applicableRecCodes"`
	ScopeStatement       string            `json:"scopeStatement"`
	RequiredAppendices   []string          `json:"requiredAppendices"`
	ComplexityFactors    ComplexityFactors `json:"complexityFactors"`
	EstimatedAuditDays   float64           `json:"estimatedAuditDays"`
	CriticalRequirements []string          `json:"criticalRequirements"`
	LastRefreshed        time.Time         `json:"lastRefreshed"`
}

// FilteredQuestionSet is the output of scope-based question filtering.
// FallbackApplied marks the case where the bank carried no scope tagging
// at all and was returned unfiltered.
type FilteredQuestionSet struct {
	Questions         []Question `json:"questions"`
	TotalQuestions    int        `json:"totalQuestions"`
	RelevantQuestions int        `json:"relevantQuestions"`
	FilteringRatio    float64    `json:"filteringRatio"`
	FallbackApplied   bool       `json:"fallbackApplied,omitempty"`
}

// CompletenessResult reports whether an intake record has enough data to
// be submitted, as a structured list rather than a generic error.
type CompletenessResult struct {
	IsComplete            bool     `json:"isComplete"`
	MissingFields         []string `json:"missingFields"`
	CompletionPercentage  int      `json:"completionPercentage"`
	CriticalFieldsMissing bool     `json:"criticalFieldsMissing"`
}

// CoverageRow summarizes how many bank questions cover one requirement
// code or appendix letter.
type CoverageRow struct {
	Requirement string   `json:"requirement"`
	Covered     bool     `json:"covered"`
	Count       int      `json:"count"`
	QuestionIDs []string `json:"questionIds"`
	ProposedAdd string   `json:"proposedAddIfGap,omitempty"`
}

// EvidenceGap is a question that requires evidence but carries none.
type EvidenceGap struct {
	QuestionID string   `json:"questionId"`
	Tags       []string `json:"tags"`
}

// CoverageReport is the question-bank coverage summary produced for
// assessors: per-requirement coverage plus evidence gaps.
type CoverageReport struct {
	TotalQuestions  int           `json:"totalQuestions"`
	Rows            []CoverageRow `json:"rows"`
	MissingEvidence []EvidenceGap `json:"missingEvidence"`
	GeneratedAt     time.Time     `json:"generatedAt"`
}
