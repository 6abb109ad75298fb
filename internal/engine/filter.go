// internal/engine/filter.go
package engine

import (
	"certscope-workers/internal/common/metrics"
	"certscope-workers/internal/models"
)

// FilterQuestions narrows the master question bank to the questions
// relevant to a resolved scope. A question is relevant when it is
// required, when its appendix is in the required set, or when its
// category code starts with an applicable REC code's category prefix.
// Inactive questions are dropped up front. Input ordering (clause order,
// then question order) is preserved.
//
// When no active question carries any appendix tag or category code the
// bank has no scope tagging to filter on; the whole active bank is
// returned and the result is flagged. This is staging behavior until the
// bank is tagged, not a silent degradation.
func (e *Engine) FilterQuestions(applicableCodes, requiredAppendices []string, bank []models.Question) models.FilteredQuestionSet {
	active := make([]models.Question, 0, len(bank))
	for _, q := range bank {
		if q.Active {
			active = append(active, q)
		}
	}

	total := len(active)
	if total == 0 {
		return models.FilteredQuestionSet{
			Questions:      []models.Question{},
			FilteringRatio: 1, // nothing to filter, keep all
		}
	}

	tagged := false
	for _, q := range active {
		if q.Appendix != "" || q.CategoryCode != "" {
			tagged = true
			break
		}
	}
	if !tagged {
		metrics.FilterFallbacks.Inc()
		e.logger.Warn("question bank carries no scope tagging, returning it unfiltered", map[string]interface{}{
			"totalQuestions": total,
		})
		return models.FilteredQuestionSet{
			Questions:         active,
			TotalQuestions:    total,
			RelevantQuestions: total,
			FilteringRatio:    1,
			FallbackApplied:   true,
		}
	}

	appendixSet := make(map[string]bool, len(requiredAppendices))
	for _, a := range requiredAppendices {
		appendixSet[a] = true
	}
	categorySet := make(map[string]bool, len(applicableCodes))
	for _, code := range applicableCodes {
		categorySet[models.CodeCategory(code)] = true
	}

	matched := make([]models.Question, 0, total)
	for _, q := range active {
		if q.Required || appendixSet[q.Appendix] || categorySet[models.CodeCategory(q.CategoryCode)] {
			matched = append(matched, q)
		}
	}

	return models.FilteredQuestionSet{
		Questions:         matched,
		TotalQuestions:    total,
		RelevantQuestions: len(matched),
		FilteringRatio:    float64(len(matched)) / float64(total),
	}
}
