// internal/engine/coverage.go
package engine

import (
	"strings"
	"time"

	"certscope-workers/internal/models"
)

// BuildCoverageReport summarizes how the question bank covers the
// requirement catalog: one row per REC code followed by one per appendix,
// each carrying the IDs of the questions that address it and an
// ADD_<code>_QUESTION proposal when none do. Questions tagged
// EVIDENCE_REQUIRED without an evidence reference are listed separately.
func BuildCoverageReport(questions []models.Question, recCodes []string) models.CoverageReport {
	reqs := make([]string, 0, len(recCodes)+len(AppendixCodes))
	reqs = append(reqs, recCodes...)
	for _, a := range AppendixCodes {
		if !containsString(reqs, a) {
			reqs = append(reqs, a)
		}
	}

	report := models.CoverageReport{
		TotalQuestions:  len(questions),
		Rows:            make([]models.CoverageRow, 0, len(reqs)),
		MissingEvidence: []models.EvidenceGap{},
		GeneratedAt:     time.Now().UTC(),
	}

	covered := make(map[string][]string, len(reqs))
	for _, q := range questions {
		for _, req := range reqs {
			if questionCovers(q, req) {
				covered[req] = append(covered[req], q.ID)
			}
		}
		if q.HasTag(models.TagEvidenceRequired) && strings.TrimSpace(q.EvidencePath) == "" {
			report.MissingEvidence = append(report.MissingEvidence, models.EvidenceGap{
				QuestionID: q.ID,
				Tags:       q.Tags,
			})
		}
	}

	for _, req := range reqs {
		ids := covered[req]
		row := models.CoverageRow{
			Requirement: req,
			Covered:     len(ids) > 0,
			Count:       len(ids),
			QuestionIDs: ids,
		}
		if len(ids) == 0 {
			row.QuestionIDs = []string{}
			row.ProposedAdd = "ADD_" + strings.ReplaceAll(req, "-", "_") + "_QUESTION"
		}
		report.Rows = append(report.Rows, row)
	}

	return report
}

// questionCovers matches tag-first (exact, case-insensitive), then the
// question's own appendix or category tagging, then a mention of the code
// in the question text as a fallback.
func questionCovers(q models.Question, req string) bool {
	for _, t := range q.Tags {
		if strings.EqualFold(strings.TrimSpace(t), req) {
			return true
		}
	}
	if q.Appendix == req || q.CategoryCode == req {
		return true
	}
	return q.Text != "" && strings.Contains(q.Text, req)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
