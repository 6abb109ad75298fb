// internal/models/question.go
package models

// Question is one item from the master question bank.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Required      bool     `json:"required"`
	Appendix      string   `json:"appendix,omitempty"`     // APP-A..APP-G when present
	CategoryCode  string   `json:"categoryCode,omitempty"` // same prefix vocabulary as REC codes
	Active        bool     `json:"active"`
	ClauseOrder   int      `json:"clauseOrder"`
	QuestionOrder int      `json:"questionOrder"`
	Tags          []string `json:"tags,omitempty"`
	EvidencePath  string   `json:"evidencePath,omitempty"`
}

// TagEvidenceRequired marks a question that must carry an evidence
// reference before submission.
const TagEvidenceRequired = "EVIDENCE_REQUIRED"

// HasTag reports whether the question carries the given tag.
func (q Question) HasTag(tag string) bool {
	for _, t := range q.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
