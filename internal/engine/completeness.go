// internal/engine/completeness.go
package engine

import (
	"math"
	"strings"

	"certscope-workers/internal/models"
)

// requiredIntakeFields is the fixed pre-submission checklist, in report
// order. criticalIntakeFields is the subset whose absence blocks any
// meaningful scoping at all.
var requiredIntakeFields = []string{
	"legalCompanyName",
	"businessEntityType",
	"totalFacilityCount",
	"certificationStructureType",
	"processingActivities",
	"certificationType",
}

var criticalIntakeFields = map[string]bool{
	"legalCompanyName":     true,
	"processingActivities": true,
	"certificationType":    true,
}

// ValidateCompleteness checks whether a (possibly partial) intake record
// has enough data to be submitted. It is a gate independent of the rest
// of the engine and reports missing fields as a structured list.
func ValidateCompleteness(intake *models.IntakeRecord) models.CompletenessResult {
	var missing []string
	criticalMissing := false

	for _, field := range requiredIntakeFields {
		if intakeFieldPresent(intake, field) {
			continue
		}
		missing = append(missing, field)
		if criticalIntakeFields[field] {
			criticalMissing = true
		}
	}

	total := len(requiredIntakeFields)
	pct := int(math.Round(float64(total-len(missing)) / float64(total) * 100))

	return models.CompletenessResult{
		IsComplete:            len(missing) == 0,
		MissingFields:         missing,
		CompletionPercentage:  pct,
		CriticalFieldsMissing: criticalMissing,
	}
}

func intakeFieldPresent(intake *models.IntakeRecord, field string) bool {
	switch field {
	case "legalCompanyName":
		return strings.TrimSpace(intake.LegalCompanyName) != ""
	case "businessEntityType":
		return strings.TrimSpace(intake.BusinessEntityType) != ""
	case "totalFacilityCount":
		return strings.TrimSpace(intake.TotalFacilityCount) != ""
	case "certificationStructureType":
		return intake.StructureType != ""
	case "processingActivities":
		return len(intake.ProcessingActivities) > 0
	case "certificationType":
		return intake.CertificationType != ""
	}
	return false
}
