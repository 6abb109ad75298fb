// internal/engine/critical.go
package engine

import (
	"sort"

	"certscope-workers/internal/models"
)

// EnumerateCriticalRequirements lists the mandatory compliance labels
// surfaced to the assessor regardless of scoring detail, sorted
// alphabetically.
func EnumerateCriticalRequirements(intake *models.IntakeRecord) []string {
	labels := []string{
		"Environmental Health & Safety",
		"Legal Entity Documentation",
		"Management System",
	}

	if intake.HasDataActivity() {
		labels = append(labels,
			"Data Sanitization Verification",
			"Data Security Controls",
		)
	}
	if intake.InternationalShipments {
		labels = append(labels,
			"Export & Import Compliance",
			"International Shipment Controls",
		)
	}
	if intake.FacilityCount() > 1 {
		labels = append(labels, "Multi-Site Audit Program")
	}
	if len(intake.FocusMaterials) > 0 {
		labels = append(labels, "Focus Materials Management")
	}

	sort.Strings(labels)
	return labels
}
