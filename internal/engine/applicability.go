// internal/engine/applicability.go
package engine

import (
	"sort"

	"certscope-workers/internal/models"
)

// ResolveApplicability decides which catalog entries apply to the intake
// and returns their codes sorted and de-duplicated.
//
// Per entry: mandatory entries always apply; trigger-gated entries apply
// when any trigger predicate matches; everything else falls back to the
// default-by-prefix table. requiredAppendices must already include both
// derived and declared appendices so APP- defaults can consult it.
func ResolveApplicability(intake *models.IntakeRecord, catalog []CompiledRequirement, requiredAppendices []string) []string {
	appendixSet := make(map[string]bool, len(requiredAppendices))
	for _, a := range requiredAppendices {
		appendixSet[a] = true
	}

	seen := make(map[string]bool, len(catalog))
	codes := make([]string, 0, len(catalog))
	for _, entry := range catalog {
		if !applies(intake, entry, appendixSet) || seen[entry.Code] {
			continue
		}
		seen[entry.Code] = true
		codes = append(codes, entry.Code)
	}

	sort.Strings(codes)
	return codes
}

func applies(intake *models.IntakeRecord, entry CompiledRequirement, appendixSet map[string]bool) bool {
	if entry.Mandatory {
		return true
	}

	// OR across triggers. An entry whose triggers all failed to parse is
	// trigger-gated with zero usable predicates: fail-closed.
	if entry.HasTriggers {
		for _, p := range entry.Predicates {
			if p.Evaluate(intake) {
				return true
			}
		}
		return false
	}

	switch entry.Category {
	case "LEGAL", "MGMT", "CERT", "PERSONNEL":
		return true
	case "FACILITY":
		return intake.FacilityCount() > 0
	case "PROC":
		return len(intake.ProcessingActivities) > 0
	case "DATA":
		return intake.HasDataActivity()
	case "SUPPLY":
		return intake.TotalDownstreamVendors > 0
	case "APP":
		return appendixSet[entry.Code]
	}

	// Unknown prefix: fail-closed.
	return false
}
