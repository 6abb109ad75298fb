// internal/engine/appendix.go
package engine

import (
	"sort"

	"certscope-workers/internal/models"
)

// AppendixCodes is the fixed set of certification appendices.
var AppendixCodes = []string{"APP-A", "APP-B", "APP-C", "APP-D", "APP-E", "APP-F", "APP-G"}

// DetermineAppendices derives the required certification appendices from
// intake fields alone. The result is a sorted, de-duplicated subset of
// AppendixCodes.
func DetermineAppendices(intake *models.IntakeRecord) []string {
	set := make(map[string]bool, len(AppendixCodes))

	if len(intake.FocusMaterials) > 0 {
		set["APP-A"] = true
	}
	if intake.HasActivity("Refurbishment") {
		set["APP-B"] = true
	}
	if intake.HasActivity("Materials Recovery") || intake.HasActivity("Metal Recovery") {
		set["APP-C"] = true
	}
	if intake.HasDataActivity() {
		set["APP-D"] = true
	}
	if intake.TotalDownstreamVendors > 0 || intake.InternationalShipments {
		set["APP-E"] = true
	}
	if len(intake.ProcessingActivities) > 1 {
		set["APP-F"] = true
	}
	if intake.FacilityCount() > 1 || intake.HasActivity("Collection") {
		set["APP-G"] = true
	}

	return appendixList(set)
}

// MergeAppendices unions the derived set with appendices the intake
// explicitly declared, dropping anything outside the fixed code set.
func MergeAppendices(derived, declared []string) []string {
	valid := make(map[string]bool, len(AppendixCodes))
	for _, a := range AppendixCodes {
		valid[a] = true
	}

	set := make(map[string]bool, len(derived)+len(declared))
	for _, a := range derived {
		if valid[a] {
			set[a] = true
		}
	}
	for _, a := range declared {
		if valid[a] {
			set[a] = true
		}
	}
	return appendixList(set)
}

func appendixList(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
