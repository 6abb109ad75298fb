// internal/engine/complexity.go
package engine

import (
	"math"

	"certscope-workers/internal/models"
)

const (
	factorFloor = 1.0
	factorCeil  = 2.5
)

// CalculateComplexity computes the four complexity factors and their
// arithmetic mean. Every factor lands in [1.0, 2.5].
func CalculateComplexity(intake *models.IntakeRecord) models.ComplexityFactors {
	facility := facilityComplexity(intake)
	process := processComplexity(intake)
	data := dataComplexity(intake)
	international := internationalComplexity(intake)

	return models.ComplexityFactors{
		Facility:      facility,
		Process:       process,
		Data:          data,
		International: international,
		Overall:       (facility + process + data + international) / 4,
	}
}

func facilityComplexity(intake *models.IntakeRecord) float64 {
	f := 1.0
	if count := intake.FacilityCount(); count > 1 {
		f = math.Min(2.0, 1+float64(count-1)*0.2)
	}
	switch intake.StructureType {
	case models.StructureGroup:
		f *= 1.3
	case models.StructureCampus:
		f *= 1.2
	}
	return clampFactor(f)
}

func processComplexity(intake *models.IntakeRecord) float64 {
	f := math.Min(2.5, 1+float64(len(intake.ProcessingActivities))*0.15)
	if len(intake.FocusMaterials) > 0 {
		f *= 1.2
	}
	if intake.TotalDownstreamVendors > 5 {
		f *= math.Min(1.4, 1+float64(intake.TotalDownstreamVendors)*0.02)
	}
	return clampFactor(f)
}

func dataComplexity(intake *models.IntakeRecord) float64 {
	if intake.HasDataActivity() {
		return 1.5
	}
	return 1.0
}

func internationalComplexity(intake *models.IntakeRecord) float64 {
	if !intake.InternationalShipments {
		return 1.0
	}
	countries := len(intake.Countries())
	if countries < 1 {
		countries = 1
	}
	f := 1.4 * math.Min(1.5, 1+float64(countries)*0.1)
	return clampFactor(f)
}

func clampFactor(f float64) float64 {
	return math.Min(factorCeil, math.Max(factorFloor, f))
}

// EstimateAuditDays converts certification type and overall complexity
// into estimated audit days, rounded to the nearest half day.
func EstimateAuditDays(certType models.CertificationType, overall float64) float64 {
	base := 3.0
	switch certType {
	case models.CertificationRecert, models.CertificationScopeExtension:
		base = 2.0
	}
	return math.Round(base*overall*2) / 2
}
