// internal/engine/complexity_test.go
package engine

import (
	"testing"

	"certscope-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCalculateComplexity(t *testing.T) {
	tests := []struct {
		name                  string
		intake                *models.IntakeRecord
		expectedFacility      float64
		expectedProcess       float64
		expectedData          float64
		expectedInternational float64
		expectedOverall       float64
	}{
		{
			name: "minimal single-facility collector",
			intake: &models.IntakeRecord{
				TotalFacilityCount:   "1",
				StructureType:        models.StructureSingle,
				ProcessingActivities: []string{"Collection"},
			},
			expectedFacility:      1.0,
			expectedProcess:       1.15,
			expectedData:          1.0,
			expectedInternational: 1.0,
			expectedOverall:       1.0375,
		},
		{
			name: "group recycler with focus materials and international shipments",
			intake: &models.IntakeRecord{
				TotalFacilityCount:     "3",
				StructureType:          models.StructureGroup,
				ProcessingActivities:   []string{"Refurbishment", "Materials Recovery"},
				FocusMaterials:         []string{"mercury"},
				TotalDownstreamVendors: 8,
				InternationalShipments: true,
				PrimaryCountries:       "Mexico, Canada",
			},
			expectedFacility:      1.82,   // min(2.0, 1.4) * 1.3
			expectedProcess:       1.8096, // 1.3 * 1.2 * 1.16
			expectedData:          1.0,
			expectedInternational: 1.68, // 1.4 * 1.2
			expectedOverall:       1.5774,
		},
		{
			name: "campus structure multiplier",
			intake: &models.IntakeRecord{
				TotalFacilityCount:   "2",
				StructureType:        models.StructureCampus,
				ProcessingActivities: []string{"Collection"},
			},
			expectedFacility:      1.44, // 1.2 * 1.2
			expectedProcess:       1.15,
			expectedData:          1.0,
			expectedInternational: 1.0,
			expectedOverall:       1.1475,
		},
		{
			name: "data sanitization raises the data factor",
			intake: &models.IntakeRecord{
				TotalFacilityCount:   "1",
				ProcessingActivities: []string{"Data Sanitization"},
			},
			expectedFacility:      1.0,
			expectedProcess:       1.15,
			expectedData:          1.5,
			expectedInternational: 1.0,
			expectedOverall:       1.1625,
		},
		{
			name: "unparseable facility count treated as zero",
			intake: &models.IntakeRecord{
				TotalFacilityCount:   "several",
				ProcessingActivities: []string{"Collection"},
			},
			expectedFacility:      1.0,
			expectedProcess:       1.15,
			expectedData:          1.0,
			expectedInternational: 1.0,
			expectedOverall:       1.0375,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factors := CalculateComplexity(tt.intake)

			assert.InDelta(t, tt.expectedFacility, factors.Facility, 1e-9)
			assert.InDelta(t, tt.expectedProcess, factors.Process, 1e-9)
			assert.InDelta(t, tt.expectedData, factors.Data, 1e-9)
			assert.InDelta(t, tt.expectedInternational, factors.International, 1e-9)
			assert.InDelta(t, tt.expectedOverall, factors.Overall, 1e-9)
		})
	}
}

func TestCalculateComplexity_FactorsStayBounded(t *testing.T) {
	// Push every input past its natural limit.
	intakes := []*models.IntakeRecord{
		{
			TotalFacilityCount: "50",
			StructureType:      models.StructureGroup, // 2.0 * 1.3 would be 2.6
		},
		{
			ProcessingActivities: []string{
				"Collection", "Sorting", "Testing", "Refurbishment", "Repair",
				"Data Sanitization", "Materials Recovery", "Metal Recovery",
				"Brokering", "Dismantling", "Shredding", "Resale",
			},
			FocusMaterials:         []string{"mercury", "lead", "crt glass"},
			TotalDownstreamVendors: 100,
		},
		{
			InternationalShipments: true,
			PrimaryCountries:       "A, B, C, D, E, F, G, H, I, J, K, L",
		},
	}

	for _, intake := range intakes {
		factors := CalculateComplexity(intake)
		for _, f := range []float64{factors.Facility, factors.Process, factors.Data, factors.International, factors.Overall} {
			assert.GreaterOrEqual(t, f, 1.0)
			assert.LessOrEqual(t, f, 2.5)
		}
	}
}

func TestCalculateComplexity_InternationalWithoutCountries(t *testing.T) {
	intake := &models.IntakeRecord{
		InternationalShipments: true,
	}

	factors := CalculateComplexity(intake)

	// No listed country still counts as one destination.
	assert.InDelta(t, 1.54, factors.International, 1e-9)
}

func TestEstimateAuditDays(t *testing.T) {
	tests := []struct {
		name     string
		certType models.CertificationType
		overall  float64
		expected float64
	}{
		{"initial at baseline complexity", models.CertificationInitial, 1.0, 3.0},
		{"initial simple collector", models.CertificationInitial, 1.0375, 3.0},
		{"initial rounds up to half day", models.CertificationInitial, 1.1, 3.5},
		{"recertification at baseline", models.CertificationRecert, 1.0, 2.0},
		{"recertification complex operation", models.CertificationRecert, 1.5774, 3.0},
		{"scope extension uses the shorter base", models.CertificationScopeExtension, 1.0, 2.0},
		{"transfer uses the full base", models.CertificationTransfer, 1.0, 3.0},
		{"maximum complexity initial", models.CertificationInitial, 2.5, 7.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, EstimateAuditDays(tt.certType, tt.overall), 1e-9)
		})
	}
}
