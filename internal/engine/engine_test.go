// internal/engine/engine_test.go
package engine

import (
	"testing"

	"certscope-workers/internal/common/logger"
	"certscope-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scopingCatalogEntries() []models.RequirementCatalogEntry {
	return []models.RequirementCatalogEntry{
		{Code: "LEGAL-001", Name: "Legal registration", Descriptor: models.RequirementDescriptor{Mandatory: true}},
		{Code: "MGMT-001", Name: "Management system"},
		{Code: "PROC-001", Name: "Processing controls"},
		{Code: "DATA-001", Name: "Data sanitization"},
		{
			Code: "FACILITY-002", Name: "Multi-site controls",
			Descriptor: models.RequirementDescriptor{
				Triggers: map[string]string{
					"multiSite": "Multi-site structure selected",
				},
			},
		},
		{Code: "APP-G", Name: "Collection appendix"},
	}
}

func TestComputeScope_SingleFacilityCollector(t *testing.T) {
	eng := New(logger.NewTestLogger(t))
	catalog := eng.CompileCatalog(scopingCatalogEntries())

	intake := &models.IntakeRecord{
		LegalCompanyName:     "Acme Recycling LLC",
		BusinessEntityType:   "LLC",
		CertificationType:    models.CertificationInitial,
		StructureType:        models.StructureSingle,
		TotalFacilityCount:   "1",
		ProcessingActivities: []string{"Collection"},
	}

	scope := eng.ComputeScope(intake, catalog)

	assert.Equal(t, []string{"APP-G"}, scope.RequiredAppendices)
	assert.Equal(t, []string{"APP-G", "LEGAL-001", "MGMT-001", "PROC-001"}, scope.ApplicableRECCodes)
	assert.InDelta(t, 1.0375, scope.ComplexityFactors.Overall, 1e-9)
	assert.InDelta(t, 3.0, scope.EstimatedAuditDays, 1e-9)
	assert.Equal(t, []string{
		"Environmental Health & Safety",
		"Legal Entity Documentation",
		"Management System",
	}, scope.CriticalRequirements)
	assert.Equal(t,
		"Initial certification for Acme Recycling LLC, covering a single facility, performing Collection.",
		scope.ScopeStatement)
	assert.False(t, scope.LastRefreshed.IsZero())
}

func TestComputeScope_DeclaredAppendicesMergeIn(t *testing.T) {
	eng := New(logger.NewNoOpLogger())
	catalog := eng.CompileCatalog(scopingCatalogEntries())

	intake := &models.IntakeRecord{
		LegalCompanyName:     "Acme Recycling LLC",
		CertificationType:    models.CertificationInitial,
		TotalFacilityCount:   "1",
		ProcessingActivities: []string{"Collection"},
		DeclaredAppendices:   []string{"APP-D", "APP-X"},
	}

	scope := eng.ComputeScope(intake, catalog)

	// APP-D is honored, the unknown code is dropped.
	assert.Equal(t, []string{"APP-D", "APP-G"}, scope.RequiredAppendices)
}

func TestComputeScope_Deterministic(t *testing.T) {
	eng := New(logger.NewNoOpLogger())
	catalog := eng.CompileCatalog(scopingCatalogEntries())

	intake := &models.IntakeRecord{
		LegalCompanyName:       "Global E-Waste Corp",
		CertificationType:      models.CertificationRecert,
		StructureType:          models.StructureGroup,
		TotalFacilityCount:     "3",
		ProcessingActivities:   []string{"Refurbishment", "Materials Recovery"},
		FocusMaterials:         []string{"mercury"},
		TotalDownstreamVendors: 8,
		InternationalShipments: true,
		PrimaryCountries:       "Mexico, Canada",
	}

	first := eng.ComputeScope(intake, catalog)
	second := eng.ComputeScope(intake, catalog)

	// Everything except the refresh timestamp is a pure function of the
	// inputs.
	first.LastRefreshed = second.LastRefreshed
	assert.Equal(t, first, second)

	require.NotEmpty(t, first.ApplicableRECCodes)
	assert.InDelta(t, 1.5774, first.ComplexityFactors.Overall, 1e-9)
	assert.InDelta(t, 3.0, first.EstimatedAuditDays, 1e-9)
}
