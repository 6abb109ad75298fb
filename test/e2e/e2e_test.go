// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certscope-workers/internal/common/logger"
	"certscope-workers/internal/engine"
	"certscope-workers/internal/models"
	"certscope-workers/internal/refdata"
	"certscope-workers/pkg/bank"

	computescope "certscope-workers/internal/workers/scoping/compute-scope"
	filterquestions "certscope-workers/internal/workers/scoping/filter-questions"
	validateintake "certscope-workers/internal/workers/scoping/validate-intake"
)

// The pipeline test drives the three scoping workers back to back the way
// the process model does: validate the intake, compute the scope, then
// filter the question bank against it. Reference data comes from the
// checked-in bank file so the test exercises the same catalog the tooling
// ships with.
func loadReferenceData(t *testing.T) (*engine.Engine, *refdata.StaticProvider) {
	log := logger.NewTestLogger(t)
	eng := engine.New(log)

	b, err := bank.Load("../../configs/reference-bank.json")
	require.NoError(t, err)

	return eng, refdata.NewStatic(eng, b.Catalog, b.Questions)
}

func sampleIntake() *models.IntakeRecord {
	return &models.IntakeRecord{
		LegalCompanyName:       "Global E-Waste Corp",
		BusinessEntityType:     "Corporation",
		CertificationType:      models.CertificationInitial,
		StructureType:          models.StructureGroup,
		TotalFacilityCount:     "3",
		ProcessingActivities:   []string{"Collection", "Refurbishment", "Data Sanitization"},
		FocusMaterials:         []string{"mercury lamps"},
		TotalDownstreamVendors: 4,
		NonCertifiedVendors:    1,
		InternationalShipments: true,
		PrimaryCountries:       "Mexico, Canada",
		EHSMSType:              "ISO 14001",
	}
}

func TestScopingPipeline(t *testing.T) {
	eng, store := loadReferenceData(t)
	log := logger.NewTestLogger(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	intake := sampleIntake()

	// Step 1: the completeness gate passes.
	viHandler := validateintake.NewHandler(validateintake.LoadConfig(), log)
	viOut, err := viHandler.Execute(ctx, &validateintake.Input{
		AssessmentID: "assessment-e2e",
		Intake:       intake,
	})
	require.NoError(t, err)
	require.True(t, viOut.Result.IsComplete)

	// Step 2: scope computation.
	csHandler := computescope.NewHandler(computescope.LoadConfig(), eng, store, rdb, log)
	csOut, err := csHandler.Execute(ctx, &computescope.Input{
		AssessmentID: "assessment-e2e",
		Intake:       intake,
	})
	require.NoError(t, err)

	scope := csOut.Scope
	assert.NotEmpty(t, scope.ApplicableRECCodes)
	assert.Contains(t, scope.ApplicableRECCodes, "LEGAL-001")
	assert.Contains(t, scope.ApplicableRECCodes, "FACILITY-002")
	assert.Contains(t, scope.ApplicableRECCodes, "DATA-002")
	assert.Contains(t, scope.ApplicableRECCodes, "SUPPLY-002")
	assert.Contains(t, scope.RequiredAppendices, "APP-D")
	assert.Contains(t, scope.RequiredAppendices, "APP-G")
	assert.Greater(t, scope.ComplexityFactors.Overall, 1.0)
	assert.GreaterOrEqual(t, scope.EstimatedAuditDays, 3.0)
	assert.Contains(t, scope.CriticalRequirements, "Data Sanitization Verification")
	assert.Contains(t, scope.ScopeStatement, "Global E-Waste Corp")

	// Step 3: question filtering against the computed scope.
	fqHandler := filterquestions.NewHandler(filterquestions.LoadConfig(), eng, store, log)
	fqOut, err := fqHandler.Execute(ctx, &filterquestions.Input{
		AssessmentID:       "assessment-e2e",
		ApplicableRECCodes: scope.ApplicableRECCodes,
		RequiredAppendices: scope.RequiredAppendices,
	})
	require.NoError(t, err)

	result := fqOut.Result
	assert.False(t, result.FallbackApplied)
	assert.Greater(t, result.RelevantQuestions, 0)
	assert.LessOrEqual(t, result.RelevantQuestions, result.TotalQuestions)

	ids := make([]string, 0, len(result.Questions))
	for _, q := range result.Questions {
		ids = append(ids, q.ID)
	}
	assert.Contains(t, ids, "Q-LEGAL-001")
	assert.Contains(t, ids, "Q-DATA-001")
	assert.Contains(t, ids, "Q-APP-G-001")

	// A second computation comes straight from the cache.
	cached, err := csHandler.Execute(ctx, &computescope.Input{
		AssessmentID: "assessment-e2e",
		Intake:       intake,
	})
	require.NoError(t, err)
	assert.True(t, cached.FromCache)
	assert.Equal(t, csOut.ComputationID, cached.ComputationID)
}

func TestScopingPipeline_IncompleteIntakeStopsEarly(t *testing.T) {
	log := logger.NewTestLogger(t)
	ctx := context.Background()

	intake := sampleIntake()
	intake.CertificationType = ""

	viHandler := validateintake.NewHandler(validateintake.LoadConfig(), log)
	viOut, err := viHandler.Execute(ctx, &validateintake.Input{
		AssessmentID: "assessment-e2e-incomplete",
		Intake:       intake,
	})

	// The gate itself succeeds and reports the verdict for routing.
	require.NoError(t, err)
	assert.False(t, viOut.Result.IsComplete)
	assert.Contains(t, viOut.Result.MissingFields, "certificationType")
	assert.True(t, viOut.Result.CriticalFieldsMissing)
}
