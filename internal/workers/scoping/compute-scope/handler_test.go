// internal/workers/scoping/compute-scope/handler_test.go
package computescope

import (
	"context"
	"testing"

	"certscope-workers/internal/common/errors"
	"certscope-workers/internal/common/logger"
	"certscope-workers/internal/engine"
	"certscope-workers/internal/models"
	"certscope-workers/internal/refdata"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []models.RequirementCatalogEntry {
	return []models.RequirementCatalogEntry{
		{Code: "LEGAL-001", Name: "Legal registration", Descriptor: models.RequirementDescriptor{Mandatory: true}},
		{Code: "MGMT-001", Name: "Management system"},
		{Code: "PROC-001", Name: "Processing controls"},
		{Code: "APP-G", Name: "Collection appendix"},
	}
}

func testIntake() *models.IntakeRecord {
	return &models.IntakeRecord{
		LegalCompanyName:     "Acme Recycling LLC",
		BusinessEntityType:   "LLC",
		CertificationType:    models.CertificationInitial,
		StructureType:        models.StructureSingle,
		TotalFacilityCount:   "1",
		ProcessingActivities: []string{"Collection"},
	}
}

func newTestHandler(t *testing.T, rdb *redis.Client) *Handler {
	log := logger.NewTestLogger(t)
	eng := engine.New(log)
	store := refdata.NewStatic(eng, testCatalog(), nil)
	return NewHandler(LoadConfig(), eng, store, rdb, log)
}

func newTestRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestHandler_Execute_ComputesScope(t *testing.T) {
	handler := newTestHandler(t, nil)

	output, err := handler.Execute(context.Background(), &Input{
		AssessmentID: "assessment-001",
		Intake:       testIntake(),
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "assessment-001", output.AssessmentID)
	assert.NotEmpty(t, output.ComputationID)
	assert.False(t, output.FromCache)
	assert.Equal(t, []string{"APP-G", "LEGAL-001", "MGMT-001", "PROC-001"}, output.Scope.ApplicableRECCodes)
	assert.Equal(t, []string{"APP-G"}, output.Scope.RequiredAppendices)
	assert.InDelta(t, 3.0, output.Scope.EstimatedAuditDays, 1e-9)
}

func TestHandler_Execute_IncompleteIntakeRejected(t *testing.T) {
	handler := newTestHandler(t, nil)
	intake := testIntake()
	intake.CertificationType = ""

	_, err := handler.Execute(context.Background(), &Input{
		AssessmentID: "assessment-002",
		Intake:       intake,
	})

	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeIntakeIncomplete, stdErr.Code)
	assert.Equal(t, []string{"certificationType"}, stdErr.Metadata["missingFields"])
}

func TestHandler_Execute_MissingIntakeRejected(t *testing.T) {
	handler := newTestHandler(t, nil)

	_, err := handler.Execute(context.Background(), &Input{AssessmentID: "assessment-003"})

	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeIntakeParseFailed, stdErr.Code)
}

func TestHandler_Execute_CacheRoundTrip(t *testing.T) {
	rdb := newTestRedis(t)
	handler := newTestHandler(t, rdb)
	input := &Input{
		AssessmentID: "assessment-004",
		Intake:       testIntake(),
	}

	first, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.ComputationID, second.ComputationID)
	assert.Equal(t, first.Scope.ApplicableRECCodes, second.Scope.ApplicableRECCodes)
}

func TestHandler_Execute_ForceRefreshSkipsCache(t *testing.T) {
	rdb := newTestRedis(t)
	handler := newTestHandler(t, rdb)
	input := &Input{
		AssessmentID: "assessment-005",
		Intake:       testIntake(),
	}

	first, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)

	input.ForceRefresh = true
	second, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.False(t, second.FromCache)
	assert.NotEqual(t, first.ComputationID, second.ComputationID)
	// The recomputed scope matches the original apart from timestamps.
	assert.Equal(t, first.Scope.ApplicableRECCodes, second.Scope.ApplicableRECCodes)
	assert.Equal(t, first.Scope.ScopeStatement, second.Scope.ScopeStatement)
}

func TestHandler_Execute_CacheBackendFailureFallsThrough(t *testing.T) {
	// A mock with no expectations fails every command, so both the cache
	// read and the cache write error out. The computation must still
	// succeed.
	rdb, _ := redismock.NewClientMock()
	handler := newTestHandler(t, rdb)

	output, err := handler.Execute(context.Background(), &Input{
		AssessmentID: "assessment-007",
		Intake:       testIntake(),
	})

	require.NoError(t, err)
	assert.False(t, output.FromCache)
	assert.NotEmpty(t, output.Scope.ApplicableRECCodes)
}

func TestHandler_Execute_NoSnapshotLoaded(t *testing.T) {
	log := logger.NewTestLogger(t)
	eng := engine.New(log)
	handler := NewHandler(LoadConfig(), eng, &refdata.StaticProvider{}, nil, log)

	_, err := handler.Execute(context.Background(), &Input{
		AssessmentID: "assessment-006",
		Intake:       testIntake(),
	})

	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeSnapshotUnavailable, stdErr.Code)
}
