// internal/engine/engine.go

// Package engine derives a certification assessment scope from a
// compliance-intake record and a requirement catalog, and filters the
// master question bank down to that scope. All computation is pure and
// deterministic over already-loaded data; callers own every read and
// write around it.
package engine

import (
	"time"

	"certscope-workers/internal/common/logger"
	"certscope-workers/internal/models"
)

type Engine struct {
	logger logger.Logger
}

func New(log logger.Logger) *Engine {
	return &Engine{
		logger: log.WithFields(map[string]interface{}{"component": "scoping-engine"}),
	}
}

// ComputeScope runs the full scoping pipeline over a submitted intake
// record and a compiled requirement catalog. Given unchanged inputs the
// result is identical except for LastRefreshed, so concurrent
// recomputation is safe under last-write-wins.
func (e *Engine) ComputeScope(intake *models.IntakeRecord, catalog []CompiledRequirement) models.AssessmentScope {
	appendices := MergeAppendices(DetermineAppendices(intake), intake.DeclaredAppendices)
	codes := ResolveApplicability(intake, catalog, appendices)
	factors := CalculateComplexity(intake)
	days := EstimateAuditDays(intake.CertificationType, factors.Overall)
	critical := EnumerateCriticalRequirements(intake)
	statement := ComposeScopeStatement(intake)

	e.logger.Debug("scope computed", map[string]interface{}{
		"applicableCodes":    len(codes),
		"requiredAppendices": appendices,
		"overallComplexity":  factors.Overall,
		"estimatedAuditDays": days,
	})

	return models.AssessmentScope{
		ApplicableRECCodes:   codes,
		ScopeStatement:       statement,
		RequiredAppendices:   appendices,
		ComplexityFactors:    factors,
		EstimatedAuditDays:   days,
		CriticalRequirements: critical,
		LastRefreshed:        time.Now().UTC(),
	}
}

// CompileCatalog parses the catalog's trigger conditions through the
// engine's logger. See CompileCatalog in predicate.go.
func (e *Engine) CompileCatalog(entries []models.RequirementCatalogEntry) []CompiledRequirement {
	return CompileCatalog(entries, e.logger)
}
