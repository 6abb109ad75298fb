// internal/refdata/store.go

// Package refdata loads the requirement catalog and master question bank
// into an immutable in-memory snapshot. The snapshot is built once and
// swapped atomically on an explicit refresh; the engine never performs
// I/O of its own.
package refdata

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"sync/atomic"
	"time"

	"github.com/lib/pq"
	"github.com/xeipuuv/gojsonschema"

	"certscope-workers/internal/common/errors"
	"certscope-workers/internal/common/logger"
	"certscope-workers/internal/common/metrics"
	"certscope-workers/internal/engine"
	"certscope-workers/internal/models"
)

// Snapshot is one immutable view of the reference data. Trigger
// conditions are compiled to predicates exactly once, here.
type Snapshot struct {
	Catalog   []models.RequirementCatalogEntry
	Compiled  []engine.CompiledRequirement
	Questions []models.Question
	LoadedAt  time.Time
}

// Store owns the current snapshot and knows how to rebuild it from
// Postgres. Reads are lock-free; Refresh swaps the whole snapshot.
type Store struct {
	db      *sql.DB
	engine  *engine.Engine
	logger  logger.Logger
	schema  *gojsonschema.Schema
	current atomic.Pointer[Snapshot]
}

func NewStore(db *sql.DB, eng *engine.Engine, log logger.Logger) *Store {
	return &Store{
		db:     db,
		engine: eng,
		logger: log.WithFields(map[string]interface{}{"component": "refdata"}),
	}
}

// LoadDescriptorSchema installs the JSON schema used to validate
// requirement descriptors at load time. Without a schema, descriptors are
// only checked structurally by the JSON decoder.
func (s *Store) LoadDescriptorSchema(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return err
	}
	s.schema = schema
	return nil
}

// Snapshot returns the current snapshot, or an error if none has been
// loaded yet.
func (s *Store) Snapshot() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, errors.NewSnapshotUnavailableError()
	}
	return snap, nil
}

// Refresh rebuilds the snapshot from Postgres and swaps it in. A
// malformed catalog entry fails the whole refresh; the previous snapshot
// stays in place.
func (s *Store) Refresh(ctx context.Context) error {
	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		metrics.SnapshotRefreshes.WithLabelValues("error").Inc()
		return err
	}
	questions, err := s.loadQuestions(ctx)
	if err != nil {
		metrics.SnapshotRefreshes.WithLabelValues("error").Inc()
		return err
	}

	snap := &Snapshot{
		Catalog:   catalog,
		Compiled:  s.engine.CompileCatalog(catalog),
		Questions: questions,
		LoadedAt:  time.Now().UTC(),
	}
	s.current.Store(snap)
	metrics.SnapshotRefreshes.WithLabelValues("success").Inc()

	s.logger.Info("reference data snapshot refreshed", map[string]interface{}{
		"catalogEntries": len(catalog),
		"questions":      len(questions),
	})
	return nil
}

// Invalidate drops and rebuilds the snapshot. Callers signal it when the
// catalog or question bank changes; there is no background polling.
func (s *Store) Invalidate(ctx context.Context) error {
	return s.Refresh(ctx)
}

func (s *Store) loadCatalog(ctx context.Context) ([]models.RequirementCatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, name, descriptor
		FROM requirement_catalog
		WHERE active = true
		ORDER BY code`)
	if err != nil {
		return nil, errors.NewCatalogLoadError(err.Error())
	}
	defer rows.Close()

	var catalog []models.RequirementCatalogEntry
	for rows.Next() {
		var entry models.RequirementCatalogEntry
		var descriptor []byte
		if err := rows.Scan(&entry.Code, &entry.Name, &descriptor); err != nil {
			return nil, errors.NewCatalogLoadError(err.Error())
		}
		if err := s.decodeDescriptor(entry.Code, descriptor, &entry.Descriptor); err != nil {
			return nil, err
		}
		catalog = append(catalog, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewCatalogLoadError(err.Error())
	}
	return catalog, nil
}

// decodeDescriptor validates the descriptor JSONB against the schema and
// decodes it. A malformed entry is a data-validation error for the
// caller, never silently dropped.
func (s *Store) decodeDescriptor(code string, raw []byte, out *models.RequirementDescriptor) error {
	if s.schema != nil {
		result, err := s.schema.Validate(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return errors.NewCatalogInvalidError(code, err.Error())
		}
		if !result.Valid() {
			details := ""
			for _, desc := range result.Errors() {
				if details != "" {
					details += "; "
				}
				details += desc.String()
			}
			return errors.NewCatalogInvalidError(code, details)
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.NewCatalogInvalidError(code, err.Error())
	}
	return nil
}

func (s *Store) loadQuestions(ctx context.Context) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, required, appendix, category_code, active, clause_order, question_order, tags, evidence_path
		FROM question_bank
		WHERE active = true
		ORDER BY clause_order, question_order`)
	if err != nil {
		return nil, errors.NewQuestionBankLoadError(err.Error())
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		var appendix, categoryCode, evidencePath sql.NullString
		if err := rows.Scan(
			&q.ID, &q.Text, &q.Required, &appendix, &categoryCode,
			&q.Active, &q.ClauseOrder, &q.QuestionOrder,
			pq.Array(&q.Tags), &evidencePath,
		); err != nil {
			return nil, errors.NewQuestionBankLoadError(err.Error())
		}
		q.Appendix = appendix.String
		q.CategoryCode = categoryCode.String
		q.EvidencePath = evidencePath.String
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQuestionBankLoadError(err.Error())
	}
	return questions, nil
}
