// internal/refdata/static.go
package refdata

import (
	"time"

	"certscope-workers/internal/common/errors"
	"certscope-workers/internal/engine"
	"certscope-workers/internal/models"
)

// StaticProvider serves a fixed snapshot. Tooling and tests use it in
// place of the Postgres-backed store.
type StaticProvider struct {
	snap *Snapshot
}

// NewStatic builds a snapshot directly from in-memory reference data,
// compiling the catalog the same way Refresh does.
func NewStatic(eng *engine.Engine, catalog []models.RequirementCatalogEntry, questions []models.Question) *StaticProvider {
	return &StaticProvider{
		snap: &Snapshot{
			Catalog:   catalog,
			Compiled:  eng.CompileCatalog(catalog),
			Questions: questions,
			LoadedAt:  time.Now().UTC(),
		},
	}
}

func (p *StaticProvider) Snapshot() (*Snapshot, error) {
	if p.snap == nil {
		return nil, errors.NewSnapshotUnavailableError()
	}
	return p.snap, nil
}
