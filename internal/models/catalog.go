// internal/models/catalog.go
package models

import "strings"

// RequirementDescriptor controls when a catalog entry applies. An entry is
// either unconditionally mandatory or gated on named trigger conditions
// authored in the catalog.
type RequirementDescriptor struct {
	Mandatory bool              `json:"mandatory"`
	Triggers  map[string]string `json:"triggers,omitempty"`
}

// RequirementCatalogEntry is one regulatory requirement (REC code) from the
// externally sourced catalog. Read-only; the engine never mutates it.
type RequirementCatalogEntry struct {
	Code       string                `json:"code"`
	Name       string                `json:"name"`
	Descriptor RequirementDescriptor `json:"descriptor"`
}

// Category returns the code's category prefix, i.e. the part before the
// first dash ("FACILITY-002" -> "FACILITY").
func (e RequirementCatalogEntry) Category() string {
	return CodeCategory(e.Code)
}

// CodeCategory splits a REC code on the first dash and returns the prefix.
// Codes without a dash are their own category.
func CodeCategory(code string) string {
	if i := strings.Index(code, "-"); i >= 0 {
		return code[:i]
	}
	return code
}
