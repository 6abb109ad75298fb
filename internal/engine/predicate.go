// internal/engine/predicate.go
package engine

import (
	"fmt"
	"sort"
	"strings"

	"certscope-workers/internal/common/logger"
	"certscope-workers/internal/common/metrics"
	"certscope-workers/internal/models"
)

// Field is an intake attribute a trigger condition can inspect.
type Field string

const (
	FieldFacilityCount          Field = "facilityCount"
	FieldStructureType          Field = "structureType"
	FieldInternationalShipments Field = "internationalShipments"
	FieldProcessingActivities   Field = "processingActivities"
	FieldFocusMaterials         Field = "focusMaterials"
	FieldDownstreamVendors      Field = "downstreamVendors"
	FieldNonCertifiedVendors    Field = "nonCertifiedVendors"
	FieldEHSMSType              Field = "ehsmsType"
	FieldDataActivity           Field = "dataActivity"
)

// Op is a comparison operator.
type Op string

const (
	OpGreaterThan Op = "gt"       // numeric field > Int
	OpEquals      Op = "eq"       // field equals Str / Bool
	OpIn          Op = "in"       // field value is one of Strs
	OpIncludes    Op = "includes" // list field includes Str (exact, case-insensitive)
	OpContainsAny Op = "containsAny" // list field text contains any of Strs
	OpPresent     Op = "present"  // field is non-empty
)

// Predicate is one typed trigger condition: a {field, operator, literal}
// tuple parsed once when the catalog loads. Evaluation is total: an
// operator/field combination that makes no sense evaluates to false.
type Predicate struct {
	Field Field    `json:"field"`
	Op    Op       `json:"op"`
	Int   int      `json:"int,omitempty"`
	Str   string   `json:"str,omitempty"`
	Strs  []string `json:"strs,omitempty"`
	Bool  bool     `json:"bool,omitempty"`
}

// Evaluate applies the predicate to an intake record. It never panics and
// never errors; unsupported combinations are false.
func (p Predicate) Evaluate(r *models.IntakeRecord) bool {
	switch p.Field {
	case FieldFacilityCount:
		return compareInt(r.FacilityCount(), p)
	case FieldDownstreamVendors:
		return compareInt(r.TotalDownstreamVendors, p)
	case FieldNonCertifiedVendors:
		return compareInt(r.NonCertifiedVendors, p)
	case FieldStructureType:
		switch p.Op {
		case OpEquals:
			return string(r.StructureType) == p.Str
		case OpIn:
			for _, s := range p.Strs {
				if string(r.StructureType) == s {
					return true
				}
			}
		}
		return false
	case FieldInternationalShipments:
		return p.Op == OpEquals && r.InternationalShipments == p.Bool
	case FieldDataActivity:
		return p.Op == OpEquals && r.HasDataActivity() == p.Bool
	case FieldProcessingActivities:
		switch p.Op {
		case OpIncludes:
			return r.HasActivity(p.Str)
		case OpContainsAny:
			for _, s := range p.Strs {
				if r.ActivityMentions(s) {
					return true
				}
			}
		}
		return false
	case FieldFocusMaterials:
		if p.Op != OpContainsAny {
			return false
		}
		for _, s := range p.Strs {
			if r.HasFocusMaterial(s) {
				return true
			}
		}
		return false
	case FieldEHSMSType:
		return p.Op == OpPresent && strings.TrimSpace(r.EHSMSType) != ""
	}
	return false
}

func compareInt(v int, p Predicate) bool {
	switch p.Op {
	case OpGreaterThan:
		return v > p.Int
	case OpEquals:
		return v == p.Int
	}
	return false
}

// ParseCondition maps a catalog-authored condition expression onto a typed
// predicate. The vocabulary is closed: catalogs author conditions from a
// small fixed phrase set, and anything outside it is an error the caller
// logs and treats as non-matching.
func ParseCondition(expr string) (Predicate, error) {
	c := strings.ToLower(strings.TrimSpace(expr))
	switch {
	case c == "":
		return Predicate{}, fmt.Errorf("empty condition expression")
	case strings.Contains(c, "multi-site"), strings.Contains(c, "multiple sites"), strings.Contains(c, "multi site"):
		return Predicate{Field: FieldStructureType, Op: OpIn, Strs: []string{string(models.StructureCampus), string(models.StructureGroup)}}, nil
	case strings.Contains(c, "campus"):
		return Predicate{Field: FieldStructureType, Op: OpEquals, Str: string(models.StructureCampus)}, nil
	case strings.Contains(c, "group"):
		return Predicate{Field: FieldStructureType, Op: OpEquals, Str: string(models.StructureGroup)}, nil
	case strings.Contains(c, "facilit"), strings.Contains(c, "total count"):
		return Predicate{Field: FieldFacilityCount, Op: OpGreaterThan, Int: 1}, nil
	case strings.Contains(c, "international"):
		return Predicate{Field: FieldInternationalShipments, Op: OpEquals, Bool: true}, nil
	case strings.Contains(c, "data destruction"), strings.Contains(c, "data sanitization"), strings.Contains(c, "data security"):
		return Predicate{Field: FieldDataActivity, Op: OpEquals, Bool: true}, nil
	case strings.Contains(c, "refurbish"):
		return Predicate{Field: FieldProcessingActivities, Op: OpIncludes, Str: "Refurbishment"}, nil
	case strings.Contains(c, "materials recovery"), strings.Contains(c, "material recovery"):
		return Predicate{Field: FieldProcessingActivities, Op: OpIncludes, Str: "Materials Recovery"}, nil
	case strings.Contains(c, "collection"):
		return Predicate{Field: FieldProcessingActivities, Op: OpIncludes, Str: "Collection"}, nil
	case strings.Contains(c, "non-certified"), strings.Contains(c, "non certified"), strings.Contains(c, "non-r2"):
		return Predicate{Field: FieldNonCertifiedVendors, Op: OpGreaterThan, Int: 0}, nil
	case strings.Contains(c, "downstream"), strings.Contains(c, "vendor"):
		return Predicate{Field: FieldDownstreamVendors, Op: OpGreaterThan, Int: 0}, nil
	case strings.Contains(c, "mercury"):
		return Predicate{Field: FieldFocusMaterials, Op: OpContainsAny, Strs: []string{"mercury"}}, nil
	case strings.Contains(c, "lead"), strings.Contains(c, "crt"):
		return Predicate{Field: FieldFocusMaterials, Op: OpContainsAny, Strs: []string{"lead", "crt"}}, nil
	case strings.Contains(c, "environmental management"), strings.Contains(c, "ehsms"):
		return Predicate{Field: FieldEHSMSType, Op: OpPresent}, nil
	}
	return Predicate{}, fmt.Errorf("unrecognized condition expression: %q", expr)
}

// CompiledRequirement is one catalog entry with its trigger conditions
// parsed into predicates. HasTriggers is kept separately so that an entry
// whose every trigger failed to parse still counts as trigger-gated
// (fail-closed) instead of falling back to the prefix defaults.
type CompiledRequirement struct {
	Code        string
	Name        string
	Category    string
	Mandatory   bool
	HasTriggers bool
	Predicates  []Predicate
}

// CompileCatalog parses every catalog entry's trigger conditions once.
// Unrecognized conditions are logged, counted, and dropped; compilation
// never fails the whole catalog.
func CompileCatalog(entries []models.RequirementCatalogEntry, log logger.Logger) []CompiledRequirement {
	compiled := make([]CompiledRequirement, 0, len(entries))
	for _, e := range entries {
		cr := CompiledRequirement{
			Code:        e.Code,
			Name:        e.Name,
			Category:    e.Category(),
			Mandatory:   e.Descriptor.Mandatory,
			HasTriggers: len(e.Descriptor.Triggers) > 0,
		}

		// Stable trigger order keeps compilation logs deterministic.
		names := make([]string, 0, len(e.Descriptor.Triggers))
		for name := range e.Descriptor.Triggers {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			expr := e.Descriptor.Triggers[name]
			pred, err := ParseCondition(expr)
			if err != nil {
				metrics.UnrecognizedConditions.WithLabelValues(cr.Category).Inc()
				log.Warn("skipping unrecognized trigger condition", map[string]interface{}{
					"code":      e.Code,
					"trigger":   name,
					"condition": expr,
				})
				continue
			}
			cr.Predicates = append(cr.Predicates, pred)
		}
		compiled = append(compiled, cr)
	}
	return compiled
}
