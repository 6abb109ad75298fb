// internal/engine/narrative.go
package engine

import (
	"fmt"
	"strings"

	"certscope-workers/internal/models"
)

var certLabels = map[models.CertificationType]string{
	models.CertificationInitial:        "Initial",
	models.CertificationRecert:         "Recertification",
	models.CertificationTransfer:       "Transfer",
	models.CertificationScopeExtension: "Scope extension",
	models.CertificationOther:          "Other",
}

var structureLabels = map[models.StructureType]string{
	models.StructureSingle:       "single-site",
	models.StructureCampus:       "campus",
	models.StructureShared:       "shared",
	models.StructureCommonParent: "common-parent",
	models.StructureGroup:        "group",
	models.StructureUnsure:       "multi-site",
}

// ComposeScopeStatement builds the one-sentence scope narrative: fixed
// clause order, clauses joined with ", ", terminated with a period. It
// branches only on the same intake conditions the scoping components use.
func ComposeScopeStatement(intake *models.IntakeRecord) string {
	var clauses []string

	cert := certLabels[intake.CertificationType]
	if cert == "" {
		cert = "Initial"
	}
	clauses = append(clauses, fmt.Sprintf("%s certification for %s", cert, intake.LegalCompanyName))

	if count := intake.FacilityCount(); count <= 1 {
		clauses = append(clauses, "covering a single facility")
	} else {
		structure := structureLabels[intake.StructureType]
		if structure == "" {
			structure = "multi-site"
		}
		clauses = append(clauses, fmt.Sprintf("covering %d facilities under a %s structure", count, structure))
	}

	if len(intake.ProcessingActivities) > 0 {
		clauses = append(clauses, "performing "+joinList(intake.ProcessingActivities))
	}

	if intake.InternationalShipments {
		if countries := intake.Countries(); len(countries) > 0 {
			clauses = append(clauses, "shipping internationally to "+joinList(countries))
		} else {
			clauses = append(clauses, "shipping internationally")
		}
	}

	if intake.HasDataActivity() {
		clauses = append(clauses, "with data sanitization in scope")
	}

	if n := intake.TotalDownstreamVendors; n == 1 {
		clauses = append(clauses, "relying on 1 downstream vendor")
	} else if n > 1 {
		clauses = append(clauses, fmt.Sprintf("relying on %d downstream vendors", n))
	}

	return strings.Join(clauses, ", ") + "."
}

// joinList renders "a", "a and b", "a, b and c".
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}
