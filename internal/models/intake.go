// internal/models/intake.go
package models

import (
	"strconv"
	"strings"
)

// CertificationType identifies the kind of certification being sought.
type CertificationType string

const (
	CertificationInitial        CertificationType = "INITIAL"
	CertificationRecert         CertificationType = "RECERTIFICATION"
	CertificationTransfer       CertificationType = "TRANSFER"
	CertificationScopeExtension CertificationType = "SCOPE_EXTENSION"
	CertificationOther          CertificationType = "OTHER"
)

// StructureType describes how the certified facilities are organized.
type StructureType string

const (
	StructureSingle       StructureType = "SINGLE"
	StructureCampus       StructureType = "CAMPUS"
	StructureShared       StructureType = "SHARED"
	StructureCommonParent StructureType = "COMMON_PARENT"
	StructureGroup        StructureType = "GROUP"
	StructureUnsure       StructureType = "UNSURE"
)

// IntakeRecord holds the normalized questionnaire answers for one
// organization. The record is owned by the caller; the engine only reads it.
type IntakeRecord struct {
	ID                     string            `json:"id,omitempty"`
	LegalCompanyName       string            `json:"legalCompanyName"`
	BusinessEntityType     string            `json:"businessEntityType"`
	CertificationType      CertificationType `json:"certificationType"`
	StructureType          StructureType     `json:"certificationStructureType"`
	TotalFacilityCount     string            `json:"totalFacilityCount"` // numeric string as captured by the form
	ProcessingActivities   []string          `json:"processingActivities"`
	FocusMaterials         []string          `json:"focusMaterials"`
	ElectronicsTypes       []string          `json:"electronicsTypes"`
	TotalDownstreamVendors int               `json:"totalDownstreamVendors"`
	NonCertifiedVendors    int               `json:"nonCertifiedVendors"`
	InternationalShipments bool              `json:"internationalShipments"`
	PrimaryCountries       string            `json:"primaryCountries"` // comma-separated list
	EHSMSType              string            `json:"ehsmsType"`
	DeclaredAppendices     []string          `json:"declaredAppendices,omitempty"`
}

// FacilityCount parses the facility count captured as a numeric string.
// Unparseable or negative values count as zero.
func (r *IntakeRecord) FacilityCount() int {
	n, err := strconv.Atoi(strings.TrimSpace(r.TotalFacilityCount))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Countries splits the primary-countries field on commas, dropping blanks.
func (r *IntakeRecord) Countries() []string {
	if strings.TrimSpace(r.PrimaryCountries) == "" {
		return nil
	}
	parts := strings.Split(r.PrimaryCountries, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// HasActivity reports whether the named processing activity was selected,
// compared case-insensitively.
func (r *IntakeRecord) HasActivity(name string) bool {
	for _, a := range r.ProcessingActivities {
		if strings.EqualFold(strings.TrimSpace(a), name) {
			return true
		}
	}
	return false
}

// ActivityMentions reports whether any processing activity's text contains
// the given substring, compared case-insensitively.
func (r *IntakeRecord) ActivityMentions(substr string) bool {
	needle := strings.ToLower(substr)
	for _, a := range r.ProcessingActivities {
		if strings.Contains(strings.ToLower(a), needle) {
			return true
		}
	}
	return false
}

// HasDataActivity reports whether any processing activity relates to data
// destruction or sanitization.
func (r *IntakeRecord) HasDataActivity() bool {
	return r.ActivityMentions("data")
}

// HasFocusMaterial reports whether any listed focus material's text contains
// the given substring, compared case-insensitively.
func (r *IntakeRecord) HasFocusMaterial(substr string) bool {
	needle := strings.ToLower(substr)
	for _, m := range r.FocusMaterials {
		if strings.Contains(strings.ToLower(m), needle) {
			return true
		}
	}
	return false
}
