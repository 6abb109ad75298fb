// internal/engine/critical_test.go
package engine

import (
	"sort"
	"testing"

	"certscope-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestEnumerateCriticalRequirements(t *testing.T) {
	tests := []struct {
		name     string
		intake   *models.IntakeRecord
		expected []string
	}{
		{
			name:   "baseline set always applies",
			intake: &models.IntakeRecord{},
			expected: []string{
				"Environmental Health & Safety",
				"Legal Entity Documentation",
				"Management System",
			},
		},
		{
			name: "data activity adds sanitization and security controls",
			intake: &models.IntakeRecord{
				ProcessingActivities: []string{"Data Destruction"},
			},
			expected: []string{
				"Data Sanitization Verification",
				"Data Security Controls",
				"Environmental Health & Safety",
				"Legal Entity Documentation",
				"Management System",
			},
		},
		{
			name: "international shipments add export controls",
			intake: &models.IntakeRecord{
				InternationalShipments: true,
			},
			expected: []string{
				"Environmental Health & Safety",
				"Export & Import Compliance",
				"International Shipment Controls",
				"Legal Entity Documentation",
				"Management System",
			},
		},
		{
			name: "everything at once",
			intake: &models.IntakeRecord{
				TotalFacilityCount:     "3",
				ProcessingActivities:   []string{"Data Sanitization"},
				FocusMaterials:         []string{"mercury"},
				InternationalShipments: true,
			},
			expected: []string{
				"Data Sanitization Verification",
				"Data Security Controls",
				"Environmental Health & Safety",
				"Export & Import Compliance",
				"Focus Materials Management",
				"International Shipment Controls",
				"Legal Entity Documentation",
				"Management System",
				"Multi-Site Audit Program",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels := EnumerateCriticalRequirements(tt.intake)

			assert.Equal(t, tt.expected, labels)
			assert.True(t, sort.StringsAreSorted(labels))
		})
	}
}
