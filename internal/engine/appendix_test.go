// internal/engine/appendix_test.go
package engine

import (
	"testing"

	"certscope-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDetermineAppendices(t *testing.T) {
	tests := []struct {
		name     string
		intake   *models.IntakeRecord
		expected []string
	}{
		{
			name:     "empty intake requires no appendices",
			intake:   &models.IntakeRecord{},
			expected: []string{},
		},
		{
			name: "single-facility collector",
			intake: &models.IntakeRecord{
				TotalFacilityCount:   "1",
				ProcessingActivities: []string{"Collection"},
			},
			expected: []string{"APP-G"},
		},
		{
			name: "focus materials require appendix A",
			intake: &models.IntakeRecord{
				FocusMaterials: []string{"mercury"},
			},
			expected: []string{"APP-A"},
		},
		{
			name: "refurbishment requires appendix B",
			intake: &models.IntakeRecord{
				ProcessingActivities: []string{"Refurbishment"},
			},
			expected: []string{"APP-B"},
		},
		{
			name: "metal recovery counts as materials recovery",
			intake: &models.IntakeRecord{
				ProcessingActivities: []string{"Metal Recovery"},
			},
			expected: []string{"APP-C"},
		},
		{
			name: "data sanitization requires appendix D",
			intake: &models.IntakeRecord{
				ProcessingActivities: []string{"Data Sanitization"},
			},
			expected: []string{"APP-D"},
		},
		{
			name: "international shipments alone require appendix E",
			intake: &models.IntakeRecord{
				InternationalShipments: true,
			},
			expected: []string{"APP-E"},
		},
		{
			name: "multiple activities require appendix F",
			intake: &models.IntakeRecord{
				ProcessingActivities: []string{"Sorting", "Testing"},
			},
			expected: []string{"APP-F"},
		},
		{
			name: "multiple facilities require appendix G",
			intake: &models.IntakeRecord{
				TotalFacilityCount: "4",
			},
			expected: []string{"APP-G"},
		},
		{
			name: "group recycler spanning most appendices",
			intake: &models.IntakeRecord{
				TotalFacilityCount:     "3",
				StructureType:          models.StructureGroup,
				ProcessingActivities:   []string{"Refurbishment", "Materials Recovery"},
				FocusMaterials:         []string{"mercury"},
				TotalDownstreamVendors: 8,
				InternationalShipments: true,
			},
			expected: []string{"APP-A", "APP-B", "APP-C", "APP-E", "APP-F", "APP-G"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetermineAppendices(tt.intake))
		})
	}
}

func TestMergeAppendices(t *testing.T) {
	tests := []struct {
		name     string
		derived  []string
		declared []string
		expected []string
	}{
		{
			name:     "declared extends derived",
			derived:  []string{"APP-G"},
			declared: []string{"APP-D"},
			expected: []string{"APP-D", "APP-G"},
		},
		{
			name:     "duplicates collapse",
			derived:  []string{"APP-A", "APP-B"},
			declared: []string{"APP-B", "APP-A"},
			expected: []string{"APP-A", "APP-B"},
		},
		{
			name:     "unknown codes are dropped",
			derived:  []string{"APP-A"},
			declared: []string{"APP-Z", "appendix d", ""},
			expected: []string{"APP-A"},
		},
		{
			name:     "both empty",
			derived:  nil,
			declared: nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MergeAppendices(tt.derived, tt.declared))
		})
	}
}
