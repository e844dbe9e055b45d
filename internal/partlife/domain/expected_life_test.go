package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func km(v int64) *int64 { return &v }

func TestResolveExpectedLife_FallbackChain(t *testing.T) {
	categories := map[string]int64{"frenos": 40000}
	median := SparePartLifeStat{MedianDeltaKm: km(18000)}

	tests := []struct {
		name       string
		part       SparePart
		stat       *SparePartLifeStat
		wantKm     *int64
		wantSource string
	}{
		{
			name:       "part override wins",
			part:       SparePart{Category: "frenos", ExpectedLifeKm: km(30000)},
			stat:       &median,
			wantKm:     km(30000),
			wantSource: ExpectedSourcePart,
		},
		{
			name:       "category default next",
			part:       SparePart{Category: "frenos"},
			stat:       &median,
			wantKm:     km(40000),
			wantSource: ExpectedSourceCategory,
		},
		{
			name:       "learned median next",
			part:       SparePart{Category: "especial"},
			stat:       &median,
			wantKm:     km(18000),
			wantSource: ExpectedSourceMedian,
		},
		{
			name:       "unknown when nothing applies",
			part:       SparePart{Category: "especial"},
			stat:       nil,
			wantKm:     nil,
			wantSource: ExpectedSourceUnknown,
		},
		{
			name:       "zero override is ignored",
			part:       SparePart{Category: "frenos", ExpectedLifeKm: km(0)},
			stat:       nil,
			wantKm:     km(40000),
			wantSource: ExpectedSourceCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, source := ResolveExpectedLife(&tt.part, categories, tt.stat)
			assert.Equal(t, tt.wantSource, source)
			if tt.wantKm == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.wantKm, *got)
		})
	}
}
