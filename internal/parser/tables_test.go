package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectTableBlocks(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want []TableBlock
	}{
		{
			name: "two tables separated by one empty row",
			rows: [][]string{
				{"Portfolio Allocations"},
				{"Asset", "Weight"},
				{"Stocks", "60"},
				{},
				{"Risk Metrics"},
				{"Metric", "Value"},
			},
			want: []TableBlock{
				{Start: 0, End: 2, Name: "Portfolio Allocations"},
				{Start: 4, End: 5, Name: "Risk Metrics"},
			},
		},
		{
			name: "consecutive empty rows collapse to one separator",
			rows: [][]string{
				{"First"},
				{},
				{},
				{},
				{"Second"},
			},
			want: []TableBlock{
				{Start: 0, End: 0, Name: "First"},
				{Start: 4, End: 4, Name: "Second"},
			},
		},
		{
			name: "block open at grid end still closes",
			rows: [][]string{
				{},
				{"Tail Table"},
				{"a", "b"},
			},
			want: []TableBlock{
				{Start: 1, End: 2, Name: "Tail Table"},
			},
		},
		{
			name: "single non-empty row surrounded by empty rows",
			rows: [][]string{
				{},
				{"Lonely"},
				{},
			},
			want: []TableBlock{
				{Start: 1, End: 1, Name: "Lonely"},
			},
		},
		{
			name: "whitespace-only cells count as empty",
			rows: [][]string{
				{"  ", "\t"},
				{"Real"},
			},
			want: []TableBlock{
				{Start: 1, End: 1, Name: "Real"},
			},
		},
		{
			name: "all empty grid yields no blocks",
			rows: [][]string{{}, {"", ""}, {}},
			want: nil,
		},
		{
			name: "name falls back from later cell in first row",
			rows: [][]string{
				{"", "Offset Name"},
				{"x"},
			},
			want: []TableBlock{
				{Start: 0, End: 1, Name: "Offset Name"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectTableBlocks(tt.rows))
		})
	}
}

// Blocks must be disjoint, in source order, and together with separator rows
// account for every row of the grid.
func TestDetectTableBlocksPartitionInvariant(t *testing.T) {
	rows := [][]string{
		{"A"},
		{"1"},
		{},
		{"B", "x"},
		{},
		{},
		{"C"},
		{"2"},
		{"3"},
	}

	blocks := DetectTableBlocks(rows)
	require.Len(t, blocks, 3)

	covered := 0
	prevEnd := -1
	for _, b := range blocks {
		assert.Greater(t, b.Start, prevEnd, "blocks must not overlap and must be ordered")
		assert.GreaterOrEqual(t, b.End, b.Start)
		covered += b.Len()
		prevEnd = b.End
	}

	separators := 0
	for _, row := range rows {
		if isEmptyRow(row) {
			separators++
		}
	}
	assert.Equal(t, len(rows), covered+separators)
}

func TestBlockNameFallback(t *testing.T) {
	// Defensive path only: a block's first row is non-empty by construction.
	assert.Equal(t, "Table_3", blockName([]string{"", "  "}, 3))
}
