package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectStructure(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want TableStructure
	}{
		{
			name: "keyword header found past title row",
			rows: [][]string{
				{"Portfolio Performance (Jan 2003 - Nov 2025)"},
				{"Metric", "Sample Portfolio", "Portfolio 2"},
				{"CAGR", "7.2", "6.8"},
			},
			want: TableStructure{HeaderRow: 1, DataStartRow: 2, NumColumns: 3, Type: TypeMetrics},
		},
		{
			name: "no keyword falls back to first row",
			rows: [][]string{
				{"Start Date", "Jan 2003"},
				{"End Date", "Nov 2025"},
			},
			want: TableStructure{HeaderRow: 0, DataStartRow: 1, NumColumns: 2, Type: TypeUnknown},
		},
		{
			name: "single-cell rows never become keyword headers",
			rows: [][]string{
				{"Allocation"},
				{"Asset", "Allocation"},
				{"Stocks", "60"},
			},
			want: TableStructure{HeaderRow: 1, DataStartRow: 2, NumColumns: 2, Type: TypeAllocation},
		},
		{
			name: "returns classified by year token",
			rows: [][]string{
				{"Year", "Return"},
				{"2003", "28.5"},
			},
			want: TableStructure{HeaderRow: 0, DataStartRow: 1, NumColumns: 2, Type: TypeReturns},
		},
		{
			name: "correlation classified",
			rows: [][]string{
				{"Correlation Matrix", "Stocks", "Bonds"},
				{"Stocks", "1.00", "-0.20"},
			},
			want: TableStructure{HeaderRow: 0, DataStartRow: 1, NumColumns: 3, Type: TypeCorrelation},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectStructure(tt.rows))
		})
	}
}

// The allocation rule is first in the ordered rule set, so an Allocation token
// wins no matter what else appears in the header.
func TestClassifyAllocationTakesPriority(t *testing.T) {
	headers := [][]string{
		{"Asset Allocation", "Portfolio 1"},
		{"Allocation", "Metric", "Performance"},
		{"Year", "Allocation", "Return", "Correlation"},
	}

	for _, header := range headers {
		assert.Equal(t, TypeAllocation, classify(header))
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	tests := []struct {
		header []string
		want   TableType
	}{
		{[]string{"Metric", "Annual Return"}, TypeMetrics},
		{[]string{"Performance Summary", "Value"}, TypeMetrics},
		{[]string{"Annual Returns", "Correlation"}, TypeReturns},
		{[]string{"Correlation", "Stocks"}, TypeCorrelation},
		{[]string{"Notes", "Source"}, TypeUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.header), "header %v", tt.header)
	}
}
