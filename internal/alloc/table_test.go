package alloc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	table := NewTable([]string{"US Stock Market", "Gold"})

	assert.Equal(t, []string{"US Stock Market", "Gold"}, table.Assets)
	assert.Equal(t, []string{"1", "2"}, table.AssetNumbers)
	assert.Empty(t, table.Columns)
}

func TestAddColumn(t *testing.T) {
	table := NewTable([]string{"US Stock Market", "Gold"})

	err := table.AddColumn("Grid_1", []float64{60, 40})
	require.NoError(t, err)

	w, ok := table.Weight("Grid_1", 0)
	assert.True(t, ok)
	assert.Equal(t, 60.0, w)
	w, ok = table.Weight("Grid_1", 1)
	assert.True(t, ok)
	assert.Equal(t, 40.0, w)
}

func TestAddColumnLengthMismatch(t *testing.T) {
	table := NewTable([]string{"US Stock Market", "Gold"})

	err := table.AddColumn("Grid_1", []float64{60})
	assert.Error(t, err)
}

func TestAddColumnDuplicate(t *testing.T) {
	table := NewTable([]string{"US Stock Market"})

	require.NoError(t, table.AddColumn("Grid_1", []float64{100}))
	err := table.AddColumn("Grid_1", []float64{100})
	assert.Error(t, err)
}

func TestWeightEmptyCell(t *testing.T) {
	table := NewTable([]string{"US Stock Market", "Gold"})
	require.NoError(t, table.AddColumn("Grid_1", []float64{60, math.NaN()}))

	_, ok := table.Weight("Grid_1", 1)
	assert.False(t, ok)
}

func TestSelect(t *testing.T) {
	table := NewTable([]string{"US Stock Market", "Gold"})
	require.NoError(t, table.AddColumn("Grid_1", []float64{60, 40}))
	require.NoError(t, table.AddColumn("Grid_2", []float64{50, 50}))
	require.NoError(t, table.AddColumn("Grid_3", []float64{70, 30}))

	sub, err := table.Select([]string{"Grid_3", "Grid_1"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Grid_3", "Grid_1"}, sub.Columns)
	assert.Equal(t, table.Assets, sub.Assets)

	w, ok := sub.Weight("Grid_3", 1)
	assert.True(t, ok)
	assert.Equal(t, 30.0, w)
}

func TestSelectUnknownColumn(t *testing.T) {
	table := NewTable([]string{"US Stock Market"})
	require.NoError(t, table.AddColumn("Grid_1", []float64{100}))

	_, err := table.Select([]string{"Grid_9"})
	assert.Error(t, err)
}

func TestIsAllocationColumn(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Grid_1", true},
		{"Portfolio_42", true},
		{"TreasuryGrid_7", true},
		{"Asset_Description", false},
		{"Asset_Number", false},
		{"Notes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAllocationColumn(tt.name))
		})
	}
}
