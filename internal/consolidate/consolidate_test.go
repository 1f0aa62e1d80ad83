package consolidate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pvbacktest/internal/alloc"
	"pvbacktest/internal/batch"
	"pvbacktest/internal/config"
	"pvbacktest/internal/parser"
)

func TestRegistryResolveOrCreateIdempotent(t *testing.T) {
	reg := NewRegistry()

	first := reg.ResolveOrCreate("Grid_1")
	second := reg.ResolveOrCreate("Grid_1")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, reg.Len())

	other := reg.ResolveOrCreate("Grid_2")
	assert.NotEqual(t, first, other)
	assert.Equal(t, []string{"Grid_1", "Grid_2"}, reg.Names())
}

func TestRegistrySaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio_uuid_mapping.csv")

	reg := NewRegistry()
	id1 := reg.ResolveOrCreate("Grid_1")
	id2 := reg.ResolveOrCreate("Grid_2")
	require.NoError(t, reg.Save(path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)

	got, ok := loaded.UUID("Grid_1")
	assert.True(t, ok)
	assert.Equal(t, id1, got)

	// identifiers survive re-runs: resolving again must not re-mint
	assert.Equal(t, id2, loaded.ResolveOrCreate("Grid_2"))
	assert.Equal(t, 2, loaded.Len())
}

func TestLoadRegistryMissingFile(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Len())
}

func TestExtractMetadata(t *testing.T) {
	table := alloc.NewTable([]string{"US Stock Market", "Gold", "Cash"})
	require.NoError(t, table.AddColumn("Grid_1", []float64{50, 30, 20}))
	require.NoError(t, table.AddColumn("Grid_2", []float64{100, 0, 0}))

	reg := NewRegistry()
	records := ExtractMetadata(table, reg)

	require.Len(t, records, 4) // zero weights excluded

	assert.Equal(t, "Grid_1", records[0].Name)
	assert.Equal(t, "US Stock Market", records[0].Asset)
	assert.InDelta(t, 0.5, records[0].Weight, 1e-12)
	assert.InDelta(t, 0.3, records[1].Weight, 1e-12)
	assert.InDelta(t, 0.2, records[2].Weight, 1e-12)

	assert.Equal(t, "Grid_2", records[3].Name)
	assert.InDelta(t, 1.0, records[3].Weight, 1e-12)

	// two portfolios, two identifiers, stable across both record types
	id, ok := reg.UUID("Grid_1")
	require.True(t, ok)
	assert.Equal(t, id, records[0].UUID)
}

func TestExtractMetadataIdempotentPerRun(t *testing.T) {
	table := alloc.NewTable([]string{"Gold"})
	require.NoError(t, table.AddColumn("Grid_1", []float64{100}))

	reg := NewRegistry()
	first := ExtractMetadata(table, reg)
	second := ExtractMetadata(table, reg)

	assert.Equal(t, first[0].UUID, second[0].UUID)
	assert.Equal(t, 1, reg.Len())
}

func TestExtractMetrics(t *testing.T) {
	report := &parser.Report{
		Source: "batch_001.xlsx",
		Tables: []parser.ParsedTable{
			{
				Name:    "Portfolio Performance (Jan 1998 - Dec 2024)",
				Kind:    parser.KindTabular,
				Columns: []string{"Metric", "Sample Portfolio", "Portfolio 2", "Portfolio 3"},
				Rows: [][]string{
					{"CAGR", "8.32%", "7.10%", "N/A"},
					{"Final Balance", "$49,123", "41,002", "38,500"},
				},
			},
		},
	}

	table := alloc.NewTable([]string{"Gold"})
	require.NoError(t, table.AddColumn("Grid_1", []float64{100}))
	require.NoError(t, table.AddColumn("Grid_2", []float64{100}))
	require.NoError(t, table.AddColumn("Grid_3", []float64{100}))

	reg := NewRegistry()
	records := ExtractMetrics(report, table, reg)

	// the N/A cell is dropped, its numeric siblings kept
	require.Len(t, records, 5)

	assert.Equal(t, "Grid_1", records[0].Name)
	assert.Equal(t, "CAGR", records[0].Metric)
	assert.InDelta(t, 8.32, records[0].Value, 1e-12)
	assert.Equal(t, "Portfolio Performance (Jan 1998 - Dec 2024)", records[0].Source)

	assert.Equal(t, "Grid_2", records[1].Name)
	assert.InDelta(t, 7.10, records[1].Value, 1e-12)

	assert.Equal(t, "Final Balance", records[2].Metric)
	assert.InDelta(t, 49123, records[2].Value, 1e-12)
	assert.InDelta(t, 41002, records[3].Value, 1e-12)
	assert.InDelta(t, 38500, records[4].Value, 1e-12)
}

func TestExtractMetricsDateVariantMatch(t *testing.T) {
	report := &parser.Report{
		Tables: []parser.ParsedTable{
			{
				Name:    "Risk and Return Metrics (Jan 1998 - Jun 2025)",
				Kind:    parser.KindTabular,
				Columns: []string{"Metric", "Sample Portfolio"},
				Rows:    [][]string{{"Sharpe Ratio", "0.61"}},
			},
		},
	}

	table := alloc.NewTable([]string{"Gold"})
	require.NoError(t, table.AddColumn("Grid_1", []float64{100}))

	records := ExtractMetrics(report, table, NewRegistry())
	require.Len(t, records, 1)
	assert.Equal(t, "Sharpe Ratio", records[0].Metric)
	assert.InDelta(t, 0.61, records[0].Value, 1e-12)
}

func TestMapPortfolioColumn(t *testing.T) {
	tests := []struct {
		name       string
		label      string
		positional int
		n          int
		want       int
	}{
		{"sample hint", "Sample Portfolio", 2, 3, 0},
		{"portfolio 2 hint", "Portfolio 2", 0, 3, 1},
		{"portfolio 3 hint", "Portfolio 3", 0, 3, 2},
		{"positional fallback", "Column_2", 1, 3, 1},
		{"hint beyond batch", "Portfolio 3", 0, 2, -1},
		{"positional beyond batch", "Column_5", 4, 3, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapPortfolioColumn(tt.label, tt.positional, tt.n))
		})
	}
}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		in    string
		want  float64
		valid bool
	}{
		{"8.32%", 8.32, true},
		{"$49,123", 49123, true},
		{"1,234.56", 1234.56, true},
		{"-3.1%", -3.1, true},
		{" 12 ", 12, true},
		{"N/A", 0, false},
		{"", 0, false},
		{"Stdev", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseNumeric(tt.in)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestTopBySharpe(t *testing.T) {
	records := []MetricRecord{
		{Name: "Grid_1", Metric: "Sharpe Ratio", Value: 0.5},
		{Name: "Grid_1", Metric: "CAGR", Value: 9.9},
		{Name: "Grid_2", Metric: "Sharpe Ratio", Value: 0.8},
		{Name: "Grid_3", Metric: "Sharpe Ratio", Value: 0.3},
	}

	top := TopBySharpe(records, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "Grid_2", top[0].Name)
	assert.Equal(t, "Grid_1", top[1].Name)
}

func writeResultsWorkbook(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(config.ResultsSheetName)
	require.NoError(t, err)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(config.ResultsSheetName, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	batchDir := filepath.Join(dir, "batch_files")
	downloadsDir := filepath.Join(dir, "downloads")
	manifestPath := filepath.Join(batchDir, "batch_manifest.csv")

	table := alloc.NewTable([]string{"US Stock Market", "Gold"})
	require.NoError(t, table.AddColumn("Grid_1", []float64{60, 40}))
	require.NoError(t, table.AddColumn("Grid_2", []float64{70, 30}))

	_, err := batch.CreateFile(table, 1, []string{"Grid_1", "Grid_2"}, batchDir)
	require.NoError(t, err)

	writeResultsWorkbook(t, filepath.Join(downloadsDir, "results_001.xlsx"), [][]interface{}{
		{"Portfolio Performance (Jan 1998 - Dec 2024)"},
		{"Metric", "Sample Portfolio", "Portfolio 2"},
		{"CAGR", "8.00%", "7.50%"},
		{"Sharpe Ratio", "0.55", "0.62"},
	})

	require.NoError(t, batch.AppendManifest(manifestPath, batch.ManifestEntry{
		BatchNum:    1,
		ResultsFile: "results_001.xlsx",
	}))

	reg := NewRegistry()
	result, err := Run(manifestPath, batchDir, downloadsDir, reg)
	require.NoError(t, err)

	assert.Len(t, result.Metadata, 4)
	assert.Len(t, result.Metrics, 4)
	assert.Equal(t, []string{"Grid_1", "Grid_2"}, reg.Names())

	top := TopBySharpe(result.Metrics, 1)
	require.Len(t, top, 1)
	assert.Equal(t, "Grid_2", top[0].Name)
}

func TestRunMissingBatchFileFatal(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "batch_manifest.csv")
	require.NoError(t, batch.AppendManifest(manifestPath, batch.ManifestEntry{
		BatchNum:    7,
		ResultsFile: "results_007.xlsx",
	}))

	_, err := Run(manifestPath, dir, dir, NewRegistry())
	assert.Error(t, err)
}
