package consolidate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMetadataCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio_metadata.csv")

	records := []PortfolioRecord{
		{UUID: "u1", Name: "Grid_1", Asset: "Gold", Weight: 0.4},
		{UUID: "u1", Name: "Grid_1", Asset: "Cash", Weight: 0.6},
	}
	require.NoError(t, WriteMetadataCSV(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "portfolio_uuid,portfolio_name,asset_name,portfolio_weight", lines[0])
	assert.Equal(t, "u1,Grid_1,Gold,0.4", lines[1])
}

func TestWriteMetricsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio_performance_metrics.csv")

	records := []MetricRecord{
		{UUID: "u1", Name: "Grid_1", Metric: "CAGR", Value: 8.25, Source: "Portfolio Performance (Jan 1998 - Dec 2024)"},
	}
	require.NoError(t, WriteMetricsCSV(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "portfolio_uuid,portfolio_name,metric_name,metric_value,table_source", lines[0])
	assert.Contains(t, lines[1], "u1,Grid_1,CAGR,8.25,")
}
