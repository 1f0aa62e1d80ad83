package consolidate

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// WriteMetadataCSV writes portfolio allocations in long format.
func WriteMetadataCSV(path string, records []PortfolioRecord) error {
	return writeCSV(path, []string{"portfolio_uuid", "portfolio_name", "asset_name", "portfolio_weight"},
		len(records), func(i int) []string {
			r := records[i]
			return []string{r.UUID, r.Name, r.Asset, strconv.FormatFloat(r.Weight, 'f', -1, 64)}
		})
}

// WriteMetricsCSV writes performance metrics in long format.
func WriteMetricsCSV(path string, records []MetricRecord) error {
	return writeCSV(path, []string{"portfolio_uuid", "portfolio_name", "metric_name", "metric_value", "table_source"},
		len(records), func(i int) []string {
			r := records[i]
			return []string{r.UUID, r.Name, r.Metric, strconv.FormatFloat(r.Value, 'f', -1, 64), r.Source}
		})
}

func writeCSV(path string, header []string, n int, row func(int) []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := writer.Write(row(i)); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// TopBySharpe returns up to n metric records for the Sharpe Ratio metric,
// highest first. Used for the end-of-run ranking report.
func TopBySharpe(records []MetricRecord, n int) []MetricRecord {
	var sharpe []MetricRecord
	for _, r := range records {
		if r.Metric == "Sharpe Ratio" {
			sharpe = append(sharpe, r)
		}
	}
	sort.SliceStable(sharpe, func(i, j int) bool { return sharpe[i].Value > sharpe[j].Value })
	if len(sharpe) > n {
		sharpe = sharpe[:n]
	}
	return sharpe
}
