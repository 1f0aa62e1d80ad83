package consolidate

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"pvbacktest/internal/alloc"
	"pvbacktest/internal/batch"
	"pvbacktest/internal/config"
	"pvbacktest/internal/parser"
)

// PortfolioRecord is one (portfolio, asset) weight. Weight is a fraction in
// (0, 1]; zero-weight assets are never recorded.
type PortfolioRecord struct {
	UUID   string
	Name   string
	Asset  string
	Weight float64
}

// MetricRecord is one numeric performance metric for one portfolio. Source
// names the workbook table the value came from.
type MetricRecord struct {
	UUID   string
	Name   string
	Metric string
	Value  float64
	Source string
}

// metricTableTargets are the workbook tables whose rows become MetricRecords.
// Exported table names carry the backtest date range, which shifts with the
// configured start year, so matching tolerates date variants (see
// findMetricTable).
var metricTableTargets = []string{
	"Portfolio Performance (Jan 1998 - Dec 2024)",
	"Risk and Return Metrics (Jan 1998 - Dec 2024)",
	"Portfolio Performance (Jan 2003 - Dec 2024)",
	"Risk and Return Metrics (Jan 2003 - Dec 2024)",
}

// portfolioColumnHints map the site's fixed portfolio labels back to batch
// slots. The first portfolio is always labeled "Sample Portfolio".
var portfolioColumnHints = []struct {
	Substr string
	Slot   int
}{
	{"sample", 0},
	{"portfolio 2", 1},
	{"portfolio 3", 2},
}

// ExtractMetadata records every strictly positive allocation in the batch
// table, converting percent weights to fractions.
func ExtractMetadata(table *alloc.Table, reg *Registry) []PortfolioRecord {
	var records []PortfolioRecord
	for _, col := range table.Columns {
		id := reg.ResolveOrCreate(col)
		for i, asset := range table.Assets {
			w, ok := table.Weight(col, i)
			if !ok || w <= 0 {
				continue
			}
			records = append(records, PortfolioRecord{
				UUID:   id,
				Name:   col,
				Asset:  asset,
				Weight: w / 100,
			})
		}
	}
	return records
}

// ExtractMetrics pulls numeric metrics for the batch's portfolios from the
// report's performance tables. Each target table missing from the report is
// logged and skipped; non-numeric cells are dropped without comment.
func ExtractMetrics(report *parser.Report, table *alloc.Table, reg *Registry) []MetricRecord {
	logger := slog.Default()

	var records []MetricRecord
	seen := make(map[string]bool)
	for _, target := range metricTableTargets {
		parsed, ok := findMetricTable(report, target)
		if !ok {
			continue
		}
		if seen[parsed.Name] {
			continue
		}
		seen[parsed.Name] = true

		if parsed.Kind != parser.KindTabular || len(parsed.Columns) < 2 {
			logger.Warn("metric table has no portfolio columns",
				slog.String("table", parsed.Name),
				slog.String("source", report.Source))
			continue
		}

		for _, row := range parsed.Rows {
			metric := strings.TrimSpace(row[0])
			if metric == "" {
				continue
			}
			for j := 1; j < len(parsed.Columns) && j < len(row); j++ {
				slot := mapPortfolioColumn(parsed.Columns[j], j-1, len(table.Columns))
				if slot < 0 {
					logger.Warn("unmappable portfolio column",
						slog.String("table", parsed.Name),
						slog.String("column", parsed.Columns[j]))
					continue
				}
				value, ok := parseNumeric(row[j])
				if !ok {
					continue
				}
				name := table.Columns[slot]
				records = append(records, MetricRecord{
					UUID:   reg.ResolveOrCreate(name),
					Name:   name,
					Metric: metric,
					Value:  value,
					Source: parsed.Name,
				})
			}
		}
	}

	if len(records) == 0 {
		logger.Warn("no metrics extracted", slog.String("source", report.Source))
	}
	return records
}

// findMetricTable matches on the first 30 characters of the target so that
// exports with a different date range still resolve.
func findMetricTable(report *parser.Report, target string) (*parser.ParsedTable, bool) {
	prefix := target
	if len(prefix) > 30 {
		prefix = prefix[:30]
	}
	for i := range report.Tables {
		if strings.Contains(report.Tables[i].Name, prefix) {
			return &report.Tables[i], true
		}
	}
	return nil, false
}

// mapPortfolioColumn resolves a workbook column label to a batch slot: label
// hints win, otherwise the column's position is trusted. Returns -1 when the
// slot falls outside the batch.
func mapPortfolioColumn(label string, positional, n int) int {
	lower := strings.ToLower(label)
	for _, hint := range portfolioColumnHints {
		if strings.Contains(lower, hint.Substr) {
			if hint.Slot < n {
				return hint.Slot
			}
			return -1
		}
	}
	if positional < n {
		return positional
	}
	return -1
}

// parseNumeric coerces a display-formatted cell to a float. excelize returns
// formatted strings, so thousands separators, a trailing percent sign, and a
// leading dollar sign are stripped before parsing.
func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Result is the consolidated output of one run over a manifest.
type Result struct {
	Metadata []PortfolioRecord
	Metrics  []MetricRecord
	Registry *Registry
}

// Run consolidates every batch listed in the manifest. A batch allocation CSV
// that cannot be found is fatal; a results workbook that cannot be parsed is
// logged and skipped so one bad download does not sink the run.
func Run(manifestPath, batchDir, downloadsDir string, reg *Registry) (*Result, error) {
	logger := slog.Default()

	entries, err := batch.ReadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("manifest %s lists no batches", manifestPath)
	}

	result := &Result{Registry: reg}
	for _, entry := range entries {
		batchFile, err := batch.FindFile(batchDir, entry.BatchNum)
		if err != nil {
			return nil, err
		}
		table, err := alloc.ReadCSV(batchFile)
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", entry.BatchNum, err)
		}

		resultsPath := entry.ResultsFile
		if !filepath.IsAbs(resultsPath) {
			resultsPath = filepath.Join(downloadsDir, resultsPath)
		}
		report, err := parser.ParseWorkbook(resultsPath, config.ResultsSheetName)
		if err != nil {
			logger.Warn("skipping unreadable results workbook",
				slog.Int("batch", entry.BatchNum),
				slog.String("file", resultsPath),
				slog.String("error", err.Error()))
			continue
		}

		result.Metadata = append(result.Metadata, ExtractMetadata(table, reg)...)
		result.Metrics = append(result.Metrics, ExtractMetrics(report, table, reg)...)

		logger.Info("consolidated batch",
			slog.Int("batch", entry.BatchNum),
			slog.Int("portfolios", len(table.Columns)))
	}

	return result, nil
}
