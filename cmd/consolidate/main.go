// consolidate reads the batch manifest, re-parses every downloaded results
// workbook against its batch allocation file, and writes the three
// consolidated tables: portfolio metadata, performance metrics and the
// identifier mapping.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"pvbacktest/internal/config"
	"pvbacktest/internal/consolidate"
	"pvbacktest/internal/infrastructure"
)

func main() {
	manifest := flag.String("manifest", "", "batch manifest CSV (default: data/batch_files manifest)")
	outDir := flag.String("out-dir", "", "output directory (default: data/generated_tables)")
	topN := flag.Int("top", 5, "number of top portfolios by Sharpe Ratio to report")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	paths, err := config.GetPaths()
	if err != nil {
		logger.Error("failed to resolve paths", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("failed to create directories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	manifestPath := *manifest
	if manifestPath == "" {
		manifestPath = paths.ManifestCSV
	}

	metadataCSV := paths.MetadataCSV
	metricsCSV := paths.MetricsCSV
	mappingCSV := paths.UUIDMappingCSV
	if *outDir != "" {
		metadataCSV = filepath.Join(*outDir, config.MetadataFileName)
		metricsCSV = filepath.Join(*outDir, config.MetricsFileName)
		mappingCSV = filepath.Join(*outDir, config.UUIDMappingFileName)
	}

	// an existing mapping keeps identifiers stable across re-runs
	registry, err := consolidate.LoadRegistry(mappingCSV)
	if err != nil {
		logger.Error("failed to load identifier mapping", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if registry.Len() > 0 {
		logger.Info("loaded existing identifier mapping", slog.Int("portfolios", registry.Len()))
	}

	result, err := consolidate.Run(manifestPath, paths.BatchFilesDir, paths.DownloadsDir, registry)
	if err != nil {
		logger.Error("consolidation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := consolidate.WriteMetadataCSV(metadataCSV, result.Metadata); err != nil {
		logger.Error("failed to write metadata", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := consolidate.WriteMetricsCSV(metricsCSV, result.Metrics); err != nil {
		logger.Error("failed to write metrics", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := registry.Save(mappingCSV); err != nil {
		logger.Error("failed to save identifier mapping", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("consolidation complete",
		slog.Int("portfolios", registry.Len()),
		slog.Int("metadata_rows", len(result.Metadata)),
		slog.Int("metric_rows", len(result.Metrics)),
		slog.String("metadata", metadataCSV),
		slog.String("metrics", metricsCSV),
		slog.String("mapping", mappingCSV))

	for i, r := range consolidate.TopBySharpe(result.Metrics, *topN) {
		logger.Info("top portfolio by Sharpe Ratio",
			slog.Int("rank", i+1),
			slog.String("portfolio", r.Name),
			slog.Float64("sharpe", r.Value))
	}
}
