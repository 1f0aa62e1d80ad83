// gridgen generates candidate allocation grids and writes them as a wide
// allocation CSV ready for batching and backtesting.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"pvbacktest/internal/config"
	"pvbacktest/internal/grid"
	"pvbacktest/internal/infrastructure"
)

func main() {
	gridType := flag.String("type", "coarse", "grid type: coarse, fine, random or treasury")
	n := flag.Int("n", 0, "number of portfolios for the random grid (default from config)")
	seed := flag.Int64("seed", -1, "random seed (default from config)")
	output := flag.String("output", "", "output CSV path (default: data/source_tables grid file)")
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

	count := cfg.Grid.RandomCount
	if *n > 0 {
		count = *n
	}
	randomSeed := cfg.Grid.RandomSeed
	if *seed >= 0 {
		randomSeed = *seed
	}

	assets := grid.StandardAssets
	var portfolios []grid.Portfolio
	switch *gridType {
	case "coarse":
		portfolios = grid.CoarseGrid()
	case "fine":
		portfolios = grid.FineGrid()
	case "random":
		portfolios = grid.RandomPortfolios(count, randomSeed)
	case "treasury":
		assets = grid.TreasuryAssets
		portfolios = grid.TreasuryGrid()
	default:
		logger.Error("unknown grid type", slog.String("type", *gridType))
		os.Exit(2)
	}

	if len(portfolios) == 0 {
		logger.Error("grid generation produced no portfolios", slog.String("type", *gridType))
		os.Exit(1)
	}

	table, err := grid.ToTable(assets, portfolios)
	if err != nil {
		logger.Error("failed to build allocation table", slog.String("error", err.Error()))
		os.Exit(1)
	}

	outPath := *output
	if outPath == "" {
		outPath = paths.GridCSV
	}
	if err := table.WriteCSV(outPath); err != nil {
		logger.Error("failed to write grid", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("grid written",
		slog.String("type", *gridType),
		slog.Int("portfolios", len(portfolios)),
		slog.Int("assets", len(assets)),
		slog.String("file", outPath))
}
