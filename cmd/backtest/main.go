// backtest splits an allocation grid into batches, drives each batch through
// the Portfolio Visualizer backtest form in one logged-in browser session,
// and records every downloaded results workbook in the batch manifest.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"pvbacktest/internal/alloc"
	"pvbacktest/internal/batch"
	"pvbacktest/internal/browser"
	"pvbacktest/internal/config"
	"pvbacktest/internal/infrastructure"
)

func main() {
	gridFile := flag.String("grid-file", "", "allocation grid CSV (default: data/source_tables grid file)")
	startBatch := flag.Int("start-batch", 1, "first batch number to run")
	endBatch := flag.Int("end-batch", 0, "last batch number to run (0 = all)")
	headless := flag.Bool("headless", true, "run the browser headless")
	manifest := flag.String("manifest", "", "batch manifest CSV (default: data/batch_files manifest)")
	wait := flag.Duration("wait", 0, "per-batch wait budget (default from config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.Browser.Headless = *headless
	if *wait > 0 {
		cfg.Browser.BacktestWait = *wait
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

	gridPath := *gridFile
	if gridPath == "" {
		gridPath = paths.GridCSV
	}
	manifestPath := *manifest
	if manifestPath == "" {
		manifestPath = paths.ManifestCSV
	}
	table, err := alloc.ReadCSV(gridPath)
	if err != nil {
		logger.Error("failed to load allocation grid", slog.String("error", err.Error()))
		os.Exit(1)
	}

	groups := batch.Split(table.Columns)
	if len(groups) == 0 {
		logger.Error("allocation grid has no portfolio columns", slog.String("file", gridPath))
		os.Exit(1)
	}
	last := len(groups)
	if *endBatch > 0 && *endBatch < last {
		last = *endBatch
	}
	if *startBatch < 1 || *startBatch > last {
		logger.Error("batch range empty",
			slog.Int("start", *startBatch),
			slog.Int("end", last))
		os.Exit(2)
	}

	logger.Info("starting backtest run",
		slog.String("grid", gridPath),
		slog.Int("portfolios", len(table.Columns)),
		slog.Int("batches", last-*startBatch+1))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := browser.NewSession(ctx, cfg.Browser, paths.DownloadsDir, logger)
	if err != nil {
		logger.Error("failed to start browser", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer session.Close()

	if err := session.Login(); err != nil {
		logger.Error("login failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.Browser.RequestsPerSec), 1)

	failed := 0
	for num := *startBatch; num <= last; num++ {
		if err := limiter.Wait(ctx); err != nil {
			logger.Warn("run interrupted", slog.String("error", err.Error()))
			break
		}

		columns := groups[num-1]
		batchFile, err := batch.CreateFile(table, num, columns, paths.BatchFilesDir)
		if err != nil {
			logger.Error("failed to write batch file",
				slog.Int("batch", num),
				slog.String("error", err.Error()))
			os.Exit(1)
		}

		sub, err := table.Select(columns)
		if err != nil {
			logger.Error("failed to slice batch",
				slog.Int("batch", num),
				slog.String("error", err.Error()))
			os.Exit(1)
		}

		resultsFile, err := session.RunBacktest(sub, num)
		if err != nil {
			logger.Error("batch failed",
				slog.Int("batch", num),
				slog.String("error", err.Error()))
			failed++
			continue
		}

		entry := batch.ManifestEntry{BatchNum: num, ResultsFile: resultsFile}
		if err := batch.AppendManifest(manifestPath, entry); err != nil {
			logger.Error("failed to record batch in manifest",
				slog.Int("batch", num),
				slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("batch complete",
			slog.Int("batch", num),
			slog.String("batch_file", batchFile),
			slog.String("results_file", resultsFile))
	}

	if failed > 0 {
		logger.Warn("run finished with failures", slog.Int("failed", failed))
		os.Exit(1)
	}
	logger.Info("run finished", slog.String("manifest", manifestPath))
}
