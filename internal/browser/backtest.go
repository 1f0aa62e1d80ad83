package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"pvbacktest/internal/alloc"
	"pvbacktest/internal/config"
	"pvbacktest/internal/grid"
)

// RunBacktest fills the backtest form with one batch of up to three
// portfolios, submits it, and downloads the Excel export. It returns the path
// of the downloaded workbook.
func (s *Session) RunBacktest(table *alloc.Table, batchNum int) (string, error) {
	if len(table.Columns) == 0 || len(table.Columns) > config.PortfoliosPerBatch {
		return "", fmt.Errorf("batch %d has %d portfolios, want 1..%d",
			batchNum, len(table.Columns), config.PortfoliosPerBatch)
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.BacktestWait)
	defer cancel()

	if err := chromedp.Run(ctx,
		chromedp.Navigate(config.BacktestURL),
		chromedp.WaitVisible(s.selectors.SubmitButton, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("failed to open backtest page: %w", err)
	}

	if err := s.configureStartYear(ctx); err != nil {
		return "", err
	}
	if err := selectValue(ctx, s.strategies, s.logger, s.selectors.Benchmark, s.cfg.Benchmark); err != nil {
		s.logger.Warn("benchmark not set", slog.String("error", err.Error()))
	}
	s.addAssetRows(ctx)

	if err := s.fillAllocations(ctx, table); err != nil {
		return "", err
	}

	if err := chromedp.Run(ctx,
		chromedp.Click(s.selectors.SubmitButton, chromedp.ByQuery),
		chromedp.WaitVisible(s.selectors.ResultsTable, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("backtest did not produce results: %w", err)
	}
	s.logger.Info("backtest complete", slog.Int("batch", batchNum))

	return s.downloadResults(batchNum)
}

// configureStartYear opens the settings modal, sets the start year, and
// returns to the assets tab. The start year lives behind a modal, not on the
// main form.
func (s *Session) configureStartYear(ctx context.Context) error {
	if err := chromedp.Run(ctx,
		chromedp.Click(s.selectors.SettingsButton, chromedp.ByQuery),
		chromedp.WaitVisible(s.selectors.SettingsModal, chromedp.ByQuery),
		chromedp.Click(s.selectors.SettingsTab, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}

	year := strconv.Itoa(s.cfg.StartYear)
	if err := selectValue(ctx, s.strategies, s.logger, s.selectors.StartYear, year); err != nil {
		return fmt.Errorf("failed to set start year: %w", err)
	}

	if err := chromedp.Run(ctx, chromedp.Click(s.selectors.AssetsTab, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("failed to return to assets tab: %w", err)
	}
	return nil
}

// addAssetRows clicks the link that expands the form past its default row
// count. The form opens with enough rows for small universes, so failure here
// is non-fatal.
func (s *Session) addAssetRows(ctx context.Context) {
	clickCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := chromedp.Run(clickCtx, chromedp.Click(s.selectors.MoreRowsLink, chromedp.ByQuery)); err != nil {
		s.logger.Debug("more-rows link not clicked", slog.String("error", err.Error()))
	}
}

// fillAllocations sets one asset-class dropdown per row, then types each
// portfolio's positive weights into the allocation inputs.
func (s *Session) fillAllocations(ctx context.Context, table *alloc.Table) error {
	options := grid.OptionValues()

	for i, asset := range table.Assets {
		option, ok := options[asset]
		if !ok {
			return fmt.Errorf("unknown asset description %q", asset)
		}
		sel := fmt.Sprintf(s.selectors.AssetClassFmt, i+1)
		if err := selectValue(ctx, s.strategies, s.logger, sel, option); err != nil {
			return fmt.Errorf("asset %d: %w", i+1, err)
		}
	}

	for slot, col := range table.Columns {
		for i := range table.Assets {
			w, ok := table.Weight(col, i)
			if !ok || w <= 0 {
				continue
			}
			sel := fmt.Sprintf(s.selectors.AllocationFmt, i+1, slot+1)
			value := strconv.FormatFloat(w, 'f', -1, 64)
			if err := selectValue(ctx, s.strategies, s.logger, sel, value); err != nil {
				return fmt.Errorf("allocation %s for %s: %w", sel, col, err)
			}
		}
	}
	return nil
}

// downloadResults clicks the Excel export link, waits for Chrome to finish
// writing the file, and renames it for the batch. A "Login Required" modal
// can appear when the session has expired; in that case the login is redone
// inline and the download retried once.
func (s *Session) downloadResults(batchNum int) (string, error) {
	ctx, cancel := context.WithTimeout(s.ctx, config.DefaultHTTPTimeout)
	defer cancel()

	before, err := listWorkbooks(s.downloadDir)
	if err != nil {
		return "", err
	}

	if err := chromedp.Run(ctx, chromedp.Click(s.selectors.ExcelDownload, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to click download link: %w", err)
	}

	if s.loginModalVisible(ctx) {
		s.logger.Warn("session expired at download, re-authenticating")
		if err := chromedp.Run(ctx, chromedp.Click(s.selectors.LoginModalOpen, chromedp.ByQuery)); err != nil {
			return "", fmt.Errorf("failed to open login form from modal: %w", err)
		}
		if err := s.Login(); err != nil {
			return "", err
		}
		if err := chromedp.Run(ctx, chromedp.Click(s.selectors.ExcelDownload, chromedp.ByQuery)); err != nil {
			return "", fmt.Errorf("failed to retry download after login: %w", err)
		}
	}

	downloaded, err := s.waitForDownload(ctx, before)
	if err != nil {
		return "", err
	}

	final := filepath.Join(s.downloadDir,
		fmt.Sprintf("backtest_results_batch_%03d_%s.xlsx", batchNum, time.Now().Format("20060102_150405")))
	if err := os.Rename(downloaded, final); err != nil {
		return "", fmt.Errorf("failed to rename download: %w", err)
	}

	s.logger.Info("downloaded results",
		slog.Int("batch", batchNum),
		slog.String("file", final))
	return final, nil
}

func (s *Session) loginModalVisible(ctx context.Context) bool {
	checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	err := chromedp.Run(checkCtx, chromedp.WaitVisible(s.selectors.LoginModal, chromedp.ByQuery))
	return err == nil
}

// waitForDownload polls for a workbook that was not present before the click.
// Chrome writes to a .crdownload file first, so only completed files match.
func (s *Session) waitForDownload(ctx context.Context, before map[string]bool) (string, error) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("download did not complete: %w", ctx.Err())
		case <-ticker.C:
			after, err := listWorkbooks(s.downloadDir)
			if err != nil {
				return "", err
			}
			for f := range after {
				if !before[f] {
					return f, nil
				}
			}
		}
	}
}

func listWorkbooks(dir string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, pattern := range []string{"*.xlsx", "*.xls"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("scan downloads: %w", err)
		}
		for _, m := range matches {
			if strings.HasSuffix(m, ".crdownload") {
				continue
			}
			out[m] = true
		}
	}
	return out, nil
}
