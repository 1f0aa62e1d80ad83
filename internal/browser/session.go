package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"

	"pvbacktest/internal/config"
)

// Session is a logged-in browser kept alive across batches so each backtest
// does not pay the login cost again.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg         config.BrowserConfig
	selectors   Selectors
	strategies  []SelectStrategy
	downloadDir string
	logger      *slog.Logger
}

// NewSession launches Chrome and points its downloads at downloadDir. Close
// must be called to tear the browser down.
func NewSession(parent context.Context, cfg config.BrowserConfig, downloadDir string, logger *slog.Logger) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	ctx, ctxCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx: ctx,
		cancel: func() {
			ctxCancel()
			allocCancel()
		},
		cfg:         cfg,
		selectors:   DefaultSelectors(),
		strategies:  DefaultSelectStrategies(),
		downloadDir: downloadDir,
		logger:      logger,
	}

	err := chromedp.Run(ctx,
		browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllow).
			WithDownloadPath(downloadDir),
	)
	if err != nil {
		s.cancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	return s, nil
}

// Close shuts the browser down.
func (s *Session) Close() {
	s.cancel()
}

// SetSelectors replaces the DOM hooks, for site layout changes that should not
// require a rebuild.
func (s *Session) SetSelectors(sel Selectors) {
	s.selectors = sel
}

// SetSelectStrategies replaces the dropdown strategy order.
func (s *Session) SetSelectStrategies(strategies []SelectStrategy) {
	s.strategies = strategies
}

// Login signs into the site and waits for the account badge to confirm the
// session is authenticated.
func (s *Session) Login() error {
	if s.cfg.Username == "" || s.cfg.Password == "" {
		return fmt.Errorf("login credentials not set (PV_BROWSER_LOGIN_USERNAME / PV_BROWSER_LOGIN_PWD)")
	}

	ctx, cancel := context.WithTimeout(s.ctx, config.LoginTimeout)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.Navigate(config.LoginURL)); err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}

	if err := s.fillFirst(ctx, s.selectors.LoginEmail, s.cfg.Username); err != nil {
		return fmt.Errorf("username field: %w", err)
	}
	if err := s.fillFirst(ctx, s.selectors.LoginPassword, s.cfg.Password); err != nil {
		return fmt.Errorf("password field: %w", err)
	}
	if err := s.clickFirst(ctx, s.selectors.LoginSubmit); err != nil {
		return fmt.Errorf("submit button: %w", err)
	}

	if err := chromedp.Run(ctx, chromedp.WaitVisible(s.selectors.AccountBadge, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("login not confirmed: %w", err)
	}

	s.logger.Info("logged in", slog.String("user", s.cfg.Username))
	return nil
}

// fillFirst tries each selector in the chain until one accepts the value.
func (s *Session) fillFirst(ctx context.Context, chain []string, value string) error {
	var lastErr error
	for _, sel := range chain {
		err := chromedp.Run(ctx,
			chromedp.WaitVisible(sel, chromedp.ByQuery),
			chromedp.Clear(sel, chromedp.ByQuery),
			chromedp.SendKeys(sel, value, chromedp.ByQuery),
		)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("no selector in chain matched: %w", lastErr)
}

func (s *Session) clickFirst(ctx context.Context, chain []string) error {
	var lastErr error
	for _, sel := range chain {
		err := chromedp.Run(ctx, chromedp.Click(sel, chromedp.ByQuery))
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("no selector in chain matched: %w", lastErr)
}
