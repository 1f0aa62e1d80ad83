package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// SelectStrategy is one way of setting a dropdown's value. The site mixes
// plain <select> elements with scripted widgets, so strategies are tried in
// order until one succeeds.
type SelectStrategy struct {
	Name  string
	Build func(selector, value string) chromedp.Action
}

// DefaultSelectStrategies orders the strategies from least to most invasive:
// the DOM value setter first, then a script that also fires the framework's
// change/input listeners, and finally simulated clicking and typing.
func DefaultSelectStrategies() []SelectStrategy {
	return []SelectStrategy{
		{
			Name: "set-value",
			Build: func(selector, value string) chromedp.Action {
				return chromedp.Tasks{
					chromedp.WaitVisible(selector, chromedp.ByQuery),
					chromedp.SetValue(selector, value, chromedp.ByQuery),
				}
			},
		},
		{
			Name: "js-events",
			Build: func(selector, value string) chromedp.Action {
				js := fmt.Sprintf(`(function() {
					var el = document.querySelector(%q);
					if (!el) { return false; }
					el.value = %q;
					el.dispatchEvent(new Event('change', { bubbles: true }));
					el.dispatchEvent(new Event('input', { bubbles: true }));
					return true;
				})()`, selector, value)
				return chromedp.ActionFunc(func(ctx context.Context) error {
					var ok bool
					if err := chromedp.Evaluate(js, &ok).Do(ctx); err != nil {
						return err
					}
					if !ok {
						return fmt.Errorf("element %s not found", selector)
					}
					return nil
				})
			},
		},
		{
			Name: "click-keys",
			Build: func(selector, value string) chromedp.Action {
				return chromedp.Tasks{
					chromedp.Click(selector, chromedp.ByQuery),
					chromedp.SendKeys(selector, value+kb.Enter, chromedp.ByQuery),
				}
			},
		},
	}
}

// selectValue walks the strategy list for one dropdown. Failing every
// strategy fails the operation; individual misses are only logged.
func selectValue(ctx context.Context, strategies []SelectStrategy, logger *slog.Logger, selector, value string) error {
	var lastErr error
	for _, strat := range strategies {
		if err := strat.Build(selector, value).Do(ctx); err != nil {
			logger.Debug("select strategy failed",
				slog.String("strategy", strat.Name),
				slog.String("selector", selector),
				slog.String("error", err.Error()))
			lastErr = err
			continue
		}
		logger.Debug("selected value",
			slog.String("strategy", strat.Name),
			slog.String("selector", selector),
			slog.String("value", value))
		return nil
	}
	return fmt.Errorf("all select strategies failed for %s: %w", selector, lastErr)
}
