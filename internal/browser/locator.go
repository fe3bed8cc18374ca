// File: internal/browser/locator.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Runner executes chromedp actions against the live session, bounded by a
// timeout. The session Manager implements it; tests can substitute a fake.
type Runner interface {
	Run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error
}

// Match reports which strategy of an ordered list located an element.
type Match struct {
	Locator Locator
	Index   int
}

// ErrNotFound is returned when no strategy in a locator list matched.
var ErrNotFound = errors.New("no locator strategy matched")

// WaitVisibleAny walks the locator list in priority order, waiting up to
// perStrategy for each to become visible, and returns the first match.
func WaitVisibleAny(ctx context.Context, r Runner, logger *zap.Logger, locators []Locator, perStrategy time.Duration) (Match, error) {
	return tryEach(ctx, r, logger, locators, perStrategy, func(l Locator) chromedp.Action {
		return chromedp.WaitVisible(l.Query, chromedp.BySearch)
	})
}

// ClickAny walks the locator list in priority order and clicks the first
// element that accepts the click within perStrategy.
func ClickAny(ctx context.Context, r Runner, logger *zap.Logger, locators []Locator, perStrategy time.Duration) (Match, error) {
	return tryEach(ctx, r, logger, locators, perStrategy, func(l Locator) chromedp.Action {
		return chromedp.Click(l.Query, chromedp.BySearch)
	})
}

// UploadAny injects a file path into the first matching upload input.
func UploadAny(ctx context.Context, r Runner, logger *zap.Logger, locators []Locator, perStrategy time.Duration, path string) (Match, error) {
	return tryEach(ctx, r, logger, locators, perStrategy, func(l Locator) chromedp.Action {
		return chromedp.SetUploadFiles(l.Query, []string{path}, chromedp.BySearch)
	})
}

func tryEach(ctx context.Context, r Runner, logger *zap.Logger, locators []Locator, perStrategy time.Duration, build func(Locator) chromedp.Action) (Match, error) {
	if len(locators) == 0 {
		return Match{}, fmt.Errorf("%w: empty locator list", ErrNotFound)
	}
	for i, l := range locators {
		if err := ctx.Err(); err != nil {
			return Match{}, err
		}
		err := r.Run(ctx, perStrategy, build(l))
		if err == nil {
			if i > 0 {
				// A fallback matching means the primary has drifted.
				logger.Warn("Primary locator drifted; fallback matched",
					zap.String("matched", l.Name), zap.Int("priority", i))
			}
			return Match{Locator: l, Index: i}, nil
		}
		logger.Debug("Locator strategy missed",
			zap.String("locator", l.Name), zap.Duration("timeout", perStrategy), zap.Error(err))
	}
	return Match{}, fmt.Errorf("%w after %d strategies", ErrNotFound, len(locators))
}
