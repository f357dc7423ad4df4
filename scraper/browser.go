package scraper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"market-scraper/config"
	"market-scraper/utils"
)

const (
	pageTimeout = 60 * time.Second
	settleDelay = 4 * time.Second
	scrollDelay = 1500 * time.Millisecond
)

// Browser is a headless Chrome instance shared by every page fetch of a run.
type Browser struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *utils.Logger
}

// NewBrowser starts the browser allocator. Close must be called to release it.
func NewBrowser(cfg *config.Config, logger *utils.Logger) *Browser {
	chromeBin := findChromeBinary(cfg.ChromeBin)
	logger.Info("[browser] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("lang", "fr-FR"),
		chromedp.WindowSize(1366, 900),
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	return &Browser{
		ctx: browserCtx,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
		logger: logger,
	}
}

// Close shuts the browser down.
func (b *Browser) Close() {
	b.cancel()
}

// Cards opens pageURL in a new tab, dismisses consent banners, scrolls to
// trigger lazy loading and returns the outer HTML of every result card plus
// whether a next-page link is present.
func (b *Browser) Cards(ctx context.Context, site *Site, pageURL string) ([]string, bool, error) {
	tabCtx, cancelTab := chromedp.NewContext(b.ctx)
	defer cancelTab()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, pageTimeout)
	defer cancelTimeout()

	var (
		cards   []string
		hasNext bool
	)
	actions := []chromedp.Action{
		chromedp.Navigate(pageURL),
		chromedp.Sleep(settleDelay),
	}
	for _, sel := range site.Dismiss {
		actions = append(actions, chromedp.Evaluate(clickIfPresent(sel), nil))
	}
	actions = append(actions,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight / 2)`, nil),
		chromedp.Sleep(scrollDelay),
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(scrollDelay),
		chromedp.Evaluate(fmt.Sprintf(
			`Array.from(document.querySelectorAll(%q)).map(function(e) { return e.outerHTML; })`,
			site.CardSelector), &cards),
		chromedp.Evaluate(fmt.Sprintf(`document.querySelector(%q) !== null`, site.NextSelector), &hasNext),
	)

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return nil, false, fmt.Errorf("browser: %s: %w", pageURL, err)
	}
	b.logger.Debug("[browser] %s: %d cards, next=%v", pageURL, len(cards), hasNext)
	return cards, hasNext, nil
}

func clickIfPresent(selector string) string {
	return fmt.Sprintf(`(function() {
		var el = document.querySelector(%q);
		if (el) { el.click(); return true; }
		return false;
	})()`, selector)
}

// findChromeBinary returns the configured browser path, or the first Chrome
// or Chromium found on the system. "" lets chromedp use its own lookup.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	for _, name := range []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	for _, p := range []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
