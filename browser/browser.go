// Package browser drives a Chrome tab through chromedp for the crawler.
package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/chromedp"
	"github.com/pevans/marblecrawl"
)

// Options controls how Chrome is launched.
type Options struct {
	Headless           bool   `yaml:"headless"`
	NoSandbox          bool   `yaml:"no_sandbox"`
	DisableDevShmUsage bool   `yaml:"disable_dev_shm_usage"`
	UserAgent          string `yaml:"user_agent"`
	// Path to the Chrome binary; empty means let chromedp find it
	ExecPath string `yaml:"exec_path"`
}

// DefaultOptions returns the launch options the crawler uses.
func DefaultOptions() Options {
	return Options{
		Headless:           true,
		NoSandbox:          true,
		DisableDevShmUsage: true,
	}
}

// Session is a single browser tab. It is acquired once per run with Open
// and must be released with Close.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// AllocatorOptions turns Options into chromedp allocator options.
func AllocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("no-sandbox", opts.NoSandbox),
		chromedp.Flag("disable-dev-shm-usage", opts.DisableDevShmUsage),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	return allocOpts
}

// Open launches Chrome and opens a tab. The browser lives until Close is
// called or ctx is canceled.
func Open(ctx context.Context, opts Options) (*Session, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, AllocatorOptions(opts)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	cancel := func() {
		tabCancel()
		allocCancel()
	}

	// Running no actions starts the browser
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &Session{ctx: tabCtx, cancel: cancel}, nil
}

// Close shuts the tab and the browser process down.
func (s *Session) Close() {
	s.cancel()
}

// run executes actions on the tab, bounded by ctx's deadline and
// cancellation as well as the session's own lifetime.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	var runCtx context.Context
	var cancel context.CancelFunc
	if deadline, ok := ctx.Deadline(); ok {
		runCtx, cancel = context.WithDeadline(s.ctx, deadline)
	} else {
		runCtx, cancel = context.WithCancel(s.ctx)
	}
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// Navigate loads url in the tab.
func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

// WaitReady blocks until an element matching selector is in the DOM.
func (s *Session) WaitReady(ctx context.Context, selector string) error {
	return s.run(ctx, chromedp.WaitReady(selector, chromedp.ByQuery))
}

// HTML returns the outer HTML of the document element.
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

const (
	clickMissing = "missing"
	clickHidden  = "hidden"
	clickDone    = "clicked"
)

// clickScript scrolls the first element matching a selector into view and
// clicks it from JavaScript, reporting whether the element was there and
// visible.
const clickScript = `(function(sel) {
	const el = document.querySelector(sel);
	if (!el) {
		return "missing";
	}
	const style = window.getComputedStyle(el);
	const rect = el.getBoundingClientRect();
	if (style.display === "none" || style.visibility === "hidden" || (rect.width === 0 && rect.height === 0)) {
		return "hidden";
	}
	el.scrollIntoView({block: "center"});
	el.click();
	return "clicked";
})(%s)`

// ClickScript returns the JavaScript ClickNext evaluates for selector.
func ClickScript(selector string) (string, error) {
	quoted, err := json.Marshal(selector)
	if err != nil {
		return "", fmt.Errorf("failed to quote selector: %w", err)
	}
	return fmt.Sprintf(clickScript, quoted), nil
}

// ClickNext clicks the element matching selector. It returns
// marblecrawl.ErrNextMissing if there is no such element and
// marblecrawl.ErrNextHidden if it is not visible.
func (s *Session) ClickNext(ctx context.Context, selector string) error {
	script, err := ClickScript(selector)
	if err != nil {
		return err
	}

	var result string
	if err := s.run(ctx, chromedp.Evaluate(script, &result)); err != nil {
		return fmt.Errorf("failed to click %s: %w", selector, err)
	}

	return clickResult(result)
}

func clickResult(result string) error {
	switch result {
	case clickDone:
		return nil
	case clickMissing:
		return marblecrawl.ErrNextMissing
	case clickHidden:
		return marblecrawl.ErrNextHidden
	default:
		return fmt.Errorf("unexpected click result %q", result)
	}
}
