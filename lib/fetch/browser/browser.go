// Package browser fetches pages that render their content via client-side
// script, by driving a headless Chrome over the devtools protocol.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

type Options struct {
	// RemoteURL is the websocket url of an external Chrome instance.
	// Empty = launch a local Chrome via the rod launcher.
	RemoteURL string

	// NavTimeout bounds one navigate + wait cycle. Default 30s.
	NavTimeout time.Duration
}

type Browser struct {
	browser *rod.Browser
	opts    Options
}

// Connect launches (or attaches to) Chrome. Close must be called when the
// run is done.
func Connect(opts Options) (*Browser, error) {
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = 30 * time.Second
	}

	wsURL := opts.RemoteURL
	if wsURL == "" {
		var err error
		wsURL, err = launcher.New().Headless(true).Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	return &Browser{browser: b, opts: opts}, nil
}

func (b *Browser) Close() error {
	return b.browser.Close()
}

// HTML navigates to url in a fresh stealth tab, waits for the page to load
// and serializes the realized DOM.
func (b *Browser) HTML(ctx context.Context, url string) (string, error) {
	return b.fetch(ctx, url, "")
}

// HTMLWait is HTML but additionally waits for selector to appear before
// serializing, for pages that hydrate their content after load. The wait
// applies to this call only.
func (b *Browser) HTMLWait(ctx context.Context, url, selector string) (string, error) {
	return b.fetch(ctx, url, selector)
}

func (b *Browser) fetch(ctx context.Context, url, selector string) (string, error) {
	page, err := stealth.Page(b.browser)
	if err != nil {
		return "", fmt.Errorf("create tab: %w", err)
	}
	defer page.Close()

	navCtx, cancel := context.WithTimeout(ctx, b.opts.NavTimeout)
	defer cancel()
	page = page.Context(navCtx)

	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("wait load %s: %w", url, err)
	}
	if selector != "" {
		if _, err := page.Element(selector); err != nil {
			return "", fmt.Errorf("wait for %q on %s: %w", selector, url, err)
		}
	}

	res, err := page.Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("serialize dom %s: %w", url, err)
	}
	return res.Value.Str(), nil
}
