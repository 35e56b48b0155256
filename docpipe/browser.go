package docpipe

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// browserPool lazily connects to the configured browser endpoint. One
// browser serves all render calls; pages are opened and closed per call.
type browserPool struct {
	mu      sync.Mutex
	url     string
	browser *rod.Browser
}

func (bp *browserPool) get() (*rod.Browser, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.browser != nil {
		return bp.browser, nil
	}

	wsURL := bp.url
	if wsURL == "launch" {
		u, err := launcher.New().Headless(true).Launch()
		if err != nil {
			return nil, fmt.Errorf("browser launch: %w", err)
		}
		wsURL = u
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("browser connect: %w", err)
	}
	bp.browser = b
	return b, nil
}

func (bp *browserPool) close() {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.browser != nil {
		bp.browser.Close()
		bp.browser = nil
	}
}

// renderWithBrowser loads a page in a real browser and extracts text from
// the rendered DOM. Used only when the static fetch of a markup page came
// back empty, which usually means the content is script-assembled.
func (p *Pipeline) renderWithBrowser(ctx context.Context, rawURL string) (text, title string, err error) {
	if p.browser == nil {
		return "", "", fmt.Errorf("browser rendering disabled")
	}
	b, err := p.browser.get()
	if err != nil {
		return "", "", err
	}

	page, err := stealth.Page(b)
	if err != nil {
		return "", "", fmt.Errorf("browser page: %w", err)
	}
	defer page.Close()

	if err := page.Context(ctx).Navigate(rawURL); err != nil {
		return "", "", fmt.Errorf("browser navigate %s: %w", rawURL, err)
	}
	if err := page.Context(ctx).WaitLoad(); err != nil {
		p.logger.Warn("browser wait load", "url", rawURL, "error", err)
	}

	res, err := page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", "", fmt.Errorf("browser read dom: %w", err)
	}

	return extractHTML(res.Value.Str())
}
