package docpipe

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/smartmri/planner/safeio"
)

// newHTTPClient builds the fetch client. Redirect targets go through the
// same URL validation as the initial request, so a public host cannot
// bounce the fetcher into a private network.
func (p *Pipeline) newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: p.cfg.FetchTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return fmt.Errorf("too many redirects")
			}
			if p.cfg.ValidateURL != nil {
				if err := p.cfg.ValidateURL(req.URL.String()); err != nil {
					return fmt.Errorf("redirect target: %w", err)
				}
			}
			return nil
		},
	}
}

// fetchRemote downloads a URL and extracts its text. PDF responses are
// spooled to a temp file and run through the PDF chain; markup goes
// through the HTML path, with an optional browser-rendered retry for
// pages that serve no static content.
func (p *Pipeline) fetchRemote(ctx context.Context, rawURL string) (text, method, title string, err error) {
	if p.cfg.ValidateURL != nil {
		if err := p.cfg.ValidateURL(rawURL); err != nil {
			return "", "", "", err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", p.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf,text/plain;q=0.9,*/*;q=0.5")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", "", "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", "", "", fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := safeio.LimitedReadAll(resp.Body, p.cfg.MaxFetchBytes)
	if err != nil {
		return "", "", "", fmt.Errorf("read body: %w", err)
	}

	ctype := responseContentType(resp, rawURL)
	if u, perr := url.Parse(rawURL); perr == nil && strings.HasSuffix(strings.ToLower(u.Path), ".pdf") {
		// The URL extension wins over a mislabeled Content-Type.
		ctype = "application/pdf"
	}
	p.logger.Debug("fetched remote source", "url", rawURL, "content_type", ctype, "bytes", len(body))

	switch ctype {
	case "application/pdf":
		path := filepath.Join(p.tmpDir, sourceID(rawURL)+".pdf")
		if err := os.WriteFile(path, body, 0o600); err != nil {
			return "", "", "", fmt.Errorf("spool pdf: %w", err)
		}
		text, method, err = p.extractLocalPDF(ctx, path)
		return text, method, "", err

	case "text/html", "application/xhtml+xml", "application/xml", "text/xml":
		text, title, err = extractHTML(string(body))
		if (err != nil || len(text) < p.cfg.MinTextLen) && p.cfg.BrowserURL != "" {
			if rtext, rtitle, rerr := p.renderWithBrowser(ctx, rawURL); rerr == nil && len(rtext) > len(text) {
				return rtext, "browser", rtitle, nil
			}
		}
		return text, "html", title, err

	case "text/plain", "text/markdown":
		return string(body), "plain", "", nil

	default:
		return "", "", "", fmt.Errorf("%w: %s", ErrUnsupportedContentType, ctype)
	}
}

// responseContentType resolves the effective media type, falling back to
// the URL extension when the server sends none.
func responseContentType(resp *http.Response, rawURL string) string {
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			return mt
		}
	}
	if u, err := url.Parse(rawURL); err == nil {
		switch strings.ToLower(filepath.Ext(u.Path)) {
		case ".pdf":
			return "application/pdf"
		case ".txt":
			return "text/plain"
		case ".md":
			return "text/markdown"
		}
	}
	return "text/html"
}
