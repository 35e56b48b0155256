package docpipe

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// htmlPolicy strips scripts, styles, and event handlers before the
// markup reaches the markdown converter.
var htmlPolicy = bluemonday.UGCPolicy()

// extractHTML turns a web page into readable text: sanitize, convert to
// markdown (headings and tables survive as text structure), and pull the
// title from the head.
func extractHTML(raw string) (text, title string, err error) {
	title = htmlTitle(raw)

	safe := htmlPolicy.Sanitize(raw)

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	md, err := conv.ConvertString(safe)
	if err != nil {
		return "", title, fmt.Errorf("html convert: %w", err)
	}
	if strings.TrimSpace(md) == "" {
		// Sanitized page with no block content. Fall back to the bare
		// text nodes of the original markup.
		md = htmlTextNodes(raw)
	}
	if strings.TrimSpace(md) == "" {
		return "", title, fmt.Errorf("html: no text content")
	}
	return md, title, nil
}

// htmlTitle returns the contents of the first <title> element.
func htmlTitle(raw string) string {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return ""
	}
	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Title {
			var sb strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					sb.WriteString(c.Data)
				}
			}
			title = strings.TrimSpace(sb.String())
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title
}

// htmlTextNodes collects all text nodes outside script and style
// elements, newline-joined.
func htmlTextNodes(raw string) string {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return ""
	}
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(parts, "\n")
}
