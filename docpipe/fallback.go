package docpipe

import (
	"context"
	"fmt"
)

// extractMethod is one step of an ordered extraction chain.
type extractMethod struct {
	name string
	fn   func(ctx context.Context, path string) (string, error)
}

// pdfMethods returns the PDF extraction chain in trial order.
func (p *Pipeline) pdfMethods() []extractMethod {
	return []extractMethod{
		{name: "pdf-content-stream", fn: extractPDFContent},
		{name: "pdf-layout", fn: extractPDFLayout},
		{name: "pdftotext", fn: p.extractPdftotext},
	}
}

// runChain tries each method in order until one yields text of at least
// MinTextLen characters. Shorter output counts as failure and the chain
// moves on; when every method falls short, the last one that produced
// anything wins.
func (p *Pipeline) runChain(ctx context.Context, path string, methods []extractMethod) (text, method string, err error) {
	var last string
	var lastMethod string
	var lastErr error

	for _, m := range methods {
		if ctx.Err() != nil {
			return "", "", ctx.Err()
		}
		out, err := m.fn(ctx, path)
		if err != nil {
			p.logger.Debug("extraction method failed", "method", m.name, "path", path, "error", err)
			lastErr = err
			continue
		}
		if len(out) >= p.cfg.MinTextLen {
			return out, m.name, nil
		}
		p.logger.Debug("extraction method undersized", "method", m.name, "path", path, "chars", len(out))
		if out != "" {
			last, lastMethod = out, m.name
		}
	}

	if last != "" {
		return last, lastMethod, nil
	}
	if lastErr != nil {
		return "", "", fmt.Errorf("%w: %w", ErrExtractionExhausted, lastErr)
	}
	return "", "", ErrExtractionExhausted
}

// extractLocalPDF runs the PDF chain over a local file.
func (p *Pipeline) extractLocalPDF(ctx context.Context, path string) (string, string, error) {
	return p.runChain(ctx, path, p.pdfMethods())
}
