package docpipe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// readPDF opens and validates a PDF file.
func readPDF(path string) (*model.Context, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}
	return pctx, nil
}

// extractPDFContent is the first PDF method: a plain scan of the
// content-stream text operators, joining all runs with spaces. Fast and
// good enough for most digitally-produced papers.
func extractPDFContent(_ context.Context, path string) (string, error) {
	pctx, err := readPDF(path)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		data := pageContent(pctx, pageNr)
		if len(data) == 0 {
			continue
		}
		text := scanTextOperators(data, false)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in %s", path)
	}
	return sb.String(), nil
}

// extractPDFLayout is the second PDF method: the same operator scan, but
// honoring the positioning operators (Td, TD, T*, ') so that column and
// line structure survives. Slower to clean up, better for scanned-layout
// documents where the plain scan glues everything together.
func extractPDFLayout(_ context.Context, path string) (string, error) {
	pctx, err := readPDF(path)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		data := pageContent(pctx, pageNr)
		if len(data) == 0 {
			continue
		}
		text := scanTextOperators(data, true)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in %s", path)
	}
	return sb.String(), nil
}

// extractPdftotext is the last PDF method: shell out to the external
// pdftotext tool. It handles encodings and fonts the in-process scan
// cannot, at the cost of a subprocess.
func (p *Pipeline) extractPdftotext(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, p.cfg.PdftotextPath, "-layout", path, "-")
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("pdftotext: %s: %w", msg, err)
		}
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	text := out.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("pdftotext: empty output for %s", path)
	}
	return text, nil
}

// pageContent reads the raw content stream of one page.
func pageContent(pctx *model.Context, pageNr int) []byte {
	r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
	if err != nil {
		return nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil
	}
	return data
}

// pdfStringRe matches PDF string literals in parentheses: (text here)
var pdfStringRe = regexp.MustCompile(`\(([^)]*)\)`)

// scanTextOperators pulls text out of a page content stream. With layout
// true, positioning operators become line breaks; otherwise all runs are
// joined with spaces.
func scanTextOperators(data []byte, layout bool) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				if text := decodePDFString(m[1]); text != "" {
					sb.WriteString(text)
					sb.WriteByte(' ')
				}
			}
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				if text := decodePDFString(m[1]); text != "" {
					if layout {
						sb.WriteByte('\n')
					}
					sb.WriteString(text)
					sb.WriteByte(' ')
				}
			}
		case layout && (bytes.HasSuffix(line, []byte("Td")) || bytes.HasSuffix(line, []byte("TD"))):
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
		case layout && bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}

	return tidyPDFText(sb.String(), layout)
}

// decodePDFString handles basic PDF escape sequences.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
			switch raw[i] {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case '\\', '(', ')':
				sb.WriteByte(raw[i])
			default:
				// Octal escape (e.g. \040 for space).
				if raw[i] >= '0' && raw[i] <= '7' {
					val := int(raw[i] - '0')
					for j := 0; j < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; j++ {
						i++
						val = val*8 + int(raw[i]-'0')
					}
					sb.WriteByte(byte(val))
				} else {
					sb.WriteByte(raw[i])
				}
			}
		} else {
			sb.WriteByte(raw[i])
		}
	}
	return sb.String()
}

// tidyPDFText collapses runs of spaces and drops unprintable runes,
// keeping newlines only in layout mode.
func tidyPDFText(text string, keepNewlines bool) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		switch {
		case r == '\n' && keepNewlines:
			sb.WriteByte('\n')
			prevSpace = true
		case unicode.IsSpace(r):
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		case unicode.IsPrint(r):
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}
