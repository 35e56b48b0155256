package docpipe

import (
	"encoding/hex"
	"net/url"
	"os"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Resolve classifies a raw locator as a remote URL, a local file, or
// inline text, in that order. A string that looks like neither a URL nor
// an existing file is treated as the document text itself.
func Resolve(raw string) (Source, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Source{}, ErrUnresolvableSource
	}

	if u, err := url.Parse(trimmed); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return Source{ID: sourceID(trimmed), Locator: trimmed, Kind: KindRemoteURL}, nil
	}

	if !strings.ContainsRune(trimmed, '\n') {
		if info, err := os.Stat(trimmed); err == nil && info.Mode().IsRegular() {
			return Source{ID: sourceID(trimmed), Locator: trimmed, Kind: KindLocalFile}, nil
		}
	}

	return Source{ID: sourceID(raw), Locator: raw, Kind: KindInlineText}, nil
}

// ResolveAll resolves a batch of locators, skipping empty entries.
func ResolveAll(raws []string) []Source {
	out := make([]Source, 0, len(raws))
	for _, r := range raws {
		src, err := Resolve(r)
		if err != nil {
			continue
		}
		out = append(out, src)
	}
	return out
}

// sourceID derives a stable short identifier from the locator.
func sourceID(locator string) string {
	sum := blake2b.Sum256([]byte(locator))
	return "src_" + hex.EncodeToString(sum[:8])
}
