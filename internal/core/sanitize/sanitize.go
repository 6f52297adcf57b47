// Package sanitize cleans fetched post text before it is sent to the
// classifier or persisted.
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Strip NUL, ASCII/C1 controls (except newline, carriage return, tab)
// 3 Unicode NFC normalization
// 4 Remove format chars ZWJ ZWNJ FEFF etc
// Visible characters are preserved as-is; posts are evidence, so no case or
// width folding happens here
package sanitize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
		)
	},
}

// Clean returns the sanitized form of s following the pipeline above
func Clean(s string) string {
	if s == "" {
		return ""
	}

	s = stripControls(s)
	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		// transform failure leaves the control-stripped input intact
		return s
	}
	return ns
}

// stripControls removes NUL, ASCII controls except \n \r \t, DEL, and C1
// controls U+0080..U+009F. Fast path returns s unchanged when clean
func stripControls(s string) string {
	clean := true
	for _, r := range s {
		if isBadControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isBadControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isBadControl(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return false
	}
	if r < 0x20 || r == 0x7F {
		return true
	}
	return r >= 0x80 && r <= 0x9F
}
