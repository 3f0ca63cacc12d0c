package behavior

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/zero-day-ai/fusion/finding"
)

// textKeys are the evidence keys treated as free-text samples.
var textKeys = []string{"bio", "description", "post"}

// emojiRanges is the fixed set of code-point ranges counted as emoji.
var emojiRanges = [][2]rune{
	{0x1F300, 0x1F5FF}, // symbols & pictographs
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F680, 0x1F6FF}, // transport & map
	{0x1F900, 0x1F9FF}, // supplemental symbols & pictographs
	{0x2600, 0x26FF},   // misc symbols
	{0x2700, 0x27BF},   // dingbats
}

// IsEmoji reports whether r falls in one of the emoji code-point ranges.
func IsEmoji(r rune) bool {
	for _, rg := range emojiRanges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}

// textSamples collects the free-text evidence of findings with any markup
// reduced to its text content.
func textSamples(findings []finding.Finding) []string {
	var out []string
	for i := range findings {
		for _, v := range findings[i].EvidenceValues(textKeys...) {
			if s := strings.TrimSpace(stripMarkup(v)); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// stripMarkup returns the text content of s. Plain text passes through
// unchanged apart from entity decoding.
func stripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return b.String()
			}
			return s
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			b.WriteByte(' ')
		}
	}
}
