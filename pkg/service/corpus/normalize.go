package corpus

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/m-mizutani/goerr/v2"
)

// Boilerplate markers stripped from raw source documents before any other
// processing. Matching is exact and case-sensitive.
var defaultMarkers = []string{
	"_JUST PUBLISHED_",
	"[WARNING: This file was truncated. To view the full content, use the 'read_file' tool on this specific file.]",
}

var (
	paragraphSplitRe = regexp.MustCompile(`\n\s*\n`)
	whitespaceRe     = regexp.MustCompile(`\s+`)
)

// Normalizer cleans raw document text into canonical paragraph blocks.
type Normalizer struct {
	markers []string
}

// NewNormalizer creates a normalizer. Extra markers are stripped in addition
// to the defaults.
func NewNormalizer(extraMarkers ...string) *Normalizer {
	markers := make([]string, 0, len(defaultMarkers)+len(extraMarkers))
	markers = append(markers, defaultMarkers...)
	markers = append(markers, extraMarkers...)
	return &Normalizer{markers: markers}
}

// Normalize strips boilerplate markers, normalizes line endings, reflows each
// paragraph onto a single line with collapsed whitespace, drops empty
// paragraphs and rejoins with a double newline. The function is pure and
// idempotent: Normalize(Normalize(x)) == Normalize(x).
func (n *Normalizer) Normalize(text string) string {
	for _, marker := range n.markers {
		text = strings.ReplaceAll(text, marker, "")
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	paragraphs := paragraphSplitRe.Split(text, -1)
	cleaned := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		p = strings.ReplaceAll(p, "\n", " ")
		p = whitespaceRe.ReplaceAllString(p, " ")
		p = strings.TrimSpace(p)
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}

	return strings.Join(cleaned, "\n\n")
}

// StripHTML extracts visible text from an HTML source document so that
// markup-bearing sources can enter the same normalization path as plain
// text.
func StripHTML(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse HTML source")
	}

	doc.Find("script, style, noscript").Remove()

	var sb strings.Builder
	doc.Find("p, h1, h2, h3, h4, h5, h6, li, blockquote").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			sb.WriteString(text)
			sb.WriteString("\n\n")
		}
	})

	if sb.Len() == 0 {
		// No block elements; fall back to the whole document text.
		return strings.TrimSpace(doc.Text()), nil
	}
	return strings.TrimSpace(sb.String()), nil
}
