package corpus_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/fauxios/pkg/service/corpus"
)

func TestNormalizeStripsMarkers(t *testing.T) {
	n := corpus.NewNormalizer()
	input := "_JUST PUBLISHED_\n\nSome actual news content here."
	got := n.Normalize(input)
	gt.Equal(t, got, "Some actual news content here.")
}

func TestNormalizeReflowsParagraphs(t *testing.T) {
	n := corpus.NewNormalizer()
	input := "First line\nof paragraph one.\r\n\r\nSecond   paragraph\twith\nmessy  spacing.\n\n\n\nThird."
	got := n.Normalize(input)
	gt.Equal(t, got, "First line of paragraph one.\n\nSecond paragraph with messy spacing.\n\nThird.")
}

func TestNormalizeDropsEmptyParagraphs(t *testing.T) {
	n := corpus.NewNormalizer()
	input := "Alpha.\n\n   \n\nBeta."
	got := n.Normalize(input)
	gt.Equal(t, got, "Alpha.\n\nBeta.")
}

func TestNormalizeIdempotent(t *testing.T) {
	n := corpus.NewNormalizer("CUSTOM MARKER")
	input := "CUSTOM MARKER Headline\nbody text\r\n\r\nmore    text"
	once := n.Normalize(input)
	twice := n.Normalize(once)
	gt.Equal(t, twice, once)
}

func TestStripHTML(t *testing.T) {
	html := `<html><head><style>p{color:red}</style></head><body>
		<script>var x = 1;</script>
		<h1>Title</h1>
		<p>Body paragraph.</p>
	</body></html>`

	got, err := corpus.StripHTML(html)
	gt.NoError(t, err)
	gt.S(t, got).Contains("Title").Contains("Body paragraph.").NotContains("var x").NotContains("color:red")
}
