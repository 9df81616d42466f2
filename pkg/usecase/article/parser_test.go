package article

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/fauxios/pkg/model"
)

func TestParseGenerated(t *testing.T) {
	raw := "Headline:\nA Most Tyrannical Decree\nHook:\nIn a move observers call familiar, the administration acted.\nTweet:\nThe crown strikes again.\nDetails:\n- The decree was signed on Tuesday.\n- Colonists were not consulted.\nWhy it Matters:\nThe precedent is stark.\n\nAnd it will echo.\nTopic:\nPolitics\nHashtags:\nliberty, taxation, liberty, #history\n"

	got, err := parseGenerated(raw)
	gt.NoError(t, err)
	gt.Equal(t, got.Headline, "A Most Tyrannical Decree")
	gt.Equal(t, got.Hook, "In a move observers call familiar, the administration acted.")
	gt.Equal(t, got.Tweet, "The crown strikes again.")
	gt.Equal(t, got.Details, "The decree was signed on Tuesday.\nColonists were not consulted.")
	gt.Equal(t, got.WhyItMatters, "The precedent is stark.\n\nAnd it will echo.")
	gt.Equal(t, got.Topic, "Politics")
	gt.Equal(t, got.Hashtags, []string{"liberty", "taxation", "history"})
}

func TestParseGeneratedMinimal(t *testing.T) {
	got, err := parseGenerated("Headline:\nA\nHook:\nB\nDetails:\n- x\n- y\n")
	gt.NoError(t, err)
	gt.Equal(t, got.Headline, "A")
	gt.Equal(t, got.Hook, "B")
	gt.Equal(t, got.Details, "x\ny")
	gt.Equal(t, got.Topic, model.DefaultTopic)
	gt.A(t, got.Hashtags).Length(0)
}

func TestParseGeneratedMissingHook(t *testing.T) {
	_, err := parseGenerated("Headline:\nA\nDetails:\n- x\n")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrIncompleteGeneration))
}

func TestParseGeneratedEmptySection(t *testing.T) {
	// A header with no body counts as missing.
	_, err := parseGenerated("Headline:\nA\nHook:\nDetails:\n- x\n")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrIncompleteGeneration))
}

func TestParseGeneratedMarkdownHeaders(t *testing.T) {
	raw := "**Headline:** The Stamp Act Returns\n**Hook:**\nA hook sentence.\n**Details:**\n* one\n* two\n"
	got, err := parseGenerated(raw)
	gt.NoError(t, err)
	gt.Equal(t, got.Headline, "The Stamp Act Returns")
	gt.Equal(t, got.Hook, "A hook sentence.")
	gt.Equal(t, got.Details, "one\ntwo")
}

func TestParseGeneratedIgnoresPreamble(t *testing.T) {
	raw := "Sure, here is the article you asked for.\n\nHeadline:\nA\nHook:\nB\nDetails:\nC\n"
	got, err := parseGenerated(raw)
	gt.NoError(t, err)
	gt.Equal(t, got.Headline, "A")
}

func TestParseHashtags(t *testing.T) {
	gt.Equal(t, parseHashtags(" #a, b ,, a , c"), []string{"a", "b", "c"})
	gt.Equal(t, parseHashtags("#Foo, bar , #Foo"), []string{"Foo", "bar"})
	gt.A(t, parseHashtags("")).Length(0)
	gt.A(t, parseHashtags(" , , ")).Length(0)
}

func TestMatchSectionHeader(t *testing.T) {
	name, rest, ok := matchSectionHeader("Why it Matters: because reasons")
	gt.True(t, ok)
	gt.Equal(t, name, "Why it Matters")
	gt.Equal(t, rest, "because reasons")

	_, _, ok = matchSectionHeader("Hooks: not a real section")
	gt.True(t, !ok)

	_, _, ok = matchSectionHeader("some text with Headline: inside")
	gt.True(t, !ok)
}
