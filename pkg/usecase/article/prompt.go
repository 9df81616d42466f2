package article

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/fauxios/pkg/model"
)

//go:embed prompt/article.md
var articlePromptRaw string

var articlePromptTmpl = template.Must(template.New("article").Parse(articlePromptRaw))

// formatHistoricalContext renders retrieved snippets as a quoted list for the
// prompt, one line per match.
func formatHistoricalContext(matches []*model.HistoricalMatch) string {
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, fmt.Sprintf("- From %s: %q", m.Source, strings.TrimSpace(m.Text)))
	}
	return strings.Join(lines, "\n")
}

func buildArticlePrompt(candidate *model.NewsCandidate, matches []*model.HistoricalMatch, now time.Time) (string, error) {
	var buf bytes.Buffer
	if err := articlePromptTmpl.Execute(&buf, map[string]any{
		"Date":              now.Format("Mon Jan 2 2006"),
		"Headline":          candidate.Title,
		"Content":           candidate.Body(),
		"HistoricalContext": formatHistoricalContext(matches),
		"Topics":            strings.Join(model.TopLevelTopics, ", "),
	}); err != nil {
		return "", goerr.Wrap(err, "failed to execute article prompt template")
	}
	return buf.String(), nil
}
