package article

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/fauxios/pkg/model"
)

// Known section names in the order the output format requests them. Matching
// is exact on the name but tolerant of surrounding markdown emphasis.
var sectionNames = []string{
	"Headline",
	"Hook",
	"Tweet",
	"Details",
	"Why it Matters",
	"Topic",
	"Hashtags",
}

type generatedSections struct {
	Headline     string
	Hook         string
	Tweet        string
	Details      string
	WhyItMatters string
	Topic        string
	Hashtags     []string
}

// matchSectionHeader reports whether a line opens a new section. It returns
// the section name and any content trailing the colon on the same line.
// Emphasis markers and heading prefixes around the header are tolerated,
// e.g. "**Headline:**" or "## Hook: text".
func matchSectionHeader(line string) (name, rest string, ok bool) {
	trimmed := strings.TrimLeft(strings.TrimSpace(line), "#")
	trimmed = strings.TrimLeft(trimmed, " ")
	trimmed = strings.TrimLeft(trimmed, "*_")

	for _, section := range sectionNames {
		if !strings.HasPrefix(trimmed, section) {
			continue
		}
		after := trimmed[len(section):]
		after = strings.TrimLeft(after, "*_ ")
		if !strings.HasPrefix(after, ":") {
			continue
		}
		rest = strings.TrimLeft(after[1:], "*_ ")
		return section, strings.TrimSpace(rest), true
	}
	return "", "", false
}

// parseSections scans the raw model response line by line, accumulating each
// section body until the next header. Text before the first header is
// discarded. A repeated header overwrites the earlier body.
func parseSections(raw string) map[string]string {
	sections := make(map[string]string)
	var current string
	var body []string

	flush := func() {
		if current != "" {
			sections[current] = strings.TrimSpace(strings.Join(body, "\n"))
		}
		body = body[:0]
	}

	for _, line := range strings.Split(raw, "\n") {
		if name, rest, ok := matchSectionHeader(line); ok {
			flush()
			current = name
			if rest != "" {
				body = append(body, rest)
			}
			continue
		}
		if current != "" {
			body = append(body, line)
		}
	}
	flush()

	return sections
}

// stripBullets removes leading bullet markers from each line of a Details
// body.
func stripBullets(details string) string {
	lines := strings.Split(details, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "-")
		line = strings.TrimPrefix(line, "*")
		out = append(out, strings.TrimSpace(line))
	}
	return strings.Join(out, "\n")
}

// parseHashtags splits a comma-separated hashtag list, trims entries, strips
// any leading '#', drops empties and deduplicates preserving first
// occurrence.
func parseHashtags(raw string) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimPrefix(strings.TrimSpace(part), "#")
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// parseGenerated validates the raw response against the section contract.
// Headline, Hook and Details are mandatory; their absence fails the whole
// generation so no partial article is ever persisted. Topic falls back to
// the default category and Hashtags to an empty set.
func parseGenerated(raw string) (*generatedSections, error) {
	sections := parseSections(raw)

	var missing []string
	for _, required := range []string{"Headline", "Hook", "Details"} {
		if sections[required] == "" {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, goerr.Wrap(model.ErrIncompleteGeneration, "response is missing required sections",
			goerr.V("missing", missing))
	}

	topic := sections["Topic"]
	if topic == "" {
		topic = model.DefaultTopic
	}

	return &generatedSections{
		Headline:     sections["Headline"],
		Hook:         sections["Hook"],
		Tweet:        sections["Tweet"],
		Details:      stripBullets(sections["Details"]),
		WhyItMatters: sections["Why it Matters"],
		Topic:        topic,
		Hashtags:     parseHashtags(sections["Hashtags"]),
	}, nil
}
