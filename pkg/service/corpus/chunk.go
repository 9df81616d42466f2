package corpus

import (
	"regexp"
	"strings"
)

// DefaultMaxChunkSize is the maximum chunk length in bytes used when the
// caller does not override it.
const DefaultMaxChunkSize = 4000

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+`)

// Chunk splits normalized text into chunks of at most maxSize bytes.
// Paragraphs that fit become chunks as-is. Oversized paragraphs are split
// into sentences and greedily packed; a single sentence longer than maxSize
// is kept intact as its own chunk rather than truncated. Every input byte
// outside of packing whitespace appears in exactly one output chunk.
func Chunk(text string, maxSize int) []string {
	if maxSize <= 0 {
		maxSize = DefaultMaxChunkSize
	}

	var chunks []string
	for _, paragraph := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(paragraph) == "" {
			continue
		}
		if len(paragraph) <= maxSize {
			chunks = append(chunks, paragraph)
			continue
		}

		sentences := splitSentences(paragraph)
		if len(sentences) == 0 {
			// No sentence boundaries at all; keep the paragraph whole.
			chunks = append(chunks, paragraph)
			continue
		}

		var current strings.Builder
		for _, sentence := range sentences {
			if current.Len() > 0 && current.Len()+len(sentence) > maxSize {
				chunks = append(chunks, strings.TrimSpace(current.String()))
				current.Reset()
			}
			current.WriteString(sentence)
			current.WriteString(" ")
		}
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
		}
	}

	return chunks
}

// splitSentences cuts a paragraph at terminal punctuation. Text outside the
// punctuation-terminated segments, such as an unterminated trailing
// fragment, is kept as a segment of its own so no content is lost. Returns
// nil when the paragraph has no terminal punctuation at all.
func splitSentences(paragraph string) []string {
	spans := sentenceRe.FindAllStringIndex(paragraph, -1)
	if len(spans) == 0 {
		return nil
	}

	var sentences []string
	last := 0
	for _, span := range spans {
		if gap := paragraph[last:span[0]]; strings.TrimSpace(gap) != "" {
			sentences = append(sentences, strings.TrimSpace(gap))
		}
		sentences = append(sentences, paragraph[span[0]:span[1]])
		last = span[1]
	}
	if tail := paragraph[last:]; strings.TrimSpace(tail) != "" {
		sentences = append(sentences, strings.TrimSpace(tail))
	}
	return sentences
}
