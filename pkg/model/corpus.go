package model

import "fmt"

// EmbeddedChunk is one bounded unit of source text with its embedding vector.
// Chunks are immutable once created; all chunks of a source are replaced
// together when the source changes.
type EmbeddedChunk struct {
	Source    string    `firestore:"source" json:"source"`
	Content   string    `firestore:"content" json:"content"`
	Embedding []float32 `firestore:"embedding" json:"embedding"`
}

// ChunkID derives the corpus document key for the i-th chunk of a source.
func ChunkID(source string, index int) string {
	return fmt.Sprintf("%s-chunk%d", source, index)
}

// HistoricalMatch is the transient result of a retrieval. It is never
// persisted on its own.
type HistoricalMatch struct {
	Source     string
	Text       string
	Similarity float64
}
