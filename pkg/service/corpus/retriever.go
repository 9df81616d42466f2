package corpus

import (
	"context"
	"math"
	"sort"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/fauxios/pkg/adapter"
	"github.com/m-mizutani/fauxios/pkg/model"
)

// RetrieveMode selects how many historical snippets a context lookup
// returns.
type RetrieveMode string

const (
	// RetrieveSingle returns only the best-matching chunk.
	RetrieveSingle RetrieveMode = "single"
	// RetrieveMulti returns the top MultiMatchCount chunks.
	RetrieveMulti RetrieveMode = "multi"

	// MultiMatchCount is the number of snippets returned in multi mode.
	MultiMatchCount = 5
)

// Retriever ranks an in-memory embedded corpus against a query by cosine
// similarity. The corpus is loaded once and reused across lookups; queries
// must be embedded with the same model the corpus was built with.
type Retriever struct {
	gemini adapter.Gemini
	chunks []*model.EmbeddedChunk
	mode   RetrieveMode
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithRetrieveMode sets the lookup mode. Default is RetrieveSingle.
func WithRetrieveMode(mode RetrieveMode) RetrieverOption {
	return func(r *Retriever) {
		r.mode = mode
	}
}

// NewRetriever creates a retriever over an already-loaded corpus.
func NewRetriever(gemini adapter.Gemini, chunks []*model.EmbeddedChunk, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		gemini: gemini,
		chunks: chunks,
		mode:   RetrieveSingle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadRetriever downloads the corpus snapshot from object storage and builds
// a retriever over it.
func LoadRetriever(ctx context.Context, gemini adapter.Gemini, store adapter.Storage, opts ...RetrieverOption) (*Retriever, error) {
	chunks, err := DownloadSnapshot(ctx, store)
	if err != nil {
		return nil, err
	}
	return NewRetriever(gemini, chunks, opts...), nil
}

// Size returns the number of chunks in the loaded corpus.
func (r *Retriever) Size() int {
	return len(r.chunks)
}

// FindContext embeds the query and returns the best-matching historical
// snippets: one in single mode, up to MultiMatchCount in multi mode. It
// returns ErrNoContextFound when the corpus is empty.
func (r *Retriever) FindContext(ctx context.Context, query string) ([]*model.HistoricalMatch, error) {
	if len(r.chunks) == 0 {
		return nil, goerr.Wrap(model.ErrNoContextFound, "corpus is empty")
	}

	queryVec, err := r.gemini.Embedding(ctx, query, adapter.TaskTypeQuery)
	if err != nil {
		return nil, adapter.WrapUpstream(err, "failed to embed query")
	}

	matches := make([]*model.HistoricalMatch, 0, len(r.chunks))
	for _, chunk := range r.chunks {
		matches = append(matches, &model.HistoricalMatch{
			Source:     chunk.Source,
			Text:       chunk.Content,
			Similarity: cosineSimilarity(queryVec, chunk.Embedding),
		})
	}

	// Stable sort keeps corpus order for equal scores, so the earliest
	// chunk wins ties.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	limit := 1
	if r.mode == RetrieveMulti {
		limit = MultiMatchCount
	}
	if limit > len(matches) {
		limit = len(matches)
	}
	return matches[:limit], nil
}

// cosineSimilarity computes the cosine similarity of two embedding vectors.
// Mismatched lengths and zero-magnitude vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
