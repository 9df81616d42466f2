package corpus

import (
	"context"

	"github.com/m-mizutani/fauxios/pkg/adapter"
	"github.com/m-mizutani/fauxios/pkg/model"
	"github.com/m-mizutani/fauxios/pkg/utils/logging"
)

// DefaultBatchSize is the number of chunks sent per embedding request.
const DefaultBatchSize = 100

// BuildEmbeddings embeds the chunks of a single source document in batches
// and returns them paired with their stable chunk IDs. A failed batch is
// logged and skipped so one bad batch does not abort the whole source; the
// returned slice covers every batch that succeeded.
func BuildEmbeddings(ctx context.Context, gemini adapter.Gemini, source string, chunks []string, batchSize int) []*model.EmbeddedChunk {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	logger := logging.From(ctx)
	embedded := make([]*model.EmbeddedChunk, 0, len(chunks))

	for start := 0; start < len(chunks); start += batchSize {
		end := min(start+batchSize, len(chunks))
		batch := chunks[start:end]

		vectors, err := gemini.BatchEmbedding(ctx, batch, adapter.TaskTypeDocument)
		if err != nil {
			logger.Warn("failed to embed batch, skipping",
				"source", source,
				"offset", start,
				"size", len(batch),
				"error", err,
			)
			continue
		}

		for i, vec := range vectors {
			embedded = append(embedded, &model.EmbeddedChunk{
				Source:    source,
				Content:   batch[i],
				Embedding: vec,
			})
		}
	}

	return embedded
}
