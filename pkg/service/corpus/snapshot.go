package corpus

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/fauxios/pkg/adapter"
	"github.com/m-mizutani/fauxios/pkg/model"
)

// SnapshotKey is the object key of the gzip-compressed corpus snapshot.
const SnapshotKey = "embeddings.json.gz"

// WriteSnapshot serializes the embedded corpus as a gzip-compressed JSON
// array.
func WriteSnapshot(w io.Writer, chunks []*model.EmbeddedChunk) error {
	gz := gzip.NewWriter(w)
	if err := json.NewEncoder(gz).Encode(chunks); err != nil {
		_ = gz.Close()
		return goerr.Wrap(err, "failed to encode corpus snapshot")
	}
	if err := gz.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize corpus snapshot")
	}
	return nil
}

// ReadSnapshot decodes a gzip-compressed JSON corpus snapshot.
func ReadSnapshot(r io.Reader) ([]*model.EmbeddedChunk, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open corpus snapshot")
	}
	defer gz.Close()

	var chunks []*model.EmbeddedChunk
	if err := json.NewDecoder(gz).Decode(&chunks); err != nil {
		return nil, goerr.Wrap(err, "failed to decode corpus snapshot")
	}
	return chunks, nil
}

// UploadSnapshot writes the corpus snapshot to object storage under
// SnapshotKey.
func UploadSnapshot(ctx context.Context, store adapter.Storage, chunks []*model.EmbeddedChunk) error {
	w, err := store.Put(ctx, SnapshotKey)
	if err != nil {
		return goerr.Wrap(err, "failed to open snapshot for writing", goerr.V("key", SnapshotKey))
	}
	if err := WriteSnapshot(w, chunks); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to upload corpus snapshot", goerr.V("key", SnapshotKey))
	}
	return nil
}

// DownloadSnapshot fetches and decodes the corpus snapshot from object
// storage.
func DownloadSnapshot(ctx context.Context, store adapter.Storage) ([]*model.EmbeddedChunk, error) {
	r, err := store.Get(ctx, SnapshotKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch corpus snapshot", goerr.V("key", SnapshotKey))
	}
	defer r.Close()

	return ReadSnapshot(r)
}
