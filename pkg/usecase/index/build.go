package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/fauxios/pkg/service/corpus"
	"github.com/m-mizutani/fauxios/pkg/utils/logging"
)

var sourceExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".html": true,
	".htm":  true,
}

// Build reads every source document under dir, normalizes and chunks it,
// embeds the chunks in batches and replaces each source's chunk set in the
// repository. Finally the whole corpus is written to object storage as a
// snapshot for fast retriever startup.
func (u *UseCase) Build(ctx context.Context, dir string) error {
	logger := logging.From(ctx)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return goerr.Wrap(err, "failed to read source directory", goerr.V("dir", dir))
	}

	var sources []string
	for _, entry := range entries {
		if entry.IsDir() || !sourceExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		sources = append(sources, entry.Name())
	}
	if len(sources) == 0 {
		return goerr.New("no source documents found", goerr.V("dir", dir))
	}

	sp := u.startSpinner("indexing sources...")
	defer u.stopSpinner(sp)

	normalizer := corpus.NewNormalizer()
	total := 0
	for _, name := range sources {
		if sp != nil {
			sp.Suffix = fmt.Sprintf(" indexing %s", name)
		}

		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return goerr.Wrap(err, "failed to read source document", goerr.V("file", name))
		}

		text := string(raw)
		ext := strings.ToLower(filepath.Ext(name))
		if ext == ".html" || ext == ".htm" {
			text, err = corpus.StripHTML(text)
			if err != nil {
				return goerr.Wrap(err, "failed to strip HTML source", goerr.V("file", name))
			}
		}

		chunks := corpus.Chunk(normalizer.Normalize(text), corpus.DefaultMaxChunkSize)
		embedded := corpus.BuildEmbeddings(ctx, u.gemini, name, chunks, u.batchSize)

		if err := u.repo.ReplaceChunks(ctx, name, embedded); err != nil {
			return err
		}

		logger.Info("indexed source", "source", name, "chunks", len(chunks), "embedded", len(embedded))
		total += len(embedded)
	}

	if sp != nil {
		sp.Suffix = " writing corpus snapshot"
	}
	all, err := u.repo.ListChunks(ctx)
	if err != nil {
		return err
	}
	if err := corpus.UploadSnapshot(ctx, u.storage, all); err != nil {
		return err
	}

	u.stopSpinner(sp)
	fmt.Fprintf(u.output, "Indexed %d source(s), %d chunk(s)\n", len(sources), total)
	return nil
}

func (u *UseCase) startSpinner(suffix string) *spinner.Spinner {
	if u.noSpinner {
		return nil
	}
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	sp.Suffix = " " + suffix
	sp.Start()
	return sp
}

func (u *UseCase) stopSpinner(sp *spinner.Spinner) {
	if sp != nil && sp.Active() {
		sp.Stop()
	}
}
