package index

import (
	"io"
	"os"

	"github.com/m-mizutani/fauxios/pkg/adapter"
	"github.com/m-mizutani/fauxios/pkg/repository"
)

// UseCase provides corpus indexing and reference-data seeding operations
type UseCase struct {
	repo    repository.Repository
	gemini  adapter.Gemini
	storage adapter.Storage

	output    io.Writer
	batchSize int
	noSpinner bool
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithOutput sets the output writer
func WithOutput(w io.Writer) Option {
	return func(uc *UseCase) {
		uc.output = w
	}
}

// WithBatchSize overrides the embedding batch size.
func WithBatchSize(size int) Option {
	return func(uc *UseCase) {
		uc.batchSize = size
	}
}

// WithoutSpinner disables the terminal progress spinner. Used in tests and
// non-interactive environments.
func WithoutSpinner() Option {
	return func(uc *UseCase) {
		uc.noSpinner = true
	}
}

// New creates a new index UseCase instance
func New(
	repo repository.Repository,
	gemini adapter.Gemini,
	storage adapter.Storage,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		repo:    repo,
		gemini:  gemini,
		storage: storage,
		output:  os.Stdout,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
