package video

import (
	"io"
	"os"

	"github.com/m-mizutani/fauxios/pkg/adapter"
	"github.com/m-mizutani/fauxios/pkg/repository"
)

// UseCase assembles short-form videos from generated articles
type UseCase struct {
	repo    repository.Repository
	storage adapter.Storage
	speech  adapter.SpeechSynthesizer
	clips   adapter.VideoGenerator
	render  adapter.RenderService

	output  io.Writer
	httpGet func(url string) ([]byte, error)
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithOutput sets the output writer
func WithOutput(w io.Writer) Option {
	return func(uc *UseCase) {
		uc.output = w
	}
}

// WithFetcher overrides the HTTP asset fetcher. Used in tests.
func WithFetcher(get func(url string) ([]byte, error)) Option {
	return func(uc *UseCase) {
		uc.httpGet = get
	}
}

// New creates a new video UseCase instance
func New(
	repo repository.Repository,
	storage adapter.Storage,
	speech adapter.SpeechSynthesizer,
	clips adapter.VideoGenerator,
	render adapter.RenderService,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		repo:    repo,
		storage: storage,
		speech:  speech,
		clips:   clips,
		render:  render,
		output:  os.Stdout,
		httpGet: fetchURL,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
