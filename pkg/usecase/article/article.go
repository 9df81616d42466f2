package article

import (
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/m-mizutani/fauxios/pkg/adapter"
	"github.com/m-mizutani/fauxios/pkg/repository"
	"github.com/m-mizutani/fauxios/pkg/service/corpus"
)

// UseCase provides article generation and publishing operations
type UseCase struct {
	repo      repository.Repository
	gemini    adapter.Gemini
	feed      adapter.NewsFeed
	storage   adapter.Storage
	retriever *corpus.Retriever

	posters       []adapter.SocialPoster
	rng           *rand.Rand
	now           func() time.Time
	output        io.Writer
	siteURL       string
	authorConcept string
	noSpinner     bool
	httpClient    *http.Client
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithOutput sets the output writer
func WithOutput(w io.Writer) Option {
	return func(uc *UseCase) {
		uc.output = w
	}
}

// WithPosters sets the social platforms to publish to.
func WithPosters(posters ...adapter.SocialPoster) Option {
	return func(uc *UseCase) {
		uc.posters = posters
	}
}

// WithRand injects the random source used for candidate and author
// selection. Tests pass a seeded source for reproducibility.
func WithRand(rng *rand.Rand) Option {
	return func(uc *UseCase) {
		uc.rng = rng
	}
}

// WithClock injects the time source used for article IDs and timestamps.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		uc.now = now
	}
}

// WithSiteURL sets the public site base URL embedded in social post text.
func WithSiteURL(url string) Option {
	return func(uc *UseCase) {
		uc.siteURL = url
	}
}

// WithAuthorConcept narrows author selection to one concept category.
func WithAuthorConcept(concept string) Option {
	return func(uc *UseCase) {
		uc.authorConcept = concept
	}
}

// WithoutSpinner disables the terminal progress spinner. Used in tests and
// non-interactive environments.
func WithoutSpinner() Option {
	return func(uc *UseCase) {
		uc.noSpinner = true
	}
}

// New creates a new article UseCase instance
func New(
	repo repository.Repository,
	gemini adapter.Gemini,
	feed adapter.NewsFeed,
	storage adapter.Storage,
	retriever *corpus.Retriever,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		repo:       repo,
		gemini:     gemini,
		feed:       feed,
		storage:    storage,
		retriever:  retriever,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		now:        time.Now,
		output:     os.Stdout,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
