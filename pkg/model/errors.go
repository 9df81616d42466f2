package model

import "github.com/m-mizutani/goerr/v2"

// Pipeline failure kinds. Run-level failures are not retried in-process; they
// propagate to the scheduler that triggered the run.
var (
	// ErrUpstreamFetch: the news feed was unreachable or returned no results.
	ErrUpstreamFetch = goerr.New("failed to fetch news candidates")

	// ErrExhaustedCandidates: every fetched headline was already used.
	ErrExhaustedCandidates = goerr.New("no unused news candidates")

	// ErrNoContextFound: the retrieval corpus is empty or yielded no match.
	ErrNoContextFound = goerr.New("no historical context found")

	// ErrIncompleteGeneration: a mandatory section is missing from the
	// generated response. No partial article is persisted.
	ErrIncompleteGeneration = goerr.New("generated response is missing required sections")

	// ErrEmptyImage: the image model returned no inline binary payload, or a
	// zero-length one.
	ErrEmptyImage = goerr.New("image generation returned no image data")

	// ErrUpstreamTimeout: an external call exceeded its deadline.
	ErrUpstreamTimeout = goerr.New("upstream call timed out")
)
