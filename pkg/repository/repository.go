package repository

import (
	"context"
	"time"

	"github.com/m-mizutani/fauxios/pkg/model"
)

// Repository defines the persistence interface for articles, authors and the
// embedded-chunk corpus.
type Repository interface {
	// CreateArticle persists a new article. Creation is all-or-nothing: the
	// call fails if an article with the same ID already exists.
	CreateArticle(ctx context.Context, article *model.Article) error

	// GetArticle retrieves an article by ID
	GetArticle(ctx context.Context, id model.ArticleID) (*model.Article, error)

	// ListHeadlines returns the original headlines of all stored articles.
	// Used by the generator's dedupe step.
	ListHeadlines(ctx context.Context) ([]string, error)

	// ListPostedArticles returns published articles, newest first.
	ListPostedArticles(ctx context.Context, limit int) ([]*model.Article, error)

	// ListArticlesByTopic returns articles for one topic, newest first.
	ListArticlesByTopic(ctx context.Context, topic string, limit int) ([]*model.Article, error)

	// ListTopics returns the distinct topics of all stored articles.
	ListTopics(ctx context.Context) ([]string, error)

	// LatestUnposted returns the newest article not yet posted to social
	// platforms, or nil when none exists.
	LatestUnposted(ctx context.Context) (*model.Article, error)

	// SetImageVariations replaces the article's variant URL mapping.
	SetImageVariations(ctx context.Context, id model.ArticleID, variations map[string]string) error

	// MarkPosted flips postedToSocial to true. The transition is monotone;
	// marking an already-posted article is a no-op.
	MarkPosted(ctx context.Context, id model.ArticleID) error

	// DeleteArticlesBefore removes articles created on or before the cutoff
	// and returns the number deleted. Maintenance only.
	DeleteArticlesBefore(ctx context.Context, cutoff time.Time) (int, error)

	// PutAuthors seeds the author reference data.
	PutAuthors(ctx context.Context, authors []*model.Author) error

	// ListAuthors returns authors, optionally narrowed to one concept.
	ListAuthors(ctx context.Context, concept string) ([]*model.Author, error)

	// ReplaceChunks removes all chunks tagged with source and inserts the
	// given ones, preventing orphaned stale vectors.
	ReplaceChunks(ctx context.Context, source string, chunks []*model.EmbeddedChunk) error

	// ListChunks returns the full embedded-chunk corpus.
	ListChunks(ctx context.Context) ([]*model.EmbeddedChunk, error)
}
