package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/fauxios/pkg/model"
	"github.com/m-mizutani/fauxios/pkg/repository"
	"github.com/m-mizutani/gt"
)

func testArticle(id string, createdAt time.Time) *model.Article {
	return &model.Article{
		ArticleID: model.ArticleID(id),
		Title:     "Title " + id,
		Headline:  "Headline " + id,
		Topic:     "World",
		Content: model.ArticleContent{
			Hook:    "hook",
			Details: "details",
		},
		CreatedAt:      createdAt,
		PostedToSocial: model.PostedFalse,
	}
}

func TestMemoryCreateAndGetArticle(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	article := testArticle("article-1", time.Now())
	gt.NoError(t, repo.CreateArticle(ctx, article))

	retrieved, err := repo.GetArticle(ctx, article.ArticleID)
	gt.NoError(t, err)
	gt.V(t, retrieved).NotNil()
	gt.Equal(t, retrieved.Title, article.Title)
	gt.Equal(t, retrieved.Headline, article.Headline)

	// Duplicate IDs are rejected.
	gt.Error(t, repo.CreateArticle(ctx, article))
}

func TestMemoryGetArticleNotFound(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	_, err := repo.GetArticle(ctx, model.ArticleID("missing"))
	gt.Error(t, err)
}

func TestMemoryListHeadlines(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	now := time.Now()
	gt.NoError(t, repo.CreateArticle(ctx, testArticle("article-1", now)))
	gt.NoError(t, repo.CreateArticle(ctx, testArticle("article-2", now.Add(time.Second))))

	headlines, err := repo.ListHeadlines(ctx)
	gt.NoError(t, err)
	gt.A(t, headlines).Length(2)
}

func TestMemoryLatestUnposted(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	now := time.Now()
	older := testArticle("article-1", now.Add(-time.Hour))
	newer := testArticle("article-2", now)
	posted := testArticle("article-3", now.Add(time.Hour))
	posted.PostedToSocial = model.PostedTrue

	gt.NoError(t, repo.CreateArticle(ctx, older))
	gt.NoError(t, repo.CreateArticle(ctx, newer))
	gt.NoError(t, repo.CreateArticle(ctx, posted))

	latest, err := repo.LatestUnposted(ctx)
	gt.NoError(t, err)
	gt.V(t, latest).NotNil()
	gt.Equal(t, latest.ArticleID, newer.ArticleID)

	gt.NoError(t, repo.MarkPosted(ctx, newer.ArticleID))
	gt.NoError(t, repo.MarkPosted(ctx, older.ArticleID))

	latest, err = repo.LatestUnposted(ctx)
	gt.NoError(t, err)
	gt.V(t, latest).Nil()
}

func TestMemoryListArticlesByTopic(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	now := time.Now()
	politics := testArticle("article-1", now)
	politics.Topic = "Politics"
	world := testArticle("article-2", now.Add(time.Second))

	gt.NoError(t, repo.CreateArticle(ctx, politics))
	gt.NoError(t, repo.CreateArticle(ctx, world))

	articles, err := repo.ListArticlesByTopic(ctx, "Politics", 10)
	gt.NoError(t, err)
	gt.A(t, articles).Length(1)
	gt.Equal(t, articles[0].ArticleID, politics.ArticleID)

	topics, err := repo.ListTopics(ctx)
	gt.NoError(t, err)
	gt.A(t, topics).Length(2)
}

func TestMemorySetImageVariations(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	article := testArticle("article-1", time.Now())
	gt.NoError(t, repo.CreateArticle(ctx, article))

	variations := map[string]string{
		"social-square": "https://example.com/social-square-article-1.png",
		"social-wide":   "https://example.com/social-wide-article-1.png",
	}
	gt.NoError(t, repo.SetImageVariations(ctx, article.ArticleID, variations))

	retrieved, err := repo.GetArticle(ctx, article.ArticleID)
	gt.NoError(t, err)
	gt.Equal(t, retrieved.ImageVariations, variations)
}

func TestMemoryDeleteArticlesBefore(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	now := time.Now()
	gt.NoError(t, repo.CreateArticle(ctx, testArticle("article-1", now.Add(-48*time.Hour))))
	gt.NoError(t, repo.CreateArticle(ctx, testArticle("article-2", now.Add(-24*time.Hour))))
	gt.NoError(t, repo.CreateArticle(ctx, testArticle("article-3", now)))

	deleted, err := repo.DeleteArticlesBefore(ctx, now.Add(-12*time.Hour))
	gt.NoError(t, err)
	gt.Equal(t, deleted, 2)

	headlines, err := repo.ListHeadlines(ctx)
	gt.NoError(t, err)
	gt.A(t, headlines).Length(1)
}

func TestMemoryAuthors(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	authors := []*model.Author{
		{AuthorID: "author-1", Name: "Prudence Hall", Concept: "colonial"},
		{AuthorID: "author-2", Name: "Ezekiel Brown", Concept: "frontier"},
	}
	gt.NoError(t, repo.PutAuthors(ctx, authors))

	all, err := repo.ListAuthors(ctx, "")
	gt.NoError(t, err)
	gt.A(t, all).Length(2)

	colonial, err := repo.ListAuthors(ctx, "colonial")
	gt.NoError(t, err)
	gt.A(t, colonial).Length(1)
	gt.Equal(t, colonial[0].Name, "Prudence Hall")

	// Re-seeding the same ID updates in place, not duplicates.
	gt.NoError(t, repo.PutAuthors(ctx, []*model.Author{
		{AuthorID: "author-1", Name: "Prudence B. Hall", Concept: "colonial"},
	}))
	all, err = repo.ListAuthors(ctx, "")
	gt.NoError(t, err)
	gt.A(t, all).Length(2)
}

func TestMemoryReplaceChunks(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	first := []*model.EmbeddedChunk{
		{Source: "federalist", Content: "chunk one", Embedding: []float32{1, 0}},
		{Source: "federalist", Content: "chunk two", Embedding: []float32{0, 1}},
	}
	gt.NoError(t, repo.ReplaceChunks(ctx, "federalist", first))

	chunks, err := repo.ListChunks(ctx)
	gt.NoError(t, err)
	gt.A(t, chunks).Length(2)

	// Replacing a source drops its previous chunks entirely.
	second := []*model.EmbeddedChunk{
		{Source: "federalist", Content: "rewritten", Embedding: []float32{1, 1}},
	}
	gt.NoError(t, repo.ReplaceChunks(ctx, "federalist", second))

	chunks, err = repo.ListChunks(ctx)
	gt.NoError(t, err)
	gt.A(t, chunks).Length(1)
	gt.Equal(t, chunks[0].Content, "rewritten")
}
