package repository_test

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/fauxios/pkg/model"
	"github.com/m-mizutani/fauxios/pkg/repository"
	"github.com/m-mizutani/gt"
)

func setupFirestore(t *testing.T) repository.Repository {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID and TEST_FIRESTORE_DATABASE_ID must be set to run Firestore tests")
	}

	repo, err := repository.New(context.Background(), projectID, databaseID)
	gt.NoError(t, err)

	return repo
}

func uniqueArticle(createdAt time.Time) *model.Article {
	id := fmt.Sprintf("article-%d-%04d", createdAt.UnixMilli(), rand.Intn(10000))
	return testArticle(id, createdAt)
}

func TestFirestoreCreateAndGetArticle(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	article := uniqueArticle(time.Now())
	gt.NoError(t, repo.CreateArticle(ctx, article))

	retrieved, err := repo.GetArticle(ctx, article.ArticleID)
	gt.NoError(t, err)
	gt.V(t, retrieved).NotNil()
	gt.Equal(t, retrieved.Title, article.Title)
	gt.Equal(t, retrieved.Headline, article.Headline)
	gt.Equal(t, retrieved.PostedToSocial, model.PostedFalse)
}

func TestFirestoreGetArticleNotFound(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	_, err := repo.GetArticle(ctx, model.ArticleID("non-existent-article"))
	gt.Error(t, err)
}

func TestFirestoreLatestUnposted(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	article := uniqueArticle(time.Now())
	gt.NoError(t, repo.CreateArticle(ctx, article))

	latest, err := repo.LatestUnposted(ctx)
	gt.NoError(t, err)
	gt.V(t, latest).NotNil()

	gt.NoError(t, repo.MarkPosted(ctx, article.ArticleID))

	marked, err := repo.GetArticle(ctx, article.ArticleID)
	gt.NoError(t, err)
	gt.Equal(t, marked.PostedToSocial, model.PostedTrue)
}

func TestFirestoreImageVariations(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	article := uniqueArticle(time.Now())
	gt.NoError(t, repo.CreateArticle(ctx, article))

	variations := map[string]string{
		"social-square": "https://example.com/social-square.png",
		"social-wide":   "https://example.com/social-wide.png",
	}
	gt.NoError(t, repo.SetImageVariations(ctx, article.ArticleID, variations))

	retrieved, err := repo.GetArticle(ctx, article.ArticleID)
	gt.NoError(t, err)
	gt.Equal(t, retrieved.ImageVariations, variations)
}

func TestFirestoreChunks(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	source := fmt.Sprintf("test-source-%d", time.Now().UnixMilli())
	chunks := []*model.EmbeddedChunk{
		{Source: source, Content: "first chunk", Embedding: []float32{1, 0, 0}},
		{Source: source, Content: "second chunk", Embedding: []float32{0, 1, 0}},
	}
	gt.NoError(t, repo.ReplaceChunks(ctx, source, chunks))

	all, err := repo.ListChunks(ctx)
	gt.NoError(t, err)
	gt.A(t, all).Longer(1)

	gt.NoError(t, repo.ReplaceChunks(ctx, source, chunks[:1]))
}

func TestFirestoreAuthors(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	gt.NoError(t, repo.PutAuthors(ctx, []*model.Author{
		{AuthorID: "test-author-1", Name: "Prudence Hall", Concept: "colonial"},
	}))

	authors, err := repo.ListAuthors(ctx, "")
	gt.NoError(t, err)
	gt.A(t, authors).Longer(0)
}
