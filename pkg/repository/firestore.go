package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/fauxios/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

const (
	articleCollection = "articles"
	authorCollection  = "authors"
	chunkCollection   = "chunks"
)

// firestoreRepo implements Repository using Firestore
type firestoreRepo struct {
	client *firestore.Client
}

// New creates a Firestore-backed repository.
func New(ctx context.Context, projectID, databaseID string) (Repository, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	return &firestoreRepo{client: client}, nil
}

// chunkDoc is the persisted form of a corpus chunk. The embedding is stored
// as a Firestore vector so the collection stays queryable by vector search
// even though the pipeline's own retriever works from the snapshot.
type chunkDoc struct {
	Source    string             `firestore:"source"`
	Content   string             `firestore:"content"`
	Embedding firestore.Vector32 `firestore:"embedding"`
}

func (r *firestoreRepo) CreateArticle(ctx context.Context, article *model.Article) error {
	doc := r.client.Collection(articleCollection).Doc(article.ArticleID.String())
	if _, err := doc.Create(ctx, article); err != nil {
		return goerr.Wrap(err, "failed to create article", goerr.V("article_id", article.ArticleID))
	}
	return nil
}

func (r *firestoreRepo) GetArticle(ctx context.Context, id model.ArticleID) (*model.Article, error) {
	snap, err := r.client.Collection(articleCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get article", goerr.V("article_id", id))
	}

	var article model.Article
	if err := snap.DataTo(&article); err != nil {
		return nil, goerr.Wrap(err, "failed to decode article", goerr.V("article_id", id))
	}
	return &article, nil
}

func (r *firestoreRepo) ListHeadlines(ctx context.Context) ([]string, error) {
	iter := r.client.Collection(articleCollection).Select("headline").Documents(ctx)
	defer iter.Stop()

	var headlines []string
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate headlines")
		}

		if v, err := snap.DataAt("headline"); err == nil {
			if s, ok := v.(string); ok && s != "" {
				headlines = append(headlines, s)
			}
		}
	}
	return headlines, nil
}

func (r *firestoreRepo) listArticles(ctx context.Context, q firestore.Query) ([]*model.Article, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var articles []*model.Article
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate articles")
		}

		var article model.Article
		if err := snap.DataTo(&article); err != nil {
			return nil, goerr.Wrap(err, "failed to decode article", goerr.V("doc", snap.Ref.ID))
		}
		articles = append(articles, &article)
	}
	return articles, nil
}

func (r *firestoreRepo) ListPostedArticles(ctx context.Context, limit int) ([]*model.Article, error) {
	q := r.client.Collection(articleCollection).
		Where("postedToSocial", "==", model.PostedTrue).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit)
	return r.listArticles(ctx, q)
}

func (r *firestoreRepo) ListArticlesByTopic(ctx context.Context, topic string, limit int) ([]*model.Article, error) {
	q := r.client.Collection(articleCollection).
		Where("topic", "==", topic).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit)
	return r.listArticles(ctx, q)
}

func (r *firestoreRepo) ListTopics(ctx context.Context) ([]string, error) {
	iter := r.client.Collection(articleCollection).Select("topic").Documents(ctx)
	defer iter.Stop()

	seen := map[string]bool{}
	var topics []string
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate topics")
		}

		topic := model.DefaultTopic
		if v, err := snap.DataAt("topic"); err == nil {
			if s, ok := v.(string); ok && s != "" {
				topic = s
			}
		}
		if !seen[topic] {
			seen[topic] = true
			topics = append(topics, topic)
		}
	}
	sort.Strings(topics)
	return topics, nil
}

func (r *firestoreRepo) LatestUnposted(ctx context.Context) (*model.Article, error) {
	q := r.client.Collection(articleCollection).
		Where("postedToSocial", "==", model.PostedFalse).
		OrderBy("createdAt", firestore.Desc).
		Limit(1)

	articles, err := r.listArticles(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, nil
	}
	return articles[0], nil
}

func (r *firestoreRepo) SetImageVariations(ctx context.Context, id model.ArticleID, variations map[string]string) error {
	doc := r.client.Collection(articleCollection).Doc(id.String())
	_, err := doc.Update(ctx, []firestore.Update{
		{Path: "imageVariations", Value: variations},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to update image variations", goerr.V("article_id", id))
	}
	return nil
}

func (r *firestoreRepo) MarkPosted(ctx context.Context, id model.ArticleID) error {
	doc := r.client.Collection(articleCollection).Doc(id.String())
	_, err := doc.Update(ctx, []firestore.Update{
		{Path: "postedToSocial", Value: model.PostedTrue},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to mark article as posted", goerr.V("article_id", id))
	}
	return nil
}

func (r *firestoreRepo) DeleteArticlesBefore(ctx context.Context, cutoff time.Time) (int, error) {
	iter := r.client.Collection(articleCollection).
		Where("createdAt", "<=", cutoff).
		Documents(ctx)
	defer iter.Stop()

	bw := r.client.BulkWriter(ctx)
	deleted := 0
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return deleted, goerr.Wrap(err, "failed to iterate articles for deletion")
		}

		if _, err := bw.Delete(snap.Ref); err != nil {
			return deleted, goerr.Wrap(err, "failed to queue article deletion", goerr.V("doc", snap.Ref.ID))
		}
		deleted++
	}
	bw.End()

	return deleted, nil
}

func (r *firestoreRepo) PutAuthors(ctx context.Context, authors []*model.Author) error {
	for _, author := range authors {
		doc := r.client.Collection(authorCollection).Doc(author.AuthorID)
		if _, err := doc.Set(ctx, author); err != nil {
			return goerr.Wrap(err, "failed to put author", goerr.V("author_id", author.AuthorID))
		}
	}
	return nil
}

func (r *firestoreRepo) ListAuthors(ctx context.Context, concept string) ([]*model.Author, error) {
	q := r.client.Collection(authorCollection).Query
	if concept != "" {
		q = q.Where("concept", "==", concept)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var authors []*model.Author
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate authors")
		}

		var author model.Author
		if err := snap.DataTo(&author); err != nil {
			return nil, goerr.Wrap(err, "failed to decode author", goerr.V("doc", snap.Ref.ID))
		}
		authors = append(authors, &author)
	}
	return authors, nil
}

func (r *firestoreRepo) ReplaceChunks(ctx context.Context, source string, chunks []*model.EmbeddedChunk) error {
	// Stale chunks of this source must be purged first to avoid orphans.
	iter := r.client.Collection(chunkCollection).
		Where("source", "==", source).
		Documents(ctx)
	defer iter.Stop()

	bw := r.client.BulkWriter(ctx)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate stale chunks", goerr.V("source", source))
		}
		if _, err := bw.Delete(snap.Ref); err != nil {
			return goerr.Wrap(err, "failed to queue chunk deletion", goerr.V("doc", snap.Ref.ID))
		}
	}
	bw.Flush()

	for i, chunk := range chunks {
		doc := r.client.Collection(chunkCollection).Doc(model.ChunkID(source, i))
		if _, err := bw.Set(doc, &chunkDoc{
			Source:    chunk.Source,
			Content:   chunk.Content,
			Embedding: firestore.Vector32(chunk.Embedding),
		}); err != nil {
			return goerr.Wrap(err, "failed to queue chunk insert", goerr.V("doc", doc.ID))
		}
	}
	bw.End()

	return nil
}

func (r *firestoreRepo) ListChunks(ctx context.Context) ([]*model.EmbeddedChunk, error) {
	iter := r.client.Collection(chunkCollection).Documents(ctx)
	defer iter.Stop()

	var chunks []*model.EmbeddedChunk
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate chunks")
		}

		var doc chunkDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode chunk", goerr.V("doc", snap.Ref.ID))
		}
		chunks = append(chunks, &model.EmbeddedChunk{
			Source:    doc.Source,
			Content:   doc.Content,
			Embedding: []float32(doc.Embedding),
		})
	}
	return chunks, nil
}
