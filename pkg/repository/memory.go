package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/fauxios/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Memory is an in-memory Repository used by tests and local runs.
type Memory struct {
	mu       sync.RWMutex
	articles map[model.ArticleID]*model.Article
	authors  []*model.Author
	chunks   map[string][]*model.EmbeddedChunk
	order    []string // chunk sources in insertion order
}

func NewMemory() *Memory {
	return &Memory{
		articles: map[model.ArticleID]*model.Article{},
		chunks:   map[string][]*model.EmbeddedChunk{},
	}
}

func (m *Memory) CreateArticle(ctx context.Context, article *model.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.articles[article.ArticleID]; ok {
		return goerr.New("article already exists", goerr.V("article_id", article.ArticleID))
	}
	cp := *article
	m.articles[article.ArticleID] = &cp
	return nil
}

func (m *Memory) GetArticle(ctx context.Context, id model.ArticleID) (*model.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	article, ok := m.articles[id]
	if !ok {
		return nil, goerr.New("article not found", goerr.V("article_id", id))
	}
	cp := *article
	return &cp, nil
}

func (m *Memory) ListHeadlines(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var headlines []string
	for _, article := range m.articles {
		if article.Headline != "" {
			headlines = append(headlines, article.Headline)
		}
	}
	return headlines, nil
}

func (m *Memory) sortedArticles(filter func(*model.Article) bool) []*model.Article {
	var out []*model.Article
	for _, article := range m.articles {
		if filter(article) {
			cp := *article
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *Memory) ListPostedArticles(ctx context.Context, limit int) ([]*model.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.sortedArticles(func(a *model.Article) bool { return a.Posted() })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) ListArticlesByTopic(ctx context.Context, topic string, limit int) ([]*model.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.sortedArticles(func(a *model.Article) bool { return a.Topic == topic })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) ListTopics(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := map[string]bool{}
	var topics []string
	for _, article := range m.articles {
		topic := article.Topic
		if topic == "" {
			topic = model.DefaultTopic
		}
		if !seen[topic] {
			seen[topic] = true
			topics = append(topics, topic)
		}
	}
	sort.Strings(topics)
	return topics, nil
}

func (m *Memory) LatestUnposted(ctx context.Context) (*model.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.sortedArticles(func(a *model.Article) bool { return !a.Posted() })
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (m *Memory) SetImageVariations(ctx context.Context, id model.ArticleID, variations map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	article, ok := m.articles[id]
	if !ok {
		return goerr.New("article not found", goerr.V("article_id", id))
	}
	article.ImageVariations = variations
	return nil
}

func (m *Memory) MarkPosted(ctx context.Context, id model.ArticleID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	article, ok := m.articles[id]
	if !ok {
		return goerr.New("article not found", goerr.V("article_id", id))
	}
	article.PostedToSocial = model.PostedTrue
	return nil
}

func (m *Memory) DeleteArticlesBefore(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for id, article := range m.articles {
		if !article.CreatedAt.After(cutoff) {
			delete(m.articles, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *Memory) PutAuthors(ctx context.Context, authors []*model.Author) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, author := range authors {
		cp := *author
		replaced := false
		for i, existing := range m.authors {
			if existing.AuthorID == author.AuthorID {
				m.authors[i] = &cp
				replaced = true
				break
			}
		}
		if !replaced {
			m.authors = append(m.authors, &cp)
		}
	}
	return nil
}

func (m *Memory) ListAuthors(ctx context.Context, concept string) ([]*model.Author, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*model.Author
	for _, author := range m.authors {
		if concept != "" && !strings.EqualFold(author.Concept, concept) {
			continue
		}
		cp := *author
		out = append(out, &cp)
	}
	return out, nil
}

func (m *Memory) ReplaceChunks(ctx context.Context, source string, chunks []*model.EmbeddedChunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.chunks[source]; !ok {
		m.order = append(m.order, source)
	}
	cp := make([]*model.EmbeddedChunk, len(chunks))
	for i, chunk := range chunks {
		c := *chunk
		cp[i] = &c
	}
	m.chunks[source] = cp
	return nil
}

func (m *Memory) ListChunks(ctx context.Context) ([]*model.EmbeddedChunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*model.EmbeddedChunk
	for _, source := range m.order {
		for _, chunk := range m.chunks[source] {
			cp := *chunk
			out = append(out, &cp)
		}
	}
	return out, nil
}
