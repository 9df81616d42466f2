package article

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"google.golang.org/genai"

	"github.com/m-mizutani/fauxios/pkg/adapter"
	"github.com/m-mizutani/fauxios/pkg/model"
	"github.com/m-mizutani/fauxios/pkg/repository"
	"github.com/m-mizutani/fauxios/pkg/service/corpus"
)

// Mock Gemini
type mockGemini struct {
	textResponse string
	textErr      error
	imageData    []byte
	imageCalls   int
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

func (m *mockGemini) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if m.textErr != nil {
		return nil, m.textErr
	}
	return textResponse(m.textResponse), nil
}

func (m *mockGemini) GenerateImage(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
	m.imageCalls++
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{
				{Text: "here is your image"},
				{InlineData: &genai.Blob{MIMEType: "image/png", Data: m.imageData}},
			}}},
		},
	}, nil
}

func (m *mockGemini) Embedding(ctx context.Context, text, taskType string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (m *mockGemini) BatchEmbedding(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i := range vecs {
		vecs[i] = []float32{1, 0, 0}
	}
	return vecs, nil
}

// Mock NewsFeed
type mockFeed struct {
	candidates []*model.NewsCandidate
	err        error
}

func (m *mockFeed) Fetch(ctx context.Context) ([]*model.NewsCandidate, error) {
	return m.candidates, m.err
}

// Mock Storage
type mockStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMockStorage() *mockStorage {
	return &mockStorage{objects: make(map[string][]byte)}
}

type mockObjectWriter struct {
	buf     bytes.Buffer
	key     string
	storage *mockStorage
}

func (w *mockObjectWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *mockObjectWriter) Close() error {
	w.storage.mu.Lock()
	defer w.storage.mu.Unlock()
	w.storage.objects[w.key] = w.buf.Bytes()
	return nil
}

func (m *mockStorage) Put(ctx context.Context, key string) (io.WriteCloser, error) {
	return &mockObjectWriter{key: key, storage: m}, nil
}

func (m *mockStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, errors.New("object not found: " + key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockStorage) PublicURL(key string) string {
	return "https://storage.googleapis.com/test-bucket/" + key
}

// Mock SocialPoster
type mockPoster struct {
	name  string
	err   error
	posts []adapter.SocialPost
}

func (m *mockPoster) Name() string { return m.name }

func (m *mockPoster) Post(ctx context.Context, post adapter.SocialPost) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.posts = append(m.posts, post)
	return "post-1", nil
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	gt.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

const validResponse = "Headline:\nThe Intolerable Act of Tuesday\nHook:\nA hook sentence of adequate length for the reader.\nTweet:\nShort and punchy.\nDetails:\n- detail one\n- detail two\nWhy it Matters:\nIt matters greatly.\nTopic:\nPolitics\nHashtags:\nliberty, history\n"

func testChunks() []*model.EmbeddedChunk {
	return []*model.EmbeddedChunk{
		{Source: "federalist.txt", Content: "an old grievance", Embedding: []float32{1, 0, 0}},
	}
}

func seedAuthors(t *testing.T, repo repository.Repository) {
	t.Helper()
	gt.NoError(t, repo.PutAuthors(context.Background(), []*model.Author{
		{AuthorID: "author-1", Name: "Prudence Hall", Concept: "colonial"},
	}))
}

func newTestUseCase(t *testing.T, gemini *mockGemini, feed *mockFeed) (*UseCase, *repository.Memory, *mockStorage) {
	t.Helper()
	repo := repository.NewMemory()
	seedAuthors(t, repo)
	storage := newMockStorage()
	retriever := corpus.NewRetriever(gemini, testChunks())

	uc := New(repo, gemini, feed, storage, retriever,
		WithRand(rand.New(rand.NewSource(42))),
		WithOutput(io.Discard),
		WithClock(func() time.Time { return time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC) }),
		WithoutSpinner(),
	)
	return uc, repo, storage
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	gemini := &mockGemini{textResponse: validResponse, imageData: testPNG(t)}
	feed := &mockFeed{candidates: []*model.NewsCandidate{
		{Title: "Senate Passes Budget", Content: "The senate passed a budget today."},
	}}

	uc, repo, storage := newTestUseCase(t, gemini, feed)

	created, err := uc.Generate(ctx)
	gt.NoError(t, err)
	gt.V(t, created).NotNil()
	gt.Equal(t, created.Title, "The Intolerable Act of Tuesday")
	gt.Equal(t, created.Headline, "Senate Passes Budget")
	gt.Equal(t, created.Topic, "Politics")
	gt.Equal(t, created.Hashtags, []string{"liberty", "history"})
	gt.Equal(t, created.PostedToSocial, model.PostedFalse)
	gt.Equal(t, created.AuthorID, "author-1")

	stored, err := repo.GetArticle(ctx, created.ArticleID)
	gt.NoError(t, err)
	gt.S(t, stored.ImageURL).Contains("articles/" + created.ArticleID.String() + ".png")

	// Cover image and both social variants are in storage.
	_, err = storage.Get(ctx, "articles/"+created.ArticleID.String()+".png")
	gt.NoError(t, err)
	_, err = storage.Get(ctx, "social-square-"+created.ArticleID.String()+".png")
	gt.NoError(t, err)
	_, err = storage.Get(ctx, "social-wide-"+created.ArticleID.String()+".png")
	gt.NoError(t, err)

	gt.Equal(t, len(stored.ImageVariations), 2)
}

func TestGenerateMissingHookAbortsBeforeImage(t *testing.T) {
	ctx := context.Background()
	gemini := &mockGemini{
		textResponse: "Headline:\nA\nDetails:\n- x\n",
		imageData:    testPNG(t),
	}
	feed := &mockFeed{candidates: []*model.NewsCandidate{{Title: "Some News", Content: "body"}}}

	uc, repo, _ := newTestUseCase(t, gemini, feed)

	_, err := uc.Generate(ctx)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrIncompleteGeneration))

	// No image generated, no article persisted.
	gt.Equal(t, gemini.imageCalls, 0)
	headlines, err := repo.ListHeadlines(ctx)
	gt.NoError(t, err)
	gt.A(t, headlines).Length(0)
}

func TestGenerateContentTimeout(t *testing.T) {
	ctx := context.Background()
	gemini := &mockGemini{textErr: context.DeadlineExceeded, imageData: testPNG(t)}
	feed := &mockFeed{candidates: []*model.NewsCandidate{{Title: "Some News", Content: "body"}}}

	uc, repo, _ := newTestUseCase(t, gemini, feed)

	_, err := uc.Generate(ctx)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrUpstreamTimeout))

	// No image generated, no article persisted.
	gt.Equal(t, gemini.imageCalls, 0)
	headlines, err := repo.ListHeadlines(ctx)
	gt.NoError(t, err)
	gt.A(t, headlines).Length(0)
}

func TestGenerateEmptyCorpus(t *testing.T) {
	ctx := context.Background()
	gemini := &mockGemini{textResponse: validResponse, imageData: testPNG(t)}
	feed := &mockFeed{candidates: []*model.NewsCandidate{{Title: "Some News", Content: "body"}}}

	repo := repository.NewMemory()
	seedAuthors(t, repo)
	uc := New(repo, gemini, feed, newMockStorage(), corpus.NewRetriever(gemini, nil),
		WithRand(rand.New(rand.NewSource(1))), WithOutput(io.Discard), WithoutSpinner())

	_, err := uc.Generate(ctx)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrNoContextFound))
	gt.Equal(t, gemini.imageCalls, 0)
}

func TestGenerateExhaustedCandidates(t *testing.T) {
	ctx := context.Background()
	gemini := &mockGemini{textResponse: validResponse, imageData: testPNG(t)}
	feed := &mockFeed{candidates: []*model.NewsCandidate{
		{Title: "Senate Passes Budget", Content: "body"},
	}}

	uc, repo, _ := newTestUseCase(t, gemini, feed)

	// First run uses the only candidate.
	_, err := uc.Generate(ctx)
	gt.NoError(t, err)

	// Second run finds nothing new.
	_, err = uc.Generate(ctx)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrExhaustedCandidates))

	headlines, err := repo.ListHeadlines(ctx)
	gt.NoError(t, err)
	gt.A(t, headlines).Length(1)
}

func TestSelectCandidateSubstringDedupe(t *testing.T) {
	uc := &UseCase{rng: rand.New(rand.NewSource(7))}

	candidates := []*model.NewsCandidate{
		{Title: "Budget"},
		{Title: "Entirely Fresh Story"},
	}
	// "Budget" is a substring of a used headline, so it is filtered even
	// though it was never used verbatim.
	used := []string{"Senate Passes Budget Deal"}

	got, err := uc.selectCandidate(candidates, used)
	gt.NoError(t, err)
	gt.Equal(t, got.Title, "Entirely Fresh Story")
}

func TestPublish(t *testing.T) {
	ctx := context.Background()
	gemini := &mockGemini{textResponse: validResponse, imageData: testPNG(t)}
	feed := &mockFeed{candidates: []*model.NewsCandidate{{Title: "Senate Passes Budget", Content: "body"}}}

	uc, repo, _ := newTestUseCase(t, gemini, feed)
	created, err := uc.Generate(ctx)
	gt.NoError(t, err)

	x := &mockPoster{name: "x"}
	fb := &mockPoster{name: "facebook", err: errors.New("token expired")}
	WithPosters(x, fb)(uc)
	WithSiteURL("https://www.fauxios.com")(uc)

	posted, err := uc.Publish(ctx, "")
	gt.NoError(t, err)
	gt.Equal(t, posted.ArticleID, created.ArticleID)

	gt.A(t, x.posts).Length(1)
	gt.S(t, x.posts[0].Text).
		Contains(created.Title).
		Contains("https://www.fauxios.com/articles/" + created.ArticleID.String()).
		Contains("#liberty")
	gt.A(t, x.posts[0].ImageData).Longer(0)

	stored, err := repo.GetArticle(ctx, created.ArticleID)
	gt.NoError(t, err)
	gt.True(t, stored.Posted())

	// Nothing left to publish.
	again, err := uc.Publish(ctx, "")
	gt.NoError(t, err)
	gt.V(t, again).Nil()
}
