package adapter

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// Embedding task types. The corpus is embedded as documents, queries as
// queries; both sides must use the same embedding model version, which is a
// deployment precondition rather than a runtime check.
const (
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"
	TaskTypeQuery    = "RETRIEVAL_QUERY"
)

type Gemini interface {
	GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateImage(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error)
	Embedding(ctx context.Context, text, taskType string) ([]float32, error)
	BatchEmbedding(ctx context.Context, texts []string, taskType string) ([][]float32, error)
}

// geminiCallTimeout bounds a single model invocation. Image generation is
// the slowest call and stays well under this in practice.
const geminiCallTimeout = 120 * time.Second

type GeminiClient struct {
	client          *genai.Client
	generativeModel string
	imageModel      string
	embeddingModel  string
	callTimeout     time.Duration
}

type GeminiOption func(*GeminiClient)

func WithGenerativeModel(model string) GeminiOption {
	return func(g *GeminiClient) {
		g.generativeModel = model
	}
}

func WithImageModel(model string) GeminiOption {
	return func(g *GeminiClient) {
		g.imageModel = model
	}
}

func WithEmbeddingModel(model string) GeminiOption {
	return func(g *GeminiClient) {
		g.embeddingModel = model
	}
}

// WithCallTimeout overrides the per-invocation deadline.
func WithCallTimeout(d time.Duration) GeminiOption {
	return func(g *GeminiClient) {
		g.callTimeout = d
	}
}

func NewGemini(ctx context.Context, projectID, location string, opts ...GeminiOption) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	g := &GeminiClient{
		client:          client,
		generativeModel: "gemini-2.5-flash",
		imageModel:      "gemini-2.5-flash-image-preview",
		embeddingModel:  "gemini-embedding-001",
		callTimeout:     geminiCallTimeout,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func (g *GeminiClient) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.generativeModel, contents, config)
	if err != nil {
		return nil, WrapUpstream(err, "failed to generate content")
	}
	return resp, nil
}

// GenerateImage invokes the image-capable model. The response may interleave
// text parts and inline image parts.
func (g *GeminiClient) GenerateImage(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.imageModel, genai.Text(prompt), config)
	if err != nil {
		return nil, WrapUpstream(err, "failed to generate image")
	}
	return resp, nil
}

func (g *GeminiClient) Embedding(ctx context.Context, text, taskType string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	resp, err := g.client.Models.EmbedContent(ctx, g.embeddingModel, genai.Text(text), &genai.EmbedContentConfig{
		TaskType: taskType,
	})
	if err != nil {
		return nil, WrapUpstream(err, "failed to embed content")
	}
	if len(resp.Embeddings) == 0 {
		return nil, goerr.New("embedding response contains no vectors")
	}

	return resp.Embeddings[0].Values, nil
}

// BatchEmbedding embeds multiple texts in a single call and returns vectors
// in input order.
func (g *GeminiClient) BatchEmbedding(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}

	ctx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	resp, err := g.client.Models.EmbedContent(ctx, g.embeddingModel, contents, &genai.EmbedContentConfig{
		TaskType: taskType,
	})
	if err != nil {
		return nil, WrapUpstream(err, "failed to embed batch")
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, goerr.New("embedding count does not match input count",
			goerr.V("want", len(texts)), goerr.V("got", len(resp.Embeddings)))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		vectors[i] = emb.Values
	}
	return vectors, nil
}
