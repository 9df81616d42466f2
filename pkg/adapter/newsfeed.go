package adapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	nurl "net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/m-mizutani/fauxios/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mmcdole/gofeed"
)

const (
	feedCallTimeout = 30 * time.Second
	maxBodySize     = 5 * 1024 * 1024
	maxCandidateLen = 8000
)

// NewsFeed fetches candidate headlines from an external feed. Only the first
// page of results is consulted.
type NewsFeed interface {
	Fetch(ctx context.Context) ([]*model.NewsCandidate, error)
}

// newsdataFeed implements NewsFeed against the newsdata.io latest-news
// endpoint.
type newsdataFeed struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

type NewsdataOption func(*newsdataFeed)

func WithFeedEndpoint(endpoint string) NewsdataOption {
	return func(f *newsdataFeed) {
		f.endpoint = endpoint
	}
}

func WithFeedHTTPClient(client *http.Client) NewsdataOption {
	return func(f *newsdataFeed) {
		f.client = client
	}
}

func NewNewsdataFeed(apiKey string, opts ...NewsdataOption) NewsFeed {
	f := &newsdataFeed{
		endpoint: "https://newsdata.io/api/1/news",
		apiKey:   apiKey,
		client:   &http.Client{Timeout: feedCallTimeout},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type newsdataResponse struct {
	Results []struct {
		Title       string `json:"title"`
		Content     string `json:"content"`
		Description string `json:"description"`
		Link        string `json:"link"`
	} `json:"results"`
}

func (f *newsdataFeed) Fetch(ctx context.Context) ([]*model.NewsCandidate, error) {
	query := nurl.Values{}
	query.Set("apikey", f.apiKey)
	query.Set("language", "en")
	query.Set("country", "us")
	query.Set("prioritydomain", "top")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build news feed request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, WrapUpstream(err, "news feed request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.Wrap(model.ErrUpstreamFetch, "news feed returned non-OK status",
			goerr.V("status", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read news feed response")
	}

	var data newsdataResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, goerr.Wrap(err, "failed to decode news feed response")
	}

	if len(data.Results) == 0 {
		return nil, goerr.Wrap(model.ErrUpstreamFetch, "news feed returned no results")
	}

	candidates := make([]*model.NewsCandidate, 0, len(data.Results))
	for _, r := range data.Results {
		if r.Title == "" {
			continue
		}
		candidates = append(candidates, &model.NewsCandidate{
			Title:       r.Title,
			Content:     r.Content,
			Description: r.Description,
			Link:        r.Link,
		})
	}
	if len(candidates) == 0 {
		return nil, goerr.Wrap(model.ErrUpstreamFetch, "news feed returned no usable results")
	}

	return candidates, nil
}

// rssFeed implements NewsFeed over an RSS/Atom feed.
type rssFeed struct {
	url    string
	parser *gofeed.Parser
}

func NewRSSFeed(url string) NewsFeed {
	return &rssFeed{
		url:    url,
		parser: gofeed.NewParser(),
	}
}

func (f *rssFeed) Fetch(ctx context.Context) ([]*model.NewsCandidate, error) {
	feed, err := f.parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		return nil, WrapUpstream(err, "failed to parse RSS feed")
	}
	if len(feed.Items) == 0 {
		return nil, goerr.Wrap(model.ErrUpstreamFetch, "RSS feed contains no items")
	}

	candidates := make([]*model.NewsCandidate, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Title == "" {
			continue
		}
		candidates = append(candidates, &model.NewsCandidate{
			Title:       item.Title,
			Content:     item.Content,
			Description: item.Description,
			Link:        item.Link,
		})
	}
	if len(candidates) == 0 {
		return nil, goerr.Wrap(model.ErrUpstreamFetch, "RSS feed contains no usable items")
	}

	return candidates, nil
}

// BackfillBody fills a candidate's missing content by fetching its link and
// extracting the readable article text. Failures leave the candidate as is;
// the description still serves as the body.
func BackfillBody(ctx context.Context, client *http.Client, candidate *model.NewsCandidate) error {
	if candidate.Content != "" || candidate.Link == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, candidate.Link, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to build article request")
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return WrapUpstream(err, "failed to fetch article page")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return goerr.New("article page returned non-OK status",
			goerr.V("status", resp.StatusCode), goerr.V("link", candidate.Link))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return goerr.Wrap(err, "failed to read article page")
	}

	pageURL, _ := nurl.Parse(candidate.Link)
	article, err := readability.FromReader(strings.NewReader(string(body)), pageURL)
	if err != nil {
		return goerr.Wrap(err, "failed to extract readable content")
	}

	text := strings.TrimSpace(article.TextContent)
	if len(text) > maxCandidateLen {
		text = text[:maxCandidateLen]
	}
	candidate.Content = text
	return nil
}
