package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	nurl "net/url"

	"github.com/dghubble/oauth1"
	"github.com/m-mizutani/goerr/v2"
)

// SocialPost is one outgoing post: text within the platform limit plus an
// optional image. ImageData is used by platforms that take uploads, ImageURL
// by platforms that fetch the image themselves.
type SocialPost struct {
	Text      string
	ImageURL  string
	ImageData []byte
}

// SocialPoster publishes a post to one platform and returns the
// platform-assigned post identifier.
type SocialPoster interface {
	Name() string
	Post(ctx context.Context, post SocialPost) (string, error)
}

// xPoster posts to X via the v2 tweet endpoint with OAuth1 user-context
// signing. Media goes through the v1.1 upload endpoint first.
type xPoster struct {
	client    *http.Client
	uploadURL string
	tweetURL  string
}

// XCredentials holds the four OAuth1 values of an X app + user token pair.
type XCredentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

type XPosterOption func(*xPoster)

// WithXEndpoints overrides the API endpoints, for tests.
func WithXEndpoints(uploadURL, tweetURL string) XPosterOption {
	return func(p *xPoster) {
		p.uploadURL = uploadURL
		p.tweetURL = tweetURL
	}
}

func NewXPoster(creds XCredentials, opts ...XPosterOption) SocialPoster {
	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)

	p := &xPoster{
		client:    config.Client(oauth1.NoContext, token),
		uploadURL: "https://upload.twitter.com/1.1/media/upload.json",
		tweetURL:  "https://api.twitter.com/2/tweets",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *xPoster) Name() string { return "x" }

func (p *xPoster) Post(ctx context.Context, post SocialPost) (string, error) {
	var mediaID string
	if len(post.ImageData) > 0 {
		id, err := p.uploadMedia(ctx, post.ImageData)
		if err != nil {
			return "", err
		}
		mediaID = id
	}

	payload := map[string]any{"text": post.Text}
	if mediaID != "" {
		payload["media"] = map[string]any{"media_ids": []string{mediaID}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal tweet payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tweetURL, bytes.NewReader(body))
	if err != nil {
		return "", goerr.Wrap(err, "failed to build tweet request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", WrapUpstream(err, "tweet request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", goerr.New("tweet request rejected",
			goerr.V("status", resp.StatusCode), goerr.V("body", string(respBody)))
	}

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", goerr.Wrap(err, "failed to decode tweet response")
	}

	return result.Data.ID, nil
}

func (p *xPoster) uploadMedia(ctx context.Context, data []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("media", "image.png")
	if err != nil {
		return "", goerr.Wrap(err, "failed to create multipart field")
	}
	if _, err := fw.Write(data); err != nil {
		return "", goerr.Wrap(err, "failed to write media payload")
	}
	if err := mw.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.uploadURL, &buf)
	if err != nil {
		return "", goerr.Wrap(err, "failed to build media upload request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return "", WrapUpstream(err, "media upload failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", goerr.New("media upload rejected",
			goerr.V("status", resp.StatusCode), goerr.V("body", string(respBody)))
	}

	var result struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", goerr.Wrap(err, "failed to decode media upload response")
	}

	return result.MediaIDString, nil
}

// facebookPoster posts photos to a Facebook page via the Graph API. The page
// access token is exchanged from the user token on each post; page tokens
// expire with the user session, so caching one is not worth it at a daily
// cadence.
type facebookPoster struct {
	client   *http.Client
	graphURL string

	userID          string
	userAccessToken string
	pageID          string
}

// FacebookCredentials identifies the posting user and target page.
type FacebookCredentials struct {
	UserID          string
	UserAccessToken string
	PageID          string
}

type FacebookPosterOption func(*facebookPoster)

// WithGraphURL overrides the Graph API base URL, for tests.
func WithGraphURL(url string) FacebookPosterOption {
	return func(p *facebookPoster) {
		p.graphURL = url
	}
}

func NewFacebookPoster(creds FacebookCredentials, opts ...FacebookPosterOption) SocialPoster {
	p := &facebookPoster{
		client:          &http.Client{Timeout: feedCallTimeout},
		graphURL:        "https://graph.facebook.com",
		userID:          creds.UserID,
		userAccessToken: creds.UserAccessToken,
		pageID:          creds.PageID,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *facebookPoster) Name() string { return "facebook" }

func (p *facebookPoster) Post(ctx context.Context, post SocialPost) (string, error) {
	pageToken, err := p.pageAccessToken(ctx)
	if err != nil {
		return "", err
	}

	form := nurl.Values{}
	form.Set("message", post.Text)
	form.Set("access_token", pageToken)
	if post.ImageURL != "" {
		form.Set("url", post.ImageURL)
	}

	endpoint := p.graphURL + "/v19.0/" + p.pageID + "/photos"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return "", goerr.Wrap(err, "failed to build facebook post request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", WrapUpstream(err, "facebook post failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", goerr.New("facebook post rejected",
			goerr.V("status", resp.StatusCode), goerr.V("body", string(respBody)))
	}

	var result struct {
		ID     string `json:"id"`
		PostID string `json:"post_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", goerr.Wrap(err, "failed to decode facebook response")
	}
	if result.PostID != "" {
		return result.PostID, nil
	}
	return result.ID, nil
}

func (p *facebookPoster) pageAccessToken(ctx context.Context) (string, error) {
	endpoint := p.graphURL + "/" + p.userID + "/accounts?access_token=" + nurl.QueryEscape(p.userAccessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to build accounts request")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", WrapUpstream(err, "failed to fetch managed pages")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", goerr.New("accounts request rejected", goerr.V("status", resp.StatusCode))
	}

	var result struct {
		Data []struct {
			ID          string `json:"id"`
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", goerr.Wrap(err, "failed to decode accounts response")
	}

	for _, page := range result.Data {
		if page.ID == p.pageID {
			return page.AccessToken, nil
		}
	}

	return "", goerr.New("page not found among managed pages", goerr.V("page_id", p.pageID))
}
