package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// SpeechSynthesizer turns text into voiceover audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// VideoGenerator produces short clips from a text prompt or a still image.
// Both calls block until the generation task settles.
type VideoGenerator interface {
	TextToVideo(ctx context.Context, prompt, ratio string, durationSec int) (string, error)
	ImageToVideo(ctx context.Context, imageDataURI, ratio string) (string, error)
}

// RenderService composes the final timed video from pre-generated assets.
type RenderService interface {
	Render(ctx context.Context, input RenderInput) (string, error)
}

// RenderInput carries the composition properties for one video.
type RenderInput struct {
	Headline        string `json:"headline"`
	Quote           string `json:"quote"`
	Author          string `json:"author"`
	VoiceoverURL    string `json:"voiceoverUrl"`
	AvatarVideoURL  string `json:"avatarVideoUrl"`
	CartoonVideoURL string `json:"animatedCartoonUrl"`
}

// speechClient is a JSON-over-HTTP speech synthesis client.
type speechClient struct {
	endpoint string
	apiKey   string
	voice    string
	client   *http.Client
}

func NewSpeechSynthesizer(endpoint, apiKey, voice string) SpeechSynthesizer {
	return &speechClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		voice:    voice,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *speechClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{
		"text":   text,
		"voice":  s.voice,
		"format": "mp3",
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal speech request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build speech request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, WrapUpstream(err, "speech synthesis failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("speech synthesis rejected", goerr.V("status", resp.StatusCode))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read audio stream")
	}
	if len(audio) == 0 {
		return nil, goerr.New("speech synthesis returned no audio")
	}

	return audio, nil
}

// videoClient drives an asynchronous task-based video generation API: create
// a task, then poll until it settles.
type videoClient struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	pollInterval time.Duration
}

type VideoClientOption func(*videoClient)

// WithPollInterval adjusts task polling, for tests.
func WithPollInterval(d time.Duration) VideoClientOption {
	return func(v *videoClient) {
		v.pollInterval = d
	}
}

func NewVideoGenerator(baseURL, apiKey string, opts ...VideoClientOption) VideoGenerator {
	v := &videoClient{
		baseURL:      baseURL,
		apiKey:       apiKey,
		client:       &http.Client{Timeout: 60 * time.Second},
		pollInterval: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *videoClient) TextToVideo(ctx context.Context, prompt, ratio string, durationSec int) (string, error) {
	taskID, err := v.createTask(ctx, "/v1/text_to_video", map[string]any{
		"promptText": prompt,
		"ratio":      ratio,
		"duration":   durationSec,
	})
	if err != nil {
		return "", err
	}
	return v.waitForOutput(ctx, taskID)
}

func (v *videoClient) ImageToVideo(ctx context.Context, imageDataURI, ratio string) (string, error) {
	taskID, err := v.createTask(ctx, "/v1/image_to_video", map[string]any{
		"promptImage": imageDataURI,
		"ratio":       ratio,
	})
	if err != nil {
		return "", err
	}
	return v.waitForOutput(ctx, taskID)
}

func (v *videoClient) createTask(ctx context.Context, path string, payload map[string]any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal video task")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", goerr.Wrap(err, "failed to build video task request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+v.apiKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return "", WrapUpstream(err, "video task creation failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return "", goerr.New("video task rejected", goerr.V("status", resp.StatusCode))
	}

	var task struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return "", goerr.Wrap(err, "failed to decode video task response")
	}
	if task.ID == "" {
		return "", goerr.New("video task response contains no task ID")
	}

	return task.ID, nil
}

func (v *videoClient) waitForOutput(ctx context.Context, taskID string) (string, error) {
	ticker := time.NewTicker(v.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", WrapUpstream(ctx.Err(), "gave up waiting for video task")
		case <-ticker.C:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/v1/tasks/"+taskID, nil)
		if err != nil {
			return "", goerr.Wrap(err, "failed to build task status request")
		}
		req.Header.Set("Authorization", "Bearer "+v.apiKey)

		resp, err := v.client.Do(req)
		if err != nil {
			return "", WrapUpstream(err, "task status request failed")
		}

		var task struct {
			Status string   `json:"status"`
			Output []string `json:"output"`
		}
		err = json.NewDecoder(resp.Body).Decode(&task)
		resp.Body.Close()
		if err != nil {
			return "", goerr.Wrap(err, "failed to decode task status")
		}

		switch task.Status {
		case "SUCCEEDED":
			if len(task.Output) == 0 || task.Output[0] == "" {
				return "", goerr.New("video task succeeded without output", goerr.V("task_id", taskID))
			}
			return task.Output[0], nil
		case "FAILED", "CANCELLED":
			return "", goerr.New("video task failed", goerr.V("task_id", taskID), goerr.V("status", task.Status))
		}
	}
}

// renderClient invokes the composition/rendering frontend. Rendering is
// asynchronous; the returned render ID is used out-of-band to locate the
// final video.
type renderClient struct {
	endpoint    string
	composition string
	client      *http.Client
}

func NewRenderService(endpoint, composition string) RenderService {
	return &renderClient{
		endpoint:    endpoint,
		composition: composition,
		client:      &http.Client{Timeout: 60 * time.Second},
	}
}

func (r *renderClient) Render(ctx context.Context, input RenderInput) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"composition": r.composition,
		"codec":       "h264",
		"inputProps":  input,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal render request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", goerr.Wrap(err, "failed to build render request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", WrapUpstream(err, "render request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return "", goerr.New("render request rejected", goerr.V("status", resp.StatusCode))
	}

	var result struct {
		RenderID string `json:"renderId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", goerr.Wrap(err, "failed to decode render response")
	}
	if result.RenderID == "" {
		return "", goerr.New("render response contains no render ID")
	}

	return result.RenderID, nil
}
