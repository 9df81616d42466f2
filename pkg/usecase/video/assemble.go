package video

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/m-mizutani/fauxios/pkg/adapter"
	"github.com/m-mizutani/fauxios/pkg/model"
	"github.com/m-mizutani/fauxios/pkg/utils/logging"
)

const (
	avatarRatio     = "1080:1920"
	avatarDuration  = 8
	cartoonRatio    = "720:1280"
	voiceoverPrefix = "voiceovers"
	avatarPrefix    = "avatars"
	cartoonPrefix   = "cartoons"
)

// Assemble produces a short-form video for an article. The three asset
// generations (voiceover audio, speaking avatar clip, animated cartoon clip)
// run concurrently; the final composition render starts only after all three
// succeed. When id is empty the newest unposted article is used.
func (u *UseCase) Assemble(ctx context.Context, id model.ArticleID) (string, error) {
	logger := logging.From(ctx)

	var target *model.Article
	var err error
	if id != "" {
		target, err = u.repo.GetArticle(ctx, id)
	} else {
		target, err = u.repo.LatestUnposted(ctx)
	}
	if err != nil {
		return "", err
	}
	if target == nil {
		return "", goerr.New("no article available for video assembly")
	}

	quote := target.Content.Hook

	var voiceoverURL, avatarURL, cartoonURL string
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		url, err := u.generateVoiceover(egCtx, target.Title)
		if err != nil {
			return goerr.Wrap(err, "failed to generate voiceover")
		}
		voiceoverURL = url
		return nil
	})

	eg.Go(func() error {
		url, err := u.generateAvatar(egCtx, quote, target.AuthorName)
		if err != nil {
			return goerr.Wrap(err, "failed to generate avatar clip")
		}
		avatarURL = url
		return nil
	})

	eg.Go(func() error {
		url, err := u.animateCartoon(egCtx, target.ImageURL)
		if err != nil {
			return goerr.Wrap(err, "failed to animate cartoon")
		}
		cartoonURL = url
		return nil
	})

	if err := eg.Wait(); err != nil {
		return "", err
	}
	logger.Info("generated video assets", "article_id", target.ArticleID)

	renderID, err := u.render.Render(ctx, adapter.RenderInput{
		Headline:        target.Title,
		Quote:           quote,
		Author:          target.AuthorName,
		VoiceoverURL:    voiceoverURL,
		AvatarVideoURL:  avatarURL,
		CartoonVideoURL: cartoonURL,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to start composition render")
	}

	logger.Info("started video render", "article_id", target.ArticleID, "render_id", renderID)
	fmt.Fprintf(u.output, "Render %s started for article %s\n", renderID, target.ArticleID)
	return renderID, nil
}

// generateVoiceover synthesizes the headline and stores the audio asset.
func (u *UseCase) generateVoiceover(ctx context.Context, headline string) (string, error) {
	audio, err := u.speech.Synthesize(ctx, headline)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s.mp3", voiceoverPrefix, uuid.NewString())
	if err := u.putObject(ctx, key, audio); err != nil {
		return "", err
	}
	return u.storage.PublicURL(key), nil
}

// generateAvatar produces a portrait clip of the author speaking the quote.
func (u *UseCase) generateAvatar(ctx context.Context, quote, author string) (string, error) {
	prompt := fmt.Sprintf("An authentic, classic portrait of %s, speaking the words: %q. The avatar should look realistic, like a historical painting brought to life.", author, quote)

	clipURL, err := u.clips.TextToVideo(ctx, prompt, avatarRatio, avatarDuration)
	if err != nil {
		return "", err
	}

	return u.copyClip(ctx, clipURL, avatarPrefix)
}

// animateCartoon animates the article's cover illustration.
func (u *UseCase) animateCartoon(ctx context.Context, imageURL string) (string, error) {
	imageData, err := u.httpGet(imageURL)
	if err != nil {
		return "", goerr.Wrap(err, "failed to fetch cover image", goerr.V("url", imageURL))
	}
	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(imageData)

	clipURL, err := u.clips.ImageToVideo(ctx, dataURI, cartoonRatio)
	if err != nil {
		return "", err
	}

	return u.copyClip(ctx, clipURL, cartoonPrefix)
}

// copyClip downloads a generated clip and re-hosts it in our own storage so
// the render does not depend on the generator's short-lived URLs.
func (u *UseCase) copyClip(ctx context.Context, clipURL, prefix string) (string, error) {
	data, err := u.httpGet(clipURL)
	if err != nil {
		return "", goerr.Wrap(err, "failed to fetch generated clip", goerr.V("url", clipURL))
	}

	key := fmt.Sprintf("%s/%s.mp4", prefix, uuid.NewString())
	if err := u.putObject(ctx, key, data); err != nil {
		return "", err
	}
	return u.storage.PublicURL(key), nil
}

func (u *UseCase) putObject(ctx context.Context, key string, data []byte) error {
	w, err := u.storage.Put(ctx, key)
	if err != nil {
		return goerr.Wrap(err, "failed to open asset object", goerr.V("key", key))
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write asset object", goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to store asset object", goerr.V("key", key))
	}
	return nil
}

func fetchURL(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch asset", goerr.V("url", url))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status fetching asset",
			goerr.V("url", url), goerr.V("status", resp.StatusCode))
	}
	return io.ReadAll(resp.Body)
}
