package article

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/fauxios/pkg/model"
	"github.com/m-mizutani/fauxios/pkg/utils/logging"
)

// Social media crop variants derived from the cover image.
var imageVariants = []struct {
	Name   string
	Width  int
	Height int
}{
	{Name: "social-square", Width: 600, Height: 600},
	{Name: "social-wide", Width: 1200, Height: 628},
}

func variantImageKey(name string, id model.ArticleID) string {
	return fmt.Sprintf("%s-%s.png", name, id)
}

// ProcessVariants generates the social media crop variants for an article's
// cover image and records their URLs on the article. Variants are derived
// from the stored original, so re-running the operation overwrites the same
// keys with identical content and is safe to repeat.
func (u *UseCase) ProcessVariants(ctx context.Context, id model.ArticleID) (map[string]string, error) {
	logger := logging.From(ctx)

	key := articleImageKey(id)
	r, err := u.storage.Get(ctx, key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch cover image", goerr.V("key", key))
	}
	raw, err := io.ReadAll(r)
	_ = r.Close()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read cover image", goerr.V("key", key))
	}

	src, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode cover image", goerr.V("key", key))
	}

	variations := make(map[string]string, len(imageVariants))
	for _, variant := range imageVariants {
		data, err := resizeCover(src, variant.Width, variant.Height)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to resize cover image", goerr.V("variant", variant.Name))
		}

		vKey := variantImageKey(variant.Name, id)
		w, err := u.storage.Put(ctx, vKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open variant object", goerr.V("key", vKey))
		}
		if _, err := w.Write(data); err != nil {
			_ = w.Close()
			return nil, goerr.Wrap(err, "failed to write variant object", goerr.V("key", vKey))
		}
		if err := w.Close(); err != nil {
			return nil, goerr.Wrap(err, "failed to store variant object", goerr.V("key", vKey))
		}

		variations[variant.Name] = u.storage.PublicURL(vKey)
		logger.Info("generated image variant", "article_id", id, "variant", variant.Name)
	}

	if err := u.repo.SetImageVariations(ctx, id, variations); err != nil {
		return nil, err
	}

	return variations, nil
}
