package article

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"

	"github.com/m-mizutani/fauxios/pkg/adapter"
	"github.com/m-mizutani/fauxios/pkg/model"
	"github.com/m-mizutani/fauxios/pkg/utils/logging"
)

func articleImageKey(id model.ArticleID) string {
	return fmt.Sprintf("articles/%s.png", id)
}

// buildImagePrompt describes the cover illustration for an article. When the
// source or generated text mentions the sitting president by name, the prompt
// asks for a period caricature instead of a likeness.
func buildImagePrompt(a *model.Article) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "A satirical political cartoon in the style of the American Revolutionary era but colorful, related to a satirical article with the headline: %q. ", a.Title)
	fmt.Fprintf(&sb, "For more context, the article hook is: %q. ", a.Content.Hook)
	sb.WriteString("The image should be absurdly humorous in a subtle way, without text or logos. ")
	sb.WriteString("It should attempt to imagine the real subject or subjects of the news within the dress and settings and conflicts of the past.")

	for _, text := range []string{a.Headline, a.Content.Hook, a.Title} {
		if strings.Contains(strings.ToLower(text), "trump") {
			sb.WriteString(" It should depict the president as a caricature of King George III.")
			break
		}
	}
	return sb.String()
}

// generateCoverImage generates the article's cover illustration, stores the
// original under articles/<id>.png and returns its public URL.
func (u *UseCase) generateCoverImage(ctx context.Context, a *model.Article) (string, error) {
	prompt := buildImagePrompt(a)
	logging.From(ctx).Debug("generating cover image", "article_id", a.ArticleID, "prompt", prompt)

	resp, err := u.gemini.GenerateImage(ctx, prompt)
	if err != nil {
		return "", adapter.WrapUpstream(err, "failed to generate cover image")
	}

	data, err := extractInlineImage(resp)
	if err != nil {
		return "", err
	}

	key := articleImageKey(a.ArticleID)
	w, err := u.storage.Put(ctx, key)
	if err != nil {
		return "", goerr.Wrap(err, "failed to open image object", goerr.V("key", key))
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to write image object", goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to store image object", goerr.V("key", key))
	}

	return u.storage.PublicURL(key), nil
}

// extractInlineImage finds the first inline image part in a generation
// response. The model may interleave text parts before the image, so every
// part is inspected rather than assuming a fixed position.
func extractInlineImage(resp *genai.GenerateContentResponse) ([]byte, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, goerr.Wrap(model.ErrEmptyImage, "image response has no candidates")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}
	return nil, goerr.Wrap(model.ErrEmptyImage, "image response contains no inline image part")
}

// resizeCover produces a fill-cropped variant of the cover image.
func resizeCover(src image.Image, width, height int) ([]byte, error) {
	resized := imaging.Fill(src, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, goerr.Wrap(err, "failed to encode resized image")
	}
	return buf.Bytes(), nil
}
