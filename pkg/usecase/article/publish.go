package article

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/fauxios/pkg/adapter"
	"github.com/m-mizutani/fauxios/pkg/model"
	"github.com/m-mizutani/fauxios/pkg/utils/logging"
)

// Publish posts an article to every configured social platform and marks it
// as posted. When id is empty, the newest unposted article is chosen. A
// single platform failure is logged and does not block the others; the
// article is marked posted once at least one platform accepted it.
func (u *UseCase) Publish(ctx context.Context, id model.ArticleID) (*model.Article, error) {
	logger := logging.From(ctx)

	var target *model.Article
	var err error
	if id != "" {
		target, err = u.repo.GetArticle(ctx, id)
	} else {
		target, err = u.repo.LatestUnposted(ctx)
	}
	if err != nil {
		return nil, err
	}
	if target == nil {
		fmt.Fprintln(u.output, "No unposted article found.")
		return nil, nil
	}
	if target.Posted() {
		logger.Info("article is already posted, skipping", "article_id", target.ArticleID)
		return target, nil
	}

	if len(u.posters) == 0 {
		return nil, goerr.New("no social platforms are configured")
	}

	post := adapter.SocialPost{
		Text:     target.SocialText(u.siteURL),
		ImageURL: target.ImageURL,
	}
	if wideURL, ok := target.ImageVariations["social-wide"]; ok {
		post.ImageURL = wideURL
	}

	// X needs the raw bytes for its media upload endpoint. A missing variant
	// only costs the attached image, not the post.
	if squareURL, ok := target.ImageVariations["social-square"]; ok {
		data, err := u.fetchStoredImage(ctx, squareURL)
		if err != nil {
			logger.Warn("failed to fetch post image, posting without media", "url", squareURL, "error", err)
		} else {
			post.ImageData = data
		}
	}

	posted := 0
	for _, poster := range u.posters {
		postID, err := poster.Post(ctx, post)
		if err != nil {
			logger.Error("failed to post article", "platform", poster.Name(), "article_id", target.ArticleID, "error", err)
			continue
		}
		posted++
		logger.Info("posted article", "platform", poster.Name(), "article_id", target.ArticleID, "post_id", postID)
	}

	if posted == 0 {
		return nil, goerr.New("every social platform rejected the post", goerr.V("article_id", target.ArticleID))
	}

	if err := u.repo.MarkPosted(ctx, target.ArticleID); err != nil {
		return nil, err
	}
	target.PostedToSocial = model.PostedTrue

	fmt.Fprintf(u.output, "Posted article %s to %d platform(s)\n", target.ArticleID, posted)
	return target, nil
}

// fetchStoredImage resolves a public object URL back to its storage key and
// reads the object.
func (u *UseCase) fetchStoredImage(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid image URL", goerr.V("url", rawURL))
	}

	// Object key is the path minus the leading slash and bucket segment.
	path := strings.TrimPrefix(parsed.Path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[i+1:]
	}

	r, err := u.storage.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}
