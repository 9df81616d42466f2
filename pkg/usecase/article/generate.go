package article

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"

	"github.com/m-mizutani/fauxios/pkg/adapter"
	"github.com/m-mizutani/fauxios/pkg/model"
	"github.com/m-mizutani/fauxios/pkg/utils/logging"
)

// Generate runs the full article pipeline: fetch candidates, pick an unused
// one, retrieve historical context, generate and parse the article body,
// generate the cover image, then persist the article and its social crop
// variants. Nothing is persisted if any step before creation fails.
func (u *UseCase) Generate(ctx context.Context) (*model.Article, error) {
	logger := logging.From(ctx)

	candidates, err := u.feed.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("fetched news candidates", "count", len(candidates))

	usedHeadlines, err := u.repo.ListHeadlines(ctx)
	if err != nil {
		return nil, err
	}

	candidate, err := u.selectCandidate(candidates, usedHeadlines)
	if err != nil {
		return nil, err
	}
	logger.Info("selected candidate", "title", candidate.Title)

	// Feed entries without full content get their body scraped from the
	// article page; the description remains the fallback.
	if candidate.Content == "" {
		if err := adapter.BackfillBody(ctx, u.httpClient, candidate); err != nil {
			logger.Warn("failed to backfill candidate body", "link", candidate.Link, "error", err)
		}
	}

	matches, err := u.retriever.FindContext(ctx, candidate.Body())
	if err != nil {
		return nil, err
	}
	logger.Info("found historical context", "source", matches[0].Source, "similarity", matches[0].Similarity)

	now := u.now()
	prompt, err := buildArticlePrompt(candidate, matches, now)
	if err != nil {
		return nil, err
	}

	sp := u.startSpinner("writing article...")
	defer u.stopSpinner(sp)

	resp, err := u.gemini.GenerateContent(ctx, genai.Text(prompt), nil)
	if err != nil {
		return nil, adapter.WrapUpstream(err, "failed to generate article content")
	}

	sections, err := parseGenerated(responseText(resp))
	if err != nil {
		return nil, err
	}

	author, err := u.pickAuthor(ctx)
	if err != nil {
		return nil, err
	}

	article := &model.Article{
		ArticleID:  model.NewArticleID(now),
		Title:      sections.Headline,
		Headline:   candidate.Title,
		AuthorID:   author.AuthorID,
		AuthorName: author.Name,
		Content: model.ArticleContent{
			Hook:         sections.Hook,
			Details:      sections.Details,
			WhyItMatters: sections.WhyItMatters,
		},
		Tweet:          sections.Tweet,
		Topic:          sections.Topic,
		Hashtags:       sections.Hashtags,
		CreatedAt:      now,
		PostedToSocial: model.PostedFalse,
	}

	if sp != nil {
		sp.Suffix = " illustrating cover..."
	}
	imageURL, err := u.generateCoverImage(ctx, article)
	if err != nil {
		return nil, err
	}
	article.ImageURL = imageURL
	u.stopSpinner(sp)

	if err := u.repo.CreateArticle(ctx, article); err != nil {
		return nil, err
	}
	logger.Info("created article", "article_id", article.ArticleID, "title", article.Title)

	if _, err := u.ProcessVariants(ctx, article.ArticleID); err != nil {
		// The article itself is complete; variant generation can be re-run
		// later with the variants operation.
		logger.Warn("failed to process image variants", "article_id", article.ArticleID, "error", err)
	}

	fmt.Fprintf(u.output, "Generated article %s: %s\n", article.ArticleID, article.Title)
	return article, nil
}

// selectCandidate filters out candidates whose original headline was already
// used and picks one of the remainder at random. The dedupe check asks
// whether any stored headline contains the candidate title as a substring,
// matching how headlines have been deduplicated historically.
func (u *UseCase) selectCandidate(candidates []*model.NewsCandidate, usedHeadlines []string) (*model.NewsCandidate, error) {
	var unused []*model.NewsCandidate
	for _, candidate := range candidates {
		used := false
		for _, headline := range usedHeadlines {
			if strings.Contains(headline, candidate.Title) {
				used = true
				break
			}
		}
		if !used {
			unused = append(unused, candidate)
		}
	}

	if len(unused) == 0 {
		return nil, goerr.Wrap(model.ErrExhaustedCandidates, "every fetched candidate was already used",
			goerr.V("fetched", len(candidates)))
	}

	return unused[u.rng.Intn(len(unused))], nil
}

// pickAuthor selects a random author from the seeded reference data,
// narrowed to the configured concept when one is set.
func (u *UseCase) pickAuthor(ctx context.Context) (*model.Author, error) {
	authors, err := u.repo.ListAuthors(ctx, u.authorConcept)
	if err != nil {
		return nil, err
	}
	if len(authors) == 0 {
		return nil, goerr.New("no authors are seeded", goerr.V("concept", u.authorConcept))
	}
	return authors[u.rng.Intn(len(authors))], nil
}

func (u *UseCase) startSpinner(suffix string) *spinner.Spinner {
	if u.noSpinner {
		return nil
	}
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	sp.Suffix = " " + suffix
	sp.Start()
	return sp
}

func (u *UseCase) stopSpinner(sp *spinner.Spinner) {
	if sp != nil && sp.Active() {
		sp.Stop()
	}
}

// responseText concatenates the text parts of a generation response.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}
