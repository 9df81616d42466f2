package article

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/fauxios/pkg/model"
	"github.com/m-mizutani/fauxios/pkg/utils/logging"
)

const defaultListLimit = 10

// List returns published articles, newest first.
func (u *UseCase) List(ctx context.Context, limit int) ([]*model.Article, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	articles, err := u.repo.ListPostedArticles(ctx, limit)
	if err != nil {
		return nil, err
	}

	for _, a := range articles {
		fmt.Fprintf(u.output, "%s  %-12s  %s\n", a.CreatedAt.Format(time.RFC3339), a.Topic, a.Title)
	}
	return articles, nil
}

// ListByTopic returns articles in one topic category, newest first.
func (u *UseCase) ListByTopic(ctx context.Context, topic string, limit int) ([]*model.Article, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	articles, err := u.repo.ListArticlesByTopic(ctx, topic, limit)
	if err != nil {
		return nil, err
	}

	for _, a := range articles {
		fmt.Fprintf(u.output, "%s  %s\n", a.CreatedAt.Format(time.RFC3339), a.Title)
	}
	return articles, nil
}

// Topics returns the distinct topics of stored articles.
func (u *UseCase) Topics(ctx context.Context) ([]string, error) {
	topics, err := u.repo.ListTopics(ctx)
	if err != nil {
		return nil, err
	}

	for _, topic := range topics {
		fmt.Fprintln(u.output, topic)
	}
	return topics, nil
}

// Show prints one article by ID.
func (u *UseCase) Show(ctx context.Context, id model.ArticleID) (*model.Article, error) {
	a, err := u.repo.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(u.output, "ID:       %s\n", a.ArticleID)
	fmt.Fprintf(u.output, "Title:    %s\n", a.Title)
	fmt.Fprintf(u.output, "Author:   %s\n", a.AuthorName)
	fmt.Fprintf(u.output, "Topic:    %s\n", a.Topic)
	fmt.Fprintf(u.output, "Posted:   %s\n", a.PostedToSocial)
	fmt.Fprintf(u.output, "Created:  %s\n", a.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(u.output, "\n%s\n\n%s\n", a.Content.Hook, a.Content.Details)
	if a.Content.WhyItMatters != "" {
		fmt.Fprintf(u.output, "\nWhy it matters: %s\n", a.Content.WhyItMatters)
	}
	return a, nil
}

// Clear deletes articles created on or before the cutoff. A zero cutoff
// deletes everything.
func (u *UseCase) Clear(ctx context.Context, cutoff time.Time) (int, error) {
	if cutoff.IsZero() {
		cutoff = u.now()
	}

	deleted, err := u.repo.DeleteArticlesBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	logging.From(ctx).Info("cleared articles", "deleted", deleted, "cutoff", cutoff)
	fmt.Fprintf(u.output, "Deleted %d article(s)\n", deleted)
	return deleted, nil
}
