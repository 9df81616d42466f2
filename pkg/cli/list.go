package cli

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/fauxios/pkg/model"
	"github.com/m-mizutani/fauxios/pkg/usecase/article"
)

func newReadUseCase(ctx context.Context, cfg *config, c *cli.Command) (*article.UseCase, error) {
	repo, err := cfg.newRepository(ctx)
	if err != nil {
		return nil, err
	}
	return article.New(repo, nil, nil, nil, nil, article.WithOutput(c.Root().Writer)), nil
}

func listCommand() *cli.Command {
	var (
		cfg   config
		topic string
		limit int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "topic",
			Aliases:     []string{"t"},
			Usage:       "Filter by topic",
			Destination: &topic,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"n"},
			Usage:       "Maximum number of articles",
			Value:       10,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List published articles",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := newReadUseCase(ctx, &cfg, c)
			if err != nil {
				return err
			}

			if topic != "" {
				_, err = uc.ListByTopic(ctx, topic, int(limit))
			} else {
				_, err = uc.List(ctx, int(limit))
			}
			return err
		},
	}
}

func showCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "show",
		Usage:     "Show one article",
		ArgsUsage: "<article-id>",
		Flags:     globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			id := model.ArticleID(c.Args().First())
			if id == "" {
				return goerr.New("article-id is required")
			}

			uc, err := newReadUseCase(ctx, &cfg, c)
			if err != nil {
				return err
			}

			_, err = uc.Show(ctx, id)
			return err
		},
	}
}

func topicsCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "topics",
		Usage: "List distinct article topics",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := newReadUseCase(ctx, &cfg, c)
			if err != nil {
				return err
			}

			_, err = uc.Topics(ctx)
			return err
		},
	}
}

func clearCommand() *cli.Command {
	var (
		cfg    config
		before string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "before",
			Usage:       "Delete articles created on or before this RFC3339 time (default: all)",
			Destination: &before,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "clear",
		Usage: "Delete stored articles",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			var cutoff time.Time
			if before != "" {
				var err error
				cutoff, err = time.Parse(time.RFC3339, before)
				if err != nil {
					return goerr.Wrap(err, "invalid before timestamp", goerr.V("before", before))
				}
			}

			uc, err := newReadUseCase(ctx, &cfg, c)
			if err != nil {
				return err
			}

			_, err = uc.Clear(ctx, cutoff)
			return err
		},
	}
}
