package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/fauxios/pkg/model"
	"github.com/m-mizutani/fauxios/pkg/usecase/article"
)

func postCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, socialFlags(&cfg)...)

	return &cli.Command{
		Name:      "post",
		Usage:     "Post an article to social platforms",
		ArgsUsage: "[article-id]",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			storage, err := cfg.newStorage(ctx)
			if err != nil {
				return err
			}

			posters := cfg.newPosters()
			if len(posters) == 0 {
				return goerr.New("no social platform credentials are configured")
			}

			uc := article.New(repo, nil, nil, storage, nil,
				article.WithOutput(c.Root().Writer),
				article.WithPosters(posters...),
				article.WithSiteURL(cfg.siteURL))

			id := model.ArticleID(c.Args().First())
			if _, err := uc.Publish(ctx, id); err != nil {
				return goerr.Wrap(err, "failed to post article")
			}
			return nil
		},
	}
}

func variantsCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "variants",
		Usage:     "Regenerate social media image variants for an article",
		ArgsUsage: "<article-id>",
		Flags:     globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			id := model.ArticleID(c.Args().First())
			if id == "" {
				return goerr.New("article-id is required")
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			storage, err := cfg.newStorage(ctx)
			if err != nil {
				return err
			}

			uc := article.New(repo, nil, nil, storage, nil,
				article.WithOutput(c.Root().Writer))

			if _, err := uc.ProcessVariants(ctx, id); err != nil {
				return goerr.Wrap(err, "failed to process image variants")
			}
			return nil
		},
	}
}
