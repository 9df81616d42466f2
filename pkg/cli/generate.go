package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/fauxios/pkg/usecase/article"
)

func generateCommand() *cli.Command {
	var (
		cfg           config
		authorConcept string
		noSpinner     bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "author-concept",
			Usage:       "Restrict author selection to one concept category",
			Sources:     cli.EnvVars("FAUXIOS_AUTHOR_CONCEPT"),
			Destination: &authorConcept,
		},
		&cli.BoolFlag{
			Name:        "no-spinner",
			Usage:       "Disable the progress spinner",
			Destination: &noSpinner,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, geminiFlags(&cfg)...)
	flags = append(flags, feedFlags(&cfg)...)

	return &cli.Command{
		Name:  "generate",
		Usage: "Generate one satirical article from current headlines",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}
			storage, err := cfg.newStorage(ctx)
			if err != nil {
				return err
			}
			feed, err := cfg.newFeed()
			if err != nil {
				return err
			}
			retriever, err := cfg.newRetriever(ctx, gemini, storage)
			if err != nil {
				return err
			}

			opts := []article.Option{
				article.WithOutput(c.Root().Writer),
				article.WithAuthorConcept(authorConcept),
			}
			if noSpinner {
				opts = append(opts, article.WithoutSpinner())
			}
			uc := article.New(repo, gemini, feed, storage, retriever, opts...)

			if _, err := uc.Generate(ctx); err != nil {
				return goerr.Wrap(err, "failed to generate article")
			}
			return nil
		},
	}
}
