package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/fauxios/pkg/usecase/index"
)

func indexCommand() *cli.Command {
	var (
		cfg       config
		sourceDir string
		noSpinner bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "source-dir",
			Aliases:     []string{"s"},
			Usage:       "Directory of source documents to index",
			Sources:     cli.EnvVars("FAUXIOS_SOURCE_DIR"),
			Destination: &sourceDir,
		},
		&cli.BoolFlag{
			Name:        "no-spinner",
			Usage:       "Disable the progress spinner",
			Destination: &noSpinner,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, geminiFlags(&cfg)...)

	return &cli.Command{
		Name:  "index",
		Usage: "Index the historical source corpus",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if sourceDir == "" {
				return goerr.New("source-dir is required")
			}

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

			opts := []index.Option{index.WithOutput(c.Root().Writer)}
			if noSpinner {
				opts = append(opts, index.WithoutSpinner())
			}

			uc := index.New(repo, gemini, storage, opts...)
			if err := uc.Build(ctx, sourceDir); err != nil {
				return goerr.Wrap(err, "failed to index corpus")
			}
			return nil
		},
	}
}

func seedAuthorsCommand() *cli.Command {
	var (
		cfg      config
		seedFile string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "Path to YAML file of authors",
			Sources:     cli.EnvVars("FAUXIOS_AUTHOR_SEED"),
			Destination: &seedFile,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "seed-authors",
		Usage: "Seed author reference data from a YAML file",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if seedFile == "" {
				return goerr.New("file is required")
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			uc := index.New(repo, nil, nil, index.WithOutput(c.Root().Writer))
			if err := uc.SeedAuthors(ctx, seedFile); err != nil {
				return goerr.Wrap(err, "failed to seed authors")
			}
			return nil
		},
	}
}
