package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/fauxios/pkg/model"
	"github.com/m-mizutani/fauxios/pkg/usecase/video"
)

func videoCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, videoFlags(&cfg)...)

	return &cli.Command{
		Name:      "video",
		Usage:     "Assemble a short-form video for an article",
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
			speech, clips, render, err := cfg.newVideoAdapters()
			if err != nil {
				return err
			}

			uc := video.New(repo, storage, speech, clips, render,
				video.WithOutput(c.Root().Writer))

			id := model.ArticleID(c.Args().First())
			if _, err := uc.Assemble(ctx, id); err != nil {
				return goerr.Wrap(err, "failed to assemble video")
			}
			return nil
		},
	}
}
