package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/fauxios/pkg/utils/logging"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	var logLevel string

	cmd := &cli.Command{
		Name:  "fauxios",
		Usage: "Satirical news generation pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Log level (debug, info, warn, error)",
				Value:       "info",
				Sources:     cli.EnvVars("FAUXIOS_LOG_LEVEL"),
				Destination: &logLevel,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) error {
			logging.SetDefault(logging.New(logLevel, c.Root().ErrWriter))
			return nil
		},
		Commands: []*cli.Command{
			generateCommand(),
			indexCommand(),
			seedAuthorsCommand(),
			postCommand(),
			variantsCommand(),
			videoCommand(),
			listCommand(),
			showCommand(),
			topicsCommand(),
			clearCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		logging.Default().Error("command failed", "error", err)
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
