package api

import (
	"github.com/travigo/lookahead/pkg/store"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the read only timetable web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					s, err := store.Connect()
					if err != nil {
						return err
					}

					return SetupServer(c.String("listen"), s)
				},
			},
		},
	}
}
