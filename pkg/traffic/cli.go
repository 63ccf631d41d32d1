package traffic

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/lookahead/pkg/store"
	"github.com/travigo/lookahead/pkg/util"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "traffic",
		Usage: "Traffic density simulation and traffic event parsing",
		Subcommands: []*cli.Command{
			{
				Name:  "simulate",
				Usage: "periodically set random traffic densities on a share of the edges",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "fraction", Value: 0.1, Usage: "share of edges updated on every run"},
					&cli.Float64Flag{Name: "max-density", Value: 0.9},
					&cli.Int64Flag{Name: "seed", Usage: "random seed, defaults to the current time"},
					&cli.DurationFlag{Name: "period", Value: 100 * time.Second},
					&cli.DurationFlag{Name: "max-operation", Value: 600 * time.Second},
				},
				Action: func(c *cli.Context) error {
					s, err := store.Connect()
					if err != nil {
						return err
					}

					seed := c.Int64("seed")
					if !c.IsSet("seed") {
						seed = time.Now().UnixNano()
					}

					simulator := NewSimulator(s, seed)
					simulator.Fraction = c.Float64("fraction")
					simulator.MaximumDensity = c.Float64("max-density")

					ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
					defer stop()

					util.RunPeriodically(ctx, "traffic-simulator", c.Duration("period"), c.Duration("max-operation"), func(ctx context.Context) error {
						_, err := simulator.GenerateRandomTraffic(ctx)
						return err
					})

					return nil
				},
			},
			{
				Name:  "congest",
				Usage: "set the traffic density along one stored alternative between two bus stops",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Required: true},
					&cli.StringFlag{Name: "to", Required: true},
					&cli.IntFlag{Name: "waypoints-index"},
					&cli.Float64Flag{Name: "density", Value: 0.8},
				},
				Action: func(c *cli.Context) error {
					s, err := store.Connect()
					if err != nil {
						return err
					}

					simulator := NewSimulator(s, time.Now().UnixNano())
					return simulator.GenerateTrafficBetweenBusStops(c.Context, c.String("from"), c.String("to"), c.Int("waypoints-index"), c.Float64("density"))
				},
			},
			{
				Name:  "clear",
				Usage: "reset every edge to free flow",
				Action: func(c *cli.Context) error {
					s, err := store.Connect()
					if err != nil {
						return err
					}

					cleared, err := NewSimulator(s, 0).ClearTrafficDensity(c.Context)
					log.Info().Int("edges", cleared).Msg("Cleared traffic density")

					return err
				},
			},
			{
				Name:  "parse-events",
				Usage: "periodically apply recent traffic events to their nearest edges",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "since", Value: time.Hour, Usage: "age of the oldest event applied"},
					&cli.DurationFlag{Name: "period", Value: 100 * time.Second},
					&cli.DurationFlag{Name: "max-operation", Value: 600 * time.Second},
				},
				Action: func(c *cli.Context) error {
					s, err := store.Connect()
					if err != nil {
						return err
					}

					parser := &Parser{Repository: s}

					ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
					defer stop()

					util.RunPeriodically(ctx, "traffic-parser", c.Duration("period"), c.Duration("max-operation"), func(ctx context.Context) error {
						now := time.Now()
						updated, err := parser.UpdateTrafficData(ctx, now.Add(-c.Duration("since")), now)
						log.Info().Int("edges", updated).Msg("Updated traffic data")

						return err
					})

					return nil
				},
			},
		},
	}
}
