package routegenerator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/travigo/lookahead/pkg/config"
	"github.com/travigo/lookahead/pkg/redis_client"
	"github.com/travigo/lookahead/pkg/roadgraph"
	"github.com/travigo/lookahead/pkg/store"
	"github.com/urfave/cli/v2"
)

// NewConfiguredClient returns a client for the configured route service, caching answers in redis when available
func NewConfiguredClient(cfg *config.Config) *Client {
	client := NewClient(cfg.RouteGeneratorURL(), cfg.RouteRequestTimeout)

	if redis_client.Client != nil {
		client.Cache = NewResponseCache(redis_client.Client, ResponseCacheExpiration(cfg.EdgesRefreshPeriod))
	}

	return client
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "route-generator",
		Usage: "Road graph route service",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the route service with periodic edge refresh",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "listen target for the web server, defaults to the configured route generator port",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					s, err := store.Connect()
					if err != nil {
						return err
					}

					ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
					defer stop()

					graph, err := LoadGraph(ctx, s)
					if err != nil {
						return err
					}
					graph.StandardSpeed = cfg.StandardSpeed

					router := NewRouter(graph)

					refresher := &EdgesRefresher{
						Router:       router,
						Source:       s,
						Period:       cfg.EdgesRefreshPeriod,
						MaxOperation: cfg.EdgesRefreshMaxOperation,
					}
					go refresher.Run(ctx)

					webApp := SetupServer(router, cfg.RouteRequestTimeout)
					go func() {
						<-ctx.Done()
						if err := webApp.Shutdown(); err != nil {
							log.Error().Err(err).Msg("Shutting down route service")
						}
					}()

					listen := c.String("listen")
					if listen == "" {
						listen = cfg.RouteGeneratorListen()
					}

					log.Info().Str("listen", listen).Msg("Starting route service")
					return webApp.Listen(listen)
				},
			},
			{
				Name:  "route",
				Usage: "ask the running route service for the route between bus stops",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "stop",
						Usage:    "bus stop name, repeat for every stop in order",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "waypoints",
						Usage: "return every candidate path instead of the fastest",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					client := NewClient(cfg.RouteGeneratorURL(), cfg.RouteRequestTimeout)
					names := c.StringSlice("stop")

					var result interface{}
					if c.Bool("waypoints") {
						result, err = client.WaypointsBetweenMultipleBusStops(c.Context, names)
					} else {
						busStops := make([]roadgraph.BusStop, 0, len(names))
						for _, name := range names {
							busStops = append(busStops, roadgraph.BusStop{Name: name})
						}
						result, err = client.RouteBetweenMultipleBusStops(c.Context, busStops)
					}
					if err != nil {
						return err
					}

					encoder := json.NewEncoder(os.Stdout)
					encoder.SetIndent("", "  ")
					if err := encoder.Encode(result); err != nil {
						return fmt.Errorf("writing result: %w", err)
					}

					return nil
				},
			},
		},
	}
}
