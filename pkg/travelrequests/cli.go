package travelrequests

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/lookahead/pkg/consumer"
	"github.com/travigo/lookahead/pkg/redis_client"
	"github.com/travigo/lookahead/pkg/store"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "travel-requests",
		Usage: "Simulated travel requests and the travel request intake queue",
		Subcommands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "generate random travel requests for a bus line",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "line", Required: true},
					&cli.IntFlag{Name: "count", Value: 100},
					&cli.StringFlag{Name: "date", Usage: "day of the requests as YYYY-MM-DD, defaults to today"},
					&cli.StringFlag{Name: "hourly-weights", Usage: "24 comma separated weights of the departure hours"},
					&cli.Int64Flag{Name: "seed", Usage: "random seed, defaults to the current time"},
					&cli.BoolFlag{Name: "publish", Usage: "push the requests onto the intake queue instead of storing them"},
				},
				Action: func(c *cli.Context) error {
					s, err := store.Connect()
					if err != nil {
						return err
					}

					busLine, err := s.FindBusLine(c.Context, c.Int("line"))
					if err != nil {
						return err
					}

					day := time.Now()
					if c.String("date") != "" {
						day, err = time.ParseInLocation(time.DateOnly, c.String("date"), time.Local)
						if err != nil {
							return err
						}
					}

					seed := c.Int64("seed")
					if !c.IsSet("seed") {
						seed = time.Now().UnixNano()
					}

					simulator := NewSimulator(seed)
					simulator.HourlyWeights, err = ParseHourlyWeights(c.String("hourly-weights"))
					if err != nil {
						return err
					}

					maxClientID, err := s.MaxTravelRequestClientID(c.Context)
					if err != nil {
						return err
					}

					travelRequests, err := simulator.GenerateTravelRequests(busLine, day, c.Int("count"), maxClientID+1)
					if err != nil {
						return err
					}

					if c.Bool("publish") {
						if err := redis_client.Connect(true); err != nil {
							return err
						}

						queue, err := redis_client.QueueConnection.OpenQueue(QueueName)
						if err != nil {
							return err
						}

						publisher := &Publisher{Queue: queue}
						if err := publisher.Publish(travelRequests); err != nil {
							return err
						}
					} else if err := s.InsertTravelRequests(c.Context, travelRequests); err != nil {
						return err
					}

					log.Info().
						Int("line", busLine.LineID).
						Int("travel_requests", len(travelRequests)).
						Bool("published", c.Bool("publish")).
						Msg("Generated travel requests")

					return nil
				},
			},
			{
				Name:  "consume",
				Usage: "store travel requests arriving on the intake queue",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "consumers", Value: 2},
					&cli.IntFlag{Name: "batch-size", Value: 100},
					&cli.StringFlag{Name: "stats-listen", Value: ":3333"},
				},
				Action: func(c *cli.Context) error {
					s, err := store.Connect()
					if err != nil {
						return err
					}
					if err := redis_client.Connect(true); err != nil {
						return err
					}

					redisConsumer := &consumer.RedisConsumer{
						QueueName:       QueueName,
						NumberConsumers: c.Int("consumers"),
						BatchSize:       c.Int("batch-size"),
						Timeout:         time.Second,
						Consumer:        &BatchConsumer{Repository: s},
						StatsListen:     c.String("stats-listen"),
					}

					return redisConsumer.Setup()
				},
			},
		},
	}
}
