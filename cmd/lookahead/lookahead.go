package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/lookahead/pkg/api"
	"github.com/travigo/lookahead/pkg/elastic_client"
	"github.com/travigo/lookahead/pkg/lookahead"
	"github.com/travigo/lookahead/pkg/osmimport"
	"github.com/travigo/lookahead/pkg/redis_client"
	"github.com/travigo/lookahead/pkg/routegenerator"
	"github.com/travigo/lookahead/pkg/traffic"
	"github.com/travigo/lookahead/pkg/travelrequests"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("LOOKAHEAD_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("LOOKAHEAD_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	if err := redis_client.Connect(false); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	if err := elastic_client.Connect(false); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Elasticsearch")
	}

	app := &cli.App{
		Name:        "lookahead",
		Description: "Bus timetable planner - routes buses over the road network and plans trips from travel requests",

		Commands: []*cli.Command{
			routegenerator.RegisterCLI(),
			lookahead.RegisterCLI(),
			traffic.RegisterCLI(),
			travelrequests.RegisterCLI(),
			osmimport.RegisterCLI(),
			api.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
