package lookahead

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/lookahead/pkg/config"
	"github.com/travigo/lookahead/pkg/elastic_client"
	"github.com/travigo/lookahead/pkg/routegenerator"
	"github.com/travigo/lookahead/pkg/store"
	"github.com/travigo/lookahead/pkg/transit"
	"github.com/urfave/cli/v2"
)

var startFlag = &cli.StringFlag{
	Name:  "start",
	Usage: "planning window start as YYYY-MM-DD, defaults to today",
}

var lineFlag = &cli.IntFlag{
	Name:  "line",
	Usage: "bus line id, all lines when not set",
}

func newHandler(c *cli.Context) (*LookAheadHandler, *store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	s, err := store.Connect()
	if err != nil {
		return nil, nil, err
	}

	handler := &LookAheadHandler{
		Repository:         s,
		Routes:             routegenerator.NewConfiguredClient(cfg),
		Config:             cfg,
		MaximumConcurrency: 4,
	}

	if start := c.String("start"); start != "" {
		handler.PlanningStart, err = time.ParseInLocation(time.DateOnly, start, time.Local)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing --start: %w", err)
		}
	}

	return handler, s, nil
}

func lineTimetables(c *cli.Context, s *store.Store) ([]*transit.Timetable, error) {
	if c.IsSet("line") {
		return s.FindTimetables(c.Context, c.Int("line"))
	}

	return s.FindAllTimetables(c.Context)
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "look-ahead",
		Usage: "Demand driven bus timetable planning",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "keep regenerating and updating the timetables of every bus line",
				Flags: []cli.Flag{startFlag},
				Action: func(c *cli.Context) error {
					handler, _, err := newHandler(c)
					if err != nil {
						return err
					}
					defer elastic_client.WaitUntilQueueEmpty()

					ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
					defer stop()

					supervisor := &Supervisor{
						Maintainer:            handler,
						GeneratorPeriod:       handler.Config.GeneratorPeriod,
						GeneratorMaxOperation: handler.Config.GeneratorMaxOperation,
						UpdaterPeriod:         handler.Config.UpdaterPeriod,
						UpdaterMaxOperation:   handler.Config.UpdaterMaxOperation,
					}
					supervisor.Run(ctx)

					return nil
				},
			},
			{
				Name:  "generate",
				Usage: "generate the timetables of the planning window once",
				Flags: []cli.Flag{startFlag, lineFlag},
				Action: func(c *cli.Context) error {
					handler, s, err := newHandler(c)
					if err != nil {
						return err
					}
					defer elastic_client.WaitUntilQueueEmpty()

					if !c.IsSet("line") {
						return handler.GenerateTimetablesOfAllBusLines(c.Context)
					}

					busLine, err := s.FindBusLine(c.Context, c.Int("line"))
					if err != nil {
						return err
					}

					_, err = handler.GenerateTimetablesOfBusLine(c.Context, NewRunID(), *busLine)
					return err
				},
			},
			{
				Name:  "update",
				Usage: "apply current travel times to the stored timetables once",
				Flags: []cli.Flag{lineFlag},
				Action: func(c *cli.Context) error {
					handler, _, err := newHandler(c)
					if err != nil {
						return err
					}

					if c.IsSet("line") {
						return handler.UpdateTimetablesOfBusLine(c.Context, c.Int("line"))
					}

					return handler.UpdateTimetablesOfAllBusLines(c.Context)
				},
			},
			{
				Name:  "generate-bus-lines",
				Usage: "register bus lines from a YAML file of line definitions",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "YAML file with one document per bus line",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					handler, _, err := newHandler(c)
					if err != nil {
						return err
					}

					file, err := os.Open(c.String("file"))
					if err != nil {
						return err
					}
					defer file.Close()

					definitions, err := ReadBusLineDefinitions(file)
					if err != nil {
						return err
					}

					for _, definition := range definitions {
						if _, err := handler.GenerateBusLine(c.Context, definition.LineID, definition.BusStops); err != nil {
							log.Error().Err(err).Int("line", definition.LineID).Msg("Failed to generate bus line")
						}
					}

					return nil
				},
			},
			{
				Name:  "print-timetables",
				Usage: "print the stored timetables",
				Flags: []cli.Flag{lineFlag},
				Action: func(c *cli.Context) error {
					s, err := store.Connect()
					if err != nil {
						return err
					}

					timetables, err := lineTimetables(c, s)
					if err != nil {
						return err
					}

					pretty.Println(timetables)

					return nil
				},
			},
			{
				Name:  "export-csv",
				Usage: "write the stored timetables as CSV, one row per timetable entry",
				Flags: []cli.Flag{
					lineFlag,
					&cli.StringFlag{
						Name:  "output",
						Usage: "output file, stdout when not set",
					},
				},
				Action: func(c *cli.Context) error {
					s, err := store.Connect()
					if err != nil {
						return err
					}

					timetables, err := lineTimetables(c, s)
					if err != nil {
						return err
					}

					output := os.Stdout
					if path := c.String("output"); path != "" {
						output, err = os.Create(path)
						if err != nil {
							return err
						}
						defer output.Close()
					}

					return ExportTimetablesCSV(output, timetables)
				},
			},
			{
				Name:  "assign-vehicles",
				Usage: "assign bus vehicles to every stored timetable",
				Action: func(c *cli.Context) error {
					handler, _, err := newHandler(c)
					if err != nil {
						return err
					}

					_, err = handler.AssignBusVehicles(c.Context)
					return err
				},
			},
		},
	}
}
