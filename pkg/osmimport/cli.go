package osmimport

import (
	"os"

	"github.com/travigo/lookahead/pkg/config"
	"github.com/travigo/lookahead/pkg/store"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "osm-import",
		Usage: "Import the road network, bus stops and addresses from an OSM XML extract",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Required: true, Usage: "path of the .osm file"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			file, err := os.Open(c.String("file"))
			if err != nil {
				return err
			}
			defer file.Close()

			importer := NewImporter(cfg.StandardSpeed)
			if err := importer.ReadXML(c.Context, file); err != nil {
				return err
			}

			s, err := store.Connect()
			if err != nil {
				return err
			}

			return importer.Store(c.Context, s)
		},
	}
}
