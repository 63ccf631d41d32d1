package osmimport

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/travigo/lookahead/pkg/store"
	"github.com/travigo/lookahead/pkg/util"
)

// Store replaces the road network collections with the imported documents
func (i *Importer) Store(ctx context.Context, s *store.Store) error {
	bound := i.Bound()
	log.Info().
		Str("min", bound[0].String()).
		Str("max", bound[1].String()).
		Msg("Storing OSM extract")

	steps := []func() error{
		replaceAll(ctx, s.Points, i.Points),
		replaceAll(ctx, s.Nodes, i.Nodes),
		replaceAll(ctx, s.Ways, i.Ways),
		replaceAll(ctx, s.BusStops, i.BusStops),
		replaceAll(ctx, s.Edges.Collection, i.Edges),
		replaceAll(ctx, s.Addresses, i.Addresses),
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	return nil
}

const insertBatchSize = 5000

func replaceAll[T any](ctx context.Context, collection *store.Collection[T], documents []T) func() error {
	return func() error {
		if _, err := collection.Clear(ctx); err != nil {
			return err
		}

		for _, batch := range util.Chunk(documents, insertBatchSize) {
			if _, err := collection.InsertMany(ctx, batch); err != nil {
				return err
			}
		}

		log.Debug().Str("collection", collection.Name()).Int("documents", len(documents)).Msg("Stored documents")

		return nil
	}
}
