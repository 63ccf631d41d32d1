package routegenerator

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/lookahead/pkg/roadgraph"
)

type EdgeSource interface {
	LoadEdges(ctx context.Context) ([]roadgraph.Edge, error)
}

// EdgesRefresher periodically reloads the edge table so traffic density changes reach the router
type EdgesRefresher struct {
	Router *Router
	Source EdgeSource

	Period       time.Duration
	MaxOperation time.Duration
}

func (e *EdgesRefresher) Refresh(ctx context.Context) error {
	startTime := time.Now()

	edges, err := e.Source.LoadEdges(ctx)
	if err != nil {
		return err
	}

	e.Router.SetGraph(e.Router.Graph().WithEdges(edges))

	log.Debug().Int("edges", len(edges)).Str("Length", time.Since(startTime).String()).Msg("Refreshed edges")

	return nil
}

// Run refreshes every Period until MaxOperation has elapsed or ctx is cancelled
func (e *EdgesRefresher) Run(ctx context.Context) {
	if e.MaxOperation > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.MaxOperation)
		defer cancel()
	}

	ticker := time.NewTicker(e.Period)
	defer ticker.Stop()

	log.Info().Str("period", e.Period.String()).Str("maxoperation", e.MaxOperation.String()).Msg("Starting edges refresher")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Stopping edges refresher")
			return
		case <-ticker.C:
			if err := e.Refresh(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to refresh edges")
			}
		}
	}
}
