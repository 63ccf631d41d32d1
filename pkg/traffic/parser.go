package traffic

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/lookahead/pkg/geospatial"
	"github.com/travigo/lookahead/pkg/roadgraph"
)

// NearestEdge returns the edge whose two endpoints are, summed, closest to the point
func NearestEdge(point geospatial.Point, edges []roadgraph.Edge) (roadgraph.Edge, bool) {
	minimumDistance := math.Inf(1)
	var nearest roadgraph.Edge
	found := false

	for _, edge := range edges {
		distance := geospatial.Distance(point, edge.StartingNode.Point) + geospatial.Distance(point, edge.EndingNode.Point)
		if distance < minimumDistance {
			minimumDistance = distance
			nearest = edge
			found = true
		}
	}

	return nearest, found
}

// Parser turns reported traffic events into edge densities
type Parser struct {
	Repository Repository
}

// UpdateTrafficData applies every event reported in [from, to) to its nearest edge
func (p *Parser) UpdateTrafficData(ctx context.Context, from time.Time, to time.Time) (int, error) {
	events, err := p.Repository.FindTrafficEvents(ctx, from, to)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	edges, err := p.Repository.LoadEdges(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, event := range events {
		edge, found := NearestEdge(event.Point, edges)
		if !found {
			break
		}

		if err := p.Repository.UpdateTrafficDensity(ctx, edge, event.TrafficDensity()); err != nil {
			return updated, err
		}
		updated++

		log.Debug().
			Str("event", event.EventID).
			Int("level", event.EventLevel).
			Str("edge", edge.ID.Hex()).
			Msg("Applied traffic event")
	}

	return updated, nil
}
