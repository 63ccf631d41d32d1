package traffic

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/lookahead/pkg/roadgraph"
)

type Repository interface {
	LoadEdges(ctx context.Context) ([]roadgraph.Edge, error)
	UpdateTrafficDensity(ctx context.Context, edge roadgraph.Edge, density float64) error
	FindBusStopWaypoints(ctx context.Context, startingBusStop string, endingBusStop string) (*roadgraph.BusStopWaypoints, error)
	FindTrafficEvents(ctx context.Context, from time.Time, to time.Time) ([]roadgraph.TrafficEvent, error)
}

// Simulator writes made up traffic densities into the edge table for testing the route service
type Simulator struct {
	Repository Repository
	Random     *rand.Rand

	// Share of edges that get a new density on every run
	Fraction       float64
	MaximumDensity float64
}

func NewSimulator(repository Repository, seed int64) *Simulator {
	return &Simulator{
		Repository:     repository,
		Random:         rand.New(rand.NewSource(seed)),
		Fraction:       0.1,
		MaximumDensity: 0.9,
	}
}

// ClearTrafficDensity resets every congested edge to free flow
func (s *Simulator) ClearTrafficDensity(ctx context.Context) (int, error) {
	edges, err := s.Repository.LoadEdges(ctx)
	if err != nil {
		return 0, err
	}

	cleared := 0
	for _, edge := range edges {
		if edge.TrafficDensity == 0 {
			continue
		}

		if err := s.Repository.UpdateTrafficDensity(ctx, edge, 0); err != nil {
			return cleared, err
		}
		cleared++
	}

	return cleared, nil
}

func (s *Simulator) GenerateRandomTraffic(ctx context.Context) (int, error) {
	edges, err := s.Repository.LoadEdges(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, edge := range edges {
		if s.Random.Float64() >= s.Fraction {
			continue
		}

		density := s.Random.Float64() * s.MaximumDensity
		if err := s.Repository.UpdateTrafficDensity(ctx, edge, density); err != nil {
			return updated, err
		}
		updated++
	}

	log.Debug().Int("edges", updated).Msg("Generated random traffic")

	return updated, nil
}

// GenerateTrafficBetweenBusStops congests every edge of one stored alternative between two stops
func (s *Simulator) GenerateTrafficBetweenBusStops(ctx context.Context, startingBusStop string, endingBusStop string, waypointsIndex int, density float64) error {
	waypoints, err := s.Repository.FindBusStopWaypoints(ctx, startingBusStop, endingBusStop)
	if err != nil {
		return err
	}

	if waypointsIndex < 0 || waypointsIndex >= len(waypoints.Waypoints) {
		return fmt.Errorf("waypoints index %d out of range, %s to %s has %d alternatives", waypointsIndex, startingBusStop, endingBusStop, len(waypoints.Waypoints))
	}

	for _, edgeID := range waypoints.Waypoints[waypointsIndex] {
		if err := s.Repository.UpdateTrafficDensity(ctx, roadgraph.Edge{ID: edgeID}, density); err != nil {
			return err
		}
	}

	return nil
}
