package routegenerator

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/lookahead/pkg/roadgraph"
)

type GraphSource interface {
	LoadEdges(ctx context.Context) ([]roadgraph.Edge, error)
	LoadBusStops(ctx context.Context) ([]roadgraph.BusStop, error)
}

// LoadGraph builds the initial snapshot from the store
func LoadGraph(ctx context.Context, source GraphSource) (*roadgraph.Graph, error) {
	busStops, err := source.LoadBusStops(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading bus stops: %w", err)
	}

	edges, err := source.LoadEdges(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading edges: %w", err)
	}

	log.Info().Int("edges", len(edges)).Int("busstops", len(busStops)).Msg("Loaded road graph")

	return roadgraph.NewGraph(edges, busStops), nil
}

// Router answers route and waypoint queries against the current graph snapshot.
// Every query reads the snapshot once so it never mixes two generations of edges.
type Router struct {
	graph atomic.Pointer[roadgraph.Graph]

	MaximumCandidatePaths int
	MaximumConcurrency    int
}

func NewRouter(graph *roadgraph.Graph) *Router {
	router := &Router{
		MaximumCandidatePaths: roadgraph.DefaultMaximumCandidatePaths,
		MaximumConcurrency:    8,
	}
	router.graph.Store(graph)

	return router
}

func (r *Router) Graph() *roadgraph.Graph {
	return r.graph.Load()
}

func (r *Router) SetGraph(graph *roadgraph.Graph) {
	r.graph.Store(graph)
}

func (r *Router) RouteBetweenTwoBusStops(ctx context.Context, startingBusStop roadgraph.BusStop, endingBusStop roadgraph.BusStop) (*StopPairRoute, error) {
	return routeBetween(ctx, r.Graph(), startingBusStop.Name, endingBusStop.Name)
}

func (r *Router) RouteBetweenMultipleBusStops(ctx context.Context, busStops []roadgraph.BusStop) ([]StopPairRoute, error) {
	if len(busStops) < 2 {
		return nil, fmt.Errorf("%w: at least two bus stops are needed", ErrBadRequest)
	}

	graph := r.Graph()
	routes := make([]StopPairRoute, len(busStops)-1)

	err := r.forEachPair(ctx, len(busStops), func(ctx context.Context, i int) error {
		route, err := routeBetween(ctx, graph, busStops[i].Name, busStops[i+1].Name)
		if err != nil {
			return err
		}

		routes[i] = *route
		return nil
	})
	if err != nil {
		return nil, err
	}

	return routes, nil
}

func (r *Router) WaypointsBetweenTwoBusStops(ctx context.Context, startingBusStopName string, endingBusStopName string) (*StopPairWaypoints, error) {
	return waypointsBetween(ctx, r.Graph(), startingBusStopName, endingBusStopName, r.MaximumCandidatePaths)
}

func (r *Router) WaypointsBetweenMultipleBusStops(ctx context.Context, busStopNames []string) ([]StopPairWaypoints, error) {
	if len(busStopNames) < 2 {
		return nil, fmt.Errorf("%w: at least two bus stop names are needed", ErrBadRequest)
	}

	graph := r.Graph()
	waypoints := make([]StopPairWaypoints, len(busStopNames)-1)

	err := r.forEachPair(ctx, len(busStopNames), func(ctx context.Context, i int) error {
		pairWaypoints, err := waypointsBetween(ctx, graph, busStopNames[i], busStopNames[i+1], r.MaximumCandidatePaths)
		if err != nil {
			return err
		}

		waypoints[i] = *pairWaypoints
		return nil
	})
	if err != nil {
		return nil, err
	}

	return waypoints, nil
}

func (r *Router) forEachPair(ctx context.Context, numberOfStops int, work func(ctx context.Context, i int) error) error {
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	if r.MaximumConcurrency > 0 {
		p = p.WithMaxGoroutines(r.MaximumConcurrency)
	}

	for i := 0; i < numberOfStops-1; i++ {
		p.Go(func(ctx context.Context) error {
			return work(ctx, i)
		})
	}

	return p.Wait()
}

func resolveBusStop(graph *roadgraph.Graph, name string) (roadgraph.BusStop, error) {
	if name == "" {
		return roadgraph.BusStop{}, fmt.Errorf("%w: bus stop without a name", ErrBadRequest)
	}

	busStop, exists := graph.BusStop(name)
	if !exists {
		return roadgraph.BusStop{}, fmt.Errorf("%w: %q", ErrStopNotFound, name)
	}

	return busStop, nil
}

func routeBetween(ctx context.Context, graph *roadgraph.Graph, startingBusStopName string, endingBusStopName string) (*StopPairRoute, error) {
	startingBusStop, err := resolveBusStop(graph, startingBusStopName)
	if err != nil {
		return nil, err
	}
	endingBusStop, err := resolveBusStop(graph, endingBusStopName)
	if err != nil {
		return nil, err
	}

	route, err := graph.ShortestPath(ctx, startingBusStop.OsmID, endingBusStop.OsmID)
	if err != nil {
		return nil, fmt.Errorf("route from %q to %q: %w", startingBusStopName, endingBusStopName, err)
	}

	return &StopPairRoute{
		StartingBusStop: startingBusStop,
		EndingBusStop:   endingBusStop,
		Route:           route,
	}, nil
}

func waypointsBetween(ctx context.Context, graph *roadgraph.Graph, startingBusStopName string, endingBusStopName string, limit int) (*StopPairWaypoints, error) {
	startingBusStop, err := resolveBusStop(graph, startingBusStopName)
	if err != nil {
		return nil, err
	}
	endingBusStop, err := resolveBusStop(graph, endingBusStopName)
	if err != nil {
		return nil, err
	}

	waypoints, err := graph.CandidateEdgePaths(ctx, startingBusStop.OsmID, endingBusStop.OsmID, limit)
	if err != nil {
		return nil, fmt.Errorf("waypoints from %q to %q: %w", startingBusStopName, endingBusStopName, err)
	}

	return &StopPairWaypoints{
		StartingBusStop: startingBusStop,
		EndingBusStop:   endingBusStop,
		Waypoints:       waypoints,
	}, nil
}
