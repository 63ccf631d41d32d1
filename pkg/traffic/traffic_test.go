package traffic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/lookahead/pkg/geospatial"
	"github.com/travigo/lookahead/pkg/roadgraph"
	"github.com/travigo/lookahead/pkg/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeRepository struct {
	edges     []roadgraph.Edge
	waypoints map[string]*roadgraph.BusStopWaypoints
	events    []roadgraph.TrafficEvent

	densities map[primitive.ObjectID]float64
}

func newFakeRepository(edges ...roadgraph.Edge) *fakeRepository {
	return &fakeRepository{
		edges:     edges,
		waypoints: map[string]*roadgraph.BusStopWaypoints{},
		densities: map[primitive.ObjectID]float64{},
	}
}

func (f *fakeRepository) LoadEdges(ctx context.Context) ([]roadgraph.Edge, error) {
	return f.edges, nil
}

func (f *fakeRepository) UpdateTrafficDensity(ctx context.Context, edge roadgraph.Edge, density float64) error {
	f.densities[edge.ID] = density
	return nil
}

func (f *fakeRepository) FindBusStopWaypoints(ctx context.Context, startingBusStop string, endingBusStop string) (*roadgraph.BusStopWaypoints, error) {
	waypoints, exists := f.waypoints[startingBusStop+"-"+endingBusStop]
	if !exists {
		return nil, store.ErrNotFound
	}

	return waypoints, nil
}

func (f *fakeRepository) FindTrafficEvents(ctx context.Context, from time.Time, to time.Time) ([]roadgraph.TrafficEvent, error) {
	var events []roadgraph.TrafficEvent
	for _, event := range f.events {
		if !event.DateTime.Before(from) && event.DateTime.Before(to) {
			events = append(events, event)
		}
	}

	return events, nil
}

func edgeBetween(from geospatial.Point, to geospatial.Point, density float64) roadgraph.Edge {
	return roadgraph.Edge{
		ID:             primitive.NewObjectID(),
		StartingNode:   roadgraph.EdgeNode{Point: from},
		EndingNode:     roadgraph.EdgeNode{Point: to},
		TrafficDensity: density,
	}
}

func TestNearestEdge(t *testing.T) {
	west := edgeBetween(geospatial.NewPoint(13.00, 55.60), geospatial.NewPoint(13.01, 55.60), 0)
	east := edgeBetween(geospatial.NewPoint(13.05, 55.60), geospatial.NewPoint(13.06, 55.60), 0)

	nearest, found := NearestEdge(geospatial.NewPoint(13.055, 55.601), []roadgraph.Edge{west, east})
	assert.True(t, found)
	assert.Equal(t, east.ID, nearest.ID)

	_, found = NearestEdge(geospatial.NewPoint(13.055, 55.601), nil)
	assert.False(t, found)
}

func TestClearTrafficDensity(t *testing.T) {
	busy := edgeBetween(geospatial.NewPoint(13.00, 55.60), geospatial.NewPoint(13.01, 55.60), 0.6)
	free := edgeBetween(geospatial.NewPoint(13.01, 55.60), geospatial.NewPoint(13.02, 55.60), 0)
	repository := newFakeRepository(busy, free)

	cleared, err := NewSimulator(repository, 1).ClearTrafficDensity(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, cleared)
	assert.Equal(t, map[primitive.ObjectID]float64{busy.ID: 0}, repository.densities)
}

func TestGenerateRandomTraffic(t *testing.T) {
	var edges []roadgraph.Edge
	for i := 0; i < 200; i++ {
		edges = append(edges, edgeBetween(geospatial.NewPoint(13, 55), geospatial.NewPoint(13.001, 55), 0))
	}
	repository := newFakeRepository(edges...)

	simulator := NewSimulator(repository, 42)
	simulator.Fraction = 0.5
	simulator.MaximumDensity = 0.5

	updated, err := simulator.GenerateRandomTraffic(context.Background())
	require.NoError(t, err)

	assert.Len(t, repository.densities, updated)
	assert.Greater(t, updated, 50)
	assert.Less(t, updated, 150)
	for _, density := range repository.densities {
		assert.GreaterOrEqual(t, density, 0.0)
		assert.Less(t, density, 0.5)
	}
}

func TestGenerateTrafficBetweenBusStops(t *testing.T) {
	first, second, other := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	repository := newFakeRepository()
	repository.waypoints["A-B"] = &roadgraph.BusStopWaypoints{
		Waypoints: [][]primitive.ObjectID{{other}, {first, second}},
	}

	simulator := NewSimulator(repository, 1)
	require.NoError(t, simulator.GenerateTrafficBetweenBusStops(context.Background(), "A", "B", 1, 0.8))
	assert.Equal(t, map[primitive.ObjectID]float64{first: 0.8, second: 0.8}, repository.densities)

	assert.Error(t, simulator.GenerateTrafficBetweenBusStops(context.Background(), "A", "B", 2, 0.8))

	err := simulator.GenerateTrafficBetweenBusStops(context.Background(), "B", "A", 0, 0.8)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestUpdateTrafficData(t *testing.T) {
	west := edgeBetween(geospatial.NewPoint(13.00, 55.60), geospatial.NewPoint(13.01, 55.60), 0)
	east := edgeBetween(geospatial.NewPoint(13.05, 55.60), geospatial.NewPoint(13.06, 55.60), 0)
	repository := newFakeRepository(west, east)

	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	repository.events = []roadgraph.TrafficEvent{
		{EventID: "jam", EventLevel: 3, Point: geospatial.NewPoint(13.005, 55.60), DateTime: now.Add(-10 * time.Minute)},
		{EventID: "old", EventLevel: 4, Point: geospatial.NewPoint(13.055, 55.60), DateTime: now.Add(-2 * time.Hour)},
	}

	parser := &Parser{Repository: repository}
	updated, err := parser.UpdateTrafficData(context.Background(), now.Add(-time.Hour), now)
	require.NoError(t, err)

	assert.Equal(t, 1, updated)
	assert.Equal(t, map[primitive.ObjectID]float64{west.ID: 0.6}, repository.densities)
}
