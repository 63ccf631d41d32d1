package store

import (
	"context"
	"fmt"

	"github.com/travigo/lookahead/pkg/database"
	"github.com/travigo/lookahead/pkg/roadgraph"
	"github.com/travigo/lookahead/pkg/transit"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type EdgeCollection struct {
	*Collection[roadgraph.Edge]
}

// UpdateTrafficDensity atomically sets only the traffic density of one edge
func (c *EdgeCollection) UpdateTrafficDensity(ctx context.Context, id primitive.ObjectID, density float64) error {
	result, err := c.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{"traffic_density": density}})
	if err != nil {
		return fmt.Errorf("updating traffic density of edge %s: %w", id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("edge %s: %w", id.Hex(), ErrNotFound)
	}

	return nil
}

type Store struct {
	Addresses        *Collection[roadgraph.Address]
	BusLines         *Collection[transit.BusLine]
	BusStops         *Collection[roadgraph.BusStop]
	BusStopWaypoints *Collection[roadgraph.BusStopWaypoints]
	BusVehicles      *Collection[transit.BusVehicle]
	Edges            *EdgeCollection
	Nodes            *Collection[roadgraph.Node]
	Points           *Collection[roadgraph.PointDocument]
	Timetables       *Collection[transit.Timetable]
	TrafficEvents    *Collection[roadgraph.TrafficEvent]
	TravelRequests   *Collection[transit.TravelRequest]
	Ways             *Collection[roadgraph.Way]
}

func New(db *mongo.Database) *Store {
	return &Store{
		Addresses:        NewCollection[roadgraph.Address](db.Collection(database.AddressesCollection)),
		BusLines:         NewCollection[transit.BusLine](db.Collection(database.BusLinesCollection)),
		BusStops:         NewCollection[roadgraph.BusStop](db.Collection(database.BusStopsCollection)),
		BusStopWaypoints: NewCollection[roadgraph.BusStopWaypoints](db.Collection(database.BusStopWaypointsCollection)),
		BusVehicles:      NewCollection[transit.BusVehicle](db.Collection(database.BusVehiclesCollection)),
		Edges:            &EdgeCollection{NewCollection[roadgraph.Edge](db.Collection(database.EdgesCollection))},
		Nodes:            NewCollection[roadgraph.Node](db.Collection(database.NodesCollection)),
		Points:           NewCollection[roadgraph.PointDocument](db.Collection(database.PointsCollection)),
		Timetables:       NewCollection[transit.Timetable](db.Collection(database.TimetablesCollection)),
		TrafficEvents:    NewCollection[roadgraph.TrafficEvent](db.Collection(database.TrafficEventsCollection)),
		TravelRequests:   NewCollection[transit.TravelRequest](db.Collection(database.TravelRequestsCollection)),
		Ways:             NewCollection[roadgraph.Way](db.Collection(database.WaysCollection)),
	}
}

// Connect opens the global database connection and returns a store over it
func Connect() (*Store, error) {
	if err := database.Connect(); err != nil {
		return nil, err
	}

	return New(database.MongoGlobalInstance.Database), nil
}

// Clear empties every collection
func (s *Store) Clear(ctx context.Context) error {
	clearers := []interface {
		Clear(context.Context) (int64, error)
	}{
		s.Addresses, s.BusLines, s.BusStops, s.BusStopWaypoints, s.BusVehicles, s.Edges,
		s.Nodes, s.Points, s.Timetables, s.TrafficEvents, s.TravelRequests, s.Ways,
	}

	for _, clearer := range clearers {
		if _, err := clearer.Clear(ctx); err != nil {
			return err
		}
	}

	return nil
}
