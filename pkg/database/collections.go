package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	AddressesCollection        = "addresses"
	BusLinesCollection         = "bus_lines"
	BusStopsCollection         = "bus_stops"
	BusStopWaypointsCollection = "bus_stop_waypoints"
	BusVehiclesCollection      = "bus_vehicles"
	EdgesCollection            = "edges"
	NodesCollection            = "nodes"
	PointsCollection           = "points"
	TimetablesCollection       = "timetables"
	TrafficEventsCollection    = "traffic_events"
	TravelRequestsCollection   = "travel_requests"
	WaysCollection             = "ways"
)

func createIndexes() {
	indexes := map[string][]mongo.IndexModel{
		BusLinesCollection: {
			{Keys: bson.D{{Key: "line_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		BusStopsCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
			{Keys: bson.D{{Key: "osm_id", Value: 1}}},
		},
		BusStopWaypointsCollection: {
			{Keys: bson.D{{Key: "starting_bus_stop._id", Value: 1}, {Key: "ending_bus_stop._id", Value: 1}}},
		},
		BusVehiclesCollection: {
			{Keys: bson.D{{Key: "bus_vehicle_id", Value: 1}}},
		},
		EdgesCollection: {
			{Keys: bson.D{{Key: "starting_node.osm_id", Value: 1}}},
			{Keys: bson.D{{Key: "ending_node.osm_id", Value: 1}}},
		},
		NodesCollection: {
			{Keys: bson.D{{Key: "osm_id", Value: 1}}},
		},
		PointsCollection: {
			{Keys: bson.D{{Key: "osm_id", Value: 1}}},
		},
		TimetablesCollection: {
			{Keys: bson.D{{Key: "line_id", Value: 1}}},
		},
		TrafficEventsCollection: {
			{Keys: bson.D{{Key: "event_id", Value: 1}}},
		},
		TravelRequestsCollection: {
			{Keys: bson.D{{Key: "line_id", Value: 1}, {Key: "departure_datetime", Value: 1}}},
		},
		WaysCollection: {
			{Keys: bson.D{{Key: "osm_id", Value: 1}}},
		},
	}

	for collectionName, models := range indexes {
		opts := options.CreateIndexes()
		_, err := GetCollection(collectionName).Indexes().CreateMany(context.Background(), models, opts)
		if err != nil {
			log.Error().Err(err).Str("collection", collectionName).Msg("Creating Index")
		}
	}
}
