package store

import (
	"context"
	"time"

	"github.com/travigo/lookahead/pkg/roadgraph"
	"github.com/travigo/lookahead/pkg/transit"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) LoadEdges(ctx context.Context) ([]roadgraph.Edge, error) {
	return s.Edges.Find(ctx, All())
}

func (s *Store) LoadBusStops(ctx context.Context) ([]roadgraph.BusStop, error) {
	return s.BusStops.Find(ctx, All())
}

func (s *Store) UpdateTrafficDensity(ctx context.Context, edge roadgraph.Edge, density float64) error {
	return s.Edges.UpdateTrafficDensity(ctx, edge.ID, density)
}

func (s *Store) FindTrafficEvents(ctx context.Context, from time.Time, to time.Time) ([]roadgraph.TrafficEvent, error) {
	return s.TrafficEvents.Find(ctx, ByDateTimeRange("datetime", from, to))
}

func (s *Store) FindBusLines(ctx context.Context) ([]transit.BusLine, error) {
	return s.BusLines.Find(ctx, All(), options.Find().SetSort(bson.D{{Key: "line_id", Value: 1}}))
}

func (s *Store) FindBusLine(ctx context.Context, lineID int) (*transit.BusLine, error) {
	return s.BusLines.FindOne(ctx, ByField("line_id", lineID))
}

// SaveBusLine replaces the definition of the line with the same line id
func (s *Store) SaveBusLine(ctx context.Context, busLine *transit.BusLine) error {
	existing, err := s.BusLines.FindOne(ctx, ByField("line_id", busLine.LineID))
	if err == nil {
		busLine.ID = existing.ID
	}

	return s.BusLines.UpsertOne(ctx, ByField("line_id", busLine.LineID), busLine)
}

func (s *Store) FindBusStopWaypoints(ctx context.Context, startingBusStop string, endingBusStop string) (*roadgraph.BusStopWaypoints, error) {
	return s.BusStopWaypoints.FindOne(ctx, And(
		ByField("starting_bus_stop.name", startingBusStop),
		ByField("ending_bus_stop.name", endingBusStop),
	))
}

// SaveBusStopWaypoints keeps a single record per ordered pair of stop ids
func (s *Store) SaveBusStopWaypoints(ctx context.Context, waypoints *roadgraph.BusStopWaypoints) error {
	filter := And(
		ByField("starting_bus_stop._id", waypoints.StartingBusStop.ID),
		ByField("ending_bus_stop._id", waypoints.EndingBusStop.ID),
	)

	existing, err := s.BusStopWaypoints.FindOne(ctx, filter)
	if err == nil {
		waypoints.ID = existing.ID
	}

	return s.BusStopWaypoints.UpsertOne(ctx, filter, waypoints)
}

func (s *Store) FindTravelRequests(ctx context.Context, lineID int, from time.Time, to time.Time) ([]transit.TravelRequest, error) {
	return s.TravelRequests.Find(ctx, And(
		ByField("line_id", lineID),
		ByDateTimeRange("departure_datetime", from, to),
	), options.Find().SetSort(bson.D{{Key: "departure_datetime", Value: 1}}))
}

func (s *Store) InsertTravelRequests(ctx context.Context, travelRequests []transit.TravelRequest) error {
	_, err := s.TravelRequests.InsertMany(ctx, travelRequests)
	return err
}

// MaxTravelRequestClientID returns the highest stored client id, 0 when there are no requests
func (s *Store) MaxTravelRequestClientID(ctx context.Context) (int, error) {
	travelRequests, err := s.TravelRequests.Find(ctx, All(), options.Find().SetSort(bson.D{{Key: "client_id", Value: -1}}).SetLimit(1))
	if err != nil {
		return 0, err
	}
	if len(travelRequests) == 0 {
		return 0, nil
	}

	return travelRequests[0].ClientID, nil
}

// SaveTravelRequests writes back the entry indices and arrival times filled in during planning
func (s *Store) SaveTravelRequests(ctx context.Context, travelRequests []transit.TravelRequest) error {
	for i := range travelRequests {
		if travelRequests[i].ID.IsZero() {
			continue
		}

		if err := s.TravelRequests.Update(ctx, travelRequests[i].ID, &travelRequests[i]); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) FindTimetables(ctx context.Context, lineID int) ([]*transit.Timetable, error) {
	timetables, err := s.Timetables.Find(ctx, ByField("line_id", lineID), options.Find().SetSort(bson.D{{Key: "timetable_entries.0.departure_datetime", Value: 1}}))
	if err != nil {
		return nil, err
	}

	return toPointers(timetables), nil
}

func (s *Store) FindAllTimetables(ctx context.Context) ([]*transit.Timetable, error) {
	timetables, err := s.Timetables.Find(ctx, All())
	if err != nil {
		return nil, err
	}

	return toPointers(timetables), nil
}

// ReplaceTimetablesOfLine publishes a full generator run, the previous trips of the line are deleted first
func (s *Store) ReplaceTimetablesOfLine(ctx context.Context, lineID int, timetables []*transit.Timetable) error {
	if _, err := s.Timetables.DeleteMany(ctx, ByField("line_id", lineID)); err != nil {
		return err
	}

	documents := make([]transit.Timetable, 0, len(timetables))
	for _, timetable := range timetables {
		documents = append(documents, *timetable)
	}

	_, err := s.Timetables.InsertMany(ctx, documents)
	return err
}

func (s *Store) UpdateExistingTimetable(ctx context.Context, timetable *transit.Timetable) (bool, error) {
	return s.Timetables.ReplaceExisting(ctx, timetable.ID, timetable)
}

func (s *Store) FindBusVehicles(ctx context.Context) ([]*transit.BusVehicle, error) {
	busVehicles, err := s.BusVehicles.Find(ctx, All(), options.Find().SetSort(bson.D{{Key: "bus_vehicle_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	return toPointers(busVehicles), nil
}

func (s *Store) SaveBusVehicle(ctx context.Context, busVehicle *transit.BusVehicle) error {
	if busVehicle.ID.IsZero() {
		id, err := s.BusVehicles.InsertOne(ctx, busVehicle)
		busVehicle.ID = id
		return err
	}

	return s.BusVehicles.Update(ctx, busVehicle.ID, busVehicle)
}

func toPointers[T any](documents []T) []*T {
	pointers := make([]*T, 0, len(documents))
	for i := range documents {
		pointers = append(pointers, &documents[i])
	}

	return pointers
}
