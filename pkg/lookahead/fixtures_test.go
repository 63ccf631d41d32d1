package lookahead

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/travigo/lookahead/pkg/roadgraph"
	"github.com/travigo/lookahead/pkg/routegenerator"
	"github.com/travigo/lookahead/pkg/transit"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var busStopsByName = map[string]roadgraph.BusStop{}

func busStop(name string) roadgraph.BusStop {
	if existing, exists := busStopsByName[name]; exists {
		return existing
	}

	created := roadgraph.BusStop{
		ID:    primitive.NewObjectID(),
		OsmID: int64(len(busStopsByName) + 1),
		Name:  name,
	}
	busStopsByName[name] = created

	return created
}

func busLine(lineID int, names ...string) transit.BusLine {
	line := transit.BusLine{ID: primitive.NewObjectID(), LineID: lineID}
	for _, name := range names {
		line.BusStops = append(line.BusStops, busStop(name))
	}

	return line
}

func at(clock string) time.Time {
	t, err := time.Parse(time.DateTime, "2024-01-01 "+clock)
	if err != nil {
		panic(err)
	}

	return t
}

func travelRequest(clientID int, lineID int, from string, to string, departure time.Time) transit.TravelRequest {
	return transit.TravelRequest{
		ID:                primitive.NewObjectID(),
		ClientID:          clientID,
		LineID:            lineID,
		StartingBusStop:   busStop(from),
		EndingBusStop:     busStop(to),
		DepartureDateTime: departure,
	}
}

func repeatedTravelRequests(count int, lineID int, from string, to string, departure time.Time) []transit.TravelRequest {
	travelRequests := make([]transit.TravelRequest, 0, count)
	for i := 0; i < count; i++ {
		travelRequests = append(travelRequests, travelRequest(i, lineID, from, to, departure))
	}

	return travelRequests
}

// fakeRoutes answers every pair with the same segment time unless one is configured for it
type fakeRoutes struct {
	sync.Mutex

	segmentTime  float64
	segmentTimes map[string]float64
	noPath       map[string]bool
	err          error

	routeCalls int
}

func (f *fakeRoutes) timeBetween(from string, to string) float64 {
	if segmentTime, exists := f.segmentTimes[from+"-"+to]; exists {
		return segmentTime
	}

	return f.segmentTime
}

func (f *fakeRoutes) RouteBetweenMultipleBusStops(ctx context.Context, busStops []roadgraph.BusStop) ([]routegenerator.StopPairRoute, error) {
	f.Lock()
	defer f.Unlock()

	f.routeCalls++
	if f.err != nil {
		return nil, f.err
	}

	var routes []routegenerator.StopPairRoute
	for i := 0; i < len(busStops)-1; i++ {
		if f.noPath[busStops[i].Name+"-"+busStops[i+1].Name] {
			return nil, fmt.Errorf("%s to %s: %w", busStops[i].Name, busStops[i+1].Name, roadgraph.ErrNoPath)
		}

		routes = append(routes, routegenerator.StopPairRoute{
			StartingBusStop: busStops[i],
			EndingBusStop:   busStops[i+1],
			Route:           &roadgraph.Path{TotalTime: f.timeBetween(busStops[i].Name, busStops[i+1].Name)},
		})
	}

	return routes, nil
}

func (f *fakeRoutes) WaypointsBetweenMultipleBusStops(ctx context.Context, busStopNames []string) ([]routegenerator.StopPairWaypoints, error) {
	if f.err != nil {
		return nil, f.err
	}

	var waypoints []routegenerator.StopPairWaypoints
	for i := 0; i < len(busStopNames)-1; i++ {
		waypoints = append(waypoints, routegenerator.StopPairWaypoints{
			StartingBusStop: busStop(busStopNames[i]),
			EndingBusStop:   busStop(busStopNames[i+1]),
			Waypoints: [][]roadgraph.Edge{
				{{ID: primitive.NewObjectID()}, {ID: primitive.NewObjectID()}},
				{{ID: primitive.NewObjectID()}},
			},
		})
	}

	return waypoints, nil
}

func testGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		MaximumBusCapacity:             100,
		AverageWaitingTimeThreshold:    120 * time.Second,
		IndividualWaitingTimeThreshold: 300 * time.Second,
		MinimumNumberOfPassengers:      1,

		TimetablesStartingDateTime: at("08:00:00"),
		TimetablesEndingDateTime:   at("09:00:00"),
	}
}

// assertTimetableInvariants checks what must hold for every published set of trips
func assertTimetableInvariants(t *testing.T, timetables []*transit.Timetable, capacity int) {
	t.Helper()

	for i, timetable := range timetables {
		for k, entry := range timetable.TimetableEntries {
			assert.Zero(t, entry.DepartureDateTime.Second(), "departure on a whole minute")
			assert.Zero(t, entry.DepartureDateTime.Nanosecond(), "departure on a whole minute")

			if k > 0 {
				previous := timetable.TimetableEntries[k-1]
				assert.False(t, entry.DepartureDateTime.Before(previous.DepartureDateTime.Add(previous.SegmentDuration())))
			}
		}

		assert.LessOrEqual(t, timetable.MaximumNumberOfCurrentPassengers(), capacity)

		for _, r := range timetable.TravelRequests {
			assert.Equal(t, r.StartingBusStop.Name, timetable.TimetableEntries[r.StartingIndex()].StartingBusStop.Name)
			assert.Equal(t, r.EndingBusStop.Name, timetable.TimetableEntries[r.EndingIndex()].EndingBusStop.Name)

			if assert.NotNil(t, r.ArrivalDateTime) {
				assert.Equal(t, timetable.TimetableEntries[r.EndingIndex()].ArrivalDateTime, *r.ArrivalDateTime)
			}
		}

		if i > 0 {
			assert.True(t, timetable.StartingDateTime().After(timetables[i-1].StartingDateTime()), "trips sorted strictly by start")
		}
	}
}
