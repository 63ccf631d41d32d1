package transit

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/lookahead/pkg/roadgraph"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slices"
)

var eight = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func stops(names ...string) []roadgraph.BusStop {
	busStops := make([]roadgraph.BusStop, 0, len(names))
	for i, name := range names {
		busStops = append(busStops, roadgraph.BusStop{OsmID: int64(i + 1), Name: name})
	}
	return busStops
}

func entries(busStops []roadgraph.BusStop, segmentTimes ...float64) []TimetableEntry {
	timetableEntries := make([]TimetableEntry, 0, len(segmentTimes))
	for i, segmentTime := range segmentTimes {
		timetableEntries = append(timetableEntries, TimetableEntry{
			StartingBusStop: busStops[i],
			EndingBusStop:   busStops[i+1],
			TotalTime:       segmentTime,
		})
	}
	return timetableEntries
}

func request(clientID int, start int, end int, departure time.Time) TravelRequest {
	travelRequest := TravelRequest{ClientID: clientID, LineID: 1, DepartureDateTime: departure}
	travelRequest.SetEntryIndices(start, end)
	return travelRequest
}

func TestNewTimetableLayout(t *testing.T) {
	timetable := NewTimetable(1, entries(stops("A", "B", "C"), 600, 630), eight)

	assert.Equal(t, eight, timetable.StartingDateTime())
	assert.Equal(t, eight.Add(10*time.Minute), timetable.TimetableEntries[0].ArrivalDateTime)
	assert.Equal(t, eight.Add(11*time.Minute), timetable.TimetableEntries[1].DepartureDateTime)
	assert.Equal(t, eight.Add(21*time.Minute+30*time.Second), timetable.EndingDateTime())
	assert.False(t, timetable.ID.IsZero())
}

func TestRecomputeCounts(t *testing.T) {
	timetable := NewTimetable(1, entries(stops("A", "B", "C", "D"), 60, 60, 60), eight)
	timetable.AddTravelRequest(request(1, 0, 2, eight))
	timetable.AddTravelRequest(request(2, 0, 0, eight))
	timetable.AddTravelRequest(request(3, 1, 2, eight))

	timetable.RecomputeCounts()

	e := timetable.TimetableEntries
	assert.Equal(t, []int{2, 1, 0}, []int{e[0].NumberOfOnboardingPassengers, e[1].NumberOfOnboardingPassengers, e[2].NumberOfOnboardingPassengers})
	assert.Equal(t, []int{1, 0, 2}, []int{e[0].NumberOfDeboardingPassengers, e[1].NumberOfDeboardingPassengers, e[2].NumberOfDeboardingPassengers})
	assert.Equal(t, []int{2, 2, 2}, []int{e[0].NumberOfCurrentPassengers, e[1].NumberOfCurrentPassengers, e[2].NumberOfCurrentPassengers})
	assert.Equal(t, 2, timetable.MaximumNumberOfCurrentPassengers())
	assert.True(t, timetable.IsOvercrowded(1))
	assert.False(t, timetable.IsOvercrowded(2))

	removed := timetable.RemoveTravelRequestAt(0)
	assert.Equal(t, 1, removed.ClientID)
	timetable.RecomputeCounts()
	assert.Equal(t, 1, timetable.MaximumNumberOfCurrentPassengers())
}

func TestRecomputeDepartures(t *testing.T) {
	timetable := NewTimetable(1, entries(stops("A", "B", "C"), 600, 600), eight)
	timetable.AddTravelRequest(request(1, 0, 1, eight.Add(10*time.Minute)))
	timetable.AddTravelRequest(request(2, 0, 1, eight.Add(20*time.Minute)))

	timetable.RecomputeDepartures()

	// mean of 08:10 and 08:20 is 08:15, the next minute is 08:16
	assert.Equal(t, eight.Add(16*time.Minute), timetable.StartingDateTime())
	// B can be reached at 08:26 at the earliest
	assert.Equal(t, eight.Add(27*time.Minute), timetable.TimetableEntries[1].DepartureDateTime)
	assert.Equal(t, eight.Add(37*time.Minute), timetable.EndingDateTime())

	before := slices.Clone(timetable.TimetableEntries)
	timetable.RecomputeDepartures()
	assert.Equal(t, before, timetable.TimetableEntries)
}

func TestRecomputeDeparturesWithoutPassengers(t *testing.T) {
	timetable := NewTimetable(1, entries(stops("A", "B", "C"), 600, 600), eight)

	timetable.RecomputeDepartures()

	assert.Equal(t, eight, timetable.StartingDateTime())
	assert.Equal(t, eight.Add(11*time.Minute), timetable.TimetableEntries[1].DepartureDateTime)
}

func TestRecomputeDeparturesPropagatesBackwards(t *testing.T) {
	timetable := NewTimetable(1, entries(stops("A", "B", "C"), 600, 600), eight)
	timetable.AddTravelRequest(request(1, 1, 1, eight.Add(30*time.Minute)))

	timetable.RecomputeDepartures()

	// the passenger boarding at B at 08:30 wants A at 08:20
	assert.Equal(t, eight.Add(21*time.Minute), timetable.StartingDateTime())
	assert.Equal(t, eight.Add(32*time.Minute), timetable.TimetableEntries[1].DepartureDateTime)
}

func TestRecomputeDeparturesKeepsInvariants(t *testing.T) {
	timetable := NewTimetable(1, entries(stops("A", "B", "C", "D"), 301.5, 45, 700), eight)
	timetable.AddTravelRequest(request(1, 2, 2, eight.Add(-3*time.Minute)))
	timetable.AddTravelRequest(request(2, 0, 1, eight.Add(7*time.Minute+13*time.Second)))

	timetable.RecomputeDepartures()

	for i, entry := range timetable.TimetableEntries {
		assert.Zero(t, entry.DepartureDateTime.Second())
		assert.Zero(t, entry.DepartureDateTime.Nanosecond())
		assert.Equal(t, entry.DepartureDateTime.Add(entry.SegmentDuration()), entry.ArrivalDateTime)

		if i > 0 {
			previous := timetable.TimetableEntries[i-1]
			assert.False(t, entry.DepartureDateTime.Before(previous.DepartureDateTime.Add(previous.SegmentDuration())))
		}
	}
}

func TestSplit(t *testing.T) {
	timetable := NewTimetable(1, entries(stops("A", "B", "C"), 300, 300), eight)
	for i := 0; i < 5; i++ {
		timetable.AddTravelRequest(request(i, 0, 1, eight.Add(time.Duration(i)*time.Minute)))
	}
	timetable.AddTravelRequest(request(10, 1, 1, eight.Add(20*time.Minute)))

	additional := timetable.Split()

	assert.NotEqual(t, timetable.ID, additional.ID)
	assert.Len(t, timetable.TravelRequests, 3)
	assert.Len(t, additional.TravelRequests, 3)

	clientIDs := func(timetable *Timetable) []int {
		var ids []int
		for _, travelRequest := range timetable.TravelRequests {
			ids = append(ids, travelRequest.ClientID)
		}
		return ids
	}
	assert.ElementsMatch(t, []int{0, 1, 10}, clientIDs(timetable))
	assert.ElementsMatch(t, []int{2, 3, 4}, clientIDs(additional))

	assert.Equal(t, 2, timetable.TimetableEntries[0].NumberOfCurrentPassengers)
	assert.Equal(t, 3, timetable.TimetableEntries[1].NumberOfCurrentPassengers)
	assert.Equal(t, 3, additional.MaximumNumberOfCurrentPassengers())
}

func TestSplitTwoSingletons(t *testing.T) {
	timetable := NewTimetable(1, entries(stops("A", "B", "C"), 300, 300), eight)
	timetable.AddTravelRequest(request(1, 0, 1, eight))
	timetable.AddTravelRequest(request(2, 1, 1, eight.Add(5*time.Minute)))

	additional := timetable.Split()

	assert.Len(t, timetable.TravelRequests, 1)
	assert.Len(t, additional.TravelRequests, 1)
}

func TestWaitingTimes(t *testing.T) {
	timetable := NewTimetable(1, entries(stops("A", "B", "C"), 600, 600), eight)
	assert.Zero(t, timetable.AverageWaitingTime())

	early := request(1, 0, 1, eight.Add(-2*time.Minute))
	late := request(2, 1, 1, eight.Add(14*time.Minute))
	timetable.AddTravelRequest(early)
	timetable.AddTravelRequest(late)

	assert.Equal(t, 2*time.Minute, timetable.WaitingTime(early))
	assert.Equal(t, 4*time.Minute, timetable.WaitingTime(late))
	assert.Equal(t, 3*time.Minute, timetable.AverageWaitingTime())
}

func TestClosestTimetable(t *testing.T) {
	lineEntries := entries(stops("A", "B"), 600)
	first := NewTimetable(1, lineEntries, eight)
	second := NewTimetable(1, lineEntries, eight.Add(30*time.Minute))
	timetables := []*Timetable{first, second}

	assert.Same(t, first, ClosestTimetable(request(1, 0, 0, eight.Add(14*time.Minute)), timetables, nil))
	assert.Same(t, second, ClosestTimetable(request(1, 0, 0, eight.Add(16*time.Minute)), timetables, nil))
	assert.Same(t, first, ClosestTimetable(request(1, 0, 0, eight.Add(15*time.Minute)), timetables, nil))

	onlySecond := func(candidate *Timetable) bool { return candidate == second }
	assert.Same(t, second, ClosestTimetable(request(1, 0, 0, eight), timetables, onlySecond))

	assert.Nil(t, ClosestTimetable(request(1, 0, 0, eight), nil, nil))
	assert.Nil(t, ClosestTimetable(request(1, 4, 4, eight), timetables, nil))
}

func TestCanAccommodate(t *testing.T) {
	timetable := NewTimetable(1, entries(stops("A", "B", "C"), 600, 600), eight)
	timetable.AddTravelRequest(request(1, 0, 0, eight))

	assert.True(t, timetable.CanAccommodate(request(2, 1, 1, eight), 1))
	assert.False(t, timetable.CanAccommodate(request(2, 0, 1, eight), 1))
	assert.True(t, timetable.CanAccommodate(request(2, 0, 1, eight), 2))
}

func TestMergeInto(t *testing.T) {
	lineEntries := entries(stops("A", "B"), 600)
	small := NewTimetable(1, lineEntries, eight.Add(10*time.Minute))
	small.AddTravelRequest(request(1, 0, 0, eight.Add(9*time.Minute)))
	small.AddTravelRequest(request(2, 0, 0, eight.Add(21*time.Minute)))

	early := NewTimetable(1, lineEntries, eight)
	late := NewTimetable(1, lineEntries, eight.Add(30*time.Minute))
	others := []*Timetable{small, early, late}

	require.True(t, small.MergeInto(others, 10))
	assert.Empty(t, small.TravelRequests)
	assert.Len(t, early.TravelRequests, 1)
	assert.Len(t, late.TravelRequests, 1)
	assert.Equal(t, 1, early.MaximumNumberOfCurrentPassengers())

	// the receiving trips are re-timed around their passengers
	assert.Equal(t, eight.Add(10*time.Minute), early.StartingDateTime())
	assert.Equal(t, eight.Add(22*time.Minute), late.StartingDateTime())
}

func TestSplitThenMergeKeepsAverageWaitingTime(t *testing.T) {
	random := rand.New(rand.NewPCG(7, 11))
	lineEntries := entries(stops("A", "B", "C", "D"), 300, 427.5, 600)

	for run := 0; run < 500; run++ {
		timetable := NewTimetable(1, lineEntries, eight)

		numberOfRequests := 2 + random.IntN(40)
		for i := 0; i < numberOfRequests; i++ {
			start := random.IntN(3)
			end := start + random.IntN(3-start)
			departure := eight.Add(time.Duration(random.IntN(3600)) * time.Second)
			timetable.AddTravelRequest(request(i, start, end, departure))
		}
		timetable.RecomputeDepartures()
		timetable.RecomputeCounts()
		before := timetable.AverageWaitingTime()

		additional := timetable.Split()
		require.True(t, additional.MergeInto([]*Timetable{timetable}, numberOfRequests))

		assert.Empty(t, additional.TravelRequests)
		assert.Len(t, timetable.TravelRequests, numberOfRequests)
		assert.LessOrEqual(t, timetable.AverageWaitingTime(), before, "run %d", run)
	}
}

func TestMergeIntoRevertsWhenFull(t *testing.T) {
	lineEntries := entries(stops("A", "B"), 600)
	small := NewTimetable(1, lineEntries, eight.Add(10*time.Minute))
	small.AddTravelRequest(request(1, 0, 0, eight.Add(1*time.Minute)))
	small.AddTravelRequest(request(2, 0, 0, eight.Add(2*time.Minute)))

	other := NewTimetable(1, lineEntries, eight)
	other.AddTravelRequest(request(3, 0, 0, eight))

	assert.False(t, small.MergeInto([]*Timetable{other}, 2))
	assert.Len(t, small.TravelRequests, 2)
	assert.Len(t, other.TravelRequests, 1)
}

func TestBusLineEntryIndices(t *testing.T) {
	line := BusLine{LineID: 1, BusStops: stops("A", "B", "C", "A")}
	line.BusStops[3] = line.BusStops[0]

	tests := []struct {
		name       string
		start, end string
		startIndex int
		endIndex   int
		found      bool
	}{
		{"first segment", "A", "B", 0, 0, true},
		{"two segments", "A", "C", 0, 1, true},
		{"loop back", "B", "A", 1, 2, true},
		{"wrong order", "C", "B", 0, 0, false},
		{"unknown stop", "A", "Z", 0, 0, false},
		{"same stop on loop", "A", "A", 0, 2, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			start, end, found := line.EntryIndices(test.start, test.end)
			assert.Equal(t, test.found, found)
			if test.found {
				assert.Equal(t, test.startIndex, start)
				assert.Equal(t, test.endIndex, end)
			}
		})
	}

	assert.Equal(t, []string{"A", "B", "C", "A"}, line.BusStopNames())
	assert.True(t, line.HasBusStop("C"))
	assert.False(t, line.HasBusStop("Z"))
}

func TestBusVehicleAvailability(t *testing.T) {
	lineEntries := entries(stops("A", "B"), 600)
	first := NewTimetable(1, lineEntries, eight)
	overlapping := NewTimetable(1, lineEntries, eight.Add(5*time.Minute))
	after := NewTimetable(1, lineEntries, eight.Add(10*time.Minute))

	vehicle := &BusVehicle{BusVehicleID: 4, MaximumCapacity: 100}
	require.NoError(t, vehicle.AssignTimetable(first))
	assert.Error(t, vehicle.AssignTimetable(overlapping))
	require.NoError(t, vehicle.AssignTimetable(after))

	require.NotNil(t, first.BusVehicleID)
	assert.Equal(t, 4, *first.BusVehicleID)
	assert.Nil(t, overlapping.BusVehicleID)

	vehicle.ReleaseTimetables(map[primitive.ObjectID]bool{first.ID: true})
	assert.Len(t, vehicle.Routes, 1)
	assert.True(t, vehicle.IsAvailable(eight, eight.Add(5*time.Minute)))
}

func TestBusVehicleRetainTimetables(t *testing.T) {
	lineEntries := entries(stops("A", "B"), 600)
	kept := NewTimetable(1, lineEntries, eight)
	removed := NewTimetable(1, lineEntries, eight.Add(20*time.Minute))

	vehicle := &BusVehicle{BusVehicleID: 1, MaximumCapacity: 100}
	require.NoError(t, vehicle.AssignTimetable(kept))
	require.NoError(t, vehicle.AssignTimetable(removed))

	assert.Equal(t, 1, vehicle.RetainTimetables(map[primitive.ObjectID]bool{kept.ID: true}))
	require.Len(t, vehicle.Routes, 1)
	assert.Equal(t, kept.ID, vehicle.Routes[0].TimetableID)
	assert.True(t, vehicle.IsAvailable(eight.Add(20*time.Minute), eight.Add(30*time.Minute)))

	assert.Zero(t, vehicle.RetainTimetables(map[primitive.ObjectID]bool{kept.ID: true}))
}
