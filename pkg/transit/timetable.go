package transit

import (
	"time"

	"github.com/travigo/lookahead/pkg/roadgraph"
	"github.com/travigo/lookahead/pkg/util"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slices"
)

type TimetableEntry struct {
	StartingBusStop              roadgraph.BusStop `bson:"starting_bus_stop" json:"starting_bus_stop" groups:"basic"`
	EndingBusStop                roadgraph.BusStop `bson:"ending_bus_stop" json:"ending_bus_stop" groups:"basic"`
	DepartureDateTime            time.Time         `bson:"departure_datetime" json:"departure_datetime" groups:"basic"`
	ArrivalDateTime              time.Time         `bson:"arrival_datetime" json:"arrival_datetime" groups:"basic"`
	TotalTime                    float64           `bson:"total_time" json:"total_time" groups:"basic"`
	NumberOfOnboardingPassengers int               `bson:"number_of_onboarding_passengers" json:"number_of_onboarding_passengers" groups:"basic"`
	NumberOfDeboardingPassengers int               `bson:"number_of_deboarding_passengers" json:"number_of_deboarding_passengers" groups:"basic"`
	NumberOfCurrentPassengers    int               `bson:"number_of_current_passengers" json:"number_of_current_passengers" groups:"basic"`
}

func (e *TimetableEntry) SegmentDuration() time.Duration {
	return util.SecondsToDuration(e.TotalTime)
}

// Timetable is a single trip along a line together with the travel requests it serves
type Timetable struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id" groups:"basic"`
	LineID           int                `bson:"line_id" json:"line_id" groups:"basic"`
	BusVehicleID     *int               `bson:"bus_vehicle_id,omitempty" json:"bus_vehicle_id,omitempty" groups:"basic"`
	TimetableEntries []TimetableEntry   `bson:"timetable_entries" json:"timetable_entries" groups:"basic"`
	TravelRequests   []TravelRequest    `bson:"travel_requests" json:"travel_requests" groups:"detailed"`
}

// NewTimetable lays the entries out back to back from startingDateTime, each departure being the
// minute ceiling of the previous arrival
func NewTimetable(lineID int, entries []TimetableEntry, startingDateTime time.Time) *Timetable {
	timetable := &Timetable{
		ID:               primitive.NewObjectID(),
		LineID:           lineID,
		TimetableEntries: make([]TimetableEntry, len(entries)),
	}

	departure := startingDateTime
	for i, entry := range entries {
		entry.DepartureDateTime = departure
		entry.ArrivalDateTime = departure.Add(entry.SegmentDuration())
		entry.NumberOfOnboardingPassengers = 0
		entry.NumberOfDeboardingPassengers = 0
		entry.NumberOfCurrentPassengers = 0

		timetable.TimetableEntries[i] = entry
		departure = util.CeilMinute(entry.ArrivalDateTime)
	}

	return timetable
}

func (t *Timetable) StartingDateTime() time.Time {
	if len(t.TimetableEntries) == 0 {
		return time.Time{}
	}
	return t.TimetableEntries[0].DepartureDateTime
}

func (t *Timetable) EndingDateTime() time.Time {
	if len(t.TimetableEntries) == 0 {
		return time.Time{}
	}
	return t.TimetableEntries[len(t.TimetableEntries)-1].ArrivalDateTime
}

func (t *Timetable) AddTravelRequest(travelRequest TravelRequest) {
	t.TravelRequests = append(t.TravelRequests, travelRequest)
}

func (t *Timetable) RemoveTravelRequestAt(index int) TravelRequest {
	travelRequest := t.TravelRequests[index]
	t.TravelRequests = slices.Delete(t.TravelRequests, index, index+1)

	return travelRequest
}

func (t *Timetable) RecomputeCounts() {
	for i := range t.TimetableEntries {
		t.TimetableEntries[i].NumberOfOnboardingPassengers = 0
		t.TimetableEntries[i].NumberOfDeboardingPassengers = 0
		t.TimetableEntries[i].NumberOfCurrentPassengers = 0
	}

	for _, travelRequest := range t.TravelRequests {
		start, end := travelRequest.StartingIndex(), travelRequest.EndingIndex()
		if !t.validEntryIndex(start) || !t.validEntryIndex(end) {
			continue
		}

		t.TimetableEntries[start].NumberOfOnboardingPassengers++
		t.TimetableEntries[end].NumberOfDeboardingPassengers++
	}

	previousCurrent, previousDeboarding := 0, 0
	for i := range t.TimetableEntries {
		entry := &t.TimetableEntries[i]
		entry.NumberOfCurrentPassengers = previousCurrent - previousDeboarding + entry.NumberOfOnboardingPassengers

		previousCurrent = entry.NumberOfCurrentPassengers
		previousDeboarding = entry.NumberOfDeboardingPassengers
	}
}

// RecomputeDepartures moves every departure to the minute ceiling of the mean of the departures the
// assigned passengers would ideally want, keeping segments feasible. Recomputing with the same passengers
// changes nothing, and a trip without passengers keeps its times.
func (t *Timetable) RecomputeDepartures() {
	numberOfEntries := len(t.TimetableEntries)
	if numberOfEntries == 0 {
		return
	}

	idealDepartures := make([][]time.Time, numberOfEntries)
	for _, travelRequest := range t.TravelRequests {
		start := travelRequest.StartingIndex()
		if !t.validEntryIndex(start) {
			continue
		}

		departures := make([]time.Time, numberOfEntries)
		departures[start] = travelRequest.DepartureDateTime

		for k := start - 1; k >= 0; k-- {
			departures[k] = departures[k+1].Add(-t.TimetableEntries[k].SegmentDuration())
		}
		for k := start; k < numberOfEntries-1; k++ {
			departures[k+1] = departures[k].Add(t.TimetableEntries[k].SegmentDuration())
		}

		for k, departure := range departures {
			idealDepartures[k] = append(idealDepartures[k], departure)
		}
	}

	// without passengers there is nothing to aim for
	if len(idealDepartures[0]) == 0 {
		return
	}

	for i := range t.TimetableEntries {
		entry := &t.TimetableEntries[i]
		target := util.MeanTime(idealDepartures[i])

		if i == 0 {
			entry.DepartureDateTime = util.CeilMinute(target)
		} else {
			previous := t.TimetableEntries[i-1]
			earliest := previous.DepartureDateTime.Add(previous.SegmentDuration())
			entry.DepartureDateTime = util.CeilMinute(util.MaxTime(target, earliest))
		}

		entry.ArrivalDateTime = entry.DepartureDateTime.Add(entry.SegmentDuration())
	}
}

// RefreshArrivals sets every passenger's arrival to the arrival of their last entry
func (t *Timetable) RefreshArrivals() {
	for k := range t.TravelRequests {
		travelRequest := &t.TravelRequests[k]
		if !t.validEntryIndex(travelRequest.EndingIndex()) {
			continue
		}

		arrival := t.TimetableEntries[travelRequest.EndingIndex()].ArrivalDateTime
		travelRequest.ArrivalDateTime = &arrival
	}
}

// ShiftDepartures moves the whole trip by d without changing segment times
func (t *Timetable) ShiftDepartures(d time.Duration) {
	for i := range t.TimetableEntries {
		t.TimetableEntries[i].DepartureDateTime = t.TimetableEntries[i].DepartureDateTime.Add(d)
		t.TimetableEntries[i].ArrivalDateTime = t.TimetableEntries[i].ArrivalDateTime.Add(d)
	}
}

// CloneGeometry returns a new trip with the same stops and times but no passengers
func (t *Timetable) CloneGeometry() *Timetable {
	clone := &Timetable{
		ID:               primitive.NewObjectID(),
		LineID:           t.LineID,
		TimetableEntries: make([]TimetableEntry, len(t.TimetableEntries)),
	}

	for i, entry := range t.TimetableEntries {
		entry.NumberOfOnboardingPassengers = 0
		entry.NumberOfDeboardingPassengers = 0
		entry.NumberOfCurrentPassengers = 0
		clone.TimetableEntries[i] = entry
	}

	return clone
}

// Clone copies the trip including its identity and passengers
func (t *Timetable) Clone() *Timetable {
	return &Timetable{
		ID:               t.ID,
		LineID:           t.LineID,
		BusVehicleID:     t.BusVehicleID,
		TimetableEntries: slices.Clone(t.TimetableEntries),
		TravelRequests:   slices.Clone(t.TravelRequests),
	}
}

// Split moves roughly half of the passengers boarding at each stop, the later ones, onto a copy of
// this trip. Both trips end up with at least one passenger when there were at least two.
func (t *Timetable) Split() *Timetable {
	additional := t.CloneGeometry()

	groups := map[int][]TravelRequest{}
	var startingIndices []int
	for _, travelRequest := range t.TravelRequests {
		start := travelRequest.StartingIndex()
		if _, exists := groups[start]; !exists {
			startingIndices = append(startingIndices, start)
		}
		groups[start] = append(groups[start], travelRequest)
	}
	slices.Sort(startingIndices)

	var kept []TravelRequest
	for _, startingIndex := range startingIndices {
		group := groups[startingIndex]
		slices.SortStableFunc(group, func(a, b TravelRequest) int {
			return a.DepartureDateTime.Compare(b.DepartureDateTime)
		})

		half := len(group) / 2
		kept = append(kept, group[:half]...)
		additional.TravelRequests = append(additional.TravelRequests, group[len(group)-half:]...)

		if len(group)%2 == 1 {
			middle := group[half]
			if len(kept) < len(additional.TravelRequests) {
				kept = append(kept, middle)
			} else {
				additional.TravelRequests = append(additional.TravelRequests, middle)
			}
		}
	}

	t.TravelRequests = kept

	for _, timetable := range []*Timetable{t, additional} {
		timetable.RecomputeDepartures()
		timetable.RecomputeCounts()
	}

	return additional
}

func (t *Timetable) WaitingTime(travelRequest TravelRequest) time.Duration {
	start := travelRequest.StartingIndex()
	if !t.validEntryIndex(start) {
		return 0
	}

	return util.AbsDuration(t.TimetableEntries[start].DepartureDateTime.Sub(travelRequest.DepartureDateTime))
}

// AverageWaitingTime is zero for a trip without passengers
func (t *Timetable) AverageWaitingTime() time.Duration {
	if len(t.TravelRequests) == 0 {
		return 0
	}

	var total time.Duration
	for _, travelRequest := range t.TravelRequests {
		total += t.WaitingTime(travelRequest)
	}

	return total / time.Duration(len(t.TravelRequests))
}

func (t *Timetable) MaximumNumberOfCurrentPassengers() int {
	maximum := 0
	for _, entry := range t.TimetableEntries {
		maximum = max(maximum, entry.NumberOfCurrentPassengers)
	}

	return maximum
}

func (t *Timetable) IsOvercrowded(capacity int) bool {
	return t.MaximumNumberOfCurrentPassengers() > capacity
}

// CanAccommodate reports whether one more passenger riding the request's entries keeps the trip
// within capacity. Counts are derived from the assigned requests, not the stored counters.
func (t *Timetable) CanAccommodate(travelRequest TravelRequest, capacity int) bool {
	start, end := travelRequest.StartingIndex(), travelRequest.EndingIndex()
	if !t.validEntryIndex(start) || !t.validEntryIndex(end) {
		return false
	}

	occupancy := make([]int, len(t.TimetableEntries))
	for _, assigned := range t.TravelRequests {
		for i := max(assigned.StartingIndex(), 0); i <= assigned.EndingIndex() && i < len(occupancy); i++ {
			occupancy[i]++
		}
	}

	for i := start; i <= end; i++ {
		if occupancy[i]+1 > capacity {
			return false
		}
	}

	return true
}

func (t *Timetable) validEntryIndex(index int) bool {
	return index >= 0 && index < len(t.TimetableEntries)
}
