package transit

import (
	"time"

	"github.com/travigo/lookahead/pkg/roadgraph"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TravelRequest struct {
	ID                          primitive.ObjectID `bson:"_id,omitempty" json:"_id" groups:"detailed"`
	ClientID                    int                `bson:"client_id" json:"client_id" groups:"detailed"`
	LineID                      int                `bson:"line_id" json:"line_id" groups:"detailed"`
	StartingBusStop             roadgraph.BusStop  `bson:"starting_bus_stop" json:"starting_bus_stop" groups:"detailed"`
	EndingBusStop               roadgraph.BusStop  `bson:"ending_bus_stop" json:"ending_bus_stop" groups:"detailed"`
	DepartureDateTime           time.Time          `bson:"departure_datetime" json:"departure_datetime" groups:"detailed"`
	ArrivalDateTime             *time.Time         `bson:"arrival_datetime" json:"arrival_datetime" groups:"detailed"`
	StartingTimetableEntryIndex *int               `bson:"starting_timetable_entry_index" json:"starting_timetable_entry_index" groups:"detailed"`
	EndingTimetableEntryIndex   *int               `bson:"ending_timetable_entry_index" json:"ending_timetable_entry_index" groups:"detailed"`
}

// StartingIndex returns -1 until the request has been placed on a line
func (r *TravelRequest) StartingIndex() int {
	if r.StartingTimetableEntryIndex == nil {
		return -1
	}
	return *r.StartingTimetableEntryIndex
}

func (r *TravelRequest) EndingIndex() int {
	if r.EndingTimetableEntryIndex == nil {
		return -1
	}
	return *r.EndingTimetableEntryIndex
}

func (r *TravelRequest) SetEntryIndices(start int, end int) {
	r.StartingTimetableEntryIndex = &start
	r.EndingTimetableEntryIndex = &end
}
