package transit

import (
	"github.com/travigo/lookahead/pkg/roadgraph"
	"github.com/travigo/lookahead/pkg/util"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BusLine is an ordered sequence of stops. A stop may appear more than once, for example on loops.
type BusLine struct {
	ID       primitive.ObjectID  `bson:"_id,omitempty" json:"_id" groups:"basic"`
	LineID   int                 `bson:"line_id" json:"line_id" groups:"basic"`
	BusStops []roadgraph.BusStop `bson:"bus_stops" json:"bus_stops" groups:"basic"`
}

func (l *BusLine) BusStopNames() []string {
	names := make([]string, 0, len(l.BusStops))
	for _, busStop := range l.BusStops {
		names = append(names, busStop.Name)
	}

	return names
}

// EntryIndices locates a ride on the line. The starting index is the first position of the starting
// stop that is not the final stop. The ending index is the entry that arrives at the first occurrence
// of the ending stop after it. Returns false when either stop cannot be placed in that order.
func (l *BusLine) EntryIndices(startingBusStop string, endingBusStop string) (int, int, bool) {
	if len(l.BusStops) < 2 {
		return 0, 0, false
	}

	start := util.IndexFrom(l.BusStops[:len(l.BusStops)-1], 0, func(busStop roadgraph.BusStop) bool {
		return busStop.Name == startingBusStop
	})
	if start < 0 {
		return 0, 0, false
	}

	end := util.IndexFrom(l.BusStops, start+1, func(busStop roadgraph.BusStop) bool {
		return busStop.Name == endingBusStop
	})
	if end < 0 {
		return 0, 0, false
	}

	return start, end - 1, true
}

func (l *BusLine) HasBusStop(name string) bool {
	for _, busStop := range l.BusStops {
		if busStop.Name == name {
			return true
		}
	}

	return false
}
