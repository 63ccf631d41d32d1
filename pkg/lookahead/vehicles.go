package lookahead

import (
	"github.com/travigo/lookahead/pkg/transit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slices"
)

// AssignBusVehicles gives every trip a vehicle, earliest trip first. A trip goes to the first vehicle
// free for its whole window, new vehicles are added when none is. Routes the vehicles held for these
// trips before are released first so reassignment is repeatable.
func AssignBusVehicles(timetables []*transit.Timetable, busVehicles []*transit.BusVehicle, capacity int) []*transit.BusVehicle {
	timetableIDs := map[primitive.ObjectID]bool{}
	for _, timetable := range timetables {
		timetableIDs[timetable.ID] = true
	}

	nextBusVehicleID := 1
	for _, busVehicle := range busVehicles {
		busVehicle.ReleaseTimetables(timetableIDs)
		nextBusVehicleID = max(nextBusVehicleID, busVehicle.BusVehicleID+1)
	}

	ordered := slices.Clone(timetables)
	slices.SortStableFunc(ordered, func(a, b *transit.Timetable) int {
		return a.StartingDateTime().Compare(b.StartingDateTime())
	})

	for _, timetable := range ordered {
		assigned := false

		for _, busVehicle := range busVehicles {
			if busVehicle.MaximumCapacity < timetable.MaximumNumberOfCurrentPassengers() {
				continue
			}

			if busVehicle.AssignTimetable(timetable) == nil {
				assigned = true
				break
			}
		}

		if assigned {
			continue
		}

		busVehicle := &transit.BusVehicle{
			BusVehicleID:    nextBusVehicleID,
			MaximumCapacity: capacity,
		}
		nextBusVehicleID++

		// A fresh vehicle has no routes so this cannot fail
		_ = busVehicle.AssignTimetable(timetable)
		busVehicles = append(busVehicles, busVehicle)
	}

	return busVehicles
}
