package transit

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BusVehicleRoute struct {
	StartingDateTime time.Time          `bson:"starting_datetime" json:"starting_datetime"`
	EndingDateTime   time.Time          `bson:"ending_datetime" json:"ending_datetime"`
	TimetableID      primitive.ObjectID `bson:"timetable_id" json:"timetable_id"`
}

type BusVehicle struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	BusVehicleID    int                `bson:"bus_vehicle_id" json:"bus_vehicle_id"`
	MaximumCapacity int                `bson:"maximum_capacity" json:"maximum_capacity"`
	Routes          []BusVehicleRoute  `bson:"routes" json:"routes"`
}

// IsAvailable reports whether the window [start, end] overlaps none of the assigned routes
func (v *BusVehicle) IsAvailable(start time.Time, end time.Time) bool {
	for _, route := range v.Routes {
		if start.Before(route.EndingDateTime) && route.StartingDateTime.Before(end) {
			return false
		}
	}

	return true
}

func (v *BusVehicle) AssignTimetable(timetable *Timetable) error {
	start := timetable.StartingDateTime()
	end := timetable.EndingDateTime()

	if !v.IsAvailable(start, end) {
		return fmt.Errorf("bus vehicle %d is not available between %s and %s", v.BusVehicleID, start, end)
	}

	v.Routes = append(v.Routes, BusVehicleRoute{
		StartingDateTime: start,
		EndingDateTime:   end,
		TimetableID:      timetable.ID,
	})

	busVehicleID := v.BusVehicleID
	timetable.BusVehicleID = &busVehicleID

	return nil
}

// ReleaseTimetables drops every route that belongs to one of the given timetables
func (v *BusVehicle) ReleaseTimetables(timetableIDs map[primitive.ObjectID]bool) {
	routes := v.Routes[:0]
	for _, route := range v.Routes {
		if !timetableIDs[route.TimetableID] {
			routes = append(routes, route)
		}
	}
	v.Routes = routes
}

// RetainTimetables drops every route whose timetable is not one of the given ones and returns how
// many were dropped
func (v *BusVehicle) RetainTimetables(timetableIDs map[primitive.ObjectID]bool) int {
	routes := v.Routes[:0]
	for _, route := range v.Routes {
		if timetableIDs[route.TimetableID] {
			routes = append(routes, route)
		}
	}
	dropped := len(v.Routes) - len(routes)
	v.Routes = routes

	return dropped
}
