package lookahead

import (
	"io"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/travigo/lookahead/pkg/transit"
)

type TimetableEntryRow struct {
	TimetableID  string `csv:"timetable_id"`
	LineID       int    `csv:"line_id"`
	BusVehicleID string `csv:"bus_vehicle_id"`
	EntryIndex   int    `csv:"entry_index"`

	StartingBusStop string `csv:"starting_bus_stop"`
	EndingBusStop   string `csv:"ending_bus_stop"`
	Departure       string `csv:"departure_datetime"`
	Arrival         string `csv:"arrival_datetime"`
	TotalTime       int    `csv:"total_time"`

	Onboarding int `csv:"number_of_onboarding_passengers"`
	Deboarding int `csv:"number_of_deboarding_passengers"`
	Current    int `csv:"number_of_current_passengers"`
}

// TimetableRows flattens trips into one row per entry
func TimetableRows(timetables []*transit.Timetable) []*TimetableEntryRow {
	var rows []*TimetableEntryRow

	for _, timetable := range timetables {
		busVehicleID := ""
		if timetable.BusVehicleID != nil {
			busVehicleID = strconv.Itoa(*timetable.BusVehicleID)
		}

		for i, entry := range timetable.TimetableEntries {
			rows = append(rows, &TimetableEntryRow{
				TimetableID:     timetable.ID.Hex(),
				LineID:          timetable.LineID,
				BusVehicleID:    busVehicleID,
				EntryIndex:      i,
				StartingBusStop: entry.StartingBusStop.Name,
				EndingBusStop:   entry.EndingBusStop.Name,
				Departure:       entry.DepartureDateTime.Format(time.DateTime),
				Arrival:         entry.ArrivalDateTime.Format(time.DateTime),
				TotalTime:       int(entry.TotalTime),
				Onboarding:      entry.NumberOfOnboardingPassengers,
				Deboarding:      entry.NumberOfDeboardingPassengers,
				Current:         entry.NumberOfCurrentPassengers,
			})
		}
	}

	return rows
}

func ExportTimetablesCSV(w io.Writer, timetables []*transit.Timetable) error {
	rows := TimetableRows(timetables)
	if rows == nil {
		rows = []*TimetableEntryRow{}
	}

	return gocsv.Marshal(rows, w)
}
