package lookahead

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/travigo/lookahead/pkg/roadgraph"
	"github.com/travigo/lookahead/pkg/routegenerator"
	"github.com/travigo/lookahead/pkg/transit"
	"github.com/travigo/lookahead/pkg/util"
)

// UpdateTimetable applies fresh segment times to a trip. Departures only ever move later. Passengers
// keep their entry indices and get the new arrival of their last entry.
func UpdateTimetable(timetable *transit.Timetable, routes []routegenerator.StopPairRoute) error {
	if len(routes) != len(timetable.TimetableEntries) {
		return fmt.Errorf("timetable %s has %d entries but got %d routes", timetable.ID.Hex(), len(timetable.TimetableEntries), len(routes))
	}

	for i := range timetable.TimetableEntries {
		if routes[i].Route == nil {
			return fmt.Errorf("timetable %s has no route for entry %d", timetable.ID.Hex(), i)
		}

		entry := &timetable.TimetableEntries[i]
		entry.TotalTime = routes[i].Route.TotalTime

		if i > 0 {
			previousArrival := timetable.TimetableEntries[i-1].ArrivalDateTime
			entry.DepartureDateTime = util.MaxTime(entry.DepartureDateTime, util.CeilMinute(previousArrival))
		}
		entry.ArrivalDateTime = entry.DepartureDateTime.Add(entry.SegmentDuration())
	}

	timetable.RefreshArrivals()

	return nil
}

// timetableBusStops is the stop sequence a trip visits
func timetableBusStops(timetable *transit.Timetable) []roadgraph.BusStop {
	if len(timetable.TimetableEntries) == 0 {
		return nil
	}

	busStops := []roadgraph.BusStop{timetable.TimetableEntries[0].StartingBusStop}
	for _, entry := range timetable.TimetableEntries {
		busStops = append(busStops, entry.EndingBusStop)
	}

	return busStops
}

type TimetableUpdater struct {
	Routes RouteSource
}

// Update refreshes every trip, asking for routes once per distinct stop sequence.
// Trips that cannot be refreshed are logged and returned unchanged.
func (u *TimetableUpdater) Update(ctx context.Context, timetables []*transit.Timetable) []*transit.Timetable {
	routesBySequence := map[string][]routegenerator.StopPairRoute{}
	var updated []*transit.Timetable

	for _, timetable := range timetables {
		if err := ctx.Err(); err != nil {
			return updated
		}

		busStops := timetableBusStops(timetable)
		if len(busStops) < 2 {
			continue
		}

		key := busStopSequenceKey(busStops)
		routes, exists := routesBySequence[key]
		if !exists {
			var err error
			routes, err = u.Routes.RouteBetweenMultipleBusStops(ctx, busStops)
			if err != nil {
				log.Error().Err(err).Int("line", timetable.LineID).Str("timetable", timetable.ID.Hex()).Msg("Failed to get routes for timetable")
				continue
			}
			routesBySequence[key] = routes
		}

		if err := UpdateTimetable(timetable, routes); err != nil {
			log.Error().Err(err).Int("line", timetable.LineID).Msg("Failed to update timetable")
			continue
		}

		updated = append(updated, timetable)
	}

	return updated
}

func busStopSequenceKey(busStops []roadgraph.BusStop) string {
	names := make([]string, 0, len(busStops))
	for _, busStop := range busStops {
		names = append(names, busStop.Name)
	}

	return strings.Join(names, "\x00")
}
