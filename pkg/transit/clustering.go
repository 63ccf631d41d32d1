package transit

import "time"

// ClosestTimetable picks the trip whose departure at the request's starting entry is nearest to the
// desired departure. Only trips accepted by the filter are considered, a nil filter accepts all.
// Ties go to the earlier trip in the slice.
func ClosestTimetable(travelRequest TravelRequest, timetables []*Timetable, accept func(*Timetable) bool) *Timetable {
	var closest *Timetable
	var closestWaitingTime time.Duration

	for _, timetable := range timetables {
		if !timetable.validEntryIndex(travelRequest.StartingIndex()) {
			continue
		}
		if accept != nil && !accept(timetable) {
			continue
		}

		waitingTime := timetable.WaitingTime(travelRequest)
		if closest == nil || waitingTime < closestWaitingTime {
			closest = timetable
			closestWaitingTime = waitingTime
		}
	}

	return closest
}

// MergeInto moves every passenger of t to the closest of the other trips with spare capacity on the
// passenger's entries. Either all passengers move and true is returned, or nothing changes.
// Trips that received passengers are re-timed around their new passenger set.
func (t *Timetable) MergeInto(others []*Timetable, capacity int) bool {
	type move struct {
		travelRequest TravelRequest
		target        *Timetable
	}
	var moves []move

	undo := func() {
		for i := len(moves) - 1; i >= 0; i-- {
			target := moves[i].target
			target.RemoveTravelRequestAt(len(target.TravelRequests) - 1)
		}
	}

	for _, travelRequest := range t.TravelRequests {
		target := ClosestTimetable(travelRequest, others, func(candidate *Timetable) bool {
			return candidate != t && candidate.CanAccommodate(travelRequest, capacity)
		})

		if target == nil {
			undo()
			return false
		}

		target.AddTravelRequest(travelRequest)
		moves = append(moves, move{travelRequest: travelRequest, target: target})
	}

	t.TravelRequests = nil

	touched := map[*Timetable]bool{}
	for _, m := range moves {
		if !touched[m.target] {
			m.target.RecomputeDepartures()
			m.target.RecomputeCounts()
			touched[m.target] = true
		}
	}
	t.RecomputeCounts()

	return true
}
