package lookahead

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/lookahead/pkg/config"
	"github.com/travigo/lookahead/pkg/roadgraph"
	"github.com/travigo/lookahead/pkg/routegenerator"
	"github.com/travigo/lookahead/pkg/transit"
	"github.com/travigo/lookahead/pkg/util"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slices"
)

// RouteSource is satisfied by both the in-process router and the HTTP route generator client
type RouteSource interface {
	RouteBetweenMultipleBusStops(ctx context.Context, busStops []roadgraph.BusStop) ([]routegenerator.StopPairRoute, error)
}

type GeneratorConfig struct {
	MaximumBusCapacity             int
	AverageWaitingTimeThreshold    time.Duration
	IndividualWaitingTimeThreshold time.Duration
	MinimumNumberOfPassengers      int

	// Trips are laid out starting in [TimetablesStartingDateTime, TimetablesEndingDateTime)
	TimetablesStartingDateTime time.Time
	TimetablesEndingDateTime   time.Time

	// Only requests departing in [RequestsMinDepartureDateTime, RequestsMaxDepartureDateTime) are
	// planned. A zero bound is open.
	RequestsMinDepartureDateTime time.Time
	RequestsMaxDepartureDateTime time.Time
}

// NewGeneratorConfig plans the window [start, end) for requests departing in the same window
func NewGeneratorConfig(cfg *config.Config, start time.Time, end time.Time) GeneratorConfig {
	return GeneratorConfig{
		MaximumBusCapacity:             cfg.MaximumBusCapacity,
		AverageWaitingTimeThreshold:    cfg.AverageWaitingTimeThreshold,
		IndividualWaitingTimeThreshold: cfg.IndividualWaitingTimeThreshold,
		MinimumNumberOfPassengers:      cfg.MinimumNumberOfPassengers,

		TimetablesStartingDateTime: start,
		TimetablesEndingDateTime:   end,

		RequestsMinDepartureDateTime: start,
		RequestsMaxDepartureDateTime: end,
	}
}

func (c GeneratorConfig) inRequestWindow(departure time.Time) bool {
	if !c.RequestsMinDepartureDateTime.IsZero() && departure.Before(c.RequestsMinDepartureDateTime) {
		return false
	}
	if !c.RequestsMaxDepartureDateTime.IsZero() && !departure.Before(c.RequestsMaxDepartureDateTime) {
		return false
	}

	return true
}

type RejectedTravelRequest struct {
	TravelRequest transit.TravelRequest
	Err           error
}

type GenerationResult struct {
	LineID     int
	Timetables []*transit.Timetable

	// Assigned requests with their entry indices and arrival filled in
	TravelRequests []transit.TravelRequest
	Rejected       []RejectedTravelRequest
}

type TimetableGenerator struct {
	Config GeneratorConfig
	Routes RouteSource
}

// Generate plans the trips of one bus line for the given travel requests. The returned trips are
// sorted by starting instant, each within capacity.
func (g *TimetableGenerator) Generate(ctx context.Context, busLine transit.BusLine, travelRequests []transit.TravelRequest) (*GenerationResult, error) {
	run := &generation{
		config:  g.Config,
		busLine: busLine,
		logger:  log.With().Int("line", busLine.LineID).Logger(),
	}

	run.assignEntryIndices(travelRequests)

	if len(run.travelRequests) == 0 {
		run.logger.Debug().Int("rejected", len(run.rejected)).Msg("No travel requests to plan")
		return run.result(), nil
	}

	if err := run.resolveLineGeometry(ctx, g.Routes); err != nil {
		return nil, err
	}

	run.layoutInitialTimetables()
	run.assignTravelRequests()

	if err := run.resolveOvercrowding(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	run.adjustDepartures()
	run.divideByWaitingTime()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	run.migrateOutliers()
	run.mergeUndercrowded()
	run.finalise()

	run.logger.Info().
		Int("timetables", len(run.timetables)).
		Int("travelrequests", len(run.travelRequests)).
		Int("rejected", len(run.rejected)).
		Msg("Generated timetables")

	return run.result(), nil
}

// generation owns the working trip set of one line for a single run
type generation struct {
	config  GeneratorConfig
	busLine transit.BusLine
	logger  zerolog.Logger

	entries        []transit.TimetableEntry
	travelRequests []transit.TravelRequest
	rejected       []RejectedTravelRequest
	timetables     []*transit.Timetable
}

func (g *generation) resolveLineGeometry(ctx context.Context, routes RouteSource) error {
	if len(g.busLine.BusStops) < 2 {
		return fmt.Errorf("%w: line %d has fewer than two bus stops", ErrLineUnroutable, g.busLine.LineID)
	}

	stopPairRoutes, err := routes.RouteBetweenMultipleBusStops(ctx, g.busLine.BusStops)
	if errors.Is(err, roadgraph.ErrNoPath) || errors.Is(err, routegenerator.ErrStopNotFound) || errors.Is(err, routegenerator.ErrRouteServiceFailure) {
		return fmt.Errorf("%w: line %d: %w", ErrLineUnroutable, g.busLine.LineID, err)
	} else if err != nil {
		return err
	}

	if len(stopPairRoutes) != len(g.busLine.BusStops)-1 {
		return fmt.Errorf("%w: line %d got %d routes for %d bus stops", ErrLineUnroutable, g.busLine.LineID, len(stopPairRoutes), len(g.busLine.BusStops))
	}

	g.entries = make([]transit.TimetableEntry, len(stopPairRoutes))
	for i, stopPairRoute := range stopPairRoutes {
		if stopPairRoute.Route == nil {
			return fmt.Errorf("%w: line %d has no route after %s", ErrLineUnroutable, g.busLine.LineID, g.busLine.BusStops[i].Name)
		}

		g.entries[i] = transit.TimetableEntry{
			StartingBusStop: g.busLine.BusStops[i],
			EndingBusStop:   g.busLine.BusStops[i+1],
			TotalTime:       stopPairRoute.Route.TotalTime,
		}
	}

	return nil
}

func (g *generation) assignEntryIndices(travelRequests []transit.TravelRequest) {
	for _, travelRequest := range travelRequests {
		if travelRequest.LineID != g.busLine.LineID || !g.config.inRequestWindow(travelRequest.DepartureDateTime) {
			continue
		}

		if !g.busLine.HasBusStop(travelRequest.StartingBusStop.Name) || !g.busLine.HasBusStop(travelRequest.EndingBusStop.Name) {
			g.reject(travelRequest, ErrBadStop)
			continue
		}

		start, end, ok := g.busLine.EntryIndices(travelRequest.StartingBusStop.Name, travelRequest.EndingBusStop.Name)
		if !ok {
			g.reject(travelRequest, ErrRequestUnassignable)
			continue
		}

		travelRequest.SetEntryIndices(start, end)
		travelRequest.ArrivalDateTime = nil
		g.travelRequests = append(g.travelRequests, travelRequest)
	}
}

func (g *generation) reject(travelRequest transit.TravelRequest, err error) {
	g.logger.Warn().
		Err(err).
		Int("client", travelRequest.ClientID).
		Str("from", travelRequest.StartingBusStop.Name).
		Str("to", travelRequest.EndingBusStop.Name).
		Msg("Rejected travel request")

	g.rejected = append(g.rejected, RejectedTravelRequest{TravelRequest: travelRequest, Err: err})
}

// layoutInitialTimetables starts a trip every time the previous one finishes, until the window closes.
// Trips start on whole minutes.
func (g *generation) layoutInitialTimetables() {
	g.timetables = nil

	start := util.RoundUpMinute(g.config.TimetablesStartingDateTime)
	for start.Before(g.config.TimetablesEndingDateTime) {
		timetable := transit.NewTimetable(g.busLine.LineID, g.entries, start)
		g.timetables = append(g.timetables, timetable)

		next := util.RoundUpMinute(timetable.EndingDateTime())
		if !next.After(start) {
			next = start.Add(time.Minute)
		}
		start = next
	}

	g.logger.Debug().Int("timetables", len(g.timetables)).Msg("Laid out initial timetables")
}

func (g *generation) assignTravelRequests() {
	for _, travelRequest := range g.travelRequests {
		closest := transit.ClosestTimetable(travelRequest, g.timetables, nil)
		if closest == nil {
			g.reject(travelRequest, ErrRequestUnassignable)
			continue
		}

		closest.AddTravelRequest(travelRequest)
	}

	for _, timetable := range g.timetables {
		timetable.RecomputeCounts()
	}
}

func (g *generation) resolveOvercrowding() error {
	capacity := g.config.MaximumBusCapacity

	for iteration := 0; ; iteration++ {
		overcrowded := g.findTimetable(func(timetable *transit.Timetable) bool {
			return timetable.IsOvercrowded(capacity)
		})
		if overcrowded == nil {
			return nil
		}

		if iteration >= len(g.travelRequests) || len(overcrowded.TravelRequests) < 2 {
			return fmt.Errorf("%w: line %d trip at %s carries %d passengers", ErrCapacityInfeasible, g.busLine.LineID,
				overcrowded.StartingDateTime(), overcrowded.MaximumNumberOfCurrentPassengers())
		}

		g.timetables = append(g.timetables, overcrowded.Split())
	}
}

func (g *generation) adjustDepartures() {
	for _, timetable := range g.timetables {
		timetable.RecomputeDepartures()
		timetable.RecomputeCounts()
	}
}

// divideByWaitingTime splits trips whose passengers wait too long on average, keeping a split only
// when neither half is worse than the trip it came from
func (g *generation) divideByWaitingTime() {
	threshold := g.config.AverageWaitingTimeThreshold
	minimumToSplit := max(2*g.config.MinimumNumberOfPassengers, 2)
	settled := map[primitive.ObjectID]bool{}

	bound := 2*len(g.travelRequests) + len(g.timetables)
	for iteration := 0; iteration < bound; iteration++ {
		candidate := g.findTimetable(func(timetable *transit.Timetable) bool {
			return !settled[timetable.ID] &&
				len(timetable.TravelRequests) >= minimumToSplit &&
				timetable.AverageWaitingTime() > threshold
		})
		if candidate == nil {
			return
		}

		original := candidate.Clone()
		averageWaitingTime := candidate.AverageWaitingTime()

		additional := candidate.Split()
		if candidate.AverageWaitingTime() <= averageWaitingTime && additional.AverageWaitingTime() <= averageWaitingTime {
			g.timetables = append(g.timetables, additional)
			continue
		}

		*candidate = *original
		settled[candidate.ID] = true
	}

	g.logger.Warn().Int("iterations", bound).Msg("Stopped dividing timetables by waiting time")
}

// migrateOutliers moves passengers who wait longer than the individual threshold to a trip that
// serves them better. Passengers nobody can take move together onto a new trip when there are
// enough of them and that lowers the average wait.
func (g *generation) migrateOutliers() {
	individualThreshold := g.config.IndividualWaitingTimeThreshold

	numberOfTimetables := len(g.timetables)
	for i := 0; i < numberOfTimetables; i++ {
		timetable := g.timetables[i]
		averageWaitingTime := timetable.AverageWaitingTime()

		var kept, outliers []transit.TravelRequest
		for _, travelRequest := range timetable.TravelRequests {
			waitingTime := timetable.WaitingTime(travelRequest)
			if waitingTime <= individualThreshold {
				kept = append(kept, travelRequest)
				continue
			}

			if target := g.migrationTarget(timetable, travelRequest, waitingTime); target != nil {
				target.AddTravelRequest(travelRequest)
				target.RecomputeCounts()
				continue
			}

			outliers = append(outliers, travelRequest)
		}

		timetable.TravelRequests = append(kept, outliers...)
		timetable.RecomputeCounts()

		if len(outliers) == 0 || len(outliers) < g.config.MinimumNumberOfPassengers {
			continue
		}

		additional := timetable.CloneGeometry()
		additional.TravelRequests = outliers
		additional.RecomputeDepartures()
		additional.RecomputeCounts()

		if additional.AverageWaitingTime() < averageWaitingTime && !additional.IsOvercrowded(g.config.MaximumBusCapacity) {
			timetable.TravelRequests = kept
			timetable.RecomputeCounts()
			g.timetables = append(g.timetables, additional)
		}
	}
}

func (g *generation) migrationTarget(current *transit.Timetable, travelRequest transit.TravelRequest, waitingTime time.Duration) *transit.Timetable {
	target := transit.ClosestTimetable(travelRequest, g.timetables, func(candidate *transit.Timetable) bool {
		return candidate != current && len(candidate.TravelRequests) < g.config.MaximumBusCapacity
	})
	if target == nil {
		return nil
	}

	predicted := target.WaitingTime(travelRequest)
	if predicted < waitingTime &&
		predicted < g.config.AverageWaitingTimeThreshold &&
		predicted < g.config.IndividualWaitingTimeThreshold {
		return target
	}

	return nil
}

// mergeUndercrowded dissolves trips with too few passengers into the other trips of the line.
// A trip whose passengers cannot all be taken elsewhere within capacity is left as it is.
func (g *generation) mergeUndercrowded() {
	util.InPlaceFilter(&g.timetables, func(timetable *transit.Timetable) bool {
		return len(timetable.TravelRequests) > 0
	})

	kept := map[primitive.ObjectID]bool{}

	for iteration := 0; iteration <= len(g.travelRequests); iteration++ {
		if len(g.timetables) <= 1 {
			return
		}

		undercrowded := g.findTimetable(func(timetable *transit.Timetable) bool {
			return !kept[timetable.ID] && len(timetable.TravelRequests) < g.config.MinimumNumberOfPassengers
		})
		if undercrowded == nil {
			return
		}

		others := make([]*transit.Timetable, 0, len(g.timetables)-1)
		for _, timetable := range g.timetables {
			if timetable != undercrowded {
				others = append(others, timetable)
			}
		}

		if !undercrowded.MergeInto(others, g.config.MaximumBusCapacity) {
			g.logger.Debug().Time("departure", undercrowded.StartingDateTime()).Msg("Undercrowded timetable could not be merged")
			kept[undercrowded.ID] = true
			continue
		}

		g.timetables = others
	}
}

func (g *generation) finalise() {
	for _, timetable := range g.timetables {
		timetable.RecomputeDepartures()
		timetable.RecomputeCounts()
	}

	slices.SortStableFunc(g.timetables, func(a, b *transit.Timetable) int {
		return a.StartingDateTime().Compare(b.StartingDateTime())
	})

	for i := 1; i < len(g.timetables); i++ {
		previous := g.timetables[i-1].StartingDateTime()
		current := g.timetables[i].StartingDateTime()

		if !current.After(previous) {
			g.timetables[i].ShiftDepartures(previous.Add(time.Minute).Sub(current))
		}
	}

	for _, timetable := range g.timetables {
		timetable.RefreshArrivals()
	}
}

func (g *generation) findTimetable(predicate func(*transit.Timetable) bool) *transit.Timetable {
	for _, timetable := range g.timetables {
		if predicate(timetable) {
			return timetable
		}
	}

	return nil
}

func (g *generation) result() *GenerationResult {
	result := &GenerationResult{
		LineID:     g.busLine.LineID,
		Timetables: g.timetables,
		Rejected:   g.rejected,
	}

	for _, timetable := range g.timetables {
		result.TravelRequests = append(result.TravelRequests, timetable.TravelRequests...)
	}

	return result
}
