package lookahead

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/lookahead/pkg/config"
	"github.com/travigo/lookahead/pkg/roadgraph"
	"github.com/travigo/lookahead/pkg/routegenerator"
	"github.com/travigo/lookahead/pkg/transit"
	"github.com/travigo/lookahead/pkg/util"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Repository interface {
	FindBusLines(ctx context.Context) ([]transit.BusLine, error)
	FindBusLine(ctx context.Context, lineID int) (*transit.BusLine, error)
	SaveBusLine(ctx context.Context, busLine *transit.BusLine) error
	SaveBusStopWaypoints(ctx context.Context, waypoints *roadgraph.BusStopWaypoints) error

	FindTravelRequests(ctx context.Context, lineID int, from time.Time, to time.Time) ([]transit.TravelRequest, error)
	SaveTravelRequests(ctx context.Context, travelRequests []transit.TravelRequest) error

	FindTimetables(ctx context.Context, lineID int) ([]*transit.Timetable, error)
	FindAllTimetables(ctx context.Context) ([]*transit.Timetable, error)
	ReplaceTimetablesOfLine(ctx context.Context, lineID int, timetables []*transit.Timetable) error
	UpdateExistingTimetable(ctx context.Context, timetable *transit.Timetable) (bool, error)

	FindBusVehicles(ctx context.Context) ([]*transit.BusVehicle, error)
	SaveBusVehicle(ctx context.Context, busVehicle *transit.BusVehicle) error
}

type RouteService interface {
	RouteSource
	WaypointsBetweenMultipleBusStops(ctx context.Context, busStopNames []string) ([]routegenerator.StopPairWaypoints, error)
}

// LookAheadHandler runs the planning operations against the store
type LookAheadHandler struct {
	Repository Repository
	Routes     RouteService
	Config     *config.Config

	// Zero means the start of the current day
	PlanningStart time.Time

	MaximumConcurrency int
}

func (h *LookAheadHandler) PlanningWindow() (time.Time, time.Time, error) {
	start := h.PlanningStart
	if start.IsZero() {
		start = util.StartOfDay(time.Now())
	}

	return h.Config.PlanningWindowFrom(start)
}

// GenerateBusLine registers a line from its stop names, storing the candidate waypoints between
// every pair of adjacent stops
func (h *LookAheadHandler) GenerateBusLine(ctx context.Context, lineID int, busStopNames []string) (*transit.BusLine, error) {
	stopPairsWaypoints, err := h.Routes.WaypointsBetweenMultipleBusStops(ctx, busStopNames)
	if err != nil {
		return nil, fmt.Errorf("bus line %d: %w", lineID, err)
	}

	busLine := &transit.BusLine{LineID: lineID}

	for i, stopPairWaypoints := range stopPairsWaypoints {
		if i == 0 {
			busLine.BusStops = append(busLine.BusStops, stopPairWaypoints.StartingBusStop)
		}
		busLine.BusStops = append(busLine.BusStops, stopPairWaypoints.EndingBusStop)

		waypoints := &roadgraph.BusStopWaypoints{
			StartingBusStop: stopPairWaypoints.StartingBusStop,
			EndingBusStop:   stopPairWaypoints.EndingBusStop,
		}
		for _, edges := range stopPairWaypoints.Waypoints {
			edgeIDs := make([]primitive.ObjectID, 0, len(edges))
			for _, edge := range edges {
				edgeIDs = append(edgeIDs, edge.ID)
			}
			waypoints.Waypoints = append(waypoints.Waypoints, edgeIDs)
		}

		if err := h.Repository.SaveBusStopWaypoints(ctx, waypoints); err != nil {
			return nil, err
		}
	}

	if err := h.Repository.SaveBusLine(ctx, busLine); err != nil {
		return nil, err
	}

	log.Info().Int("line", lineID).Int("busstops", len(busLine.BusStops)).Msg("Generated bus line")

	return busLine, nil
}

func (h *LookAheadHandler) generatorConfig() (GeneratorConfig, error) {
	start, end, err := h.PlanningWindow()
	if err != nil {
		return GeneratorConfig{}, err
	}

	return NewGeneratorConfig(h.Config, start, end), nil
}

// GenerateTimetablesOfBusLine replans one line and publishes the result, replacing its previous trips
func (h *LookAheadHandler) GenerateTimetablesOfBusLine(ctx context.Context, runID string, busLine transit.BusLine) (*GenerationResult, error) {
	generatorConfig, err := h.generatorConfig()
	if err != nil {
		return nil, err
	}

	startTime := time.Now()

	result, err := h.generateTimetables(ctx, generatorConfig, busLine)

	PublishGenerationReport(NewGenerationReport(runID, busLine.LineID, result, time.Since(startTime), err))

	return result, err
}

func (h *LookAheadHandler) generateTimetables(ctx context.Context, generatorConfig GeneratorConfig, busLine transit.BusLine) (*GenerationResult, error) {
	travelRequests, err := h.Repository.FindTravelRequests(ctx, busLine.LineID, generatorConfig.RequestsMinDepartureDateTime, generatorConfig.RequestsMaxDepartureDateTime)
	if err != nil {
		return nil, err
	}

	generator := &TimetableGenerator{
		Config: generatorConfig,
		Routes: h.Routes,
	}

	result, err := generator.Generate(ctx, busLine, travelRequests)
	if err != nil {
		return nil, err
	}

	if err := h.Repository.ReplaceTimetablesOfLine(ctx, busLine.LineID, result.Timetables); err != nil {
		return nil, err
	}

	if err := h.Repository.SaveTravelRequests(ctx, result.TravelRequests); err != nil {
		return nil, err
	}

	return result, nil
}

func (h *LookAheadHandler) GenerateTimetablesOfAllBusLines(ctx context.Context) error {
	runID := NewRunID()

	return h.forEachBusLine(ctx, func(ctx context.Context, busLine transit.BusLine) error {
		_, err := h.GenerateTimetablesOfBusLine(ctx, runID, busLine)
		return err
	})
}

// UpdateTimetablesOfBusLine applies current travel times to the stored trips of a line. Trips
// removed by a concurrent generator run are skipped.
func (h *LookAheadHandler) UpdateTimetablesOfBusLine(ctx context.Context, lineID int) error {
	timetables, err := h.Repository.FindTimetables(ctx, lineID)
	if err != nil {
		return err
	}

	updater := &TimetableUpdater{Routes: h.Routes}

	stale := 0
	for _, timetable := range updater.Update(ctx, timetables) {
		saved, err := h.Repository.UpdateExistingTimetable(ctx, timetable)
		if err != nil {
			return err
		}
		if !saved {
			stale++
		}
	}

	log.Debug().Int("line", lineID).Int("timetables", len(timetables)).Int("stale", stale).Msg("Updated timetables")

	return nil
}

func (h *LookAheadHandler) UpdateTimetablesOfAllBusLines(ctx context.Context) error {
	return h.forEachBusLine(ctx, func(ctx context.Context, busLine transit.BusLine) error {
		return h.UpdateTimetablesOfBusLine(ctx, busLine.LineID)
	})
}

// AssignBusVehicles gives every stored trip a vehicle and saves both sides of the assignment
func (h *LookAheadHandler) AssignBusVehicles(ctx context.Context) ([]*transit.BusVehicle, error) {
	timetables, err := h.Repository.FindAllTimetables(ctx)
	if err != nil {
		return nil, err
	}

	busVehicles, err := h.Repository.FindBusVehicles(ctx)
	if err != nil {
		return nil, err
	}

	// Trips replaced by a later generation run are gone from the store but still block their vehicles
	existing := map[primitive.ObjectID]bool{}
	for _, timetable := range timetables {
		existing[timetable.ID] = true
	}
	for _, busVehicle := range busVehicles {
		if dropped := busVehicle.RetainTimetables(existing); dropped > 0 {
			log.Debug().Int("busvehicle", busVehicle.BusVehicleID).Int("routes", dropped).Msg("Released routes of removed timetables")
		}
	}

	busVehicles = AssignBusVehicles(timetables, busVehicles, h.Config.MaximumBusCapacity)

	for _, busVehicle := range busVehicles {
		if err := h.Repository.SaveBusVehicle(ctx, busVehicle); err != nil {
			return nil, err
		}
	}

	for _, timetable := range timetables {
		if _, err := h.Repository.UpdateExistingTimetable(ctx, timetable); err != nil {
			return nil, err
		}
	}

	log.Info().Int("timetables", len(timetables)).Int("busvehicles", len(busVehicles)).Msg("Assigned bus vehicles")

	return busVehicles, nil
}

// forEachBusLine runs work on every line in parallel. A failing line is logged and does not stop
// the others, the joined errors are returned.
func (h *LookAheadHandler) forEachBusLine(ctx context.Context, work func(ctx context.Context, busLine transit.BusLine) error) error {
	busLines, err := h.Repository.FindBusLines(ctx)
	if err != nil {
		return err
	}

	p := pool.New().WithErrors().WithContext(ctx)
	if h.MaximumConcurrency > 0 {
		p = p.WithMaxGoroutines(h.MaximumConcurrency)
	}

	for _, busLine := range busLines {
		p.Go(func(ctx context.Context) error {
			if err := work(ctx, busLine); err != nil {
				log.Error().Err(err).Int("line", busLine.LineID).Msg("Failed to process bus line")
				return fmt.Errorf("bus line %d: %w", busLine.LineID, err)
			}

			return nil
		})
	}

	return p.Wait()
}
