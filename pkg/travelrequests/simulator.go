package travelrequests

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/travigo/lookahead/pkg/transit"
	"github.com/travigo/lookahead/pkg/util"
)

const hoursPerDay = 24

var ErrTooFewBusStops = errors.New("bus line needs at least two bus stops")

// Simulator produces made up demand for a bus line, weighting the departure hour
type Simulator struct {
	Random        *rand.Rand
	HourlyWeights [hoursPerDay]float64
}

func NewSimulator(seed int64) *Simulator {
	simulator := &Simulator{Random: rand.New(rand.NewSource(seed))}
	for hour := range simulator.HourlyWeights {
		simulator.HourlyWeights[hour] = 1
	}

	return simulator
}

// ParseHourlyWeights reads 24 comma separated non-negative weights, an empty string means uniform
func ParseHourlyWeights(value string) ([hoursPerDay]float64, error) {
	var weights [hoursPerDay]float64
	if strings.TrimSpace(value) == "" {
		for hour := range weights {
			weights[hour] = 1
		}
		return weights, nil
	}

	fields := strings.Split(value, ",")
	if len(fields) != hoursPerDay {
		return weights, fmt.Errorf("expected %d hourly weights, got %d", hoursPerDay, len(fields))
	}

	total := 0.0
	for hour, field := range fields {
		weight, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return weights, fmt.Errorf("hourly weight %d: %w", hour, err)
		}
		if weight < 0 {
			return weights, fmt.Errorf("hourly weight %d is negative", hour)
		}

		weights[hour] = weight
		total += weight
	}

	if total == 0 {
		return weights, errors.New("hourly weights sum to zero")
	}

	return weights, nil
}

func (s *Simulator) randomHour() int {
	total := 0.0
	for _, weight := range s.HourlyWeights {
		total += weight
	}

	target := s.Random.Float64() * total
	for hour, weight := range s.HourlyWeights {
		if target < weight {
			return hour
		}
		target -= weight
	}

	return hoursPerDay - 1
}

// GenerateTravelRequests creates count requests on the given day, client ids start at firstClientID
func (s *Simulator) GenerateTravelRequests(busLine *transit.BusLine, day time.Time, count int, firstClientID int) ([]transit.TravelRequest, error) {
	numberOfBusStops := len(busLine.BusStops)
	if numberOfBusStops < 2 {
		return nil, fmt.Errorf("line %d: %w", busLine.LineID, ErrTooFewBusStops)
	}

	midnight := util.StartOfDay(day)
	travelRequests := make([]transit.TravelRequest, 0, count)

	for i := 0; i < count; i++ {
		startingIndex := s.Random.Intn(numberOfBusStops - 1)
		endingIndex := startingIndex + 1 + s.Random.Intn(numberOfBusStops-startingIndex-1)

		departure := midnight.
			Add(time.Duration(s.randomHour()) * time.Hour).
			Add(time.Duration(s.Random.Intn(60)) * time.Minute)

		travelRequests = append(travelRequests, transit.TravelRequest{
			ClientID:          firstClientID + i,
			LineID:            busLine.LineID,
			StartingBusStop:   busLine.BusStops[startingIndex],
			EndingBusStop:     busLine.BusStops[endingIndex],
			DepartureDateTime: departure,
		})
	}

	return travelRequests, nil
}
