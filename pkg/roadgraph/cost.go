package roadgraph

import (
	"fmt"
	"math"

	"golang.org/x/exp/slices"
)

const DefaultStandardSpeed = 50.0

// BusRoadTypes is ordered from fastest to slowest, the position drives the road type factor
var BusRoadTypes = []string{
	"motorway",
	"motorway_link",
	"trunk",
	"trunk_link",
	"primary",
	"primary_link",
	"secondary",
	"secondary_link",
	"tertiary",
	"tertiary_link",
	"unclassified",
	"residential",
	"bus_road",
}

func IsBusRoadType(roadType string) bool {
	return slices.Contains(BusRoadTypes, roadType)
}

func RoadTypeFactor(roadType string) (float64, error) {
	index := slices.Index(BusRoadTypes, roadType)
	if index < 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRoadType, roadType)
	}

	return 1 - float64(index)/50, nil
}

func TrafficFactor(density float64) float64 {
	return 1 - math.Min(math.Max(density, 0), 1)
}

// EffectiveSpeed returns metres per second. A fully congested edge has speed 0.
func EffectiveSpeed(maxSpeed float64, roadType string, density float64) (float64, error) {
	roadTypeFactor, err := RoadTypeFactor(roadType)
	if err != nil {
		return 0, err
	}

	return roadTypeFactor * TrafficFactor(density) * maxSpeed * 1000 / 3600, nil
}

// SegmentTime returns seconds, or +Inf when the edge cannot be traversed
func SegmentTime(distance float64, maxSpeed float64, roadType string, density float64) (float64, error) {
	speed, err := EffectiveSpeed(maxSpeed, roadType, density)
	if err != nil {
		return 0, err
	}

	if speed <= 0 {
		return math.Inf(1), nil
	}

	return distance / speed, nil
}

// HeuristicTime is a lower bound on travel time only while no edge allows more than standardSpeed.
// Faster edges make the search lose strict optimality, it still returns a valid path.
func HeuristicTime(distance float64, standardSpeed float64) float64 {
	return distance / (standardSpeed * 1000 / 3600)
}
