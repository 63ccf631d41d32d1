package config

import (
	"fmt"
	"strconv"
	"time"

	iso8601 "github.com/senseyeio/duration"
	"github.com/travigo/lookahead/pkg/roadgraph"
	"github.com/travigo/lookahead/pkg/util"
)

type Config struct {
	StandardSpeed float64

	RouteGeneratorHost  string
	RouteGeneratorPort  int
	RouteRequestTimeout time.Duration

	EdgesRefreshPeriod       time.Duration
	EdgesRefreshMaxOperation time.Duration

	MaximumBusCapacity             int
	AverageWaitingTimeThreshold    time.Duration
	IndividualWaitingTimeThreshold time.Duration
	MinimumNumberOfPassengers      int

	GeneratorPeriod       time.Duration
	GeneratorMaxOperation time.Duration
	UpdaterPeriod         time.Duration
	UpdaterMaxOperation   time.Duration

	// ISO-8601 duration of the planning window, eg. P1D
	PlanningWindow string
}

func Default() *Config {
	return &Config{
		StandardSpeed: roadgraph.DefaultStandardSpeed,

		RouteGeneratorHost:  "127.0.0.1",
		RouteGeneratorPort:  2000,
		RouteRequestTimeout: 30 * time.Second,

		EdgesRefreshPeriod:       100 * time.Second,
		EdgesRefreshMaxOperation: 600 * time.Second,

		MaximumBusCapacity:             100,
		AverageWaitingTimeThreshold:    100 * time.Second,
		IndividualWaitingTimeThreshold: 100 * time.Second,
		MinimumNumberOfPassengers:      10,

		GeneratorPeriod:       100 * time.Second,
		GeneratorMaxOperation: 600 * time.Second,
		UpdaterPeriod:         100 * time.Second,
		UpdaterMaxOperation:   600 * time.Second,

		PlanningWindow: "P1D",
	}
}

// Load returns the defaults overridden by any LOOKAHEAD_* environment variables
func Load() (*Config, error) {
	return FromEnvironment(util.GetEnvironmentVariables())
}

func FromEnvironment(env map[string]string) (*Config, error) {
	c := Default()

	floats := map[string]*float64{
		"LOOKAHEAD_STANDARD_SPEED": &c.StandardSpeed,
	}
	for key, target := range floats {
		if env[key] == "" {
			continue
		}
		value, err := strconv.ParseFloat(env[key], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		*target = value
	}

	ints := map[string]*int{
		"LOOKAHEAD_ROUTE_GENERATOR_PORT": &c.RouteGeneratorPort,
		"LOOKAHEAD_MAXIMUM_BUS_CAPACITY": &c.MaximumBusCapacity,
		"LOOKAHEAD_MINIMUM_PASSENGERS":   &c.MinimumNumberOfPassengers,
	}
	for key, target := range ints {
		if env[key] == "" {
			continue
		}
		value, err := strconv.Atoi(env[key])
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		*target = value
	}

	durations := map[string]*time.Duration{
		"LOOKAHEAD_ROUTE_REQUEST_TIMEOUT":             &c.RouteRequestTimeout,
		"LOOKAHEAD_EDGES_REFRESH_PERIOD":              &c.EdgesRefreshPeriod,
		"LOOKAHEAD_EDGES_REFRESH_MAX_OPERATION":       &c.EdgesRefreshMaxOperation,
		"LOOKAHEAD_AVERAGE_WAITING_TIME_THRESHOLD":    &c.AverageWaitingTimeThreshold,
		"LOOKAHEAD_INDIVIDUAL_WAITING_TIME_THRESHOLD": &c.IndividualWaitingTimeThreshold,
		"LOOKAHEAD_GENERATOR_PERIOD":                  &c.GeneratorPeriod,
		"LOOKAHEAD_GENERATOR_MAX_OPERATION":           &c.GeneratorMaxOperation,
		"LOOKAHEAD_UPDATER_PERIOD":                    &c.UpdaterPeriod,
		"LOOKAHEAD_UPDATER_MAX_OPERATION":             &c.UpdaterMaxOperation,
	}
	for key, target := range durations {
		if env[key] == "" {
			continue
		}
		value, err := util.ParseDurationValue(env[key])
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		*target = value
	}

	if env["LOOKAHEAD_ROUTE_GENERATOR_HOST"] != "" {
		c.RouteGeneratorHost = env["LOOKAHEAD_ROUTE_GENERATOR_HOST"]
	}
	if env["LOOKAHEAD_PLANNING_WINDOW"] != "" {
		c.PlanningWindow = env["LOOKAHEAD_PLANNING_WINDOW"]
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) Validate() error {
	if c.StandardSpeed <= 0 {
		return fmt.Errorf("standard speed must be positive, got %f", c.StandardSpeed)
	}
	if c.MaximumBusCapacity < 1 {
		return fmt.Errorf("maximum bus capacity must be at least 1, got %d", c.MaximumBusCapacity)
	}
	if c.MinimumNumberOfPassengers < 1 {
		return fmt.Errorf("minimum number of passengers must be at least 1, got %d", c.MinimumNumberOfPassengers)
	}
	if _, err := iso8601.ParseISO8601(c.PlanningWindow); err != nil {
		return fmt.Errorf("planning window %q: %w", c.PlanningWindow, err)
	}

	return nil
}

func (c *Config) RouteGeneratorURL() string {
	return fmt.Sprintf("http://%s:%d", c.RouteGeneratorHost, c.RouteGeneratorPort)
}

func (c *Config) RouteGeneratorListen() string {
	return fmt.Sprintf(":%d", c.RouteGeneratorPort)
}

// PlanningWindowFrom returns [start, start + planning window)
func (c *Config) PlanningWindowFrom(start time.Time) (time.Time, time.Time, error) {
	window, err := iso8601.ParseISO8601(c.PlanningWindow)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return start, window.Shift(start), nil
}
