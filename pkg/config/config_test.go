package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvironmentDefaults(t *testing.T) {
	c, err := FromEnvironment(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 50.0, c.StandardSpeed)
	assert.Equal(t, 100, c.MaximumBusCapacity)
	assert.Equal(t, 30*time.Second, c.RouteRequestTimeout)
	assert.Equal(t, "http://127.0.0.1:2000", c.RouteGeneratorURL())
	assert.Equal(t, ":2000", c.RouteGeneratorListen())
}

func TestFromEnvironmentOverrides(t *testing.T) {
	c, err := FromEnvironment(map[string]string{
		"LOOKAHEAD_STANDARD_SPEED":                 "40",
		"LOOKAHEAD_MAXIMUM_BUS_CAPACITY":           "50",
		"LOOKAHEAD_AVERAGE_WAITING_TIME_THRESHOLD": "120",
		"LOOKAHEAD_EDGES_REFRESH_PERIOD":           "1m30s",
		"LOOKAHEAD_ROUTE_GENERATOR_HOST":           "routes.internal",
		"LOOKAHEAD_PLANNING_WINDOW":                "PT12H",
	})
	require.NoError(t, err)

	assert.Equal(t, 40.0, c.StandardSpeed)
	assert.Equal(t, 50, c.MaximumBusCapacity)
	assert.Equal(t, 120*time.Second, c.AverageWaitingTimeThreshold)
	assert.Equal(t, 90*time.Second, c.EdgesRefreshPeriod)
	assert.Equal(t, "http://routes.internal:2000", c.RouteGeneratorURL())

	start := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	from, to, err := c.PlanningWindowFrom(start)
	require.NoError(t, err)
	assert.Equal(t, start, from)
	assert.Equal(t, start.Add(12*time.Hour), to)
}

func TestFromEnvironmentInvalid(t *testing.T) {
	_, err := FromEnvironment(map[string]string{"LOOKAHEAD_MAXIMUM_BUS_CAPACITY": "lots"})
	assert.Error(t, err)

	_, err = FromEnvironment(map[string]string{"LOOKAHEAD_MINIMUM_PASSENGERS": "0"})
	assert.Error(t, err)

	_, err = FromEnvironment(map[string]string{"LOOKAHEAD_PLANNING_WINDOW": "one day"})
	assert.Error(t, err)
}
