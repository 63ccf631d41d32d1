package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCeilMinute(t *testing.T) {
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, base.Add(time.Minute), CeilMinute(base))
	assert.Equal(t, base.Add(time.Minute), CeilMinute(base.Add(time.Second)))
	assert.Equal(t, base.Add(time.Minute), CeilMinute(base.Add(59*time.Second)))
	assert.Equal(t, base.Add(time.Minute), CeilMinute(base.Add(time.Nanosecond)))
	assert.Equal(t, base.Add(2*time.Minute), CeilMinute(base.Add(time.Minute)))
}

func TestRoundUpMinute(t *testing.T) {
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, base, RoundUpMinute(base))
	assert.Equal(t, base.Add(time.Minute), RoundUpMinute(base.Add(time.Second)))
	assert.Equal(t, base.Add(time.Minute), RoundUpMinute(base.Add(59*time.Second)))
}

func TestMeanTime(t *testing.T) {
	midnight := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	mean := MeanTime([]time.Time{
		midnight.Add(-10 * time.Minute),
		midnight.Add(10 * time.Minute),
	})
	assert.Equal(t, midnight, mean)

	ordered := []time.Time{midnight, midnight.Add(time.Nanosecond), midnight.Add(-2 * time.Nanosecond)}
	reversed := []time.Time{ordered[2], ordered[1], ordered[0]}
	assert.Equal(t, MeanTime(ordered), MeanTime(reversed))

	assert.True(t, MeanTime(nil).IsZero())
}

func TestParseDurationValue(t *testing.T) {
	d, err := ParseDurationValue("100")
	assert.NoError(t, err)
	assert.Equal(t, 100*time.Second, d)

	d, err = ParseDurationValue("2m")
	assert.NoError(t, err)
	assert.Equal(t, 2*time.Minute, d)

	_, err = ParseDurationValue("soon")
	assert.Error(t, err)
}
