package util

import (
	"math"
	"time"
)

// CeilMinute drops the seconds and moves to the following minute. An instant already on a whole
// minute still moves a full minute forward.
func CeilMinute(t time.Time) time.Time {
	return t.Truncate(time.Minute).Add(time.Minute)
}

// RoundUpMinute returns t when it is on a whole minute and the following minute otherwise
func RoundUpMinute(t time.Time) time.Time {
	truncated := t.Truncate(time.Minute)
	if truncated.Equal(t) {
		return t
	}

	return truncated.Add(time.Minute)
}

func MaxTime(a time.Time, b time.Time) time.Time {
	if a.After(b) {
		return a
	}

	return b
}

func AbsDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}

	return d
}

func SecondsToDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds * float64(time.Second)))
}

// MeanTime returns the arithmetic mean of the instants, computed as offsets from the earliest one
// so the result does not depend on their order.
func MeanTime(times []time.Time) time.Time {
	if len(times) == 0 {
		return time.Time{}
	}

	reference := times[0]
	for _, t := range times[1:] {
		if t.Before(reference) {
			reference = t
		}
	}

	var total time.Duration
	for _, t := range times {
		total += t.Sub(reference)
	}

	return reference.Add(total / time.Duration(len(times)))
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
