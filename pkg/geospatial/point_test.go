package geospatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	uppsalaCentral := NewPoint(17.6466, 59.8586)
	uppsalaCathedral := NewPoint(17.6339, 59.8581)

	assert.Zero(t, Distance(uppsalaCentral, uppsalaCentral))

	distance := Distance(uppsalaCentral, uppsalaCathedral)
	assert.InDelta(t, 712, distance, 15)
	assert.InDelta(t, distance, Distance(uppsalaCathedral, uppsalaCentral), 1e-9)
}

func TestCentroid(t *testing.T) {
	centroid, err := Centroid([]Point{
		NewPoint(0, 0),
		NewPoint(2, 0),
		NewPoint(1, 3),
	})
	assert.NoError(t, err)
	assert.InDelta(t, 1, centroid.Longitude, 1e-9)
	assert.InDelta(t, 1, centroid.Latitude, 1e-9)

	centroid, err = Centroid([]Point{NewPoint(10, 20)})
	assert.NoError(t, err)
	assert.Equal(t, NewPoint(10, 20), centroid)

	_, err = Centroid(nil)
	assert.Error(t, err)
}

func TestBound(t *testing.T) {
	bound := Bound([]Point{NewPoint(1, 5), NewPoint(3, 2)})

	assert.Equal(t, 1.0, bound.Min.Lon())
	assert.Equal(t, 2.0, bound.Min.Lat())
	assert.Equal(t, 3.0, bound.Max.Lon())
	assert.Equal(t, 5.0, bound.Max.Lat())
}
