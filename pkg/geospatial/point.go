package geospatial

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

type Point struct {
	Longitude float64 `bson:"longitude" json:"longitude" groups:"basic"`
	Latitude  float64 `bson:"latitude" json:"latitude" groups:"basic"`
}

func NewPoint(longitude float64, latitude float64) Point {
	return Point{Longitude: longitude, Latitude: latitude}
}

func (p Point) Orb() orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

func (p Point) String() string {
	return fmt.Sprintf("(%f, %f)", p.Longitude, p.Latitude)
}

// Distance is the great-circle distance between two points in metres
func Distance(a Point, b Point) float64 {
	return geo.DistanceHaversine(a.Orb(), b.Orb())
}

// Centroid is the arithmetic mean of the coordinates, which is accurate enough at city scale
func Centroid(points []Point) (Point, error) {
	if len(points) == 0 {
		return Point{}, fmt.Errorf("cannot compute centroid of an empty point list")
	}

	var sumLongitude, sumLatitude float64
	for _, point := range points {
		sumLongitude += point.Longitude
		sumLatitude += point.Latitude
	}

	return NewPoint(sumLongitude/float64(len(points)), sumLatitude/float64(len(points))), nil
}

// Bound is the smallest lon/lat rectangle containing every point
func Bound(points []Point) orb.Bound {
	multiPoint := make(orb.MultiPoint, 0, len(points))
	for _, point := range points {
		multiPoint = append(multiPoint, point.Orb())
	}

	return multiPoint.Bound()
}
