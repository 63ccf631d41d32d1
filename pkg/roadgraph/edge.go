package roadgraph

import (
	"github.com/travigo/lookahead/pkg/geospatial"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EdgeNode struct {
	OsmID int64            `bson:"osm_id" json:"osm_id"`
	Point geospatial.Point `bson:"point" json:"point"`
}

type Edge struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	StartingNode   EdgeNode           `bson:"starting_node" json:"starting_node"`
	EndingNode     EdgeNode           `bson:"ending_node" json:"ending_node"`
	MaxSpeed       float64            `bson:"max_speed" json:"max_speed"`
	RoadType       string             `bson:"road_type" json:"road_type"`
	WayID          int64              `bson:"way_id" json:"way_id"`
	TrafficDensity float64            `bson:"traffic_density" json:"traffic_density"`
}

func (e Edge) Distance() float64 {
	return geospatial.Distance(e.StartingNode.Point, e.EndingNode.Point)
}

// TravelTime is the time in seconds needed to traverse the edge under its current traffic density
func (e Edge) TravelTime() (float64, error) {
	return SegmentTime(e.Distance(), e.MaxSpeed, e.RoadType, e.TrafficDensity)
}
