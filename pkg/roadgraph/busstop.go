package roadgraph

import (
	"github.com/travigo/lookahead/pkg/geospatial"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BusStop struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id" groups:"basic"`
	OsmID int64              `bson:"osm_id" json:"osm_id" groups:"detailed"`
	Name  string             `bson:"name" json:"name" groups:"basic"`
	Point geospatial.Point   `bson:"point" json:"point" groups:"basic"`
}

// BusStopWaypoints caches the candidate edge sequences between two adjacent stops of a line
type BusStopWaypoints struct {
	ID              primitive.ObjectID     `bson:"_id,omitempty" json:"_id"`
	StartingBusStop BusStop                `bson:"starting_bus_stop" json:"starting_bus_stop"`
	EndingBusStop   BusStop                `bson:"ending_bus_stop" json:"ending_bus_stop"`
	Waypoints       [][]primitive.ObjectID `bson:"waypoints" json:"waypoints"`
}
