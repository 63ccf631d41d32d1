package roadgraph

import (
	"time"

	"github.com/travigo/lookahead/pkg/geospatial"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TrafficEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	EventID    string             `bson:"event_id" json:"event_id"`
	EventType  string             `bson:"event_type" json:"event_type"`
	EventLevel int                `bson:"event_level" json:"event_level"`
	Point      geospatial.Point   `bson:"point" json:"point"`
	DateTime   time.Time          `bson:"datetime" json:"datetime"`
}

// TrafficDensity maps the severity level of the event onto an edge density
func (e *TrafficEvent) TrafficDensity() float64 {
	switch e.EventLevel {
	case 1:
		return 0.2
	case 2:
		return 0.4
	case 3:
		return 0.6
	case 4:
		return 0.8
	default:
		return 0
	}
}
