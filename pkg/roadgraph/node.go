package roadgraph

import (
	"github.com/travigo/lookahead/pkg/geospatial"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Node struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	OsmID int64              `bson:"osm_id" json:"osm_id"`
	Tags  map[string]string  `bson:"tags" json:"tags"`
	Point geospatial.Point   `bson:"point" json:"point"`
}

// PointDocument is the standalone coordinate record of a node
type PointDocument struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	OsmID int64              `bson:"osm_id" json:"osm_id"`
	Point geospatial.Point   `bson:"point" json:"point"`
}

type Way struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	OsmID      int64              `bson:"osm_id" json:"osm_id"`
	Tags       map[string]string  `bson:"tags" json:"tags"`
	References []int64            `bson:"references" json:"references"`
}

type Address struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name   string             `bson:"name" json:"name"`
	NodeID int64              `bson:"node_id" json:"node_id"`
	Point  geospatial.Point   `bson:"point" json:"point"`
}
