package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFilters(t *testing.T) {
	id := primitive.NewObjectID()
	assert.Equal(t, bson.M{"_id": bson.M{"$in": []primitive.ObjectID{id}}}, ByIDs(id))

	assert.Equal(t, bson.M{"line_id": 3}, ByField("line_id", 3))

	from := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)
	assert.Equal(t, bson.M{"departure_datetime": bson.M{"$gte": from, "$lt": to}}, ByDateTimeRange("departure_datetime", from, to))
}

func TestAnd(t *testing.T) {
	assert.Equal(t, bson.M{}, And())

	single := ByField("line_id", 1)
	assert.Equal(t, single, And(single))

	combined := And(single, ByField("client_id", 2))
	assert.Equal(t, bson.M{"$and": bson.A{bson.M{"line_id": 1}, bson.M{"client_id": 2}}}, combined)
}

func TestToPointers(t *testing.T) {
	values := []int{1, 2, 3}
	pointers := toPointers(values)

	assert.Len(t, pointers, 3)
	*pointers[1] = 20
	assert.Equal(t, 20, values[1])
}
