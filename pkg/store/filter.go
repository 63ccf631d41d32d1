package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Filter = bson.M

func All() Filter {
	return bson.M{}
}

func ByIDs(ids ...primitive.ObjectID) Filter {
	return bson.M{"_id": bson.M{"$in": ids}}
}

func ByField(field string, value interface{}) Filter {
	return bson.M{field: value}
}

// ByDateTimeRange matches documents whose field lies in [from, to)
func ByDateTimeRange(field string, from time.Time, to time.Time) Filter {
	return bson.M{field: bson.M{"$gte": from, "$lt": to}}
}

func And(filters ...Filter) Filter {
	switch len(filters) {
	case 0:
		return All()
	case 1:
		return filters[0]
	}

	conditions := bson.A{}
	for _, filter := range filters {
		conditions = append(conditions, filter)
	}

	return bson.M{"$and": conditions}
}
