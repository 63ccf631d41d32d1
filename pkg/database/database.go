package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/lookahead/pkg/util"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoInstance struct {
	Client   *mongo.Client
	Database *mongo.Database
}

var MongoGlobalInstance *MongoInstance

const defaultMongoHost = "127.0.0.1"
const defaultMongoPort = "27017"
const defaultMongoDatabase = "lookahead"

func Connect() error {
	env := util.GetEnvironmentVariables()

	host := defaultMongoHost
	port := defaultMongoPort
	dbName := defaultMongoDatabase

	if env["LOOKAHEAD_MONGODB_HOST"] != "" {
		host = env["LOOKAHEAD_MONGODB_HOST"]
	}

	if env["LOOKAHEAD_MONGODB_PORT"] != "" {
		port = env["LOOKAHEAD_MONGODB_PORT"]
	}

	connectionString := fmt.Sprintf("mongodb://%s:%s/", host, port)
	if env["LOOKAHEAD_MONGODB_CONNECTION"] != "" {
		connectionString = env["LOOKAHEAD_MONGODB_CONNECTION"]
	}

	if env["LOOKAHEAD_MONGODB_DATABASE"] != "" {
		dbName = env["LOOKAHEAD_MONGODB_DATABASE"]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionString))
	if err != nil {
		return err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	MongoGlobalInstance = &MongoInstance{
		Client:   client,
		Database: client.Database(dbName),
	}

	log.Info().Str("database", dbName).Msg("Connected to MongoDB")

	createIndexes()

	return nil
}

func GetCollection(collectionName string) *mongo.Collection {
	return MongoGlobalInstance.Database.Collection(collectionName)
}

func Disconnect() {
	if MongoGlobalInstance == nil {
		return
	}

	if err := MongoGlobalInstance.Client.Disconnect(context.Background()); err != nil {
		log.Error().Err(err).Msg("Disconnecting from MongoDB")
	}
}
