package redis_client

import (
	"context"
	"strconv"

	"github.com/adjust/rmq/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/lookahead/pkg/util"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const defaultConnectionAddress = "localhost:6379"
const defaultDatabase = 0

// Connect sets up the redis client and queue connection. Redis is optional unless required is set,
// when LOOKAHEAD_REDIS_ADDRESS is missing the caches and queues stay disabled.
func Connect(required bool) error {
	env := util.GetEnvironmentVariables()

	address := env["LOOKAHEAD_REDIS_ADDRESS"]
	if address == "" && !required {
		log.Info().Msg("Skipping Redis setup")
		return nil
	} else if address == "" {
		address = defaultConnectionAddress
	}

	database := defaultDatabase
	if env["LOOKAHEAD_REDIS_DATABASE"] != "" {
		n, err := strconv.Atoi(env["LOOKAHEAD_REDIS_DATABASE"])
		if err != nil {
			return err
		}
		database = n
	}

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: env["LOOKAHEAD_REDIS_PASSWORD"],
		DB:       database,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	queueConnection, err := rmq.OpenConnectionWithRedisClient("lookahead", client, nil)
	if err != nil {
		return err
	}

	Client = client
	QueueConnection = queueConnection

	log.Info().Str("address", address).Msg("Redis client setup")

	return nil
}
