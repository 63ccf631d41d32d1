package consumer

import (
	"fmt"
	"net/http"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/lookahead/pkg/redis_client"
)

// RedisConsumer runs a set of batch consumers on one rmq queue next to a stats server
type RedisConsumer struct {
	QueueName string

	NumberConsumers int
	BatchSize       int

	Timeout time.Duration

	Consumer rmq.BatchConsumer

	StatsListen string
}

func (c *RedisConsumer) Setup() error {
	if redis_client.QueueConnection == nil {
		return fmt.Errorf("queue %s: redis is not configured", c.QueueName)
	}

	if err := c.startConsumers(); err != nil {
		return err
	}

	return c.startStatsServer()
}

func (c *RedisConsumer) startConsumers() error {
	log.Info().Str("queue", c.QueueName).Int("consumers", c.NumberConsumers).Msg("Starting consumers")

	queue, err := redis_client.QueueConnection.OpenQueue(c.QueueName)
	if err != nil {
		return err
	}
	if err := queue.StartConsuming(int64(c.NumberConsumers*c.BatchSize), time.Second); err != nil {
		return err
	}

	for i := 0; i < c.NumberConsumers; i++ {
		name := fmt.Sprintf("%s-%d", c.QueueName, i)
		if _, err := queue.AddBatchConsumer(name, int64(c.BatchSize), c.Timeout, c.Consumer); err != nil {
			return err
		}
	}

	return nil
}

func (c *RedisConsumer) startStatsServer() error {
	endpoint := fmt.Sprintf("/%s/stats", c.QueueName)

	mux := http.NewServeMux()
	mux.Handle(endpoint, NewStatsHandler(redis_client.QueueConnection))
	mux.Handle("/health", NewHealthHandler())

	listen := c.StatsListen
	if listen == "" {
		listen = ":3333"
	}

	log.Info().Msgf("Stats server listening on http://localhost%s%s", listen, endpoint)
	return http.ListenAndServe(listen, mux)
}
