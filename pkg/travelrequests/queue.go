package travelrequests

import (
	"context"
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/lookahead/pkg/transit"
)

const QueueName = "travel-requests-queue"

type Repository interface {
	InsertTravelRequests(ctx context.Context, travelRequests []transit.TravelRequest) error
}

// Publisher pushes travel requests onto the intake queue as JSON
type Publisher struct {
	Queue rmq.Queue
}

func (p *Publisher) Publish(travelRequests []transit.TravelRequest) error {
	for _, travelRequest := range travelRequests {
		payload, err := json.Marshal(travelRequest)
		if err != nil {
			return err
		}

		if err := p.Queue.PublishBytes(payload); err != nil {
			return err
		}
	}

	return nil
}

// BatchConsumer stores every travel request that arrives on the intake queue
type BatchConsumer struct {
	Repository Repository
}

func (consumer *BatchConsumer) Consume(batch rmq.Deliveries) {
	var travelRequests []transit.TravelRequest
	var accepted rmq.Deliveries

	for _, delivery := range batch {
		var travelRequest transit.TravelRequest
		if err := json.Unmarshal([]byte(delivery.Payload()), &travelRequest); err != nil {
			log.Error().Err(err).Msg("Failed to decode travel request")

			if err := delivery.Reject(); err != nil {
				log.Error().Err(err).Msg("Failed to reject travel request")
			}
			continue
		}

		travelRequests = append(travelRequests, travelRequest)
		accepted = append(accepted, delivery)
	}

	if len(travelRequests) == 0 {
		return
	}

	if err := consumer.Repository.InsertTravelRequests(context.Background(), travelRequests); err != nil {
		log.Error().Err(err).Int("travel_requests", len(travelRequests)).Msg("Failed to insert travel requests")

		for _, err := range accepted.Reject() {
			log.Error().Err(err).Msg("Failed to reject travel request")
		}
		return
	}

	log.Debug().Int("travel_requests", len(travelRequests)).Msg("Inserted travel requests")

	for _, err := range accepted.Ack() {
		log.Error().Err(err).Msg("Failed to ack travel request")
	}
}
