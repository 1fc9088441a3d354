package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gigdesk/settlement-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

func NewDefaultKafkaPublisher(brokers []string, topic string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
		topic: topic,
	}
}

// PublishSettlement emits one settlement event keyed by order (or
// freelancer, for payouts) so per-order ordering survives partitioning.
func (k *DefaultKafkaPublisher) PublishSettlement(event domain.SettlementEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	key := event.OrderID
	if key == "" {
		key = event.FreelancerID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return k.writer.WriteMessages(ctx, kafka.Message{
		Topic: k.topic,
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	})
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}
