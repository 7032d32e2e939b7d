package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
)

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
}

func NewDefaultKafkaPublisher(brokers []string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (k *DefaultKafkaPublisher) Publish(topic string, msgs ...domain.Message) error {
	var km []kafka.Message
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  time.Now(),
			Topic: topic,
		})
	}

	return k.writer.WriteMessages(context.Background(), km...)
}

func (k *DefaultKafkaPublisher) PublishSettlementEvent(topic string, event SettlementEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return k.Publish(topic, domain.Message{Key: []byte(event.SettlementID), Value: v})
}

// PublishSettlementEvents writes one batch of transition events; used
// after a batch recon commit so the audit trail carries the whole
// exchange.
func (k *DefaultKafkaPublisher) PublishSettlementEvents(topic string, events []SettlementEvent) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]domain.Message, 0, len(events))
	for _, event := range events {
		v, err := json.Marshal(event)
		if err != nil {
			return err
		}
		messages = append(messages, domain.Message{Key: []byte(event.SettlementID), Value: v})
	}

	return k.Publish(topic, messages...)
}
