package repository

import (
	"context"
	"encoding/json"

	"pharmacy_delivery_service/internal/chat/domain"

	"github.com/segmentio/kafka-go"
)

// MessageEventPublisher audit stream of sent messages. Best effort, callers
// log failures and keep the send path going.
type MessageEventPublisher interface {
	PublishMessageSent(ctx context.Context, event domain.MessageSentEvent) error
}

type kafkaEventPublisher struct {
	writer *kafka.Writer
}

// NewKafkaEventPublisher create a MessageEventPublisher on a kafka writer
func NewKafkaEventPublisher(writer *kafka.Writer) MessageEventPublisher {
	return &kafkaEventPublisher{writer: writer}
}

func (p *kafkaEventPublisher) PublishMessageSent(ctx context.Context, event domain.MessageSentEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ConversationID),
		Value: data,
	})
}
