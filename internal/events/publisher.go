package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/mozhilabs/chat-server/internal/models"
)

// Publisher emits message.sent events for downstream consumers. A nil
// Publisher is valid and drops everything, so callers don't branch on
// whether Kafka is configured.
type Publisher struct {
	writer *kafka.Writer
	log    *zap.SugaredLogger
}

func NewPublisher(brokers []string, topic string, log *zap.SugaredLogger) *Publisher {
	if len(brokers) == 0 {
		return nil
	}
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &Publisher{writer: w, log: log}
}

// MessageSent publishes the persisted message keyed by room id.
func (p *Publisher) MessageSent(ctx context.Context, m *models.Message) error {
	if p == nil {
		return nil
	}
	value, err := json.Marshal(map[string]any{
		"message_id": m.ID,
		"room_id":    m.RoomID,
		"sender_id":  m.SenderID,
		"text":       m.Text,
		"timestamp":  m.Timestamp,
	})
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(m.RoomID),
		Value: value,
		Time:  time.Now(),
	})
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
