package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campusassistant/cmd/chatbot-service/internal/domain"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig 事件总线配置
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// KafkaPublisher Kafka 事件发布器
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher 创建事件发布器
func NewKafkaPublisher(config *KafkaConfig) (domain.EventPublisher, func()) {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		Compression:  kafka.Snappy,
	}

	publisher := &KafkaPublisher{writer: writer}
	cleanup := func() {
		_ = writer.Close()
	}
	return publisher, cleanup
}

// Publish 发布领域事件。消息 key 取事件的会话/来源标识，
// 保证同一会话的事件落在同一分区内有序。
func (p *KafkaPublisher) Publish(ctx context.Context, event any) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	var key, eventType string
	switch e := event.(type) {
	case domain.ChatTurnEvent:
		key, eventType = e.SessionID, e.EventType
	case domain.DocumentIndexedEvent:
		key, eventType = e.DocumentID, e.EventType
	case domain.DocumentDeletedEvent:
		key, eventType = e.Source, e.EventType
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "event_version", Value: []byte("v1")},
		},
		Time: time.Now().UTC(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	return nil
}
