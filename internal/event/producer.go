package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// DefaultOrderTopic receives one message per completed checkout.
const DefaultOrderTopic = "storefront.order.completed"

// OrderCompleted is the payload published when a checkout completes.
type OrderCompleted struct {
	OrderID      string    `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	Method       string    `json:"payment_method"`
	TotalCents   int64     `json:"total_cents"`
	ItemCount    int       `json:"item_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type Producer interface {
	OrderCompleted(ctx context.Context, e OrderCompleted) error
	Close() error
}

// KafkaProducer publishes order events through a kafka-go writer.
type KafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	return &KafkaProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (p *KafkaProducer) OrderCompleted(ctx context.Context, e OrderCompleted) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.OrderID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order.completed")},
		},
	})
}

func (p *KafkaProducer) Close() error { return p.writer.Close() }

// NoopProducer stands in when no brokers are configured.
type NoopProducer struct{}

func (NoopProducer) OrderCompleted(ctx context.Context, e OrderCompleted) error { return nil }
func (NoopProducer) Close() error                                               { return nil }
