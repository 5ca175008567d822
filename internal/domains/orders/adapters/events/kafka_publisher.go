package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/Apurer/go-marketplace-api/internal/domains/orders/domain"
	"github.com/Apurer/go-marketplace-api/internal/domains/orders/ports"
)

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

var producerTracer = otel.Tracer("github.com/Apurer/go-marketplace-api/internal/domains/orders/adapters/events")

// DefaultTopic carries every order event; consumers switch on the envelope name.
const DefaultTopic = "marketplace.orders"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes order events to a kafka topic keyed by order ID.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher creates a publisher backed by a kafka-go writer.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaPublisher{
		topic: topic,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           100 * time.Millisecond,
		},
	}
}

func newKafkaPublisherWithWriter(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic}
}

// Envelope is the wire shape of a published order event.
type Envelope struct {
	Name       string          `json:"name"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

type orderPlacedPayload struct {
	OrderID   string   `json:"orderId"`
	UserID    string   `json:"userId"`
	Total     string   `json:"total"`
	StoreIDs  []string `json:"storeIds"`
	ItemCount int      `json:"itemCount"`
}

type statusChangedPayload struct {
	OrderID   string `json:"orderId"`
	From      string `json:"from"`
	To        string `json:"to"`
	UpdatedBy string `json:"updatedBy"`
}

func (p *KafkaPublisher) Publish(ctx context.Context, events ...domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		key, value, err := encode(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{Key: []byte(key), Value: value})
	}

	ctx, span := producerTracer.Start(ctx, "send "+p.topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingOperationName("send"),
			semconv.MessagingOperationTypePublish,
			semconv.MessagingDestinationName(p.topic),
			semconv.MessagingBatchMessageCount(len(msgs)),
		),
	)
	defer span.End()

	for i := range msgs {
		otel.GetTextMapPropagator().Inject(ctx, NewMessageCarrier(&msgs[i]))
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func encode(event domain.Event) (string, []byte, error) {
	var (
		key     string
		payload any
	)
	switch e := event.(type) {
	case domain.OrderPlaced:
		key = e.OrderID
		payload = orderPlacedPayload{
			OrderID:   e.OrderID,
			UserID:    e.UserID,
			Total:     e.Total.StringFixed(2),
			StoreIDs:  e.StoreIDs,
			ItemCount: e.ItemCount,
		}
	case domain.OrderStatusChanged:
		key = e.OrderID
		payload = statusChangedPayload{
			OrderID:   e.OrderID,
			From:      string(e.FromStatus),
			To:        string(e.ToStatus),
			UpdatedBy: e.UpdatedBy,
		}
	case nil:
		return "", nil, errors.New("nil event")
	default:
		return "", nil, fmt.Errorf("unsupported event %s", event.EventName())
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", nil, err
	}
	value, err := json.Marshal(Envelope{Name: event.EventName(), OccurredAt: event.OccurredAt().UTC(), Payload: body})
	if err != nil {
		return "", nil, err
	}
	return key, value, nil
}
