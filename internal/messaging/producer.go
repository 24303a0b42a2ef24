package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/el-asil/restaurant-api/internal/domain"
)

var producerTracer = otel.Tracer("messaging/producer")

// Producer writes one topic's domain events to Kafka as JSON. Use the typed
// constructors and publish methods; the topic and partition key are fixed by
// the event type.
type Producer struct {
	topic  string
	writer *kafka.Writer
}

func newProducer(brokers []string, topic string) *Producer {
	return &Producer{
		topic: topic,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           100 * time.Millisecond,
		},
	}
}

// NewOrderCreatedProducer publishes checkout events for the email worker.
func NewOrderCreatedProducer(brokers []string) *Producer {
	return newProducer(brokers, TopicOrderCreated)
}

// NewReplyCreatedProducer publishes admin replies for the email worker.
func NewReplyCreatedProducer(brokers []string) *Producer {
	return newProducer(brokers, TopicReplyCreated)
}

// PublishOrderCreated keys by order id so duplicates of one order stay on one
// partition.
func (p *Producer) PublishOrderCreated(ctx context.Context, event domain.OrderCreatedEvent) error {
	return p.publish(ctx, event.OrderID, event)
}

// PublishReplyCreated keys by message id so all replies to one conversation
// stay ordered.
func (p *Producer) PublishReplyCreated(ctx context.Context, event domain.ReplyCreatedEvent) error {
	return p.publish(ctx, event.MessageID, event)
}

func (p *Producer) publish(ctx context.Context, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	ctx, span := producerTracer.Start(ctx, "send "+p.topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingOperationName("send"),
			semconv.MessagingOperationTypePublish,
			semconv.MessagingDestinationName(p.topic),
			semconv.MessagingKafkaMessageKey(key),
		),
	)
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, newHeaderCarrier(&msg))

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
