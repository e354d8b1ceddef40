package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrUnsupported is returned when the selected broker cannot perform a
// requested feature, such as delayed delivery on NATS core.
var ErrUnsupported = errors.New("messaging: unsupported operation")

// Messaging is a broker client that can both publish and consume.
type Messaging interface {
	io.Closer

	Publisher
	Consumer
}

// Publisher sends messages to a destination. Depending on the broker a
// destination is a topic, a subject, or a queue name.
type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// Consumer starts consuming messages from a source until the context
// is canceled or the client is closed.
type Consumer interface {
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes one received message. A non-nil error leaves the
// ack decision to the broker implementation; it may nack, requeue, or
// leave the message pending.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is the broker-agnostic publish payload. Fields that
// a broker does not understand are ignored by its implementation.
type OutgoingMessage struct {
	Body []byte

	// Key drives Kafka partitioning.
	Key []byte

	// Headers allow binary values and duplicate keys.
	Headers []Header

	// Attributes map to Pub/Sub string attributes.
	Attributes map[string]string

	// OrderingKey maps to Google Pub/Sub ordering.
	OrderingKey string

	// Delay defers delivery where the broker supports it.
	Delay time.Duration

	// Metadata carries broker-specific publish settings.
	Metadata map[string]any
}

// Header is one message header entry.
type Header struct {
	Key   string
	Value []byte
}

// PublishResult reports what the broker assigned to the published
// message. Only the fields the broker populates are meaningful.
type PublishResult struct {
	MessageID string

	// Topic, Partition, and Offset are filled by Kafka-like brokers.
	Topic     string
	Partition int32
	Offset    int64

	// Sequence is filled by NATS JetStream.
	Sequence uint64

	Timestamp time.Time

	// Raw holds the underlying broker publish result when exposed.
	Raw any
}

// Message is a received message. Handlers must call Ack when
// processing succeeds and auto-ack is not in effect.
type Message interface {
	Body() []byte
	Key() []byte
	Headers() []Header
	Attributes() map[string]string

	ID() string
	Topic() string
	Subject() string
	Timestamp() time.Time

	Ack(ctx context.Context) error
}

// Nackable is implemented by messages that can request redelivery.
type Nackable interface {
	Nack(ctx context.Context) error
}

// Extendable is implemented by messages whose ack deadline or lease
// can be extended.
type Extendable interface {
	Extend(ctx context.Context, d time.Duration) error
}

// MetadataCarrier exposes broker-specific delivery metadata such as
// NSQ attempt counts.
type MetadataCarrier interface {
	Metadata() map[string]any
}

// RawCarrier exposes the underlying broker message type.
type RawCarrier interface {
	Raw() any
}
