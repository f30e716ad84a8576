// Package kafkanotifier publishes delivery notifications to a Kafka topic read by
// the push and email senders.
package kafkanotifier

import (
	"context"
	"encoding/json"
	"time"

	"parceltrack/internal/core/ports"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Message is the wire format of a published notification.
type Message struct {
	RecipientID string  `json:"recipientId"`
	Title       string  `json:"title"`
	Body        string  `json:"body"`
	Payload     Payload `json:"payload"`
	SentAt      string  `json:"sentAt"`
}

type Payload struct {
	DeliveryID   string `json:"deliveryId"`
	TrackingCode string `json:"trackingCode"`
	Status       string `json:"status"`
}

// Notifier implements ports.Notifier. Messages are keyed by recipient so one
// user's notifications stay ordered within a partition.
type Notifier struct {
	w     messageWriter
	topic string
	now   func() time.Time
}

// flushInterval caps how long a synchronous Notify waits for the writer to fill a batch.
const flushInterval = 10 * time.Millisecond

func New(brokers []string, topic string) *Notifier {
	return newNotifierWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           flushInterval,
		AllowAutoTopicCreation: true,
	}, topic)
}

func newNotifierWithWriter(w messageWriter, topic string) *Notifier {
	return &Notifier{
		w:     w,
		topic: topic,
		now:   time.Now,
	}
}

func (n *Notifier) Notify(ctx context.Context, notification ports.Notification) error {
	value, err := json.Marshal(Message{
		RecipientID: notification.RecipientID.String(),
		Title:       notification.Title,
		Body:        notification.Body,
		Payload: Payload{
			DeliveryID:   notification.DeliveryID.String(),
			TrackingCode: notification.TrackingCode,
			Status:       notification.Status,
		},
		SentAt: n.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return errors.Wrap(err, "encode notification")
	}

	if err = n.w.WriteMessages(ctx, kafka.Message{
		Topic: n.topic,
		Key:   []byte(notification.RecipientID.String()),
		Value: value,
	}); err != nil {
		return errors.Wrap(err, "kafka publish")
	}
	return nil
}

// Close flushes pending writes.
func (n *Notifier) Close() error {
	if c, ok := n.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
