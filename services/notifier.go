package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Notification event types emitted by the reservation ledger.
const (
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCancelled = "reservation.cancelled"
	EventGuestCheckedIn       = "reservation.checked_in"
)

// ReservationEvent is the fire-and-forget payload handed to the notification
// pipeline (email delivery itself is an external consumer).
type ReservationEvent struct {
	EventID         string    `json:"event_id"`
	Type            string    `json:"type"`
	ReservationCode string    `json:"reservation_code"`
	GuestEmail      string    `json:"guest_email"`
	RoomNumber      string    `json:"room_number"`
	CheckInDate     string    `json:"check_in_date"`
	CheckOutDate    string    `json:"check_out_date"`
	TotalAmount     string    `json:"total_amount"`
	Currency        string    `json:"currency"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// Notifier publishes reservation events. Publish failures must never roll
// back the ledger transaction that produced the event; callers log and move on.
type Notifier interface {
	Publish(ctx context.Context, event ReservationEvent) error
}

// AMQPNotifier publishes events to a RabbitMQ queue consumed by the email
// worker.
type AMQPNotifier struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     *zap.Logger
}

func NewAMQPNotifier(url, queue string, log *zap.Logger) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %q: %w", queue, err)
	}
	return &AMQPNotifier{conn: conn, channel: channel, queue: queue, log: log}, nil
}

func (n *AMQPNotifier) Publish(ctx context.Context, event ReservationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	err = n.channel.PublishWithContext(ctx, "", n.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

func (n *AMQPNotifier) Close() {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		n.conn.Close()
	}
}

// LogNotifier is the fallback when no broker is configured: events are only
// logged. Useful for development and tests.
type LogNotifier struct {
	Log *zap.Logger
}

func (n LogNotifier) Publish(_ context.Context, event ReservationEvent) error {
	n.Log.Info("notification event",
		zap.String("event_id", event.EventID),
		zap.String("type", event.Type),
		zap.String("reservation_code", event.ReservationCode),
		zap.String("guest_email", event.GuestEmail),
	)
	return nil
}

func newEventID() string { return uuid.NewString() }
