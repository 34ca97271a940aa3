package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher pushes booking events onto a durable queue. Publishing is
// best-effort from the caller's point of view: the booking is already
// committed when an event goes out, so a broker outage must never fail the
// purchase.
type Publisher struct {
	conn *amqp.Connection

	mu sync.Mutex
	ch *amqp.Channel
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(bookingConfirmedQueue, true, false, false, false, nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &Publisher{conn: conn, ch: ch}, nil
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}

func (p *Publisher) BookingConfirmed(ctx context.Context, booking *domain.Booking) error {
	event := BookingConfirmedEvent{
		BookingID:   booking.ID,
		Reference:   booking.Reference,
		UserID:      booking.UserID,
		ShowtimeID:  booking.ShowtimeID,
		ConfirmedAt: time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(ctx,
		"",
		bookingConfirmedQueue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.ConfirmedAt,
			Body:         body,
		},
	)
}
