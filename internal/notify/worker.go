package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/cankorkmaz/cinegrid/internal/mailer"
	"github.com/cankorkmaz/cinegrid/internal/ticket"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Worker consumes booking.confirmed events, renders the PDF ticket and mails
// it to the buyer. It reconnects with backoff until the context is cancelled.
type Worker struct {
	url       string
	bookings  domain.BookingRepository
	showtimes domain.ShowtimeRepository
	users     domain.UserRepository
	mailer    mailer.Mailer
	logger    *slog.Logger
}

func NewWorker(
	url string,
	bookings domain.BookingRepository,
	showtimes domain.ShowtimeRepository,
	users domain.UserRepository,
	m mailer.Mailer,
	logger *slog.Logger,
) *Worker {

	return &Worker{
		url:       url,
		bookings:  bookings,
		showtimes: showtimes,
		users:     users,
		mailer:    m,
		logger:    logger,
	}
}

func (w *Worker) Run(ctx context.Context) error {
	backoff := time.Second

	for {
		conn, err := amqp.Dial(w.url)
		if err != nil {
			w.logger.Error("failed to dial broker", "error", err, "retry_in", backoff)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}

			if backoff < 30*time.Second {
				backoff *= 2
			}

			continue
		}

		backoff = time.Second

		err = w.consume(ctx, conn)
		conn.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}

		w.logger.Error("consume loop ended, reconnecting", "error", err)
	}
}

func (w *Worker) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(10, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	_, err = ch.QueueDeclare(bookingConfirmedQueue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	deliveries, err := ch.Consume(bookingConfirmedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("deliveries channel closed")
			}

			if err := w.handle(ctx, d.Body); err != nil {
				w.logger.Error("failed to handle booking event", "error", err)
				// do not requeue, a poisoned message would loop forever
				d.Nack(false, false)
				continue
			}

			d.Ack(false)
		}
	}
}

func (w *Worker) handle(ctx context.Context, body []byte) error {
	var event BookingConfirmedEvent

	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	booking, err := w.bookings.GetById(ctx, event.BookingID)
	if err != nil {
		return fmt.Errorf("failed to load booking %d: %w", event.BookingID, err)
	}

	showtime, err := w.showtimes.GetById(ctx, booking.ShowtimeID)
	if err != nil {
		return fmt.Errorf("failed to load showtime %d: %w", booking.ShowtimeID, err)
	}

	user, err := w.users.GetById(ctx, booking.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user %d: %w", booking.UserID, err)
	}

	pdf, err := ticket.Render(booking, showtime)
	if err != nil {
		return err
	}

	data := map[string]any{
		"firstName":   user.FirstName,
		"movieTitle":  showtime.MovieTitle,
		"theaterName": showtime.TheaterName,
		"hall":        showtime.Hall,
		"startTime":   showtime.StartTime.Format(time.RFC1123),
		"seats":       ticket.FormatSeats(booking.Seats),
		"totalPrice":  booking.TotalPrice.StringFixed(2),
		"reference":   booking.Reference,
	}

	attachment := mailer.Attachment{
		Name:    fmt.Sprintf("ticket-%s.pdf", booking.Reference),
		Content: pdf,
	}

	err = w.mailer.SendWithAttachments(user.Email, "booking_confirmation.tmpl", data, attachment)
	if err != nil {
		return fmt.Errorf("failed to send ticket email: %w", err)
	}

	w.logger.Info("ticket email sent", "booking_id", booking.ID, "user_id", user.ID)

	return nil
}
