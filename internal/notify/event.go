// Package notify publishes booking lifecycle events to RabbitMQ and runs the
// background worker that turns them into ticket emails.
package notify

import "time"

const bookingConfirmedQueue = "booking.confirmed"

type BookingConfirmedEvent struct {
	BookingID   int       `json:"booking_id"`
	Reference   string    `json:"reference"`
	UserID      int       `json:"user_id"`
	ShowtimeID  int       `json:"showtime_id"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}
