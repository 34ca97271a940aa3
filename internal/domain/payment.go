package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusFailed  PaymentStatus = "failed"

	PaymentStatusCompleted PaymentStatus = "completed"

	// PaymentStatusNeedsReconciliation means the gateway captured the charge
	// but the booking could not be committed. Refund or manual booking is an
	// ops process outside this system; the row is the audit trail for it.
	PaymentStatusNeedsReconciliation PaymentStatus = "needs_reconciliation"
)

type Payment struct {
	ID          int
	UserID      int
	IntentID    *string
	Amount      decimal.Decimal
	Currency    string
	Status      PaymentStatus
	ErrorMsg    *string
	PaymentDate *time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByIntentId(ctx context.Context, intentID string) (*Payment, error)
	UpdateStatus(ctx context.Context, intentID string, status PaymentStatus, errMsg string) error
}

// PaymentIntent is the gateway's opaque charge reference handed back to the
// client. Confirmation arrives later, asynchronously, carrying the same ID.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

type PaymentProvider interface {
	CreateIntent(ctx context.Context, amountMinorUnits int64, currency string, metadata map[string]string) (*PaymentIntent, error)
}
