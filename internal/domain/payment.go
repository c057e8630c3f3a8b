package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Payment references exactly one booking; a booking holds at most one
// current payment. Removing a booking's payment drives the booking back to
// Cancelled.
type Payment struct {
	ID        int
	BookingID int
	Method    string
	Amount    decimal.Decimal
	PaidAt    time.Time
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByBookingID(ctx context.Context, bookingID int) (*Payment, error)
	// DeleteByBookingID removes the booking's current payment, if any, and
	// reports how many rows were deleted (0 or 1).
	DeleteByBookingID(ctx context.Context, bookingID int) (int64, error)
}
