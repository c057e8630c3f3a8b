package domain

import (
	"context"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCancelled BookingStatus = "Cancelled"
)

// Booking lifecycle: a booking is created Pending with its seats attached
// atomically, moves to Confirmed when a payment is recorded, and moves to
// Cancelled when cancelled or when its payment is removed. Cancelled is
// terminal except for physical deletion via DeleteCancelled.
type Booking struct {
	ID        int
	Email     string
	ShowID    int
	Status    BookingStatus
	SeatCount int
	CreatedAt time.Time
}

// BookingInfo is one row of the per-user booking listing: one entry per
// occupied seat.
type BookingInfo struct {
	MovieTitle  string
	ShowDate    time.Time
	StartsAt    time.Time
	TheaterName string
	SeatNumber  int
}

type BookingRepository interface {
	// Create allocates the next booking id and inserts the row. Id
	// allocation happens inside the ambient transaction, so a failed
	// create consumes no id.
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id int) (*Booking, error)
	// GetByIDForUpdate reads the booking and row-locks it until the ambient
	// transaction ends. Lifecycle operations use it so a concurrent status
	// transition cannot slip in between their status check and their write.
	GetByIDForUpdate(ctx context.Context, id int) (*Booking, error)
	UpdateStatus(ctx context.Context, id int, status BookingStatus) error
	// CancelAllPending transitions every Pending booking to Cancelled and
	// returns the ids of the bookings it touched. Confirmed bookings are
	// left alone.
	CancelAllPending(ctx context.Context) ([]int, error)
	// DeleteCancelled permanently removes all Cancelled bookings, deleting
	// their payments first to respect the payment -> booking reference.
	DeleteCancelled(ctx context.Context) (int64, error)
	BookingsOfUser(ctx context.Context, email string) ([]BookingInfo, error)
}
