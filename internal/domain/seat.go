package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ShowSeat is one sellable seat of one show. BookingID is nil while the seat
// is free; at most one non-Cancelled booking may occupy a given seat of a
// given show at any time.
type ShowSeat struct {
	ID           int
	ShowID       int
	CinemaSeatID int
	SeatNumber   int
	BookingID    *int
	Price        decimal.Decimal
}

// SeatInventory is the per-show seat occupancy store. All methods observe an
// ambient transaction carried in the context when one is present.
type SeatInventory interface {
	// TryOccupy atomically checks that every requested seat of the show is
	// free (or held only by a Cancelled booking, or already by bookingID)
	// and marks all of them occupied by bookingID. Either every requested
	// seat is granted or none are; on failure it returns a
	// *SeatConflictError naming the seats held by active bookings.
	TryOccupy(ctx context.Context, showID int, seatIDs []int, bookingID int) error
	// Release marks the seats unoccupied. Releasing a free seat is a no-op.
	Release(ctx context.Context, showID int, seatIDs []int) error
	// ReleaseBookings frees every seat held by any of the given bookings.
	ReleaseBookings(ctx context.Context, bookingIDs []int) error
	SeatsOf(ctx context.Context, bookingID int) ([]ShowSeat, error)
}
