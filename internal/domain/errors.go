package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrEditConflict        = errors.New("edit conflict")
	ErrInvalidBookingState = errors.New("operation is not valid for the booking's current status")
	ErrSeatHoldExpired     = errors.New("seat hold not found or has expired")
)

// SeatConflictError reports the subset of requested seats that are already
// held by another active booking. The caller may retry with different seats.
type SeatConflictError struct {
	ShowID  int
	SeatIDs []int
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seat(s) %v of show %d are already reserved", e.SeatIDs, e.ShowID)
}
