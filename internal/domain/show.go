package domain

import (
	"context"
	"time"
)

// Show identifies a single scheduled screening. Immutable once created.
type Show struct {
	ID       int
	MovieID  int
	Date     time.Time
	StartsAt time.Time
	EndsAt   time.Time
}

// ShowSummary is one row of the schedule listings.
type ShowSummary struct {
	ID              int
	MovieTitle      string
	DurationSeconds int
	Date            time.Time
	StartsAt        time.Time
}

type ShowRepository interface {
	// Create allocates the next show id and inserts the row inside the
	// ambient transaction.
	Create(ctx context.Context, show *Show) error
	// AttachTheater records that the show plays in the given theater.
	AttachTheater(ctx context.Context, showID, theaterID int) error
	// DeleteOnDate removes every show on the given date together with its
	// dependent rows (payments, bookings, show seats, theater
	// associations, in that order) and returns the number of shows
	// removed.
	DeleteOnDate(ctx context.Context, date time.Time) (int64, error)
	GetStartingAt(ctx context.Context, at time.Time) ([]Show, error)
	ScheduleForMovieAtCinema(ctx context.Context, title string, cinemaID int, from, to time.Time) ([]ShowSummary, error)
}
