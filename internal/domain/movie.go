package domain

import (
	"context"
	"time"
)

type Movie struct {
	ID              int
	Title           string
	ReleaseDate     time.Time
	Country         string
	Description     string
	DurationSeconds int
	Language        string
	Genre           string
}

type MovieRepository interface {
	Create(ctx context.Context, movie *Movie) error
	// SearchTitles returns the titles containing the given substring that
	// were released after the given date.
	SearchTitles(ctx context.Context, titleContains string, releasedAfter time.Time) ([]string, error)
}
