package domain

import "context"

type Theater struct {
	ID        int
	CinemaID  int
	Name      string
	SeatCount int
}

type TheaterRepository interface {
	// TheatersPlayingShow lists the theaters of the given cinema in which
	// the given show plays.
	TheatersPlayingShow(ctx context.Context, cinemaID, showID int) ([]string, error)
}
