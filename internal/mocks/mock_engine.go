package mocks

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tickethall/ticket-reservation-system/internal/domain"
	"github.com/tickethall/ticket-reservation-system/internal/engine"
)

type MockEngine struct {
	AddUserFunc                     func(ctx context.Context, input engine.AddUserInput) (*domain.User, error)
	AddBookingFunc                  func(ctx context.Context, email string, showID int, seatIDs []int) (*domain.Booking, error)
	ChangeSeatsFunc                 func(ctx context.Context, bookingID, oldSeatID, newSeatID int) error
	CancelBookingFunc               func(ctx context.Context, bookingID int) error
	CancelPendingBookingsFunc       func(ctx context.Context) (int64, error)
	ClearCancelledBookingsFunc      func(ctx context.Context) (int64, error)
	RecordPaymentFunc               func(ctx context.Context, bookingID int, method string, amount decimal.Decimal) (*domain.Payment, error)
	RemovePaymentFunc               func(ctx context.Context, bookingID int) (int64, error)
	AddMovieShowingFunc             func(ctx context.Context, input engine.AddMovieShowingInput) (*domain.Show, error)
	RemoveShowsOnDateFunc           func(ctx context.Context, date time.Time) (int64, error)
	TheatersPlayingShowFunc         func(ctx context.Context, cinemaID, showID int) ([]string, error)
	ShowsStartingAtFunc             func(ctx context.Context, at time.Time) ([]domain.Show, error)
	SearchMovieTitlesFunc           func(ctx context.Context, titleContains string, releasedAfter time.Time) ([]string, error)
	UsersWithPendingBookingsFunc    func(ctx context.Context) ([]domain.User, error)
	ShowsOfMovieAtCinemaBetweenFunc func(ctx context.Context, title string, cinemaID int, from, to time.Time) ([]domain.ShowSummary, error)
	BookingsOfUserFunc              func(ctx context.Context, email string) ([]domain.BookingInfo, error)
	SeatsOfBookingFunc              func(ctx context.Context, bookingID int) ([]domain.ShowSeat, error)
}

func (m *MockEngine) AddUser(ctx context.Context, input engine.AddUserInput) (*domain.User, error) {
	return m.AddUserFunc(ctx, input)
}

func (m *MockEngine) AddBooking(ctx context.Context, email string, showID int, seatIDs []int) (*domain.Booking, error) {
	return m.AddBookingFunc(ctx, email, showID, seatIDs)
}

func (m *MockEngine) ChangeSeats(ctx context.Context, bookingID, oldSeatID, newSeatID int) error {
	return m.ChangeSeatsFunc(ctx, bookingID, oldSeatID, newSeatID)
}

func (m *MockEngine) CancelBooking(ctx context.Context, bookingID int) error {
	return m.CancelBookingFunc(ctx, bookingID)
}

func (m *MockEngine) CancelPendingBookings(ctx context.Context) (int64, error) {
	return m.CancelPendingBookingsFunc(ctx)
}

func (m *MockEngine) ClearCancelledBookings(ctx context.Context) (int64, error) {
	return m.ClearCancelledBookingsFunc(ctx)
}

func (m *MockEngine) RecordPayment(ctx context.Context, bookingID int, method string, amount decimal.Decimal) (*domain.Payment, error) {
	return m.RecordPaymentFunc(ctx, bookingID, method, amount)
}

func (m *MockEngine) RemovePayment(ctx context.Context, bookingID int) (int64, error) {
	return m.RemovePaymentFunc(ctx, bookingID)
}

func (m *MockEngine) AddMovieShowing(ctx context.Context, input engine.AddMovieShowingInput) (*domain.Show, error) {
	return m.AddMovieShowingFunc(ctx, input)
}

func (m *MockEngine) RemoveShowsOnDate(ctx context.Context, date time.Time) (int64, error) {
	return m.RemoveShowsOnDateFunc(ctx, date)
}

func (m *MockEngine) TheatersPlayingShow(ctx context.Context, cinemaID, showID int) ([]string, error) {
	return m.TheatersPlayingShowFunc(ctx, cinemaID, showID)
}

func (m *MockEngine) ShowsStartingAt(ctx context.Context, at time.Time) ([]domain.Show, error) {
	return m.ShowsStartingAtFunc(ctx, at)
}

func (m *MockEngine) SearchMovieTitles(ctx context.Context, titleContains string, releasedAfter time.Time) ([]string, error) {
	return m.SearchMovieTitlesFunc(ctx, titleContains, releasedAfter)
}

func (m *MockEngine) UsersWithPendingBookings(ctx context.Context) ([]domain.User, error) {
	return m.UsersWithPendingBookingsFunc(ctx)
}

func (m *MockEngine) ShowsOfMovieAtCinemaBetween(
	ctx context.Context,
	title string,
	cinemaID int,
	from, to time.Time) ([]domain.ShowSummary, error) {

	return m.ShowsOfMovieAtCinemaBetweenFunc(ctx, title, cinemaID, from, to)
}

func (m *MockEngine) BookingsOfUser(ctx context.Context, email string) ([]domain.BookingInfo, error) {
	return m.BookingsOfUserFunc(ctx, email)
}

func (m *MockEngine) SeatsOfBooking(ctx context.Context, bookingID int) ([]domain.ShowSeat, error) {
	return m.SeatsOfBookingFunc(ctx, bookingID)
}
