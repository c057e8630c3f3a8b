// Package engine implements the seat reservation and booking lifecycle
// protocol. The Engine is the only component that mutates seat occupancy or
// booking status; every public operation runs as one all-or-nothing
// transaction, so a failure inside an operation leaves no partial effects
// behind.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tickethall/ticket-reservation-system/internal/domain"
)

type Engine struct {
	tx       domain.TxManager
	users    domain.UserRepository
	movies   domain.MovieRepository
	shows    domain.ShowRepository
	theaters domain.TheaterRepository
	seats    domain.SeatInventory
	bookings domain.BookingRepository
	payments domain.PaymentRepository
}

func New(
	tx domain.TxManager,
	users domain.UserRepository,
	movies domain.MovieRepository,
	shows domain.ShowRepository,
	theaters domain.TheaterRepository,
	seats domain.SeatInventory,
	bookings domain.BookingRepository,
	payments domain.PaymentRepository) *Engine {

	return &Engine{
		tx:       tx,
		users:    users,
		movies:   movies,
		shows:    shows,
		theaters: theaters,
		seats:    seats,
		bookings: bookings,
		payments: payments,
	}
}

type AddUserInput struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Password  string
}

func (e *Engine) AddUser(ctx context.Context, input AddUserInput) (*domain.User, error) {
	user := &domain.User{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
	}

	if err := user.Password.Set(input.Password); err != nil {
		return nil, err
	}

	if err := e.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// AddBooking creates a Pending booking for the user and occupies the
// requested seats in the same transaction. If any seat is held by an active
// booking, nothing is created and no booking id is consumed.
func (e *Engine) AddBooking(ctx context.Context, email string, showID int, seatIDs []int) (*domain.Booking, error) {
	var booking *domain.Booking

	err := e.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := e.users.GetByEmail(ctx, email); err != nil {
			return fmt.Errorf("user %s: %w", email, err)
		}

		b := &domain.Booking{
			Email:     email,
			ShowID:    showID,
			Status:    domain.BookingPending,
			SeatCount: len(seatIDs),
		}

		if err := e.bookings.Create(ctx, b); err != nil {
			return err
		}

		if len(seatIDs) > 0 {
			if err := e.seats.TryOccupy(ctx, showID, seatIDs, b.ID); err != nil {
				return err
			}
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// ChangeSeats swaps one of a booking's seats for another seat of the same
// show. The new seat is acquired before the old one is released, inside one
// transaction, so a conflict on the new seat leaves the original assignment
// untouched.
func (e *Engine) ChangeSeats(ctx context.Context, bookingID, oldSeatID, newSeatID int) error {
	return e.tx.WithTx(ctx, func(ctx context.Context) error {
		booking, err := e.bookings.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}

		if booking.Status == domain.BookingCancelled {
			return domain.ErrInvalidBookingState
		}

		held, err := e.seats.SeatsOf(ctx, bookingID)
		if err != nil {
			return err
		}

		holdsOld := false
		for _, seat := range held {
			if seat.ID == oldSeatID {
				holdsOld = true
				break
			}
		}
		if !holdsOld {
			return fmt.Errorf("booking %d does not hold seat %d: %w",
				bookingID, oldSeatID, domain.ErrRecordNotFound)
		}

		if newSeatID == oldSeatID {
			return nil
		}

		if err := e.seats.TryOccupy(ctx, booking.ShowID, []int{newSeatID}, bookingID); err != nil {
			return err
		}

		return e.seats.Release(ctx, booking.ShowID, []int{oldSeatID})
	})
}

// CancelBooking moves the booking to Cancelled and frees its seats.
// Cancelling an already-Cancelled booking is a no-op.
func (e *Engine) CancelBooking(ctx context.Context, bookingID int) error {
	return e.tx.WithTx(ctx, func(ctx context.Context) error {
		booking, err := e.bookings.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}

		if booking.Status == domain.BookingCancelled {
			return nil
		}

		if err := e.bookings.UpdateStatus(ctx, bookingID, domain.BookingCancelled); err != nil {
			return err
		}

		return e.seats.ReleaseBookings(ctx, []int{bookingID})
	})
}

// CancelPendingBookings cancels every Pending booking and frees their seats.
// Confirmed bookings are not touched. Returns the number of bookings
// cancelled.
func (e *Engine) CancelPendingBookings(ctx context.Context) (int64, error) {
	var count int64

	err := e.tx.WithTx(ctx, func(ctx context.Context) error {
		ids, err := e.bookings.CancelAllPending(ctx)
		if err != nil {
			return err
		}

		if err := e.seats.ReleaseBookings(ctx, ids); err != nil {
			return err
		}

		count = int64(len(ids))
		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// ClearCancelledBookings deletes every Cancelled booking and its payment,
// payments first. Returns the number of bookings removed.
func (e *Engine) ClearCancelledBookings(ctx context.Context) (int64, error) {
	var count int64

	err := e.tx.WithTx(ctx, func(ctx context.Context) error {
		n, err := e.bookings.DeleteCancelled(ctx)
		if err != nil {
			return err
		}

		count = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// RecordPayment stores the booking's payment and confirms the booking. A
// missing booking fails with ErrRecordNotFound, a Cancelled one with
// ErrInvalidBookingState. A prior payment is replaced.
func (e *Engine) RecordPayment(ctx context.Context, bookingID int, method string, amount decimal.Decimal) (*domain.Payment, error) {
	var payment *domain.Payment

	err := e.tx.WithTx(ctx, func(ctx context.Context) error {
		booking, err := e.bookings.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}

		if booking.Status == domain.BookingCancelled {
			return domain.ErrInvalidBookingState
		}

		if _, err := e.payments.DeleteByBookingID(ctx, bookingID); err != nil {
			return err
		}

		p := &domain.Payment{
			BookingID: bookingID,
			Method:    method,
			Amount:    amount,
		}

		if err := e.payments.Create(ctx, p); err != nil {
			return err
		}

		if err := e.bookings.UpdateStatus(ctx, bookingID, domain.BookingConfirmed); err != nil {
			return err
		}

		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return payment, nil
}

// RemovePayment deletes the booking's current payment and, if one existed,
// drives the booking to Cancelled and frees its seats. Returns the number of
// payments removed so the caller can report it.
func (e *Engine) RemovePayment(ctx context.Context, bookingID int) (int64, error) {
	var count int64

	err := e.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := e.bookings.GetByIDForUpdate(ctx, bookingID); err != nil {
			return err
		}

		n, err := e.payments.DeleteByBookingID(ctx, bookingID)
		if err != nil {
			return err
		}

		if n > 0 {
			if err := e.bookings.UpdateStatus(ctx, bookingID, domain.BookingCancelled); err != nil {
				return err
			}
			if err := e.seats.ReleaseBookings(ctx, []int{bookingID}); err != nil {
				return err
			}
		}

		count = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

type AddMovieShowingInput struct {
	Title           string
	ReleaseDate     time.Time
	Country         string
	Description     string
	DurationSeconds int
	Language        string
	Genre           string
	TheaterID       int
	ShowDate        time.Time
	StartsAt        time.Time
	EndsAt          time.Time
}

// AddMovieShowing creates the movie, the show, and the theater association
// together or not at all, with the same gap-free id discipline as bookings.
func (e *Engine) AddMovieShowing(ctx context.Context, input AddMovieShowingInput) (*domain.Show, error) {
	var show *domain.Show

	err := e.tx.WithTx(ctx, func(ctx context.Context) error {
		movie := &domain.Movie{
			Title:           input.Title,
			ReleaseDate:     input.ReleaseDate,
			Country:         input.Country,
			Description:     input.Description,
			DurationSeconds: input.DurationSeconds,
			Language:        input.Language,
			Genre:           input.Genre,
		}

		if err := e.movies.Create(ctx, movie); err != nil {
			return err
		}

		s := &domain.Show{
			MovieID:  movie.ID,
			Date:     input.ShowDate,
			StartsAt: input.StartsAt,
			EndsAt:   input.EndsAt,
		}

		if err := e.shows.Create(ctx, s); err != nil {
			return err
		}

		if err := e.shows.AttachTheater(ctx, s.ID, input.TheaterID); err != nil {
			return err
		}

		show = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	return show, nil
}

// RemoveShowsOnDate deletes every show on the date with its dependent rows.
// Returns the number of shows removed.
func (e *Engine) RemoveShowsOnDate(ctx context.Context, date time.Time) (int64, error) {
	var count int64

	err := e.tx.WithTx(ctx, func(ctx context.Context) error {
		n, err := e.shows.DeleteOnDate(ctx, date)
		if err != nil {
			return err
		}

		count = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Read-only listings. These take no locks and run outside any transaction.

func (e *Engine) TheatersPlayingShow(ctx context.Context, cinemaID, showID int) ([]string, error) {
	return e.theaters.TheatersPlayingShow(ctx, cinemaID, showID)
}

func (e *Engine) ShowsStartingAt(ctx context.Context, at time.Time) ([]domain.Show, error) {
	return e.shows.GetStartingAt(ctx, at)
}

func (e *Engine) SearchMovieTitles(ctx context.Context, titleContains string, releasedAfter time.Time) ([]string, error) {
	return e.movies.SearchTitles(ctx, titleContains, releasedAfter)
}

func (e *Engine) UsersWithPendingBookings(ctx context.Context) ([]domain.User, error) {
	return e.users.WithPendingBookings(ctx)
}

func (e *Engine) ShowsOfMovieAtCinemaBetween(
	ctx context.Context,
	title string,
	cinemaID int,
	from, to time.Time) ([]domain.ShowSummary, error) {

	return e.shows.ScheduleForMovieAtCinema(ctx, title, cinemaID, from, to)
}

func (e *Engine) BookingsOfUser(ctx context.Context, email string) ([]domain.BookingInfo, error) {
	return e.bookings.BookingsOfUser(ctx, email)
}

func (e *Engine) SeatsOfBooking(ctx context.Context, bookingID int) ([]domain.ShowSeat, error) {
	return e.seats.SeatsOf(ctx, bookingID)
}
