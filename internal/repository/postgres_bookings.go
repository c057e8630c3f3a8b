package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tickethall/ticket-reservation-system/internal/domain"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	q := queryerFrom(ctx, p.db)

	id, err := nextID(ctx, q, "bookings")
	if err != nil {
		return err
	}

	query := `
		INSERT INTO bookings (id, email, show_id, status, seat_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err = q.QueryRow(
		ctx,
		query,
		id,
		booking.Email,
		booking.ShowID,
		booking.Status,
		booking.SeatCount,
	).Scan(&booking.CreatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrRecordNotFound
		}

		return translateErr(err)
	}

	booking.ID = id

	return nil
}

func (p *PostgresBookingRepository) GetByID(ctx context.Context, id int) (*domain.Booking, error) {
	query := `
		SELECT id, email, show_id, status, seat_count, created_at
		FROM bookings
		WHERE id = $1
	`

	return p.getByID(ctx, query, id)
}

// GetByIDForUpdate row-locks the booking for the rest of the transaction.
// Every operation that writes booking status reads through this, so two
// lifecycle transactions on the same booking serialize instead of both
// acting on the status they read before the other committed.
func (p *PostgresBookingRepository) GetByIDForUpdate(ctx context.Context, id int) (*domain.Booking, error) {
	query := `
		SELECT id, email, show_id, status, seat_count, created_at
		FROM bookings
		WHERE id = $1
		FOR UPDATE
	`

	return p.getByID(ctx, query, id)
}

func (p *PostgresBookingRepository) getByID(ctx context.Context, query string, id int) (*domain.Booking, error) {
	q := queryerFrom(ctx, p.db)

	var booking domain.Booking

	err := q.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.Email,
		&booking.ShowID,
		&booking.Status,
		&booking.SeatCount,
		&booking.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, translateErr(err)
	}

	return &booking, nil
}

func (p *PostgresBookingRepository) UpdateStatus(ctx context.Context, id int, status domain.BookingStatus) error {
	q := queryerFrom(ctx, p.db)

	query := `UPDATE bookings SET status = $1 WHERE id = $2`

	tag, err := q.Exec(ctx, query, status, id)
	if err != nil {
		return translateErr(err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresBookingRepository) CancelAllPending(ctx context.Context) ([]int, error) {
	q := queryerFrom(ctx, p.db)

	query := `
		UPDATE bookings
		SET status = $1
		WHERE status = $2
		RETURNING id
	`

	rows, err := q.Query(ctx, query, domain.BookingCancelled, domain.BookingPending)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	ids := make([]int, 0)

	for rows.Next() {
		var id int

		if err := rows.Scan(&id); err != nil {
			return nil, translateErr(err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}

	return ids, nil
}

func (p *PostgresBookingRepository) DeleteCancelled(ctx context.Context) (int64, error) {
	q := queryerFrom(ctx, p.db)

	// Payments first: they reference the bookings about to go away.
	deletePayments := `
		DELETE FROM payments
		WHERE booking_id IN (SELECT id FROM bookings WHERE status = $1)
	`

	if _, err := q.Exec(ctx, deletePayments, domain.BookingCancelled); err != nil {
		return 0, translateErr(err)
	}

	deleteBookings := `DELETE FROM bookings WHERE status = $1`

	tag, err := q.Exec(ctx, deleteBookings, domain.BookingCancelled)
	if err != nil {
		return 0, translateErr(err)
	}

	return tag.RowsAffected(), nil
}

func (p *PostgresBookingRepository) BookingsOfUser(ctx context.Context, email string) ([]domain.BookingInfo, error) {
	q := queryerFrom(ctx, p.db)

	query := `
		SELECT m.title, s.show_date, s.starts_at, t.name, cs.seat_number
		FROM bookings b
		JOIN shows s ON b.show_id = s.id
		JOIN movies m ON s.movie_id = m.id
		JOIN show_seats ss ON ss.booking_id = b.id
		JOIN cinema_seats cs ON ss.cinema_seat_id = cs.id
		JOIN theaters t ON cs.theater_id = t.id
		WHERE b.email = $1
		ORDER BY s.starts_at, cs.seat_number
	`

	rows, err := q.Query(ctx, query, email)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	infos := make([]domain.BookingInfo, 0)

	for rows.Next() {
		var info domain.BookingInfo

		err := rows.Scan(
			&info.MovieTitle,
			&info.ShowDate,
			&info.StartsAt,
			&info.TheaterName,
			&info.SeatNumber,
		)
		if err != nil {
			return nil, translateErr(err)
		}

		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}

	return infos, nil
}
