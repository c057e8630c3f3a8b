package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tickethall/ticket-reservation-system/internal/domain"
)

type PostgresSeatInventory struct {
	db *pgxpool.Pool
}

func NewPostgresSeatInventory(db *pgxpool.Pool) *PostgresSeatInventory {
	return &PostgresSeatInventory{
		db: db,
	}
}

// TryOccupy locks the full requested seat set before touching any of it, so
// two bookings racing for overlapping seats serialize instead of interleaving
// single-seat writes. Seats are locked in id order to keep the lock order
// stable across concurrent callers.
func (p *PostgresSeatInventory) TryOccupy(ctx context.Context, showID int, seatIDs []int, bookingID int) error {
	q := queryerFrom(ctx, p.db)

	query := `
		SELECT ss.id, ss.booking_id, b.status
		FROM show_seats ss
		LEFT JOIN bookings b ON ss.booking_id = b.id
		WHERE ss.show_id = $1 AND ss.id = ANY($2)
		ORDER BY ss.id
		FOR UPDATE OF ss
	`

	rows, err := q.Query(ctx, query, showID, seatIDs)
	if err != nil {
		return translateErr(err)
	}
	defer rows.Close()

	seen := make(map[int]bool, len(seatIDs))
	var conflicts []int

	for rows.Next() {
		var (
			seatID   int
			occupant *int
			status   *domain.BookingStatus
		)

		if err := rows.Scan(&seatID, &occupant, &status); err != nil {
			return translateErr(err)
		}

		seen[seatID] = true

		if occupant == nil || *occupant == bookingID {
			continue
		}
		if status != nil && *status == domain.BookingCancelled {
			continue
		}

		conflicts = append(conflicts, seatID)
	}

	if err := rows.Err(); err != nil {
		return translateErr(err)
	}

	for _, seatID := range seatIDs {
		if !seen[seatID] {
			return domain.ErrRecordNotFound
		}
	}

	if len(conflicts) > 0 {
		return &domain.SeatConflictError{ShowID: showID, SeatIDs: conflicts}
	}

	update := `UPDATE show_seats SET booking_id = $1 WHERE show_id = $2 AND id = ANY($3)`

	if _, err := q.Exec(ctx, update, bookingID, showID, seatIDs); err != nil {
		return translateErr(err)
	}

	return nil
}

func (p *PostgresSeatInventory) Release(ctx context.Context, showID int, seatIDs []int) error {
	q := queryerFrom(ctx, p.db)

	query := `UPDATE show_seats SET booking_id = NULL WHERE show_id = $1 AND id = ANY($2)`

	_, err := q.Exec(ctx, query, showID, seatIDs)
	return translateErr(err)
}

func (p *PostgresSeatInventory) ReleaseBookings(ctx context.Context, bookingIDs []int) error {
	if len(bookingIDs) == 0 {
		return nil
	}

	q := queryerFrom(ctx, p.db)

	query := `UPDATE show_seats SET booking_id = NULL WHERE booking_id = ANY($1)`

	_, err := q.Exec(ctx, query, bookingIDs)
	return translateErr(err)
}

func (p *PostgresSeatInventory) SeatsOf(ctx context.Context, bookingID int) ([]domain.ShowSeat, error) {
	q := queryerFrom(ctx, p.db)

	query := `
		SELECT ss.id, ss.show_id, ss.cinema_seat_id, cs.seat_number, ss.booking_id, ss.price
		FROM show_seats ss
		JOIN cinema_seats cs ON ss.cinema_seat_id = cs.id
		WHERE ss.booking_id = $1
		ORDER BY ss.id
	`

	rows, err := q.Query(ctx, query, bookingID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	seats := make([]domain.ShowSeat, 0)

	for rows.Next() {
		var seat domain.ShowSeat

		err := rows.Scan(
			&seat.ID,
			&seat.ShowID,
			&seat.CinemaSeatID,
			&seat.SeatNumber,
			&seat.BookingID,
			&seat.Price,
		)
		if err != nil {
			return nil, translateErr(err)
		}

		seats = append(seats, seat)
	}

	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}

	return seats, nil
}
