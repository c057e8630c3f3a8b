package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tickethall/ticket-reservation-system/internal/domain"
)

type PostgresPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPaymentRepository(db *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{
		db: db,
	}
}

func (p *PostgresPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	q := queryerFrom(ctx, p.db)

	id, err := nextID(ctx, q, "payments")
	if err != nil {
		return err
	}

	query := `
		INSERT INTO payments (id, booking_id, method, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING paid_at
	`

	err = q.QueryRow(
		ctx,
		query,
		id,
		payment.BookingID,
		payment.Method,
		payment.Amount,
	).Scan(&payment.PaidAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrRecordNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrEditConflict
		}

		return translateErr(err)
	}

	payment.ID = id

	return nil
}

func (p *PostgresPaymentRepository) GetByBookingID(ctx context.Context, bookingID int) (*domain.Payment, error) {
	q := queryerFrom(ctx, p.db)

	query := `
		SELECT id, booking_id, method, amount, paid_at
		FROM payments
		WHERE booking_id = $1
	`

	var payment domain.Payment

	err := q.QueryRow(ctx, query, bookingID).Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.Method,
		&payment.Amount,
		&payment.PaidAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, translateErr(err)
	}

	return &payment, nil
}

func (p *PostgresPaymentRepository) DeleteByBookingID(ctx context.Context, bookingID int) (int64, error) {
	q := queryerFrom(ctx, p.db)

	query := `DELETE FROM payments WHERE booking_id = $1`

	tag, err := q.Exec(ctx, query, bookingID)
	if err != nil {
		return 0, translateErr(err)
	}

	return tag.RowsAffected(), nil
}
