package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tickethall/ticket-reservation-system/internal/domain"
)

type PostgresUserRepository struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{
		db: db,
	}
}

func (p *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	q := queryerFrom(ctx, p.db)

	query := `
		INSERT INTO users (email, first_name, last_name, phone, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := q.QueryRow(
		ctx,
		query,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Password.Hash,
	).Scan(&user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}

		return translateErr(err)
	}

	return nil
}

func (p *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := queryerFrom(ctx, p.db)

	query := `
		SELECT email, first_name, last_name, phone, password_hash, created_at
		FROM users
		WHERE email = $1
	`

	var user domain.User

	err := q.QueryRow(ctx, query, email).Scan(
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Password.Hash,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, translateErr(err)
	}

	return &user, nil
}

func (p *PostgresUserRepository) WithPendingBookings(ctx context.Context) ([]domain.User, error) {
	q := queryerFrom(ctx, p.db)

	query := `
		SELECT DISTINCT u.email, u.first_name, u.last_name
		FROM users u
		JOIN bookings b ON b.email = u.email
		WHERE b.status = $1
		ORDER BY u.email
	`

	rows, err := q.Query(ctx, query, domain.BookingPending)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)

	for rows.Next() {
		var user domain.User

		if err := rows.Scan(&user.Email, &user.FirstName, &user.LastName); err != nil {
			return nil, translateErr(err)
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}

	return users, nil
}
