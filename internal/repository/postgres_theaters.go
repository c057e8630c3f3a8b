package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresTheaterRepository struct {
	db *pgxpool.Pool
}

func NewPostgresTheaterRepository(db *pgxpool.Pool) *PostgresTheaterRepository {
	return &PostgresTheaterRepository{
		db: db,
	}
}

func (p *PostgresTheaterRepository) TheatersPlayingShow(ctx context.Context, cinemaID, showID int) ([]string, error) {
	q := queryerFrom(ctx, p.db)

	query := `
		SELECT t.name
		FROM plays p
		JOIN theaters t ON p.theater_id = t.id
		WHERE t.cinema_id = $1 AND p.show_id = $2
		ORDER BY t.name
	`

	rows, err := q.Query(ctx, query, cinemaID, showID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	names := make([]string, 0)

	for rows.Next() {
		var name string

		if err := rows.Scan(&name); err != nil {
			return nil, translateErr(err)
		}

		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}

	return names, nil
}
