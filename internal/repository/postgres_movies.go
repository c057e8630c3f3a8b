package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tickethall/ticket-reservation-system/internal/domain"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

func (p *PostgresMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	q := queryerFrom(ctx, p.db)

	id, err := nextID(ctx, q, "movies")
	if err != nil {
		return err
	}

	query := `
		INSERT INTO movies (id, title, release_date, country, description, duration_seconds, language, genre)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = q.Exec(
		ctx,
		query,
		id,
		movie.Title,
		movie.ReleaseDate,
		movie.Country,
		movie.Description,
		movie.DurationSeconds,
		movie.Language,
		movie.Genre,
	)
	if err != nil {
		return translateErr(err)
	}

	movie.ID = id

	return nil
}

func (p *PostgresMovieRepository) SearchTitles(
	ctx context.Context,
	titleContains string,
	releasedAfter time.Time) ([]string, error) {

	q := queryerFrom(ctx, p.db)

	query := `
		SELECT title
		FROM movies
		WHERE title ILIKE '%' || $1 || '%' AND release_date > $2
		ORDER BY title
	`

	rows, err := q.Query(ctx, query, titleContains, releasedAfter)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	titles := make([]string, 0)

	for rows.Next() {
		var title string

		if err := rows.Scan(&title); err != nil {
			return nil, translateErr(err)
		}

		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}

	return titles, nil
}
