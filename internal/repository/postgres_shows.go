package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tickethall/ticket-reservation-system/internal/domain"
)

type PostgresShowRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowRepository(db *pgxpool.Pool) *PostgresShowRepository {
	return &PostgresShowRepository{
		db: db,
	}
}

func (p *PostgresShowRepository) Create(ctx context.Context, show *domain.Show) error {
	q := queryerFrom(ctx, p.db)

	id, err := nextID(ctx, q, "shows")
	if err != nil {
		return err
	}

	query := `
		INSERT INTO shows (id, movie_id, show_date, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = q.Exec(ctx, query, id, show.MovieID, show.Date, show.StartsAt, show.EndsAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrRecordNotFound
		}

		return translateErr(err)
	}

	show.ID = id

	return nil
}

func (p *PostgresShowRepository) AttachTheater(ctx context.Context, showID, theaterID int) error {
	q := queryerFrom(ctx, p.db)

	query := `INSERT INTO plays (show_id, theater_id) VALUES ($1, $2)`

	_, err := q.Exec(ctx, query, showID, theaterID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrRecordNotFound
		}

		return translateErr(err)
	}

	return nil
}

// DeleteOnDate removes dependents before the shows themselves: payments of
// the affected bookings, then bookings, then seat rows and theater
// associations. All five statements run in the caller's transaction.
func (p *PostgresShowRepository) DeleteOnDate(ctx context.Context, date time.Time) (int64, error) {
	q := queryerFrom(ctx, p.db)

	statements := []string{
		`DELETE FROM payments WHERE booking_id IN (
			SELECT b.id FROM bookings b
			JOIN shows s ON b.show_id = s.id
			WHERE s.show_date = $1
		)`,
		`DELETE FROM bookings WHERE show_id IN (SELECT id FROM shows WHERE show_date = $1)`,
		`DELETE FROM show_seats WHERE show_id IN (SELECT id FROM shows WHERE show_date = $1)`,
		`DELETE FROM plays WHERE show_id IN (SELECT id FROM shows WHERE show_date = $1)`,
	}

	for _, stmt := range statements {
		if _, err := q.Exec(ctx, stmt, date); err != nil {
			return 0, translateErr(err)
		}
	}

	tag, err := q.Exec(ctx, `DELETE FROM shows WHERE show_date = $1`, date)
	if err != nil {
		return 0, translateErr(err)
	}

	return tag.RowsAffected(), nil
}

func (p *PostgresShowRepository) GetStartingAt(ctx context.Context, at time.Time) ([]domain.Show, error) {
	q := queryerFrom(ctx, p.db)

	query := `
		SELECT id, movie_id, show_date, starts_at, ends_at
		FROM shows
		WHERE starts_at = $1
		ORDER BY id
	`

	rows, err := q.Query(ctx, query, at)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	shows := make([]domain.Show, 0)

	for rows.Next() {
		var show domain.Show

		err := rows.Scan(&show.ID, &show.MovieID, &show.Date, &show.StartsAt, &show.EndsAt)
		if err != nil {
			return nil, translateErr(err)
		}

		shows = append(shows, show)
	}

	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}

	return shows, nil
}

func (p *PostgresShowRepository) ScheduleForMovieAtCinema(
	ctx context.Context,
	title string,
	cinemaID int,
	from, to time.Time) ([]domain.ShowSummary, error) {

	q := queryerFrom(ctx, p.db)

	query := `
		SELECT s.id, m.title, m.duration_seconds, s.show_date, s.starts_at
		FROM shows s
		JOIN movies m ON s.movie_id = m.id
		JOIN plays p ON p.show_id = s.id
		JOIN theaters t ON p.theater_id = t.id
		WHERE m.title = $1
			AND t.cinema_id = $2
			AND s.show_date BETWEEN $3 AND $4
		ORDER BY s.starts_at
	`

	rows, err := q.Query(ctx, query, title, cinemaID, from, to)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	summaries := make([]domain.ShowSummary, 0)

	for rows.Next() {
		var summary domain.ShowSummary

		err := rows.Scan(
			&summary.ID,
			&summary.MovieTitle,
			&summary.DurationSeconds,
			&summary.Date,
			&summary.StartsAt,
		)
		if err != nil {
			return nil, translateErr(err)
		}

		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}

	return summaries, nil
}
