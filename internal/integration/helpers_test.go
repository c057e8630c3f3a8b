package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/tickethall/ticket-reservation-system/internal/app"
	"github.com/tickethall/ticket-reservation-system/internal/engine"
	"github.com/tickethall/ticket-reservation-system/internal/repository"
	appvalidator "github.com/tickethall/ticket-reservation-system/internal/validator"
)

type TestApp struct {
	App    *app.Application
	Engine *engine.Engine
	DB     *pgxpool.Pool
	Redis  *redis.Client
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	validator := appvalidator.NewValidator()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	bookingEngine := engine.New(
		repository.NewTxManager(db),
		repository.NewPostgresUserRepository(db),
		repository.NewPostgresMovieRepository(db),
		repository.NewPostgresShowRepository(db),
		repository.NewPostgresTheaterRepository(db),
		repository.NewPostgresSeatInventory(db),
		repository.NewPostgresBookingRepository(db),
		repository.NewPostgresPaymentRepository(db),
	)

	application := app.NewApp(cfg, logger, db, redisClient, validator, bookingEngine)

	return &TestApp{
		App:    application,
		Engine: bookingEngine,
		DB:     db,
		Redis:  redisClient,
	}, nil
}

// seedBaseData loads the fixed fixtures every scenario builds on: one cinema
// with one six-seat theater, one movie with two shows, and three users.
func seedBaseData(t testing.TB, db *pgxpool.Pool) {
	t.Helper()

	statements := []string{
		`INSERT INTO cinemas (id, name, city) OVERRIDING SYSTEM VALUE
		 VALUES (1, 'Grand Cinema', 'Riverside')`,
		`INSERT INTO theaters (id, cinema_id, name, seat_count) OVERRIDING SYSTEM VALUE
		 VALUES (1, 1, 'Screen 1', 6)`,
		`INSERT INTO cinema_seats (id, theater_id, seat_number) OVERRIDING SYSTEM VALUE
		 SELECT n, 1, n FROM generate_series(1, 6) AS n`,
		`INSERT INTO movies (id, title, release_date, duration_seconds)
		 VALUES (1, 'Dune', '2021-10-22', 9300)`,
		`INSERT INTO shows (id, movie_id, show_date, starts_at, ends_at)
		 VALUES (1, 1, '2026-09-01', '2026-09-01 19:00:00+00', '2026-09-01 21:35:00+00'),
		        (2, 1, '2026-09-02', '2026-09-02 19:00:00+00', '2026-09-02 21:35:00+00')`,
		`INSERT INTO plays (show_id, theater_id) VALUES (1, 1), (2, 1)`,
		`INSERT INTO show_seats (id, show_id, cinema_seat_id, price) OVERRIDING SYSTEM VALUE
		 SELECT (s - 1) * 6 + n, s, n, 12.50 FROM generate_series(1, 2) AS s, generate_series(1, 6) AS n`,
		`UPDATE id_counters SET value = 1 WHERE name = 'movies'`,
		`UPDATE id_counters SET value = 2 WHERE name = 'shows'`,
		`INSERT INTO users (email, first_name, last_name, phone, password_hash)
		 VALUES ('alice@example.com', 'Alice', 'Walker', '5550000001', decode('00', 'hex')),
		        ('bob@example.com', 'Bob', 'Odenkirk', '5550000002', decode('00', 'hex')),
		        ('carol@example.com', 'Carol', 'Danvers', '5550000003', decode('00', 'hex'))`,
	}

	for _, stmt := range statements {
		_, err := db.Exec(context.Background(), stmt)
		require.NoError(t, err)
	}
}

// resetBookingState wipes bookings and payments between tests while keeping
// the seeded catalog intact.
func resetBookingState(t testing.TB, db *pgxpool.Pool) {
	t.Helper()

	statements := []string{
		`UPDATE show_seats SET booking_id = NULL`,
		`DELETE FROM payments`,
		`DELETE FROM bookings`,
	}

	for _, stmt := range statements {
		_, err := db.Exec(context.Background(), stmt)
		require.NoError(t, err)
	}
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indetermistic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		return k == "timestamp" || k == "requestId" || k == "createdAt" || k == "paidAt"
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func seatOccupant(t testing.TB, db *pgxpool.Pool, seatID int) *int {
	t.Helper()

	var occupant *int
	err := db.QueryRow(context.Background(),
		`SELECT booking_id FROM show_seats WHERE id = $1`, seatID).Scan(&occupant)
	require.NoError(t, err)

	return occupant
}

func bookingStatus(t testing.TB, db *pgxpool.Pool, bookingID int) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(),
		`SELECT status FROM bookings WHERE id = $1`, bookingID).Scan(&status)
	require.NoError(t, err)

	return status
}
