package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"github.com/shopspring/decimal"
	"github.com/tickethall/ticket-reservation-system/internal/domain"
	"github.com/tickethall/ticket-reservation-system/internal/engine"
	"github.com/tickethall/ticket-reservation-system/internal/repository"
	appvalidator "github.com/tickethall/ticket-reservation-system/internal/validator"
	"github.com/tickethall/ticket-reservation-system/internal/vcs"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

var (
	version = vcs.Version()
)

// BookingEngine is the surface of the booking lifecycle engine the handlers
// depend on.
type BookingEngine interface {
	AddUser(ctx context.Context, input engine.AddUserInput) (*domain.User, error)
	AddBooking(ctx context.Context, email string, showID int, seatIDs []int) (*domain.Booking, error)
	ChangeSeats(ctx context.Context, bookingID, oldSeatID, newSeatID int) error
	CancelBooking(ctx context.Context, bookingID int) error
	CancelPendingBookings(ctx context.Context) (int64, error)
	ClearCancelledBookings(ctx context.Context) (int64, error)
	RecordPayment(ctx context.Context, bookingID int, method string, amount decimal.Decimal) (*domain.Payment, error)
	RemovePayment(ctx context.Context, bookingID int) (int64, error)
	AddMovieShowing(ctx context.Context, input engine.AddMovieShowingInput) (*domain.Show, error)
	RemoveShowsOnDate(ctx context.Context, date time.Time) (int64, error)
	TheatersPlayingShow(ctx context.Context, cinemaID, showID int) ([]string, error)
	ShowsStartingAt(ctx context.Context, at time.Time) ([]domain.Show, error)
	SearchMovieTitles(ctx context.Context, titleContains string, releasedAfter time.Time) ([]string, error)
	UsersWithPendingBookings(ctx context.Context) ([]domain.User, error)
	ShowsOfMovieAtCinemaBetween(ctx context.Context, title string, cinemaID int, from, to time.Time) ([]domain.ShowSummary, error)
	BookingsOfUser(ctx context.Context, email string) ([]domain.BookingInfo, error)
	SeatsOfBooking(ctx context.Context, bookingID int) ([]domain.ShowSeat, error)
}

type Application struct {
	config    Config
	logger    *slog.Logger
	db        *pgxpool.Pool
	redis     redis.UniversalClient
	validator *validator.Validate
	engine    BookingEngine
}

type Config struct {
	Port             int
	Env              string
	DB               DBConfig
	Redis            RedisConfig
	OtelCollectorUrl string
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

func NewApp(
	cfg Config,
	logger *slog.Logger,
	db *pgxpool.Pool,
	redisClient redis.UniversalClient,
	validator *validator.Validate,
	bookingEngine BookingEngine) *Application {

	return &Application{
		config:    cfg,
		logger:    logger,
		db:        db,
		redis:     redisClient,
		validator: validator,
		engine:    bookingEngine,
	}
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", "", "Redis URL")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector URL")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := NewRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	txManager := repository.NewTxManager(db)

	bookingEngine := engine.New(
		txManager,
		repository.NewPostgresUserRepository(db),
		repository.NewPostgresMovieRepository(db),
		repository.NewPostgresShowRepository(db),
		repository.NewPostgresTheaterRepository(db),
		repository.NewPostgresSeatInventory(db),
		repository.NewPostgresBookingRepository(db),
		repository.NewPostgresPaymentRepository(db),
	)

	app := NewApp(cfg, logger, db, redisClient, appvalidator.NewValidator(), bookingEngine)

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		app.logger = slog.New(NewMultiHandler(
			slog.NewTextHandler(os.Stdout, nil),
			otelslog.NewHandler("ticket-reservation-api"),
		))
	}

	return app.run()
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(app.recoverPanic)

	if app.config.OtelCollectorUrl != "" {
		r.Use(otelchi.Middleware("ticket-reservation-api", otelchi.WithChiRoutes(r)))
	}

	r.Get("/healthcheck", app.GetHealth)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", app.CreateUserHandler)
		r.Get("/pending-bookings", app.GetUsersWithPendingBookingsHandler)
		r.Get("/{email}/bookings", app.GetUserBookingsHandler)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", app.CreateBookingHandler)
		r.Patch("/{id}/seats", app.ChangeSeatsHandler)
		r.Get("/{id}/seats", app.GetBookingSeatsHandler)
		r.Post("/{id}/cancellation", app.CancelBookingHandler)
		r.Post("/{id}/payment", app.RecordPaymentHandler)
		r.Delete("/{id}/payment", app.RemovePaymentHandler)
		r.Post("/pending/cancellation", app.CancelPendingBookingsHandler)
		r.Delete("/cancelled", app.ClearCancelledBookingsHandler)
	})

	r.Route("/shows", func(r chi.Router) {
		r.Post("/", app.CreateShowingHandler)
		r.Get("/", app.GetShowsHandler)
		r.Delete("/", app.DeleteShowsHandler)
		r.Get("/{id}/theaters", app.GetShowTheatersHandler)
		r.Post("/{id}/holds", app.CreateHoldHandler)
		r.Delete("/{id}/holds", app.DeleteHoldHandler)
	})

	r.Get("/movies", app.GetMoviesHandler)
	r.Get("/cinemas/{id}/schedule", app.GetCinemaScheduleHandler)

	return r
}
