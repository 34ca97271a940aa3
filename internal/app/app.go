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

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/cankorkmaz/cinegrid/internal/booking"
	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/cankorkmaz/cinegrid/internal/inventory"
	"github.com/cankorkmaz/cinegrid/internal/mailer"
	"github.com/cankorkmaz/cinegrid/internal/notify"
	"github.com/cankorkmaz/cinegrid/internal/payment"
	"github.com/cankorkmaz/cinegrid/internal/repository"
	"github.com/cankorkmaz/cinegrid/internal/staging"
	appvalidator "github.com/cankorkmaz/cinegrid/internal/validator"
	"github.com/cankorkmaz/cinegrid/internal/vcs"
	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

var (
	version = vcs.Version()
)

type application struct {
	config         config
	logger         *slog.Logger
	db             *pgxpool.Pool
	redis          redis.UniversalClient
	validator      *validator.Validate
	mailer         mailer.Mailer
	sessionManager *scs.SessionManager

	userRepo     domain.UserRepository
	tokenRepo    domain.TokenRepository
	showtimeRepo domain.ShowtimeRepository
	foodRepo     domain.FoodItemRepository
	paymentRepo  domain.PaymentRepository
	bookingRepo  domain.BookingRepository

	inventory    domain.SeatInventory
	layoutRepo   domain.LayoutRepository
	stagingStore domain.StagingStore

	lifecycle   *booking.Lifecycle
	coordinator *booking.Coordinator
}

type config struct {
	port int
	env  string
	db   struct {
		dsn          string
		maxOpenConns int
		maxIdleTime  time.Duration
	}
	redis struct {
		url          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  time.Duration
	}
	smtp struct {
		host     string
		port     int
		username string
		password string
		sender   string
	}
	stripe struct {
		secretKey     string
		webhookSecret string
	}
	amqp struct {
		url string
	}
	currency         string
	otelCollectorUrl string
}

func Run() error {
	var cfg config

	flag.IntVar(&cfg.port, "port", 3000, "server port")
	flag.StringVar(&cfg.env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.db.dsn, "db-dsn", os.Getenv("DB_DSN"), "PostgreSQL DSN")
	flag.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.db.maxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.redis.url, "redis-url", os.Getenv("REDIS_URL"), "Redis URL")
	flag.IntVar(&cfg.redis.maxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.redis.maxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.redis.maxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.smtp.host, "smtp-host", "sandbox.smtp.mailtrap.io", "SMTP host")
	flag.IntVar(&cfg.smtp.port, "smtp-port", 2525, "SMTP port")
	flag.StringVar(&cfg.smtp.username, "smtp-username", os.Getenv("SMTP_USERNAME"), "SMTP username")
	flag.StringVar(&cfg.smtp.password, "smtp-password", os.Getenv("SMTP_PASSWORD"), "SMTP password")
	flag.StringVar(&cfg.smtp.sender, "smtp-sender", "CineGrid <no-reply@cinegrid.dev>", "SMTP sender")

	flag.StringVar(&cfg.stripe.secretKey, "stripe-key", os.Getenv("STRIPE_SECRET_KEY"), "Stripe secret key")
	flag.StringVar(&cfg.stripe.webhookSecret, "stripe-webhook-secret", os.Getenv("STRIPE_WEBHOOK_SECRET"), "Stripe webhook secret")

	flag.StringVar(&cfg.amqp.url, "amqp-url", os.Getenv("AMQP_URL"), "RabbitMQ URL for booking events")

	flag.StringVar(&cfg.currency, "currency", "usd", "Charge currency (ISO 4217)")
	flag.StringVar(&cfg.otelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector URL")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	shutdownTelemetry, err := initTelemetry(cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.otelCollectorUrl != "" {
		logger = slog.New(NewMultiHandler(
			slog.NewTextHandler(os.Stdout, nil),
			otelslog.NewHandler(serviceName),
		))
	}

	db, err := newDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := newRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	layoutRepo := repository.NewPostgresLayoutRepository(db)
	showtimeRepo := repository.NewPostgresShowtimeRepository(db)
	bookingRepo := repository.NewPostgresBookingRepository(db)
	stagingStore := staging.NewRedisStore(redisClient, staging.DefaultTTL)
	seatInventory := inventory.New(layoutRepo)

	lifecycle := booking.NewLifecycle(seatInventory, bookingRepo, showtimeRepo, stagingStore, logger)

	paymentRepo := repository.NewPostgresPaymentRepository(db)
	stripeProvider := payment.NewStripePaymentProvider(cfg.stripe.secretKey)

	var events booking.EventPublisher
	if cfg.amqp.url != "" {
		publisher, err := notify.NewPublisher(cfg.amqp.url)
		if err != nil {
			return err
		}
		defer publisher.Close()

		events = publisher
	}

	coordinator := booking.NewCoordinator(
		stagingStore, paymentRepo, stripeProvider, lifecycle, events, cfg.currency, logger)

	app := &application{
		config:         cfg,
		logger:         logger,
		db:             db,
		redis:          redisClient,
		validator:      appvalidator.NewValidator(),
		mailer:         mailer.NewSMTPMailer(cfg.smtp.host, cfg.smtp.port, cfg.smtp.username, cfg.smtp.password, cfg.smtp.sender),
		sessionManager: newSessionManager(redisClient),
		userRepo:       repository.NewPostgresUserRepository(db),
		tokenRepo:      repository.NewPostgresTokenRepository(db),
		showtimeRepo:   showtimeRepo,
		foodRepo:       repository.NewPostgresFoodItemRepository(db),
		paymentRepo:    paymentRepo,
		bookingRepo:    bookingRepo,
		inventory:      seatInventory,
		layoutRepo:     layoutRepo,
		stagingStore:   stagingStore,
		lifecycle:      lifecycle,
		coordinator:    coordinator,
	}

	if cfg.amqp.url != "" {
		worker := notify.NewWorker(cfg.amqp.url, bookingRepo, showtimeRepo, app.userRepo, app.mailer, logger)

		workerCtx, cancelWorker := context.WithCancel(context.Background())
		defer cancelWorker()

		go func() {
			if err := worker.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("notification worker stopped", "error", err)
			}
		}()
	}

	return app.run()
}

func newSessionManager(client *redis.Client) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client)
	sessionManager.IdleTimeout = 20 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func newRedisClient(cfg config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.redis.url,
		MaxIdleConns:    cfg.redis.maxIdleConns,
		MaxActiveConns:  cfg.redis.maxOpenConns,
		ConnMaxIdleTime: cfg.redis.maxIdleTime,
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

func newDatabasePool(cfg config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.db.maxIdleTime
	config.MaxConns = int32(cfg.db.maxOpenConns)
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

func (app *application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.port),
		Handler:      app.routes(),
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

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.env)

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

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(chimiddleware.RequestID)
	r.Use(otelchi.Middleware("cinegrid-api", otelchi.WithChiRoutes(r)))
	r.Use(app.requestLogger)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)
	r.Use(app.ensureGuestUserSession)

	r.Get("/health", app.GetHealth)

	r.Post("/users", app.RegisterUser)
	r.Put("/users/activation", app.ActivateUser)
	r.Post("/sessions", app.Login)
	r.Delete("/sessions", app.Logout)

	r.Get("/showtimes/{showtimeId}/seats", app.GetSeatMapByShowtime)
	r.Get("/theaters/{theaterId}/showtimes", app.GetShowtimesByTheater)
	r.Get("/food", app.GetFoodMenu)

	r.With(app.requireAuthentication).Route("/showtimes/{showtimeId}/cart", func(r chi.Router) {
		r.Post("/", app.CreateCartHandler)
	})

	r.With(app.requireAuthentication).Route("/cart", func(r chi.Router) {
		r.Get("/", app.GetCartHandler)
		r.Put("/food", app.UpdateCartFoodHandler)
		r.Delete("/", app.DeleteCartHandler)
	})

	r.With(app.requireAuthentication).Route("/payment/intent", func(r chi.Router) {
		r.Post("/", app.CreatePaymentIntentHandler)
	})

	r.Route("/webhook", func(r chi.Router) {
		r.Post("/", app.StripeWebhookHandler)
	})

	r.With(app.requireAuthentication).Route("/users/me/bookings", func(r chi.Router) {
		r.Get("/", app.GetUserBookingsHandler)
		r.Get("/{bookingId}", app.GetUserBookingHandler)
		r.Delete("/{bookingId}", app.CancelBookingHandler)
	})

	r.With(app.requireAuthentication, app.requireStaff).Route("/staff", func(r chi.Router) {
		r.Post("/showtimes", app.CreateShowtimeHandler)
		r.Post("/food", app.CreateFoodItemHandler)
		r.Delete("/bookings/{bookingId}", app.StaffCancelBookingHandler)
		r.Post("/bookings/{bookingId}/attendance", app.MarkAttendanceHandler)
		r.Get("/tickets/{reference}", app.VerifyTicketHandler)
	})

	return r
}
