package integration_test

import (
	"context"
	"io"
	"log"
	"log/slog"
	"testing"
	"time"

	"github.com/cankorkmaz/cinegrid/internal/booking"
	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/cankorkmaz/cinegrid/internal/inventory"
	"github.com/cankorkmaz/cinegrid/internal/repository"
	"github.com/cankorkmaz/cinegrid/internal/staging"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

const (
	dbName         = "cinegrid"
	dbUser         = "test_user"
	dbPassword     = "test_password"
	dbImageName    = "postgres:17-alpine"
	cacheImageName = "redis:7"
)

// BaseSuite wires the real storage stack (Postgres, Redis) to the booking
// core. HTTP is deliberately out of scope here; the handlers are covered by
// the app package tests.
type BaseSuite struct {
	suite.Suite
	db             *pgxpool.Pool
	redis          *redis.Client
	dbContainer    *PostgresContainer
	cacheContainer *RedisContainer

	userRepo     domain.UserRepository
	showtimeRepo domain.ShowtimeRepository
	layoutRepo   domain.LayoutRepository
	bookingRepo  domain.BookingRepository
	foodRepo     domain.FoodItemRepository
	paymentRepo  domain.PaymentRepository

	inventory    *inventory.Inventory
	stagingStore *staging.RedisStore
	lifecycle    *booking.Lifecycle
}

func (s *BaseSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()

	postgresContainer, err := getDbContainer(ctx)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		return
	}

	redisContainer, err := getCacheContainer(ctx)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		return
	}

	s.dbContainer = postgresContainer
	s.cacheContainer = redisContainer

	db, err := pgxpool.New(ctx, postgresContainer.ConnectionString)
	if err != nil {
		log.Printf("cannot create connection pool: %s", err)
		return
	}

	s.db = db
	s.redis = redis.NewClient(&redis.Options{Addr: redisContainer.ConnectionString})

	s.userRepo = repository.NewPostgresUserRepository(db)
	s.showtimeRepo = repository.NewPostgresShowtimeRepository(db)
	s.layoutRepo = repository.NewPostgresLayoutRepository(db)
	s.bookingRepo = repository.NewPostgresBookingRepository(db)
	s.foodRepo = repository.NewPostgresFoodItemRepository(db)
	s.paymentRepo = repository.NewPostgresPaymentRepository(db)

	s.inventory = inventory.New(s.layoutRepo)
	s.stagingStore = staging.NewRedisStore(s.redis, staging.DefaultTTL)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.lifecycle = booking.NewLifecycle(s.inventory, s.bookingRepo, s.showtimeRepo, s.stagingStore, logger)
}

func (s *BaseSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.redis != nil {
		s.redis.Close()
	}
	if s.dbContainer != nil {
		if err := testcontainers.TerminateContainer(s.dbContainer.Container.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
	if s.cacheContainer != nil {
		if err := testcontainers.TerminateContainer(s.cacheContainer.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
}

// seedUser inserts an activated user directly and returns its id.
func (s *BaseSuite) seedUser(ctx context.Context, email string) int {
	var id int

	err := s.db.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email, password_hash, activated)
		VALUES ('Test', 'User', $1, 'x', TRUE)
		RETURNING id`, email).Scan(&id)
	s.Require().NoError(err)

	return id
}

// seedShowtime provisions a movie, a theater and a showtime with a fresh
// 4x5 layout (row 1 premium, row 2 VIP) and returns the showtime.
func (s *BaseSuite) seedShowtime(ctx context.Context, start time.Time) *domain.Showtime {
	var movieID, theaterID int

	err := s.db.QueryRow(ctx,
		`INSERT INTO movies (title) VALUES ('Test Movie') RETURNING id`).Scan(&movieID)
	s.Require().NoError(err)

	err = s.db.QueryRow(ctx,
		`INSERT INTO theaters (name, city) VALUES ('Test Theater', 'Test City') RETURNING id`).Scan(&theaterID)
	s.Require().NoError(err)

	grid, err := domain.NewSeatGrid(4, 5, map[domain.SeatCategory][]domain.Coord{
		domain.SeatPremium: {{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 1, Col: 3}, {Row: 1, Col: 4}},
		domain.SeatVIP:     {{Row: 2, Col: 0}, {Row: 2, Col: 1}, {Row: 2, Col: 2}, {Row: 2, Col: 3}, {Row: 2, Col: 4}},
	})
	s.Require().NoError(err)

	showtime := &domain.Showtime{
		MovieID:       movieID,
		TheaterID:     theaterID,
		Hall:          "Hall 1",
		StartTime:     start,
		Rows:          4,
		Cols:          5,
		PriceStandard: decimal.RequireFromString("250"),
		PricePremium:  decimal.RequireFromString("400"),
		PriceVIP:      decimal.RequireFromString("600"),
	}

	s.Require().NoError(s.showtimeRepo.Create(ctx, showtime, grid.Encode()))

	return showtime
}
