package repository

import (
	"database/sql"
	"fmt"

	"github.com/kawaii-shop/backend/internal/config"

	"github.com/XSAM/otelsql"
	_ "github.com/lib/pq"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Repositories bundles every Postgres-backed repository around one
// explicitly constructed *sql.DB. The handle is built once in main and
// injected; nothing in this package holds package-level state.
type Repositories struct {
	DB *sql.DB

	User      UserRepository
	Product   ProductRepository
	Cart      CartRepository
	Coupon    CouponRepository
	Order     OrderRepository
	Analytics AnalyticsRepository
}

func New(cfg *config.Config) (*Repositories, error) {

	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	// Test the connection to make sure DB is reachable
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repositories{
		DB:        db,
		User:      NewUserRepo(db),
		Product:   NewProductRepo(db),
		Cart:      NewCartRepo(db),
		Coupon:    NewCouponRepo(db),
		Order:     NewOrderRepo(db),
		Analytics: NewAnalyticsRepo(db),
	}, nil
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}
