package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const (
	connAttemptTimeout = 3 * time.Second
	connRetryDelay     = time.Second
)

// NewPostgresClient connects, applies pending migrations and panics if either fails.
func NewPostgresClient(cfg *config.Config) *sqlx.DB {
	db, err := connectPostgres(cfg.Postgres)
	if err != nil {
		slog.Error("can't connect to Postgres", slog.String("host", cfg.Postgres.Host), slog.String("err", err.Error()))
		panic(err)
	}

	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxIdleTime(time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second)
	slog.Info("Postgres connected", slog.String("db", cfg.Postgres.DbName))

	if err = migratePostgres(db, cfg.Postgres.MigrationDir); err != nil {
		slog.Error("postgres migration failed", slog.String("dir", cfg.Postgres.MigrationDir), slog.String("err", err.Error()))
		panic(err)
	}
	slog.Info("postgres migrated successfully")

	return db
}

func postgresDSN(cfg config.Postgres) string {
	q := url.Values{}
	q.Set("sslmode", cfg.SSLMode)

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:     cfg.DbName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func connectPostgres(cfg config.Postgres) (*sqlx.DB, error) {
	dsn := postgresDSN(cfg)
	attempts := max(cfg.ConnAttempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		var db *sqlx.DB
		ctx, cancel := context.WithTimeout(context.Background(), connAttemptTimeout)
		db, err = sqlx.ConnectContext(ctx, "pgx", dsn)
		cancel()
		if err == nil {
			return db, nil
		}

		slog.Info("Postgres is trying to connect", slog.Int("attemptsLeft", attempts-attempt), slog.String("err", err.Error()))
		if attempt < attempts {
			time.Sleep(connRetryDelay)
		}
	}

	return nil, fmt.Errorf("connect after %d attempts: %w", attempts, err)
}

func migratePostgres(db *sqlx.DB, migrationDir string) error {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("postgres.WithInstance: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationDir, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate.NewWithDatabaseInstance: %w", err)
	}

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("m.Up: %w", err)
	}

	return nil
}
