package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/gazetteer/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Database is the subset of *pgxpool.Pool used by the repository.
type Database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

type Repository struct {
	db    Database
	log   *slog.Logger
	table string
}

type Interface interface {
	EnsureSchema(ctx context.Context) error
	ReplacePlaces(ctx context.Context, q models.Query, places []models.Place) (int, error)
}

// NewRepository creates a new instance of Repository writing into table.
// The table name must already be validated as a plain identifier.
func NewRepository(db Database, log *slog.Logger, table string) *Repository {
	return &Repository{db: db, log: log, table: table}
}

// NewDatabase opens a connection pool to url and checks that the server answers.
func NewDatabase(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
