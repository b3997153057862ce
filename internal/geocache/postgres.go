package geocache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leiloom/map-service/internal/models"
)

// Database abstracts the pgx pool methods used by the store, so tests
// can substitute a pgxmock pool.
type Database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewDatabase creates a pgx connection pool from the individual
// connection parameters.
func NewDatabase(ctx context.Context, host, port, user, password, name string) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, password, host, port, name)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return pool, nil
}

// PostgresStore persists geocoded coordinates in the geocode_cache
// table, surviving service restarts.
type PostgresStore struct {
	db  Database
	log *slog.Logger
}

// NewPostgresStore creates a Postgres-backed store using the provided
// database handle.
func NewPostgresStore(db Database, log *slog.Logger) *PostgresStore {
	return &PostgresStore{db: db, log: log}
}

// Get returns the cached coordinate for key, if present. A missing row
// is not an error.
func (p *PostgresStore) Get(ctx context.Context, key string) (models.Coordinate, bool, error) {
	query := `
		SELECT latitude, longitude
		FROM geocode_cache
		WHERE cache_key = $1;
	`

	var coords models.Coordinate
	err := p.db.QueryRow(ctx, query, key).Scan(&coords.Lat, &coords.Lng)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Coordinate{}, false, nil
	}
	if err != nil {
		return models.Coordinate{}, false, fmt.Errorf("failed to query cache entry: %w", err)
	}

	p.log.DebugContext(ctx, "Cache entry found in postgres", "key", key)

	return coords, true, nil
}

// Set upserts the coordinate under key. The conflict clause makes the
// write last-write-wins.
func (p *PostgresStore) Set(ctx context.Context, key string, coords models.Coordinate) error {
	query := `
		INSERT INTO geocode_cache (cache_key, latitude, longitude, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (cache_key) DO UPDATE
		SET latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			updated_at = NOW();
	`

	_, err := p.db.Exec(ctx, query, key, coords.Lat, coords.Lng)
	if err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}

	return nil
}
