package db

import (
	"context"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// PoolOptions bounds the connection pool.
type PoolOptions struct {
	MinIdle int
	MaxOpen int
}

// Open connects to Postgres through pgx and verifies the connection. Requests beyond MaxOpen
// wait for a free connection until their context is done.
func Open(ctx context.Context, dsn string, pool PoolOptions) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(pool.MaxOpen)
	db.SetMaxIdleConns(pool.MinIdle)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
