package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"issue-tracking/internal/config"
	"issue-tracking/internal/query"
)

// DB is a database/sql handle plus the dialect its queries are written in.
// Postgres connections come from a pgx pool; SQLite is used for local runs
// and tests.
type DB struct {
	*sql.DB
	Dialect query.Dialect
	pool    *pgxpool.Pool
}

func Open(ctx context.Context, cfg config.Config) (*DB, error) {
	dialect, err := query.DialectFor(cfg.DBDriver)
	if err != nil {
		return nil, err
	}

	switch dialect {
	case query.Postgres:
		pcfg, err := pgxpool.ParseConfig(cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("parse dsn: %w", err)
		}
		pool, err := pgxpool.NewWithConfig(ctx, pcfg)
		if err != nil {
			return nil, fmt.Errorf("connect: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping: %w", err)
		}
		return &DB{DB: stdlib.OpenDBFromPool(pool), Dialect: dialect, pool: pool}, nil
	default:
		return OpenSQLite(ctx, cfg.DBURL)
	}
}

// OpenSQLite opens a SQLite database at dsn (":memory:" for tests).
func OpenSQLite(ctx context.Context, dsn string) (*DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// single writer; also keeps an in-memory database on one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &DB{DB: db, Dialect: query.SQLite}, nil
}

func (d *DB) Close() error {
	err := d.DB.Close()
	if d.pool != nil {
		d.pool.Close()
	}
	return err
}
