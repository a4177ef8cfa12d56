package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

type ConnectionInfo struct {
	URL       string
	AccessKey string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

// ParseConfig reads the backend URL and applies the access key as the password.
func ParseConfig(info ConnectionInfo) (*pgx.ConnConfig, error) {
	cfg, err := pgx.ParseConfig(info.URL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if info.AccessKey != "" {
		cfg.Password = info.AccessKey
	}
	if info.ConnectTimeout > 0 {
		cfg.ConnectTimeout = info.ConnectTimeout
	}
	return cfg, nil
}

// OpenDB builds the pool without dialing; reachability is checked by the
// store probe on each request.
func OpenDB(info ConnectionInfo) (*sql.DB, error) {
	cfg, err := ParseConfig(info)
	if err != nil {
		return nil, err
	}

	db := stdlib.OpenDB(*cfg)
	if info.MaxOpenConns > 0 {
		db.SetMaxOpenConns(info.MaxOpenConns)
	}
	if info.MaxIdleConns > 0 {
		db.SetMaxIdleConns(info.MaxIdleConns)
	}
	if info.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(info.ConnMaxLifetime)
	}
	return db, nil
}

func Ping(ctx context.Context, db *sql.DB) error {
	return db.PingContext(ctx)
}

func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}
