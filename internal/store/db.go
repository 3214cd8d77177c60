// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store provides database access for SQLite and PostgreSQL.
package store

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	_ "modernc.org/sqlite" // SQLite driver for database/sql
)

// Dialect identifies the SQL database flavour.
type Dialect string

// Supported dialects
const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// supabasePoolerPort is the transaction pooler port, which does not support
// prepared statements.
const supabasePoolerPort = 6543

// DBConfig holds database configuration options.
type DBConfig struct {
	Dialect Dialect
	// Path is the SQLite database file.
	Path string
	// URL is the PostgreSQL connection string.
	URL string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultDBConfig returns sensible pool defaults.
func DefaultDBConfig() DBConfig {
	return DBConfig{
		Dialect:         DialectSQLite,
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
	}
}

// Open opens a database connection for the configured dialect and verifies it.
func Open(cfg DBConfig) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Dialect {
	case DialectSQLite, "":
		db, err = openSQLite(cfg.Path)
	case DialectPostgres:
		db, err = openPostgres(cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported database dialect %q", cfg.Dialect)
	}
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// NewDB opens a SQLite database with default pool settings.
func NewDB(path string) (*sql.DB, error) {
	cfg := DefaultDBConfig()
	cfg.Path = path
	return Open(cfg)
}

// openSQLite passes pragmas through the DSN so that every pooled connection
// gets them, not only the first one.
func openSQLite(path string) (*sql.DB, error) {
	pragmas := []string{
		"journal_mode(WAL)",
		"busy_timeout(5000)",
		"synchronous(NORMAL)",
		"foreign_keys(1)",
		"temp_store(MEMORY)",
	}
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	q.Set("_time_format", "sqlite")

	db, err := sql.Open("sqlite", "file:"+path+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

func openPostgres(databaseURL string) (*sql.DB, error) {
	connCfg, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}

	// The pooler runs in transaction mode. CacheDescribe avoids prepared
	// statements; an explicit default_query_exec_mode in the URL still wins.
	if connCfg.Port == supabasePoolerPort && connCfg.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		connCfg.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
	}

	return stdlib.OpenDB(*connCfg), nil
}
