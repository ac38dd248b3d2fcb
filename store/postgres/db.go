// Copyright 2026 The OpenTrusty Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package postgres implements worldstate.Reader against a PostgreSQL
// world-state database, opening one serializable, read-only transaction
// per query to satisfy §5's snapshot isolation requirement.
//
// Purpose: PostgreSQL-backed world-state storage.
// Domain: Ledger (Storage)
package postgres

import (
	_ "embed"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var Schema string

// DB wraps the PostgreSQL connection pool the query engine reads
// world state from.
type DB struct {
	pool *pgxpool.Pool
}

// Config holds the world-state database connection parameters.
type Config struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// New opens a connection pool against the world-state database and
// verifies it with a ping, per the corpus's standard DB bootstrap.
func New(ctx context.Context, cfg Config) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d pool_min_conns=%d",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
		cfg.MaxOpenConns, cfg.MaxIdleConns,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("postgres: failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close releases the connection pool.
func (db *DB) Close() {
	db.pool.Close()
}

// Pool returns the underlying connection pool, for callers (migration
// tooling, the pending-pool ingestion adapter) that need raw access.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Migrate applies the embedded schema. Safe to call repeatedly: every
// statement is idempotent (CREATE TABLE IF NOT EXISTS).
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, Schema)
	return err
}
