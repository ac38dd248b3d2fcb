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

package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
)

// SetupTestDB connects to the test world-state database, applies the
// schema, and returns a cleanup func that truncates every table and
// closes the pool. Tests call t.Skip if the database is unreachable
// rather than failing the whole suite in environments with no Postgres.
func SetupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("TEST_DB_PORT")
	if port == "" {
		port = "5434"
	}

	cfg := Config{
		Host:         host,
		Port:         port,
		User:         "ledgerquery",
		Password:     "ledgerquery_test_password",
		Database:     "ledgerquery_test",
		SSLMode:      "disable",
		MaxOpenConns: 10,
		MaxIdleConns: 10,
	}

	ctx := context.Background()
	db, err := New(ctx, cfg)
	if err != nil {
		t.Skipf("no reachable test database: %v", err)
	}

	truncateAll(ctx, db)

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanup := func() {
		truncateAll(ctx, db)
		db.Close()
	}

	return db, cleanup
}

func truncateAll(ctx context.Context, db *DB) {
	tables := []string{
		"granted_permissions",
		"peers",
		"account_detail",
		"account_balances",
		"assets",
		"account_roles",
		"roles",
		"signatories",
		"accounts",
		"domains",
	}
	for _, table := range tables {
		_, _ = db.pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
	}
	_, _ = db.pool.Exec(ctx, `UPDATE chain_state SET height = 0`)
}

// seedFixture inserts a minimal, self-consistent world state: one
// domain, one account with two signatories and one role, one asset
// with a balance, one account-detail record, and one peer. Tests build
// on top of it rather than repeating this boilerplate per case.
func seedFixture(ctx context.Context, db *DB) error {
	stmts := []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO domains (domain_id, default_role_id) VALUES ($1, $2)`, []any{"test", "user"}},
		{`INSERT INTO roles (role_id, permissions) VALUES ($1, $2)`, []any{"user", int64(0)}},
		{`INSERT INTO accounts (account_id, domain_id, quorum) VALUES ($1, $2, $3)`, []any{"alice@test", "test", 1}},
		{`INSERT INTO account_roles (account_id, role_id) VALUES ($1, $2)`, []any{"alice@test", "user"}},
		{`INSERT INTO signatories (account_id, public_key) VALUES ($1, $2)`, []any{"alice@test", "aaaa"}},
		{`INSERT INTO signatories (account_id, public_key) VALUES ($1, $2)`, []any{"alice@test", "bbbb"}},
		{`INSERT INTO assets (asset_id, domain_id, precision) VALUES ($1, $2, $3)`, []any{"coin#test", "test", 2}},
		{`INSERT INTO account_balances (account_id, asset_id, amount) VALUES ($1, $2, $3)`, []any{"alice@test", "coin#test", "10.00"}},
		{`INSERT INTO account_detail (account_id, writer_id, key, value) VALUES ($1, $2, $3, $4)`, []any{"alice@test", "alice@test", "nickname", "Alice"}},
		{`INSERT INTO peers (address, public_key) VALUES ($1, $2)`, []any{"peer1.example.com:10001", "cccc"}},
		{`UPDATE chain_state SET height = $1`, []any{uint64(5)}},
	}
	for _, s := range stmts {
		if _, err := db.pool.Exec(ctx, s.sql, s.args...); err != nil {
			return fmt.Errorf("seedFixture: %w", err)
		}
	}
	return nil
}
