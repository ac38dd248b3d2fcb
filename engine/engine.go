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

// Package engine wires the storage backends and the dispatcher into a
// single process-local object graph for a host process to embed. It is
// not a CLI: the surface here is a constructor and the Dispatch entry
// point an external transport layer (gRPC, HTTP, in-process call) drives.
//
// Purpose: Top-level wiring of the query engine's components.
// Domain: Ledger (Infrastructure)
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/opentrusty/ledgerquery/blockstore"
	"github.com/opentrusty/ledgerquery/enginecfg"
	"github.com/opentrusty/ledgerquery/pending"
	"github.com/opentrusty/ledgerquery/query"
	"github.com/opentrusty/ledgerquery/store/pebble"
	"github.com/opentrusty/ledgerquery/store/postgres"
	"github.com/opentrusty/ledgerquery/worldstate"
)

// Engine is the assembled object graph: a ready-to-use Dispatcher plus
// the concrete stores it owns and must release on Close.
type Engine struct {
	dispatcher *query.Dispatcher

	worldStateDB *postgres.DB
	blockStore   *pebble.Store
}

// New opens the world-state and block-log stores described by cfg and
// wires them, along with the caller-supplied pending pool, into a
// Dispatcher.
// The returned Engine owns both stores; callers must call Close.
func New(ctx context.Context, cfg enginecfg.Config, pend pending.Store) (*Engine, error) {
	wsDB, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.WorldState.Host,
		Port:         cfg.WorldState.Port,
		User:         cfg.WorldState.User,
		Password:     cfg.WorldState.Password,
		Database:     cfg.WorldState.Database,
		SSLMode:      cfg.WorldState.SSLMode,
		MaxOpenConns: cfg.WorldState.MaxOpenConns,
		MaxIdleConns: cfg.WorldState.MaxIdleConns,
	})
	if err != nil {
		return nil, fmt.Errorf("engine: failed to open world-state store: %w", err)
	}

	blocks, err := pebble.Open(cfg.BlockStore.Path)
	if err != nil {
		wsDB.Close()
		return nil, fmt.Errorf("engine: failed to open block store: %w", err)
	}

	opener := postgres.NewOpener(wsDB)
	var reader blockstore.Reader = blocks

	dispatcher := query.NewDispatcher(opener, reader, pend, cfg.Pagination)

	return &Engine{
		dispatcher:   dispatcher,
		worldStateDB: wsDB,
		blockStore:   blocks,
	}, nil
}

// Close releases both underlying stores. Safe to call once; the
// pending pool is caller-owned and is not touched here.
func (e *Engine) Close() error {
	e.worldStateDB.Close()
	return e.blockStore.Close()
}

// Dispatch executes q and always returns a Response, per the engine's
// single entry-point contract. Every call is tagged with a fresh trace
// ID for request-scoped logging; the ID is never persisted or returned
// to the caller, it exists only to correlate log lines for one query.
func (e *Engine) Dispatch(ctx context.Context, q query.Query) query.Response {
	traceID := uuid.NewString()
	slog.InfoContext(ctx, "engine: dispatching query", "trace_id", traceID, "kind", q.Kind().String())
	return e.dispatcher.Dispatch(ctx, q)
}
