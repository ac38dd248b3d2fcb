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

// Package query is the engine's single entry point: given a
// (creator_account_id, query) pair it opens one snapshot, authorizes,
// validates, executes, and always produces a Response, per §4.6 and §6.
//
// Purpose: Authorization-gated dispatch and per-kind query handlers.
// Domain: Ledger
package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/opentrusty/ledgerquery/blockstore"
	"github.com/opentrusty/ledgerquery/digest"
	"github.com/opentrusty/ledgerquery/enginecfg"
	"github.com/opentrusty/ledgerquery/pending"
	"github.com/opentrusty/ledgerquery/worldstate"
)

// Dispatcher wires the three storage contracts and the pagination
// tunables into one Dispatch entry point.
type Dispatcher struct {
	WorldState worldstate.Opener
	Blocks     blockstore.Reader
	Pending    pending.Store
	Pagination enginecfg.Pagination
}

// NewDispatcher constructs a Dispatcher from its three storage
// dependencies and the engine's pagination defaults.
func NewDispatcher(ws worldstate.Opener, blocks blockstore.Reader, pend pending.Store, pagination enginecfg.Pagination) *Dispatcher {
	return &Dispatcher{WorldState: ws, Blocks: blocks, Pending: pend, Pagination: pagination}
}

// Dispatch implements the single entry point of §4.6: it opens exactly
// one read-only snapshot for the duration of the query, releases it on
// every exit path including a canceled context, and always returns a
// Response rather than a bare error.
func (d *Dispatcher) Dispatch(ctx context.Context, q Query) Response {
	base := q.Base()
	queryHash := base.QueryHash
	if queryHash == "" {
		queryHash = digest.QueryDigest(string(base.CreatorAccountID), fmt.Sprintf("%d", base.CreatedTimeMs), q.Kind().String())
	}

	snap, err := d.WorldState.Open(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "query: failed to open world-state snapshot", "error", err)
		return internalError(queryHash)
	}
	defer func() {
		if err := snap.Close(ctx); err != nil {
			slog.WarnContext(ctx, "query: failed to close world-state snapshot", "error", err)
		}
	}()

	if base.ValidateSignatories {
		if _, err := snap.GetSignatories(ctx, base.CreatorAccountID); err != nil {
			if errors.Is(err, worldstate.ErrNoSignatories) {
				return noPermissions(queryHash)
			}
			slog.ErrorContext(ctx, "query: failed to validate signatories", "error", err)
			return internalError(queryHash)
		}
	}

	switch query := q.(type) {
	case GetAccountQuery:
		return d.handleGetAccount(ctx, snap, queryHash, query)
	case GetSignatoriesQuery:
		return d.handleGetSignatories(ctx, snap, queryHash, query)
	case GetAccountAssetsQuery:
		return d.handleGetAccountAssets(ctx, snap, queryHash, query)
	case GetAccountDetailQuery:
		return d.handleGetAccountDetail(ctx, snap, queryHash, query)
	case GetAssetInfoQuery:
		return d.handleGetAssetInfo(ctx, snap, queryHash, query)
	case GetRolesQuery:
		return d.handleGetRoles(ctx, snap, queryHash, query)
	case GetRolePermissionsQuery:
		return d.handleGetRolePermissions(ctx, snap, queryHash, query)
	case GetPeersQuery:
		return d.handleGetPeers(ctx, snap, queryHash, query)
	case GetBlockQuery:
		return d.handleGetBlock(ctx, snap, queryHash, query)
	case GetAccountTransactionsQuery:
		return d.handleGetAccountTransactions(ctx, snap, queryHash, query)
	case GetAccountAssetTransactionsQuery:
		return d.handleGetAccountAssetTransactions(ctx, snap, queryHash, query)
	case GetTransactionsQuery:
		return d.handleGetTransactions(ctx, snap, queryHash, query)
	case GetPendingTransactionsQuery:
		return d.handleGetPendingTransactions(ctx, snap, queryHash, query)
	case ValidateBlocksSubscriptionQuery:
		return d.handleValidateBlocksSubscription(ctx, snap, queryHash, query)
	default:
		return notSupported(queryHash)
	}
}

