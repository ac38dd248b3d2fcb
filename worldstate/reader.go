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

// Package worldstate declares the read-only contract the engine uses to
// look up accounts, domains, roles, assets, peers, signatories, account
// details, and grantable permissions, consistent with the most recently
// committed block. Nothing in this package, or any implementation of it,
// may mutate the underlying store.
//
// Purpose: Storage-agnostic read contract for world state, per §4.2.
// Domain: Ledger (Storage)
package worldstate

import (
	"context"
	"errors"

	"github.com/opentrusty/ledgerquery/identifier"
	"github.com/opentrusty/ledgerquery/ledger"
	"github.com/opentrusty/ledgerquery/permission"
)

// Sentinel errors a Reader implementation returns; handlers translate
// these into the stable ErrorQueryResponse codes of §4.7.
var (
	ErrNoAccount         = errors.New("worldstate: no account")
	ErrNoRole            = errors.New("worldstate: no role")
	ErrNoSignatories     = errors.New("worldstate: no signatories")
	ErrNoAsset           = errors.New("worldstate: no asset")
	ErrNoAccountDetail   = errors.New("worldstate: no account detail")
	ErrInvalidPagination = errors.New("worldstate: invalid pagination")
)

// AssetPage is one page of an account's asset balances.
type AssetPage struct {
	Balances []ledger.AccountAssetBalance
	Next     *identifier.AssetID
	Total    int
}

// AccountDetailPage is one page of an account's JSON detail subtree.
type AccountDetailPage struct {
	Records []ledger.AccountDetail
	Next    *string
	Total   int
}

// Reader is the read-only contract of §4.2. Every method must observe
// the single snapshot opened for the query currently executing (see
// Snapshot below); a Reader obtained via Open(ctx) is only valid for the
// lifetime of that one query.
type Reader interface {
	// GetAccount returns the account, or (nil, nil) if it does not exist.
	GetAccount(ctx context.Context, id identifier.AccountID) (*ledger.Account, error)

	// GetAccountRoles returns the role IDs held by id. Fails ErrNoAccount
	// if id does not exist.
	GetAccountRoles(ctx context.Context, id identifier.AccountID) ([]identifier.RoleID, error)

	// GetAllRoles returns every role ID known to world state.
	GetAllRoles(ctx context.Context) ([]identifier.RoleID, error)

	// GetRolePermissions returns the permission set of role. Fails
	// ErrNoRole if role does not exist.
	GetRolePermissions(ctx context.Context, role identifier.RoleID) (permission.Set, error)

	// GetSignatories returns the public keys authorized to sign for id.
	// Fails ErrNoSignatories when id is missing or has no signatories.
	GetSignatories(ctx context.Context, id identifier.AccountID) ([]string, error)

	// GetAsset returns the asset, or (nil, nil) if it does not exist.
	GetAsset(ctx context.Context, id identifier.AssetID) (*ledger.Asset, error)

	// GetAccountAssets returns one page of id's asset balances ordered by
	// asset ID. Fails ErrInvalidPagination if firstAsset is set and not
	// currently held by id.
	GetAccountAssets(ctx context.Context, id identifier.AccountID, pageSize int, firstAsset *identifier.AssetID) (AssetPage, error)

	// GetAccountDetail returns one page of id's JSON detail subtree,
	// optionally narrowed to a specific writer and/or key. Fails
	// ErrNoAccountDetail if the requested subtree is absent, or
	// ErrInvalidPagination for an unknown firstRecord cursor.
	GetAccountDetail(ctx context.Context, id identifier.AccountID, writer *identifier.AccountID, key *string, pageSize int, firstRecord *string) (AccountDetailPage, error)

	// GetPeers returns every known peer.
	GetPeers(ctx context.Context) ([]ledger.Peer, error)

	// HasGrantable reports whether grantee holds a kind delegation from
	// grantor, per §4.5 step 4.
	HasGrantable(ctx context.Context, grantor, grantee identifier.AccountID, kind permission.Grantable) (bool, error)
}

// Snapshot is a single consistent read view of world state, fixed at
// query entry and released on every exit path (§5 "Snapshot
// isolation"). A Snapshot embeds a Reader so handlers can use it
// directly without distinguishing "the store" from "this query's view
// of the store".
type Snapshot interface {
	Reader

	// Height is the committed ledger height this snapshot was opened
	// against; blockstore reads within the same query must not exceed it.
	Height() uint64

	// Close releases the snapshot. Safe to call more than once.
	Close(ctx context.Context) error
}

// Opener opens a new Snapshot for one query execution. Implementations
// typically wrap a single read-only, serializable database transaction.
type Opener interface {
	Open(ctx context.Context) (Snapshot, error)
}
