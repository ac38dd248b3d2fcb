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

package query

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/opentrusty/ledgerquery/authz"
	"github.com/opentrusty/ledgerquery/blockstore"
	"github.com/opentrusty/ledgerquery/identifier"
	"github.com/opentrusty/ledgerquery/ledger"
	"github.com/opentrusty/ledgerquery/pending"
	"github.com/opentrusty/ledgerquery/permission"
	"github.com/opentrusty/ledgerquery/worldstate"
)

// unpaginatedPoolSize bounds the legacy, unpaginated GetPendingTransactions
// form: it returns the caller's entire pool in one page, per §9.
const unpaginatedPoolSize = math.MaxInt32

// authorize resolves creator's permissions against reader and evaluates
// kind/target through the shared Table, logging on the rare resolution
// failure. It is the one authorization call site every handler below
// goes through, except GetTransactions and GetPendingTransactions,
// which carry bespoke rules (§4.6).
func authorize(ctx context.Context, reader worldstate.Reader, creator identifier.AccountID, kind authz.Kind, target identifier.AccountID) (bool, error) {
	decision, err := authz.Authorize(ctx, reader, creator, kind, target)
	if err != nil {
		return false, err
	}
	return decision.Allowed, nil
}

func resolveTarget(creator, target identifier.AccountID) identifier.AccountID {
	if target == "" {
		return creator
	}
	return target
}

func (d *Dispatcher) handleGetAccount(ctx context.Context, snap worldstate.Snapshot, queryHash string, q GetAccountQuery) Response {
	creator := q.Common.CreatorAccountID
	target := resolveTarget(creator, q.Target)

	allowed, err := authorize(ctx, snap, creator, authz.KindGetAccount, target)
	if err != nil {
		slog.ErrorContext(ctx, "query: get_account authorize failed", "error", err)
		return internalError(queryHash)
	}
	if !allowed {
		return noPermissions(queryHash)
	}
	if !target.Valid() {
		return invalidAccountID(queryHash)
	}

	account, err := snap.GetAccount(ctx, target)
	if err != nil {
		slog.ErrorContext(ctx, "query: get_account failed", "error", err)
		return internalError(queryHash)
	}
	if account == nil {
		return noAccount(queryHash)
	}

	roles, err := snap.GetAccountRoles(ctx, target)
	if err != nil {
		slog.ErrorContext(ctx, "query: get_account_roles failed", "error", err)
		return internalError(queryHash)
	}

	return newSuccess(queryHash, AccountResponse{Account: *account, Roles: roles})
}

func (d *Dispatcher) handleGetSignatories(ctx context.Context, snap worldstate.Snapshot, queryHash string, q GetSignatoriesQuery) Response {
	creator := q.Common.CreatorAccountID
	target := resolveTarget(creator, q.Target)

	allowed, err := authorize(ctx, snap, creator, authz.KindGetSignatories, target)
	if err != nil {
		slog.ErrorContext(ctx, "query: get_signatories authorize failed", "error", err)
		return internalError(queryHash)
	}
	if !allowed {
		return noPermissions(queryHash)
	}
	if !target.Valid() {
		return invalidAccountID(queryHash)
	}

	keys, err := snap.GetSignatories(ctx, target)
	if err != nil {
		if errors.Is(err, worldstate.ErrNoSignatories) {
			return noSignatories(queryHash)
		}
		slog.ErrorContext(ctx, "query: get_signatories failed", "error", err)
		return internalError(queryHash)
	}

	return newSuccess(queryHash, SignatoriesResponse{PublicKeys: keys})
}

func (d *Dispatcher) handleGetAccountAssets(ctx context.Context, snap worldstate.Snapshot, queryHash string, q GetAccountAssetsQuery) Response {
	creator := q.Common.CreatorAccountID
	target := resolveTarget(creator, q.Target)

	allowed, err := authorize(ctx, snap, creator, authz.KindGetAccountAssets, target)
	if err != nil {
		slog.ErrorContext(ctx, "query: get_account_assets authorize failed", "error", err)
		return internalError(queryHash)
	}
	if !allowed {
		return noPermissions(queryHash)
	}
	if !target.Valid() {
		return invalidAccountID(queryHash)
	}

	pageSize, ok := normalizePageSize(q.PageSize, d.Pagination)
	if !ok {
		return invalidPagination(queryHash)
	}

	account, err := snap.GetAccount(ctx, target)
	if err != nil {
		slog.ErrorContext(ctx, "query: get_account_assets account lookup failed", "error", err)
		return internalError(queryHash)
	}
	if account == nil {
		return noAccountAssets(queryHash)
	}

	page, err := snap.GetAccountAssets(ctx, target, pageSize, q.FirstAsset)
	if err != nil {
		if errors.Is(err, worldstate.ErrInvalidPagination) {
			return invalidPagination(queryHash)
		}
		slog.ErrorContext(ctx, "query: get_account_assets failed", "error", err)
		return internalError(queryHash)
	}

	return newSuccess(queryHash, AccountAssetsResponse{Balances: page.Balances, NextAsset: page.Next, Total: page.Total})
}

func (d *Dispatcher) handleGetAccountDetail(ctx context.Context, snap worldstate.Snapshot, queryHash string, q GetAccountDetailQuery) Response {
	creator := q.Common.CreatorAccountID
	target := resolveTarget(creator, q.Target)

	allowed, err := authorize(ctx, snap, creator, authz.KindGetAccountDetail, target)
	if err != nil {
		slog.ErrorContext(ctx, "query: get_account_detail authorize failed", "error", err)
		return internalError(queryHash)
	}
	if !allowed {
		return noPermissions(queryHash)
	}
	if !target.Valid() {
		return invalidAccountID(queryHash)
	}
	if q.Writer != nil && !q.Writer.Valid() {
		return invalidAccountID(queryHash)
	}

	pageSize, ok := normalizePageSize(q.PageSize, d.Pagination)
	if !ok {
		return invalidPagination(queryHash)
	}

	page, err := snap.GetAccountDetail(ctx, target, q.Writer, q.Key, pageSize, q.FirstRecord)
	if err != nil {
		if errors.Is(err, worldstate.ErrNoAccountDetail) {
			return noAccountDetail(queryHash)
		}
		if errors.Is(err, worldstate.ErrInvalidPagination) {
			return invalidPagination(queryHash)
		}
		slog.ErrorContext(ctx, "query: get_account_detail failed", "error", err)
		return internalError(queryHash)
	}

	return newSuccess(queryHash, AccountDetailResponse{Records: page.Records, NextRecord: page.Next, Total: page.Total})
}

func (d *Dispatcher) handleGetAssetInfo(ctx context.Context, snap worldstate.Snapshot, queryHash string, q GetAssetInfoQuery) Response {
	creator := q.Common.CreatorAccountID

	allowed, err := authorize(ctx, snap, creator, authz.KindGetAssetInfo, "")
	if err != nil {
		slog.ErrorContext(ctx, "query: get_asset_info authorize failed", "error", err)
		return internalError(queryHash)
	}
	if !allowed {
		return noPermissions(queryHash)
	}
	if !q.AssetID.Valid() {
		return invalidAssetID(queryHash)
	}

	asset, err := snap.GetAsset(ctx, q.AssetID)
	if err != nil {
		slog.ErrorContext(ctx, "query: get_asset_info failed", "error", err)
		return internalError(queryHash)
	}
	if asset == nil {
		return noAsset(queryHash)
	}

	return newSuccess(queryHash, AssetResponse{Asset: *asset})
}

func (d *Dispatcher) handleGetRoles(ctx context.Context, snap worldstate.Snapshot, queryHash string, q GetRolesQuery) Response {
	allowed, err := authorize(ctx, snap, q.Common.CreatorAccountID, authz.KindGetRoles, "")
	if err != nil {
		slog.ErrorContext(ctx, "query: get_roles authorize failed", "error", err)
		return internalError(queryHash)
	}
	if !allowed {
		return noPermissions(queryHash)
	}

	roleIDs, err := snap.GetAllRoles(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "query: get_roles failed", "error", err)
		return internalError(queryHash)
	}

	return newSuccess(queryHash, RolesResponse{RoleIDs: roleIDs})
}

func (d *Dispatcher) handleGetRolePermissions(ctx context.Context, snap worldstate.Snapshot, queryHash string, q GetRolePermissionsQuery) Response {
	allowed, err := authorize(ctx, snap, q.Common.CreatorAccountID, authz.KindGetRolePermissions, "")
	if err != nil {
		slog.ErrorContext(ctx, "query: get_role_permissions authorize failed", "error", err)
		return internalError(queryHash)
	}
	if !allowed {
		return noPermissions(queryHash)
	}

	perms, err := snap.GetRolePermissions(ctx, q.RoleID)
	if err != nil {
		if errors.Is(err, worldstate.ErrNoRole) {
			return noRoles(queryHash)
		}
		slog.ErrorContext(ctx, "query: get_role_permissions failed", "error", err)
		return internalError(queryHash)
	}

	return newSuccess(queryHash, RolePermissionsResponse{Permissions: perms})
}

func (d *Dispatcher) handleGetPeers(ctx context.Context, snap worldstate.Snapshot, queryHash string, q GetPeersQuery) Response {
	allowed, err := authorize(ctx, snap, q.Common.CreatorAccountID, authz.KindGetPeers, "")
	if err != nil {
		slog.ErrorContext(ctx, "query: get_peers authorize failed", "error", err)
		return internalError(queryHash)
	}
	if !allowed {
		return noPermissions(queryHash)
	}

	peers, err := snap.GetPeers(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "query: get_peers failed", "error", err)
		return internalError(queryHash)
	}

	return newSuccess(queryHash, PeersResponse{Peers: peers})
}

func (d *Dispatcher) handleGetBlock(ctx context.Context, snap worldstate.Snapshot, queryHash string, q GetBlockQuery) Response {
	allowed, err := authorize(ctx, snap, q.Common.CreatorAccountID, authz.KindGetBlock, "")
	if err != nil {
		slog.ErrorContext(ctx, "query: get_block authorize failed", "error", err)
		return internalError(queryHash)
	}
	if !allowed {
		return noPermissions(queryHash)
	}
	if q.Height == 0 {
		return invalidHeight(queryHash)
	}

	block, err := d.Blocks.GetBlock(ctx, q.Height)
	if err != nil {
		if errors.Is(err, blockstore.ErrInvalidHeight) {
			return invalidHeight(queryHash)
		}
		slog.ErrorContext(ctx, "query: get_block failed", "error", err)
		return internalError(queryHash)
	}

	return newSuccess(queryHash, BlockResponse{Block: *block})
}

// sinceFromHash resolves an optional hash cursor into the exclusive
// commit location the blockstore iterators require, reporting
// found=false for an unknown hash (translated by the caller into
// InvalidPagination). A page starts at the cursor transaction itself, so
// the location returned is the one immediately preceding it: the
// previous index in the same block, or a position past every index of
// the previous block.
func (d *Dispatcher) sinceFromHash(ctx context.Context, hash *identifier.TxHash) (loc *ledger.TxLocation, found bool, err error) {
	if hash == nil {
		return nil, true, nil
	}
	_, l, ok, err := d.Blocks.GetTx(ctx, *hash)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	prev := ledger.TxLocation{Height: l.Height, Index: l.Index - 1}
	if l.Index == 0 {
		prev = ledger.TxLocation{Height: l.Height - 1, Index: math.MaxInt32}
	}
	return &prev, true, nil
}

// collectTxPage drains up to pageSize items from it, then peeks one
// further item to determine the next-page cursor, closing it on every
// return path.
func collectTxPage(ctx context.Context, it blockstore.TxIterator, pageSize int) ([]ledger.Transaction, *identifier.TxHash, error) {
	defer it.Close()

	txs := make([]ledger.Transaction, 0, pageSize)
	for len(txs) < pageSize && it.Next(ctx) {
		txs = append(txs, it.Value().Transaction)
	}
	if err := it.Err(); err != nil {
		return nil, nil, err
	}

	var next *identifier.TxHash
	if it.Next(ctx) {
		h := it.Value().Transaction.Hash
		next = &h
	} else if err := it.Err(); err != nil {
		return nil, nil, err
	}

	return txs, next, nil
}

func (d *Dispatcher) handleGetAccountTransactions(ctx context.Context, snap worldstate.Snapshot, queryHash string, q GetAccountTransactionsQuery) Response {
	creator := q.Common.CreatorAccountID
	target := resolveTarget(creator, q.Target)

	allowed, err := authorize(ctx, snap, creator, authz.KindGetAccountTransactions, target)
	if err != nil {
		slog.ErrorContext(ctx, "query: get_account_transactions authorize failed", "error", err)
		return internalError(queryHash)
	}
	if !allowed {
		return noPermissions(queryHash)
	}
	if !target.Valid() {
		return invalidAccountID(queryHash)
	}

	pageSize, ok := normalizePageSize(q.PageSize, d.Pagination)
	if !ok {
		return invalidPagination(queryHash)
	}

	since, found, err := d.sinceFromHash(ctx, q.FirstHash)
	if err != nil {
		slog.ErrorContext(ctx, "query: get_account_transactions cursor lookup failed", "error", err)
		return internalError(queryHash)
	}
	if !found {
		return invalidPagination(queryHash)
	}

	it, err := d.Blocks.IterateAccountTxs(ctx, target, since)
	if err != nil {
		slog.ErrorContext(ctx, "query: get_account_transactions iterate failed", "error", err)
		return internalError(queryHash)
	}

	txs, next, err := collectTxPage(ctx, it, pageSize)
	if err != nil {
		slog.ErrorContext(ctx, "query: get_account_transactions page collection failed", "error", err)
		return internalError(queryHash)
	}

	total, err := d.Blocks.CountAccountTxs(ctx, target)
	if err != nil {
		slog.ErrorContext(ctx, "query: get_account_transactions count failed", "error", err)
		return internalError(queryHash)
	}

	return newSuccess(queryHash, TransactionsPageResponse{Transactions: txs, NextTxHash: next, Total: total})
}

func (d *Dispatcher) handleGetAccountAssetTransactions(ctx context.Context, snap worldstate.Snapshot, queryHash string, q GetAccountAssetTransactionsQuery) Response {
	creator := q.Common.CreatorAccountID
	target := resolveTarget(creator, q.Target)

	allowed, err := authorize(ctx, snap, creator, authz.KindGetAccountAssetTransactions, target)
	if err != nil {
		slog.ErrorContext(ctx, "query: get_account_asset_transactions authorize failed", "error", err)
		return internalError(queryHash)
	}
	if !allowed {
		return noPermissions(queryHash)
	}
	// §9 Open Question #1: account validity is checked ahead of asset
	// validity whenever both are absent.
	if !target.Valid() {
		return invalidAccountID(queryHash)
	}
	if !q.AssetID.Valid() {
		return invalidAssetID(queryHash)
	}

	pageSize, ok := normalizePageSize(q.PageSize, d.Pagination)
	if !ok {
		return invalidPagination(queryHash)
	}

	since, found, err := d.sinceFromHash(ctx, q.FirstHash)
	if err != nil {
		slog.ErrorContext(ctx, "query: get_account_asset_transactions cursor lookup failed", "error", err)
		return internalError(queryHash)
	}
	if !found {
		return invalidPagination(queryHash)
	}

	it, err := d.Blocks.IterateAccountAssetTxs(ctx, target, q.AssetID, since)
	if err != nil {
		slog.ErrorContext(ctx, "query: get_account_asset_transactions iterate failed", "error", err)
		return internalError(queryHash)
	}

	txs, next, err := collectTxPage(ctx, it, pageSize)
	if err != nil {
		slog.ErrorContext(ctx, "query: get_account_asset_transactions page collection failed", "error", err)
		return internalError(queryHash)
	}

	total, err := d.Blocks.CountAccountAssetTxs(ctx, target, q.AssetID)
	if err != nil {
		slog.ErrorContext(ctx, "query: get_account_asset_transactions count failed", "error", err)
		return internalError(queryHash)
	}

	return newSuccess(queryHash, TransactionsPageResponse{Transactions: txs, NextTxHash: next, Total: total})
}

// handleGetTransactions implements the bespoke per-hash rule of §4.6: a
// requested hash is visible to the caller if the caller created it, or
// the caller holds GetAllTxs, or the caller is Root. A single malformed
// or unknown hash fails the whole query with StatefulFailed/code 4; a
// hash the caller cannot see fails the whole query with NoPermissions.
func (d *Dispatcher) handleGetTransactions(ctx context.Context, snap worldstate.Snapshot, queryHash string, q GetTransactionsQuery) Response {
	creator := q.Common.CreatorAccountID

	perms, err := authz.ResolvePermissions(ctx, snap, creator)
	if err != nil {
		slog.ErrorContext(ctx, "query: get_transactions permission resolution failed", "error", err)
		return internalError(queryHash)
	}
	hasAll := perms.HasRoot() || perms.Has(permission.GetAllTxs)

	results := make([]ledger.Transaction, 0, len(q.Hashes))
	for _, raw := range q.Hashes {
		hash, err := identifier.ParseTxHash(raw)
		if err != nil {
			return invalidPagination(queryHash)
		}
		tx, _, found, err := d.Blocks.GetTx(ctx, hash)
		if err != nil {
			slog.ErrorContext(ctx, "query: get_transactions lookup failed", "error", err)
			return internalError(queryHash)
		}
		if !found {
			return invalidPagination(queryHash)
		}
		if !hasAll && !tx.CreatorAccountID.Equal(creator) {
			return noPermissions(queryHash)
		}
		results = append(results, *tx)
	}

	return newSuccess(queryHash, TransactionsResponse{Transactions: results})
}

// handleGetPendingTransactions serves the caller's own pending pool.
// There is no scope to authorize beyond authentication: every caller
// sees only their own account's pool, so no Table lookup is involved.
func (d *Dispatcher) handleGetPendingTransactions(ctx context.Context, snap worldstate.Snapshot, queryHash string, q GetPendingTransactionsQuery) Response {
	creator := q.Common.CreatorAccountID

	if !q.Paginated {
		page, err := d.Pending.Get(ctx, creator, unpaginatedPoolSize, nil)
		if err != nil {
			slog.ErrorContext(ctx, "query: get_pending_transactions (legacy) failed", "error", err)
			return internalError(queryHash)
		}
		return newSuccess(queryHash, PendingTransactionsResponse{Transactions: page.Txs, Total: page.Total})
	}

	pageSize, ok := normalizePageSize(q.PageSize, d.Pagination)
	if !ok {
		return invalidPagination(queryHash)
	}

	page, err := d.Pending.Get(ctx, creator, pageSize, q.FirstHash)
	if err != nil {
		if errors.Is(err, pending.ErrNotFound) {
			return invalidPagination(queryHash)
		}
		slog.ErrorContext(ctx, "query: get_pending_transactions failed", "error", err)
		return internalError(queryHash)
	}

	return newSuccess(queryHash, PendingTransactionsResponse{Transactions: page.Txs, NextTxHash: page.NextHash, Total: page.Total})
}

func (d *Dispatcher) handleValidateBlocksSubscription(ctx context.Context, snap worldstate.Snapshot, queryHash string, q ValidateBlocksSubscriptionQuery) Response {
	allowed, err := authorize(ctx, snap, q.Common.CreatorAccountID, authz.KindValidateBlocksSubscription, "")
	if err != nil {
		slog.ErrorContext(ctx, "query: validate_blocks_subscription authorize failed", "error", err)
		return internalError(queryHash)
	}
	if !allowed {
		return noPermissions(queryHash)
	}
	return newSuccess(queryHash, ValidateResponse{})
}
