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

// Package query implements the dispatcher, handlers, and response
// factory of §4.6 and §4.7: the engine's single entry point, given a
// (creator_account_id, query) pair.
//
// Purpose: Query types, authorization-aware dispatch, typed responses.
// Domain: Ledger
package query

import (
	"github.com/opentrusty/ledgerquery/authz"
	"github.com/opentrusty/ledgerquery/identifier"
)

// Base carries the fields common to every inbound query (§6 "Inbound").
type Base struct {
	CreatorAccountID identifier.AccountID
	CreatedTimeMs    int64

	// ValidateSignatories, when set, makes the dispatcher reject the
	// query with StatefulFailed{NoPermissions} unless CreatorAccountID
	// has at least one signatory on file (§6 "validate_signatories").
	ValidateSignatories bool

	// QueryHash is stamped onto the Response. When empty, Dispatch
	// computes a fallback digest (see digest.QueryDigest).
	QueryHash string
}

// Query is the tagged union of every inbound query kind. Dispatch type
// switches on the concrete type, which doubles as the authz.Kind tag
// via Kind().
type Query interface {
	Kind() authz.Kind
	Base() Base
}

// GetAccountQuery requests an account and its roles.
type GetAccountQuery struct {
	Common Base
	Target identifier.AccountID
}

func (q GetAccountQuery) Kind() authz.Kind { return authz.KindGetAccount }
func (q GetAccountQuery) Base() Base       { return q.Common }

// GetSignatoriesQuery requests an account's signatory public keys.
type GetSignatoriesQuery struct {
	Common Base
	Target identifier.AccountID
}

func (q GetSignatoriesQuery) Kind() authz.Kind { return authz.KindGetSignatories }
func (q GetSignatoriesQuery) Base() Base       { return q.Common }

// GetAccountAssetsQuery requests one page of an account's asset
// balances.
type GetAccountAssetsQuery struct {
	Common     Base
	Target     identifier.AccountID
	PageSize   int
	FirstAsset *identifier.AssetID
}

func (q GetAccountAssetsQuery) Kind() authz.Kind { return authz.KindGetAccountAssets }
func (q GetAccountAssetsQuery) Base() Base       { return q.Common }

// GetAccountDetailQuery requests one page of an account's JSON detail
// subtree, optionally narrowed by writer and/or key.
type GetAccountDetailQuery struct {
	Common      Base
	Target      identifier.AccountID
	Writer      *identifier.AccountID
	Key         *string
	PageSize    int
	FirstRecord *string
}

func (q GetAccountDetailQuery) Kind() authz.Kind { return authz.KindGetAccountDetail }
func (q GetAccountDetailQuery) Base() Base       { return q.Common }

// GetAssetInfoQuery requests asset metadata.
type GetAssetInfoQuery struct {
	Common  Base
	AssetID identifier.AssetID
}

func (q GetAssetInfoQuery) Kind() authz.Kind { return authz.KindGetAssetInfo }
func (q GetAssetInfoQuery) Base() Base       { return q.Common }

// GetRolesQuery requests every known role ID.
type GetRolesQuery struct {
	Common Base
}

func (q GetRolesQuery) Kind() authz.Kind { return authz.KindGetRoles }
func (q GetRolesQuery) Base() Base       { return q.Common }

// GetRolePermissionsQuery requests the permission set of one role.
type GetRolePermissionsQuery struct {
	Common Base
	RoleID identifier.RoleID
}

func (q GetRolePermissionsQuery) Kind() authz.Kind { return authz.KindGetRolePermissions }
func (q GetRolePermissionsQuery) Base() Base       { return q.Common }

// GetPeersQuery requests the full peer list.
type GetPeersQuery struct {
	Common Base
}

func (q GetPeersQuery) Kind() authz.Kind { return authz.KindGetPeers }
func (q GetPeersQuery) Base() Base       { return q.Common }

// GetBlockQuery requests one committed block by height.
type GetBlockQuery struct {
	Common Base
	Height uint64
}

func (q GetBlockQuery) Kind() authz.Kind { return authz.KindGetBlock }
func (q GetBlockQuery) Base() Base       { return q.Common }

// GetAccountTransactionsQuery requests one page of an account's
// committed transactions.
type GetAccountTransactionsQuery struct {
	Common     Base
	Target     identifier.AccountID
	PageSize   int
	FirstHash  *identifier.TxHash
}

func (q GetAccountTransactionsQuery) Kind() authz.Kind { return authz.KindGetAccountTransactions }
func (q GetAccountTransactionsQuery) Base() Base       { return q.Common }

// GetAccountAssetTransactionsQuery requests one page of an account's
// committed transactions touching a specific asset.
type GetAccountAssetTransactionsQuery struct {
	Common    Base
	Target    identifier.AccountID
	AssetID   identifier.AssetID
	PageSize  int
	FirstHash *identifier.TxHash
}

func (q GetAccountAssetTransactionsQuery) Kind() authz.Kind {
	return authz.KindGetAccountAssetTransactions
}
func (q GetAccountAssetTransactionsQuery) Base() Base { return q.Common }

// GetTransactionsQuery requests a specific, ordered list of
// transactions by hash. Hashes are carried as raw strings: a malformed
// or unknown hash fails the whole query with StatefulFailed/code 4, and
// a hash the caller lacks visibility into (not its creator, without
// GetAllTxs) fails the whole query with NoPermissions — one bad hash
// never yields a partial, filtered success.
type GetTransactionsQuery struct {
	Common Base
	Hashes []string
}

func (q GetTransactionsQuery) Kind() authz.Kind { return authz.KindGetTransactions }
func (q GetTransactionsQuery) Base() Base       { return q.Common }

// GetPendingTransactionsQuery requests the caller's pending pool.
// Paginated is false for the legacy, unpaginated form retained for
// compatibility per §9; no new features are added to that form.
type GetPendingTransactionsQuery struct {
	Common    Base
	Paginated bool
	PageSize  int
	FirstHash *identifier.TxHash
}

func (q GetPendingTransactionsQuery) Kind() authz.Kind { return authz.KindGetPendingTransactions }
func (q GetPendingTransactionsQuery) Base() Base       { return q.Common }

// ValidateBlocksSubscriptionQuery is the authorization-only check of
// §4.6 "GetBlocksQuery (validate-only)"; the engine never itself
// streams blocks.
type ValidateBlocksSubscriptionQuery struct {
	Common Base
}

func (q ValidateBlocksSubscriptionQuery) Kind() authz.Kind {
	return authz.KindValidateBlocksSubscription
}
func (q ValidateBlocksSubscriptionQuery) Base() Base { return q.Common }
