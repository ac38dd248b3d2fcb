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

// Package authz maps every query kind to the minimum permission
// predicate it requires and evaluates self/domain/any scope, root, and
// grantable delegation against it, per §4.5.
//
// Purpose: Single decision function gating every query handler.
// Domain: Ledger (Authz)
package authz

// Kind tags a query for the Rule table. One value per query kind named
// in §4.6; dispatch and authorization both switch on this tag, per the
// "Polymorphism over query kinds" design note in §9.
type Kind int

const (
	KindGetAccount Kind = iota
	KindGetSignatories
	KindGetAccountAssets
	KindGetAccountDetail
	KindGetAssetInfo
	KindGetRoles
	KindGetRolePermissions
	KindGetPeers
	KindGetBlock
	KindGetAccountTransactions
	KindGetAccountAssetTransactions
	KindGetTransactions
	KindGetPendingTransactions
	KindValidateBlocksSubscription
)

var kindNames = map[Kind]string{
	KindGetAccount:                   "get_account",
	KindGetSignatories:               "get_signatories",
	KindGetAccountAssets:             "get_account_assets",
	KindGetAccountDetail:             "get_account_detail",
	KindGetAssetInfo:                 "get_asset_info",
	KindGetRoles:                     "get_roles",
	KindGetRolePermissions:           "get_role_permissions",
	KindGetPeers:                     "get_peers",
	KindGetBlock:                     "get_block",
	KindGetAccountTransactions:       "get_account_transactions",
	KindGetAccountAssetTransactions:  "get_account_asset_transactions",
	KindGetTransactions:              "get_transactions",
	KindGetPendingTransactions:       "get_pending_transactions",
	KindValidateBlocksSubscription:   "validate_blocks_subscription",
}

// String returns the canonical query-kind name, used for logging.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}
