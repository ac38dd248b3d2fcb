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

package authz

import "github.com/opentrusty/ledgerquery/permission"

// Rule is a static permission record for one query kind, per the
// "Permission triples" design note in §9: adding a query kind means
// adding a table row here, never a new branch of code.
//
// HasTarget is false for queries §4.5 step 5 describes as "without a
// target" (get roles, get role permissions, get peers, get blocks, read
// assets, get block); for those Plain is the single permission checked
// directly. HasTarget is true for every scoped query, where Self/Domain/
// All are the three concentric permissions of §4.5 step 3, and
// Grantable (optional) is the delegation kind consulted in step 4.
type Rule struct {
	HasTarget bool

	Self   permission.Kind
	Domain permission.Kind
	All    permission.Kind

	Grantable *permission.Grantable

	Plain permission.Kind
}

func grantable(g permission.Grantable) *permission.Grantable {
	return &g
}

// Table is the complete permission-triple table of §4.6, one row per
// query kind.
var Table = map[Kind]Rule{
	KindGetAccount: {
		HasTarget: true,
		Self:      permission.GetMyAccount,
		Domain:    permission.GetDomainAccounts,
		All:       permission.GetAllAccounts,
	},
	KindGetSignatories: {
		HasTarget: true,
		Self:      permission.GetMySignatories,
		Domain:    permission.GetDomainSignatories,
		All:       permission.GetAllSignatories,
		Grantable: grantable(permission.CanGrantSignatories),
	},
	KindGetAccountAssets: {
		HasTarget: true,
		Self:      permission.GetMyAccAstBalance,
		Domain:    permission.GetDomainAccAstBalance,
		All:       permission.GetAllAccAstBalance,
	},
	KindGetAccountDetail: {
		HasTarget: true,
		Self:      permission.GetMyAccDetail,
		Domain:    permission.GetDomainAccDetail,
		All:       permission.GetAllAccDetail,
		Grantable: grantable(permission.CanGrantAccDetail),
	},
	KindGetAccountTransactions: {
		HasTarget: true,
		Self:      permission.GetMyAccountTxs,
		Domain:    permission.GetDomainAccountTxs,
		All:       permission.GetAllAccountTxs,
	},
	KindGetAccountAssetTransactions: {
		HasTarget: true,
		Self:      permission.GetMyAccAstTxs,
		Domain:    permission.GetDomainAccAstTxs,
		All:       permission.GetAllAccAstTxs,
		Grantable: grantable(permission.CanGrantAccAstTxs),
	},
	KindGetAssetInfo: {
		Plain: permission.ReadAssets,
	},
	KindGetRoles: {
		Plain: permission.GetRoles,
	},
	KindGetRolePermissions: {
		Plain: permission.GetRoles,
	},
	KindGetPeers: {
		Plain: permission.GetPeers,
	},
	KindGetBlock: {
		Plain: permission.GetBlocks,
	},
	KindValidateBlocksSubscription: {
		Plain: permission.GetBlocks,
	},
	// GetTransactions has a bespoke per-hash authorization rule (§4.6):
	// it requires GetAllTxs only when a requested hash was not created
	// by the caller, so it is handled directly by the query handler
	// rather than through the table; KindGetTransactions still carries a
	// GetMyTxs row so Authorize can report the general-purpose decision
	// used for logging.
	KindGetTransactions: {
		Plain: permission.GetMyTxs,
	},
	// GetPendingTransactions has no scope: callers always see their own
	// pool, so there is no permission predicate to enforce beyond
	// authentication (assumed done upstream). The rule is present only
	// so the table is exhaustive over Kind.
	KindGetPendingTransactions: {
		HasTarget: false,
	},
}
