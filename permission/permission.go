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

// Package permission defines the role-permission bitmap and the kinds of
// permission a role may carry, including the Root superpower and the
// grantable (per-pair delegation) permissions.
//
// Purpose: Fixed-width bitmap permission model shared by roles and the
// query authorizer.
// Domain: Ledger (Authz)
package permission

// Kind identifies a single role permission. Values are bit positions into
// a Set, so Kind must stay below 64.
type Kind uint

// Root is the superpower bit: any role carrying it satisfies every
// permission check unconditionally (see Set.HasRoot).
const Root Kind = 0

// Scoped reader triples. Each resource that can be read at self/domain/any
// granularity gets three consecutive Kind values.
const (
	GetMyAccount Kind = iota + 1
	GetDomainAccounts
	GetAllAccounts

	GetMyAccountTxs
	GetDomainAccountTxs
	GetAllAccountTxs

	GetMyAccAstTxs
	GetDomainAccAstTxs
	GetAllAccAstTxs

	GetMySignatories
	GetDomainSignatories
	GetAllSignatories

	GetMyAccDetail
	GetDomainAccDetail
	GetAllAccDetail

	GetMyAccAstBalance
	GetDomainAccAstBalance
	GetAllAccAstBalance

	// Singletons: not scoped by self/domain/any, checked directly.
	GetBlocks
	GetRoles
	ReadAssets
	GetPeers
	GetMyTxs
	GetAllTxs
)

// names maps a Kind to its canonical string form, used for logging.
var names = map[Kind]string{
	Root:                   "root",
	GetMyAccount:           "get_my_account",
	GetDomainAccounts:      "get_domain_accounts",
	GetAllAccounts:         "get_all_accounts",
	GetMyAccountTxs:        "get_my_account_txs",
	GetDomainAccountTxs:    "get_domain_account_txs",
	GetAllAccountTxs:       "get_all_account_txs",
	GetMyAccAstTxs:         "get_my_acc_ast_txs",
	GetDomainAccAstTxs:     "get_domain_acc_ast_txs",
	GetAllAccAstTxs:        "get_all_acc_ast_txs",
	GetMySignatories:       "get_my_signatories",
	GetDomainSignatories:   "get_domain_signatories",
	GetAllSignatories:      "get_all_signatories",
	GetMyAccDetail:         "get_my_acc_detail",
	GetDomainAccDetail:     "get_domain_acc_detail",
	GetAllAccDetail:        "get_all_acc_detail",
	GetMyAccAstBalance:     "get_my_acc_ast_balance",
	GetDomainAccAstBalance: "get_domain_acc_ast_balance",
	GetAllAccAstBalance:    "get_all_acc_ast_balance",
	GetBlocks:              "get_blocks",
	GetRoles:               "get_roles",
	ReadAssets:             "read_assets",
	GetPeers:               "get_peers",
	GetMyTxs:                "get_my_txs",
	GetAllTxs:              "get_all_txs",
}

// String returns the canonical permission name, or "unknown" for an
// out-of-range Kind.
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "unknown"
}

// Grantable enumerates the permissions a grantor may delegate to a
// grantee for a specific account, per §4.5 step 4.
type Grantable int

const (
	CanGrantAccAstTxs Grantable = iota
	CanGrantSignatories
	CanGrantAccDetail
)

// Set is a fixed-width bitmap of Kind values, unioned across a role's
// membership the way §4.1 requires.
type Set uint64

// NewSet builds a Set from the given Kinds.
func NewSet(kinds ...Kind) Set {
	var s Set
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

// With returns a copy of s with k added.
func (s Set) With(k Kind) Set {
	return s | (1 << uint(k))
}

// Has reports set membership.
func (s Set) Has(k Kind) bool {
	return s&(1<<uint(k)) != 0
}

// HasRoot reports whether s carries the Root bit.
func (s Set) HasRoot() bool {
	return s.Has(Root)
}

// Union returns the bitwise union of s and other, matching the "has role
// implies union of role permissions" invariant for an account with
// multiple roles.
func (s Set) Union(other Set) Set {
	return s | other
}
