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

// Package ledger holds the shared read-side data model: accounts,
// domains, roles, assets, peers, blocks and transactions. Nothing in
// this package mutates state; construction here only ever mirrors rows
// already committed by the write path.
//
// Purpose: Canonical entity types read by every store and handler.
// Domain: Ledger
package ledger

import (
	"time"

	"github.com/opentrusty/ledgerquery/identifier"
	"github.com/opentrusty/ledgerquery/permission"
)

// Account is a uniquely-identified ledger actor.
//
// Purpose: Core identity entity against which permissions are checked.
// Domain: Ledger
// Invariants: AccountID must reference an existing Domain. Quorum >= 1.
type Account struct {
	AccountID identifier.AccountID
	DomainID  string
	Quorum    uint32
	JSONData  string
}

// Domain is the isolation boundary an Account belongs to.
//
// Purpose: Groups accounts and fixes the role granted to new accounts.
// Domain: Ledger
type Domain struct {
	DomainID      string
	DefaultRoleID identifier.RoleID
}

// Role is a named, scoped bundle of permissions.
//
// Purpose: Unit of permission assignment; an account's effective
// permission set is the union of all its roles' permissions.
// Domain: Ledger (Authz)
type Role struct {
	RoleID      identifier.RoleID
	Permissions permission.Set
}

// HasPermission reports whether the role carries k, or Root.
func (r Role) HasPermission(k permission.Kind) bool {
	return r.Permissions.HasRoot() || r.Permissions.Has(k)
}

// GrantedPermission is a single grantor -> grantee delegation edge.
//
// Purpose: Per-pair authorization augmentation independent of role
// membership (§4.5 step 4).
// Domain: Ledger (Authz)
type GrantedPermission struct {
	Grantor identifier.AccountID
	Grantee identifier.AccountID
	Kind    permission.Grantable
}

// Asset fixes the decimal precision of its balances.
//
// Purpose: Defines a unit of value tracked per-account.
// Domain: Ledger
// Invariants: Precision in [0, 255].
type Asset struct {
	AssetID  identifier.AssetID
	DomainID string
	Precision uint8
}

// AccountDetail is a single (writer, key) -> value record in an
// account's JSON detail subtree.
//
// Purpose: Backing record for GetAccountDetail pagination.
// Domain: Ledger
type AccountDetail struct {
	Writer identifier.AccountID
	Key    string
	Value  string
}

// Peer describes a node participating in consensus; the engine only
// ever reads this list, it never dials a peer itself.
//
// Purpose: Read-only view of network participants for GetPeers.
// Domain: Ledger (Network, read-only)
type Peer struct {
	Address        string
	PublicKey      string
	TLSCertificate string
}

// Block is an immutable, committed unit of the chain.
//
// Purpose: Append-only container of ordered transactions.
// Domain: Ledger
// Invariants: Height >= 1. PrevHash of height 1 is the zero hash.
type Block struct {
	Height       uint64
	PrevHash     string
	CreatedTime  time.Time
	Transactions []Transaction
}

// Transaction is a signed, ordered set of commands attributed to a
// single creator account.
//
// Purpose: Unit of committed (or pending) ledger activity.
// Domain: Ledger
// Invariants: Hash is a 32-byte content digest, globally unique across
// all committed blocks.
type Transaction struct {
	CreatorAccountID identifier.AccountID
	CreatedTimeMs    int64
	Commands         []Command
	Signatures       []Signature
	Hash             identifier.TxHash
}

// Command is a single ledger instruction inside a transaction. Only the
// fields the read path inspects are modeled; the full command grammar
// belongs to the write path (transaction validation), which is out of
// scope here.
type Command struct {
	Kind      CommandKind
	AssetID   identifier.AssetID
	SrcAccount identifier.AccountID
	DestAccount identifier.AccountID
	Amount    string
}

// CommandKind classifies a Command for the asset-transaction filter used
// by GetAccountAssetTransactions (transfer / add / subtract of an asset).
type CommandKind int

const (
	CommandOther CommandKind = iota
	CommandTransferAsset
	CommandAddAssetQuantity
	CommandSubtractAssetQuantity
)

// TouchesAccount reports whether the command names acc as sender or
// recipient, the predicate GetAccountAssetTransactions filters on.
func (c Command) TouchesAccount(acc identifier.AccountID) bool {
	return c.SrcAccount.Equal(acc) || c.DestAccount.Equal(acc)
}

// TransfersAsset reports whether the command moves, credits, or debits
// asset, per the "transfer, add, or subtract" predicate in §4.6.
func (c Command) TransfersAsset(asset identifier.AssetID) bool {
	switch c.Kind {
	case CommandTransferAsset, CommandAddAssetQuantity, CommandSubtractAssetQuantity:
		return c.AssetID.Equal(asset)
	default:
		return false
	}
}

// Signature is a detached signature over a transaction's payload.
type Signature struct {
	PublicKey string
	Signature string
}

// TxLocation pins a transaction to its position in the committed chain,
// the unit integral ordering (§8 "Integral ordering") is defined over.
type TxLocation struct {
	Height uint64
	Index  int
}

// Less implements the canonical (height, index) ordering; callers must
// never fall back to comparing stringified heights (see §9).
func (l TxLocation) Less(other TxLocation) bool {
	if l.Height != other.Height {
		return l.Height < other.Height
	}
	return l.Index < other.Index
}
