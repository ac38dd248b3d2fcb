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
	"github.com/opentrusty/ledgerquery/identifier"
	"github.com/opentrusty/ledgerquery/ledger"
	"github.com/opentrusty/ledgerquery/permission"
)

// Error codes, per §4.7. StatefulFailed carries one of the numbered
// codes; every "No…" ErrorKind always carries CodeNoStatefulError.
const (
	CodeNoStatefulError   uint32 = 0
	codeInternal          uint32 = 1 // not part of the stable taxonomy; storage/transport faults only.
	CodeNoPermissions     uint32 = 2
	CodeInvalidHeight     uint32 = 3
	CodeInvalidPagination uint32 = 4
	CodeInvalidAccountID  uint32 = 5
	CodeInvalidAssetID    uint32 = 6
)

// ErrorKind is the sub-kind of an ErrorQueryResponse, per §4.7.
type ErrorKind int

const (
	KindStatefulFailed ErrorKind = iota
	KindNoAccount
	KindNoSignatories
	KindNoAccountAssets
	KindNoAccountDetail
	KindNoRoles
	KindNoAsset
	KindNotSupported
	kindInternal
)

// Error is the engine's uniform error payload.
type Error struct {
	Code uint32
	Kind ErrorKind
}

func (e Error) Error() string {
	switch e.Kind {
	case KindStatefulFailed:
		return "query failed"
	case KindNoAccount:
		return "no such account"
	case KindNoSignatories:
		return "no signatories"
	case KindNoAccountAssets:
		return "no account assets"
	case KindNoAccountDetail:
		return "no account detail"
	case KindNoRoles:
		return "no such role"
	case KindNoAsset:
		return "no such asset"
	case KindNotSupported:
		return "not supported"
	default:
		return "unknown error"
	}
}

// SuccessPayload marks the concrete success response types below.
type SuccessPayload interface {
	isSuccess()
}

// Response is the single value every dispatcher handler returns: either
// a populated Success payload or a non-nil Err, never both.
type Response struct {
	QueryHash string
	Success   SuccessPayload
	Err       *Error
}

func newSuccess(queryHash string, payload SuccessPayload) Response {
	return Response{QueryHash: queryHash, Success: payload}
}

func newError(queryHash string, kind ErrorKind, code uint32) Response {
	return Response{QueryHash: queryHash, Err: &Error{Code: code, Kind: kind}}
}

func noPermissions(queryHash string) Response {
	return newError(queryHash, KindStatefulFailed, CodeNoPermissions)
}

func invalidHeight(queryHash string) Response {
	return newError(queryHash, KindStatefulFailed, CodeInvalidHeight)
}

func invalidPagination(queryHash string) Response {
	return newError(queryHash, KindStatefulFailed, CodeInvalidPagination)
}

func invalidAccountID(queryHash string) Response {
	return newError(queryHash, KindStatefulFailed, CodeInvalidAccountID)
}

func invalidAssetID(queryHash string) Response {
	return newError(queryHash, KindStatefulFailed, CodeInvalidAssetID)
}

func noAccount(queryHash string) Response       { return newError(queryHash, KindNoAccount, CodeNoStatefulError) }
func noSignatories(queryHash string) Response   { return newError(queryHash, KindNoSignatories, CodeNoStatefulError) }
func noAccountAssets(queryHash string) Response { return newError(queryHash, KindNoAccountAssets, CodeNoStatefulError) }
func noAccountDetail(queryHash string) Response { return newError(queryHash, KindNoAccountDetail, CodeNoStatefulError) }
func noRoles(queryHash string) Response         { return newError(queryHash, KindNoRoles, CodeNoStatefulError) }
func noAsset(queryHash string) Response         { return newError(queryHash, KindNoAsset, CodeNoStatefulError) }
func notSupported(queryHash string) Response    { return newError(queryHash, KindNotSupported, CodeNoStatefulError) }

// internalError covers storage/transport faults that never reach the
// caller as part of the numbered taxonomy in §4.7; the dispatcher logs
// the underlying cause and returns only this opaque marker.
func internalError(queryHash string) Response { return newError(queryHash, kindInternal, codeInternal) }

// AccountResponse answers GetAccount.
type AccountResponse struct {
	Account ledger.Account
	Roles   []identifier.RoleID
}

func (AccountResponse) isSuccess() {}

// SignatoriesResponse answers GetSignatories.
type SignatoriesResponse struct {
	PublicKeys []string
}

func (SignatoriesResponse) isSuccess() {}

// AccountAssetsResponse answers GetAccountAssets.
type AccountAssetsResponse struct {
	Balances  []ledger.AccountAssetBalance
	NextAsset *identifier.AssetID
	Total     int
}

func (AccountAssetsResponse) isSuccess() {}

// AccountDetailResponse answers GetAccountDetail.
type AccountDetailResponse struct {
	Records     []ledger.AccountDetail
	NextRecord  *string
	Total       int
}

func (AccountDetailResponse) isSuccess() {}

// AssetResponse answers GetAssetInfo.
type AssetResponse struct {
	Asset ledger.Asset
}

func (AssetResponse) isSuccess() {}

// RolesResponse answers GetRoles.
type RolesResponse struct {
	RoleIDs []identifier.RoleID
}

func (RolesResponse) isSuccess() {}

// RolePermissionsResponse answers GetRolePermissions.
type RolePermissionsResponse struct {
	Permissions permission.Set
}

func (RolePermissionsResponse) isSuccess() {}

// PeersResponse answers GetPeers.
type PeersResponse struct {
	Peers []ledger.Peer
}

func (PeersResponse) isSuccess() {}

// BlockResponse answers GetBlock.
type BlockResponse struct {
	Block ledger.Block
}

func (BlockResponse) isSuccess() {}

// TransactionsPageResponse answers the two paginated transaction
// queries: GetAccountTransactions and GetAccountAssetTransactions.
type TransactionsPageResponse struct {
	Transactions []ledger.Transaction
	NextTxHash   *identifier.TxHash
	Total        int
}

func (TransactionsPageResponse) isSuccess() {}

// TransactionsResponse answers GetTransactions, an ordered, unpaged
// list matching the requested hashes one for one.
type TransactionsResponse struct {
	Transactions []ledger.Transaction
}

func (TransactionsResponse) isSuccess() {}

// PendingTransactionsResponse answers both forms of
// GetPendingTransactions. NextTxHash is always nil for the legacy,
// unpaginated form.
type PendingTransactionsResponse struct {
	Transactions []ledger.Transaction
	NextTxHash   *identifier.TxHash
	Total        int
}

func (PendingTransactionsResponse) isSuccess() {}

// ValidateResponse answers ValidateBlocksSubscription: a bare
// authorization confirmation with no data payload.
type ValidateResponse struct{}

func (ValidateResponse) isSuccess() {}
