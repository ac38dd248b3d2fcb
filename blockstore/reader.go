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

// Package blockstore declares random access to committed blocks by
// height and transaction lookup by hash, per §4.3. Implementations are
// append-only: the engine never writes through this contract.
//
// Purpose: Storage-agnostic read contract for the committed block log.
// Domain: Ledger (Storage)
package blockstore

import (
	"context"
	"errors"

	"github.com/opentrusty/ledgerquery/identifier"
	"github.com/opentrusty/ledgerquery/ledger"
)

// ErrInvalidHeight is returned by GetBlock for height 0 or a height
// beyond the current chain tip.
var ErrInvalidHeight = errors.New("blockstore: invalid height")

// TxRef pairs a transaction with its commit location.
type TxRef struct {
	Transaction ledger.Transaction
	Location    ledger.TxLocation
}

// Reader is the read-only contract of §4.3.
type Reader interface {
	// CurrentHeight returns the height of the most recently committed
	// block, bounding valid GetBlock calls.
	CurrentHeight(ctx context.Context) (uint64, error)

	// GetBlock returns the block at height, or ErrInvalidHeight if
	// height is 0 or greater than CurrentHeight.
	GetBlock(ctx context.Context, height uint64) (*ledger.Block, error)

	// GetTx returns a transaction and its commit location by hash. It
	// reports (nil, ledger.TxLocation{}, false, nil) when the hash names
	// no committed transaction.
	GetTx(ctx context.Context, hash identifier.TxHash) (*ledger.Transaction, ledger.TxLocation, bool, error)

	// IterateAccountTxs yields committed transactions created by account,
	// in ascending (height, index) order, optionally starting strictly
	// after since.
	IterateAccountTxs(ctx context.Context, account identifier.AccountID, since *ledger.TxLocation) (TxIterator, error)

	// IterateAccountAssetTxs yields committed transactions whose commands
	// transfer, add, or subtract asset and touch account as sender or
	// recipient, regardless of which account created the transaction, in
	// ascending (height, index) order, optionally starting strictly after
	// since.
	IterateAccountAssetTxs(ctx context.Context, account identifier.AccountID, asset identifier.AssetID, since *ledger.TxLocation) (TxIterator, error)

	// CountAccountTxs returns the total number of committed transactions
	// created by account, the Total field of a GetAccountTransactions
	// page.
	CountAccountTxs(ctx context.Context, account identifier.AccountID) (int, error)

	// CountAccountAssetTxs returns the total number of committed
	// transactions touching account as sender or recipient and moving
	// asset, the Total field of a GetAccountAssetTransactions page.
	CountAccountAssetTxs(ctx context.Context, account identifier.AccountID, asset identifier.AssetID) (int, error)
}

// TxIterator walks a filtered, ordered stream of committed transactions.
// Implementations must preserve the integral (height, index) order of
// §8 ("Integral ordering") and must never fall back to lexicographic
// comparison of stringified heights.
type TxIterator interface {
	// Next advances the iterator. It returns false when exhausted or on
	// error; callers must check Err after a false return.
	Next(ctx context.Context) bool
	// Value returns the current transaction reference. Valid only after
	// a Next call returned true.
	Value() TxRef
	// Err returns the first error encountered, if any.
	Err() error
	// Close releases resources held by the iterator.
	Close() error
}
