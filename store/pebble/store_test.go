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

package pebble

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/opentrusty/ledgerquery/blockstore"
	"github.com/opentrusty/ledgerquery/identifier"
	"github.com/opentrusty/ledgerquery/ledger"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "blocks")
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func txHash(b byte) identifier.TxHash {
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = "0123456789abcdef"[b%16]
	}
	return identifier.TxHash(buf)
}

func seedBlocks(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()

	alice := identifier.AccountID("alice@test")
	bob := identifier.AccountID("bob@test")
	coin := identifier.AssetID("coin#test")

	block1 := &ledger.Block{
		Height:      1,
		CreatedTime: time.Unix(0, 0),
		Transactions: []ledger.Transaction{
			{
				CreatorAccountID: alice,
				Hash:             txHash(1),
				Commands: []ledger.Command{
					{Kind: ledger.CommandTransferAsset, AssetID: coin, SrcAccount: alice, DestAccount: bob},
				},
			},
			{
				CreatorAccountID: bob,
				Hash:             txHash(2),
			},
		},
	}
	block2 := &ledger.Block{
		Height:      2,
		CreatedTime: time.Unix(1, 0),
		Transactions: []ledger.Transaction{
			{
				CreatorAccountID: alice,
				Hash:             txHash(3),
				Commands: []ledger.Command{
					{Kind: ledger.CommandAddAssetQuantity, AssetID: coin, SrcAccount: alice, DestAccount: alice},
				},
			},
		},
	}

	if err := store.PutBlock(ctx, block1); err != nil {
		t.Fatalf("PutBlock(1): %v", err)
	}
	if err := store.PutBlock(ctx, block2); err != nil {
		t.Fatalf("PutBlock(2): %v", err)
	}
}

func TestStoreCurrentHeightAndGetBlock(t *testing.T) {
	store := openTestStore(t)
	seedBlocks(t, store)
	ctx := context.Background()

	height, err := store.CurrentHeight(ctx)
	if err != nil {
		t.Fatalf("CurrentHeight: %v", err)
	}
	if height != 2 {
		t.Fatalf("CurrentHeight = %d, want 2", height)
	}

	block, err := store.GetBlock(ctx, 1)
	if err != nil {
		t.Fatalf("GetBlock(1): %v", err)
	}
	if len(block.Transactions) != 2 {
		t.Fatalf("block 1 has %d txs, want 2", len(block.Transactions))
	}

	if _, err := store.GetBlock(ctx, 0); err != blockstore.ErrInvalidHeight {
		t.Fatalf("GetBlock(0) err = %v, want ErrInvalidHeight", err)
	}
	if _, err := store.GetBlock(ctx, 3); err != blockstore.ErrInvalidHeight {
		t.Fatalf("GetBlock(3) err = %v, want ErrInvalidHeight", err)
	}
}

func TestStoreGetTx(t *testing.T) {
	store := openTestStore(t)
	seedBlocks(t, store)
	ctx := context.Background()

	tx, loc, found, err := store.GetTx(ctx, txHash(1))
	if err != nil {
		t.Fatalf("GetTx: %v", err)
	}
	if !found {
		t.Fatal("GetTx: want found")
	}
	if loc.Height != 1 || loc.Index != 0 {
		t.Fatalf("loc = %+v, want {1 0}", loc)
	}
	if tx.CreatorAccountID != identifier.AccountID("alice@test") {
		t.Fatalf("CreatorAccountID = %q", tx.CreatorAccountID)
	}

	_, _, found, err = store.GetTx(ctx, txHash(9))
	if err != nil {
		t.Fatalf("GetTx(unknown): %v", err)
	}
	if found {
		t.Fatal("GetTx(unknown): want not found")
	}
}

func TestStoreIterateAccountTxs(t *testing.T) {
	store := openTestStore(t)
	seedBlocks(t, store)
	ctx := context.Background()

	it, err := store.IterateAccountTxs(ctx, identifier.AccountID("alice@test"), nil)
	if err != nil {
		t.Fatalf("IterateAccountTxs: %v", err)
	}
	defer it.Close()

	var hashes []identifier.TxHash
	for it.Next(ctx) {
		hashes = append(hashes, it.Value().Transaction.Hash)
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iterator error: %v", err)
	}
	if len(hashes) != 2 || hashes[0] != txHash(1) || hashes[1] != txHash(3) {
		t.Fatalf("hashes = %v, want [%s %s]", hashes, txHash(1), txHash(3))
	}

	since := ledger.TxLocation{Height: 1, Index: 0}
	it2, err := store.IterateAccountTxs(ctx, identifier.AccountID("alice@test"), &since)
	if err != nil {
		t.Fatalf("IterateAccountTxs(since): %v", err)
	}
	defer it2.Close()

	var afterHashes []identifier.TxHash
	for it2.Next(ctx) {
		afterHashes = append(afterHashes, it2.Value().Transaction.Hash)
	}
	if len(afterHashes) != 1 || afterHashes[0] != txHash(3) {
		t.Fatalf("afterHashes = %v, want [%s]", afterHashes, txHash(3))
	}
}

func TestStoreIterateAccountAssetTxs(t *testing.T) {
	store := openTestStore(t)
	seedBlocks(t, store)
	ctx := context.Background()

	it, err := store.IterateAccountAssetTxs(ctx, identifier.AccountID("alice@test"), identifier.AssetID("coin#test"), nil)
	if err != nil {
		t.Fatalf("IterateAccountAssetTxs: %v", err)
	}
	defer it.Close()

	var count int
	for it.Next(ctx) {
		count++
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iterator error: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	// Bob never created a coin-moving transaction, but alice's transfer in
	// block 1 named him as recipient, so it must surface in his own
	// GetAccountAssetTransactions view.
	it2, err := store.IterateAccountAssetTxs(ctx, identifier.AccountID("bob@test"), identifier.AssetID("coin#test"), nil)
	if err != nil {
		t.Fatalf("IterateAccountAssetTxs(bob): %v", err)
	}
	defer it2.Close()

	var bobCount int
	var bobHash identifier.TxHash
	for it2.Next(ctx) {
		bobCount++
		bobHash = it2.Value().Transaction.Hash
	}
	if err := it2.Err(); err != nil {
		t.Fatalf("iterator error: %v", err)
	}
	if bobCount != 1 {
		t.Fatalf("count = %d, want 1 (alice's transfer naming bob as recipient)", bobCount)
	}
	if bobHash != txHash(1) {
		t.Fatalf("bobHash = %s, want %s", bobHash, txHash(1))
	}
}

func TestStoreCountAccountTxs(t *testing.T) {
	store := openTestStore(t)
	seedBlocks(t, store)
	ctx := context.Background()

	n, err := store.CountAccountTxs(ctx, identifier.AccountID("alice@test"))
	if err != nil {
		t.Fatalf("CountAccountTxs(alice): %v", err)
	}
	if n != 2 {
		t.Fatalf("CountAccountTxs(alice) = %d, want 2", n)
	}

	n, err = store.CountAccountTxs(ctx, identifier.AccountID("bob@test"))
	if err != nil {
		t.Fatalf("CountAccountTxs(bob): %v", err)
	}
	if n != 1 {
		t.Fatalf("CountAccountTxs(bob) = %d, want 1", n)
	}
}

func TestStoreCountAccountAssetTxs(t *testing.T) {
	store := openTestStore(t)
	seedBlocks(t, store)
	ctx := context.Background()

	coin := identifier.AssetID("coin#test")

	n, err := store.CountAccountAssetTxs(ctx, identifier.AccountID("alice@test"), coin)
	if err != nil {
		t.Fatalf("CountAccountAssetTxs(alice): %v", err)
	}
	if n != 2 {
		t.Fatalf("CountAccountAssetTxs(alice) = %d, want 2", n)
	}

	n, err = store.CountAccountAssetTxs(ctx, identifier.AccountID("bob@test"), coin)
	if err != nil {
		t.Fatalf("CountAccountAssetTxs(bob): %v", err)
	}
	if n != 1 {
		t.Fatalf("CountAccountAssetTxs(bob) = %d, want 1 (recipient of alice's transfer)", n)
	}
}
