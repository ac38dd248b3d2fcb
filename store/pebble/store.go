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

// Package pebble implements blockstore.Reader against an embedded
// Pebble LSM tree: one append-only key-value store holding the
// committed block log plus the secondary indexes GetAccountTransactions
// and GetAccountAssetTransactions stream over.
//
// Purpose: Pebble-backed committed block log storage.
// Domain: Ledger (Storage)
package pebble

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/opentrusty/ledgerquery/blockstore"
	"github.com/opentrusty/ledgerquery/identifier"
	"github.com/opentrusty/ledgerquery/ledger"
)

// Store wraps an on-disk Pebble database holding the committed block
// log. It implements blockstore.Reader directly: there is no
// transaction to pin, since the log is append-only and already
// consistent at any point a reader observes it.
type Store struct {
	db *pebble.DB
}

// Open opens (creating if absent) the Pebble database at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble: failed to open block store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type storedTx struct {
	Transaction ledger.Transaction
	Location    ledger.TxLocation
}

// PutBlock appends block to the log and maintains the chain-height
// marker and the account / account-asset secondary indexes. Not part
// of blockstore.Reader: it is the log's only write path, used by
// ingestion and by tests to seed fixtures.
func (s *Store) PutBlock(ctx context.Context, block *ledger.Block) error {
	batch := s.db.NewBatch()
	defer batch.Close()

	encoded, err := json.Marshal(block)
	if err != nil {
		return fmt.Errorf("pebble: failed to encode block: %w", err)
	}
	if err := batch.Set(blockKey(block.Height), encoded, nil); err != nil {
		return fmt.Errorf("pebble: failed to stage block: %w", err)
	}

	type accountAsset struct {
		account identifier.AccountID
		asset   identifier.AssetID
	}
	accountTxDelta := map[identifier.AccountID]uint64{}
	accountAssetTxDelta := map[accountAsset]uint64{}

	for i, tx := range block.Transactions {
		loc := ledger.TxLocation{Height: block.Height, Index: i}

		st := storedTx{Transaction: tx, Location: loc}
		stEncoded, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("pebble: failed to encode transaction: %w", err)
		}
		if err := batch.Set(txKey(tx.Hash), stEncoded, nil); err != nil {
			return fmt.Errorf("pebble: failed to stage transaction index: %w", err)
		}

		if err := batch.Set(accountTxKey(tx.CreatorAccountID, loc), []byte(tx.Hash), nil); err != nil {
			return fmt.Errorf("pebble: failed to stage account transaction index: %w", err)
		}
		accountTxDelta[tx.CreatorAccountID]++

		// Index under every account the command actually touches (sender
		// and recipient alike), not only the transaction's creator: a
		// transfer Alice sends to Bob must surface in Bob's own
		// GetAccountAssetTransactions, per §4.6.
		seen := map[accountAsset]bool{}
		for _, cmd := range tx.Commands {
			for _, acc := range [2]identifier.AccountID{cmd.SrcAccount, cmd.DestAccount} {
				if acc == "" || !cmd.TransfersAsset(cmd.AssetID) || !cmd.TouchesAccount(acc) {
					continue
				}
				key := accountAsset{account: acc, asset: cmd.AssetID}
				if seen[key] {
					continue
				}
				seen[key] = true
				if err := batch.Set(accountAssetTxKey(acc, cmd.AssetID, loc), []byte(tx.Hash), nil); err != nil {
					return fmt.Errorf("pebble: failed to stage account asset transaction index: %w", err)
				}
				accountAssetTxDelta[key]++
			}
		}
	}

	for account, delta := range accountTxDelta {
		if err := s.stageCounterIncrement(batch, accountTxCountKey(account), delta); err != nil {
			return err
		}
	}
	for key, delta := range accountAssetTxDelta {
		if err := s.stageCounterIncrement(batch, accountAssetTxCountKey(key.account, key.asset), delta); err != nil {
			return err
		}
	}

	heightBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(heightBuf, block.Height)
	if err := batch.Set([]byte(metaHeightKey), heightBuf, nil); err != nil {
		return fmt.Errorf("pebble: failed to stage chain height: %w", err)
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("pebble: failed to commit block: %w", err)
	}
	return nil
}

// stageCounterIncrement reads key's current value directly from the
// database (not the batch) and stages its incremented value into batch.
// This is safe because PutBlock is the log's only write path and is
// assumed to run as a single sequential writer: no concurrent PutBlock
// call can race this read against another's uncommitted increment.
func (s *Store) stageCounterIncrement(batch *pebble.Batch, key []byte, delta uint64) error {
	if delta == 0 {
		return nil
	}
	current, err := s.readCounter(key)
	if err != nil {
		return err
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, current+delta)
	if err := batch.Set(key, buf, nil); err != nil {
		return fmt.Errorf("pebble: failed to stage counter: %w", err)
	}
	return nil
}

func (s *Store) readCounter(key []byte) (uint64, error) {
	value, closer, err := s.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("pebble: failed to read counter: %w", err)
	}
	defer closer.Close()
	return binary.BigEndian.Uint64(value), nil
}

func (s *Store) CurrentHeight(ctx context.Context) (uint64, error) {
	return s.readCounter([]byte(metaHeightKey))
}

func (s *Store) GetBlock(ctx context.Context, height uint64) (*ledger.Block, error) {
	if height == 0 {
		return nil, blockstore.ErrInvalidHeight
	}
	current, err := s.CurrentHeight(ctx)
	if err != nil {
		return nil, err
	}
	if height > current {
		return nil, blockstore.ErrInvalidHeight
	}

	value, closer, err := s.db.Get(blockKey(height))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, blockstore.ErrInvalidHeight
		}
		return nil, fmt.Errorf("pebble: failed to read block: %w", err)
	}
	defer closer.Close()

	var block ledger.Block
	if err := json.Unmarshal(value, &block); err != nil {
		return nil, fmt.Errorf("pebble: failed to decode block: %w", err)
	}
	return &block, nil
}

func (s *Store) GetTx(ctx context.Context, hash identifier.TxHash) (*ledger.Transaction, ledger.TxLocation, bool, error) {
	value, closer, err := s.db.Get(txKey(hash))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ledger.TxLocation{}, false, nil
		}
		return nil, ledger.TxLocation{}, false, fmt.Errorf("pebble: failed to read transaction: %w", err)
	}
	defer closer.Close()

	var st storedTx
	if err := json.Unmarshal(value, &st); err != nil {
		return nil, ledger.TxLocation{}, false, fmt.Errorf("pebble: failed to decode transaction: %w", err)
	}
	return &st.Transaction, st.Location, true, nil
}

func (s *Store) IterateAccountTxs(ctx context.Context, account identifier.AccountID, since *ledger.TxLocation) (blockstore.TxIterator, error) {
	prefix := accountTxPrefix(account)
	return s.newIterator(prefix, since)
}

func (s *Store) IterateAccountAssetTxs(ctx context.Context, account identifier.AccountID, asset identifier.AssetID, since *ledger.TxLocation) (blockstore.TxIterator, error) {
	prefix := accountAssetTxPrefix(account, asset)
	return s.newIterator(prefix, since)
}

// CountAccountTxs returns the total number of committed transactions
// created by account, maintained as an O(1) counter alongside the
// account transaction index.
func (s *Store) CountAccountTxs(ctx context.Context, account identifier.AccountID) (int, error) {
	n, err := s.readCounter(accountTxCountKey(account))
	if err != nil {
		return 0, fmt.Errorf("pebble: failed to read account transaction count: %w", err)
	}
	return int(n), nil
}

// CountAccountAssetTxs returns the total number of committed
// transactions touching account as sender or recipient and moving
// asset, maintained as an O(1) counter alongside the account-asset
// transaction index.
func (s *Store) CountAccountAssetTxs(ctx context.Context, account identifier.AccountID, asset identifier.AssetID) (int, error) {
	n, err := s.readCounter(accountAssetTxCountKey(account, asset))
	if err != nil {
		return 0, fmt.Errorf("pebble: failed to read account asset transaction count: %w", err)
	}
	return int(n), nil
}

func (s *Store) newIterator(prefix []byte, since *ledger.TxLocation) (blockstore.TxIterator, error) {
	upper := append(append([]byte{}, prefix...), 0xff)
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upper,
	})
	if err != nil {
		return nil, fmt.Errorf("pebble: failed to create iterator: %w", err)
	}
	return &txIterator{store: s, it: it, prefix: prefix, since: since}, nil
}
