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

// Package pending implements the in-memory, per-account queue of
// not-yet-committed transactions, per §4.4. This state is volatile: it
// is never persisted and is never unified with the committed block
// store's backing storage (see the "Pending vs committed" design note).
//
// Purpose: Hash-keyed pagination over the not-yet-committed pool.
// Domain: Ledger (Storage)
package pending

import (
	"context"
	"errors"
	"sync"

	"github.com/opentrusty/ledgerquery/identifier"
	"github.com/opentrusty/ledgerquery/ledger"
)

// ErrNotFound is returned when firstHash is set but does not match any
// currently pending transaction for the requested account. The engine
// translates this into the stateful InvalidPagination error code.
var ErrNotFound = errors.New("pending: first hash not found")

// Page is one page of an account's pending transactions.
type Page struct {
	Txs      []ledger.Transaction
	NextHash *identifier.TxHash
	Total    int
}

// Store is the contract of §4.4.
type Store interface {
	// Get returns one page of account's pending transactions, oldest
	// first, starting at the transaction named by firstHash when set.
	// NextHash names the first transaction not returned. Fails
	// ErrNotFound if firstHash is set and unknown.
	Get(ctx context.Context, account identifier.AccountID, pageSize int, firstHash *identifier.TxHash) (Page, error)
}

// Mutator is implemented by Stores whose pool is fed by an ingestion
// path outside the read-only engine (e.g. the write path admitting a
// transaction, or test fixtures seeding one). It is not part of the
// query contract; handlers never call it.
type Mutator interface {
	Add(account identifier.AccountID, tx ledger.Transaction)
	Remove(account identifier.AccountID, hash identifier.TxHash)
}

// memoryStore is a sync.RWMutex-guarded, per-account FIFO with a
// secondary hash index, matching the ambient in-memory guard pattern
// used throughout the corpus for shared, read-mostly state.
type memoryStore struct {
	mu   sync.RWMutex
	txs  map[identifier.AccountID][]ledger.Transaction
	byID map[identifier.AccountID]map[identifier.TxHash]int
}

// NewMemoryStore constructs an empty pending-transaction pool.
func NewMemoryStore() Store {
	return newMemoryStore()
}

// NewMemoryMutator constructs an empty pool alongside its mutation
// surface, used by test fixtures and by the write-path adapter that
// feeds this engine's read-only view of the pool.
func NewMemoryMutator() (Store, Mutator) {
	s := newMemoryStore()
	return s, s
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		txs:  make(map[identifier.AccountID][]ledger.Transaction),
		byID: make(map[identifier.AccountID]map[identifier.TxHash]int),
	}
}

func (s *memoryStore) Add(account identifier.AccountID, tx ledger.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[account]
	if !ok {
		idx = make(map[identifier.TxHash]int)
		s.byID[account] = idx
	}
	if _, exists := idx[tx.Hash]; exists {
		return
	}
	s.txs[account] = append(s.txs[account], tx)
	idx[tx.Hash] = len(s.txs[account]) - 1
}

func (s *memoryStore) Remove(account identifier.AccountID, hash identifier.TxHash) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[account]
	if !ok {
		return
	}
	pos, ok := idx[hash]
	if !ok {
		return
	}
	txs := s.txs[account]
	s.txs[account] = append(txs[:pos], txs[pos+1:]...)
	delete(idx, hash)
	for h, i := range idx {
		if i > pos {
			idx[h] = i - 1
		}
	}
}

func (s *memoryStore) Get(_ context.Context, account identifier.AccountID, pageSize int, firstHash *identifier.TxHash) (Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.txs[account]
	start := 0
	if firstHash != nil {
		idx, ok := s.byID[account]
		pos, found := -1, false
		if ok {
			pos, found = idx[*firstHash]
		}
		if !found {
			return Page{}, ErrNotFound
		}
		start = pos
	}

	total := len(all)
	if start >= total {
		return Page{Txs: nil, NextHash: nil, Total: total}, nil
	}

	end := start + pageSize
	if end > total {
		end = total
	}

	page := make([]ledger.Transaction, end-start)
	copy(page, all[start:end])

	var next *identifier.TxHash
	if end < total {
		h := all[end].Hash
		next = &h
	}

	return Page{Txs: page, NextHash: next, Total: total}, nil
}
