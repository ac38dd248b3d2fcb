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

package pending

import (
	"context"
	"testing"

	"github.com/opentrusty/ledgerquery/identifier"
	"github.com/opentrusty/ledgerquery/ledger"
)

func hash(b byte) identifier.TxHash {
	s := make([]byte, 64)
	for i := range s {
		s[i] = '0' + b%10
	}
	return identifier.TxHash(s)
}

func TestMemoryStoreGetPagination(t *testing.T) {
	store, mutator := NewMemoryMutator()
	acc := identifier.AccountID("alice@wonderland")

	for i := byte(0); i < 5; i++ {
		mutator.Add(acc, ledger.Transaction{CreatorAccountID: acc, Hash: hash(i)})
	}

	ctx := context.Background()
	page, err := store.Get(ctx, acc, 2, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Txs) != 2 || page.Total != 5 {
		t.Fatalf("got %d txs, total %d; want 2, 5", len(page.Txs), page.Total)
	}
	if page.NextHash == nil || *page.NextHash != hash(2) {
		t.Fatalf("expected next hash to be hash(2), got %v", page.NextHash)
	}
}

func TestMemoryStoreGetUnknownHash(t *testing.T) {
	store, mutator := NewMemoryMutator()
	acc := identifier.AccountID("alice@wonderland")
	mutator.Add(acc, ledger.Transaction{CreatorAccountID: acc, Hash: hash(0)})

	unknown := hash(9)
	_, err := store.Get(context.Background(), acc, 2, &unknown)
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreGetExhausted(t *testing.T) {
	store, mutator := NewMemoryMutator()
	acc := identifier.AccountID("alice@wonderland")
	mutator.Add(acc, ledger.Transaction{CreatorAccountID: acc, Hash: hash(0)})

	page, err := store.Get(context.Background(), acc, 10, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.NextHash != nil {
		t.Fatalf("expected no next hash when page covers all pending txs")
	}
}

func TestMemoryStoreRemove(t *testing.T) {
	store, mutator := NewMemoryMutator()
	acc := identifier.AccountID("alice@wonderland")
	for i := byte(0); i < 3; i++ {
		mutator.Add(acc, ledger.Transaction{CreatorAccountID: acc, Hash: hash(i)})
	}
	mutator.Remove(acc, hash(1))

	page, err := store.Get(context.Background(), acc, 10, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 remaining, got %d", page.Total)
	}
	for _, tx := range page.Txs {
		if tx.Hash == hash(1) {
			t.Fatalf("removed hash still present")
		}
	}
}
