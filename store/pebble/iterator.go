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
	"bytes"
	"context"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/opentrusty/ledgerquery/blockstore"
	"github.com/opentrusty/ledgerquery/identifier"
	"github.com/opentrusty/ledgerquery/ledger"
)

// txIterator walks one of the account / account-asset secondary
// indexes in key order, which by construction (keys.go) is integral
// (height, index) order.
type txIterator struct {
	store   *Store
	it      *pebble.Iterator
	prefix  []byte
	since   *ledger.TxLocation
	started bool
	cur     blockstore.TxRef
	err     error
}

func (t *txIterator) Next(ctx context.Context) bool {
	if t.err != nil {
		return false
	}

	var ok bool
	if !t.started {
		t.started = true
		if t.since != nil {
			ok = t.it.SeekGE(seekKey(t.prefix, *t.since))
		} else {
			ok = t.it.SeekGE(t.prefix)
		}
	} else {
		ok = t.it.Next()
	}

	for ok {
		key := t.it.Key()
		if !bytes.HasPrefix(key, t.prefix) {
			return false
		}
		loc := decodeLocation(key)
		if t.since != nil && !t.since.Less(loc) {
			ok = t.it.Next()
			continue
		}

		hash := identifier.TxHash(t.it.Value())
		tx, txLoc, found, err := t.store.GetTx(ctx, hash)
		if err != nil {
			t.err = err
			return false
		}
		if !found {
			t.err = fmt.Errorf("pebble: index references unknown transaction %q", hash)
			return false
		}

		t.cur = blockstore.TxRef{Transaction: *tx, Location: txLoc}
		return true
	}
	return false
}

func (t *txIterator) Value() blockstore.TxRef { return t.cur }

func (t *txIterator) Err() error { return t.err }

func (t *txIterator) Close() error {
	return t.it.Close()
}
