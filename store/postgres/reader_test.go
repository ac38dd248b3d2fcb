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

package postgres

import (
	"context"
	"testing"

	"github.com/opentrusty/ledgerquery/identifier"
	"github.com/opentrusty/ledgerquery/worldstate"
)

func TestSnapshotGetAccountAndRoles(t *testing.T) {
	ctx := context.Background()
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	if err := seedFixture(ctx, db); err != nil {
		t.Fatalf("seedFixture: %v", err)
	}

	opener := NewOpener(db)
	snap, err := opener.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer snap.Close(ctx)

	if snap.Height() != 5 {
		t.Fatalf("Height() = %d, want 5", snap.Height())
	}

	acc, err := snap.GetAccount(ctx, identifier.AccountID("alice@test"))
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if acc == nil {
		t.Fatal("GetAccount: want account, got nil")
	}
	if acc.DomainID != "test" {
		t.Fatalf("DomainID = %q, want test", acc.DomainID)
	}

	missing, err := snap.GetAccount(ctx, identifier.AccountID("nobody@test"))
	if err != nil {
		t.Fatalf("GetAccount(missing): %v", err)
	}
	if missing != nil {
		t.Fatal("GetAccount(missing): want nil, got account")
	}

	roles, err := snap.GetAccountRoles(ctx, identifier.AccountID("alice@test"))
	if err != nil {
		t.Fatalf("GetAccountRoles: %v", err)
	}
	if len(roles) != 1 || roles[0] != identifier.RoleID("user") {
		t.Fatalf("GetAccountRoles = %v, want [user]", roles)
	}

	_, err = snap.GetAccountRoles(ctx, identifier.AccountID("nobody@test"))
	if err != worldstate.ErrNoAccount {
		t.Fatalf("GetAccountRoles(missing) err = %v, want ErrNoAccount", err)
	}
}

func TestSnapshotGetSignatories(t *testing.T) {
	ctx := context.Background()
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	if err := seedFixture(ctx, db); err != nil {
		t.Fatalf("seedFixture: %v", err)
	}

	opener := NewOpener(db)
	snap, err := opener.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer snap.Close(ctx)

	keys, err := snap.GetSignatories(ctx, identifier.AccountID("alice@test"))
	if err != nil {
		t.Fatalf("GetSignatories: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("GetSignatories = %v, want 2 keys", keys)
	}

	_, err = snap.GetSignatories(ctx, identifier.AccountID("nobody@test"))
	if err != worldstate.ErrNoSignatories {
		t.Fatalf("GetSignatories(missing) err = %v, want ErrNoSignatories", err)
	}
}

func TestSnapshotGetAccountAssetsPagination(t *testing.T) {
	ctx := context.Background()
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	if err := seedFixture(ctx, db); err != nil {
		t.Fatalf("seedFixture: %v", err)
	}
	if _, err := db.pool.Exec(ctx, `INSERT INTO assets (asset_id, domain_id, precision) VALUES ($1, $2, $3)`, "gold#test", "test", 0); err != nil {
		t.Fatalf("seed asset: %v", err)
	}
	if _, err := db.pool.Exec(ctx, `INSERT INTO account_balances (account_id, asset_id, amount) VALUES ($1, $2, $3)`, "alice@test", "gold#test", "1"); err != nil {
		t.Fatalf("seed balance: %v", err)
	}

	opener := NewOpener(db)
	snap, err := opener.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer snap.Close(ctx)

	page, err := snap.GetAccountAssets(ctx, identifier.AccountID("alice@test"), 1, nil)
	if err != nil {
		t.Fatalf("GetAccountAssets: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("Total = %d, want 2", page.Total)
	}
	if len(page.Balances) != 1 {
		t.Fatalf("Balances = %v, want 1 entry", page.Balances)
	}
	if page.Next == nil {
		t.Fatal("Next = nil, want a cursor for the second page")
	}

	next := *page.Next
	page2, err := snap.GetAccountAssets(ctx, identifier.AccountID("alice@test"), 1, &next)
	if err != nil {
		t.Fatalf("GetAccountAssets(page2): %v", err)
	}
	if len(page2.Balances) != 1 {
		t.Fatalf("page2 Balances = %v, want 1 entry", page2.Balances)
	}
	if page2.Next != nil {
		t.Fatalf("page2 Next = %v, want nil", *page2.Next)
	}

	unknown := identifier.AssetID("doesnotexist#test")
	_, err = snap.GetAccountAssets(ctx, identifier.AccountID("alice@test"), 1, &unknown)
	if err != worldstate.ErrInvalidPagination {
		t.Fatalf("GetAccountAssets(unknown cursor) err = %v, want ErrInvalidPagination", err)
	}
}

func TestSnapshotGetAccountDetail(t *testing.T) {
	ctx := context.Background()
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	if err := seedFixture(ctx, db); err != nil {
		t.Fatalf("seedFixture: %v", err)
	}

	opener := NewOpener(db)
	snap, err := opener.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer snap.Close(ctx)

	page, err := snap.GetAccountDetail(ctx, identifier.AccountID("alice@test"), nil, nil, 10, nil)
	if err != nil {
		t.Fatalf("GetAccountDetail: %v", err)
	}
	if len(page.Records) != 1 || page.Records[0].Key != "nickname" {
		t.Fatalf("Records = %v, want one nickname record", page.Records)
	}

	_, err = snap.GetAccountDetail(ctx, identifier.AccountID("nobody@test"), nil, nil, 10, nil)
	if err != worldstate.ErrNoAccountDetail {
		t.Fatalf("GetAccountDetail(missing account) err = %v, want ErrNoAccountDetail", err)
	}
}

func TestSnapshotGetAssetAndPeers(t *testing.T) {
	ctx := context.Background()
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	if err := seedFixture(ctx, db); err != nil {
		t.Fatalf("seedFixture: %v", err)
	}

	opener := NewOpener(db)
	snap, err := opener.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer snap.Close(ctx)

	asset, err := snap.GetAsset(ctx, identifier.AssetID("coin#test"))
	if err != nil {
		t.Fatalf("GetAsset: %v", err)
	}
	if asset == nil || asset.Precision != 2 {
		t.Fatalf("GetAsset = %+v, want precision 2", asset)
	}

	peers, err := snap.GetPeers(ctx)
	if err != nil {
		t.Fatalf("GetPeers: %v", err)
	}
	if len(peers) != 1 {
		t.Fatalf("GetPeers = %v, want 1 peer", peers)
	}
}

func TestSnapshotHasGrantable(t *testing.T) {
	ctx := context.Background()
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	if err := seedFixture(ctx, db); err != nil {
		t.Fatalf("seedFixture: %v", err)
	}
	if _, err := db.pool.Exec(ctx, `INSERT INTO accounts (account_id, domain_id, quorum) VALUES ($1, $2, $3)`, "bob@test", "test", 1); err != nil {
		t.Fatalf("seed bob: %v", err)
	}
	if _, err := db.pool.Exec(ctx, `INSERT INTO granted_permissions (grantor_id, grantee_id, kind) VALUES ($1, $2, $3)`, "alice@test", "bob@test", 1); err != nil {
		t.Fatalf("seed grant: %v", err)
	}

	opener := NewOpener(db)
	snap, err := opener.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer snap.Close(ctx)

	granted, err := snap.HasGrantable(ctx, identifier.AccountID("alice@test"), identifier.AccountID("bob@test"), 1)
	if err != nil {
		t.Fatalf("HasGrantable: %v", err)
	}
	if !granted {
		t.Fatal("HasGrantable = false, want true")
	}

	ungranted, err := snap.HasGrantable(ctx, identifier.AccountID("bob@test"), identifier.AccountID("alice@test"), 1)
	if err != nil {
		t.Fatalf("HasGrantable(reverse): %v", err)
	}
	if ungranted {
		t.Fatal("HasGrantable(reverse) = true, want false")
	}
}
