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
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/opentrusty/ledgerquery/identifier"
	"github.com/opentrusty/ledgerquery/ledger"
	"github.com/opentrusty/ledgerquery/permission"
	"github.com/opentrusty/ledgerquery/worldstate"
)

// Opener opens one serializable, read-only transaction per query,
// satisfying §5's snapshot isolation requirement.
type Opener struct {
	db *DB
}

// NewOpener constructs an Opener over db.
func NewOpener(db *DB) *Opener {
	return &Opener{db: db}
}

// Open begins a new read-only, serializable transaction and pins it to
// the chain height recorded at that instant.
func (o *Opener) Open(ctx context.Context) (worldstate.Snapshot, error) {
	tx, err := o.db.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to begin snapshot transaction: %w", err)
	}

	var height uint64
	if err := tx.QueryRow(ctx, `SELECT height FROM chain_state LIMIT 1`).Scan(&height); err != nil {
		_ = tx.Rollback(ctx)
		return nil, fmt.Errorf("postgres: failed to read chain height: %w", err)
	}

	return &snapshot{tx: tx, height: height}, nil
}

// snapshot is the transaction-scoped worldstate.Reader implementation.
// Every method runs against the one transaction it was constructed
// with; none of them may commit.
type snapshot struct {
	tx     pgx.Tx
	height uint64
}

func (s *snapshot) Height() uint64 { return s.height }

// Close always rolls back: the snapshot is read-only, so there is
// never anything to commit, and rolling back is always correct.
func (s *snapshot) Close(ctx context.Context) error {
	err := s.tx.Rollback(ctx)
	if err != nil && errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

func (s *snapshot) GetAccount(ctx context.Context, id identifier.AccountID) (*ledger.Account, error) {
	var acc ledger.Account
	acc.AccountID = id
	err := s.tx.QueryRow(ctx, `
		SELECT domain_id, quorum, json_data FROM accounts WHERE account_id = $1
	`, string(id)).Scan(&acc.DomainID, &acc.Quorum, &acc.JSONData)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: failed to get account: %w", err)
	}
	return &acc, nil
}

func (s *snapshot) GetAccountRoles(ctx context.Context, id identifier.AccountID) ([]identifier.RoleID, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, worldstate.ErrNoAccount
	}

	rows, err := s.tx.Query(ctx, `SELECT role_id FROM account_roles WHERE account_id = $1`, string(id))
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list account roles: %w", err)
	}
	defer rows.Close()

	var roles []identifier.RoleID
	for rows.Next() {
		var roleID string
		if err := rows.Scan(&roleID); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan account role: %w", err)
		}
		roles = append(roles, identifier.RoleID(roleID))
	}
	return roles, rows.Err()
}

func (s *snapshot) GetAllRoles(ctx context.Context) ([]identifier.RoleID, error) {
	rows, err := s.tx.Query(ctx, `SELECT role_id FROM roles ORDER BY role_id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []identifier.RoleID
	for rows.Next() {
		var roleID string
		if err := rows.Scan(&roleID); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan role: %w", err)
		}
		roles = append(roles, identifier.RoleID(roleID))
	}
	return roles, rows.Err()
}

func (s *snapshot) GetRolePermissions(ctx context.Context, role identifier.RoleID) (permission.Set, error) {
	var raw int64
	err := s.tx.QueryRow(ctx, `SELECT permissions FROM roles WHERE role_id = $1`, string(role)).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, worldstate.ErrNoRole
		}
		return 0, fmt.Errorf("postgres: failed to get role permissions: %w", err)
	}
	return permission.Set(raw), nil
}

func (s *snapshot) GetSignatories(ctx context.Context, id identifier.AccountID) ([]string, error) {
	rows, err := s.tx.Query(ctx, `SELECT public_key FROM signatories WHERE account_id = $1 ORDER BY public_key`, string(id))
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list signatories: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan signatory: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, worldstate.ErrNoSignatories
	}
	return keys, nil
}

func (s *snapshot) GetAsset(ctx context.Context, id identifier.AssetID) (*ledger.Asset, error) {
	var asset ledger.Asset
	asset.AssetID = id
	err := s.tx.QueryRow(ctx, `
		SELECT domain_id, precision FROM assets WHERE asset_id = $1
	`, string(id)).Scan(&asset.DomainID, &asset.Precision)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: failed to get asset: %w", err)
	}
	return &asset, nil
}

func (s *snapshot) GetAccountAssets(ctx context.Context, id identifier.AccountID, pageSize int, firstAsset *identifier.AssetID) (worldstate.AssetPage, error) {
	if firstAsset != nil {
		var exists bool
		err := s.tx.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM account_balances WHERE account_id = $1 AND asset_id = $2)
		`, string(id), string(*firstAsset)).Scan(&exists)
		if err != nil {
			return worldstate.AssetPage{}, fmt.Errorf("postgres: failed to check pagination cursor: %w", err)
		}
		if !exists {
			return worldstate.AssetPage{}, worldstate.ErrInvalidPagination
		}
	}

	var total int
	if err := s.tx.QueryRow(ctx, `SELECT count(*) FROM account_balances WHERE account_id = $1`, string(id)).Scan(&total); err != nil {
		return worldstate.AssetPage{}, fmt.Errorf("postgres: failed to count account assets: %w", err)
	}

	cursor := ""
	if firstAsset != nil {
		cursor = string(*firstAsset)
	}

	rows, err := s.tx.Query(ctx, `
		SELECT asset_id, amount FROM account_balances
		WHERE account_id = $1 AND ($2 = '' OR asset_id >= $2)
		ORDER BY asset_id
		LIMIT $3
	`, string(id), cursor, pageSize+1)
	if err != nil {
		return worldstate.AssetPage{}, fmt.Errorf("postgres: failed to list account assets: %w", err)
	}
	defer rows.Close()

	var balances []ledger.AccountAssetBalance
	for rows.Next() {
		var assetID string
		var amount string
		if err := rows.Scan(&assetID, &amount); err != nil {
			return worldstate.AssetPage{}, fmt.Errorf("postgres: failed to scan account balance: %w", err)
		}
		rat, err := ledger.ParseBalance(amount)
		if err != nil {
			return worldstate.AssetPage{}, fmt.Errorf("postgres: %w", err)
		}
		balances = append(balances, ledger.AccountAssetBalance{AssetID: identifier.AssetID(assetID), Amount: rat})
	}
	if err := rows.Err(); err != nil {
		return worldstate.AssetPage{}, err
	}

	var next *identifier.AssetID
	if len(balances) > pageSize {
		n := balances[pageSize].AssetID
		next = &n
		balances = balances[:pageSize]
	}

	return worldstate.AssetPage{Balances: balances, Next: next, Total: total}, nil
}

func (s *snapshot) GetAccountDetail(ctx context.Context, id identifier.AccountID, writer *identifier.AccountID, key *string, pageSize int, firstRecord *string) (worldstate.AccountDetailPage, error) {
	if firstRecord != nil {
		var exists bool
		err := s.tx.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM account_detail WHERE account_id = $1 AND key = $2)
		`, string(id), *firstRecord).Scan(&exists)
		if err != nil {
			return worldstate.AccountDetailPage{}, fmt.Errorf("postgres: failed to check pagination cursor: %w", err)
		}
		if !exists {
			return worldstate.AccountDetailPage{}, worldstate.ErrInvalidPagination
		}
	}

	writerFilter := ""
	if writer != nil {
		writerFilter = string(*writer)
	}
	keyFilter := ""
	if key != nil {
		keyFilter = *key
	}
	cursor := ""
	if firstRecord != nil {
		cursor = *firstRecord
	}

	var total int
	if err := s.tx.QueryRow(ctx, `
		SELECT count(*) FROM account_detail
		WHERE account_id = $1 AND ($2 = '' OR writer_id = $2) AND ($3 = '' OR key = $3)
	`, string(id), writerFilter, keyFilter).Scan(&total); err != nil {
		return worldstate.AccountDetailPage{}, fmt.Errorf("postgres: failed to count account detail: %w", err)
	}
	if total == 0 {
		return worldstate.AccountDetailPage{}, worldstate.ErrNoAccountDetail
	}

	rows, err := s.tx.Query(ctx, `
		SELECT writer_id, key, value FROM account_detail
		WHERE account_id = $1 AND ($2 = '' OR writer_id = $2) AND ($3 = '' OR key = $3)
		  AND ($4 = '' OR key >= $4)
		ORDER BY key
		LIMIT $5
	`, string(id), writerFilter, keyFilter, cursor, pageSize+1)
	if err != nil {
		return worldstate.AccountDetailPage{}, fmt.Errorf("postgres: failed to list account detail: %w", err)
	}
	defer rows.Close()

	var records []ledger.AccountDetail
	for rows.Next() {
		var rec ledger.AccountDetail
		var writerID string
		if err := rows.Scan(&writerID, &rec.Key, &rec.Value); err != nil {
			return worldstate.AccountDetailPage{}, fmt.Errorf("postgres: failed to scan account detail record: %w", err)
		}
		rec.Writer = identifier.AccountID(writerID)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return worldstate.AccountDetailPage{}, err
	}

	var next *string
	if len(records) > pageSize {
		n := records[pageSize].Key
		next = &n
		records = records[:pageSize]
	}

	return worldstate.AccountDetailPage{Records: records, Next: next, Total: total}, nil
}

func (s *snapshot) GetPeers(ctx context.Context) ([]ledger.Peer, error) {
	rows, err := s.tx.Query(ctx, `SELECT address, public_key, tls_certificate FROM peers ORDER BY address`)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list peers: %w", err)
	}
	defer rows.Close()

	var peers []ledger.Peer
	for rows.Next() {
		var p ledger.Peer
		if err := rows.Scan(&p.Address, &p.PublicKey, &p.TLSCertificate); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan peer: %w", err)
		}
		peers = append(peers, p)
	}
	return peers, rows.Err()
}

func (s *snapshot) HasGrantable(ctx context.Context, grantor, grantee identifier.AccountID, kind permission.Grantable) (bool, error) {
	var exists bool
	err := s.tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM granted_permissions
			WHERE grantor_id = $1 AND grantee_id = $2 AND kind = $3
		)
	`, string(grantor), string(grantee), int(kind)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: failed to check grantable permission: %w", err)
	}
	return exists, nil
}
