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

// Package identifier implements the account, asset, and role identifier
// grammar of the ledger: parsing, validation, and byte-exact comparison.
//
// Purpose: Primitive identifier types shared by every other package.
// Domain: Ledger
package identifier

import (
	"errors"
	"regexp"
	"strings"
)

// ErrMalformed is returned when an identifier does not match the grammar.
// The engine assumes well-formed input reaches handlers (the schema layer
// is responsible for rejecting malformed identifiers before dispatch), but
// validation is still exposed for defensive callers and tests.
var ErrMalformed = errors.New("identifier: malformed")

var (
	namePattern   = regexp.MustCompile(`^[a-z_0-9]{1,32}$`)
	domainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?(\.[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?)*$`)
	roleIDPattern = regexp.MustCompile(`^[a-z_0-9]{1,32}$`)
)

// AccountID is "name@domain".
type AccountID string

// ParseAccountID validates and returns an AccountID.
func ParseAccountID(s string) (AccountID, error) {
	name, domain, ok := cut(s, '@')
	if !ok || !namePattern.MatchString(name) || !domainPattern.MatchString(domain) {
		return "", ErrMalformed
	}
	return AccountID(s), nil
}

// Name returns the account's name component.
func (a AccountID) Name() string {
	name, _, _ := cut(string(a), '@')
	return name
}

// Domain returns the account's domain component.
func (a AccountID) Domain() string {
	_, domain, _ := cut(string(a), '@')
	return domain
}

// SameDomain reports whether a and other belong to the same domain.
func (a AccountID) SameDomain(other AccountID) bool {
	return a.Domain() == other.Domain()
}

// Equal is a byte-exact comparison, as mandated by the identifier grammar.
func (a AccountID) Equal(other AccountID) bool {
	return string(a) == string(other)
}

// Valid reports whether the account ID matches the grammar.
func (a AccountID) Valid() bool {
	_, err := ParseAccountID(string(a))
	return err == nil
}

// AssetID is "name#domain".
type AssetID string

// ParseAssetID validates and returns an AssetID.
func ParseAssetID(s string) (AssetID, error) {
	name, domain, ok := cut(s, '#')
	if !ok || !namePattern.MatchString(name) || !domainPattern.MatchString(domain) {
		return "", ErrMalformed
	}
	return AssetID(s), nil
}

// Domain returns the asset's domain component.
func (a AssetID) Domain() string {
	_, domain, _ := cut(string(a), '#')
	return domain
}

// Equal is a byte-exact comparison.
func (a AssetID) Equal(other AssetID) bool {
	return string(a) == string(other)
}

// Valid reports whether the asset ID matches the grammar.
func (a AssetID) Valid() bool {
	_, err := ParseAssetID(string(a))
	return err == nil
}

// RoleID is a bare role name.
type RoleID string

// ParseRoleID validates and returns a RoleID.
func ParseRoleID(s string) (RoleID, error) {
	if !roleIDPattern.MatchString(s) {
		return "", ErrMalformed
	}
	return RoleID(s), nil
}

// TxHash is a 32-byte content digest, stored as its hex form for equality
// and map-keying convenience.
type TxHash string

// ParseTxHash validates a 64-character lowercase hex string.
func ParseTxHash(s string) (TxHash, error) {
	if len(s) != 64 {
		return "", ErrMalformed
	}
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')) {
			return "", ErrMalformed
		}
	}
	return TxHash(s), nil
}

func cut(s string, sep byte) (before, after string, ok bool) {
	i := strings.IndexByte(s, sep)
	if i < 0 {
		return "", "", false
	}
	before, after = s[:i], s[i+1:]
	if strings.IndexByte(after, sep) >= 0 {
		return "", "", false
	}
	return before, after, true
}
