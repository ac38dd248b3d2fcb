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

package authz

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/opentrusty/ledgerquery/identifier"
	"github.com/opentrusty/ledgerquery/permission"
	"github.com/opentrusty/ledgerquery/worldstate"
)

// Decision records the outcome of Authorize along with which branch of
// §4.5 produced it, purely for structured log enrichment; it never
// affects the error code the caller ultimately sees.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow(reason string) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason string) Decision  { return Decision{Allowed: false, Reason: reason} }

// ResolvePermissions unions the permission sets of every role held by
// account, per §4.1 ("union of role permissions").
func ResolvePermissions(ctx context.Context, reader worldstate.Reader, account identifier.AccountID) (permission.Set, error) {
	roleIDs, err := reader.GetAccountRoles(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("authz: failed to get account roles: %w", err)
	}

	var set permission.Set
	for _, roleID := range roleIDs {
		perms, err := reader.GetRolePermissions(ctx, roleID)
		if err != nil {
			slog.WarnContext(ctx, "authz: failed to resolve role permissions", "role", roleID, "error", err)
			continue
		}
		set = set.Union(perms)
	}
	return set, nil
}

// Authorize implements the five steps of §4.5 for every scoped or
// singleton query kind present in Table. GetTransactions and
// GetPendingTransactions carry bespoke rules evaluated directly by
// their handlers (see query package) and are not dispatched here.
func Authorize(ctx context.Context, reader worldstate.Reader, creator identifier.AccountID, kind Kind, target identifier.AccountID) (Decision, error) {
	perms, err := ResolvePermissions(ctx, reader, creator)
	if err != nil {
		return Decision{}, err
	}
	return AuthorizeWithPermissions(ctx, reader, perms, creator, kind, target)
}

// AuthorizeWithPermissions is Authorize's core, taking an
// already-resolved permission set. Exposed separately so callers that
// must resolve permissions once and authorize multiple queries against
// them (or tests constructing a set directly) can skip the repeated
// world-state round trip.
func AuthorizeWithPermissions(ctx context.Context, reader worldstate.Reader, perms permission.Set, creator identifier.AccountID, kind Kind, target identifier.AccountID) (Decision, error) {
	// Step 1: Root is a universal permit.
	if perms.HasRoot() {
		return allow("root"), nil
	}

	rule, ok := Table[kind]
	if !ok {
		return deny("no rule for query kind"), nil
	}

	// Step 5: queries without a target check a single permission.
	if !rule.HasTarget {
		if perms.Has(rule.Plain) {
			return allow("plain"), nil
		}
		return deny("missing plain permission"), nil
	}

	if target == "" {
		target = creator
	}

	// Step 3: self / domain / any scopes, evaluated from narrowest to
	// widest so the log reason names the tightest branch that matched.
	if target.Equal(creator) && perms.Has(rule.Self) {
		return allow("self"), nil
	}
	if target.SameDomain(creator) && perms.Has(rule.Domain) {
		return allow("domain"), nil
	}
	if perms.Has(rule.All) {
		return allow("all"), nil
	}

	// Step 4: grantable delegation, independent of role membership.
	if rule.Grantable != nil {
		granted, err := reader.HasGrantable(ctx, target, creator, *rule.Grantable)
		if err != nil {
			return Decision{}, fmt.Errorf("authz: failed to check grantable permission: %w", err)
		}
		if granted {
			return allow("grantable"), nil
		}
	}

	slog.WarnContext(ctx, "authz: denied", "creator", creator, "target", target, "kind", kind.String())
	return deny("no matching scope"), nil
}
