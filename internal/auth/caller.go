// Copyright 2025 The wp-kleenexd Authors
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

// Package auth resolves the caller behind a request. Identity is minted
// by the login proxy in front of this service; here a bearer token is
// turned into a (user id, role) pair exactly once, at the boundary, and
// the resulting Caller is passed explicitly through every operation.
package auth

import "github.com/epfl-si/wp-kleenexd/internal/site"

// Role is the authorization level of a caller.
type Role string

const (
	// RoleAdmin has full visibility and deletion rights over all sites.
	RoleAdmin Role = "admin"

	// RoleMember is scoped to the caller's own sites.
	RoleMember Role = "member"
)

// Caller is an authenticated request principal. The zero value is an
// unauthenticated caller.
type Caller struct {
	ID   site.OwnerID
	Role Role
}

// Authenticated reports whether the caller carries an identity.
func (c Caller) Authenticated() bool {
	return c.ID != ""
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// System returns the principal used by in-process automation such as the
// cleanup scheduler. It is an admin and never crosses the HTTP boundary.
func System() Caller {
	return Caller{ID: site.OwnerID("system"), Role: RoleAdmin}
}
