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

package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/epfl-si/wp-kleenexd/internal/site"
)

// ErrInvalidToken is returned for missing, malformed, expired or
// unverifiable tokens.
var ErrInvalidToken = errors.New("invalid token")

// Resolver validates bearer tokens and derives the caller context from
// their claims.
type Resolver struct {
	secret     []byte
	adminGroup string
}

// NewResolver returns a resolver verifying HMAC-signed tokens with the
// given secret. Callers whose groups claim contains adminGroup are
// resolved with the admin role.
func NewResolver(secret, adminGroup string) *Resolver {
	return &Resolver{
		secret:     []byte(secret),
		adminGroup: adminGroup,
	}
}

// ResolveCaller parses and verifies a raw bearer token and returns the
// caller it identifies. It is a pure function of the token and the
// resolver configuration; nothing is re-derived downstream.
func (r *Resolver) ResolveCaller(rawToken string) (Caller, error) {
	if rawToken == "" {
		return Caller{}, ErrInvalidToken
	}

	token, err := jwt.Parse(rawToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return r.secret, nil
	})
	if err != nil || !token.Valid {
		return Caller{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Caller{}, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		// Tokens minted by the institutional login proxy carry the user id
		// in a uniqueid claim instead of the standard subject.
		sub, _ = claims["uniqueid"].(string)
	}
	if sub == "" {
		return Caller{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return Caller{
		ID:   site.OwnerID(sub),
		Role: r.roleFromClaims(claims),
	}, nil
}

func (r *Resolver) roleFromClaims(claims jwt.MapClaims) Role {
	if r.adminGroup == "" {
		return RoleMember
	}
	groups, _ := claims["groups"].([]interface{})
	for _, g := range groups {
		if name, ok := g.(string); ok && name == r.adminGroup {
			return RoleAdmin
		}
	}
	return RoleMember
}
