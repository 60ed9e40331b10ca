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

// Package site defines the domain model for throwaway WordPress sites:
// the site descriptor, its closed enumerations, the derived lifecycle
// status, and validation of incoming creation requests.
package site

import (
	"fmt"
	"time"
)

// Type selects the provisioning template applied by the WordPress operator.
type Type string

const (
	TypeBasic     Type = "basic"
	TypeBlank     Type = "blank"
	TypeFormation Type = "formation"
	TypeCopy      Type = "copy"
)

// Status is the lifecycle phase of a site, derived from time alone.
// Sites are immutable after creation, so the phase only ever moves
// forward as the clock advances.
type Status string

const (
	StatusCreating Status = "creating"
	StatusActive   Status = "active"
	StatusExpiring Status = "expiring"
	StatusExpired  Status = "expired"
)

// ExpiringWindow is how far ahead of expiry a site is reported as expiring.
const ExpiringWindow = 24 * time.Hour

// Allowed expiration durations, in seconds (3h, 6h, 12h).
const (
	Expiration3h  = 10800
	Expiration6h  = 21600
	Expiration12h = 43200
)

// OwnerID identifies the user a site belongs to. It is the stable
// identifier handed out by the identity provider; a distinct type keeps
// it from being compared against arbitrary strings by accident.
type OwnerID string

// Wordpress carries the WordPress-level settings of a site.
type Wordpress struct {
	Title     string   `json:"title"`
	Tagline   string   `json:"tagline"`
	Theme     string   `json:"theme"`
	Languages []string `json:"languages"`
	Debug     bool     `json:"debug"`
	Plugins   []string `json:"plugins"`
}

// Site is a requested temporary WordPress instance. All fields are fixed
// at creation time; CreatedAt is assigned by the cluster when the backing
// object is persisted and stays zero until then.
type Site struct {
	ID                string    `json:"id"`
	Hostname          string    `json:"hostname"`
	Path              string    `json:"path"`
	Owner             OwnerID   `json:"owner"`
	Type              Type      `json:"type"`
	ExpirationSeconds int64     `json:"expiration"`
	CreatedAt         time.Time `json:"createdAt,omitzero"`
	Wordpress         Wordpress `json:"wordpress"`
}

// PathForID derives the URL path of a site from its id.
func PathForID(id string) string {
	return "/" + id
}

// URL returns the public URL of the site.
func (s *Site) URL() string {
	return fmt.Sprintf("https://%s%s", s.Hostname, s.Path)
}

// ExpiresAt is the instant the site becomes eligible for cleanup. It is
// always recomputed from CreatedAt and ExpirationSeconds rather than
// stored, so the two immutable facts cannot drift apart.
func (s *Site) ExpiresAt() time.Time {
	return s.CreatedAt.Add(time.Duration(s.ExpirationSeconds) * time.Second)
}

// Expired reports whether the site is past its expiry at the given instant.
// A site whose creation timestamp has not been assigned yet is never expired.
func (s *Site) Expired(now time.Time) bool {
	if s.CreatedAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt())
}

// StatusAt derives the lifecycle status of the site at the given instant.
// A live site is active; it only degrades to expiring when its lifetime
// exceeds the look-ahead window and the remaining time has shrunk into
// that window. Sites whose whole lifetime fits inside the window stay
// active until they expire, so a fresh short-lived site never starts out
// as expiring.
func (s *Site) StatusAt(now time.Time) Status {
	if s.CreatedAt.IsZero() {
		return StatusCreating
	}
	expiresAt := s.ExpiresAt()
	switch {
	case !now.Before(expiresAt):
		return StatusExpired
	case s.lifetime() > ExpiringWindow && expiresAt.Sub(now) <= ExpiringWindow:
		return StatusExpiring
	default:
		return StatusActive
	}
}

// ExpiringSoon reports whether the site is live and within the look-ahead
// window of its expiry. It overlaps with the active status: a live site
// whose whole lifetime fits inside the window is both active and expiring
// soon, which is what the stats counts report.
func (s *Site) ExpiringSoon(now time.Time) bool {
	if s.CreatedAt.IsZero() || s.Expired(now) {
		return false
	}
	return s.ExpiresAt().Sub(now) <= ExpiringWindow
}

func (s *Site) lifetime() time.Duration {
	return time.Duration(s.ExpirationSeconds) * time.Second
}
