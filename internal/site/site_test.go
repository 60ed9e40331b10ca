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

package site

import (
	"testing"
	"time"
)

func newTestSite(createdAt time.Time, expiration int64) *Site {
	return &Site{
		ID:                "0b1c9a52-1111-2222-3333-444455556666",
		Hostname:          "wp-kleenex.epfl.ch",
		Path:              "/0b1c9a52-1111-2222-3333-444455556666",
		Owner:             OwnerID("123456"),
		Type:              TypeBasic,
		ExpirationSeconds: expiration,
		CreatedAt:         createdAt,
		Wordpress: Wordpress{
			Title:     "Lab X",
			Tagline:   "A throwaway site",
			Theme:     "wp-theme-2018",
			Languages: []string{"en", "fr"},
		},
	}
}

func TestSite_StatusAt_transitions_with_time(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestSite(created, Expiration3h)

	// A fresh site is active for its whole lifetime; a 3h lifetime fits
	// inside the look-ahead window and never passes through expiring.
	if got := s.StatusAt(created); got != StatusActive {
		t.Errorf("StatusAt(created) = %q, want %q", got, StatusActive)
	}
	if got := s.StatusAt(created.Add(2 * time.Hour)); got != StatusActive {
		t.Errorf("StatusAt(+2h) = %q, want %q", got, StatusActive)
	}

	// One second past expiry.
	after := created.Add(10801 * time.Second)
	if got := s.StatusAt(after); got != StatusExpired {
		t.Errorf("StatusAt(+10801s) = %q, want %q", got, StatusExpired)
	}
	if !s.Expired(after) {
		t.Error("Expired(+10801s) = false, want true")
	}
}

func TestSite_StatusAt_every_allowed_lifetime_starts_active(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, expiration := range []int64{Expiration3h, Expiration6h, Expiration12h} {
		s := newTestSite(created, expiration)
		if got := s.StatusAt(created); got != StatusActive {
			t.Errorf("StatusAt(created) with %ds lifetime = %q, want %q", expiration, got, StatusActive)
		}
	}
}

func TestSite_ExpiringSoon_overlaps_with_active(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// A live 3h site is active and within the window at the same time.
	s := newTestSite(created, Expiration3h)
	if !s.ExpiringSoon(created) {
		t.Error("ExpiringSoon(created) = false, want true for a 3h site")
	}
	if s.StatusAt(created) != StatusActive {
		t.Error("a site expiring soon must still report active")
	}

	// Past expiry and before creation-timestamp assignment it never holds.
	if s.ExpiringSoon(created.Add(4 * time.Hour)) {
		t.Error("ExpiringSoon after expiry = true, want false")
	}
	pending := newTestSite(time.Time{}, Expiration3h)
	if pending.ExpiringSoon(created) {
		t.Error("ExpiringSoon without creation timestamp = true, want false")
	}

	// A long-lived site only enters the window near the end.
	long := newTestSite(created, 48*3600)
	if long.ExpiringSoon(created) {
		t.Error("ExpiringSoon right after creation of a 48h site = true, want false")
	}
	if !long.ExpiringSoon(created.Add(25 * time.Hour)) {
		t.Error("ExpiringSoon inside the window of a 48h site = false, want true")
	}
}

func TestSite_StatusAt_boundary_instant_is_expired(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newTestSite(created, Expiration3h)

	boundary := s.ExpiresAt()
	if got := s.StatusAt(boundary); got != StatusExpired {
		t.Errorf("StatusAt(boundary) = %q, want %q", got, StatusExpired)
	}

	// StatusAt and Expired must agree at the exact boundary, and repeated
	// evaluation at the same instant must not flip the answer.
	for i := 0; i < 3; i++ {
		if !s.Expired(boundary) {
			t.Fatal("Expired(boundary) = false, want true")
		}
	}

	justBefore := boundary.Add(-time.Second)
	if s.Expired(justBefore) {
		t.Error("Expired(boundary-1s) = true, want false")
	}
}

func TestSite_StatusAt_long_lifetime_degrades_to_expiring(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	// Only lifetimes longer than the look-ahead window ever pass through
	// the expiring status, so use an artificial 48h expiration.
	s := newTestSite(created, 48*3600)

	if got := s.StatusAt(created); got != StatusActive {
		t.Errorf("StatusAt = %q, want %q", got, StatusActive)
	}
	if got := s.StatusAt(created.Add(25 * time.Hour)); got != StatusExpiring {
		t.Errorf("StatusAt inside window = %q, want %q", got, StatusExpiring)
	}
}

func TestSite_StatusAt_zero_creation_timestamp_is_creating(t *testing.T) {
	s := newTestSite(time.Time{}, Expiration3h)

	if got := s.StatusAt(time.Now()); got != StatusCreating {
		t.Errorf("StatusAt = %q, want %q", got, StatusCreating)
	}
	if s.Expired(time.Now()) {
		t.Error("a site without a creation timestamp must never be expired")
	}
}

func TestSite_URL_joins_hostname_and_path(t *testing.T) {
	s := newTestSite(time.Now(), Expiration3h)

	want := "https://wp-kleenex.epfl.ch/0b1c9a52-1111-2222-3333-444455556666"
	if got := s.URL(); got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}

func TestPathForID(t *testing.T) {
	if got := PathForID("abc"); got != "/abc" {
		t.Errorf("PathForID = %q, want %q", got, "/abc")
	}
}
