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

package server

import (
	"time"

	"github.com/epfl-si/wp-kleenexd/internal/cleanup"
	"github.com/epfl-si/wp-kleenexd/internal/site"
)

// errorResponse is the generic failure envelope.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// validationResponse reports every violated field of a creation request.
type validationResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Errors  site.FieldErrors `json:"errors"`
}

// createResponse acknowledges a created site.
type createResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url"`
	SiteID  string `json:"siteId"`
}

// siteView is the API representation of a site, with the derived fields
// materialized for the client.
type siteView struct {
	ID         string         `json:"id"`
	URL        string         `json:"url"`
	Hostname   string         `json:"hostname"`
	Path       string         `json:"path"`
	Owner      string         `json:"owner"`
	Type       string         `json:"type"`
	Expiration int64          `json:"expiration"`
	CreatedAt  time.Time      `json:"createdAt"`
	ExpiresAt  time.Time      `json:"expirationTimestamp"`
	Status     string         `json:"status"`
	Wordpress  site.Wordpress `json:"wordpress"`
}

func viewOf(s *site.Site, now time.Time) siteView {
	return siteView{
		ID:         s.ID,
		URL:        s.URL(),
		Hostname:   s.Hostname,
		Path:       s.Path,
		Owner:      string(s.Owner),
		Type:       string(s.Type),
		Expiration: s.ExpirationSeconds,
		CreatedAt:  s.CreatedAt,
		ExpiresAt:  s.ExpiresAt(),
		Status:     string(s.StatusAt(now)),
		Wordpress:  s.Wordpress,
	}
}

// listResponse carries a site listing.
type listResponse struct {
	Success bool       `json:"success"`
	Sites   []siteView `json:"sites"`
}

// cleanupResponse reports the outcome of a cleanup pass.
type cleanupResponse struct {
	Success      bool              `json:"success"`
	Message      string            `json:"message"`
	DeletedCount int               `json:"deletedCount"`
	Deleted      []string          `json:"deleted"`
	Failed       []cleanup.Failure `json:"failed"`
}

// previewResponse lists the currently expired sites without deleting.
type previewResponse struct {
	Success      bool     `json:"success"`
	ExpiredCount int      `json:"expiredCount"`
	ExpiredSites []string `json:"expiredSites"`
}

// statsResponse carries site counts. Active counts every live site and
// Expiring the within-window subset of those, so Expiring <= Active.
// TotalSystemSites is only present for non-admin callers, whose other
// counts are scoped to their sites.
type statsResponse struct {
	Success          bool `json:"success"`
	Total            int  `json:"total"`
	Active           int  `json:"active"`
	Expiring         int  `json:"expiring"`
	TotalSystemSites *int `json:"totalSystemSites,omitempty"`
}
