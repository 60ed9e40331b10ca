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

// Package expiry computes which sites are past their lifetime. It never
// touches the cluster: it operates on listings already fetched by the
// repository, which keeps the expiry rule testable without any store.
package expiry

import (
	"time"

	"github.com/epfl-si/wp-kleenexd/internal/site"
)

// Expired returns the subset of sites whose lifetime has elapsed at the
// given instant. Sites still waiting for their server-assigned creation
// timestamp are never reported.
func Expired(sites []site.Site, now time.Time) []site.Site {
	var expired []site.Site
	for i := range sites {
		if sites[i].Expired(now) {
			expired = append(expired, sites[i])
		}
	}
	return expired
}

// ExpiredIDs is Expired reduced to the site ids, in listing order.
func ExpiredIDs(sites []site.Site, now time.Time) []string {
	var ids []string
	for i := range sites {
		if sites[i].Expired(now) {
			ids = append(ids, sites[i].ID)
		}
	}
	return ids
}
