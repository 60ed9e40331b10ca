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

// Package metrics exposes the Prometheus instrumentation of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SitesCreated counts sites successfully persisted.
	SitesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wp_kleenex_sites_created_total",
		Help: "Total number of sites created",
	})

	// SitesDeleted counts sites removed, by who initiated the removal.
	SitesDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wp_kleenex_sites_deleted_total",
		Help: "Total number of sites deleted",
	}, []string{"initiator"})

	// CleanupRuns counts cleanup passes by outcome.
	CleanupRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wp_kleenex_cleanup_runs_total",
		Help: "Total number of cleanup passes",
	}, []string{"outcome"})

	// CleanupDeletionFailures counts individual deletions that failed
	// during cleanup passes.
	CleanupDeletionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wp_kleenex_cleanup_deletion_failures_total",
		Help: "Total number of failed deletions across cleanup passes",
	})

	// HTTPRequests counts API requests by handler and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wp_kleenex_http_requests_total",
		Help: "Total number of HTTP requests served",
	}, []string{"handler", "code"})
)
