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

package cleanup

import (
	"context"
	"sync"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	wordpressv2 "github.com/epfl-si/wp-kleenexd/api/v2"
	"github.com/epfl-si/wp-kleenexd/internal/auth"
	"github.com/epfl-si/wp-kleenexd/internal/expiry"
	"github.com/epfl-si/wp-kleenexd/internal/metrics"
	"github.com/epfl-si/wp-kleenexd/internal/repository"
	"github.com/epfl-si/wp-kleenexd/internal/resource"
)

// Failure records one site whose deletion did not go through, with the
// underlying reason.
type Failure struct {
	SiteID string `json:"siteId"`
	Reason string `json:"reason"`
}

// Report is the complete outcome of one cleanup pass. Every expired site
// appears exactly once, either in Deleted or in Failed.
type Report struct {
	Deleted []string  `json:"deleted"`
	Failed  []Failure `json:"failed"`
}

// DeletedCount returns the number of sites removed by the pass.
func (r *Report) DeletedCount() int {
	return len(r.Deleted)
}

// Orchestrator drives the scan-then-delete cycle over expired sites.
type Orchestrator struct {
	repo      *repository.Repository
	client    client.Client
	namespace string
}

// NewOrchestrator creates an orchestrator deleting through the given
// repository. The client is only used to record cleanup events next to
// the deleted objects.
func NewOrchestrator(repo *repository.Repository, c client.Client, namespace string) *Orchestrator {
	return &Orchestrator{
		repo:      repo,
		client:    c,
		namespace: namespace,
	}
}

// Run performs one cleanup pass on behalf of an admin caller: it lists
// all sites, computes the expired subset and deletes each expired site
// concurrently. Deletions are independent; one failing never aborts or
// delays the others, and the returned report covers every attempted id.
// Zero expired sites is a successful, empty report.
func (o *Orchestrator) Run(ctx context.Context, caller auth.Caller) (*Report, error) {
	if !caller.Authenticated() {
		return nil, repository.ErrUnauthorized
	}
	if !caller.IsAdmin() {
		return nil, repository.ErrForbidden
	}

	logger := log.FromContext(ctx)

	sites, err := o.repo.List(ctx, caller)
	if err != nil {
		metrics.CleanupRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	expired := expiry.Expired(sites, time.Now())
	report := &Report{Deleted: []string{}, Failed: []Failure{}}
	if len(expired) == 0 {
		metrics.CleanupRuns.WithLabelValues("ok").Inc()
		return report, nil
	}

	// One slot per deletion; goroutines only ever write their own slot,
	// so collecting after the wait needs no further synchronization.
	outcomes := make([]error, len(expired))
	var wg sync.WaitGroup
	for i := range expired {
		wg.Add(1)
		go func(slot int, id string) {
			defer wg.Done()
			outcomes[slot] = o.repo.DeleteExpired(ctx, caller, id)
		}(i, expired[i].ID)
	}
	wg.Wait()

	for i, err := range outcomes {
		id := expired[i].ID
		if err != nil {
			report.Failed = append(report.Failed, Failure{SiteID: id, Reason: err.Error()})
			metrics.CleanupDeletionFailures.Inc()
			logger.Error(err, "Failed to delete expired site", "id", id)
			continue
		}
		report.Deleted = append(report.Deleted, id)
		metrics.SitesDeleted.WithLabelValues("cleanup").Inc()
		o.recordEvent(ctx, id)
	}

	metrics.CleanupRuns.WithLabelValues("ok").Inc()
	logger.Info("Cleanup pass finished",
		"expired", len(expired),
		"deleted", len(report.Deleted),
		"failed", len(report.Failed))
	return report, nil
}

// PreviewExpired returns the ids of the currently expired sites without
// deleting anything. Any authenticated caller may look.
func (o *Orchestrator) PreviewExpired(ctx context.Context, caller auth.Caller) ([]string, error) {
	sites, err := o.repo.List(ctx, caller)
	if err != nil {
		return nil, err
	}

	ids := expiry.ExpiredIDs(sites, time.Now())
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// recordEvent leaves a cluster event documenting the deletion. Best
// effort: a failure to record is logged and otherwise ignored.
func (o *Orchestrator) recordEvent(ctx context.Context, id string) {
	now := metav1.Now()
	event := &corev1.Event{
		ObjectMeta: metav1.ObjectMeta{
			GenerateName: "wp-kleenex-cleanup-",
			Namespace:    o.namespace,
		},
		InvolvedObject: corev1.ObjectReference{
			APIVersion: wordpressv2.GroupVersion.String(),
			Kind:       "WordpressSite",
			Name:       resource.ObjectName(id),
			Namespace:  o.namespace,
		},
		Reason:         "Expired",
		Message:        "site lifetime elapsed, removed by cleanup",
		Type:           corev1.EventTypeNormal,
		Source:         corev1.EventSource{Component: "wp-kleenexd"},
		FirstTimestamp: now,
		LastTimestamp:  now,
		Count:          1,
	}

	if err := o.client.Create(ctx, event); err != nil {
		log.FromContext(ctx).Error(err, "Unable to record cleanup event", "id", id)
	}
}
