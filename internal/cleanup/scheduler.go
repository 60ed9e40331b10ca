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
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/epfl-si/wp-kleenexd/internal/auth"
)

// Scheduler triggers cleanup passes at a fixed interval, so expired sites
// are reaped even when nobody calls the cleanup endpoint.
type Scheduler struct {
	orchestrator *Orchestrator
	interval     time.Duration
}

// NewScheduler creates a scheduler running one cleanup pass every
// interval (e.g. 15*time.Minute).
func NewScheduler(orchestrator *Orchestrator, interval time.Duration) *Scheduler {
	return &Scheduler{
		orchestrator: orchestrator,
		interval:     interval,
	}
}

// Start runs the scheduler until the context is canceled and then
// returns nil. A failed pass is logged and the loop keeps ticking;
// transient store trouble must not stop the reaper.
func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger := log.FromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			report, err := s.orchestrator.Run(ctx, auth.System())
			if err != nil {
				logger.Error(err, "cleanup pass failed")
				continue
			}
			if report.DeletedCount() > 0 || len(report.Failed) > 0 {
				logger.Info("Scheduled cleanup pass",
					"deleted", report.DeletedCount(),
					"failed", len(report.Failed))
			}
		}
	}
}
