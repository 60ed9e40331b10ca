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

// Package cleanup removes sites whose lifetime has elapsed.
//
// The Orchestrator performs one pass: list sites through the repository,
// compute the expired subset with the expiry scanner, then delete every
// expired site concurrently. Deletions are isolated from each other: a
// failure is recorded in the report and never aborts the remaining
// deletions. A site that is already gone counts as deleted, since the
// desired end state is reached either way.
//
// The Scheduler wraps the orchestrator in a ticker so passes also happen
// without an operator calling the cleanup endpoint:
//
//	scheduler := cleanup.NewScheduler(orchestrator, 15*time.Minute)
//	if err := scheduler.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// Pass failures are logged and the loop keeps running; only context
// cancellation stops it.
package cleanup
