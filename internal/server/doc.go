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

// Package server exposes the site lifecycle as a JSON HTTP API.
//
// Every request is authenticated once at the boundary: the bearer token
// is resolved to a caller which is then passed down to the repository
// and cleanup layers, where the actual authorization decisions live.
// The handlers translate the error taxonomy of those layers to HTTP
// status codes and never make access decisions of their own beyond
// routing admins and members to different views.
package server
