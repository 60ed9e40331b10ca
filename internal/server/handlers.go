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
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/epfl-si/wp-kleenexd/internal/metrics"
	"github.com/epfl-si/wp-kleenexd/internal/repository"
	"github.com/epfl-si/wp-kleenexd/internal/site"
)

func (s *Server) handleCreateSite(w http.ResponseWriter, r *http.Request) {
	const handler = "create_site"

	caller := s.caller(r)
	if !caller.Authenticated() {
		s.writeError(w, handler, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req site.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, handler, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if fieldErrs := site.Validate(req); fieldErrs != nil {
		s.writeJSON(w, handler, http.StatusBadRequest, validationResponse{
			Success: false,
			Message: "Invalid site parameters",
			Errors:  fieldErrs,
		})
		return
	}

	created, err := s.repo.Create(r.Context(), caller, req)
	if err != nil {
		log.FromContext(r.Context()).Error(err, "Unable to create site")
		s.writeError(w, handler, http.StatusInternalServerError, "Unable to create site")
		return
	}

	metrics.SitesCreated.Inc()
	s.writeJSON(w, handler, http.StatusCreated, createResponse{
		Success: true,
		Message: fmt.Sprintf("Your site is ready at %s", created.URL()),
		URL:     created.URL(),
		SiteID:  created.ID,
	})
}

// handleListSites lists every site in the system. Admin only; members use
// /api/sites/mine.
func (s *Server) handleListSites(w http.ResponseWriter, r *http.Request) {
	const handler = "list_sites"

	caller := s.caller(r)
	if !caller.Authenticated() {
		s.writeError(w, handler, http.StatusUnauthorized, "Authentication required")
		return
	}
	if !caller.IsAdmin() {
		s.writeError(w, handler, http.StatusForbidden, "Only administrators may list all sites")
		return
	}

	sites, err := s.repo.List(r.Context(), caller)
	if err != nil {
		log.FromContext(r.Context()).Error(err, "Unable to list sites")
		s.writeError(w, handler, http.StatusInternalServerError, "Unable to list sites")
		return
	}

	s.writeJSON(w, handler, http.StatusOK, listResponse{Success: true, Sites: views(sites)})
}

func (s *Server) handleListMySites(w http.ResponseWriter, r *http.Request) {
	const handler = "list_my_sites"

	caller := s.caller(r)
	if !caller.Authenticated() {
		s.writeError(w, handler, http.StatusUnauthorized, "Authentication required")
		return
	}

	sites, err := s.repo.ListForOwner(r.Context(), caller, caller.ID)
	if err != nil {
		log.FromContext(r.Context()).Error(err, "Unable to list sites")
		s.writeError(w, handler, http.StatusInternalServerError, "Unable to list sites")
		return
	}

	s.writeJSON(w, handler, http.StatusOK, listResponse{Success: true, Sites: views(sites)})
}

func (s *Server) handleDeleteSite(w http.ResponseWriter, r *http.Request) {
	const handler = "delete_site"

	caller := s.caller(r)
	if !caller.Authenticated() {
		s.writeError(w, handler, http.StatusUnauthorized, "Authentication required")
		return
	}

	id := mux.Vars(r)["id"]
	err := s.repo.Delete(r.Context(), caller, id)
	switch {
	case err == nil:
		metrics.SitesDeleted.WithLabelValues("user").Inc()
		s.writeJSON(w, handler, http.StatusOK, errorResponse{Success: true, Message: "Site deleted"})
	case errors.Is(err, repository.ErrForbidden):
		s.writeError(w, handler, http.StatusForbidden, "You may only delete your own sites")
	case errors.Is(err, repository.ErrNotFound):
		s.writeError(w, handler, http.StatusNotFound, "Site not found")
	default:
		log.FromContext(r.Context()).Error(err, "Unable to delete site", "id", id)
		s.writeError(w, handler, http.StatusInternalServerError, "Unable to delete site")
	}
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	const handler = "cleanup"

	caller := s.caller(r)
	if !caller.Authenticated() || !caller.IsAdmin() {
		s.writeError(w, handler, http.StatusUnauthorized, "Only administrators may trigger cleanup")
		return
	}

	if s.cleanupAPIKey != "" {
		key := r.Header.Get("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(s.cleanupAPIKey)) != 1 {
			s.writeError(w, handler, http.StatusForbidden, "Invalid API key")
			return
		}
	}

	report, err := s.orchestrator.Run(r.Context(), caller)
	if err != nil {
		log.FromContext(r.Context()).Error(err, "Cleanup pass failed")
		s.writeError(w, handler, http.StatusInternalServerError, "Cleanup failed")
		return
	}

	attempted := len(report.Deleted) + len(report.Failed)
	message := "No expired sites found to clean up"
	if attempted > 0 {
		message = fmt.Sprintf("Cleaned up %d of %d expired sites", report.DeletedCount(), attempted)
	}

	s.writeJSON(w, handler, http.StatusOK, cleanupResponse{
		Success:      true,
		Message:      message,
		DeletedCount: report.DeletedCount(),
		Deleted:      report.Deleted,
		Failed:       report.Failed,
	})
}

func (s *Server) handlePreviewExpired(w http.ResponseWriter, r *http.Request) {
	const handler = "preview_expired"

	caller := s.caller(r)
	if !caller.Authenticated() {
		s.writeError(w, handler, http.StatusUnauthorized, "Authentication required")
		return
	}

	ids, err := s.orchestrator.PreviewExpired(r.Context(), caller)
	if err != nil {
		log.FromContext(r.Context()).Error(err, "Unable to list expired sites")
		s.writeError(w, handler, http.StatusInternalServerError, "Unable to list expired sites")
		return
	}

	s.writeJSON(w, handler, http.StatusOK, previewResponse{
		Success:      true,
		ExpiredCount: len(ids),
		ExpiredSites: ids,
	})
}

// handleStats returns site counts. Admins see system-wide counts; members
// see counts over their own sites plus the system total.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	const handler = "stats"

	caller := s.caller(r)
	if !caller.Authenticated() {
		s.writeError(w, handler, http.StatusUnauthorized, "Authentication required")
		return
	}

	all, err := s.repo.List(r.Context(), caller)
	if err != nil {
		log.FromContext(r.Context()).Error(err, "Unable to compute stats")
		s.writeError(w, handler, http.StatusInternalServerError, "Unable to compute stats")
		return
	}

	scoped := all
	if !caller.IsAdmin() {
		scoped = []site.Site{}
		for _, st := range all {
			if st.Owner == caller.ID {
				scoped = append(scoped, st)
			}
		}
	}

	// Active counts every live site; Expiring is the within-window subset
	// of those, so the two overlap rather than partition.
	resp := statsResponse{Success: true, Total: len(scoped)}
	now := time.Now()
	for _, st := range scoped {
		if st.CreatedAt.IsZero() || st.Expired(now) {
			continue
		}
		resp.Active++
		if st.ExpiringSoon(now) {
			resp.Expiring++
		}
	}
	if !caller.IsAdmin() {
		systemTotal := len(all)
		resp.TotalSystemSites = &systemTotal
	}

	s.writeJSON(w, handler, http.StatusOK, resp)
}

func views(sites []site.Site) []siteView {
	now := time.Now()
	out := make([]siteView, 0, len(sites))
	for i := range sites {
		out = append(out, viewOf(&sites[i], now))
	}
	return out
}
