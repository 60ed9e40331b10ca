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
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/epfl-si/wp-kleenexd/internal/auth"
	"github.com/epfl-si/wp-kleenexd/internal/cleanup"
	"github.com/epfl-si/wp-kleenexd/internal/metrics"
	"github.com/epfl-si/wp-kleenexd/internal/repository"
)

// Server exposes the site lifecycle over HTTP.
type Server struct {
	addr          string
	port          int
	repo          *repository.Repository
	orchestrator  *cleanup.Orchestrator
	resolver      *auth.Resolver
	cleanupAPIKey string
	server        *http.Server
}

// NewServer creates the API server. cleanupAPIKey may be empty, in which
// case the cleanup trigger endpoint requires no key.
func NewServer(addr string, port int, repo *repository.Repository, orchestrator *cleanup.Orchestrator, resolver *auth.Resolver, cleanupAPIKey string) *Server {
	return &Server{
		addr:          addr,
		port:          port,
		repo:          repo,
		orchestrator:  orchestrator,
		resolver:      resolver,
		cleanupAPIKey: cleanupAPIKey,
	}
}

// Router builds the request router. Exposed so tests can drive handlers
// without binding a socket.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/sites", s.handleCreateSite).Methods(http.MethodPost)
	r.HandleFunc("/api/sites", s.handleListSites).Methods(http.MethodGet)
	r.HandleFunc("/api/sites/mine", s.handleListMySites).Methods(http.MethodGet)
	r.HandleFunc("/api/sites/{id}", s.handleDeleteSite).Methods(http.MethodDelete)
	r.HandleFunc("/api/cleanup", s.handleCleanup).Methods(http.MethodPost)
	r.HandleFunc("/api/cleanup", s.handlePreviewExpired).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.addr, s.port),
		Handler: s.Router(),
	}

	errChan := make(chan error, 1)
	go func() {
		log.Log.Info("Starting API server", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	log.Log.Info("Shutting down API server")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// caller resolves the bearer token of the request. The zero Caller is
// returned when the header is missing or the token does not verify.
func (s *Server) caller(r *http.Request) auth.Caller {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return auth.Caller{}
	}

	caller, err := s.resolver.ResolveCaller(token)
	if err != nil {
		log.FromContext(r.Context()).V(1).Info("Rejected bearer token", "reason", err.Error())
		return auth.Caller{}
	}
	return caller
}

func (s *Server) writeJSON(w http.ResponseWriter, handler string, code int, body any) {
	metrics.HTTPRequests.WithLabelValues(handler, fmt.Sprintf("%d", code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Log.Error(err, "Unable to write response", "handler", handler)
	}
}

func (s *Server) writeError(w http.ResponseWriter, handler string, code int, message string) {
	s.writeJSON(w, handler, code, errorResponse{Success: false, Message: message})
}
