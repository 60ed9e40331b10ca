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

// Package repository persists sites as WordpressSite objects in the
// cluster and enforces the ownership rules over them. It holds no state
// of its own: every operation reads or writes the cluster, so there is
// no cache to go stale.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	wordpressv2 "github.com/epfl-si/wp-kleenexd/api/v2"
	"github.com/epfl-si/wp-kleenexd/internal/auth"
	"github.com/epfl-si/wp-kleenexd/internal/resource"
	"github.com/epfl-si/wp-kleenexd/internal/site"
)

// Repository provides the site lifecycle operations over the cluster
// object store. The client is injected at construction time so tests can
// substitute a fake.
type Repository struct {
	client    client.Client
	mapper    *resource.Mapper
	namespace string
	hostname  string
}

// New creates a repository storing sites in the given namespace, served
// under the given hostname.
func New(c client.Client, namespace, hostname string) *Repository {
	return &Repository{
		client:    c,
		mapper:    resource.NewMapper(namespace),
		namespace: namespace,
		hostname:  hostname,
	}
}

// Create persists a new site for an already-validated request and returns
// it with a freshly generated id. The caller must be authenticated; no
// store call is made otherwise.
//
// A timed-out create is reported as a store error even though the write
// may have landed. Retrying mints a new id and therefore a new resource;
// an orphan from the first attempt, if any, is bounded by its own
// expiration window and reaped like any other site.
func (r *Repository) Create(ctx context.Context, caller auth.Caller, req site.CreateRequest) (*site.Site, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthorized
	}

	id := uuid.NewString()
	s := &site.Site{
		ID:                id,
		Hostname:          r.hostname,
		Path:              site.PathForID(id),
		Owner:             caller.ID,
		Type:              site.Type(req.Type),
		ExpirationSeconds: req.Expiration,
		Wordpress: site.Wordpress{
			Title:     req.Title,
			Tagline:   req.Tagline,
			Theme:     req.Theme,
			Languages: req.Languages,
			Debug:     req.Debug,
			Plugins:   []string{},
		},
	}

	if err := r.client.Create(ctx, r.mapper.ToResource(s)); err != nil {
		return nil, storeErr("create", err)
	}

	log.FromContext(ctx).Info("Created site", "id", s.ID, "owner", s.Owner, "expiration", s.ExpirationSeconds)
	return s, nil
}

// List returns every site managed by this system. Objects in the same
// namespace without the management marker are invisible; managed objects
// that fail to map are dropped. A store failure returns a nil slice and
// the error, which is distinct from an empty listing.
func (r *Repository) List(ctx context.Context, caller auth.Caller) ([]site.Site, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthorized
	}

	var objects wordpressv2.WordpressSiteList
	err := r.client.List(ctx, &objects,
		client.InNamespace(r.namespace),
		client.MatchingLabels(resource.ManagedSelector()))
	if err != nil {
		return nil, storeErr("list", err)
	}

	sites := []site.Site{}
	for i := range objects.Items {
		if s, ok := r.mapper.FromResource(&objects.Items[i]); ok {
			sites = append(sites, *s)
		}
	}
	return sites, nil
}

// ListForOwner returns the sites belonging to the given owner.
func (r *Repository) ListForOwner(ctx context.Context, caller auth.Caller, owner site.OwnerID) ([]site.Site, error) {
	all, err := r.List(ctx, caller)
	if err != nil {
		return nil, err
	}

	owned := []site.Site{}
	for _, s := range all {
		if s.Owner == owner {
			owned = append(owned, s)
		}
	}
	return owned, nil
}

// Delete removes the site with the given id. Non-admin callers may only
// delete sites they own; the ownership check runs before any mutation,
// so a Forbidden outcome leaves no side effects.
func (r *Repository) Delete(ctx context.Context, caller auth.Caller, id string) error {
	if !caller.Authenticated() {
		return ErrUnauthorized
	}

	if !caller.IsAdmin() {
		owned, err := r.ListForOwner(ctx, caller, caller.ID)
		if err != nil {
			return err
		}
		if !containsID(owned, id) {
			return ErrForbidden
		}
	}

	return r.deleteObject(ctx, id)
}

// DeleteExpired is the cleanup variant of Delete: admin only, and a site
// that is already gone counts as success. The goal is that the site no
// longer exists, which is satisfied either way.
func (r *Repository) DeleteExpired(ctx context.Context, caller auth.Caller, id string) error {
	if !caller.Authenticated() {
		return ErrUnauthorized
	}
	if !caller.IsAdmin() {
		return ErrForbidden
	}

	if err := r.deleteObject(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

func (r *Repository) deleteObject(ctx context.Context, id string) error {
	obj := &wordpressv2.WordpressSite{}
	obj.Name = resource.ObjectName(id)
	obj.Namespace = r.namespace

	if err := r.client.Delete(ctx, obj); err != nil {
		if apierrors.IsNotFound(err) {
			return ErrNotFound
		}
		return storeErr("delete", err)
	}

	log.FromContext(ctx).Info("Deleted site", "id", id)
	return nil
}

func containsID(sites []site.Site, id string) bool {
	for _, s := range sites {
		if s.ID == id {
			return true
		}
	}
	return false
}
