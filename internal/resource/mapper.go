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

// Package resource translates between the domain Site value and its
// WordpressSite custom-resource representation.
//
// Encoding rules:
//   - object name is NamePrefix + site id
//   - the managed-by label marks objects owned by this system and is the
//     sole filter used when listing; anything without it is foreign
//   - owner, type and expiration are annotations keyed by the site
//     hostname, because they are access-control and lifecycle facts
//     rather than provisioning parameters
//   - the WordPress settings are mirrored verbatim into the spec
//   - the creation timestamp is only ever read back from the object's
//     system-assigned metadata, never taken from a client
package resource

import (
	"strconv"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	wordpressv2 "github.com/epfl-si/wp-kleenexd/api/v2"
	"github.com/epfl-si/wp-kleenexd/internal/site"
)

const (
	// NamePrefix prefixes every WordpressSite object created by this system.
	NamePrefix = "wp-kleenex-"

	// ManagedByLabel and ManagedByValue form the management marker.
	ManagedByLabel = "app.kubernetes.io/managed-by"
	ManagedByValue = "wp-kleenexd"
)

// Annotation name suffixes; the full key is "<hostname>/<suffix>".
const (
	ownerAnnotation      = "owner"
	typeAnnotation       = "type"
	expirationAnnotation = "expiration"
)

// Mapper converts sites to and from WordpressSite objects in a fixed
// namespace.
type Mapper struct {
	namespace string
}

// NewMapper returns a mapper producing objects in the given namespace.
func NewMapper(namespace string) *Mapper {
	return &Mapper{namespace: namespace}
}

// ObjectName returns the external object name for a site id.
func ObjectName(id string) string {
	return NamePrefix + id
}

// ManagedSelector returns the label set that selects objects owned by
// this system.
func ManagedSelector() map[string]string {
	return map[string]string{ManagedByLabel: ManagedByValue}
}

func annotationKey(hostname, suffix string) string {
	return hostname + "/" + suffix
}

// ToResource builds the WordpressSite object persisting the given site.
// The object's creation timestamp is left empty; the cluster assigns it.
func (m *Mapper) ToResource(s *site.Site) *wordpressv2.WordpressSite {
	return &wordpressv2.WordpressSite{
		ObjectMeta: metav1.ObjectMeta{
			Name:      ObjectName(s.ID),
			Namespace: m.namespace,
			Labels:    ManagedSelector(),
			Annotations: map[string]string{
				annotationKey(s.Hostname, ownerAnnotation):      string(s.Owner),
				annotationKey(s.Hostname, typeAnnotation):       string(s.Type),
				annotationKey(s.Hostname, expirationAnnotation): strconv.FormatInt(s.ExpirationSeconds, 10),
			},
		},
		Spec: wordpressv2.WordpressSiteSpec{
			Hostname: s.Hostname,
			Path:     s.Path,
			Wordpress: wordpressv2.WordpressSpec{
				Title:     s.Wordpress.Title,
				Tagline:   s.Wordpress.Tagline,
				Theme:     s.Wordpress.Theme,
				Languages: s.Wordpress.Languages,
				Debug:     s.Wordpress.Debug,
				Plugins:   s.Wordpress.Plugins,
			},
		},
	}
}

// FromResource reconstructs a site from a WordpressSite object. The second
// return value is false when the object is not managed by this system (or
// is managed but malformed); such objects must be excluded from listings.
func (m *Mapper) FromResource(obj *wordpressv2.WordpressSite) (*site.Site, bool) {
	if obj.Labels[ManagedByLabel] != ManagedByValue {
		return nil, false
	}

	id := strings.TrimPrefix(obj.Name, NamePrefix)
	if id == obj.Name || id == "" {
		return nil, false
	}

	hostname := obj.Spec.Hostname
	expiration, err := strconv.ParseInt(obj.Annotations[annotationKey(hostname, expirationAnnotation)], 10, 64)
	if err != nil {
		return nil, false
	}

	return &site.Site{
		ID:                id,
		Hostname:          hostname,
		Path:              obj.Spec.Path,
		Owner:             site.OwnerID(obj.Annotations[annotationKey(hostname, ownerAnnotation)]),
		Type:              site.Type(obj.Annotations[annotationKey(hostname, typeAnnotation)]),
		ExpirationSeconds: expiration,
		CreatedAt:         obj.CreationTimestamp.Time,
		Wordpress: site.Wordpress{
			Title:     obj.Spec.Wordpress.Title,
			Tagline:   obj.Spec.Wordpress.Tagline,
			Theme:     obj.Spec.Wordpress.Theme,
			Languages: obj.Spec.Wordpress.Languages,
			Debug:     obj.Spec.Wordpress.Debug,
			Plugins:   obj.Spec.Wordpress.Plugins,
		},
	}, true
}
