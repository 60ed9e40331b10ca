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

package v2

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// WordpressSpec describes the WordPress installation requested for a site.
type WordpressSpec struct {
	// Title is the blog title shown by the provisioned site
	Title string `json:"title"`

	// Tagline is the blog tagline
	Tagline string `json:"tagline"`

	// Theme is the name of the theme to activate
	Theme string `json:"theme"`

	// Languages lists the Polylang language codes enabled on the site
	Languages []string `json:"languages"`

	// Debug enables WP_DEBUG on the provisioned site
	// +optional
	Debug bool `json:"debug,omitempty"`

	// Plugins lists extra plugins to activate
	// +optional
	Plugins []string `json:"plugins,omitempty"`
}

// WordpressSiteSpec defines the desired state of WordpressSite
type WordpressSiteSpec struct {
	// Hostname is the shared vhost under which the site is served
	Hostname string `json:"hostname"`

	// Path is the URL path of the site below Hostname
	// +optional
	Path string `json:"path,omitempty"`

	// Wordpress carries the WordPress provisioning parameters
	// +optional
	Wordpress WordpressSpec `json:"wordpress,omitempty"`
}

// WordpressSiteStatus defines the observed state of WordpressSite.
// It is written by the WordPress operator, never by this project.
type WordpressSiteStatus struct {
	// Phase reported by the operator (e.g. Provisioning, Ready, Failed)
	// +optional
	Phase string `json:"phase,omitempty"`

	// URL is the public URL of the provisioned site
	// +optional
	URL string `json:"url,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Hostname",type="string",JSONPath=".spec.hostname"
// +kubebuilder:printcolumn:name="Path",type="string",JSONPath=".spec.path"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// WordpressSite is the Schema for the wordpresssites API
type WordpressSite struct {
	metav1.TypeMeta `json:",inline"`

	// +optional
	metav1.ObjectMeta `json:"metadata,omitempty"`

	// +required
	Spec WordpressSiteSpec `json:"spec"`

	// +optional
	Status WordpressSiteStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// WordpressSiteList contains a list of WordpressSite
type WordpressSiteList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []WordpressSite `json:"items"`
}

func init() {
	SchemeBuilder.Register(&WordpressSite{}, &WordpressSiteList{})
}
