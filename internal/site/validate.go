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

package site

import (
	"fmt"
	"regexp"
	"strings"
)

// CreateRequest is the raw payload of a site creation request, before
// validation. Debug defaults to false when omitted.
type CreateRequest struct {
	Title      string   `json:"title"`
	Tagline    string   `json:"tagline"`
	Theme      string   `json:"theme"`
	Languages  []string `json:"languages"`
	Type       string   `json:"type"`
	Expiration int64    `json:"expiration"`
	Debug      bool     `json:"debug"`
}

// FieldErrors maps a request field to the validation messages it violated.
type FieldErrors map[string][]string

func (e FieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

var (
	validThemes = map[string]bool{
		"wp-theme-2018":  true,
		"wp-theme-light": true,
		"epfl-master":    true,
		"epfl-blank":     true,
	}

	validTypes = map[Type]bool{
		TypeBasic:     true,
		TypeBlank:     true,
		TypeFormation: true,
		TypeCopy:      true,
	}

	validExpirations = map[int64]bool{
		Expiration3h:  true,
		Expiration6h:  true,
		Expiration12h: true,
	}

	languagePattern = regexp.MustCompile(`^[a-z]{2}$`)
)

// Validate checks a creation request against the domain rules and returns
// every violated field, or nil when the request is acceptable. It is pure:
// no defaulting is applied to the request and nothing external is consulted.
func Validate(req CreateRequest) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(req.Title) == "" {
		errs.add("title", "title must not be empty")
	}
	if strings.TrimSpace(req.Tagline) == "" {
		errs.add("tagline", "tagline must not be empty")
	}
	if !validThemes[req.Theme] {
		errs.add("theme", fmt.Sprintf("unknown theme %q", req.Theme))
	}
	if !validTypes[Type(req.Type)] {
		errs.add("type", fmt.Sprintf("unknown site type %q", req.Type))
	}
	if len(req.Languages) == 0 {
		errs.add("languages", "at least one language is required")
	}
	for _, lang := range req.Languages {
		if !languagePattern.MatchString(lang) {
			errs.add("languages", fmt.Sprintf("invalid language code %q", lang))
		}
	}
	if !validExpirations[req.Expiration] {
		errs.add("expiration", fmt.Sprintf("expiration must be one of %d, %d or %d seconds", Expiration3h, Expiration6h, Expiration12h))
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
