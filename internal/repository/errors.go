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

package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when an operation is attempted without
	// a caller identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when an authenticated caller is not
	// entitled to act on the targeted site.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when the targeted site does not exist.
	ErrNotFound = errors.New("site not found")
)

// StoreError wraps a failure of the cluster object store: unavailability,
// a rejected write such as a name collision, or malformed data. Store
// errors are never retried here; the caller decides.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
