/*
Copyright 2026 the Windmill Harness Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"fmt"
)

// RunnableKind selects whether a path names a script or a flow. RunSync
// rejects any other value with ErrInvalidKind before a request is made.
type RunnableKind string

const (
	RunnableScript RunnableKind = "script"
	RunnableFlow   RunnableKind = "flow"
)

// Validate checks the kind is one of the known values.
func (k RunnableKind) Validate() error {
	switch k {
	case RunnableScript, RunnableFlow:
		return nil
	}

	return fmt.Errorf("%w: %q", ErrInvalidKind, string(k))
}

// pathSegment is the single letter the job endpoints use for the kind.
// Kinds are validated before they get here.
func (k RunnableKind) pathSegment() string {
	if k == RunnableFlow {
		return "f"
	}

	return "p"
}

// IsFlow reports whether the kind targets a flow.
func (k RunnableKind) IsFlow() bool {
	return k == RunnableFlow
}
