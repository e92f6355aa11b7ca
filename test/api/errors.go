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
	"errors"
	"net/http"
)

var (
	// ErrAuthentication is raised when login fails or the platform rejects
	// the session on an authenticated call.
	ErrAuthentication = errors.New("authentication failed")

	// ErrProvisioning is raised when the test workspace cannot be created.
	ErrProvisioning = errors.New("workspace provisioning failed")

	// ErrAPI is raised for any other non-2xx response.
	ErrAPI = errors.New("api request failed")

	// ErrTransport is raised when the platform could not be reached at all.
	ErrTransport = errors.New("transport failure")

	// ErrClosed is raised when a client is used after Close.
	ErrClosed = errors.New("client is closed")

	// ErrInvalidFlow is raised when a flow definition is not a JSON object.
	ErrInvalidFlow = errors.New("invalid flow definition")

	// ErrInvalidSchedule is raised for a schedule request that cannot be sent.
	ErrInvalidSchedule = errors.New("invalid schedule request")

	// ErrInvalidKind is raised for a runnable kind other than script or flow.
	ErrInvalidKind = errors.New("invalid runnable kind")
)

// ResponseError is an HTTP level rejection by the platform.
// The message is the raw response body so test failures show the
// platform's own diagnostics.
type ResponseError struct {
	// Kind is one of ErrAuthentication, ErrProvisioning or ErrAPI.
	Kind       error
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return e.Body
}

func (e *ResponseError) Unwrap() error {
	return e.Kind
}

// newResponseError classifies a non-2xx response. A 401 on a resource
// operation means the session is gone rather than the request being bad.
func newResponseError(kind error, method, path string, statusCode int, body []byte) *ResponseError {
	if kind == ErrAPI && statusCode == http.StatusUnauthorized {
		kind = ErrAuthentication
	}

	return &ResponseError{
		Kind:       kind,
		Method:     method,
		Path:       path,
		StatusCode: statusCode,
		Body:       string(body),
	}
}

// isSuccess mirrors the platform's notion of success, any 2xx.
func isSuccess(statusCode int) bool {
	return statusCode/100 == 2
}
