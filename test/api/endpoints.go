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
	"net/url"
	"strings"
)

// Endpoints contains all API endpoint patterns.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

// escapePath escapes each segment of a slash separated resource path,
// leaving the separators intact as the platform routes on them.
func escapePath(path string) string {
	segments := strings.Split(path, "/")

	for i := range segments {
		segments[i] = url.PathEscape(segments[i])
	}

	return strings.Join(segments, "/")
}

// Session endpoints.
func (e *Endpoints) Login() string {
	return "/api/auth/login"
}

func (e *Endpoints) Logout() string {
	return "/api/auth/logout"
}

// Workspace endpoints.
func (e *Endpoints) WorkspaceExists() string {
	return "/api/workspaces/exists"
}

func (e *Endpoints) CreateWorkspace() string {
	return "/api/workspaces/create"
}

// Job endpoints.
func (e *Endpoints) RunWaitResult(workspace string, kind RunnableKind, path string) string {
	return fmt.Sprintf("/api/w/%s/jobs/run_wait_result/%s/%s",
		url.PathEscape(workspace), kind.pathSegment(), escapePath(path))
}

func (e *Endpoints) ListJobs(workspace, scriptPath string) string {
	query := url.Values{}
	query.Set("script_path_exact", scriptPath)

	return fmt.Sprintf("/api/w/%s/jobs/list?%s",
		url.PathEscape(workspace), query.Encode())
}

// Script endpoints.
func (e *Endpoints) CreateScript(workspace string) string {
	return fmt.Sprintf("/api/w/%s/scripts/create", url.PathEscape(workspace))
}

func (e *Endpoints) DeleteScript(workspace, path string) string {
	return fmt.Sprintf("/api/w/%s/scripts/delete/p/%s",
		url.PathEscape(workspace), escapePath(path))
}

// Flow endpoints.
func (e *Endpoints) CreateFlow(workspace string) string {
	return fmt.Sprintf("/api/w/%s/flows/create", url.PathEscape(workspace))
}

func (e *Endpoints) DeleteFlow(workspace, path string) string {
	return fmt.Sprintf("/api/w/%s/flows/delete/%s",
		url.PathEscape(workspace), escapePath(path))
}

// Schedule endpoints.
func (e *Endpoints) CreateSchedule(workspace string) string {
	return fmt.Sprintf("/api/w/%s/schedules/create", url.PathEscape(workspace))
}

func (e *Endpoints) DeleteSchedule(workspace, path string) string {
	return fmt.Sprintf("/api/w/%s/schedules/delete/%s",
		url.PathEscape(workspace), escapePath(path))
}

// Metadata endpoints.
func (e *Endpoints) Version() string {
	return "/api/version"
}
