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
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// RunSync runs a script or flow and waits for its result. The platform holds
// the connection open until the job finishes, so this blocks for the job's
// whole execution and is bounded only by ctx and the request timeout.
func (c *APIClient) RunSync(ctx context.Context, path string, args map[string]interface{}, kind RunnableKind) (interface{}, error) {
	var result interface{}

	if err := c.RunSyncInto(ctx, path, args, kind, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// RunSyncInto is RunSync decoding the job result into out.
func (c *APIClient) RunSyncInto(ctx context.Context, path string, args map[string]interface{}, kind RunnableKind, out interface{}) error {
	if err := kind.Validate(); err != nil {
		return err
	}

	if args == nil {
		args = map[string]interface{}{}
	}

	respBody, err := c.call(ctx, http.MethodPost, c.endpoints.RunWaitResult(c.workspace, kind, path), args)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshaling job result for %s: %w", path, err)
	}

	return nil
}

// ListRecentJobs lists the jobs run for exactly the given script path.
func (c *APIClient) ListRecentJobs(ctx context.Context, path string) ([]map[string]interface{}, error) {
	respBody, err := c.call(ctx, http.MethodGet, c.endpoints.ListJobs(c.workspace, path), nil)
	if err != nil {
		return nil, err
	}

	var jobs []map[string]interface{}
	if err := json.Unmarshal(respBody, &jobs); err != nil {
		return nil, fmt.Errorf("unmarshaling jobs response: %w", err)
	}

	return jobs, nil
}

// GetVersion returns the platform version. The body is returned whatever the
// status code, only a transport failure is an error.
func (c *APIClient) GetVersion(ctx context.Context) (string, error) {
	//nolint:bodyclose // response body is closed in doRequest
	_, respBody, err := c.doRequest(ctx, http.MethodGet, c.endpoints.Version(), nil, false)
	if err != nil {
		return "", err
	}

	return string(respBody), nil
}
