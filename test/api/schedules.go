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
	"fmt"
	"net/http"
)

// ScheduleRequest is the body of a schedule creation.
type ScheduleRequest struct {
	Path       string                 `json:"path"`
	Schedule   string                 `json:"schedule"`
	Timezone   string                 `json:"timezone"`
	ScriptPath string                 `json:"script_path"`
	IsFlow     bool                   `json:"is_flow"`
	Args       map[string]interface{} `json:"args"`
	Enabled    bool                   `json:"enabled"`
}

// CreateSchedule creates an enabled schedule, requests are best built with
// NewSchedulePayload. A request without a timezone uses the configured one.
func (c *APIClient) CreateSchedule(ctx context.Context, request *ScheduleRequest) (string, error) {
	if request == nil {
		return "", fmt.Errorf("%w: request is nil", ErrInvalidSchedule)
	}

	body := *request
	body.Enabled = true

	if body.Timezone == "" {
		body.Timezone = c.config.Timezone
	}

	if body.Timezone == "" {
		body.Timezone = DefaultTimezone
	}

	if body.Args == nil {
		body.Args = map[string]interface{}{}
	}

	respBody, err := c.call(ctx, http.MethodPost, c.endpoints.CreateSchedule(c.workspace), &body)
	if err != nil {
		return "", err
	}

	return string(respBody), nil
}

func (c *APIClient) DeleteSchedule(ctx context.Context, path string) (string, error) {
	respBody, err := c.call(ctx, http.MethodDelete, c.endpoints.DeleteSchedule(c.workspace, path), nil)
	if err != nil {
		return "", err
	}

	return string(respBody), nil
}
