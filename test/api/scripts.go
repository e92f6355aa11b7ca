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
	"net/http"
)

type scriptCreateRequest struct {
	Path        string `json:"path"`
	Content     string `json:"content"`
	Description string `json:"description"`
	Summary     string `json:"summary"`
	Language    string `json:"language"`
}

// CreateScript creates a script at path, returning the platform's raw
// acknowledgement, usually the new script hash.
func (c *APIClient) CreateScript(ctx context.Context, path, content, language string) (string, error) {
	request := &scriptCreateRequest{
		Path:     path,
		Content:  content,
		Language: language,
	}

	respBody, err := c.call(ctx, http.MethodPost, c.endpoints.CreateScript(c.workspace), request)
	if err != nil {
		return "", err
	}

	return string(respBody), nil
}

func (c *APIClient) DeleteScript(ctx context.Context, path string) (string, error) {
	respBody, err := c.call(ctx, http.MethodPost, c.endpoints.DeleteScript(c.workspace, path), nil)
	if err != nil {
		return "", err
	}

	return string(respBody), nil
}
