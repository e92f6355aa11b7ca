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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// parseFlowDefinition decodes a flow definition keeping numbers exact, and
// sets its path unless the definition already names one.
func parseFlowDefinition(path, definition string) (map[string]interface{}, error) {
	decoder := json.NewDecoder(bytes.NewBufferString(definition))
	decoder.UseNumber()

	var flow map[string]interface{}
	if err := decoder.Decode(&flow); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFlow, err)
	}

	if flow == nil {
		return nil, fmt.Errorf("%w: must be a JSON object", ErrInvalidFlow)
	}

	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after the definition", ErrInvalidFlow)
	}

	if _, ok := flow["path"]; !ok {
		flow["path"] = path
	}

	return flow, nil
}

// CreateFlow creates a flow from its JSON definition. A path already present
// in the definition wins over the path argument.
func (c *APIClient) CreateFlow(ctx context.Context, path, definition string) (string, error) {
	flow, err := parseFlowDefinition(path, definition)
	if err != nil {
		return "", err
	}

	respBody, err := c.call(ctx, http.MethodPost, c.endpoints.CreateFlow(c.workspace), flow)
	if err != nil {
		return "", err
	}

	return string(respBody), nil
}

func (c *APIClient) DeleteFlow(ctx context.Context, path string) (string, error) {
	respBody, err := c.call(ctx, http.MethodDelete, c.endpoints.DeleteFlow(c.workspace, path), nil)
	if err != nil {
		return "", err
	}

	return string(respBody), nil
}
