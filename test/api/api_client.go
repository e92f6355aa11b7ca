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

//go:generate go tool mockgen -destination=mock/roundtripper.go -package=mock net/http RoundTripper

package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/onsi/ginkgo/v2"

	"github.com/windmill-labs/harness/pkg/constants"
)

// APIClient is a session scoped client for the platform API. It holds a
// bearer token and a provisioned workspace for its whole lifetime and must
// be released with Close.
//
// An APIClient is not safe for concurrent use, callers that share one
// between goroutines must serialize access themselves.
type APIClient struct {
	baseURL   string
	client    *http.Client
	authToken string
	workspace string
	config    *TestConfig
	endpoints *Endpoints
	logger    logr.Logger
	closed    bool
}

// New logs in, provisions the configured workspace and returns a ready
// client. On error no session is left behind.
func New(ctx context.Context, config *TestConfig) (*APIClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := newAPIClientWithConfig(config)

	token, err := c.login(ctx)
	if err != nil {
		c.client.CloseIdleConnections()
		return nil, err
	}

	c.authToken = token

	if err := c.ensureWorkspace(ctx); err != nil {
		if logoutErr := c.logout(ctx); logoutErr != nil {
			c.logger.Error(logoutErr, "logout after failed provisioning")
		}

		c.client.CloseIdleConnections()

		return nil, err
	}

	return c, nil
}

// common constructor logic.
func newAPIClientWithConfig(config *TestConfig) *APIClient {
	logger := ginkgo.GinkgoLogr
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &APIClient{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		client: &http.Client{
			Timeout:   config.RequestTimeout,
			Transport: config.Transport,
		},
		workspace: config.Workspace,
		config:    config,
		endpoints: NewEndpoints(),
		logger:    logger.WithName("api").WithValues("workspace", config.Workspace),
	}
}

// Workspace returns the workspace all resource operations target.
func (c *APIClient) Workspace() string {
	return c.workspace
}

// Close logs out and releases the transport. The transport is released even
// when logout fails, in which case the logout error is returned. Callers
// tearing down after a failure should not let this error mask the first one.
func (c *APIClient) Close(ctx context.Context) error {
	if c.closed {
		return nil
	}

	defer func() {
		c.closed = true
		c.client.CloseIdleConnections()
	}()

	return c.logout(ctx)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login exchanges credentials for a bearer token, the token is the raw body.
func (c *APIClient) login(ctx context.Context) (string, error) {
	path := c.endpoints.Login()

	request := &loginRequest{
		Email:    c.config.Email,
		Password: c.config.Password,
	}

	//nolint:bodyclose // response body is closed in doRequest
	resp, respBody, err := c.doRequest(ctx, http.MethodPost, path, request, false)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	if !isSuccess(resp.StatusCode) {
		return "", c.rejected(ErrAuthentication, http.MethodPost, path, resp.StatusCode, respBody)
	}

	return string(respBody), nil
}

func (c *APIClient) logout(ctx context.Context) error {
	_, err := c.call(ctx, http.MethodPost, c.endpoints.Logout(), nil)

	return err
}

type workspaceExistsRequest struct {
	ID string `json:"id"`
}

type workspaceCreateRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// ensureWorkspace creates the workspace unless the platform says it exists.
// The exists endpoint answers with the text "true" or "false".
func (c *APIClient) ensureWorkspace(ctx context.Context) error {
	//nolint:bodyclose // response body is closed in doRequest
	resp, respBody, err := c.doRequest(ctx, http.MethodPost, c.endpoints.WorkspaceExists(), &workspaceExistsRequest{ID: c.workspace}, true)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProvisioning, err)
	}

	if isSuccess(resp.StatusCode) && string(respBody) == "true" {
		c.logger.Info("workspace already exists, not creating it")
		return nil
	}

	path := c.endpoints.CreateWorkspace()

	request := &workspaceCreateRequest{
		ID:       c.workspace,
		Name:     c.config.WorkspaceName,
		Username: c.config.Username,
	}

	//nolint:bodyclose // response body is closed in doRequest
	resp, respBody, err = c.doRequest(ctx, http.MethodPost, path, request, true)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProvisioning, err)
	}

	if !isSuccess(resp.StatusCode) {
		return c.rejected(ErrProvisioning, http.MethodPost, path, resp.StatusCode, respBody)
	}

	c.logger.Info("workspace created", "name", request.Name, "owner", request.Username)

	return nil
}

// logError logs a generic error with trace context.
func (c *APIClient) logError(method, path string, duration time.Duration, traceParent string, err error, context string) {
	c.logger.Error(err, context, "method", method, "path", path, "duration", duration, "traceID", extractTraceID(traceParent))
}

// logUnexpectedStatus logs a non-2xx response.
func (c *APIClient) logUnexpectedStatus(method, path string, statusCode int, body string) {
	c.logger.Info("unexpected status", "method", method, "path", path, "status", statusCode, "body", body)
}

// generateTraceID creates a new W3C trace ID.
// we are using this to create a new trace ID for each request so if an error occurs we can find the request in the logs.
func generateTraceID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	traceID := generateTraceID()
	spanID := generateSpanID()

	return fmt.Sprintf("00-%s-%s-01", traceID, spanID)
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

// doRequest performs a single round trip. Only transport level failures are
// returned as errors, status codes are left to the caller to interpret.
//
//nolint:cyclop // test code complexity is acceptable
func (c *APIClient) doRequest(ctx context.Context, method, path string, body interface{}, authenticated bool) (*http.Response, []byte, error) {
	fullURL := c.baseURL + path

	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("marshaling request body: %w", err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}

	// Add W3C Trace Context headers
	traceParent := createTraceParent()
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=harness")
	req.Header.Set("User-Agent", constants.VersionString())

	if body != nil || authenticated {
		req.Header.Set("Content-Type", "application/json")
	}

	if authenticated {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logError(method, path, duration, traceParent, err, "http request failed")
		return nil, nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logError(method, path, duration, traceParent, err, "reading response body")
		return resp, nil, fmt.Errorf("%w: reading response body: %w", ErrTransport, err)
	}

	if c.config.LogRequests {
		c.logger.Info("request", "method", method, "path", path, "status", resp.StatusCode, "duration", duration, "traceparent", traceParent)
	}

	// The login response is the bearer token.
	if c.config.LogResponses && len(respBody) > 0 && path != c.endpoints.Login() {
		c.logger.Info("response", "method", method, "path", path, "body", string(respBody))
	}

	return resp, respBody, nil
}

// call issues an authenticated request and turns any non-2xx status into
// a ResponseError carrying the raw body.
func (c *APIClient) call(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	if c.closed {
		return nil, ErrClosed
	}

	//nolint:bodyclose // response body is closed in doRequest
	resp, respBody, err := c.doRequest(ctx, method, path, body, true)
	if err != nil {
		return nil, err
	}

	if !isSuccess(resp.StatusCode) {
		return nil, c.rejected(ErrAPI, method, path, resp.StatusCode, respBody)
	}

	return respBody, nil
}

func (c *APIClient) rejected(kind error, method, path string, statusCode int, body []byte) error {
	c.logUnexpectedStatus(method, path, statusCode, string(body))

	return newResponseError(kind, method, path, statusCode, body)
}
