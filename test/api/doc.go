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

// Package api provides an integration test client for the Windmill API.
//
// # Session Lifecycle
//
// An APIClient owns one authenticated session and one workspace. New logs in
// with the configured administrative identity, then makes sure the test
// workspace exists, creating it only when the platform reports it missing.
// Close logs out and releases the transport. Use it inside a scope that
// guarantees Close runs:
//
//   - NewClientWithCleanup registers Close with Ginkgo's DeferCleanup.
//   - WithClient closes the client when the supplied function returns.
//
// # Errors
//
// Every operation issues exactly one request. Any non-2xx response is
// returned as a *ResponseError whose message is the platform's raw response
// body. Use errors.Is with ErrAuthentication, ErrProvisioning, ErrAPI and
// ErrTransport to tell a rejected request from an unreachable platform.
// Nothing is retried.
//
// # Job Execution
//
// RunSync uses the run-and-wait endpoint, so it blocks for the whole job. The
// request timeout in TestConfig, or a context deadline, is the only bound.
package api
