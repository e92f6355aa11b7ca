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

//nolint:testpackage,revive // test package in suites is standard for these tests
package suites

import (
	"context"
	"errors"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/windmill-labs/harness/test/api"
)

var _ = Describe("Error Handling and Edge Cases", func() {
	Context("When running a runnable that does not exist", func() {
		It("should return the platform's message verbatim", func() {
			path := api.GenerateTestPath("missing")

			_, err := client.RunSync(ctx, path, nil, api.RunnableScript)
			Expect(err).To(MatchError(api.ErrAPI))

			var responseErr *api.ResponseError
			Expect(errors.As(err, &responseErr)).To(BeTrue())
			Expect(responseErr.StatusCode).To(Equal(http.StatusNotFound))
			Expect(err.Error()).To(Equal(responseErr.Body))

			if fake != nil {
				Expect(err.Error()).To(Equal("Not found: script not found at name " + path))
			}
		})

		It("should use the flow endpoint for flows", func() {
			requireFake()

			path := api.GenerateTestPath("missing")

			_, err := client.RunSync(ctx, path, nil, api.RunnableFlow)
			Expect(err).To(MatchError("Not found: flow not found at path " + path))
		})
	})

	Context("When paths need escaping", func() {
		It("should round trip a path containing a space", func() {
			requireFake()

			path := api.GenerateTestPath("with space")
			api.CreateScriptWithCleanup(client, ctx, path, identityScript, "python3")

			result, err := client.RunSync(ctx, path, map[string]interface{}{"x": 1}, api.RunnableScript)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeEquivalentTo(1))
		})
	})

	Context("When the context is cancelled", func() {
		It("should fail with a transport error", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := client.ListRecentJobs(cancelled, api.GenerateTestPath("script"))
			Expect(err).To(MatchError(api.ErrTransport))
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Context("When the platform is unreachable", func() {
		It("should fail construction with a transport error", func() {
			unreachable := *config
			unreachable.BaseURL = "http://127.0.0.1:1"
			unreachable.RequestTimeout = 2 * time.Second

			_, err := api.New(ctx, &unreachable)
			Expect(err).To(MatchError(api.ErrTransport))
			Expect(err).To(MatchError(api.ErrAuthentication))
		})
	})

	Context("When the configuration names an invalid workspace", func() {
		It("should fail before contacting the platform", func() {
			invalid := *config
			invalid.Workspace = "Invalid Workspace"

			_, err := api.New(ctx, &invalid)
			Expect(err).To(MatchError(api.ErrInvalidWorkspaceID))
		})
	})
})
