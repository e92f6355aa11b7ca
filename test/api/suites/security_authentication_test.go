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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/windmill-labs/harness/test/api"
)

var _ = Describe("Security and Authentication", func() {
	Context("When logging in", func() {
		Describe("Given invalid credentials", func() {
			It("should fail with an authentication error carrying the platform's message", func() {
				bad := *config
				bad.Password = "not-the-" + config.Password

				other, err := api.New(ctx, &bad)
				Expect(other).To(BeNil())
				Expect(err).To(MatchError(api.ErrAuthentication))
				Expect(err.Error()).NotTo(BeEmpty())

				if fake != nil {
					Expect(err.Error()).To(Equal("Invalid login"))
				}

				GinkgoWriter.Printf("Expected login rejection: %v\n", err)
			})
		})

		Describe("Given an unknown identity", func() {
			It("should fail with an authentication error", func() {
				bad := *config
				bad.Email = api.GenerateTestID() + "@example.com"

				_, err := api.New(ctx, &bad)
				Expect(err).To(MatchError(api.ErrAuthentication))
			})
		})
	})

	Context("When the session is no longer valid", func() {
		It("should surface an authentication error on the next operation", func() {
			requireFake()

			fake.ExpireSessions()

			_, err := client.CreateScript(ctx, api.GenerateTestPath("script"), identityScript, "python3")
			Expect(err).To(MatchError(api.ErrAuthentication))
			Expect(err.Error()).To(Equal("Unauthorized: invalid or expired token"))
		})

		It("should not retry or log in again", func() {
			requireFake()

			fake.ExpireSessions()

			_, err := client.ListRecentJobs(ctx, api.GenerateTestPath("script"))
			Expect(err).To(MatchError(api.ErrAuthentication))
			Expect(fake.ActiveSessions()).To(BeZero())
		})
	})

	Context("When querying the version", func() {
		It("should not need a session", func() {
			other, err := api.New(ctx, config)
			Expect(err).NotTo(HaveOccurred())
			Expect(other.Close(ctx)).To(Succeed())

			version, err := other.GetVersion(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(version).NotTo(BeEmpty())

			GinkgoWriter.Printf("Platform version: %s\n", version)
		})
	})
})
