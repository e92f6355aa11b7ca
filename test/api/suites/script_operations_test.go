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

var _ = Describe("Script Operations", func() {
	Context("When creating a script", func() {
		It("should return the new script's hash", func() {
			path := api.GenerateTestPath("script")

			hash := api.CreateScriptWithCleanup(client, ctx, path, identityScript, "python3")
			Expect(hash).NotTo(BeEmpty())
		})

		It("should reject a second script at the same path", func() {
			path := api.GenerateTestPath("script")
			api.CreateScriptWithCleanup(client, ctx, path, identityScript, "python3")

			_, err := client.CreateScript(ctx, path, identityScript, "python3")
			Expect(err).To(MatchError(api.ErrAPI))
			GinkgoWriter.Printf("Expected conflict: %v\n", err)
		})

		It("should accept other languages", func() {
			path := api.GenerateTestPath("deno")

			api.CreateScriptWithCleanup(client, ctx, path, "export function main(x: number) {\n  return x;\n}", "deno")

			result, err := client.RunSync(ctx, path, map[string]interface{}{"x": 3}, api.RunnableScript)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeEquivalentTo(3))
		})
	})

	Context("When deleting a script", func() {
		It("should succeed once and then report the script missing", func() {
			path := api.GenerateTestPath("script")

			_, err := client.CreateScript(ctx, path, identityScript, "python3")
			Expect(err).NotTo(HaveOccurred())

			_, err = client.DeleteScript(ctx, path)
			Expect(err).NotTo(HaveOccurred())

			_, err = client.DeleteScript(ctx, path)
			Expect(err).To(MatchError(api.ErrAPI))
			Expect(err.Error()).To(ContainSubstring(path))

			if fake != nil {
				Expect(err.Error()).To(Equal("Not found: script not found at path " + path))
			}
		})
	})
})
