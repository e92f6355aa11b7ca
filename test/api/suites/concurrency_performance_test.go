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
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/windmill-labs/harness/test/api"
)

var _ = Describe("Concurrency and Performance", func() {
	Context("When several sessions run at once", func() {
		It("should keep each session independent", func() {
			const sessions = 4

			var wg sync.WaitGroup

			results := make([]interface{}, sessions)
			errs := make([]error, sessions)

			for i := range sessions {
				wg.Add(1)

				go func() {
					defer GinkgoRecover()
					defer wg.Done()

					errs[i] = api.WithClient(ctx, config, func(session *api.APIClient) error {
						path := api.GenerateTestPath("concurrent")

						if _, err := session.CreateScript(ctx, path, identityScript, "python3"); err != nil {
							return err
						}

						result, err := session.RunSync(ctx, path, map[string]interface{}{"x": i}, api.RunnableScript)
						if err != nil {
							return err
						}

						results[i] = result

						_, err = session.DeleteScript(ctx, path)

						return err
					})
				}()
			}

			wg.Wait()

			for i := range sessions {
				Expect(errs[i]).NotTo(HaveOccurred(), "session %d", i)
				Expect(results[i]).To(BeEquivalentTo(i), "session %d", i)
			}

			if fake != nil {
				Expect(fake.WorkspaceCreations()).To(Equal(1))
			}
		})
	})
})
