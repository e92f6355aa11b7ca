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

var _ = Describe("Schedule Operations", func() {
	// triggerSchedules stands in for the platform scheduler, a live platform
	// fires on its own.
	triggerSchedules := func() {
		if fake != nil {
			Expect(fake.TriggerSchedules()).To(BeNumerically(">=", 1))
		}
	}

	Context("When scheduling a script", func() {
		It("should record runs of the script", func() {
			script := api.GenerateTestPath("script")
			api.CreateScriptWithCleanup(client, ctx, script, identityScript, "python3")

			api.CreateScheduleWithCleanup(client, ctx, api.NewSchedulePayload(api.GenerateTestPath("schedule"), script).
				WithArgs(map[string]interface{}{"x": 1}).
				Build())

			triggerSchedules()

			jobs := api.WaitForJobs(client, ctx, config, script, 1)
			api.VerifyJobPresence(jobs, script)
		})

		It("should store the schedule enabled with the configured timezone", func() {
			requireFake()

			script := api.GenerateTestPath("script")
			api.CreateScriptWithCleanup(client, ctx, script, identityScript, "python3")

			path := api.GenerateTestPath("schedule")
			api.CreateScheduleWithCleanup(client, ctx, api.NewSchedulePayload(path, script).
				WithTimezone(config.Timezone).
				Build())

			stored, ok := fake.Schedule(client.Workspace(), path)
			Expect(ok).To(BeTrue())
			Expect(stored).To(HaveKeyWithValue("enabled", true))
			Expect(stored).To(HaveKeyWithValue("timezone", config.Timezone))
			Expect(stored).To(HaveKeyWithValue("args", BeEmpty()))
		})
	})

	Context("When scheduling a flow", func() {
		It("should record runs of the flow", func() {
			flow := api.GenerateTestPath("flow")
			api.CreateFlowWithCleanup(client, ctx, flow, api.NewFlowDefinition("scheduled").
				WithRawScriptStep("a", "python3", identityScript, "x").
				String())

			api.CreateScheduleWithCleanup(client, ctx, api.NewSchedulePayload(api.GenerateTestPath("schedule"), flow).
				WithKind(api.RunnableFlow).
				WithArgs(map[string]interface{}{"x": 4}).
				Build())

			triggerSchedules()

			api.VerifyJobPresence(api.WaitForJobs(client, ctx, config, flow, 1), flow)
		})
	})

	Context("When the target does not exist", func() {
		It("should reject the schedule", func() {
			request := api.NewSchedulePayload(api.GenerateTestPath("schedule"), api.GenerateTestPath("missing")).Build()

			_, err := client.CreateSchedule(ctx, request)
			Expect(err).To(MatchError(api.ErrAPI))
		})
	})

	Context("When deleting a schedule", func() {
		It("should stop further runs", func() {
			requireFake()

			script := api.GenerateTestPath("script")
			api.CreateScriptWithCleanup(client, ctx, script, identityScript, "python3")

			path := api.GenerateTestPath("schedule")
			_, err := client.CreateSchedule(ctx, api.NewSchedulePayload(path, script).Build())
			Expect(err).NotTo(HaveOccurred())

			_, err = client.DeleteSchedule(ctx, path)
			Expect(err).NotTo(HaveOccurred())

			Expect(fake.TriggerSchedules()).To(BeZero())

			jobs, err := client.ListRecentJobs(ctx, script)
			Expect(err).NotTo(HaveOccurred())
			Expect(jobs).To(BeEmpty())
		})
	})
})
