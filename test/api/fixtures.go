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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// NewClientWithCleanup logs in and provisions the workspace, and schedules the
// logout for when the enclosing node's cleanup runs. A failed logout is
// reported but never fails the test, so it cannot hide the real failure.
func NewClientWithCleanup(ctx context.Context, config *TestConfig) *APIClient {
	client, err := New(ctx, config)
	Expect(err).NotTo(HaveOccurred(), "constructing client for %s", config.BaseURL)

	DeferCleanup(func() {
		if closeErr := client.Close(ctx); closeErr != nil {
			GinkgoWriter.Printf("Warning: Failed to log out of %s: %v\n", config.BaseURL, closeErr)
		}
	})

	return client
}

// CreateScriptWithCleanup creates a script and schedules its deletion.
func CreateScriptWithCleanup(client *APIClient, ctx context.Context, path, content, language string) string {
	hash, err := client.CreateScript(ctx, path, content, language)
	Expect(err).NotTo(HaveOccurred(), "creating script %s", path)

	GinkgoWriter.Printf("Created script %s (%s)\n", path, hash)

	// Schedule cleanup - this runs whether the test passes or fails so we don't need to clean up manually
	DeferCleanup(func() {
		if _, deleteErr := client.DeleteScript(ctx, path); deleteErr != nil {
			GinkgoWriter.Printf("Warning: Failed to delete script %s: %v\n", path, deleteErr)
		}
	})

	return hash
}

// CreateFlowWithCleanup creates a flow and schedules its deletion.
func CreateFlowWithCleanup(client *APIClient, ctx context.Context, path, definition string) string {
	result, err := client.CreateFlow(ctx, path, definition)
	Expect(err).NotTo(HaveOccurred(), "creating flow %s", path)

	GinkgoWriter.Printf("Created flow %s\n", path)

	DeferCleanup(func() {
		if _, deleteErr := client.DeleteFlow(ctx, path); deleteErr != nil {
			GinkgoWriter.Printf("Warning: Failed to delete flow %s: %v\n", path, deleteErr)
		}
	})

	return result
}

// CreateScheduleWithCleanup creates a schedule and schedules its deletion.
// Schedules are deleted before the runnables they target as cleanups run
// in reverse order.
func CreateScheduleWithCleanup(client *APIClient, ctx context.Context, request *ScheduleRequest) string {
	result, err := client.CreateSchedule(ctx, request)
	Expect(err).NotTo(HaveOccurred(), "creating schedule %s", request.Path)

	GinkgoWriter.Printf("Created schedule %s for %s\n", request.Path, request.ScriptPath)

	DeferCleanup(func() {
		if _, deleteErr := client.DeleteSchedule(ctx, request.Path); deleteErr != nil {
			GinkgoWriter.Printf("Warning: Failed to delete schedule %s: %v\n", request.Path, deleteErr)
		}
	})

	return result
}

// WaitForJobs polls the job list for a script until at least count jobs
// have been recorded, for runs the harness did not start itself such as
// scheduled ones.
func WaitForJobs(client *APIClient, ctx context.Context, config *TestConfig, path string, count int) []map[string]interface{} {
	var jobs []map[string]interface{}

	Eventually(func() (int, error) {
		var err error

		jobs, err = client.ListRecentJobs(ctx, path)

		return len(jobs), err
	}).WithTimeout(config.TestTimeout).WithPolling(time.Second).Should(BeNumerically(">=", count))

	return jobs
}

// VerifyJobPresence verifies every job in the list ran the given script.
func VerifyJobPresence(jobs []map[string]interface{}, path string) {
	Expect(jobs).NotTo(BeEmpty())

	for _, job := range jobs {
		Expect(job).To(HaveKeyWithValue("script_path", path))
	}
}
