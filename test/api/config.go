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
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL   = "http://localhost:8000"
	DefaultEmail     = "admin@windmill.dev"
	DefaultPassword  = "changeme"
	DefaultUsername  = "admin"
	DefaultWorkspace = "integration-tests"
	DefaultTimezone  = "Europe/Paris"
)

type TestConfig struct {
	BaseURL         string
	Email           string
	Password        string
	Username        string
	Workspace       string
	WorkspaceName   string
	Timezone        string
	RequestTimeout  time.Duration
	TestTimeout     time.Duration
	SkipIntegration bool
	LogRequests     bool
	LogResponses    bool

	// Transport replaces the default HTTP transport when set.
	Transport http.RoundTripper

	// Logger receives request and lifecycle logs, when unset
	// requests are logged to the Ginkgo writer.
	Logger *logr.Logger
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Every value has a default matching a stock local platform, so an error is
// only returned for values that are present but malformed.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	requestTimeout, err := getDurationWithDefault("REQUEST_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	testTimeout, err := getDurationWithDefault("TEST_TIMEOUT", 20*time.Minute)
	if err != nil {
		return nil, err
	}

	workspace := getWithDefault("TEST_WORKSPACE", DefaultWorkspace)

	config := &TestConfig{
		BaseURL:         getWithDefault("PLATFORM_BASE_URL", DefaultBaseURL),
		Email:           getWithDefault("PLATFORM_EMAIL", DefaultEmail),
		Password:        getWithDefault("PLATFORM_PASSWORD", DefaultPassword),
		Username:        getWithDefault("PLATFORM_USERNAME", DefaultUsername),
		Workspace:       workspace,
		WorkspaceName:   getWithDefault("TEST_WORKSPACE_NAME", workspace),
		Timezone:        getWithDefault("TEST_TIMEZONE", DefaultTimezone),
		RequestTimeout:  requestTimeout,
		TestTimeout:     testTimeout,
		SkipIntegration: getBoolWithDefault("SKIP_INTEGRATION", false),
		LogRequests:     getBoolWithDefault("LOG_REQUESTS", false),
		LogResponses:    getBoolWithDefault("LOG_RESPONSES", false),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the fields a client cannot be built without.
func (c *TestConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL %q: scheme must be http or https", c.BaseURL)
	}

	if u.Host == "" {
		return fmt.Errorf("invalid base URL %q: missing host", c.BaseURL)
	}

	var workspace WorkspaceID
	if err := workspace.UnmarshalText([]byte(c.Workspace)); err != nil {
		return fmt.Errorf("workspace %q: %w", c.Workspace, err)
	}

	if c.Email == "" || c.Password == "" {
		return fmt.Errorf("missing required configuration: PLATFORM_EMAIL and PLATFORM_PASSWORD must be set")
	}

	return nil
}

func getWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}

	return duration, nil
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func loadEnvFile() {
	envPaths := []string{
		"test/.env",     // From the repository root, e.g. the smoke command
		"../.env",       // From test/api
		"../../.env",    // From test/api/suites
		"../../../.env", // From test/contracts/consumer/platform
	}

	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	// Existing environment variables take precedence over the file.
	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}
