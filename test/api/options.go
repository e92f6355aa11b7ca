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
	"time"

	"github.com/spf13/pflag"
)

// Options allows the test configuration to be overridden on the CLI.
type Options struct {
	baseURL        string
	email          string
	password       string
	username       string
	workspace      string
	requestTimeout time.Duration
	logRequests    bool
	logResponses   bool

	flags *pflag.FlagSet
}

// AddFlags registers the options, defaults are taken from the supplied
// configuration so flags only need to be given for overrides.
func (o *Options) AddFlags(f *pflag.FlagSet, config *TestConfig) {
	f.StringVar(&o.baseURL, "base-url", config.BaseURL, "Platform API base URL.")
	f.StringVar(&o.email, "email", config.Email, "Login e-mail of the administrative identity.")
	f.StringVar(&o.password, "password", config.Password, "Login password of the administrative identity.")
	f.StringVar(&o.username, "username", config.Username, "Username that owns the test workspace.")
	f.StringVar(&o.workspace, "workspace", config.Workspace, "Workspace to provision and run in.")
	f.DurationVar(&o.requestTimeout, "request-timeout", config.RequestTimeout, "Upper bound for a single request, including run-and-wait jobs.")
	f.BoolVar(&o.logRequests, "log-requests", config.LogRequests, "Log every request line.")
	f.BoolVar(&o.logResponses, "log-responses", config.LogResponses, "Log every response body.")

	o.flags = f
}

// Apply copies any flags that were explicitly set onto the configuration.
func (o *Options) Apply(config *TestConfig) {
	if o.flags == nil {
		return
	}

	o.flags.Visit(func(flag *pflag.Flag) {
		switch flag.Name {
		case "base-url":
			config.BaseURL = o.baseURL
		case "email":
			config.Email = o.email
		case "password":
			config.Password = o.password
		case "username":
			config.Username = o.username
		case "workspace":
			config.Workspace = o.workspace
			config.WorkspaceName = o.workspace
		case "request-timeout":
			config.RequestTimeout = o.requestTimeout
		case "log-requests":
			config.LogRequests = o.logRequests
		case "log-responses":
			config.LogResponses = o.logResponses
		}
	})
}
