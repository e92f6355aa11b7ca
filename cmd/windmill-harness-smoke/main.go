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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/windmill-labs/harness/pkg/constants"
	"github.com/windmill-labs/harness/test/api"

	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/controller-runtime/pkg/manager/signals"
)

const smokeScript = "def main(x: int):\n    return x"

var errUnexpectedResult = errors.New("unexpected job result")

func main() {
	config, err := api.LoadTestConfig()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	var (
		options    api.Options
		zapOptions zap.Options
		scriptPath string
		keep       bool
	)

	options.AddFlags(pflag.CommandLine, config)
	pflag.StringVar(&scriptPath, "script-path", "u/admin/test_script", "Path of the script to create and run.")
	pflag.BoolVar(&keep, "keep", false, "Leave the script in place afterwards.")

	zapOptions.BindFlags(flag.CommandLine)
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)

	pflag.Parse()

	options.Apply(config)

	log.SetLogger(zap.New(zap.UseFlagOptions(&zapOptions)))

	logger := log.Log.WithName("init")
	logger.Info("smoke test starting", "application", constants.Application, "version", constants.Version, "revision", constants.Revision)

	clientLogger := log.Log.WithName("client")
	config.Logger = &clientLogger

	ctx := signals.SetupSignalHandler()

	if err := api.WithClient(ctx, config, func(client *api.APIClient) error {
		return smoke(ctx, client, scriptPath, keep)
	}); err != nil {
		logger.Error(err, "smoke test failed", "baseURL", config.BaseURL)
		os.Exit(1)
	}
}

// smoke creates a script, runs it once and reports the platform version.
func smoke(ctx context.Context, client *api.APIClient, path string, keep bool) error {
	logger := log.FromContext(ctx).WithName("smoke")

	hash, err := client.CreateScript(ctx, path, smokeScript, "python3")
	if err != nil {
		return fmt.Errorf("creating script %s: %w", path, err)
	}

	logger.Info("script created", "path", path, "hash", hash)

	if !keep {
		defer func() {
			if _, err := client.DeleteScript(ctx, path); err != nil {
				logger.Error(err, "deleting script", "path", path)
			}
		}()
	}

	var result int

	if err := client.RunSyncInto(ctx, path, map[string]interface{}{"x": 5}, api.RunnableScript, &result); err != nil {
		return fmt.Errorf("running script %s: %w", path, err)
	}

	if result != 5 {
		return fmt.Errorf("%w: script %s returned %d, expected 5", errUnexpectedResult, path, result)
	}

	version, err := client.GetVersion(ctx)
	if err != nil {
		return err
	}

	fmt.Println(version)

	return nil
}
