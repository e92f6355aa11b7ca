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
	"context"

	"github.com/hashicorp/go-multierror"
)

// WithClient runs fn with a freshly constructed client and closes it on every
// exit path. When both fn and Close fail the errors are combined, fn's first,
// so errors.Is still finds the failure from fn.
func WithClient(ctx context.Context, config *TestConfig, fn func(*APIClient) error) (err error) {
	client, err := New(ctx, config)
	if err != nil {
		return err
	}

	defer func() {
		closeErr := client.Close(ctx)
		if closeErr == nil {
			return
		}

		if err == nil {
			err = closeErr
			return
		}

		err = multierror.Append(err, closeErr)
	}()

	return fn(client)
}
