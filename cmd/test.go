// Licensed to Elasticsearch B.V. under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. Elasticsearch B.V. licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/crashpost/crashpost/reporter"
)

const defaultTestMessage = "This is a test error sent by crashpost"

func genTestCmd(flags *globalFlags) *cobra.Command {
	var message string
	short := "Send a test event to the configured collector"
	cmd := &cobra.Command{
		Use:   "test",
		Short: short,
		Long: short + `.
The event is processed by all built-in extensions, and carries the stack trace
of the command itself. Delivery failures are logged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			// The test event must not be dropped.
			cfg.SampleRate = 100
			client, err := reporter.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			ctx := context.Background()
			id := client.CaptureException(ctx, errors.New(message), nil)
			client.Flush(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "Sent test event %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", defaultTestMessage, "message of the test error")
	return cmd
}
