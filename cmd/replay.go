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
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/crashpost/crashpost/model"
	"github.com/crashpost/crashpost/publish"
)

func genReplayCmd(flags *globalFlags) *cobra.Command {
	short := "Send previously recorded events to the configured collector"
	return &cobra.Command{
		Use:   "replay FILE...",
		Short: short,
		Long: short + `.
Each file holds one event in its wire representation, as written by a
collector or a buffered client. Events are validated before they are sent,
and keep their event IDs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			dsn, err := publish.ParseDSN(cfg.DSN)
			if err != nil {
				return err
			}
			capture := publish.NewDirect(dsn, publish.DirectConfig{Timeout: cfg.Timeout, Proxy: cfg.Proxy})

			ctx := context.Background()
			for _, path := range args {
				event, err := readEvent(path)
				if err != nil {
					return err
				}
				capture.CaptureEvent(ctx, event)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: sent event %s\n", path, event.ID)
			}
			return nil
		},
	}
}

func readEvent(path string) (*model.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if err := model.ValidateJSON(data); err != nil {
		return nil, errors.Wrap(err, path)
	}
	event, err := model.DecodeEvent(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return event, nil
}
