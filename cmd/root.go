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
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/elastic/beats/v7/libbeat/logp"

	"github.com/crashpost/crashpost/config"
	"github.com/crashpost/crashpost/version"
)

// RootCmd is the crashpost command line tool.
var RootCmd = NewRootCommand()

type globalFlags struct {
	configFile string
	dsn        string
	verbose    bool
}

// NewRootCommand returns the crashpost command with all subcommands.
func NewRootCommand() *cobra.Command {
	var flags globalFlags
	root := &cobra.Command{
		Use:          version.Name,
		Short:        "Report Go errors to a Sentry compatible collector",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logp.InfoLevel
			if flags.verbose {
				level = logp.DebugLevel
			}
			return logp.DevelopmentSetup(logp.WithLevel(level))
		},
	}
	root.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "path to the YAML configuration file")
	root.PersistentFlags().StringVar(&flags.dsn, "dsn", "", "DSN to report to, overriding the configuration file")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		genTestCmd(&flags),
		genReplayCmd(&flags),
		genValidateCmd(),
		genVersionCmd(),
	)
	return root
}

// loadConfig reads the configuration file named by the flags, if any, and
// applies the dsn override.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if flags.configFile != "" {
		var err error
		if cfg, err = config.LoadFile(flags.configFile); err != nil {
			return nil, err
		}
	}
	if flags.dsn != "" {
		cfg.DSN = flags.dsn
	}
	if cfg.DSN == "" {
		return nil, errors.New("no dsn configured, use --dsn or set dsn in the configuration file")
	}
	return cfg, nil
}
