/*
Copyright 2020 The Kubermatic Kubernetes Platform contributors.

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
	"os"

	"k8c.io/mchl/pkg/action"
	"k8c.io/mchl/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	opts := types.NewDefaultOptions()

	cmd := &cobra.Command{
		Use:           "mchl",
		Short:         "Generate changelogs from merged pull requests",
		Long:          "mchl generates a markdown changelog for the commits since the last tag, grouped by release, by issue label and by monorepo package.",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.Parse()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return action.New(cmd.Name(), opts, newLogger(opts)).GenerateChangelog(cmd.Context())
		},
	}

	opts.AddFlags(cmd.Flags())

	return cmd
}

func newLogger(opts *types.Options) logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.InfoLevel)

	if opts.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}
