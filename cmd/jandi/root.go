// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/jandi/internal/config"
	"github.com/tomtom215/jandi/internal/logging"
)

// rootOptions carries state shared by every subcommand.
type rootOptions struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "jandi",
		Short:         "Blog activity tracking and topic analytics",
		Long:          `Jandi discovers new blog articles, classifies them by topic, tracks per-user activity and reminds inactive writers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.load()
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file (overrides CONFIG_PATH)")

	cmd.AddCommand(
		newServeCmd(opts),
		newObserveCmd(opts),
		newPlatformCmd(opts),
		newRecomputeCmd(opts),
	)
	return cmd
}

func (o *rootOptions) load() error {
	if o.configPath != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, o.configPath); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	o.cfg = cfg
	return nil
}
