// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/jandi/internal/logging"
)

func newObserveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "observe",
		Short: "Run one discovery and inactivity scan, then exit",
		Long: `Scans every subscription feed for articles newer than its watermark and
queues them for enrichment, then queues reminders for inactive subscriptions.
Meant for cron; serve --roles observer runs the same cycle on a schedule.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.ContextWithNewCorrelationID(cmd.Context())
			cfg := opts.cfg

			if cfg.Broker.Kind == "memory" {
				logging.Warn().Msg("BROKER=memory: events published by this process are lost when it exits")
			}

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			broker, err := openBroker(ctx, cfg)
			if err != nil {
				return fmt.Errorf("open broker: %w", err)
			}
			defer closeBroker(broker, cfg.NATS.CloseTimeout)

			if err := newObserver(cfg, db, broker.Publisher).Run(ctx); err != nil {
				return err
			}
			logging.Ctx(ctx).Info().Msg("Observer run complete")
			return nil
		},
	}
}
