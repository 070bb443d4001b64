// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/jandi/internal/logging"
	"github.com/tomtom215/jandi/internal/metrics"
)

func newRecomputeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute",
		Short: "Rebuild the activity and topic aggregates from stored articles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDatabase(opts.cfg)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			start := time.Now()
			err = db.RefreshAggregates(cmd.Context())
			metrics.RecordRecompute(time.Since(start), err)
			if err != nil {
				return err
			}
			logging.Info().Dur("duration", time.Since(start)).Msg("Aggregates refreshed")
			return nil
		},
	}
}
