// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/jandi/internal/logging"
	"github.com/tomtom215/jandi/internal/registration"
)

func newPlatformCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "platform",
		Short: "Register or unregister a blog account",
	}
	cmd.AddCommand(newPlatformRegisterCmd(opts), newPlatformUnregisterCmd(opts))
	return cmd
}

func newPlatformRegisterCmd(opts *rootOptions) *cobra.Command {
	var req registration.Request

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Bind a blog account to a user and queue its existing articles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.ContextWithNewCorrelationID(cmd.Context())
			cfg := opts.cfg

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

			result, err := newRegistrar(cfg, db, broker.Publisher).Register(ctx, req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.UserID, "user", "", "user id")
	f.StringVar(&req.Platform, "platform", "", "naver, tistory or velog")
	f.StringVar(&req.AccountID, "account", "", "account id on the platform")
	f.StringVar(&req.Email, "email", "", "reminder address")
	f.StringVar(&req.Name, "name", "", "display name used in reminders")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("platform")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func newPlatformUnregisterCmd(opts *rootOptions) *cobra.Command {
	var req registration.UnregisterRequest

	cmd := &cobra.Command{
		Use:   "unregister",
		Short: "Remove a blog binding and its stored articles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.ContextWithNewCorrelationID(cmd.Context())

			db, err := openDatabase(opts.cfg)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			// Unregister never publishes.
			if err := registration.NewService(db, nil, nil).Unregister(ctx, req); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{"user_id": req.UserID, "platform": req.Platform, "status": "removed"})
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.UserID, "user", "", "user id")
	f.StringVar(&req.Platform, "platform", "", "naver, tistory or velog")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("platform")
	return cmd
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
