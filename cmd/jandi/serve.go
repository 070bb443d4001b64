// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomtom215/jandi/internal/api"
	"github.com/tomtom215/jandi/internal/batch"
	"github.com/tomtom215/jandi/internal/classifier"
	"github.com/tomtom215/jandi/internal/config"
	"github.com/tomtom215/jandi/internal/crawler"
	"github.com/tomtom215/jandi/internal/database"
	"github.com/tomtom215/jandi/internal/enrichment"
	"github.com/tomtom215/jandi/internal/eventprocessor"
	"github.com/tomtom215/jandi/internal/logging"
	"github.com/tomtom215/jandi/internal/models"
	"github.com/tomtom215/jandi/internal/reminder"
	"github.com/tomtom215/jandi/internal/scheduler"
	"github.com/tomtom215/jandi/internal/supervisor"
	"github.com/tomtom215/jandi/internal/supervisor/services"
	"github.com/tomtom215/jandi/internal/tracker"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var roleList string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run workers, the observer and the admin API under one supervisor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			roles, err := supervisor.ParseRoles(roleList)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, opts.cfg, roles)
		},
	}
	cmd.Flags().StringVar(&roleList, "roles", "", "comma separated roles: enricher,tracker,mailer,observer,api (default all)")
	return cmd
}

//nolint:gocyclo // sequential wiring of every role
func runServe(ctx context.Context, cfg *config.Config, roles supervisor.Roles) error {
	logging.Info().Str("roles", roles.String()).Str("broker", cfg.Broker.Kind).Msg("Starting jandi")

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

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfigFrom(cfg.Supervisor))
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	consume := consumerFactory(tree, broker, consumerConfig(cfg))

	if roles.Has(supervisor.RoleEnricher) {
		cls, err := classifier.NewLLMClassifier(cfg.Classifier)
		if err != nil {
			return fmt.Errorf("enricher: %w", err)
		}
		worker := enrichment.NewWorker(db, crawler.New(cfg.Crawler), cls, broker.Publisher)
		consume(models.QueueNewPosts, worker.HandleNewPost)
		consume(models.QueuePlatformRegister, worker.HandleBacklog)
	}

	if roles.Has(supervisor.RoleTracker) {
		batches, err := batch.OpenStore(cfg.Batch.Store, cfg.Batch.Path)
		if err != nil {
			return fmt.Errorf("open batch store: %w", err)
		}
		defer func() {
			if err := batches.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing batch store")
			}
		}()

		consume(models.QueueRefresh, tracker.New(batches, db, cfg.Batch.GlobalPolicy).Handle)

		if bs, ok := batches.(*batch.BadgerStore); ok {
			gc, err := scheduler.New(scheduler.JobFunc(bs.RunGC), scheduler.Config{
				Name:     "batch-gc",
				Schedule: scheduler.Every(batchGCInterval),
			})
			if err != nil {
				return err
			}
			tree.AddDataService(services.NewLifecycleService("batch-gc", gc))
		}
	}

	if roles.Has(supervisor.RoleMailer) {
		consume(models.QueueMailReminders, reminder.NewWorker(reminder.NewSender(cfg.Mail)).Handle)
	}

	if roles.Has(supervisor.RoleObserver) {
		schedule, err := observerSchedule(cfg.Observer)
		if err != nil {
			return fmt.Errorf("observer schedule: %w", err)
		}
		observer := newObserver(cfg, db, broker.Publisher)
		sched, err := scheduler.New(scheduler.JobFunc(observer.Run), scheduler.Config{
			Name:         "observer",
			Schedule:     schedule,
			RunOnStartup: cfg.Observer.RunOnStartup,
		})
		if err != nil {
			return err
		}
		tree.AddMessagingService(services.NewLifecycleService("observer", sched))
	}

	if roles.Has(supervisor.RoleAPI) {
		router := api.NewRouter(newRegistrar(cfg, db, broker.Publisher), db, api.ConfigFrom(cfg.Server))
		srv := api.NewServer(cfg.Server, router.Handler())
		tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))
		if c := router.Cache(); c != nil {
			tree.AddAPIService(c)
		}
		logging.Info().Str("addr", srv.Addr).Msg("Admin API enabled")
	}

	logging.Info().Strs("services", tree.Services()).Msg("Supervisor tree starting")

	err = tree.Serve(ctx)
	reportUnstopped(tree)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	logging.Info().Msg("Supervisor tree stopped")
	return nil
}

func consumerFactory(tree *supervisor.SupervisorTree, broker *eventprocessor.Broker, cc eventprocessor.ConsumerConfig) func(string, eventprocessor.HandlerFunc) {
	return func(queue string, handler eventprocessor.HandlerFunc) {
		tree.AddMessagingService(eventprocessor.NewConsumer(
			broker.Subscriber,
			queue,
			handler,
			eventprocessor.WithDeadLetters(broker.Publisher),
			eventprocessor.WithConsumerConfig(cc),
		))
	}
}

func reportUnstopped(tree *supervisor.SupervisorTree) {
	unstopped, err := tree.UnstoppedServiceReport()
	if err != nil {
		logging.Warn().Err(err).Msg("Could not build unstopped service report")
		return
	}
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
	}
}

// Compile-time check that *database.DB serves the API read side.
var _ api.Store = (*database.DB)(nil)
