// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package services

import (
	"context"
	"fmt"
)

// Lifecycle is satisfied by *scheduler.Scheduler.
type Lifecycle interface {
	Start(ctx context.Context) error
	Stop() error
}

// LifecycleService adapts a Start/Stop component to suture's Serve:
// start, block until ctx ends, then stop and wait.
//
//	observer, _ := scheduler.New(obs, scheduler.Config{Name: "observer", Schedule: scheduler.Every(24 * time.Hour)})
//	tree.AddMessagingService(services.NewLifecycleService("observer", observer))
type LifecycleService struct {
	target Lifecycle
	name   string
}

// NewLifecycleService wraps target under name.
func NewLifecycleService(name string, target Lifecycle) *LifecycleService {
	return &LifecycleService{target: target, name: name}
}

// Serve implements suture.Service.
func (s *LifecycleService) Serve(ctx context.Context) error {
	if err := s.target.Start(ctx); err != nil {
		return fmt.Errorf("%s start failed: %w", s.name, err)
	}

	<-ctx.Done()

	if err := s.target.Stop(); err != nil {
		return fmt.Errorf("%s stop failed: %w", s.name, err)
	}
	return ctx.Err()
}

// String names the service in supervisor logs.
func (s *LifecycleService) String() string {
	return s.name
}
