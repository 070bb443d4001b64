// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package feed

import (
	"context"
	"fmt"

	"github.com/tomtom215/jandi/internal/config"
	"github.com/tomtom215/jandi/internal/models"
)

// Source fetches the articles currently listed in an account's feed.
// An empty result with a nil error means the feed had no usable items.
type Source interface {
	Fetch(ctx context.Context, platform models.Platform, accountID string) ([]models.Article, error)
}

// Registry dispatches to the source for each supported platform.
type Registry struct {
	naver   Source
	tistory Source
	velog   Source
}

var _ Source = (*Registry)(nil)

// NewRegistry builds one RSSSource per platform.
func NewRegistry(cfg config.FeedConfig, opts ...RSSOption) *Registry {
	return &Registry{
		naver:   NewRSSSource(models.PlatformNaver, cfg, opts...),
		tistory: NewRSSSource(models.PlatformTistory, cfg, opts...),
		velog:   NewRSSSource(models.PlatformVelog, cfg, opts...),
	}
}

// NewRegistryWith builds a registry from explicit sources. A nil source
// leaves that platform unsupported.
func NewRegistryWith(naver, tistory, velog Source) *Registry {
	return &Registry{naver: naver, tistory: tistory, velog: velog}
}

// For returns the source serving platform.
func (r *Registry) For(platform models.Platform) (Source, error) {
	var src Source
	switch platform {
	case models.PlatformNaver:
		src = r.naver
	case models.PlatformTistory:
		src = r.tistory
	case models.PlatformVelog:
		src = r.velog
	}
	if src == nil {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownPlatform, platform)
	}
	return src, nil
}

// Fetch implements Source.
func (r *Registry) Fetch(ctx context.Context, platform models.Platform, accountID string) ([]models.Article, error) {
	src, err := r.For(platform)
	if err != nil {
		return nil, err
	}
	return src.Fetch(ctx, platform, accountID)
}
