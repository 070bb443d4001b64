// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/tomtom215/jandi/internal/breaker"
	"github.com/tomtom215/jandi/internal/config"
	"github.com/tomtom215/jandi/internal/logging"
	"github.com/tomtom215/jandi/internal/metrics"
	"github.com/tomtom215/jandi/internal/models"
)

// ErrUnexpectedStatus is returned when the feed host answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected feed status")

const maxFeedBytes = 10 << 20

// RSSSource fetches and normalizes an RSS or Atom feed.
type RSSSource struct {
	platform   models.Platform
	httpClient *http.Client
	breaker    *breaker.Breaker
	userAgent  string
	feedURL    func(platform models.Platform, accountID string) string
}

// RSSOption configures an RSSSource.
type RSSOption func(*RSSSource)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) RSSOption {
	return func(s *RSSSource) { s.httpClient = c }
}

// WithFeedURL overrides the platform URL mapping. Used to point sources at
// a local server.
func WithFeedURL(fn func(platform models.Platform, accountID string) string) RSSOption {
	return func(s *RSSSource) { s.feedURL = fn }
}

// NewRSSSource creates a source for one platform.
func NewRSSSource(platform models.Platform, cfg config.FeedConfig, opts ...RSSOption) *RSSSource {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	s := &RSSSource{
		platform:   platform,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker.New(breaker.DefaultConfig("feed-" + platform.String())),
		userAgent:  "jandi-feed/1.0",
		feedURL:    models.Platform.FeedURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch implements Source.
func (s *RSSSource) Fetch(ctx context.Context, platform models.Platform, accountID string) ([]models.Article, error) {
	if accountID == "" {
		return nil, fmt.Errorf("feed %s: account id is required", platform)
	}
	url := s.feedURL(platform, accountID)
	if url == "" {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownPlatform, platform)
	}

	feed, err := breaker.Do(s.breaker, func() (*gofeed.Feed, error) {
		return s.download(ctx, url)
	})
	if err != nil {
		metrics.RecordFeedError(platform.String())
		return nil, fmt.Errorf("feed %s/%s: %w", platform, accountID, err)
	}

	articles := normalize(feed)
	logging.Ctx(ctx).Debug().
		Str("platform", platform.String()).
		Str("account_id", accountID).
		Int("items", len(feed.Items)).
		Int("articles", len(articles)).
		Msg("feed fetched")
	return articles, nil
}

func (s *RSSSource) download(ctx context.Context, url string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

// normalize keeps dated items with a link. A link listed more than once
// keeps its first entry: duplicates would be counted by the init but
// absorbed by enrichment dedup without reporting progress.
func normalize(feed *gofeed.Feed) []models.Article {
	if feed == nil {
		return nil
	}
	articles := make([]models.Article, 0, len(feed.Items))
	seen := make(map[string]struct{}, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		published := item.PublishedParsed
		if published == nil {
			published = item.UpdatedParsed
		}
		if published == nil {
			continue
		}
		seen[link] = struct{}{}
		articles = append(articles, models.Article{
			Title:       strings.TrimSpace(item.Title),
			Link:        link,
			PublishedAt: published.UTC(),
			Thumbnail:   thumbnail(item),
			Tags:        tags(item.Categories),
		})
	}
	return articles
}

func thumbnail(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	if media, ok := item.Extensions["media"]; ok {
		for _, name := range []string{"thumbnail", "content"} {
			for _, e := range media[name] {
				if u := e.Attrs["url"]; u != "" {
					return u
				}
			}
		}
	}
	return ""
}

func tags(categories []string) []string {
	var out []string
	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
