// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

// Package crawler fetches an article page and extracts the text used for
// topic classification.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/tomtom215/jandi/internal/breaker"
	"github.com/tomtom215/jandi/internal/config"
	"github.com/tomtom215/jandi/internal/logging"
	"github.com/tomtom215/jandi/internal/metrics"
)

// ErrNoContent means the page could not be read or had no paragraph text.
// Enrichment treats it as final for that article.
var ErrNoContent = errors.New("no usable content")

const maxPageBytes = 5 << 20

// Page is the extracted article.
type Page struct {
	Title   string
	Content string
}

// Fetcher is the crawl capability enrichment depends on.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// Crawler paces requests with a token bucket and stops calling a failing
// host through a circuit breaker.
type Crawler struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *breaker.Breaker
	userAgent  string
	maxRunes   int
}

var _ Fetcher = (*Crawler)(nil)

// New creates a crawler. A zero MinInterval disables pacing.
func New(cfg config.CrawlerConfig) *Crawler {
	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxRunes := cfg.MaxRunes
	if maxRunes <= 0 {
		maxRunes = 5000
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "Mozilla/5.0"
	}

	return &Crawler{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		breaker:    breaker.New(breaker.DefaultConfig("crawler")),
		userAgent:  userAgent,
		maxRunes:   maxRunes,
	}
}

// Fetch downloads rawURL and extracts its title and paragraph text.
func (c *Crawler) Fetch(ctx context.Context, rawURL string) (Page, error) {
	start := time.Now()
	target, err := mobileURL(rawURL)
	if err != nil {
		metrics.RecordCrawl("invalid", time.Since(start))
		return Page{}, fmt.Errorf("%w: %v", ErrNoContent, err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Page{}, fmt.Errorf("crawl rate limit: %w", err)
	}

	doc, err := breaker.Do(c.breaker, func() (*goquery.Document, error) {
		return c.fetchDocument(ctx, target)
	})
	if err != nil {
		metrics.RecordCrawl("error", time.Since(start))
		return Page{}, err
	}

	page := Page{
		Title:   extractTitle(doc),
		Content: truncateRunes(extractText(doc), c.maxRunes),
	}
	if page.Content == "" {
		metrics.RecordCrawl("empty", time.Since(start))
		return Page{}, fmt.Errorf("%w: %s has no paragraph text", ErrNoContent, target)
	}

	metrics.RecordCrawl("ok", time.Since(start))
	logging.Ctx(ctx).Debug().
		Str("url", target).
		Int("runes", utf8.RuneCountInString(page.Content)).
		Msg("article crawled")
	return page, nil
}

func (c *Crawler) fetchDocument(ctx context.Context, target string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrNoContent, target, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return doc, nil
}

// mobileURL rewrites desktop Naver blog links to the mobile host, which
// serves the post body without an iframe.
func mobileURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported url %q", rawURL)
	}
	if u.Host == "blog.naver.com" {
		u.Host = "m.blog.naver.com"
	}
	return u.String(), nil
}

func extractTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func extractText(doc *goquery.Document) string {
	var parts []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, " ")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
