// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package enrichment

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/jandi/internal/crawler"
	"github.com/tomtom215/jandi/internal/eventprocessor"
	"github.com/tomtom215/jandi/internal/models"
	"github.com/tomtom215/jandi/internal/testinfra"
)

type fakeStore struct {
	mu        sync.Mutex
	items     map[string]models.ContentItem
	existsErr error
	insertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[string]models.ContentItem)}
}

func key(url, userID string, p models.Platform) string {
	return url + "|" + userID + "|" + string(p)
}

func (s *fakeStore) ContentExists(_ context.Context, url, userID string, p models.Platform) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.items[key(url, userID, p)]
	return ok, nil
}

func (s *fakeStore) InsertContent(_ context.Context, item models.ContentItem) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return false, s.insertErr
	}
	k := key(item.URL, item.UserID, item.Platform)
	if _, ok := s.items[k]; ok {
		return false, nil
	}
	s.items[k] = item
	return true, nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

type fakeFetcher struct {
	calls atomic.Int32
	page  crawler.Page
	err   error
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (crawler.Page, error) {
	f.calls.Add(1)
	return f.page, f.err
}

type fakeClassifier struct {
	calls     atomic.Int32
	labels    []models.Topic
	err       error
	lastTitle string
}

func (c *fakeClassifier) Classify(_ context.Context, title, _ string) ([]models.Topic, error) {
	c.calls.Add(1)
	c.lastTitle = title
	return c.labels, c.err
}

func newPostMsg(t *testing.T, link, title string) *message.Message {
	t.Helper()
	return jsonMsg(t, models.NewPostEvent{
		UserID:   "u1",
		Platform: models.PlatformVelog,
		Article:  models.PostRef{Link: link, Title: title, PublishedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	})
}

func backlogMsg(t *testing.T, link string) *message.Message {
	t.Helper()
	return jsonMsg(t, models.BacklogEvent{
		Link: link, UserID: "u1", Platform: models.PlatformNaver,
		PublishedAt: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
	})
}

func jsonMsg(t *testing.T, v interface{}) *message.Message {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return message.NewMessage(watermill.NewUUID(), data)
}

type harness struct {
	store      *fakeStore
	fetcher    *fakeFetcher
	classifier *fakeClassifier
	pub        *testinfra.RecordingPublisher
	worker     *Worker
}

func newHarness() *harness {
	h := &harness{
		store:      newFakeStore(),
		fetcher:    &fakeFetcher{page: crawler.Page{Title: "crawled title", Content: "본문"}},
		classifier: &fakeClassifier{labels: []models.Topic{models.TopicTech, models.TopicAI}},
		pub:        testinfra.NewRecordingPublisher(),
	}
	h.worker = NewWorker(h.store, h.fetcher, h.classifier, h.pub)
	return h
}

func (h *harness) progress(t *testing.T) []models.RefreshSignal {
	t.Helper()
	signals, err := testinfra.DecodeAll[models.RefreshSignal](h.pub, models.QueueRefresh)
	if err != nil {
		t.Fatal(err)
	}
	return signals
}

func TestHandleNewPost_Success(t *testing.T) {
	t.Parallel()
	h := newHarness()

	if err := h.worker.HandleNewPost(context.Background(), newPostMsg(t, "https://velog.io/@kim/a", "event title")); err != nil {
		t.Fatalf("HandleNewPost() error = %v", err)
	}

	item := h.store.items[key("https://velog.io/@kim/a", "u1", models.PlatformVelog)]
	if item.Category != models.TopicTech || item.Title != "event title" {
		t.Errorf("stored = %+v", item)
	}
	if h.classifier.lastTitle != "crawled title" {
		t.Errorf("classified with title %q, want crawled title", h.classifier.lastTitle)
	}
	signals := h.progress(t)
	if len(signals) != 1 || signals[0].Type != models.RefreshProgress {
		t.Errorf("signals = %+v", signals)
	}
}

func TestHandleNewPost_DuplicateIsSilent(t *testing.T) {
	t.Parallel()
	h := newHarness()
	msg := newPostMsg(t, "https://velog.io/@kim/a", "t")

	if err := h.worker.HandleNewPost(context.Background(), msg); err != nil {
		t.Fatal(err)
	}
	// Redelivery of the same event.
	if err := h.worker.HandleNewPost(context.Background(), msg.Copy()); err != nil {
		t.Fatalf("redelivery error = %v, want ack", err)
	}

	if h.store.count() != 1 {
		t.Errorf("stored %d posts, want 1", h.store.count())
	}
	if n := len(h.progress(t)); n != 1 {
		t.Errorf("progress signals = %d, want 1", n)
	}
	if h.fetcher.calls.Load() != 1 {
		t.Errorf("crawled %d times, want 1", h.fetcher.calls.Load())
	}
}

func TestHandleBacklog_DuplicateStillReports(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.store.items[key("https://blog.naver.com/kim/1", "u1", models.PlatformNaver)] = models.ContentItem{}

	if err := h.worker.HandleBacklog(context.Background(), backlogMsg(t, "https://blog.naver.com/kim/1")); err != nil {
		t.Fatalf("HandleBacklog() error = %v", err)
	}
	signals := h.progress(t)
	if len(signals) != 1 {
		t.Fatalf("signals = %+v, want 1", signals)
	}
	want := models.ProgressPlatformRegisterSignal("u1", models.PlatformNaver)
	if signals[0] != want {
		t.Errorf("signal = %+v, want %+v", signals[0], want)
	}
	if h.fetcher.calls.Load() != 0 {
		t.Error("duplicate must not be crawled")
	}
}

func TestHandleBacklog_TitleFromPage(t *testing.T) {
	t.Parallel()
	h := newHarness()

	if err := h.worker.HandleBacklog(context.Background(), backlogMsg(t, "https://blog.naver.com/kim/2")); err != nil {
		t.Fatal(err)
	}
	item := h.store.items[key("https://blog.naver.com/kim/2", "u1", models.PlatformNaver)]
	if item.Title != "crawled title" {
		t.Errorf("title = %q, want crawled title", item.Title)
	}
}

func TestEnrich_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		setup         func(h *harness)
		wantRetryable bool
		wantStored    int
	}{
		{
			name:  "crawl fails",
			setup: func(h *harness) { h.fetcher.err = crawler.ErrNoContent },
		},
		{
			name:          "classification fails",
			setup:         func(h *harness) { h.classifier.err = errors.New("overloaded") },
			wantRetryable: true,
		},
		{
			name:          "insert fails",
			setup:         func(h *harness) { h.store.insertErr = errors.New("disk full") },
			wantRetryable: true,
		},
		{
			name:          "existence check fails",
			setup:         func(h *harness) { h.store.existsErr = errors.New("connection reset") },
			wantRetryable: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			tt.setup(h)

			err := h.worker.HandleNewPost(context.Background(), newPostMsg(t, "https://velog.io/@kim/x", "t"))
			if tt.wantRetryable {
				if !eventprocessor.IsRetryableError(err) {
					t.Errorf("error = %v, want retryable", err)
				}
			} else if err != nil {
				t.Errorf("error = %v, want ack", err)
			}

			if n := len(h.progress(t)); n != 1 {
				t.Errorf("progress signals = %d, want 1", n)
			}
			if h.store.count() != tt.wantStored {
				t.Errorf("stored = %d, want %d", h.store.count(), tt.wantStored)
			}
		})
	}
}

func TestEnrich_MalformedIsPermanent(t *testing.T) {
	t.Parallel()
	h := newHarness()

	msgs := []*message.Message{
		message.NewMessage(watermill.NewUUID(), []byte("{")),
		jsonMsg(t, models.NewPostEvent{UserID: "u1", Platform: "medium", Article: models.PostRef{Link: "x"}}),
	}
	for _, msg := range msgs {
		if err := h.worker.HandleNewPost(context.Background(), msg); !eventprocessor.IsPermanentError(err) {
			t.Errorf("error = %v, want permanent", err)
		}
	}
	if err := h.worker.HandleBacklog(context.Background(), jsonMsg(t, models.BacklogEvent{Platform: models.PlatformNaver})); !eventprocessor.IsPermanentError(err) {
		t.Errorf("backlog error = %v, want permanent", err)
	}
	if n := len(h.progress(t)); n != 0 {
		t.Errorf("progress for malformed messages = %d, want 0", n)
	}
}

func TestEnrich_ShutdownDuringCrawl(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.fetcher.err = context.Canceled

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.worker.HandleNewPost(ctx, newPostMsg(t, "https://velog.io/@kim/y", "t"))
	if !eventprocessor.IsRetryableError(err) {
		t.Errorf("error = %v, want retryable", err)
	}
	if n := len(h.progress(t)); n != 0 {
		t.Errorf("progress = %d, want none while shutting down", n)
	}
}
