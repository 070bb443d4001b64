// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/jandi/internal/batch"
	"github.com/tomtom215/jandi/internal/config"
	"github.com/tomtom215/jandi/internal/models"
	"github.com/tomtom215/jandi/internal/testinfra"
	"github.com/tomtom215/jandi/internal/tracker"
)

type countingRecomputer struct{ calls int }

func (r *countingRecomputer) RefreshAggregates(context.Context) error {
	r.calls++
	return nil
}

// replayBarrier feeds the recorded refresh signals through a tracker and
// answers every published new_posts event with the progress an enrichment
// worker would send. It returns how often recompute fired.
func replayBarrier(t *testing.T, pub *testinfra.RecordingPublisher) int {
	t.Helper()

	rec := &countingRecomputer{}
	trk := tracker.New(batch.NewMemoryStore(), rec, config.GlobalBatchDelete)
	ctx := context.Background()
	for _, m := range pub.All() {
		switch m.Queue {
		case models.QueueNewPosts:
			sig := models.ProgressSignal()
			trk.Apply(ctx, &sig)
		case models.QueueRefresh:
			var sig models.RefreshSignal
			if err := json.Unmarshal(m.Payload, &sig); err != nil {
				t.Fatalf("decode refresh signal: %v", err)
			}
			trk.Apply(ctx, &sig)
		}
	}
	return rec.calls
}

func TestProducer_FirstScanEmitsInitThenEvents(t *testing.T) {
	t.Parallel()

	store := &memStore{subs: []models.Subscription{
		{UserID: "u1", Platform: models.PlatformVelog, AccountID: "kim"},
	}}
	src := stubFeed{"kim": {article("b", day(2)), article("c", day(3)), article("a", day(1))}}
	pub := testinfra.NewRecordingPublisher()

	result, err := NewProducer(store, src, pub, "").Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Discovered != 3 || result.Published != 3 || result.Advanced != 1 {
		t.Errorf("result = %+v", result)
	}

	all := pub.All()
	if len(all) != 4 || all[0].Queue != models.QueueRefresh {
		t.Fatalf("published = %+v, want init first then 3 events", all)
	}
	inits, _ := testinfra.DecodeAll[models.RefreshSignal](pub, models.QueueRefresh)
	if inits[0].Type != models.RefreshInit || inits[0].Count != 3 {
		t.Errorf("init = %+v", inits[0])
	}

	events, _ := testinfra.DecodeAll[models.NewPostEvent](pub, models.QueueNewPosts)
	for i, want := range []string{"a", "b", "c"} {
		if events[i].Article.Title != want || events[i].UserID != "u1" || events[i].Platform != models.PlatformVelog {
			t.Errorf("event[%d] = %+v, want %s", i, events[i], want)
		}
	}

	if wm := store.watermark("u1", models.PlatformVelog); wm == nil || !wm.Equal(day(3)) {
		t.Errorf("watermark = %v, want %v", wm, day(3))
	}
}

func TestProducer_OnlyStrictlyNewer(t *testing.T) {
	t.Parallel()

	store := &memStore{subs: []models.Subscription{
		{UserID: "u1", Platform: models.PlatformVelog, AccountID: "kim", LastSeenAt: ptr(day(2))},
	}}
	src := stubFeed{"kim": {article("a", day(1)), article("b", day(2)), article("c", day(3))}}
	pub := testinfra.NewRecordingPublisher()

	result, err := NewProducer(store, src, pub, "").Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Discovered != 1 {
		t.Errorf("discovered = %d, want 1", result.Discovered)
	}
	events, _ := testinfra.DecodeAll[models.NewPostEvent](pub, models.QueueNewPosts)
	if len(events) != 1 || events[0].Article.Title != "c" {
		t.Errorf("events = %+v", events)
	}
}

func TestProducer_NothingNew(t *testing.T) {
	t.Parallel()

	store := &memStore{subs: []models.Subscription{
		{UserID: "u1", Platform: models.PlatformVelog, AccountID: "kim", LastSeenAt: ptr(day(5))},
		{UserID: "u2", Platform: models.PlatformNaver, AccountID: "down"},
		{UserID: "u3", Platform: models.PlatformTistory, AccountID: "empty"},
	}}
	src := stubFeed{"kim": {article("old", day(4))}, "empty": nil}
	pub := testinfra.NewRecordingPublisher()

	result, err := NewProducer(store, src, pub, "").Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Skipped != 3 {
		t.Errorf("skipped = %d, want 3", result.Skipped)
	}
	if n := len(pub.All()); n != 0 {
		t.Errorf("published %d messages, want none (no init for zero count)", n)
	}
	if wm := store.watermark("u2", models.PlatformNaver); wm != nil {
		t.Errorf("failed feed advanced watermark to %v", wm)
	}
}

func TestProducer_InitCountsAcrossSubscriptions(t *testing.T) {
	t.Parallel()

	store := &memStore{subs: []models.Subscription{
		{UserID: "u1", Platform: models.PlatformVelog, AccountID: "kim"},
		{UserID: "u2", Platform: models.PlatformNaver, AccountID: "lee"},
		{UserID: "u3", Platform: models.PlatformNaver, AccountID: "down"},
	}}
	src := stubFeed{
		"kim": {article("a", day(1))},
		"lee": {article("b", day(1)), article("c", day(2))},
	}
	pub := testinfra.NewRecordingPublisher()

	if _, err := NewProducer(store, src, pub, "").Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	inits, _ := testinfra.DecodeAll[models.RefreshSignal](pub, models.QueueRefresh)
	if len(inits) != 1 || inits[0].Count != 3 {
		t.Errorf("inits = %+v, want one init with count 3", inits)
	}
}

func TestProducer_WatermarkPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		policy      string
		wantAdvance bool
	}{
		{config.WatermarkAdvance, true},
		{config.WatermarkConfirm, false},
	}
	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			store := &memStore{subs: []models.Subscription{
				{UserID: "u1", Platform: models.PlatformVelog, AccountID: "kim"},
			}}
			src := stubFeed{"kim": {article("a", day(1))}}
			pub := testinfra.NewRecordingPublisher()
			pub.FailQueue(models.QueueNewPosts, errors.New("broker unavailable"))

			result, err := NewProducer(store, src, pub, tt.policy).Run(context.Background())
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if result.Failed != 1 {
				t.Errorf("failed = %d, want 1", result.Failed)
			}
			advanced := store.watermark("u1", models.PlatformVelog) != nil
			if advanced != tt.wantAdvance {
				t.Errorf("advanced = %v, want %v", advanced, tt.wantAdvance)
			}
		})
	}
}

func TestProducer_InitFailureStopsRun(t *testing.T) {
	t.Parallel()

	store := &memStore{subs: []models.Subscription{
		{UserID: "u1", Platform: models.PlatformVelog, AccountID: "kim"},
	}}
	pub := testinfra.NewRecordingPublisher()
	pub.FailQueue(models.QueueRefresh, errors.New("broker unavailable"))

	_, err := NewProducer(store, stubFeed{"kim": {article("a", day(1))}}, pub, "").Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if pub.Count(models.QueueNewPosts) != 0 {
		t.Error("events published without an init")
	}
	if store.watermark("u1", models.PlatformVelog) != nil {
		t.Error("watermark advanced without an init")
	}
}

func TestProducer_StoreError(t *testing.T) {
	t.Parallel()

	store := &memStore{err: errors.New("db closed")}
	if _, err := NewProducer(store, stubFeed{}, testinfra.NewRecordingPublisher(), "").Run(context.Background()); err == nil {
		t.Error("expected error")
	}
}

func TestProducer_UnpublishedPostsStillCloseBarrier(t *testing.T) {
	t.Parallel()

	for _, policy := range []string{config.WatermarkAdvance, config.WatermarkConfirm} {
		t.Run(policy, func(t *testing.T) {
			store := &memStore{subs: []models.Subscription{
				{UserID: "u1", Platform: models.PlatformVelog, AccountID: "kim"},
			}}
			src := stubFeed{"kim": {article("a", day(1)), article("b", day(2))}}
			pub := testinfra.NewRecordingPublisher()
			pub.FailQueue(models.QueueNewPosts, errors.New("broker unavailable"))

			result, err := NewProducer(store, src, pub, policy).Run(context.Background())
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if result.Published != 0 || result.Failed != 2 {
				t.Errorf("result = %+v", result)
			}
			if got := pub.Count(models.QueueRefresh); got != 3 {
				t.Errorf("refresh signals = %d, want init plus 2 settled progress", got)
			}
			if fired := replayBarrier(t, pub); fired != 1 {
				t.Errorf("recompute fired %d times, want 1", fired)
			}
		})
	}
}

func TestProducer_ConfirmHoldsWatermarkAtPublishedPrefix(t *testing.T) {
	t.Parallel()

	store := &memStore{subs: []models.Subscription{
		{UserID: "u1", Platform: models.PlatformVelog, AccountID: "kim"},
	}}
	src := stubFeed{"kim": {article("a", day(1)), article("b", day(2)), article("c", day(3))}}
	producer := NewProducer(store, src, nil, config.WatermarkConfirm)

	first := testinfra.NewRecordingPublisher()
	first.FailQueueAfter(models.QueueNewPosts, 1, errors.New("broker unavailable"))
	producer.publisher = first

	result, err := producer.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Published != 1 || result.Failed != 2 {
		t.Errorf("result = %+v, want 1 published and 2 failed", result)
	}
	if wm := store.watermark("u1", models.PlatformVelog); wm == nil || !wm.Equal(day(1)) {
		t.Errorf("watermark = %v, want %v", wm, day(1))
	}
	if fired := replayBarrier(t, first); fired != 1 {
		t.Errorf("first run fired %d times, want 1", fired)
	}

	// The next run only rediscovers what never went out.
	second := testinfra.NewRecordingPublisher()
	producer.publisher = second
	if _, err := producer.Run(context.Background()); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	events, _ := testinfra.DecodeAll[models.NewPostEvent](second, models.QueueNewPosts)
	if len(events) != 2 || events[0].Article.Title != "b" || events[1].Article.Title != "c" {
		t.Errorf("second run events = %+v, want b and c", events)
	}
	if fired := replayBarrier(t, second); fired != 1 {
		t.Errorf("second run fired %d times, want 1", fired)
	}
	if wm := store.watermark("u1", models.PlatformVelog); wm == nil || !wm.Equal(day(3)) {
		t.Errorf("watermark = %v, want %v", wm, day(3))
	}
}
