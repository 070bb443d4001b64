// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package models

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestParsePlatform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Platform
		wantErr bool
	}{
		{"naver", PlatformNaver, false},
		{" Tistory ", PlatformTistory, false},
		{"VELOG", PlatformVelog, false},
		{"medium", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePlatform(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePlatform(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrUnknownPlatform) {
			t.Errorf("ParsePlatform(%q) error = %v, want ErrUnknownPlatform", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParsePlatform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlatformFeedURL(t *testing.T) {
	t.Parallel()

	tests := map[Platform]string{
		PlatformNaver:   "https://rss.blog.naver.com/dev_kim.xml",
		PlatformTistory: "https://dev_kim.tistory.com/rss",
		PlatformVelog:   "https://v2.velog.io/rss/@dev_kim",
		Platform("x"):   "",
	}
	for p, want := range tests {
		if got := p.FeedURL("dev_kim"); got != want {
			t.Errorf("%s.FeedURL() = %q, want %q", p, got, want)
		}
	}
}

func TestPlatformValid(t *testing.T) {
	t.Parallel()

	for _, p := range AllPlatforms {
		if !p.Valid() {
			t.Errorf("%s.Valid() = false", p)
		}
	}
	if Platform("Naver").Valid() {
		t.Error("Valid() must not accept non-canonical case")
	}
}

func TestSubscriptionReference(t *testing.T) {
	t.Parallel()

	registered := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seen := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	s := Subscription{RegisteredAt: registered}
	if !s.Reference().Equal(registered) {
		t.Errorf("Reference() without watermark = %v, want %v", s.Reference(), registered)
	}
	s.LastSeenAt = &seen
	if !s.Reference().Equal(seen) {
		t.Errorf("Reference() with watermark = %v, want %v", s.Reference(), seen)
	}
}

func TestNewestPublished(t *testing.T) {
	t.Parallel()

	if NewestPublished(nil) != nil {
		t.Error("NewestPublished(nil) should be nil")
	}

	d1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	d3 := d1.AddDate(0, 0, 2)
	got := NewestPublished([]Article{
		{Link: "a", PublishedAt: d1},
		{Link: "c", PublishedAt: d3},
		{Link: "b", PublishedAt: d1.AddDate(0, 0, 1)},
	})
	if got == nil || !got.Equal(d3) {
		t.Errorf("NewestPublished() = %v, want %v", got, d3)
	}
}

func TestIsTopic(t *testing.T) {
	t.Parallel()

	if len(Topics) != 11 {
		t.Fatalf("vocabulary size = %d, want 11", len(Topics))
	}
	for _, topic := range Topics {
		if !IsTopic(string(topic)) {
			t.Errorf("IsTopic(%q) = false", topic)
		}
	}
	for _, s := range []string{"기술", "기술/프로그래밍", "", "Tech"} {
		if IsTopic(s) {
			t.Errorf("IsTopic(%q) = true, want false", s)
		}
	}
}

func TestRefreshSignalWireShape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sig  RefreshSignal
		want string
	}{
		{"init", InitSignal(3), `{"type":"init","count":3}`},
		{"progress", ProgressSignal(), `{"type":"progress"}`},
		{
			"init platform register",
			InitPlatformRegisterSignal("u1", PlatformVelog, 12),
			`{"type":"init_platform_register","count":12,"user_id":"u1","platform":"velog"}`,
		},
		{
			"progress platform register",
			ProgressPlatformRegisterSignal("u1", PlatformVelog),
			`{"type":"progress_platform_register","user_id":"u1","platform":"velog"}`,
		},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.sig)
		if err != nil {
			t.Fatalf("%s: marshal: %v", tt.name, err)
		}
		if string(data) != tt.want {
			t.Errorf("%s: got %s, want %s", tt.name, data, tt.want)
		}
	}
}

func TestRefreshSignalValidate(t *testing.T) {
	t.Parallel()

	valid := []RefreshSignal{
		InitSignal(0),
		ProgressSignal(),
		InitPlatformRegisterSignal("u1", PlatformNaver, 1),
		ProgressPlatformRegisterSignal("u1", PlatformNaver),
	}
	for _, s := range valid {
		if err := s.Validate(); err != nil {
			t.Errorf("Validate(%+v) = %v", s, err)
		}
	}

	invalid := []RefreshSignal{
		{Type: "reset"},
		{Type: RefreshProgressPlatformRegister},
	}
	for _, s := range invalid {
		if err := s.Validate(); !errors.Is(err, ErrMalformed) {
			t.Errorf("Validate(%+v) = %v, want ErrMalformed", s, err)
		}
	}
}

func TestNewPostEventWireShape(t *testing.T) {
	t.Parallel()

	published := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	ev := NewNewPostEvent("u1", PlatformTistory, &Article{
		Title:       "Go 제네릭 정리",
		Link:        "https://dev.tistory.com/12",
		PublishedAt: published,
		Tags:        []string{"go"},
	})

	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{
		`"user_id":"u1"`,
		`"platform":"tistory"`,
		`"article":{"link":"https://dev.tistory.com/12","published_at":"2026-03-02T09:30:00Z","title":"Go 제네릭 정리"}`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("payload %s missing %s", s, want)
		}
	}
	if err := ev.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestPostEventValidate(t *testing.T) {
	t.Parallel()

	bad := []BacklogEvent{
		{Platform: PlatformNaver, Link: "l"},
		{UserID: "u", Platform: "medium", Link: "l"},
		{UserID: "u", Platform: PlatformNaver},
	}
	for _, e := range bad {
		if err := e.Validate(); !errors.Is(err, ErrMalformed) {
			t.Errorf("Validate(%+v) = %v, want ErrMalformed", e, err)
		}
	}
}
