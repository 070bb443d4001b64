// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package scheduler

import (
	"testing"
	"time"
)

func TestParseCron_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr string
		zone string
	}{
		{"too few fields", "0 9 * *", ""},
		{"minute out of range", "60 * * * *", ""},
		{"backwards range", "0 10-8 * * *", ""},
		{"zero step", "*/0 * * * *", ""},
		{"not a number", "a * * * *", ""},
		{"day zero", "0 0 0 * *", ""},
		{"unknown zone", "0 9 * * *", "Mars/Olympus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ParseCron(tt.expr, tt.zone); err == nil {
				t.Errorf("ParseCron(%q, %q) expected error", tt.expr, tt.zone)
			}
		})
	}
}

func TestCron_Next(t *testing.T) {
	t.Parallel()

	// Wednesday.
	base := time.Date(2026, 3, 18, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		expr string
		want time.Time
	}{
		{"daily later today", "0 12 * * *", time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)},
		{"daily tomorrow", "0 9 * * *", time.Date(2026, 3, 19, 9, 0, 0, 0, time.UTC)},
		{"every 15 minutes", "*/15 * * * *", time.Date(2026, 3, 18, 10, 45, 0, 0, time.UTC)},
		{"next monday", "0 9 * * 1", time.Date(2026, 3, 23, 9, 0, 0, 0, time.UTC)},
		{"sunday as 7", "0 0 * * 7", time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC)},
		{"first of month", "0 0 1 * *", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
		{"list of hours", "0 6,18 * * *", time.Date(2026, 3, 18, 18, 0, 0, 0, time.UTC)},
		{"dom or dow", "0 0 20 * 5", time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)},
		{"year rollover", "0 0 1 1 *", time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, err := ParseCron(tt.expr, "")
			if err != nil {
				t.Fatalf("ParseCron(%q) error = %v", tt.expr, err)
			}
			if got := c.Next(base); !got.Equal(tt.want) {
				t.Errorf("Next() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCron_NextStrictlyAfter(t *testing.T) {
	t.Parallel()

	c, err := ParseCron("0 9 * * *", "")
	if err != nil {
		t.Fatal(err)
	}
	at := time.Date(2026, 3, 18, 9, 0, 0, 0, time.UTC)
	if got := c.Next(at); !got.Equal(at.AddDate(0, 0, 1)) {
		t.Errorf("Next(%v) = %v, want the following day", at, got)
	}
}

func TestCron_Timezone(t *testing.T) {
	t.Parallel()

	c, err := ParseCron("0 9 * * *", "Asia/Seoul")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 09:00 KST is 00:00 UTC.
	got := c.Next(time.Date(2026, 3, 18, 1, 0, 0, 0, time.UTC))
	if want := time.Date(2026, 3, 19, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("Next() = %v, want %v", got.UTC(), want)
	}
}

func TestCron_Impossible(t *testing.T) {
	t.Parallel()

	c, err := ParseCron("0 0 30 2 *", "")
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Next(time.Now()); !got.IsZero() {
		t.Errorf("Next() = %v, want zero time", got)
	}
}

func TestEvery(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := Every(time.Hour).Next(at); !got.Equal(at.Add(time.Hour)) {
		t.Errorf("Next() = %v", got)
	}
}
