// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Schedule yields the next run time strictly after a given instant.
type Schedule interface {
	Next(after time.Time) time.Time
}

// Every runs at a fixed interval measured from the previous run.
type Every time.Duration

// Next implements Schedule.
func (e Every) Next(after time.Time) time.Time {
	return after.Add(time.Duration(e))
}

// Cron is a parsed five-field cron expression
// (minute hour day-of-month month day-of-week).
//
// Each field is stored as a bit set. Day-of-week accepts 0-7 with both 0
// and 7 meaning Sunday. When day-of-month and day-of-week are both
// restricted either one matching is enough, as in classic cron.
type Cron struct {
	minutes uint64
	hours   uint64
	dom     uint64
	months  uint64
	dow     uint64
	domAny  bool
	dowAny  bool
	loc     *time.Location
}

// ParseCron parses expr and evaluates it in the named IANA zone
// (UTC when zone is empty).
//
//	"0 9 * * *"     every day at 09:00
//	"*/30 8-18 * * 1-5" every half hour during weekday office hours
func ParseCron(expr, zone string) (*Cron, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return nil, fmt.Errorf("cron expression must have 5 fields, got %d", len(fields))
	}

	loc := time.UTC
	if zone != "" {
		var err error
		if loc, err = time.LoadLocation(zone); err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", zone, err)
		}
	}

	c := &Cron{loc: loc, domAny: fields[2] == "*", dowAny: fields[4] == "*"}
	specs := []struct {
		name     string
		dst      *uint64
		min, max int
	}{
		{"minute", &c.minutes, 0, 59},
		{"hour", &c.hours, 0, 23},
		{"day-of-month", &c.dom, 1, 31},
		{"month", &c.months, 1, 12},
		{"day-of-week", &c.dow, 0, 7},
	}
	for i, spec := range specs {
		set, err := parseField(fields[i], spec.min, spec.max)
		if err != nil {
			return nil, fmt.Errorf("invalid %s field: %w", spec.name, err)
		}
		*spec.dst = set
	}
	if c.dow&(1<<7) != 0 {
		c.dow = c.dow&^(1<<7) | 1
	}
	return c, nil
}

// Next implements Schedule. It returns the zero time if nothing matches
// within four years, which only happens for impossible dates like Feb 30.
func (c *Cron) Next(after time.Time) time.Time {
	t := after.In(c.loc).Truncate(time.Minute).Add(time.Minute)
	limit := t.AddDate(4, 0, 0)

	for t.Before(limit) {
		if !has(c.months, int(t.Month())) {
			t = time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, c.loc)
			continue
		}
		if !c.dayMatches(t) {
			t = time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, c.loc)
			continue
		}
		if !has(c.hours, t.Hour()) {
			t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour()+1, 0, 0, 0, c.loc)
			continue
		}
		if !has(c.minutes, t.Minute()) {
			t = t.Add(time.Minute)
			continue
		}
		return t
	}
	return time.Time{}
}

func (c *Cron) dayMatches(t time.Time) bool {
	domMatch := has(c.dom, t.Day())
	dowMatch := has(c.dow, int(t.Weekday()))
	switch {
	case c.domAny && c.dowAny:
		return true
	case c.domAny:
		return dowMatch
	case c.dowAny:
		return domMatch
	default:
		return domMatch || dowMatch
	}
}

func has(set uint64, v int) bool {
	return set&(1<<uint(v)) != 0
}

// parseField accepts *, n, n-m, lists of those, and /step suffixes.
func parseField(field string, minVal, maxVal int) (uint64, error) {
	var set uint64
	for _, part := range strings.Split(field, ",") {
		lo, hi, step := minVal, maxVal, 1

		rangePart := part
		if i := strings.IndexByte(part, '/'); i >= 0 {
			s, err := strconv.Atoi(part[i+1:])
			if err != nil || s <= 0 {
				return 0, fmt.Errorf("invalid step value: %s", part[i+1:])
			}
			step = s
			rangePart = part[:i]
		}

		switch {
		case rangePart == "*":
		case strings.Contains(rangePart, "-"):
			bounds := strings.SplitN(rangePart, "-", 2)
			var err error
			if lo, err = strconv.Atoi(bounds[0]); err != nil {
				return 0, fmt.Errorf("invalid range start: %s", bounds[0])
			}
			if hi, err = strconv.Atoi(bounds[1]); err != nil {
				return 0, fmt.Errorf("invalid range end: %s", bounds[1])
			}
		default:
			v, err := strconv.Atoi(rangePart)
			if err != nil {
				return 0, fmt.Errorf("invalid value: %s", rangePart)
			}
			lo = v
			if step == 1 {
				hi = v
			}
		}

		if lo > hi || lo < minVal || hi > maxVal {
			return 0, fmt.Errorf("value out of range: %s (allowed %d-%d)", part, minVal, maxVal)
		}
		for v := lo; v <= hi; v += step {
			set |= 1 << uint(v)
		}
	}
	return set, nil
}
