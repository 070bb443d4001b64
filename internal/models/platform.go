// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package models

import (
	"errors"
	"fmt"
	"strings"
)

// Platform is a supported blog platform.
type Platform string

const (
	PlatformNaver   Platform = "naver"
	PlatformTistory Platform = "tistory"
	PlatformVelog   Platform = "velog"
)

// AllPlatforms lists every supported platform.
var AllPlatforms = []Platform{PlatformNaver, PlatformTistory, PlatformVelog}

// ErrUnknownPlatform is returned by ParsePlatform for names outside AllPlatforms.
var ErrUnknownPlatform = errors.New("unknown platform")

// ParsePlatform normalizes and validates a platform name.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PlatformNaver, PlatformTistory, PlatformVelog:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
	}
}

// Valid reports whether p is one of the supported platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformNaver, PlatformTistory, PlatformVelog:
		return true
	default:
		return false
	}
}

func (p Platform) String() string {
	return string(p)
}

// FeedURL returns the RSS address for an account on this platform.
func (p Platform) FeedURL(accountID string) string {
	switch p {
	case PlatformNaver:
		return "https://rss.blog.naver.com/" + accountID + ".xml"
	case PlatformTistory:
		return "https://" + accountID + ".tistory.com/rss"
	case PlatformVelog:
		return "https://v2.velog.io/rss/@" + accountID
	default:
		return ""
	}
}
