// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": [{"category": "기술 / 프로그래밍", "post_count": 12}],
//	  "metadata": {"timestamp": "2026-03-02T12:00:00Z", "query_time_ms": 3}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "platform must be one of: naver, tistory, velog",
//	    "details": {"field": "platform"}
//	  },
//	  "metadata": {"timestamp": "2026-03-02T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError represents a structured error in API responses.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ActivityRow is one (day, category) cell of a user's activity grid.
type ActivityRow struct {
	Day       time.Time `json:"day"`
	Category  Topic     `json:"category"`
	PostCount int       `json:"post_count"`
}

// TopicStat is a user's post count for one category.
type TopicStat struct {
	Category  Topic `json:"category"`
	PostCount int   `json:"post_count"`
}

// RegisterResult reports what a platform registration queued.
type RegisterResult struct {
	UserID    string     `json:"user_id"`
	Platform  Platform   `json:"platform"`
	AccountID string     `json:"account_id"`
	Backlog   int        `json:"backlog"`
	Watermark *time.Time `json:"watermark,omitempty"`
}
