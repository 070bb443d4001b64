// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/jandi/internal/cache"
	"github.com/tomtom215/jandi/internal/database"
	"github.com/tomtom215/jandi/internal/metrics"
	"github.com/tomtom215/jandi/internal/models"
	"github.com/tomtom215/jandi/internal/registration"
	"github.com/tomtom215/jandi/internal/validation"
)

const defaultActivityDays = 30

type userPath struct {
	UserID string `json:"user_id" validate:"required,max=128"`
}

type activityQuery struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Days int    `json:"days" validate:"min=1,max=366"`
}

// RecomputeResult is returned by POST /api/recompute.
type RecomputeResult struct {
	Refreshed  bool  `json:"refreshed"`
	DurationMS int64 `json:"duration_ms"`
}

// RegisterPlatform handles PUT /api/platforms.
func (rt *Router) RegisterPlatform(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req registration.Request
	if err := rt.decode(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}

	result, err := rt.registrar.Register(r.Context(), req)
	var verr *validation.RequestValidationError
	switch {
	case err == nil:
		rt.invalidateUser(req.UserID)
		rw.Success(result)
	case errors.As(err, &verr):
		rw.ValidationError(verr)
	case errors.Is(err, models.ErrUnknownPlatform):
		rw.BadRequest(err.Error())
	case errors.Is(err, registration.ErrFeedUnavailable):
		rw.ExternalServiceError("feed", err)
	default:
		rw.InternalError(err)
	}
}

// UnregisterPlatform handles DELETE /api/platforms.
func (rt *Router) UnregisterPlatform(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req registration.UnregisterRequest
	if err := rt.decode(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}

	err := rt.registrar.Unregister(r.Context(), req)
	var verr *validation.RequestValidationError
	switch {
	case err == nil:
		rt.invalidateUser(req.UserID)
		rw.Success(map[string]string{"user_id": req.UserID, "platform": req.Platform})
	case errors.As(err, &verr):
		rw.ValidationError(verr)
	case errors.Is(err, database.ErrNotFound):
		rw.NotFound("platform is not registered for this user")
	default:
		rw.DatabaseError(err)
	}
}

// UserPlatforms handles GET /api/users/{userID}/platforms.
func (rt *Router) UserPlatforms(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID, ok := pathUser(rw, r)
	if !ok {
		return
	}

	subs, err := rt.store.ListUserSubscriptions(r.Context(), userID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	if subs == nil {
		subs = []models.Subscription{}
	}
	rw.Success(subs)
}

// UserActivity handles GET /api/users/{userID}/activity. The window is the
// days ending at date (today when omitted), both ends inclusive.
func (rt *Router) UserActivity(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID, ok := pathUser(rw, r)
	if !ok {
		return
	}

	q := activityQuery{Date: r.URL.Query().Get("date"), Days: defaultActivityDays}
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			rw.BadRequest("days must be an integer")
			return
		}
		q.Days = n
	}
	if verr := validation.ValidateStruct(&q); verr != nil {
		rw.ValidationError(verr)
		return
	}

	to := time.Now().UTC()
	if q.Date != "" {
		// Already validated against the same layout.
		to, _ = time.Parse(models.LastUploadLayout, q.Date)
	}
	from := to.AddDate(0, 0, -(q.Days - 1))

	key := cache.UserKey(userID, cache.GenerateKey("activity", []string{
		from.Format(models.LastUploadLayout), to.Format(models.LastUploadLayout),
	}))
	rows, err := rt.cached(key, func() (interface{}, error) {
		rows, err := rt.store.DailyActivity(r.Context(), userID, from, to)
		if rows == nil {
			rows = []models.ActivityRow{}
		}
		return rows, err
	})
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(rows)
}

// UserTopics handles GET /api/users/{userID}/topics.
func (rt *Router) UserTopics(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID, ok := pathUser(rw, r)
	if !ok {
		return
	}

	stats, err := rt.cached(cache.UserKey(userID, "topics"), func() (interface{}, error) {
		stats, err := rt.store.TopicStats(r.Context(), userID)
		if stats == nil {
			stats = []models.TopicStat{}
		}
		return stats, err
	})
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(stats)
}

// Recompute handles POST /api/recompute.
func (rt *Router) Recompute(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	start := time.Now()
	err := rt.store.RefreshAggregates(r.Context())
	metrics.RecordRecompute(time.Since(start), err)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	if rt.cache != nil {
		rt.cache.Clear()
	}
	rw.Success(RecomputeResult{Refreshed: true, DurationMS: time.Since(start).Milliseconds()})
}

// Health handles GET /healthz.
func (rt *Router) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), rt.config.HealthTimeout)
	defer cancel()

	if err := rt.store.Ping(ctx); err != nil {
		rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "database unreachable",
			map[string]interface{}{"database": err.Error()})
		return
	}
	rw.Success(map[string]string{"status": "ok", "database": "ok"})
}

func pathUser(rw *ResponseWriter, r *http.Request) (string, bool) {
	p := userPath{UserID: chi.URLParam(r, "userID")}
	if verr := validation.ValidateStruct(&p); verr != nil {
		rw.ValidationError(verr)
		return "", false
	}
	return p.UserID, true
}

// decode reads one JSON object, rejecting unknown fields and oversized bodies.
func (rt *Router) decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, rt.config.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
