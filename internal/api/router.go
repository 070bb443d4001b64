// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package api

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/jandi/internal/cache"
	"github.com/tomtom215/jandi/internal/config"
	"github.com/tomtom215/jandi/internal/middleware"
	"github.com/tomtom215/jandi/internal/models"
	"github.com/tomtom215/jandi/internal/registration"
)

// Registrar registers and unregisters platform accounts.
type Registrar interface {
	Register(ctx context.Context, req registration.Request) (models.RegisterResult, error)
	Unregister(ctx context.Context, req registration.UnregisterRequest) error
}

// Store is the read side the API serves from.
type Store interface {
	ListUserSubscriptions(ctx context.Context, userID string) ([]models.Subscription, error)
	DailyActivity(ctx context.Context, userID string, from, to time.Time) ([]models.ActivityRow, error)
	TopicStats(ctx context.Context, userID string) ([]models.TopicStat, error)
	RefreshAggregates(ctx context.Context) error
	Ping(ctx context.Context) error
}

// Config tunes the router.
type Config struct {
	RateLimitReqs   int
	RateLimitWindow time.Duration
	MaxBodyBytes    int64
	HealthTimeout   time.Duration

	// CacheTTL enables the read cache for activity and topics when positive.
	CacheTTL time.Duration

	// CORSOrigins enables CORS on /api for the listed origins.
	CORSOrigins []string
}

// ConfigFrom maps the server config section onto a router Config.
func ConfigFrom(cfg config.ServerConfig) Config {
	return Config{
		RateLimitReqs:   cfg.RateLimitReqs,
		RateLimitWindow: cfg.RateLimitWindow,
		CacheTTL:        cfg.CacheTTL,
		CORSOrigins:     cfg.CORSOrigins,
	}
}

// Router serves the admin API.
type Router struct {
	registrar Registrar
	store     Store
	cache     *cache.Cache
	config    Config
}

// NewRouter creates a router. Zero config fields take defaults.
func NewRouter(registrar Registrar, store Store, cfg Config) *Router {
	if cfg.RateLimitReqs <= 0 {
		cfg.RateLimitReqs = 60
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Minute
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 64 << 10
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = 2 * time.Second
	}
	rt := &Router{registrar: registrar, store: store, config: cfg}
	if cfg.CacheTTL > 0 {
		rt.cache = cache.New(cfg.CacheTTL)
	}
	return rt
}

// Cache returns the read cache, or nil when disabled. Its Serve method
// evicts expired entries and should run alongside the server.
func (rt *Router) Cache() *cache.Cache {
	return rt.cache
}

// cached serves key from the read cache, filling it from load on a miss.
func (rt *Router) cached(key string, load func() (interface{}, error)) (interface{}, error) {
	if rt.cache == nil {
		return load()
	}
	if v, ok := rt.cache.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return nil, err
	}
	rt.cache.Set(key, v)
	return v, nil
}

func (rt *Router) invalidateUser(userID string) {
	if rt.cache != nil {
		rt.cache.DeletePrefix(cache.UserPrefix(userID))
	}
}

// Handler builds the chi route tree.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Metrics)

	r.Get("/healthz", rt.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if len(rt.config.CORSOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: rt.config.CORSOrigins,
				AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
				AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
				ExposedHeaders: []string{middleware.RequestIDHeader},
				MaxAge:         300,
			}))
		}
		r.Use(httprate.Limit(
			rt.config.RateLimitReqs,
			rt.config.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(rateLimited),
		))

		r.Put("/platforms", rt.RegisterPlatform)
		r.Delete("/platforms", rt.UnregisterPlatform)
		r.Post("/recompute", rt.Recompute)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/platforms", rt.UserPlatforms)
			r.Get("/activity", rt.UserActivity)
			r.Get("/topics", rt.UserTopics)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeBadRequest, "method not allowed", nil)
	})

	return r
}

func rateLimited(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Error(http.StatusTooManyRequests, ErrCodeTooManyRequests, "rate limit exceeded", nil)
}

// NewServer builds the *http.Server for the api role.
func NewServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
}
