package api

import (
	"net/http"
	"time"

	"github.com/hiredeck/hiredeck/internal/billing"
	"github.com/hiredeck/hiredeck/internal/health"
	"github.com/hiredeck/hiredeck/internal/lifecycle"
	"github.com/hiredeck/hiredeck/internal/report"
	"github.com/hiredeck/hiredeck/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

const rateLimitPerMinute = 120

type Config struct {
	Store          store.Store
	Assembler      *report.Assembler
	Lifecycle      *lifecycle.Service
	Webhook        *billing.WebhookHandler
	JWTSecret      string
	RequestTimeout time.Duration
	Pool           *pgxpool.Pool
	RedisClient    *redis.Client
}

func NewRouter(cfg *Config) http.Handler {
	mux := http.NewServeMux()

	healthChecker := health.NewChecker(cfg.Pool, cfg.RedisClient)
	mux.HandleFunc("GET /health", health.HealthHandler(healthChecker))
	mux.HandleFunc("GET /health/live", health.LivenessHandler())
	mux.HandleFunc("GET /health/ready", health.ReadinessHandler(healthChecker))

	mux.Handle("GET /metrics", promhttp.Handler())

	// Stripe signs its own requests; the webhook sits outside JWT auth.
	if cfg.Webhook != nil {
		mux.HandleFunc("POST /v1/webhooks/stripe", cfg.Webhook.Handle)
	}

	apiMux := http.NewServeMux()

	apiMux.HandleFunc("GET /v1/reports/dashboard",
		requireRole(dashboardHandler(cfg), store.RoleRecruiter, store.RoleTeamMember))
	apiMux.HandleFunc("GET /v1/reports/overview",
		requireRole(overviewHandler(cfg)))
	apiMux.HandleFunc("GET /v1/reports/company/{id}",
		requireRole(companyReportHandler(cfg), store.RoleRecruiter, store.RoleTeamMember))

	apiMux.HandleFunc("POST /v1/applications/{id}/status",
		requireRole(transitionHandler(cfg), store.RoleRecruiter, store.RoleTeamMember))

	apiMux.HandleFunc("GET /v1/notifications", notificationsHandler(cfg))

	limiter := NewRedisRateLimiter(cfg.RedisClient, rateLimitPerMinute, time.Minute)
	mux.Handle("/v1/", AuthMiddleware(cfg.JWTSecret)(RateLimit(limiter)(apiMux)))

	return mux
}
