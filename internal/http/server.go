// Package http exposes the analytics views as a JSON API. Requests are
// parsed in request_parser.go and answered through ResponseBuilder.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/analytics"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/trace"
)

// Analytics is the engine surface the HTTP adapter serves.
type Analytics interface {
	DashboardSummary(ctx context.Context, userID string, start, end time.Time) (analytics.DashboardSummary, error)
	SpendingTrends(ctx context.Context, userID string, start, end time.Time) (analytics.SpendingTrends, error)
	CategoryAnalysis(ctx context.Context, userID string, start, end time.Time) (analytics.CategoryAnalysis, error)
	GoalsProgress(ctx context.Context, userID string) (analytics.GoalsProgress, error)
	IncomeTrends(ctx context.Context, userID string, start, end time.Time) (analytics.IncomeTrends, error)
	SavingsTrends(ctx context.Context, userID string, start, end time.Time) (analytics.SavingsTrends, error)
	TransactionInsights(ctx context.Context, userID string, start, end time.Time) (analytics.TransactionInsights, error)
	BudgetPerformance(ctx context.Context, userID string, start, end time.Time) (analytics.BudgetPerformance, error)
	CurrentMonthSnapshot(ctx context.Context, userID string) (analytics.MonthSnapshot, error)
	InvalidateUser(ctx context.Context, userID string) int
}

// PingFunc reports whether the record source is reachable.
type PingFunc func(ctx context.Context) error

// Options tune the server. Zero values pick defaults.
type Options struct {
	RateLimitPerMinute int
	Ping               PingFunc
	Logger             *log.Logger
}

type Server struct {
	http.Server
	engine      Analytics
	ping        PingFunc
	logger      *log.Logger
	rateLimiter *ratelimit.Limiter
	tracer      *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, engine Analytics, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		engine: engine,
		ping:   opts.Ping,
		logger: logger,
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
		tracer: trace.NewMiddleware(clientIP, logger),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/analytics/dashboard", s.handleDashboard)
	api.HandleFunc("GET /api/analytics/spending-trends", s.handleSpendingTrends)
	api.HandleFunc("GET /api/analytics/categories", s.handleCategories)
	api.HandleFunc("GET /api/analytics/goals", s.handleGoals)
	api.HandleFunc("GET /api/analytics/income-trends", s.handleIncomeTrends)
	api.HandleFunc("GET /api/analytics/savings-trends", s.handleSavingsTrends)
	api.HandleFunc("GET /api/analytics/insights", s.handleInsights)
	api.HandleFunc("GET /api/analytics/budgets", s.handleBudgets)
	api.HandleFunc("GET /api/analytics/current-month", s.handleCurrentMonth)
	api.HandleFunc("POST /api/analytics/invalidate", s.handleInvalidate)

	limited := s.rateLimiter.Middleware(clientIP, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, clientIP(r),
			log.FieldPath, r.URL.Path)
		ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, please try again later").Write(w)
	})(api)
	mux.Handle("/api/", limited)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.tracer.Middleware(withSecurityHeaders(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and the rate limiter cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := s.ping(ctx); err != nil {
			s.logger.WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
