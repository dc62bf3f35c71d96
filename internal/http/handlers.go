package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

// serveRanged handles the views that take a user and an optional date range.
func serveRanged[T any](s *Server, w http.ResponseWriter, r *http.Request, view string, fn func(context.Context, string, time.Time, time.Time) (T, error)) {
	userID, err := ParseUserID(r)
	if err != nil {
		s.writeError(w, r, view, err)
		return
	}
	params, err := ParseRangeParams(r.URL.Query())
	if err != nil {
		s.writeError(w, r, view, err)
		return
	}
	result, err := fn(r.Context(), userID, params.Start, params.End)
	if err != nil {
		s.writeError(w, r, view, err)
		return
	}
	JSON(http.StatusOK, result).Write(w)
}

func serveUser[T any](s *Server, w http.ResponseWriter, r *http.Request, view string, fn func(context.Context, string) (T, error)) {
	userID, err := ParseUserID(r)
	if err != nil {
		s.writeError(w, r, view, err)
		return
	}
	result, err := fn(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, view, err)
		return
	}
	JSON(http.StatusOK, result).Write(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	serveRanged(s, w, r, analytics.ViewDashboard, s.engine.DashboardSummary)
}

func (s *Server) handleSpendingTrends(w http.ResponseWriter, r *http.Request) {
	serveRanged(s, w, r, analytics.ViewSpendingTrends, s.engine.SpendingTrends)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	serveRanged(s, w, r, analytics.ViewCategories, s.engine.CategoryAnalysis)
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	serveUser(s, w, r, analytics.ViewGoals, s.engine.GoalsProgress)
}

func (s *Server) handleIncomeTrends(w http.ResponseWriter, r *http.Request) {
	serveRanged(s, w, r, analytics.ViewIncomeTrends, s.engine.IncomeTrends)
}

func (s *Server) handleSavingsTrends(w http.ResponseWriter, r *http.Request) {
	serveRanged(s, w, r, analytics.ViewSavingsTrends, s.engine.SavingsTrends)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	serveRanged(s, w, r, analytics.ViewInsights, s.engine.TransactionInsights)
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	serveRanged(s, w, r, analytics.ViewBudgets, s.engine.BudgetPerformance)
}

func (s *Server) handleCurrentMonth(w http.ResponseWriter, r *http.Request) {
	serveUser(s, w, r, analytics.ViewCurrentMonth, s.engine.CurrentMonthSnapshot)
}

type invalidateResponse struct {
	UserID  string `json:"userId"`
	Removed int    `json:"removed"`
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	userID, err := ParseUserID(r)
	if err != nil {
		s.writeError(w, r, "invalidate", err)
		return
	}
	removed := s.engine.InvalidateUser(r.Context(), userID)
	JSON(http.StatusOK, invalidateResponse{UserID: userID, Removed: removed}).Write(w)
}

// writeError maps engine errors to status codes. Upstream failures are
// reported to Sentry; internal details never reach the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, view string, err error) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	var upstream *analytics.UpstreamQueryError
	switch {
	case errors.Is(err, core.ErrInvalidRange), errors.Is(err, ErrInvalidDate):
		ErrorResponse(http.StatusBadRequest, err.Error()).Write(w)
	case errors.Is(err, core.ErrEmptyUser):
		ErrorResponse(http.StatusBadRequest, "missing user id").Write(w)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.WarnContext(ctx, "Request abandoned", log.FieldView, view, log.FieldError, err)
		ErrorResponse(http.StatusServiceUnavailable, "request cancelled").Write(w)
	case errors.As(err, &upstream):
		logger.ErrorContext(ctx, "Record source query failed", log.FieldView, view, log.FieldError, err)
		captureException(ctx, err, view)
		ErrorResponse(http.StatusBadGateway, "record source unavailable").Write(w)
	default:
		logger.ErrorContext(ctx, "View computation failed", log.FieldView, view, log.FieldError, err)
		captureException(ctx, err, view)
		ErrorResponse(http.StatusInternalServerError, "internal error").Write(w)
	}
}

func captureException(ctx context.Context, err error, view string) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("view", view)
		hub.CaptureException(err)
	})
}
