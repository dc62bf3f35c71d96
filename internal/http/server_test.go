package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/analytics"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/records"
)

type failingSource struct{ err error }

func (f failingSource) Transactions(context.Context, string, core.DateRange) ([]core.Transaction, error) {
	return nil, f.err
}
func (f failingSource) Goals(context.Context, string) ([]core.Goal, error)     { return nil, f.err }
func (f failingSource) Budgets(context.Context, string) ([]core.Budget, error) { return nil, f.err }

func newTestServer(t *testing.T, source records.Source, opts Options) *Server {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	store := cache.NewLRUCache[any](100, time.Minute, clock)
	engine := analytics.NewEngine(source, store, clock, log.Discard())
	opts.Logger = log.Discard()
	srv := NewServer(":0", engine, opts)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func seededSource(t *testing.T) *records.MemorySource {
	t.Helper()
	ctx := context.Background()
	src := records.NewMemorySource()
	txs := []core.Transaction{
		{UserID: "u1", Amount: decimal.NewFromInt(3000), Type: core.Income, Category: "Salary", Date: core.NewDate(2025, 1, 1)},
		{UserID: "u1", Amount: decimal.NewFromInt(-400), Type: core.Expense, Category: "Food", Date: core.NewDate(2025, 1, 5)},
		{UserID: "u1", Amount: decimal.NewFromInt(200), Type: core.Expense, Category: "Transport", Date: core.NewDate(2025, 1, 10)},
		{UserID: "u2", Amount: decimal.NewFromInt(50), Type: core.Expense, Category: "Food", Date: core.NewDate(2025, 1, 3)},
	}
	for _, tx := range txs {
		_, err := src.AddTransaction(ctx, tx)
		require.NoError(t, err)
	}
	_, err := src.AddBudget(ctx, core.Budget{UserID: "u1", Category: "food", Amount: decimal.NewFromInt(450)}, true)
	require.NoError(t, err)
	return src
}

func get(t *testing.T, srv *Server, target, user string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if user != "" {
		req.Header.Set(UserIDHeader, user)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, records.NewMemorySource(), Options{})

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := get(t, srv, path, "")
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}
}

func TestReadyReportsPingFailure(t *testing.T) {
	srv := newTestServer(t, records.NewMemorySource(), Options{
		Ping: func(context.Context) error { return errors.New("db down") },
	})

	rr := get(t, srv, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestDashboardEndpoint(t *testing.T) {
	srv := newTestServer(t, seededSource(t), Options{})

	rr := get(t, srv, "/api/analytics/dashboard?startDate=2025-01-01&endDate=2025-01-31", "u1")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	var got analytics.DashboardSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 3000.0, got.TotalIncome)
	assert.Equal(t, 600.0, got.TotalExpenses)
	assert.Equal(t, 2400.0, got.NetSavings)
	assert.Equal(t, 80.0, got.SavingsRate)
	assert.Len(t, got.RecentTransactions, 3)
}

func TestEveryViewRoute(t *testing.T) {
	srv := newTestServer(t, seededSource(t), Options{})

	routes := []string{
		"dashboard", "spending-trends", "categories", "goals", "income-trends",
		"savings-trends", "insights", "budgets", "current-month",
	}
	for _, route := range routes {
		t.Run(route, func(t *testing.T) {
			rr := get(t, srv, "/api/analytics/"+route, "u1")
			assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			assert.NotContains(t, rr.Body.String(), "null")
		})
	}
}

func TestUserFromQueryParameter(t *testing.T) {
	srv := newTestServer(t, seededSource(t), Options{})

	rr := get(t, srv, "/api/analytics/categories?userId=u2", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var got analytics.CategoryAnalysis
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got.Categories, 1)
	assert.Equal(t, "Food", got.Categories[0].Category)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		source records.Source
		target string
		user   string
		want   int
	}{
		{"missing user", records.NewMemorySource(), "/api/analytics/dashboard", "", http.StatusBadRequest},
		{"inverted range", records.NewMemorySource(), "/api/analytics/dashboard?startDate=2025-02-01&endDate=2025-01-01", "u1", http.StatusBadRequest},
		{"unparseable date", records.NewMemorySource(), "/api/analytics/insights?startDate=soon", "u1", http.StatusBadRequest},
		{"upstream failure", failingSource{err: errors.New("connection reset")}, "/api/analytics/dashboard", "u1", http.StatusBadGateway},
		{"wrong method", records.NewMemorySource(), "/api/analytics/dashboard", "u1", http.StatusMethodNotAllowed},
		{"unknown view", records.NewMemorySource(), "/api/analytics/forecast", "u1", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.source, Options{})
			method := http.MethodGet
			if tt.name == "wrong method" {
				method = http.MethodDelete
			}
			req := httptest.NewRequest(method, tt.target, nil)
			if tt.user != "" {
				req.Header.Set(UserIDHeader, tt.user)
			}
			rr := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code, rr.Body.String())
		})
	}
}

func TestUpstreamErrorHidesDetails(t *testing.T) {
	srv := newTestServer(t, failingSource{err: errors.New("dial tcp 10.0.0.7:27017: refused")}, Options{})

	rr := get(t, srv, "/api/analytics/budgets", "u1")
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.NotContains(t, rr.Body.String(), "10.0.0.7")
}

func TestInvalidateEndpoint(t *testing.T) {
	srv := newTestServer(t, seededSource(t), Options{})

	get(t, srv, "/api/analytics/dashboard", "u1")
	get(t, srv, "/api/analytics/insights", "u1")
	get(t, srv, "/api/analytics/dashboard", "u2")

	req := httptest.NewRequest(http.MethodPost, "/api/analytics/invalidate", nil)
	req.Header.Set(UserIDHeader, "u1")
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var got invalidateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, 2, got.Removed)
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, seededSource(t), Options{RateLimitPerMinute: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, get(t, srv, "/api/analytics/goals", "u1").Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// Health checks are not limited.
	assert.Equal(t, http.StatusOK, get(t, srv, "/healthz", "").Code)
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t, records.NewMemorySource(), Options{})
	rr := get(t, srv, "/healthz", "")
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.True(t, strings.Contains(rr.Header().Get("Cache-Control"), "no-store"))
}
