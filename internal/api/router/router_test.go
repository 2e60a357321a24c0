package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/creativeiyke/agency-platform/internal/content"
	"github.com/creativeiyke/agency-platform/internal/http/middleware"
	"github.com/creativeiyke/agency-platform/internal/notify"
	"github.com/creativeiyke/agency-platform/internal/qualify"
	"github.com/creativeiyke/agency-platform/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, rateLimit func(http.Handler) http.Handler) http.Handler {
	t.Helper()

	logger := logging.NewWithWriter(io.Discard, "error")
	catalog, err := content.Load()
	require.NoError(t, err)
	store := qualify.NewSessionStore(qualify.StoreConfig{
		Analyzer:  qualify.AnalyzerFunc(func(context.Context, string) (string, error) { return "ok", nil }),
		Sink:      notify.NewLogSink("ops@example.com", logger),
		Scheduler: qualify.NewManualScheduler(),
	}, logger)

	return New(&Config{
		Logger:             logger,
		WidgetHandler:      qualify.NewHandler(store, logger),
		ContentHandler:     content.NewHandler(catalog, logger),
		MetricsHandler:     promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{}),
		CORSAllowedOrigins: []string{"https://creativeiyke.com"},
		RateLimit:          rateLimit,
	})
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWidgetAndContentMounted(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/widget/sessions", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	var st qualify.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, qualify.ViewInput, st.View)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/content/pages", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var pages []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pages))
	assert.Equal(t, "home", pages[0])
}

func TestCORSPreflightOnWidget(t *testing.T) {
	router := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/widget/sessions", nil)
	req.Header.Set("Origin", "https://creativeiyke.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://creativeiyke.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitAppliesToWidgetOnly(t *testing.T) {
	router := newTestRouter(t, middleware.NewRateLimiter(0.001, 1).Middleware)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/widget/sessions", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusTooManyRequests}, codes)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/content/steps", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
