package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSentinel/internal/collector"
	"StockSentinel/internal/model"
	"StockSentinel/internal/report"
)

func testServer(bars []model.PriceBar) *Server {
	a := report.New(&collector.MockFetcher{Bars: bars}, collector.StaticNames{"005930": "Samsung"}, 120)
	return New(DefaultConfig(), a)
}

func flatBars(n int) []model.PriceBar {
	day0 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, n)
	for i := range bars {
		bars[i] = model.PriceBar{Date: day0.AddDate(0, 0, i), Open: 100, High: 101, Low: 99, Close: 100, Volume: 1000}
	}
	return bars
}

func get(t *testing.T, s *Server, target string, header http.Header) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestHealth(t *testing.T) {
	rec, body := get(t, testServer(nil), "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Len(t, rec.Header().Get("X-Request-ID"), 8)
}

func TestStockReport(t *testing.T) {
	rec, body := get(t, testServer(flatBars(50)), "/api/stock/005930?date=2026-04-10", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])

	meta := body["meta"].(map[string]any)
	assert.Equal(t, "2026-04-10", meta["as_of"])
	assert.Equal(t, "Samsung", meta["stock_name"])
	assert.Contains(t, body["results"], "warning")
}

func TestStockReport_FailureIsStructured(t *testing.T) {
	rec, body := get(t, testServer(flatBars(50)), "/api/stock/005930?date=not-a-date", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["ok"])
	assert.Contains(t, body["error"].(map[string]any)["message"], "YYYY-MM-DD")
}

func TestReleaseEndpoint(t *testing.T) {
	_, body := get(t, testServer(flatBars(20)), "/api/release/005930?designation_date=2026-03-15", nil)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "awaiting_first_determination", body["status"])
	assert.Equal(t, "2026-03-15", body["designation_date"])

	_, body = get(t, testServer(flatBars(20)), "/api/release/005930", nil)
	assert.Equal(t, false, body["ok"])
}

func TestCORS(t *testing.T) {
	s := testServer(flatBars(20))

	rec, _ := get(t, s, "/health", http.Header{"Origin": {"http://localhost:5173"}})
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec, _ = get(t, s, "/health", http.Header{"Origin": {"https://evil.example"}})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodOptions, "/api/stock/005930", nil)
	req.Header.Set("Origin", "http://127.0.0.1:5173")
	pre := httptest.NewRecorder()
	s.Handler().ServeHTTP(pre, req)
	assert.Equal(t, http.StatusOK, pre.Code)
	assert.Equal(t, "http://127.0.0.1:5173", pre.Header().Get("Access-Control-Allow-Origin"))
}

func TestNotFound(t *testing.T) {
	rec, body := get(t, testServer(nil), "/api/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["ok"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := testServer(flatBars(20))
	get(t, s, "/health", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `sentinel_http_requests_total{code="200",route="/health"}`)
}
