package server

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestIDGenerated(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-Request-Id")
	})

	rr := httptest.NewRecorder()
	RequestID(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if seen == "" {
		t.Fatal("no request id assigned")
	}
	if got := rr.Header().Get("X-Request-Id"); got != seen {
		t.Errorf("response id = %q, request id = %q", got, seen)
	}
}

func TestRequestIDPreserved(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "caller-id")
	rr := httptest.NewRecorder()
	RequestID(next).ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-Id"); got != "caller-id" {
		t.Errorf("response id = %q, want caller-id", got)
	}
}

func TestAccessLogRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	rr := httptest.NewRecorder()
	AccessLog(logger)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/maven/releases/a", nil))

	line := buf.String()
	if !strings.Contains(line, "status=403") {
		t.Errorf("log line missing status: %q", line)
	}
	if !strings.Contains(line, "method=PUT") {
		t.Errorf("log line missing method: %q", line)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	m := NewMetrics()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	rr := httptest.NewRecorder()
	m.Middleware(next).ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/maven/releases/a", nil))

	rr = httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rr.Body)

	if !strings.Contains(string(body), `mvnio_http_requests_total{method="PUT",status_code="201"} 1`) {
		t.Errorf("scrape missing request counter:\n%s", body)
	}
}
