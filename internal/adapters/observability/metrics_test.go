package observability_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"playstore/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so the vectors are exported
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveCache("redis", "hit")
	observability.ObserveIngest("apps", observability.IngestCounts{Inserted: 3, Failed: 1}, time.Second)

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, want := range []string{
		"playstore_http_requests_total",
		"playstore_cache_events_total",
		`playstore_ingest_rows_total{dataset="apps",outcome="inserted"}`,
		"playstore_ingest_duration_seconds",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output", want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := observability.NewLogger("prod", &buf)
	l.Info().Str("k", "v").Msg("hello")
	if !strings.Contains(buf.String(), `"message":"hello"`) {
		t.Fatalf("expected JSON line, got %q", buf.String())
	}

	buf.Reset()
	l = observability.NewLogger("dev", &buf)
	l.Info().Msg("hello")
	if strings.Contains(buf.String(), `"message"`) || !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected console line, got %q", buf.String())
	}
}
