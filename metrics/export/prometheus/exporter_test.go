package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authgate "github.com/MrEthical07/authgate"
)

type fakeSource struct {
	snapshot authgate.MetricsSnapshot
}

func (f fakeSource) MetricsSnapshot() authgate.MetricsSnapshot { return f.snapshot }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: authgate.MetricsSnapshot{
			Counters:   map[authgate.MetricID]uint64{},
			Histograms: map[authgate.MetricID][]uint64{},
		},
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderDeterministicIncludesCounterAndHistogram(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: authgate.MetricsSnapshot{
			Counters: map[authgate.MetricID]uint64{
				authgate.MetricFlowCompleted: 7,
				authgate.MetricRoleCacheHit:  12,
			},
			Histograms: map[authgate.MetricID][]uint64{
				authgate.MetricAuthorizeLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
	})

	out := exp.Render()
	if !strings.Contains(out, "authgate_flow_completed_total 7") {
		t.Fatalf("expected flow_completed counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "authgate_role_cache_hit_total 12") {
		t.Fatalf("expected role_cache_hit counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "authgate_authorize_latency_seconds_bucket{le=\"0.005\"} 1") {
		t.Fatalf("expected first histogram bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "authgate_authorize_latency_seconds_bucket{le=\"+Inf\"} 36") {
		t.Fatalf("expected +Inf cumulative bucket in output, got:\n%s", out)
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: authgate.MetricsSnapshot{
			Counters:   map[authgate.MetricID]uint64{authgate.MetricAuthSuccess: 1},
			Histograms: map[authgate.MetricID][]uint64{},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func BenchmarkRender(b *testing.B) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: authgate.MetricsSnapshot{
			Counters: map[authgate.MetricID]uint64{
				authgate.MetricFlowInitiated: 1000,
				authgate.MetricFlowCompleted: 950,
				authgate.MetricAuthSuccess:   20000,
				authgate.MetricRoleCacheHit:  18000,
				authgate.MetricRoleCacheMiss: 2000,
			},
			Histograms: map[authgate.MetricID][]uint64{
				authgate.MetricAuthorizeLatency: {10, 20, 30, 40, 50, 60, 70, 80},
			},
		},
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = exp.Render()
	}
}
