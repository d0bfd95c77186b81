package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func scrape(t *testing.T, r *Registry) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.Prometheus() == nil {
		t.Fatal("Prometheus() returned nil")
	}
	if r.AuthOperations == nil || r.RequestsTotal == nil || r.RequestDuration == nil {
		t.Error("metrics not initialised")
	}
}

func TestHandler_RuntimeMetrics(t *testing.T) {
	body := scrape(t, NewRegistry())

	if !strings.Contains(body, "go_goroutines") {
		t.Error("expected go_goroutines metric")
	}
	if !strings.Contains(body, "process_") {
		t.Error("expected process metrics")
	}
}

func TestRecordAuth(t *testing.T) {
	r := NewRegistry()

	r.RecordAuth(OpLogin, true)
	r.RecordAuth(OpLogin, true)
	r.RecordAuth(OpLogin, false)
	r.RecordAuth(OpRegister, true)

	if got := testutil.ToFloat64(r.AuthOperations.WithLabelValues(OpLogin, "success")); got != 2 {
		t.Errorf("login success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.AuthOperations.WithLabelValues(OpLogin, "failure")); got != 1 {
		t.Errorf("login failure = %v, want 1", got)
	}

	body := scrape(t, r)
	if !strings.Contains(body, `tokauth_auth_operations_total{operation="register",result="success"} 1`) {
		t.Errorf("register counter missing from output")
	}
}

func TestRecordRequest(t *testing.T) {
	r := NewRegistry()

	r.RecordRequest("POST", "/v1/login", "200", 15*time.Millisecond)
	r.RecordRequest("POST", "/v1/login", "401", 5*time.Millisecond)

	if got := testutil.ToFloat64(r.RequestsTotal.WithLabelValues("POST", "/v1/login", "401")); got != 1 {
		t.Errorf("requests_total = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(r.RequestDuration); n != 1 {
		t.Errorf("histogram series = %d, want 1", n)
	}
}

type fixedSize int

func (f fixedSize) Len() int { return int(f) }

func TestStoreCollector(t *testing.T) {
	r := NewRegistry()
	r.Prometheus().MustRegister(NewStoreCollector("memory", map[string]Sizer{
		"credentials": fixedSize(3),
		"tokens":      fixedSize(7),
	}))

	body := scrape(t, r)
	for _, want := range []string{
		`tokauth_store_entries{backend="memory",store="credentials"} 3`,
		`tokauth_store_entries{backend="memory",store="tokens"} 7`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %s", want)
		}
	}
}
