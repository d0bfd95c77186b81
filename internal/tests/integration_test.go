// Package tests holds end-to-end tests that run the HTTP server over a real
// listener with a durable backend.
package tests

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/tokauth/internal/cli/connection"
	"github.com/yndnr/tokauth/internal/core/service"
	"github.com/yndnr/tokauth/internal/server/httpserver"
	"github.com/yndnr/tokauth/internal/storage"
	"github.com/yndnr/tokauth/internal/storage/kv"
	"github.com/yndnr/tokauth/internal/telemetry/logger"
	"github.com/yndnr/tokauth/internal/telemetry/metric"
	"github.com/yndnr/tokauth/pkg/password"
	"github.com/yndnr/tokauth/pkg/token"
)

// node is one server process: a Badger engine, the HTTP API and a client.
type node struct {
	engine *storage.BadgerEngine
	srv    *httpserver.Server
	client *connection.HTTPClient
	done   chan error
}

func startNode(t *testing.T, dataDir string) *node {
	t.Helper()

	cfg := storage.DefaultBadgerConfig(dataDir)
	cfg.GCInterval = 0
	engine, err := storage.NewBadgerEngine(cfg, nil)
	if err != nil {
		t.Fatalf("NewBadgerEngine() error = %v", err)
	}

	log := logger.Nop()
	reg := metric.NewRegistry()
	if err := engine.RegisterMetrics(reg.Prometheus()); err != nil {
		t.Fatalf("RegisterMetrics() error = %v", err)
	}

	hasher := password.NewHasher(password.Params{Time: 1, Memory: 1024, Threads: 1, SaltLen: 16, KeyLen: 32})
	auth := service.NewAuthService(
		kv.NewCredentialStore(engine, hasher, log),
		kv.NewTokenStore(engine, token.NewOpaque, log),
	)

	srv := httpserver.New(httpserver.Options{Addr: "127.0.0.1:0"}, httpserver.NewRouter(&httpserver.RouterConfig{
		Auth:    auth,
		Logger:  log,
		Metrics: reg,
		Version: "integration",
		Backend: "badger",
	}))
	ln, err := srv.Listen()
	if err != nil {
		_ = engine.Close()
		t.Fatalf("Listen() error = %v", err)
	}

	n := &node{
		engine: engine,
		srv:    srv,
		client: connection.NewHTTPClient(ln.Addr().String(), connection.WithTimeout(5*time.Second)),
		done:   make(chan error, 1),
	}
	go func() { n.done <- srv.Serve(ln) }()
	return n
}

func (n *node) stop(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := n.srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if err := <-n.done; err != nil {
		t.Errorf("Serve() error = %v", err)
	}
	if err := n.engine.Close(); err != nil {
		t.Errorf("engine Close() error = %v", err)
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func TestAuthFlow_SurvivesRestart(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	dataDir := filepath.Join(t.TempDir(), "badger")
	ctx := context.Background()

	n := startNode(t, dataDir)

	alice := credentials{Username: "alice", Password: "p1"}
	if err := n.client.Post(ctx, "/v1/register", alice, nil); err != nil {
		t.Fatalf("register error = %v", err)
	}
	err := n.client.Post(ctx, "/v1/register", credentials{Username: "alice", Password: "other"}, nil)
	if !connection.IsCode(err, "TA-AUTH-4090") {
		t.Fatalf("duplicate register error = %v, want TA-AUTH-4090", err)
	}

	var login struct {
		Token string `json:"token"`
	}
	if err := n.client.Post(ctx, "/v1/login", alice, &login); err != nil {
		t.Fatalf("login error = %v", err)
	}
	if login.Token == "" {
		t.Fatal("login returned an empty token")
	}
	if err := n.client.Post(ctx, "/v1/login", credentials{Username: "alice", Password: "other"}, nil); !connection.IsCode(err, "TA-AUTH-4011") {
		t.Errorf("login with the rejected duplicate's password error = %v", err)
	}

	n.stop(t)
	n = startNode(t, dataDir)
	defer n.stop(t)

	var who struct {
		Username string `json:"username"`
	}
	if err := n.client.Get(ctx, "/v1/whoami", login.Token, &who); err != nil {
		t.Fatalf("whoami after restart error = %v", err)
	}
	if who.Username != "alice" {
		t.Errorf("whoami = %q, want alice", who.Username)
	}

	if err := n.client.Post(ctx, "/v1/authenticate", map[string]string{"token": "not-a-token"}, nil); !connection.IsCode(err, "TA-TOKN-4010") {
		t.Errorf("authenticate unknown token error = %v, want TA-TOKN-4010", err)
	}

	resp, err := http.Get(n.client.BaseURL() + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	for _, want := range []string{
		"tokauth_badger_lsm_size_bytes",
		`tokauth_http_requests_total{method="GET",route="GET /v1/whoami",status="200"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("/metrics missing %q", want)
		}
	}
}
