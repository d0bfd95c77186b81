package command

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/urfave/cli/v2"
)

// mockServer serves canned envelopes keyed by "METHOD /path".
type mockServer struct {
	*httptest.Server
	handlers map[string]http.HandlerFunc

	mu     sync.Mutex
	bodies []string
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	m := &mockServer{handlers: make(map[string]http.HandlerFunc)}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		_, _ = body.ReadFrom(r.Body)
		m.mu.Lock()
		m.bodies = append(m.bodies, body.String())
		m.mu.Unlock()

		if h, ok := m.handlers[r.Method+" "+r.URL.Path]; ok {
			h(w, r)
			return
		}
		errorResponse(w, http.StatusNotFound, "TA-SYS-4040", "Not found")
	}))
	t.Cleanup(m.Close)
	return m
}

func (m *mockServer) handle(pattern string, h http.HandlerFunc) {
	m.handlers[pattern] = h
}

func (m *mockServer) lastBody() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.bodies) == 0 {
		return ""
	}
	return m.bodies[len(m.bodies)-1]
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":       "OK",
		"message":    "Success",
		"request_id": "req-test",
		"data":       data,
	})
}

func errorResponse(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":       code,
		"message":    message,
		"request_id": "req-test",
	})
}

// testApp runs the CLI against server with an isolated config file.
type testApp struct {
	app        *cli.App
	out        *bytes.Buffer
	server     string
	configPath string
}

func newTestApp(t *testing.T, server string) *testApp {
	t.Helper()
	return &testApp{
		out:        &bytes.Buffer{},
		server:     server,
		configPath: filepath.Join(t.TempDir(), "cli.yaml"),
	}
}

// run executes one CLI invocation. stdin feeds --password-stdin.
func (ta *testApp) run(stdin string, args ...string) error {
	ta.out.Reset()
	ta.app = App()
	ta.app.Writer = ta.out
	ta.app.ErrWriter = &bytes.Buffer{}
	ta.app.Reader = strings.NewReader(stdin)
	ta.app.ExitErrHandler = func(*cli.Context, error) {}

	full := []string{"tokauth-cli", "--config", ta.configPath}
	if ta.server != "" {
		full = append(full, "--server", ta.server)
	}
	return ta.app.Run(append(full, args...))
}
