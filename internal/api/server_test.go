package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/havenhome/haven-core/internal/extensions"
	"github.com/havenhome/haven-core/internal/infopanel"
	"github.com/havenhome/haven-core/internal/infrastructure/config"
	"github.com/havenhome/haven-core/internal/infrastructure/logging"
	"github.com/havenhome/haven-core/internal/supervisor"
)

// stubSupervisor is an absent supervisor subsystem.
type stubSupervisor struct{}

func (stubSupervisor) Available() bool { return false }

func (stubSupervisor) Fetch(context.Context) (*supervisor.Info, error) {
	return nil, supervisor.ErrNotAvailable
}

// stubExtensions is a fixed extension list.
type stubExtensions struct {
	entries []extensions.Entry
}

func (s *stubExtensions) List() []extensions.Entry {
	out := make([]extensions.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *stubExtensions) Count() int { return len(s.entries) }

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	return logging.New(config.LoggingConfig{
		Level:  "error",
		Format: "text",
		Output: "stderr",
	}, "test")
}

func newTestServer(t *testing.T, exts *stubExtensions) (*Server, *httptest.Server) {
	t.Helper()

	if exts == nil {
		exts = &stubExtensions{}
	}

	panel, err := infopanel.New(infopanel.Deps{
		Platform: config.PlatformConfig{
			Name:        "Haven",
			Tagline:     "Open home control",
			DocsBaseURL: "https://docs.haven.example",
		},
		Build: infopanel.BuildInfo{
			CoreVersion:  "1.2.3",
			PanelVersion: "20260815.0",
			BuildType:    "production",
		},
		Supervisor: stubSupervisor{},
		Extensions: exts,
	})
	if err != nil {
		t.Fatalf("infopanel.New: %v", err)
	}

	logger := testLogger(t)
	s, err := New(Deps{
		Config: config.APIConfig{
			Timeouts: config.APITimeoutConfig{Read: 5, Write: 5, Idle: 10},
		},
		WS: config.WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logger:  logger,
		Panel:   panel,
		Version: "1.2.3",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Wire the hub directly; Start() is for the real listener.
	s.hub = NewHub(s.wsCfg, logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go s.hub.Run(ctx)

	ts := httptest.NewServer(s.buildRouter())
	t.Cleanup(ts.Close)

	return s, ts
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s: %v", url, err)
		}
	}
	return resp
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(Deps{Logger: testLogger(t)}); err == nil {
		t.Error("expected error without panel")
	}
	if _, err := New(Deps{}); err == nil {
		t.Error("expected error without logger")
	}
}

func TestHandleHealth(t *testing.T) {
	_, ts := newTestServer(t, nil)

	var body map[string]any
	resp := getJSON(t, ts.URL+"/api/v1/health", &body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["status"] != "ok" || body["version"] != "1.2.3" {
		t.Errorf("health body = %v", body)
	}
}

func TestHandlePanelInfo(t *testing.T) {
	exts := &stubExtensions{entries: []extensions.Entry{
		{ID: "x", Name: "old_dashboard", URL: "http://ext.local/d", Version: "1.0"},
	}}
	_, ts := newTestServer(t, exts)

	var vm infopanel.ViewModel
	resp := getJSON(t, ts.URL+"/api/v1/panels/info", &vm)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if vm.Header.Name != "Haven" {
		t.Errorf("header name = %q", vm.Header.Name)
	}
	if len(vm.Pages) != 5 {
		t.Errorf("pages = %d, want 5", len(vm.Pages))
	}
	if vm.Pages[0].Name != "thanks" || vm.Pages[4].Name != "license" {
		t.Errorf("page order wrong: %q .. %q", vm.Pages[0].Name, vm.Pages[4].Name)
	}
	if vm.Supervisor != nil {
		t.Error("supervisor data present without a supervisor")
	}
	if len(vm.Extensions) != 1 || vm.Extensions[0].Name != "old_dashboard" {
		t.Errorf("extensions = %v", vm.Extensions)
	}
	if !strings.Contains(vm.Disclaimer, "WITHOUT ANY WARRANTY") {
		t.Error("disclaimer missing")
	}
}

func TestHandlePanelExtensions(t *testing.T) {
	exts := &stubExtensions{entries: []extensions.Entry{
		{ID: "a", Name: "old_dashboard", URL: "http://ext.local/d", Version: "1.0"},
		{ID: "b", Name: "old_charts", URL: "http://ext.local/c", Version: "2.1"},
	}}
	_, ts := newTestServer(t, exts)

	var body struct {
		Extensions []extensions.Entry `json:"extensions"`
		Count      int                `json:"count"`
	}
	resp := getJSON(t, ts.URL+"/api/v1/panels/info/extensions", &body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body.Count != 2 || len(body.Extensions) != 2 {
		t.Errorf("count = %d, extensions = %d, want 2/2", body.Count, len(body.Extensions))
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp := getJSON(t, ts.URL+"/api/v1/nope", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRequestIDHeader(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp := getJSON(t, ts.URL+"/api/v1/health", nil)
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestCORSPreflight(t *testing.T) {
	_, ts := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/panels/info", nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Origin", "http://panel.local")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "http://panel.local" {
		t.Errorf("allow-origin = %q", resp.Header.Get("Access-Control-Allow-Origin"))
	}
}

func TestWebSocketSubscribeAndBroadcast(t *testing.T) {
	s, ts := newTestServer(t, nil)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	sub := WSMessage{
		Type:    WSTypeSubscribe,
		ID:      "1",
		Payload: WSSubscribePayload{Channels: []string{ChannelPanelInfoChanged}},
	}
	if err := conn.WriteJSON(sub); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	// Subscribe ack
	var ack WSMessage
	if err := conn.ReadJSON(&ack); err != nil {
		t.Fatalf("reading ack: %v", err)
	}
	if ack.Type != WSTypeResponse {
		t.Fatalf("ack type = %q, want %q", ack.Type, WSTypeResponse)
	}

	s.hub.Broadcast(ChannelPanelInfoChanged, s.panel.View())

	//nolint:errcheck // Best-effort deadline on test connection
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event WSMessage
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("reading event: %v", err)
	}
	if event.Type != WSTypeEvent || event.EventType != ChannelPanelInfoChanged {
		t.Errorf("event = %+v", event)
	}
	if event.Payload == nil {
		t.Error("event carries no view payload")
	}
}

func TestBroadcastSkipsUnsubscribedClients(t *testing.T) {
	s, ts := newTestServer(t, nil)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// No subscription; broadcast must not reach this client.
	s.hub.Broadcast(ChannelPanelInfoChanged, s.panel.View())

	//nolint:errcheck // Best-effort deadline on test connection
	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var msg WSMessage
	if err := conn.ReadJSON(&msg); err == nil {
		t.Errorf("unexpected message: %+v", msg)
	}
}
