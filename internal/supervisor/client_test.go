package supervisor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/havenhome/haven-core/internal/infrastructure/config"
)

// fakeSupervisor serves the two info endpoints with canned payloads and
// counts requests per path.
func fakeSupervisor(t *testing.T, osCalls, metaCalls *atomic.Int64) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/os/info", func(w http.ResponseWriter, _ *http.Request) {
		osCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"ok","data":{"version":"11.4","version_latest":"11.5","update_available":true,"board":"rpi5-64","data_disk":"/dev/sda"}}`)) //nolint:errcheck // test handler
	})
	mux.HandleFunc("/supervisor/info", func(w http.ResponseWriter, _ *http.Request) {
		metaCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"ok","data":{"version":"2026.08.1","version_latest":"2026.08.1","update_available":false,"channel":"stable","arch":"aarch64","healthy":true,"supported":true}}`)) //nolint:errcheck // test handler
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestFetch_JointResult(t *testing.T) {
	var osCalls, metaCalls atomic.Int64
	ts := fakeSupervisor(t, &osCalls, &metaCalls)

	client := New(config.SupervisorConfig{
		Enabled: true,
		BaseURL: ts.URL,
		Token:   "test-token",
		Timeout: 5,
	})

	info, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if info.OS.Version != "11.4" {
		t.Errorf("OS.Version = %q, want %q", info.OS.Version, "11.4")
	}
	if info.OS.Board != "rpi5-64" {
		t.Errorf("OS.Board = %q, want %q", info.OS.Board, "rpi5-64")
	}
	if info.Meta.Version != "2026.08.1" {
		t.Errorf("Meta.Version = %q, want %q", info.Meta.Version, "2026.08.1")
	}
	if !info.Meta.Healthy {
		t.Error("Meta.Healthy = false, want true")
	}

	if osCalls.Load() != 1 || metaCalls.Load() != 1 {
		t.Errorf("calls = (%d, %d), want exactly one each", osCalls.Load(), metaCalls.Load())
	}
}

func TestFetch_NotAvailable(t *testing.T) {
	var osCalls, metaCalls atomic.Int64
	ts := fakeSupervisor(t, &osCalls, &metaCalls)

	client := New(config.SupervisorConfig{
		Enabled: false,
		BaseURL: ts.URL,
	})

	if client.Available() {
		t.Error("Available() = true, want false")
	}

	_, err := client.Fetch(context.Background())
	if !errors.Is(err, ErrNotAvailable) {
		t.Fatalf("Fetch() error = %v, want ErrNotAvailable", err)
	}

	if osCalls.Load() != 0 || metaCalls.Load() != 0 {
		t.Errorf("calls = (%d, %d), want zero network activity", osCalls.Load(), metaCalls.Load())
	}
}

func TestFetch_PartialFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/os/info", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"ok","data":{"version":"11.4"}}`)) //nolint:errcheck // test handler
	})
	mux.HandleFunc("/supervisor/info", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	client := New(config.SupervisorConfig{Enabled: true, BaseURL: ts.URL, Timeout: 5})

	info, err := client.Fetch(context.Background())
	if err == nil {
		t.Fatal("Fetch() expected error when one endpoint fails")
	}
	if info != nil {
		t.Error("Fetch() returned a partial Info; joint commit must be all-or-nothing")
	}
}

func TestHealthCheck_Inert(t *testing.T) {
	client := New(config.SupervisorConfig{Enabled: false})

	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() on inert client error = %v", err)
	}
}
