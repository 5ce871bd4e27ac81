package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/linanwx/chatwidget/config"
	"github.com/linanwx/chatwidget/internal/health"
)

func TestValidateEndpoint(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"http://localhost:5001/chat", false},
		{" https://example.com/chat ", false},
		{"ftp://example.com/chat", true},
		{"localhost:5001/chat", true},
		{"http:///chat", true},
	}
	for _, tt := range tests {
		err := validateEndpoint(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateEndpoint(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestLoadConfigEndpointFlag(t *testing.T) {
	config.SetConfigDir(t.TempDir())
	t.Cleanup(func() {
		config.SetConfigDir("")
		endpointFlag = ""
	})

	endpointFlag = "http://127.0.0.1:9/chat"
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Endpoint != endpointFlag {
		t.Fatalf("Endpoint = %q, want %q", cfg.Endpoint, endpointFlag)
	}

	endpointFlag = "not-a-url"
	if _, err := loadConfig(); err == nil {
		t.Fatal("loadConfig() should reject a non-http endpoint")
	}
}

func TestSendCommandPrintsTranscript(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/chat", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"reply":"Hello back!"}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	config.SetConfigDir(t.TempDir())
	t.Cleanup(func() {
		config.SetConfigDir("")
		endpointFlag = ""
		sendText = ""
	})
	endpointFlag = srv.URL + "/chat"
	sendText = "  Hi there  "

	out := captureStdout(t, func() {
		if err := runSend(sendCmd, nil); err != nil {
			t.Fatalf("runSend() error = %v", err)
		}
	})
	want := "you> Hi there\nbot> Hello back!\n"
	if out != want {
		t.Fatalf("stdout = %q, want %q", out, want)
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()
	_ = w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String()
}

func TestHealthCommandJSON(t *testing.T) {
	config.SetConfigDir(t.TempDir())
	t.Cleanup(func() {
		config.SetConfigDir("")
		healthFormat = "yaml"
		healthProbe = true
	})
	healthFormat = "json"
	healthProbe = false

	var buf bytes.Buffer
	healthCmd.SetOut(&buf)
	defer healthCmd.SetOut(nil)
	if err := runHealth(healthCmd, nil); err != nil {
		t.Fatalf("runHealth() error = %v", err)
	}

	var snap health.Snapshot
	if err := json.Unmarshal(buf.Bytes(), &snap); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if snap.Status != "healthy" || snap.Endpoint == nil || snap.Endpoint.URL != "http://localhost:5001/chat" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Config == nil || snap.Config.Exists {
		t.Fatalf("Config = %+v, want a missing config file", snap.Config)
	}
}
