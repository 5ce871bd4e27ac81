package health

import (
	"context"
	"net"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
)

func TestCollectReachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(nil)
	defer srv.Close()

	s := Collect(context.Background(), Options{Endpoint: srv.URL + "/chat", Probe: true})
	if s.Status != "healthy" {
		t.Fatalf("Status = %q, want healthy", s.Status)
	}
	if s.Endpoint == nil || !s.Endpoint.Reachable || s.Endpoint.Error != "" {
		t.Fatalf("Endpoint = %+v, want reachable", s.Endpoint)
	}
	if s.Runtime.Version == "" || s.Runtime.CPUs == 0 {
		t.Fatalf("Runtime = %+v", s.Runtime)
	}
}

func TestCollectUnreachableEndpointIsDegraded(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	s := Collect(context.Background(), Options{Endpoint: "http://" + addr + "/chat", Probe: true})
	if s.Status != "degraded" {
		t.Fatalf("Status = %q, want degraded", s.Status)
	}
	if s.Endpoint.Reachable || s.Endpoint.Error == "" {
		t.Fatalf("Endpoint = %+v, want unreachable with error", s.Endpoint)
	}
}

func TestCollectWithoutProbe(t *testing.T) {
	s := Collect(context.Background(), Options{Endpoint: "https://example.com/chat"})
	if s.Endpoint.Probed || s.Status != "healthy" {
		t.Fatalf("snapshot = %+v, want unprobed healthy", s)
	}
	if s.Endpoint.Address != "example.com:443" {
		t.Fatalf("Address = %q, want example.com:443", s.Endpoint.Address)
	}
}

func TestCollectConfigFiles(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("endpoint: http://localhost:5001/chat\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s := Collect(context.Background(), Options{
		ConfigPath: cfgPath,
		LogFile:    filepath.Join(dir, "logs", "chatwidget.log"),
		SendPolicy: "serial",
	})
	if s.Config == nil || !s.Config.Exists || s.Config.SendPolicy != "serial" {
		t.Fatalf("Config = %+v", s.Config)
	}
	if s.Config.LogFile == nil || s.Config.LogFile.Exists {
		t.Fatalf("LogFile = %+v, want missing", s.Config.LogFile)
	}
	if s.Endpoint != nil {
		t.Fatal("Endpoint should be nil when not requested")
	}
}

func TestHostPort(t *testing.T) {
	tests := map[string]string{
		"http://localhost:5001/chat": "localhost:5001",
		"http://example.com/chat":    "example.com:80",
		"https://[::1]/chat":         "[::1]:443",
	}
	for in, want := range tests {
		u, err := url.Parse(in)
		if err != nil {
			t.Fatal(err)
		}
		if got := hostPort(u); got != want {
			t.Errorf("hostPort(%q) = %q, want %q", in, got, want)
		}
	}
}
