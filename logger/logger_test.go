package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInterceptRoutesToWriterAndFile(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Config{Enabled: true, Level: "debug", File: "logs/widget.log"}, dir); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = Init(Config{Enabled: false}, "") })

	var buf bytes.Buffer
	Intercept(&buf)
	Info("exchange failed", "kind", "transport")
	Restore()

	if !strings.Contains(buf.String(), "exchange failed") || !strings.Contains(buf.String(), "kind=transport") {
		t.Fatalf("intercepted output = %q, want the record", buf.String())
	}

	Info("after restore")
	if strings.Contains(buf.String(), "after restore") {
		t.Fatal("records after Restore should not reach the intercept writer")
	}

	data, err := os.ReadFile(filepath.Join(dir, "logs", "widget.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "exchange failed") || !strings.Contains(string(data), "after restore") {
		t.Fatalf("log file = %q, want both records", string(data))
	}
}

func TestPanelOmitsTimeAndFileCarriesSession(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Enabled: true, Level: "info", File: "widget.log", Session: "run42"}
	if err := Init(cfg, dir); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = Init(Config{Enabled: false}, "") })

	var panel bytes.Buffer
	Intercept(&panel)
	Error("chat exchange failed", "kind", "transport")
	Restore()

	if strings.Contains(panel.String(), "time=") {
		t.Fatalf("panel output %q should not carry a timestamp", panel.String())
	}
	if strings.Contains(panel.String(), "session=") {
		t.Fatalf("panel output %q should not carry the session tag", panel.String())
	}
	if !strings.HasPrefix(panel.String(), "level=ERROR") {
		t.Fatalf("panel output = %q, want it to start with the level", panel.String())
	}

	data, err := os.ReadFile(filepath.Join(dir, "widget.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "time=") || !strings.Contains(string(data), "session=run42") {
		t.Fatalf("log file = %q, want timestamp and session tag", string(data))
	}
}

func TestFanoutSkipsDisabledHandlers(t *testing.T) {
	var warnOnly, all bytes.Buffer
	l := slog.New(fanout{
		slog.NewTextHandler(&warnOnly, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewTextHandler(&all, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})

	l.Info("hello", "n", 1)
	if warnOnly.Len() != 0 {
		t.Fatalf("warn handler got %q", warnOnly.String())
	}
	if !strings.Contains(all.String(), "n=1") {
		t.Fatalf("debug handler = %q, want the record", all.String())
	}

	l.With("id", "x").Warn("late")
	if !strings.Contains(warnOnly.String(), "id=x") || !strings.Contains(all.String(), "id=x") {
		t.Fatal("attributes added with With should reach every handler")
	}
}

func TestLevelFiltersRecords(t *testing.T) {
	if err := Init(Config{Enabled: true, Level: "warn"}, ""); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = Init(Config{Enabled: false}, "") })

	var buf bytes.Buffer
	Intercept(&buf)
	defer Restore()

	Debug("debug line")
	Info("info line")
	Warn("warn line")
	Error("error line")

	out := buf.String()
	if strings.Contains(out, "debug line") || strings.Contains(out, "info line") {
		t.Fatalf("output %q should not contain records below warn", out)
	}
	if !strings.Contains(out, "warn line") || !strings.Contains(out, "error line") {
		t.Fatalf("output %q should contain warn and error records", out)
	}
}

func TestDisabledLoggerDropsEverything(t *testing.T) {
	if err := Init(Config{Enabled: false}, ""); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	var buf bytes.Buffer
	Intercept(&buf)
	defer Restore()

	Error("dropped")
	if buf.Len() != 0 {
		t.Fatalf("disabled logger wrote %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFilePath(t *testing.T) {
	if got := FilePath("logs/a.log", "/cfg"); got != filepath.Join("/cfg", "logs/a.log") {
		t.Fatalf("relative path = %q", got)
	}
	if got := FilePath("/var/log/a.log", "/cfg"); got != "/var/log/a.log" {
		t.Fatalf("absolute path = %q", got)
	}
}
