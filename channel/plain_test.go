package channel

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"

	"github.com/linanwx/chatwidget/chat"
	"github.com/linanwx/chatwidget/exchange"
)

// newEchoBackend replies with the upper-cased message; "fail" yields a 500.
func newEchoBackend(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/chat", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r.Body)
		msg := gjson.GetBytes(buf.Bytes(), "message").String()
		w.Header().Set("Content-Type", "application/json")
		if msg == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"boom"}`))
			return
		}
		_, _ = w.Write([]byte(`{"reply":"` + strings.ToUpper(msg) + `"}`))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func runPlain(t *testing.T, input string, policy chat.SendPolicy, hits *atomic.Int32) string {
	t.Helper()
	srv := newEchoBackend(t, hits)
	var out bytes.Buffer
	ch := NewPlainChannel(Config{
		Exchanger: exchange.NewClient(srv.URL+"/chat", srv.Client()),
		Policy:    policy,
		In:        strings.NewReader(input),
		Out:       &out,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ch.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String()
}

func TestPlainChannelSerialTranscript(t *testing.T) {
	var hits atomic.Int32
	got := runPlain(t, "  hello  \n\n   \nfail\nbye\n", chat.SendSerial, &hits)

	want := strings.Join([]string{
		"you> hello",
		"bot> HELLO",
		"you> fail",
		"bot> " + chat.ErrorPlaceholder,
		"you> bye",
		"bot> BYE",
	}, "\n") + "\n"
	if got != want {
		t.Fatalf("output:\n%s\nwant:\n%s", got, want)
	}
	if hits.Load() != 3 {
		t.Fatalf("backend hits = %d, want 3 (blank lines send nothing)", hits.Load())
	}
}

func TestPlainChannelStopsOnExit(t *testing.T) {
	var hits atomic.Int32
	got := runPlain(t, "one\n/quit\ntwo\n", chat.SendSerial, &hits)
	if strings.Contains(got, "two") {
		t.Fatalf("output %q should stop at /quit", got)
	}
	if hits.Load() != 1 {
		t.Fatalf("backend hits = %d, want 1", hits.Load())
	}
}

func TestPlainChannelConcurrentWaitsForReplies(t *testing.T) {
	var hits atomic.Int32
	got := runPlain(t, "a\nb\nc\n", chat.SendConcurrent, &hits)

	for _, want := range []string{"you> a", "you> b", "you> c", "bot> A", "bot> B", "bot> C"} {
		if !strings.Contains(got, want+"\n") {
			t.Fatalf("output %q missing %q", got, want)
		}
	}
	// Each reply follows its own user line.
	for _, pair := range [][2]string{{"you> a", "bot> A"}, {"you> b", "bot> B"}, {"you> c", "bot> C"}} {
		if strings.Index(got, pair[0]) > strings.Index(got, pair[1]) {
			t.Fatalf("%q rendered after %q in %q", pair[0], pair[1], got)
		}
	}
}

func TestNewCLIChannelForcePlain(t *testing.T) {
	ch := NewCLIChannel(Config{}, true)
	if ch.Name() != "plain" {
		t.Fatalf("Name() = %q, want plain", ch.Name())
	}
}

func TestIsExitCommand(t *testing.T) {
	for _, s := range []string{"exit", "quit", "/exit", "/quit"} {
		if !isExitCommand(s) {
			t.Errorf("isExitCommand(%q) = false", s)
		}
	}
	if isExitCommand("exit now") {
		t.Error("isExitCommand(\"exit now\") = true")
	}
}
