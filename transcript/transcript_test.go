package transcript

import (
	"sync"
	"testing"
)

func TestTranscriptAppendKeepsOrder(t *testing.T) {
	tr := New()
	if _, ok := tr.Last(); ok {
		t.Fatal("Last() on empty transcript should report false")
	}

	tr.Append(UserMessage("hi"))
	idx := tr.Append(BotMessage("hello"))
	if idx != 1 {
		t.Fatalf("Append() index = %d, want 1", idx)
	}

	got := tr.Messages()
	if len(got) != 2 {
		t.Fatalf("Messages() len = %d, want 2", len(got))
	}
	if got[0].Origin != User || got[0].Text != "hi" {
		t.Fatalf("first message = %+v, want user %q", got[0], "hi")
	}
	if got[1].Origin != Bot || got[1].Text != "hello" {
		t.Fatalf("second message = %+v, want bot %q", got[1], "hello")
	}
	last, ok := tr.Last()
	if !ok || last.ID != got[1].ID {
		t.Fatalf("Last() = %+v, want %+v", last, got[1])
	}
}

func TestTranscriptMessagesReturnsCopy(t *testing.T) {
	tr := New()
	tr.Append(UserMessage("original"))

	snapshot := tr.Messages()
	snapshot[0].Text = "changed"

	if got := tr.Messages()[0].Text; got != "original" {
		t.Fatalf("transcript mutated through snapshot: got %q", got)
	}
}

func TestNewMessageAssignsIDAndTime(t *testing.T) {
	a := UserMessage("a")
	b := UserMessage("a")
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("message IDs should be unique and non-empty: %q %q", a.ID, b.ID)
	}
	if a.Time.IsZero() {
		t.Fatal("message time should be set")
	}
}

func TestOriginString(t *testing.T) {
	tests := []struct {
		origin Origin
		want   string
	}{
		{User, "user"},
		{Bot, "bot"},
		{Origin(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.origin.String(); got != tt.want {
			t.Errorf("Origin(%d).String() = %q, want %q", tt.origin, got, tt.want)
		}
	}
}

func TestTranscriptConcurrentAppend(t *testing.T) {
	tr := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Append(BotMessage("x"))
		}()
	}
	wg.Wait()
	if got := tr.Len(); got != 50 {
		t.Fatalf("Len() = %d, want 50", got)
	}
}
