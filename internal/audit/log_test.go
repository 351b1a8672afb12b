package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"healthgrid.org/internal/auth"
	"healthgrid.org/internal/authz"
	"healthgrid.org/internal/obs"
)

func TestLogEvent(t *testing.T) {
	logger := obs.Logger()
	original := logger.Writer()
	logger.SetFlags(0)
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(original)

	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-123")
	ctx = auth.ContextWithPrincipal(ctx, authz.Principal{UserID: "user-42"})

	if err := LogEvent(ctx, "entry.created", map[string]any{"entry_id": int64(7)}); err != nil {
		t.Fatalf("LogEvent failed: %v", err)
	}

	line := buf.String()
	if line == "" {
		t.Fatal("expected log output")
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log not valid JSON: %v", err)
	}
	if entry["type"] != "audit" {
		t.Fatalf("unexpected type: %v", entry["type"])
	}
	if entry["event"] != "entry.created" {
		t.Fatalf("unexpected event: %v", entry["event"])
	}
	if entry["request_id"] != "req-123" {
		t.Fatalf("unexpected request id: %v", entry["request_id"])
	}
	if entry["user_id"] != "user-42" {
		t.Fatalf("unexpected user id: %v", entry["user_id"])
	}
	fields, ok := entry["fields"].(map[string]any)
	if !ok || fields["entry_id"] != float64(7) {
		t.Fatalf("fields missing or incorrect: %v", entry["fields"])
	}
}

func TestLogEventRequiresName(t *testing.T) {
	if err := LogEvent(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected error for empty event name")
	}
}

type memEvents struct {
	events []*Event
}

func (m *memEvents) Append(_ context.Context, ev *Event) error {
	m.events = append(m.events, ev)
	return nil
}

func (m *memEvents) ListByUser(_ context.Context, userID string, limit int) ([]*Event, error) {
	var out []*Event
	for _, ev := range m.events {
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func TestRecorderHashesIP(t *testing.T) {
	logger := obs.Logger()
	original := logger.Writer()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(original)

	store := &memEvents{}
	rec := NewRecorder(store)

	ev, err := rec.Record(context.Background(), "auth.login", "user-42", "203.0.113.9", "curl/8.0", nil)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if ev.ID == "" {
		t.Fatal("expected assigned event id")
	}
	if ev.IPHash == "" || ev.IPHash == "203.0.113.9" {
		t.Fatalf("raw IP must not be stored: %q", ev.IPHash)
	}
	if len(store.events) != 1 {
		t.Fatalf("expected one persisted event, got %d", len(store.events))
	}

	list, err := rec.ListByUser(context.Background(), "user-42", 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 1 || list[0].EventType != "auth.login" {
		t.Fatalf("unexpected list: %+v", list)
	}
}
