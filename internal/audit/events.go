package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"healthgrid.org/internal/ids"
)

// Event is one persisted events-log record: a security-relevant action taken
// by (or on behalf of) a user, retained for review.
type Event struct {
	ID         string
	OccurredAt time.Time
	EventType  string
	UserID     string
	IPHash     string
	UserAgent  string
	Metadata   map[string]string
}

// EventStore persists the append-only events log.
type EventStore interface {
	Append(ctx context.Context, ev *Event) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*Event, error)
}

// Recorder assigns ids, hashes IPs and writes events both to the structured
// log and to the store.
type Recorder struct {
	store EventStore
	now   func() time.Time
}

func NewRecorder(store EventStore) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

// Record validates and persists one event. The raw IP never reaches the
// store; only its SHA-256 hex digest does.
func (r *Recorder) Record(ctx context.Context, eventType, userID, rawIP, userAgent string, metadata map[string]string) (*Event, error) {
	eventType = strings.TrimSpace(eventType)
	if eventType == "" {
		return nil, errors.New("event type is required")
	}
	ev := &Event{
		ID:         ids.New(),
		OccurredAt: r.now().UTC(),
		EventType:  eventType,
		UserID:     strings.TrimSpace(userID),
		IPHash:     HashIP(rawIP),
		UserAgent:  strings.TrimSpace(userAgent),
		Metadata:   metadata,
	}
	if err := r.store.Append(ctx, ev); err != nil {
		return nil, err
	}
	_ = LogEvent(ctx, eventType, map[string]any{"event_id": ev.ID, "subject_user_id": ev.UserID})
	return ev, nil
}

// ListByUser returns the most recent events for one user.
func (r *Recorder) ListByUser(ctx context.Context, userID string, limit int) ([]*Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return r.store.ListByUser(ctx, strings.TrimSpace(userID), limit)
}

// HashIP reduces a client address to a stable digest.
func HashIP(rawIP string) string {
	rawIP = strings.TrimSpace(rawIP)
	if rawIP == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(rawIP))
	return hex.EncodeToString(sum[:])
}
