package pg

import (
	"context"
	"encoding/json"
	"fmt"

	"healthgrid.org/internal/audit"
)

var _ audit.EventStore = (*Store)(nil)

// Append writes one events-log record.
func (s *Store) Append(ctx context.Context, ev *audit.Event) error {
	meta := []byte("{}")
	if len(ev.Metadata) > 0 {
		b, err := json.Marshal(ev.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		meta = b
	}
	_, err := s.db.ExecContext(ctx, `
		insert into events_log (id, occurred_at, event_type, user_id, ip_hash, user_agent, metadata)
		values ($1, $2, $3, nullif($4, ''), nullif($5, ''), $6, $7)
	`, ev.ID, ev.OccurredAt, ev.EventType, ev.UserID, ev.IPHash, ev.UserAgent, meta)
	return mapErr(err)
}

// ListByUser returns the newest events for one user.
func (s *Store) ListByUser(ctx context.Context, userID string, limit int) ([]*audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, occurred_at, event_type, coalesce(user_id, ''), coalesce(ip_hash, ''), user_agent, metadata
		from events_log
		where user_id = $1
		order by occurred_at desc
		limit $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*audit.Event
	for rows.Next() {
		var (
			ev   audit.Event
			meta []byte
		)
		if err := rows.Scan(&ev.ID, &ev.OccurredAt, &ev.EventType, &ev.UserID, &ev.IPHash, &ev.UserAgent, &meta); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &ev.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata: %w", err)
			}
		}
		result = append(result, &ev)
	}
	return result, rows.Err()
}
