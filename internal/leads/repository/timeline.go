package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type TimelineEvent struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	EventType string
	Title     string
	Metadata  map[string]any
	CreatedAt time.Time
}

type CreateTimelineEventParams struct {
	LeadID    uuid.UUID
	EventType string
	Title     string
	Metadata  map[string]any
}

func (r *Repository) CreateTimelineEvent(ctx context.Context, params CreateTimelineEventParams) (TimelineEvent, error) {
	metadataJSON, err := json.Marshal(params.Metadata)
	if err != nil {
		return TimelineEvent{}, err
	}

	var event TimelineEvent
	err = r.pool.QueryRow(ctx, `
		INSERT INTO lead_timeline_events (lead_id, event_type, title, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING id, lead_id, event_type, title, created_at
	`, params.LeadID, params.EventType, params.Title, metadataJSON).Scan(
		&event.ID, &event.LeadID, &event.EventType, &event.Title, &event.CreatedAt,
	)
	if err != nil {
		return TimelineEvent{}, err
	}

	event.Metadata = params.Metadata
	return event, nil
}

func (r *Repository) ListTimelineEvents(ctx context.Context, leadID uuid.UUID, limit int) ([]TimelineEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, event_type, title, metadata, created_at
		FROM lead_timeline_events
		WHERE lead_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, leadID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]TimelineEvent, 0)
	for rows.Next() {
		var (
			event TimelineEvent
			raw   []byte
		)
		if err := rows.Scan(&event.ID, &event.LeadID, &event.EventType, &event.Title, &raw, &event.CreatedAt); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &event.Metadata); err != nil {
				return nil, err
			}
		}
		items = append(items, event)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}
