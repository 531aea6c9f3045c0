package postgres

import (
	"context"
	"fmt"

	"github.com/unitduty/dutyroster/pkg/db"
)

// InsertScoreEvent appends an audit record for a duty score change.
func (d *DB) InsertScoreEvent(ctx context.Context, event *db.DutyScoreEvent) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO duty_score_event (id, personnel_id, duty_slot_id, supernumerary_id, points, event_date, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, event.ID, event.PersonnelID, event.DutySlotID, event.SupernumeraryID,
		event.Points, event.EventDate, event.Reason, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert score event: %w", err)
	}
	return nil
}

// GetScoreEvents returns a person's score history, newest first.
func (d *DB) GetScoreEvents(ctx context.Context, personnelID string) ([]db.DutyScoreEvent, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, personnel_id, duty_slot_id, supernumerary_id, points, event_date, reason, created_at
		FROM duty_score_event
		WHERE personnel_id = $1
		ORDER BY created_at DESC
	`, personnelID)
	if err != nil {
		return nil, fmt.Errorf("failed to query score events: %w", err)
	}
	defer rows.Close()

	var events []db.DutyScoreEvent
	for rows.Next() {
		var e db.DutyScoreEvent
		if err := rows.Scan(&e.ID, &e.PersonnelID, &e.DutySlotID, &e.SupernumeraryID,
			&e.Points, &e.EventDate, &e.Reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating score events: %w", err)
	}

	return events, nil
}
