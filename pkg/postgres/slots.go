package postgres

import (
	"context"
	"fmt"

	"github.com/unitduty/dutyroster/pkg/db"
)

// GetSlotsInRange returns duty slots for duty types owned by the given
// units whose assigned date falls inside the inclusive range.
func (d *DB) GetSlotsInRange(ctx context.Context, unitIDs []string, startDate, endDate string) ([]db.DutySlot, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT s.id, s.duty_type_id, s.personnel_id, s.assigned_date, s.points, s.status,
		       s.swapped_from_personnel_id, s.swap_pair_id
		FROM duty_slot s
		JOIN duty_type dt ON dt.id = s.duty_type_id
		WHERE dt.unit_id = ANY($1)
		  AND s.assigned_date BETWEEN $2 AND $3
		ORDER BY s.assigned_date, s.duty_type_id
	`, unitIDs, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query slots: %w", err)
	}
	defer rows.Close()

	var slots []db.DutySlot
	for rows.Next() {
		slot, err := scanSlot(rows.Scan)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating slots: %w", err)
	}

	return slots, nil
}

// GetSlot returns a single duty slot by id.
func (d *DB) GetSlot(ctx context.Context, slotID string) (*db.DutySlot, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT id, duty_type_id, personnel_id, assigned_date, points, status,
		       swapped_from_personnel_id, swap_pair_id
		FROM duty_slot
		WHERE id = $1
	`, slotID)

	slot, err := scanSlot(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %s: %w", slotID, err)
	}
	return slot, nil
}

// InsertSlot inserts a duty slot record
func (d *DB) InsertSlot(ctx context.Context, slot *db.DutySlot) error {
	var personnelID *string
	if slot.PersonnelID != "" {
		personnelID = &slot.PersonnelID
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO duty_slot (id, duty_type_id, personnel_id, assigned_date, points, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, slot.ID, slot.DutyTypeID, personnelID, slot.AssignedDate, slot.Points, slot.Status)
	if err != nil {
		return fmt.Errorf("failed to insert slot: %w", err)
	}
	return nil
}

// DeleteSlotsInRange removes scheduled slots for duty types owned by the
// given units inside the range. Slots that already progressed past the
// scheduled state are left untouched.
func (d *DB) DeleteSlotsInRange(ctx context.Context, unitIDs []string, startDate, endDate string) error {
	_, err := d.pool.Exec(ctx, `
		DELETE FROM duty_slot s
		USING duty_type dt
		WHERE dt.id = s.duty_type_id
		  AND dt.unit_id = ANY($1)
		  AND s.assigned_date BETWEEN $2 AND $3
		  AND s.status = 'scheduled'
	`, unitIDs, startDate, endDate)
	if err != nil {
		return fmt.Errorf("failed to delete slots: %w", err)
	}
	return nil
}

// UpdateSlotForSwap reassigns a slot to its swap counterpart and stamps the
// lineage fields.
func (d *DB) UpdateSlotForSwap(ctx context.Context, slotID, newPersonnelID, previousPersonnelID, pairID string) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE duty_slot
		SET personnel_id = $2,
		    swapped_from_personnel_id = $3,
		    swap_pair_id = $4,
		    status = 'swapped'
		WHERE id = $1
	`, slotID, newPersonnelID, previousPersonnelID, pairID)
	if err != nil {
		return fmt.Errorf("failed to update slot for swap: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("slot %s not found", slotID)
	}
	return nil
}

func scanSlot(scan func(dest ...any) error) (*db.DutySlot, error) {
	var s db.DutySlot
	var personnelID *string
	if err := scan(&s.ID, &s.DutyTypeID, &personnelID, &s.AssignedDate, &s.Points, &s.Status,
		&s.SwappedFromPersonnelID, &s.SwapPairID); err != nil {
		return nil, fmt.Errorf("failed to scan slot: %w", err)
	}
	if personnelID != nil {
		s.PersonnelID = *personnelID
	}
	return &s, nil
}
