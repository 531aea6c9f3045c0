package postgres

import (
	"context"
	"fmt"

	"github.com/unitduty/dutyroster/pkg/db"
)

// GetSupernumeraryAssignments returns standby coverage for the given duty
// types whose period overlaps the date range.
func (d *DB) GetSupernumeraryAssignments(ctx context.Context, dutyTypeIDs []string, startDate, endDate string) ([]db.SupernumeraryAssignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, duty_type_id, personnel_id, period_start, period_end, points, activations
		FROM supernumerary_assignment
		WHERE duty_type_id = ANY($1)
		  AND period_start <= $3
		  AND period_end >= $2
		ORDER BY period_start, duty_type_id
	`, dutyTypeIDs, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query supernumerary assignments: %w", err)
	}
	defer rows.Close()

	var assignments []db.SupernumeraryAssignment
	for rows.Next() {
		var a db.SupernumeraryAssignment
		if err := rows.Scan(&a.ID, &a.DutyTypeID, &a.PersonnelID, &a.PeriodStart, &a.PeriodEnd, &a.Points, &a.Activations); err != nil {
			return nil, fmt.Errorf("failed to scan supernumerary assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating supernumerary assignments: %w", err)
	}

	return assignments, nil
}

// InsertSupernumeraryAssignment inserts a standby coverage record
func (d *DB) InsertSupernumeraryAssignment(ctx context.Context, a *db.SupernumeraryAssignment) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO supernumerary_assignment (id, duty_type_id, personnel_id, period_start, period_end, points, activations)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.ID, a.DutyTypeID, a.PersonnelID, a.PeriodStart, a.PeriodEnd, a.Points, a.Activations)
	if err != nil {
		return fmt.Errorf("failed to insert supernumerary assignment: %w", err)
	}
	return nil
}

// DeleteSupernumeraryInRange removes standby coverage for duty types owned
// by the given units whose period overlaps the range.
func (d *DB) DeleteSupernumeraryInRange(ctx context.Context, unitIDs []string, startDate, endDate string) error {
	_, err := d.pool.Exec(ctx, `
		DELETE FROM supernumerary_assignment a
		USING duty_type dt
		WHERE dt.id = a.duty_type_id
		  AND dt.unit_id = ANY($1)
		  AND a.period_start <= $3
		  AND a.period_end >= $2
	`, unitIDs, startDate, endDate)
	if err != nil {
		return fmt.Errorf("failed to delete supernumerary assignments: %w", err)
	}
	return nil
}
