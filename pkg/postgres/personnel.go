package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/unitduty/dutyroster/pkg/db"
)

// GetPersonnelByUnits returns every person assigned to the given units.
func (d *DB) GetPersonnelByUnits(ctx context.Context, unitIDs []string) ([]db.Personnel, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, first_name, last_name, rank, unit_id, qualifications, duty_score
		FROM personnel
		WHERE unit_id = ANY($1)
		ORDER BY last_name, first_name
	`, unitIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query personnel: %w", err)
	}
	defer rows.Close()

	var personnel []db.Personnel
	for rows.Next() {
		var p db.Personnel
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Rank, &p.UnitID, &p.Qualifications, &p.DutyScore); err != nil {
			return nil, fmt.Errorf("failed to scan personnel: %w", err)
		}
		personnel = append(personnel, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating personnel: %w", err)
	}

	return personnel, nil
}

// InsertPersonnel inserts a personnel record
func (d *DB) InsertPersonnel(ctx context.Context, p *db.Personnel) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO personnel (id, first_name, last_name, rank, unit_id, qualifications, duty_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.FirstName, p.LastName, p.Rank, p.UnitID, p.Qualifications, p.DutyScore)
	if err != nil {
		return fmt.Errorf("failed to insert personnel: %w", err)
	}
	return nil
}

// AddToDutyScore atomically increments a person's cumulative duty score.
func (d *DB) AddToDutyScore(ctx context.Context, personnelID string, points decimal.Decimal) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE personnel
		SET duty_score = duty_score + $2
		WHERE id = $1
	`, personnelID, points)
	if err != nil {
		return fmt.Errorf("failed to update duty score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("personnel %s not found", personnelID)
	}
	return nil
}

// GetNonAvailability returns absence windows overlapping the date range for
// personnel in the given units.
func (d *DB) GetNonAvailability(ctx context.Context, unitIDs []string, startDate, endDate string) ([]db.NonAvailability, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT n.id, n.personnel_id, n.start_date, n.end_date, n.status
		FROM non_availability n
		JOIN personnel p ON p.id = n.personnel_id
		WHERE p.unit_id = ANY($1)
		  AND n.start_date <= $3
		  AND n.end_date >= $2
	`, unitIDs, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query non-availability: %w", err)
	}
	defer rows.Close()

	var absences []db.NonAvailability
	for rows.Next() {
		var n db.NonAvailability
		if err := rows.Scan(&n.ID, &n.PersonnelID, &n.StartDate, &n.EndDate, &n.Status); err != nil {
			return nil, fmt.Errorf("failed to scan non-availability: %w", err)
		}
		absences = append(absences, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating non-availability: %w", err)
	}

	return absences, nil
}
