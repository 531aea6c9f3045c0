package postgres

import (
	"context"
	"fmt"

	"github.com/unitduty/dutyroster/pkg/db"
)

// GetActiveDutyTypes returns the active duty types owned by the given units.
func (d *DB) GetActiveDutyTypes(ctx context.Context, unitIDs []string) ([]db.DutyType, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, unit_id, name, active, slots_needed,
		       rank_filter_mode, rank_filter_values,
		       section_filter_mode, section_filter_values,
		       required_qualifications,
		       requires_supernumerary, supernumerary_count,
		       supernumerary_period_type, supernumerary_value
		FROM duty_type
		WHERE unit_id = ANY($1) AND active
		ORDER BY id
	`, unitIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query duty types: %w", err)
	}
	defer rows.Close()

	var dutyTypes []db.DutyType
	for rows.Next() {
		var dt db.DutyType
		if err := rows.Scan(
			&dt.ID, &dt.UnitID, &dt.Name, &dt.Active, &dt.SlotsNeeded,
			&dt.RankFilterMode, &dt.RankFilterValues,
			&dt.SectionFilterMode, &dt.SectionFilterValues,
			&dt.RequiredQualifications,
			&dt.RequiresSupernumerary, &dt.SupernumeraryCount,
			&dt.SupernumeraryPeriodType, &dt.SupernumeraryValue,
		); err != nil {
			return nil, fmt.Errorf("failed to scan duty type: %w", err)
		}
		dutyTypes = append(dutyTypes, dt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating duty types: %w", err)
	}

	return dutyTypes, nil
}

// InsertDutyType inserts a duty type record
func (d *DB) InsertDutyType(ctx context.Context, dt *db.DutyType) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO duty_type (
			id, unit_id, name, active, slots_needed,
			rank_filter_mode, rank_filter_values,
			section_filter_mode, section_filter_values,
			required_qualifications,
			requires_supernumerary, supernumerary_count,
			supernumerary_period_type, supernumerary_value
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, dt.ID, dt.UnitID, dt.Name, dt.Active, dt.SlotsNeeded,
		dt.RankFilterMode, dt.RankFilterValues,
		dt.SectionFilterMode, dt.SectionFilterValues,
		dt.RequiredQualifications,
		dt.RequiresSupernumerary, dt.SupernumeraryCount,
		dt.SupernumeraryPeriodType, dt.SupernumeraryValue)
	if err != nil {
		return fmt.Errorf("failed to insert duty type: %w", err)
	}
	return nil
}

// GetDutyValues returns the point parameters for the given duty types.
// Duty types without a stored row fall back to configured defaults in the
// service layer.
func (d *DB) GetDutyValues(ctx context.Context, dutyTypeIDs []string) ([]db.DutyValue, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT duty_type_id, base_weight, weekend_multiplier, holiday_multiplier
		FROM duty_value
		WHERE duty_type_id = ANY($1)
	`, dutyTypeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query duty values: %w", err)
	}
	defer rows.Close()

	var values []db.DutyValue
	for rows.Next() {
		var v db.DutyValue
		if err := rows.Scan(&v.DutyTypeID, &v.BaseWeight, &v.WeekendMultiplier, &v.HolidayMultiplier); err != nil {
			return nil, fmt.Errorf("failed to scan duty value: %w", err)
		}
		values = append(values, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating duty values: %w", err)
	}

	return values, nil
}
