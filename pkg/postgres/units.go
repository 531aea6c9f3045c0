package postgres

import (
	"context"
	"fmt"

	"github.com/unitduty/dutyroster/pkg/db"
)

// GetUnitSubtree returns the unit with the given id and all of its
// descendants. A planning request scoped to a battalion level unit picks
// up every company and section below it.
func (d *DB) GetUnitSubtree(ctx context.Context, unitID string) ([]db.Unit, error) {
	rows, err := d.pool.Query(ctx, `
		WITH RECURSIVE subtree AS (
			SELECT id, name, ruc, parent_id
			FROM unit
			WHERE id = $1
			UNION ALL
			SELECT u.id, u.name, u.ruc, u.parent_id
			FROM unit u
			JOIN subtree s ON u.parent_id = s.id
		)
		SELECT id, name, ruc, parent_id FROM subtree
	`, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unit subtree: %w", err)
	}
	defer rows.Close()

	var units []db.Unit
	for rows.Next() {
		var u db.Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.RUC, &u.ParentID); err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		units = append(units, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating units: %w", err)
	}

	return units, nil
}

// InsertUnit inserts a unit record
func (d *DB) InsertUnit(ctx context.Context, unit *db.Unit) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO unit (id, name, ruc, parent_id)
		VALUES ($1, $2, $3, $4)
	`, unit.ID, unit.Name, unit.RUC, unit.ParentID)
	if err != nil {
		return fmt.Errorf("failed to insert unit: %w", err)
	}
	return nil
}
