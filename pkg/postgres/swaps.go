package postgres

import (
	"context"
	"fmt"

	"github.com/unitduty/dutyroster/pkg/db"
)

// InsertChangeRequests inserts both rows of a swap pair in one transaction.
// A pair is never persisted half-written.
func (d *DB) InsertChangeRequests(ctx context.Context, rows []db.DutyChangeRequest) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range rows {
		_, err := tx.Exec(ctx, `
			INSERT INTO duty_change_request (
				id, swap_pair_id, personnel_id, giving_slot_id, receiving_slot_id,
				is_initiator, partner_accepted, status, reason
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, r.ID, r.SwapPairID, r.PersonnelID, r.GivingSlotID, r.ReceivingSlotID,
			r.IsInitiator, r.PartnerAccepted, r.Status, r.Reason)
		if err != nil {
			return fmt.Errorf("failed to insert change request: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetChangeRequestsByPair returns the rows sharing a swap pair id.
func (d *DB) GetChangeRequestsByPair(ctx context.Context, pairID string) ([]db.DutyChangeRequest, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, swap_pair_id, personnel_id, giving_slot_id, receiving_slot_id,
		       is_initiator, partner_accepted, status, reason
		FROM duty_change_request
		WHERE swap_pair_id = $1
		ORDER BY is_initiator DESC
	`, pairID)
	if err != nil {
		return nil, fmt.Errorf("failed to query change requests: %w", err)
	}
	defer rows.Close()

	var requests []db.DutyChangeRequest
	for rows.Next() {
		var r db.DutyChangeRequest
		if err := rows.Scan(&r.ID, &r.SwapPairID, &r.PersonnelID, &r.GivingSlotID, &r.ReceivingSlotID,
			&r.IsInitiator, &r.PartnerAccepted, &r.Status, &r.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan change request: %w", err)
		}
		requests = append(requests, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating change requests: %w", err)
	}

	return requests, nil
}

// UpdateChangeRequest writes the mutable workflow fields of one row.
func (d *DB) UpdateChangeRequest(ctx context.Context, row *db.DutyChangeRequest) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE duty_change_request
		SET partner_accepted = $2, status = $3
		WHERE id = $1
	`, row.ID, row.PartnerAccepted, row.Status)
	if err != nil {
		return fmt.Errorf("failed to update change request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("change request %s not found", row.ID)
	}
	return nil
}

// InsertApprovals inserts the approval chains for a pair in one transaction.
func (d *DB) InsertApprovals(ctx context.Context, approvals []db.SwapApproval) error {
	if len(approvals) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, a := range approvals {
		_, err := tx.Exec(ctx, `
			INSERT INTO swap_approval (
				id, change_request_id, approval_order, approver_role,
				is_approver, status, decided_by, comment, decided_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, a.ID, a.ChangeRequestID, a.ApprovalOrder, a.ApproverRole,
			a.IsApprover, a.Status, a.DecidedBy, a.Comment, a.DecidedAt)
		if err != nil {
			return fmt.Errorf("failed to insert approval: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetApprovalsForRequest returns a row's approval chain in chain order.
func (d *DB) GetApprovalsForRequest(ctx context.Context, changeRequestID string) ([]db.SwapApproval, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, change_request_id, approval_order, approver_role,
		       is_approver, status, decided_by, comment, decided_at
		FROM swap_approval
		WHERE change_request_id = $1
		ORDER BY approval_order
	`, changeRequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query approvals: %w", err)
	}
	defer rows.Close()

	var approvals []db.SwapApproval
	for rows.Next() {
		var a db.SwapApproval
		if err := rows.Scan(&a.ID, &a.ChangeRequestID, &a.ApprovalOrder, &a.ApproverRole,
			&a.IsApprover, &a.Status, &a.DecidedBy, &a.Comment, &a.DecidedAt); err != nil {
			return nil, fmt.Errorf("failed to scan approval: %w", err)
		}
		approvals = append(approvals, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating approvals: %w", err)
	}

	return approvals, nil
}

// UpdateApproval writes an approval's decision fields.
func (d *DB) UpdateApproval(ctx context.Context, approval *db.SwapApproval) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE swap_approval
		SET status = $2, decided_by = $3, comment = $4, decided_at = $5
		WHERE id = $1
	`, approval.ID, approval.Status, approval.DecidedBy, approval.Comment, approval.DecidedAt)
	if err != nil {
		return fmt.Errorf("failed to update approval: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("approval %s not found", approval.ID)
	}
	return nil
}

// InsertRecommendation inserts a non-blocking recommendation record
func (d *DB) InsertRecommendation(ctx context.Context, rec *db.SwapRecommendation) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO swap_recommendation (id, swap_pair_id, recommender_id, supportive, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ID, rec.SwapPairID, rec.RecommenderID, rec.Supportive, rec.Comment, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert recommendation: %w", err)
	}
	return nil
}

// GetRecommendations returns recommendations for a pair, newest first.
func (d *DB) GetRecommendations(ctx context.Context, pairID string) ([]db.SwapRecommendation, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, swap_pair_id, recommender_id, supportive, comment, created_at
		FROM swap_recommendation
		WHERE swap_pair_id = $1
		ORDER BY created_at DESC
	`, pairID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	var recs []db.SwapRecommendation
	for rows.Next() {
		var r db.SwapRecommendation
		if err := rows.Scan(&r.ID, &r.SwapPairID, &r.RecommenderID, &r.Supportive, &r.Comment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recommendations: %w", err)
	}

	return recs, nil
}
