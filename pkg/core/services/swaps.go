package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unitduty/dutyroster/internal/config"
	"github.com/unitduty/dutyroster/pkg/core/swap"
	"github.com/unitduty/dutyroster/pkg/db"
)

// SwapStore defines the database operations needed for the swap workflow.
type SwapStore interface {
	GetSlot(ctx context.Context, slotID string) (*db.DutySlot, error)
	InsertChangeRequests(ctx context.Context, rows []db.DutyChangeRequest) error
	InsertApprovals(ctx context.Context, approvals []db.SwapApproval) error
	GetChangeRequestsByPair(ctx context.Context, pairID string) ([]db.DutyChangeRequest, error)
	GetApprovalsForRequest(ctx context.Context, changeRequestID string) ([]db.SwapApproval, error)
	UpdateChangeRequest(ctx context.Context, row *db.DutyChangeRequest) error
	UpdateApproval(ctx context.Context, approval *db.SwapApproval) error
	UpdateSlotForSwap(ctx context.Context, slotID, newPersonnelID, previousPersonnelID, pairID string) error
	InsertRecommendation(ctx context.Context, rec *db.SwapRecommendation) error
	GetRecommendations(ctx context.Context, pairID string) ([]db.SwapRecommendation, error)
}

// SwapRequestInput starts a duty exchange between the owners of two slots.
type SwapRequestInput struct {
	RequesterSlotID string `json:"requester_slot_id" validate:"required"`
	PartnerSlotID   string `json:"partner_slot_id" validate:"required"`
	Reason          string `json:"reason"`
}

// SwapView is the caller-facing snapshot of a pair and its approval state.
type SwapView struct {
	PairID          string                  `json:"pair_id"`
	Status          swap.PairStatus         `json:"status"`
	ReadyToExecute  bool                    `json:"ready_to_execute"`
	Requester       *swap.ChangeRequest     `json:"requester"`
	Partner         *swap.ChangeRequest     `json:"partner"`
	Recommendations []db.SwapRecommendation `json:"recommendations"`
}

// RequestSwap creates the linked pair of change requests for a duty
// exchange, stamping the configured approval chain onto both rows.
func RequestSwap(ctx context.Context, store SwapStore, cfg *config.Config, logger *zap.Logger, input SwapRequestInput) (*SwapView, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid swap request: %w", err)
	}

	requesterSlot, err := store.GetSlot(ctx, input.RequesterSlotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requester slot: %w", err)
	}
	partnerSlot, err := store.GetSlot(ctx, input.PartnerSlotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load partner slot: %w", err)
	}

	for _, slot := range []*db.DutySlot{requesterSlot, partnerSlot} {
		if slot.PersonnelID == "" {
			return nil, fmt.Errorf("slot %s is unfilled and cannot be swapped", slot.ID)
		}
		if slot.Status == db.SlotSwapped {
			return nil, fmt.Errorf("slot %s has already been swapped", slot.ID)
		}
	}

	chain := make([]swap.ApprovalStep, len(cfg.SwapApprovalChain))
	for i, step := range cfg.SwapApprovalChain {
		chain[i] = swap.ApprovalStep{
			Order:      step.Order,
			Role:       step.Role,
			IsApprover: step.IsApprover,
		}
	}

	pairID := uuid.New().String()
	pair, err := swap.NewPair(
		pairID,
		requesterSlot.PersonnelID,
		partnerSlot.PersonnelID,
		requesterSlot.ID,
		partnerSlot.ID,
		chain,
		func() string { return uuid.New().String() },
	)
	if err != nil {
		return nil, err
	}

	rows := []db.DutyChangeRequest{
		toDBChangeRequest(pair.Requester, true, input.Reason),
		toDBChangeRequest(pair.Partner, false, input.Reason),
	}
	if err := store.InsertChangeRequests(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to persist change requests: %w", err)
	}

	var approvals []db.SwapApproval
	for _, row := range []*swap.ChangeRequest{pair.Requester, pair.Partner} {
		for _, a := range row.Approvals {
			approvals = append(approvals, toDBApproval(row.ID, a))
		}
	}
	if err := store.InsertApprovals(ctx, approvals); err != nil {
		return nil, fmt.Errorf("failed to persist approval chain: %w", err)
	}

	logger.Info("Swap requested",
		zap.String("pair_id", pairID),
		zap.String("requester_id", pair.Requester.PersonnelID),
		zap.String("partner_id", pair.Partner.PersonnelID))

	return buildSwapView(ctx, store, pairID, pair)
}

// RespondToSwap records the partner's acceptance or decline of a pending
// exchange. Declining rejects the whole pair.
func RespondToSwap(ctx context.Context, store SwapStore, logger *zap.Logger, pairID, personnelID string, accept bool) (*SwapView, error) {
	pair, err := loadPair(ctx, store, pairID)
	if err != nil {
		return nil, err
	}

	if err := pair.AcceptPartner(personnelID, accept); err != nil {
		return nil, err
	}

	if err := persistPair(ctx, store, pair); err != nil {
		return nil, err
	}

	logger.Info("Swap response recorded",
		zap.String("pair_id", pairID),
		zap.String("personnel_id", personnelID),
		zap.Bool("accepted", accept))

	return buildSwapView(ctx, store, pairID, pair)
}

// DecideApproval applies one manager decision to the pair's approval chain.
// When the decision clears the final gate the swap executes immediately.
func DecideApproval(ctx context.Context, store SwapStore, logger *zap.Logger, pairID, approvalID string, approve bool, decidedBy, comment string) (*SwapView, error) {
	pair, err := loadPair(ctx, store, pairID)
	if err != nil {
		return nil, err
	}

	if err := pair.SubmitApproval(approvalID, approve, decidedBy, comment); err != nil {
		return nil, err
	}

	if err := persistPair(ctx, store, pair); err != nil {
		return nil, err
	}

	logger.Info("Swap approval decided",
		zap.String("pair_id", pairID),
		zap.String("approval_id", approvalID),
		zap.Bool("approved", approve),
		zap.String("decided_by", decidedBy))

	if pair.ReadyToExecute() {
		if err := ExecuteSwap(ctx, store, logger, pair); err != nil {
			return nil, err
		}
	}

	return buildSwapView(ctx, store, pairID, pair)
}

// ExecuteSwap flips slot ownership between the two sides of an approved
// pair, marks both slots swapped, and stamps the swap lineage fields.
func ExecuteSwap(ctx context.Context, store SwapStore, logger *zap.Logger, pair *swap.Pair) error {
	if !pair.ReadyToExecute() {
		return fmt.Errorf("swap pair %s is not ready to execute", pair.Requester.SwapPairID)
	}

	requester := pair.Requester
	partner := pair.Partner

	if err := store.UpdateSlotForSwap(ctx, requester.GivingSlotID, partner.PersonnelID, requester.PersonnelID, requester.SwapPairID); err != nil {
		return fmt.Errorf("failed to reassign slot %s: %w", requester.GivingSlotID, err)
	}
	if err := store.UpdateSlotForSwap(ctx, partner.GivingSlotID, requester.PersonnelID, partner.PersonnelID, partner.SwapPairID); err != nil {
		return fmt.Errorf("failed to reassign slot %s: %w", partner.GivingSlotID, err)
	}

	logger.Info("Swap executed",
		zap.String("pair_id", requester.SwapPairID),
		zap.String("requester_slot", requester.GivingSlotID),
		zap.String("partner_slot", partner.GivingSlotID))

	return nil
}

// AddRecommendation records a non-blocking opinion on a pair from a manager
// outside the approval chain. It never changes workflow state.
func AddRecommendation(ctx context.Context, store SwapStore, logger *zap.Logger, pairID, recommenderID string, supportive bool, comment string) error {
	if _, err := loadPair(ctx, store, pairID); err != nil {
		return err
	}

	rec := &db.SwapRecommendation{
		ID:            uuid.New().String(),
		SwapPairID:    pairID,
		RecommenderID: recommenderID,
		Supportive:    supportive,
		Comment:       comment,
		CreatedAt:     time.Now(),
	}
	if err := store.InsertRecommendation(ctx, rec); err != nil {
		return fmt.Errorf("failed to persist recommendation: %w", err)
	}

	logger.Info("Swap recommendation recorded",
		zap.String("pair_id", pairID),
		zap.String("recommender_id", recommenderID),
		zap.Bool("supportive", supportive))

	return nil
}

// GetSwap returns the current view of a pair.
func GetSwap(ctx context.Context, store SwapStore, pairID string) (*SwapView, error) {
	pair, err := loadPair(ctx, store, pairID)
	if err != nil {
		return nil, err
	}
	return buildSwapView(ctx, store, pairID, pair)
}

// loadPair reconstructs the state machine from the two stored rows and
// their approval chains.
func loadPair(ctx context.Context, store SwapStore, pairID string) (*swap.Pair, error) {
	rows, err := store.GetChangeRequestsByPair(ctx, pairID)
	if err != nil {
		return nil, fmt.Errorf("failed to load swap pair %s: %w", pairID, err)
	}
	if len(rows) != 2 {
		return nil, fmt.Errorf("swap pair %s has %d rows, expected 2", pairID, len(rows))
	}

	var requester, partner *swap.ChangeRequest
	for i := range rows {
		row := &rows[i]
		approvals, err := store.GetApprovalsForRequest(ctx, row.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load approvals for request %s: %w", row.ID, err)
		}
		cr := toSwapChangeRequest(row, approvals)
		if row.IsInitiator {
			requester = cr
		} else {
			partner = cr
		}
	}

	pair := &swap.Pair{Requester: requester, Partner: partner}
	if err := pair.Validate(); err != nil {
		return nil, err
	}
	return pair, nil
}

// persistPair writes both rows and every approval back to the store.
func persistPair(ctx context.Context, store SwapStore, pair *swap.Pair) error {
	for _, row := range []*swap.ChangeRequest{pair.Requester, pair.Partner} {
		isInitiator := row == pair.Requester
		dbRow := toDBChangeRequest(row, isInitiator, "")
		if err := store.UpdateChangeRequest(ctx, &dbRow); err != nil {
			return fmt.Errorf("failed to update change request %s: %w", row.ID, err)
		}
		for _, a := range row.Approvals {
			dbApproval := toDBApproval(row.ID, a)
			if err := store.UpdateApproval(ctx, &dbApproval); err != nil {
				return fmt.Errorf("failed to update approval %s: %w", a.ID, err)
			}
		}
	}
	return nil
}

func buildSwapView(ctx context.Context, store SwapStore, pairID string, pair *swap.Pair) (*SwapView, error) {
	recs, err := store.GetRecommendations(ctx, pairID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendations: %w", err)
	}
	return &SwapView{
		PairID:          pairID,
		Status:          pair.Status(),
		ReadyToExecute:  pair.ReadyToExecute(),
		Requester:       pair.Requester,
		Partner:         pair.Partner,
		Recommendations: recs,
	}, nil
}

func toDBChangeRequest(row *swap.ChangeRequest, isInitiator bool, reason string) db.DutyChangeRequest {
	return db.DutyChangeRequest{
		ID:              row.ID,
		SwapPairID:      row.SwapPairID,
		PersonnelID:     row.PersonnelID,
		GivingSlotID:    row.GivingSlotID,
		ReceivingSlotID: row.ReceivingSlotID,
		IsInitiator:     isInitiator,
		PartnerAccepted: row.PartnerAccepted,
		Status:          string(row.Status),
		Reason:          reason,
	}
}

func toDBApproval(changeRequestID string, a swap.Approval) db.SwapApproval {
	approval := db.SwapApproval{
		ID:              a.ID,
		ChangeRequestID: changeRequestID,
		ApprovalOrder:   a.Order,
		ApproverRole:    a.Role,
		IsApprover:      a.IsApprover,
		Status:          string(a.Status),
		Comment:         a.Comment,
	}
	if a.DecidedBy != "" {
		decidedBy := a.DecidedBy
		decidedAt := time.Now()
		approval.DecidedBy = &decidedBy
		approval.DecidedAt = &decidedAt
	}
	return approval
}

func toSwapChangeRequest(row *db.DutyChangeRequest, approvals []db.SwapApproval) *swap.ChangeRequest {
	sort.Slice(approvals, func(i, j int) bool { return approvals[i].ApprovalOrder < approvals[j].ApprovalOrder })

	converted := make([]swap.Approval, len(approvals))
	for i, a := range approvals {
		decidedBy := ""
		if a.DecidedBy != nil {
			decidedBy = *a.DecidedBy
		}
		converted[i] = swap.Approval{
			ID:         a.ID,
			Order:      a.ApprovalOrder,
			Role:       a.ApproverRole,
			IsApprover: a.IsApprover,
			Status:     swap.ApprovalStatus(a.Status),
			DecidedBy:  decidedBy,
			Comment:    a.Comment,
		}
	}

	return &swap.ChangeRequest{
		ID:              row.ID,
		SwapPairID:      row.SwapPairID,
		PersonnelID:     row.PersonnelID,
		GivingSlotID:    row.GivingSlotID,
		ReceivingSlotID: row.ReceivingSlotID,
		PartnerAccepted: row.PartnerAccepted,
		Status:          swap.RequestStatus(row.Status),
		Approvals:       converted,
	}
}
