package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unitduty/dutyroster/internal/config"
	"github.com/unitduty/dutyroster/pkg/core/swap"
	"github.com/unitduty/dutyroster/pkg/db"
)

// mockSwapStore implements an in-memory test double for the swap store
type mockSwapStore struct {
	slots     map[string]*db.DutySlot
	requests  map[string]*db.DutyChangeRequest
	approvals map[string]*db.SwapApproval
	recs      []db.SwapRecommendation

	slotSwaps []string
}

func newMockSwapStore() *mockSwapStore {
	return &mockSwapStore{
		slots:     make(map[string]*db.DutySlot),
		requests:  make(map[string]*db.DutyChangeRequest),
		approvals: make(map[string]*db.SwapApproval),
	}
}

func (m *mockSwapStore) GetSlot(ctx context.Context, slotID string) (*db.DutySlot, error) {
	slot, ok := m.slots[slotID]
	if !ok {
		return nil, fmt.Errorf("slot %s not found", slotID)
	}
	copied := *slot
	return &copied, nil
}

func (m *mockSwapStore) InsertChangeRequests(ctx context.Context, rows []db.DutyChangeRequest) error {
	for i := range rows {
		row := rows[i]
		m.requests[row.ID] = &row
	}
	return nil
}

func (m *mockSwapStore) InsertApprovals(ctx context.Context, approvals []db.SwapApproval) error {
	for i := range approvals {
		a := approvals[i]
		m.approvals[a.ID] = &a
	}
	return nil
}

func (m *mockSwapStore) GetChangeRequestsByPair(ctx context.Context, pairID string) ([]db.DutyChangeRequest, error) {
	var rows []db.DutyChangeRequest
	for _, r := range m.requests {
		if r.SwapPairID == pairID {
			rows = append(rows, *r)
		}
	}
	return rows, nil
}

func (m *mockSwapStore) GetApprovalsForRequest(ctx context.Context, changeRequestID string) ([]db.SwapApproval, error) {
	var approvals []db.SwapApproval
	for _, a := range m.approvals {
		if a.ChangeRequestID == changeRequestID {
			approvals = append(approvals, *a)
		}
	}
	return approvals, nil
}

func (m *mockSwapStore) UpdateChangeRequest(ctx context.Context, row *db.DutyChangeRequest) error {
	stored, ok := m.requests[row.ID]
	if !ok {
		return fmt.Errorf("change request %s not found", row.ID)
	}
	stored.PartnerAccepted = row.PartnerAccepted
	stored.Status = row.Status
	return nil
}

func (m *mockSwapStore) UpdateApproval(ctx context.Context, approval *db.SwapApproval) error {
	stored, ok := m.approvals[approval.ID]
	if !ok {
		return fmt.Errorf("approval %s not found", approval.ID)
	}
	stored.Status = approval.Status
	stored.DecidedBy = approval.DecidedBy
	stored.Comment = approval.Comment
	stored.DecidedAt = approval.DecidedAt
	return nil
}

func (m *mockSwapStore) UpdateSlotForSwap(ctx context.Context, slotID, newPersonnelID, previousPersonnelID, pairID string) error {
	slot, ok := m.slots[slotID]
	if !ok {
		return fmt.Errorf("slot %s not found", slotID)
	}
	slot.PersonnelID = newPersonnelID
	slot.SwappedFromPersonnelID = &previousPersonnelID
	slot.SwapPairID = &pairID
	slot.Status = db.SlotSwapped
	m.slotSwaps = append(m.slotSwaps, slotID)
	return nil
}

func (m *mockSwapStore) InsertRecommendation(ctx context.Context, rec *db.SwapRecommendation) error {
	m.recs = append(m.recs, *rec)
	return nil
}

func (m *mockSwapStore) GetRecommendations(ctx context.Context, pairID string) ([]db.SwapRecommendation, error) {
	var recs []db.SwapRecommendation
	for _, r := range m.recs {
		if r.SwapPairID == pairID {
			recs = append(recs, r)
		}
	}
	return recs, nil
}

func swapFixtures() *mockSwapStore {
	mock := newMockSwapStore()
	mock.slots["slot-a"] = &db.DutySlot{
		ID: "slot-a", DutyTypeID: "duty-1", PersonnelID: "p1",
		AssignedDate: "2025-02-01", Points: decimal.NewFromInt(1), Status: db.SlotScheduled,
	}
	mock.slots["slot-b"] = &db.DutySlot{
		ID: "slot-b", DutyTypeID: "duty-1", PersonnelID: "p2",
		AssignedDate: "2025-02-08", Points: decimal.NewFromInt(1), Status: db.SlotScheduled,
	}
	return mock
}

func swapConfig() *config.Config {
	cfg := testConfig()
	cfg.SwapApprovalChain = []config.ApprovalStep{
		{Order: 1, Role: "platoon_sergeant", IsApprover: true},
		{Order: 2, Role: "first_sergeant", IsApprover: true},
	}
	return cfg
}

func requestTestSwap(t *testing.T, mock *mockSwapStore) *SwapView {
	t.Helper()
	view, err := RequestSwap(context.Background(), mock, swapConfig(), zap.NewNop(), SwapRequestInput{
		RequesterSlotID: "slot-a",
		PartnerSlotID:   "slot-b",
		Reason:          "family event",
	})
	require.NoError(t, err)
	return view
}

func TestRequestSwap_CreatesLinkedPair(t *testing.T) {
	mock := swapFixtures()
	view := requestTestSwap(t, mock)

	assert.Equal(t, swap.PairPending, view.Status)
	assert.Equal(t, "p1", view.Requester.PersonnelID)
	assert.Equal(t, "p2", view.Partner.PersonnelID)
	assert.True(t, view.Requester.PartnerAccepted)
	assert.False(t, view.Partner.PartnerAccepted)

	assert.Len(t, mock.requests, 2)
	assert.Len(t, mock.approvals, 4, "two approvals per row")

	// Initiator flag distinguishes the rows for later reconstruction
	initiators := 0
	for _, r := range mock.requests {
		if r.IsInitiator {
			initiators++
			assert.Equal(t, "p1", r.PersonnelID)
		}
		assert.Equal(t, "family event", r.Reason)
	}
	assert.Equal(t, 1, initiators)
}

func TestRequestSwap_RejectsSwappedSlot(t *testing.T) {
	mock := swapFixtures()
	mock.slots["slot-b"].Status = db.SlotSwapped

	_, err := RequestSwap(context.Background(), mock, swapConfig(), zap.NewNop(), SwapRequestInput{
		RequesterSlotID: "slot-a",
		PartnerSlotID:   "slot-b",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already been swapped")
}

func TestRequestSwap_RejectsUnfilledSlot(t *testing.T) {
	mock := swapFixtures()
	mock.slots["slot-b"].PersonnelID = ""

	_, err := RequestSwap(context.Background(), mock, swapConfig(), zap.NewNop(), SwapRequestInput{
		RequesterSlotID: "slot-a",
		PartnerSlotID:   "slot-b",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unfilled")
}

func TestRequestSwap_RejectsSameOwner(t *testing.T) {
	mock := swapFixtures()
	mock.slots["slot-b"].PersonnelID = "p1"

	_, err := RequestSwap(context.Background(), mock, swapConfig(), zap.NewNop(), SwapRequestInput{
		RequesterSlotID: "slot-a",
		PartnerSlotID:   "slot-b",
	})
	assert.ErrorIs(t, err, swap.ErrMismatchedPair)
}

func TestRespondToSwap_AcceptMovesToReviewing(t *testing.T) {
	mock := swapFixtures()
	view := requestTestSwap(t, mock)

	view, err := RespondToSwap(context.Background(), mock, zap.NewNop(), view.PairID, "p2", true)
	require.NoError(t, err)

	assert.Equal(t, swap.PairReviewing, view.Status)
	assert.True(t, view.Partner.PartnerAccepted)
}

func TestRespondToSwap_DeclineRejectsPair(t *testing.T) {
	mock := swapFixtures()
	view := requestTestSwap(t, mock)

	view, err := RespondToSwap(context.Background(), mock, zap.NewNop(), view.PairID, "p2", false)
	require.NoError(t, err)

	assert.Equal(t, swap.PairRejected, view.Status)

	// Persisted state matches
	for _, r := range mock.requests {
		assert.Equal(t, string(swap.StatusRejected), r.Status)
	}
}

func approvalIDsInOrder(row *swap.ChangeRequest) []string {
	ids := make([]string, len(row.Approvals))
	for i, a := range row.Approvals {
		ids[i] = a.ID
	}
	return ids
}

func TestDecideApproval_FullChainExecutesSwap(t *testing.T) {
	mock := swapFixtures()
	view := requestTestSwap(t, mock)
	pairID := view.PairID
	logger := zap.NewNop()

	_, err := RespondToSwap(context.Background(), mock, logger, pairID, "p2", true)
	require.NoError(t, err)

	view, err = GetSwap(context.Background(), mock, pairID)
	require.NoError(t, err)

	for _, row := range []*swap.ChangeRequest{view.Requester, view.Partner} {
		for _, id := range approvalIDsInOrder(row) {
			view, err = DecideApproval(context.Background(), mock, logger, pairID, id, true, "mgr-1", "")
			require.NoError(t, err)
		}
	}

	assert.Equal(t, swap.PairApproved, view.Status)
	assert.Len(t, mock.slotSwaps, 2)

	// Ownership flipped with lineage stamped
	slotA := mock.slots["slot-a"]
	slotB := mock.slots["slot-b"]
	assert.Equal(t, "p2", slotA.PersonnelID)
	assert.Equal(t, "p1", slotB.PersonnelID)
	assert.Equal(t, db.SlotSwapped, slotA.Status)
	assert.Equal(t, db.SlotSwapped, slotB.Status)
	require.NotNil(t, slotA.SwappedFromPersonnelID)
	assert.Equal(t, "p1", *slotA.SwappedFromPersonnelID)
	require.NotNil(t, slotA.SwapPairID)
	assert.Equal(t, pairID, *slotA.SwapPairID)
}

func TestDecideApproval_OutOfOrder(t *testing.T) {
	mock := swapFixtures()
	view := requestTestSwap(t, mock)
	logger := zap.NewNop()

	_, err := RespondToSwap(context.Background(), mock, logger, view.PairID, "p2", true)
	require.NoError(t, err)

	view, err = GetSwap(context.Background(), mock, view.PairID)
	require.NoError(t, err)

	secondApproval := view.Requester.Approvals[1].ID
	_, err = DecideApproval(context.Background(), mock, logger, view.PairID, secondApproval, true, "1sg-1", "")
	assert.ErrorIs(t, err, swap.ErrOutOfOrderApproval)
}

func TestDecideApproval_BeforePartnerAccepts(t *testing.T) {
	mock := swapFixtures()
	view := requestTestSwap(t, mock)

	firstApproval := view.Requester.Approvals[0].ID
	_, err := DecideApproval(context.Background(), mock, zap.NewNop(), view.PairID, firstApproval, true, "sgt-1", "")
	assert.ErrorIs(t, err, swap.ErrPartnerNotAccepted)
}

func TestDecideApproval_RejectionDoesNotTouchSlots(t *testing.T) {
	mock := swapFixtures()
	view := requestTestSwap(t, mock)
	logger := zap.NewNop()

	_, err := RespondToSwap(context.Background(), mock, logger, view.PairID, "p2", true)
	require.NoError(t, err)

	view, err = GetSwap(context.Background(), mock, view.PairID)
	require.NoError(t, err)

	view, err = DecideApproval(context.Background(), mock, logger, view.PairID,
		view.Requester.Approvals[0].ID, false, "sgt-1", "mission conflict")
	require.NoError(t, err)

	assert.Equal(t, swap.PairRejected, view.Status)
	assert.Empty(t, mock.slotSwaps)
	assert.Equal(t, "p1", mock.slots["slot-a"].PersonnelID)
}

func TestAddRecommendation_NeverGates(t *testing.T) {
	mock := swapFixtures()
	view := requestTestSwap(t, mock)

	err := AddRecommendation(context.Background(), mock, zap.NewNop(), view.PairID, "sl-9", false, "poor timing")
	require.NoError(t, err)

	view, err = GetSwap(context.Background(), mock, view.PairID)
	require.NoError(t, err)

	require.Len(t, view.Recommendations, 1)
	assert.False(t, view.Recommendations[0].Supportive)

	// Workflow state unchanged
	assert.Equal(t, swap.PairPending, view.Status)
}

func TestGetSwap_UnknownPair(t *testing.T) {
	mock := swapFixtures()
	_, err := GetSwap(context.Background(), mock, "no-such-pair")
	assert.Error(t, err)
}
