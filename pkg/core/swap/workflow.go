package swap

import (
	"fmt"
	"sort"
)

// ApprovalStep is one position in an approval chain template, used when
// constructing a pair.
type ApprovalStep struct {
	Order      int
	Role       string
	IsApprover bool
}

// NewPair builds the two linked change-request rows for a duty exchange.
// The requester's row starts accepted (requesting is accepting); the
// partner's acceptance arrives later via AcceptPartner. Both rows receive
// their own copy of the approval chain, ordered by ascending Order.
//
// idFor is called once per generated id (rows and approvals) so the caller
// controls id generation.
func NewPair(pairID, requesterID, partnerID, requesterSlotID, partnerSlotID string, chain []ApprovalStep, idFor func() string) (*Pair, error) {
	if requesterID == partnerID {
		return nil, fmt.Errorf("%w: requester and partner are the same person", ErrMismatchedPair)
	}
	if requesterSlotID == partnerSlotID {
		return nil, fmt.Errorf("%w: both sides reference the same slot", ErrMismatchedPair)
	}

	sorted := make([]ApprovalStep, len(chain))
	copy(sorted, chain)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	buildChain := func() []Approval {
		approvals := make([]Approval, len(sorted))
		for i, step := range sorted {
			approvals[i] = Approval{
				ID:         idFor(),
				Order:      step.Order,
				Role:       step.Role,
				IsApprover: step.IsApprover,
				Status:     ApprovalPending,
			}
		}
		return approvals
	}

	pair := &Pair{
		Requester: &ChangeRequest{
			ID:              idFor(),
			SwapPairID:      pairID,
			PersonnelID:     requesterID,
			GivingSlotID:    requesterSlotID,
			ReceivingSlotID: partnerSlotID,
			PartnerAccepted: true,
			Status:          StatusPending,
			Approvals:       buildChain(),
		},
		Partner: &ChangeRequest{
			ID:              idFor(),
			SwapPairID:      pairID,
			PersonnelID:     partnerID,
			GivingSlotID:    partnerSlotID,
			ReceivingSlotID: requesterSlotID,
			PartnerAccepted: false,
			Status:          StatusPending,
			Approvals:       buildChain(),
		},
	}

	if err := pair.Validate(); err != nil {
		return nil, err
	}
	return pair, nil
}

// Validate enforces the pairing invariants: shared pair id, opposite
// giving/receiving slots, and statuses that agree on any terminal outcome.
func (p *Pair) Validate() error {
	if p.Requester == nil || p.Partner == nil {
		return fmt.Errorf("%w: missing row", ErrMismatchedPair)
	}
	if p.Requester.SwapPairID != p.Partner.SwapPairID {
		return fmt.Errorf("%w: rows carry different pair ids", ErrMismatchedPair)
	}
	if p.Requester.GivingSlotID != p.Partner.ReceivingSlotID ||
		p.Requester.ReceivingSlotID != p.Partner.GivingSlotID {
		return fmt.Errorf("%w: giving and receiving slots are not mirrored", ErrMismatchedPair)
	}
	if (p.Requester.Status == StatusApproved) != (p.Partner.Status == StatusApproved) {
		return fmt.Errorf("%w: rows disagree on approval", ErrMismatchedPair)
	}
	if (p.Requester.Status == StatusRejected) != (p.Partner.Status == StatusRejected) {
		return fmt.Errorf("%w: rows disagree on rejection", ErrMismatchedPair)
	}
	return nil
}

// row returns the pair row owned by the given personnel.
func (p *Pair) row(personnelID string) (*ChangeRequest, error) {
	switch personnelID {
	case p.Requester.PersonnelID:
		return p.Requester, nil
	case p.Partner.PersonnelID:
		return p.Partner, nil
	default:
		return nil, ErrUnknownParticipant
	}
}

// AcceptPartner records the participant's acceptance of the exchange.
// Accepting a decided pair is an error; declining rejects both rows.
func (p *Pair) AcceptPartner(personnelID string, accept bool) error {
	if p.decided() {
		return ErrPairDecided
	}
	row, err := p.row(personnelID)
	if err != nil {
		return err
	}
	if !accept {
		p.rejectBoth(row)
		return nil
	}
	row.PartnerAccepted = true
	return nil
}

// CurrentApproval returns the row's next pending approver-type approval in
// chain order, or nil when the chain has fully cleared.
func (r *ChangeRequest) CurrentApproval() *Approval {
	for i := range r.Approvals {
		a := &r.Approvals[i]
		if a.IsApprover && a.Status == ApprovalPending {
			return a
		}
	}
	return nil
}

// SubmitApproval applies an approve or reject decision to the approval with
// the given id, on whichever row owns it. Order gating: only the row's
// current approval may be decided; deciding a later one returns
// ErrOutOfOrderApproval. A rejection immediately rejects both rows and
// voids the rejecting row's still-pending approvals.
func (p *Pair) SubmitApproval(approvalID string, approve bool, decidedBy, comment string) error {
	if p.decided() {
		return ErrPairDecided
	}
	if !p.Requester.PartnerAccepted || !p.Partner.PartnerAccepted {
		return ErrPartnerNotAccepted
	}

	row, approval := p.findApproval(approvalID)
	if approval == nil {
		return ErrUnknownApproval
	}
	if !approval.IsApprover {
		return ErrNotApprover
	}
	if approval.Status != ApprovalPending {
		return ErrApprovalDecided
	}

	current := row.CurrentApproval()
	if current == nil || current.ID != approval.ID {
		return fmt.Errorf("%w: approval at order %d is not the next pending approval", ErrOutOfOrderApproval, approval.Order)
	}

	approval.DecidedBy = decidedBy
	approval.Comment = comment

	if !approve {
		approval.Status = ApprovalRejected
		p.rejectBoth(row)
		return nil
	}

	approval.Status = ApprovalApproved
	if p.ReadyToExecute() {
		p.Requester.Status = StatusApproved
		p.Partner.Status = StatusApproved
	}
	return nil
}

// ReadyToExecute reports whether the swap may be executed: both rows
// accepted, neither rejected, and every approver-type approval on both rows
// approved.
func (p *Pair) ReadyToExecute() bool {
	if p.Requester.Status == StatusRejected || p.Partner.Status == StatusRejected {
		return false
	}
	if !p.Requester.PartnerAccepted || !p.Partner.PartnerAccepted {
		return false
	}
	return p.Requester.CurrentApproval() == nil && p.Partner.CurrentApproval() == nil
}

// Status derives the combined pair status from both rows.
func (p *Pair) Status() PairStatus {
	switch {
	case p.Requester.Status == StatusRejected || p.Partner.Status == StatusRejected:
		return PairRejected
	case p.Requester.Status == StatusApproved && p.Partner.Status == StatusApproved:
		return PairApproved
	case p.Requester.PartnerAccepted && p.Partner.PartnerAccepted:
		return PairReviewing
	default:
		return PairPending
	}
}

func (p *Pair) decided() bool {
	s := p.Status()
	return s == PairApproved || s == PairRejected
}

// rejectBoth rejects both rows and voids the triggering row's still-pending
// approvals.
func (p *Pair) rejectBoth(triggeringRow *ChangeRequest) {
	for i := range triggeringRow.Approvals {
		if triggeringRow.Approvals[i].Status == ApprovalPending {
			triggeringRow.Approvals[i].Status = ApprovalRejected
		}
	}
	p.Requester.Status = StatusRejected
	p.Partner.Status = StatusRejected
}

func (p *Pair) findApproval(approvalID string) (*ChangeRequest, *Approval) {
	for _, row := range []*ChangeRequest{p.Requester, p.Partner} {
		for i := range row.Approvals {
			if row.Approvals[i].ID == approvalID {
				return row, &row.Approvals[i]
			}
		}
	}
	return nil, nil
}
