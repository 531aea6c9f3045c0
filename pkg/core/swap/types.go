// Package swap models a duty exchange between two personnel as a linked
// pair of change requests, each carrying its own ordered chain of manager
// approvals. The state machine here decides status transitions and the
// "ready to execute" signal; persistence and slot mutation belong to the
// services layer.
package swap

import "errors"

// RequestStatus is the lifecycle state of one change-request row.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// ApprovalStatus is the state of a single approval in a row's chain.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// PairStatus is the combined status of both rows of a swap pair.
type PairStatus string

const (
	// PairPending means the partner has not yet accepted.
	PairPending PairStatus = "pending"

	// PairReviewing means both sides accepted and approvals are underway.
	PairReviewing PairStatus = "reviewing"

	// PairApproved means every gate has cleared and the swap may execute.
	PairApproved PairStatus = "approved"

	// PairRejected is terminal for both rows.
	PairRejected PairStatus = "rejected"
)

// Precondition violations reported by the state machine. Each names the
// specific gate that blocked the transition.
var (
	ErrPairDecided        = errors.New("swap pair has already been decided")
	ErrPartnerNotAccepted = errors.New("both participants must accept the swap before approvals")
	ErrOutOfOrderApproval = errors.New("approval submitted out of order")
	ErrApprovalDecided    = errors.New("approval has already been decided")
	ErrNotApprover        = errors.New("approval entry is recommend-only and cannot gate the swap")
	ErrUnknownApproval    = errors.New("approval does not belong to this pair")
	ErrUnknownParticipant = errors.New("personnel is not a participant of this pair")
	ErrMismatchedPair     = errors.New("change request rows do not form a valid pair")
)

// Approval is one entry in a row's ordered approval chain. Entries with
// IsApprover false are recommendations: they record an opinion but never
// gate the pair.
type Approval struct {
	ID         string
	Order      int
	Role       string
	IsApprover bool
	Status     ApprovalStatus
	DecidedBy  string
	Comment    string
}

// ChangeRequest is one side of a swap: the slot this participant gives up
// and the slot they receive, plus their acceptance flag and approval chain.
type ChangeRequest struct {
	ID              string
	SwapPairID      string
	PersonnelID     string
	GivingSlotID    string
	ReceivingSlotID string
	PartnerAccepted bool
	Status          RequestStatus
	Approvals       []Approval
}

// Pair links the two rows of a duty exchange. Both rows always share the
// same SwapPairID and mirror each other's giving/receiving slots.
type Pair struct {
	Requester *ChangeRequest
	Partner   *ChangeRequest
}
