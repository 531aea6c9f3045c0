// Package db defines the record types exchanged with the store. Services
// declare their own narrow store interfaces over these types; pkg/postgres
// implements them.
package db

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unit is an organizational unit. Units form a tree via ParentID; planning
// requests scope to a unit and all of its descendants.
type Unit struct {
	ID       string
	Name     string
	RUC      string
	ParentID *string
}

// Personnel is a person record with their cumulative duty score.
type Personnel struct {
	ID             string
	FirstName      string
	LastName       string
	Rank           string
	UnitID         string
	Qualifications []string
	DutyScore      decimal.Decimal
}

// DutyType is a recurring duty obligation and its filter configuration.
type DutyType struct {
	ID          string
	UnitID      string
	Name        string
	Active      bool
	SlotsNeeded int

	RankFilterMode      string
	RankFilterValues    []string
	SectionFilterMode   string
	SectionFilterValues []string

	RequiredQualifications []string

	RequiresSupernumerary   bool
	SupernumeraryCount      int
	SupernumeraryPeriodType string
	SupernumeraryValue      decimal.Decimal
}

// DutyValue holds a duty type's point parameters.
type DutyValue struct {
	DutyTypeID        string
	BaseWeight        decimal.Decimal
	WeekendMultiplier decimal.Decimal
	HolidayMultiplier decimal.Decimal
}

// NonAvailability is an absence window, inclusive calendar dates.
type NonAvailability struct {
	ID          string
	PersonnelID string
	StartDate   string
	EndDate     string
	Status      string
}

// Duty slot statuses.
const (
	SlotScheduled = "scheduled"
	SlotApproved  = "approved"
	SlotCompleted = "completed"
	SlotMissed    = "missed"
	SlotSwapped   = "swapped"
)

// DutySlot is one persisted duty occurrence. PersonnelID is empty for an
// unfilled slot. The swap lineage fields are set only by the swap workflow.
type DutySlot struct {
	ID           string
	DutyTypeID   string
	PersonnelID  string
	AssignedDate string
	Points       decimal.Decimal
	Status       string

	SwappedFromPersonnelID *string
	SwapPairID             *string
}

// SupernumeraryAssignment is a persisted standby coverage period.
type SupernumeraryAssignment struct {
	ID          string
	DutyTypeID  string
	PersonnelID string
	PeriodStart string
	PeriodEnd   string
	Points      decimal.Decimal
	Activations int
}

// DutyChangeRequest is one row of a swap pair.
type DutyChangeRequest struct {
	ID              string
	SwapPairID      string
	PersonnelID     string
	GivingSlotID    string
	ReceivingSlotID string
	IsInitiator     bool
	PartnerAccepted bool
	Status          string
	Reason          string
}

// SwapApproval is one entry in a change request's approval chain.
type SwapApproval struct {
	ID              string
	ChangeRequestID string
	ApprovalOrder   int
	ApproverRole    string
	IsApprover      bool
	Status          string
	DecidedBy       *string
	Comment         string
	DecidedAt       *time.Time
}

// SwapRecommendation is a non-blocking opinion from a manager outside the
// approval chain. It never changes workflow state.
type SwapRecommendation struct {
	ID            string
	SwapPairID    string
	RecommenderID string
	Supportive    bool
	Comment       string
	CreatedAt     time.Time
}

// DutyScoreEvent is an append-only audit record for every score change.
type DutyScoreEvent struct {
	ID              string
	PersonnelID     string
	DutySlotID      *string
	SupernumeraryID *string
	Points          decimal.Decimal
	EventDate       string
	Reason          string
	CreatedAt       time.Time
}
