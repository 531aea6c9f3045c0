package scheduler

import (
	"github.com/shopspring/decimal"

	"github.com/unitduty/dutyroster/pkg/core/model"
)

// PlanConfig contains everything a planning pass needs. A pass is a pure
// function of this config: it reads no ambient state and writes nothing.
type PlanConfig struct {
	// StartDate and EndDate bound the pass, inclusive (YYYY-MM-DD).
	StartDate string
	EndDate   string

	// DutyTypes to fill. Inactive types are skipped.
	DutyTypes []model.DutyType

	// Values holds point parameters keyed by duty type id. Types without
	// an entry use the engine defaults.
	Values map[string]model.DutyValue

	// Personnel in scope, with their current duty scores.
	Personnel []model.Personnel

	// Absences are non-availability records; only approved ones count.
	Absences []model.NonAvailability

	// Scores is the caller-owned fairness snapshot keyed by personnel id.
	// The planner copies it and mutates only its copy; personnel without
	// an entry fall back to their DutyScore field.
	Scores map[string]decimal.Decimal

	// Calendar classifies holidays and weekends for the scorer.
	Calendar Calendar
}

// PlannedSlot is one duty occurrence produced by a planning pass. It is not
// persisted until the apply layer writes it.
type PlannedSlot struct {
	DutyTypeID  string          `json:"duty_type_id"`
	PersonnelID string          `json:"personnel_id"`
	Date        string          `json:"date"`
	Points      decimal.Decimal `json:"points"`
}

// PlanOutcome is the result of a planning pass.
type PlanOutcome struct {
	// Slots in assignment order: ascending date, then duty type id.
	Slots []PlannedSlot

	// SlotsCreated counts planned slots; SlotsSkipped counts slots that
	// could not be covered.
	SlotsCreated int
	SlotsSkipped int

	// Warnings describe coverage shortfalls. They never abort a pass.
	Warnings []string

	// Scores is the projected fairness snapshot after the pass, including
	// every point the pass awarded.
	Scores map[string]decimal.Decimal
}
