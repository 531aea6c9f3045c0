// Package model contains the domain types shared by the scheduling engine,
// the swap workflow, and the services that orchestrate them.
package model

import "github.com/shopspring/decimal"

// FilterMode determines how a duty type's rank or section filter is applied.
type FilterMode string

const (
	// FilterNone means the filter is inert and everyone passes.
	FilterNone FilterMode = "none"

	// FilterInclude means the candidate value must appear in the filter's values.
	FilterInclude FilterMode = "include"

	// FilterExclude means the candidate value must not appear in the filter's values.
	FilterExclude FilterMode = "exclude"
)

// Filter is a closed include/exclude/none filter over a set of string values.
// An empty value set makes the filter inert regardless of mode.
type Filter struct {
	Mode   FilterMode
	Values []string
}

// PeriodType determines how a date range is partitioned into standby
// coverage periods.
type PeriodType string

const (
	PeriodMonthly   PeriodType = "monthly"
	PeriodHalfMonth PeriodType = "half_month"
	PeriodWeekly    PeriodType = "weekly"
	PeriodBiWeekly  PeriodType = "bi_weekly"
)

// Personnel is a person eligible for duty assignment within a unit.
type Personnel struct {
	ID             string
	FirstName      string
	LastName       string
	Rank           string
	UnitID         string
	Qualifications []string

	// DutyScore is the cumulative fairness counter. Lower scores are
	// assigned first.
	DutyScore decimal.Decimal
}

// HasQualification reports whether the person holds the named qualification.
func (p *Personnel) HasQualification(qualification string) bool {
	for _, q := range p.Qualifications {
		if q == qualification {
			return true
		}
	}
	return false
}

// SupernumeraryConfig is a duty type's standby coverage configuration.
type SupernumeraryConfig struct {
	Required   bool
	Count      int
	PeriodType PeriodType

	// Value is the points awarded per covered period.
	Value decimal.Decimal
}

// DutyType is a recurring duty obligation owned by a unit.
type DutyType struct {
	ID          string
	UnitID      string
	Name        string
	Active      bool
	SlotsNeeded int

	RankFilter             Filter
	SectionFilter          Filter
	RequiredQualifications []string

	Supernumerary SupernumeraryConfig
}

// DutyValue holds the point-calculation parameters for a duty type.
type DutyValue struct {
	DutyTypeID        string
	BaseWeight        decimal.Decimal
	WeekendMultiplier decimal.Decimal
	HolidayMultiplier decimal.Decimal
}

// NonAvailability is an absence window for one person, inclusive on both
// ends, at calendar-date granularity. Only approved records exclude a
// person from planning.
type NonAvailability struct {
	ID          string
	PersonnelID string
	StartDate   string // YYYY-MM-DD
	EndDate     string // YYYY-MM-DD
	Status      string
}

// NonAvailabilityApproved is the status an absence must carry before the
// planner honours it.
const NonAvailabilityApproved = "approved"
