package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/unitduty/dutyroster/pkg/core/model"
)

// Period is one standby coverage window, inclusive on both ends.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PartitionPeriods divides [startDate, endDate] into contiguous,
// non-overlapping coverage periods of the given type. Weekly and bi-weekly
// periods anchor at startDate; monthly periods break at calendar month
// boundaries; half-month periods additionally split at the 15th/16th. The
// final period always clamps to endDate.
func PartitionPeriods(startDate, endDate string, periodType model.PeriodType) ([]Period, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("date range is inverted: %s is after %s", startDate, endDate)
	}

	var periods []Period
	cursor := start

	for !cursor.After(end) {
		var periodEnd time.Time

		switch periodType {
		case model.PeriodWeekly:
			periodEnd = cursor.AddDate(0, 0, 6)
		case model.PeriodBiWeekly:
			periodEnd = cursor.AddDate(0, 0, 13)
		case model.PeriodMonthly:
			periodEnd = endOfMonth(cursor)
		case model.PeriodHalfMonth:
			if cursor.Day() <= 15 {
				periodEnd = time.Date(cursor.Year(), cursor.Month(), 15, 0, 0, 0, 0, time.UTC)
			} else {
				periodEnd = endOfMonth(cursor)
			}
		default:
			return nil, fmt.Errorf("unknown period type %q", periodType)
		}

		if periodEnd.After(end) {
			periodEnd = end
		}

		periods = append(periods, Period{
			Start: cursor.Format(DateLayout),
			End:   periodEnd.Format(DateLayout),
		})
		cursor = periodEnd.AddDate(0, 0, 1)
	}

	return periods, nil
}

func endOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

// covers reports whether the existing period fully contains the candidate.
func (p Period) covers(candidate Period) bool {
	return p.Start <= candidate.Start && p.End >= candidate.End
}

// SupernumeraryPlanConfig drives one standby planning pass.
type SupernumeraryPlanConfig struct {
	StartDate string
	EndDate   string

	// DutyTypes in scope; only those with Supernumerary.Required are
	// planned.
	DutyTypes []model.DutyType

	Personnel []model.Personnel

	// Absences are non-availability records; only approved ones count. A
	// person whose approved absence overlaps a candidate period is not
	// assigned standby for it.
	Absences []model.NonAvailability

	// ExistingCoverage lists coverage periods already assigned, keyed by
	// duty type id. Candidate periods fully contained in an existing
	// period are left untouched.
	ExistingCoverage map[string][]Period

	// Scores is the caller-owned fairness snapshot; typically the Scores
	// output of a primary planning pass, so standby duty stacks on top of
	// regular duty.
	Scores map[string]decimal.Decimal
}

// PlannedStandby is one standby assignment produced by a planning pass.
type PlannedStandby struct {
	DutyTypeID  string          `json:"duty_type_id"`
	PersonnelID string          `json:"personnel_id"`
	PeriodStart string          `json:"period_start"`
	PeriodEnd   string          `json:"period_end"`
	Points      decimal.Decimal `json:"points"`
}

// SupernumeraryOutcome is the result of a standby planning pass.
type SupernumeraryOutcome struct {
	Assignments []PlannedStandby
	Warnings    []string

	// Scores is the projected snapshot including standby points.
	Scores map[string]decimal.Decimal
}

// PlanSupernumerary partitions the range into coverage periods per duty type
// and fills each uncovered period with the lowest-scored eligible personnel,
// using the same fairness ordering as the primary planner. Standby points
// are the duty type's configured per-period value.
func PlanSupernumerary(cfg SupernumeraryPlanConfig) (*SupernumeraryOutcome, error) {
	if _, err := DatesBetween(cfg.StartDate, cfg.EndDate); err != nil {
		return nil, err
	}

	scores := copyScores(cfg.Scores, cfg.Personnel)
	absences := buildAbsenceIndex(cfg.Absences)

	outcome := &SupernumeraryOutcome{
		Assignments: []PlannedStandby{},
		Warnings:    []string{},
	}

	dutyTypes := make([]model.DutyType, 0, len(cfg.DutyTypes))
	for _, dt := range cfg.DutyTypes {
		if dt.Active && dt.Supernumerary.Required {
			dutyTypes = append(dutyTypes, dt)
		}
	}
	sort.Slice(dutyTypes, func(i, j int) bool { return dutyTypes[i].ID < dutyTypes[j].ID })

	for i := range dutyTypes {
		dutyType := &dutyTypes[i]

		periods, err := PartitionPeriods(cfg.StartDate, cfg.EndDate, dutyType.Supernumerary.PeriodType)
		if err != nil {
			return nil, fmt.Errorf("duty type %s: %w", dutyType.Name, err)
		}

		for _, period := range periods {
			if existingCovers(cfg.ExistingCoverage[dutyType.ID], period) {
				outcome.Warnings = append(outcome.Warnings, fmt.Sprintf(
					"%s: period %s to %s already covered", dutyType.Name, period.Start, period.End))
				continue
			}

			periodStart, err := ParseDate(period.Start)
			if err != nil {
				return nil, err
			}
			periodEnd, err := ParseDate(period.End)
			if err != nil {
				return nil, err
			}

			candidates := make([]*model.Personnel, 0, len(cfg.Personnel))
			for j := range cfg.Personnel {
				p := &cfg.Personnel[j]
				if absences.isAbsentDuring(p.ID, periodStart, periodEnd) {
					continue
				}
				if !MeetsRequirements(p, dutyType) {
					continue
				}
				candidates = append(candidates, p)
			}
			sortByScore(candidates, scores)

			count := dutyType.Supernumerary.Count
			if count <= 0 {
				count = 1
			}

			assigned := 0
			for _, candidate := range candidates {
				if assigned >= count {
					break
				}

				scores[candidate.ID] = scores[candidate.ID].Add(dutyType.Supernumerary.Value)
				outcome.Assignments = append(outcome.Assignments, PlannedStandby{
					DutyTypeID:  dutyType.ID,
					PersonnelID: candidate.ID,
					PeriodStart: period.Start,
					PeriodEnd:   period.End,
					Points:      dutyType.Supernumerary.Value,
				})
				assigned++
			}

			if assigned < count {
				outcome.Warnings = append(outcome.Warnings, fmt.Sprintf(
					"%s: only %d of %d standby personnel available for %s to %s",
					dutyType.Name, assigned, count, period.Start, period.End))
			}
		}
	}

	outcome.Scores = scores
	return outcome, nil
}

func existingCovers(existing []Period, candidate Period) bool {
	for _, p := range existing {
		if p.covers(candidate) {
			return true
		}
	}
	return false
}
