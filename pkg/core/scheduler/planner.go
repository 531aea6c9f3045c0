package scheduler

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/unitduty/dutyroster/pkg/core/model"
)

// Plan runs one deterministic greedy planning pass over dates × duty types.
//
// For every date from StartDate to EndDate and every active duty type, the
// pass assigns the lowest-scored eligible personnel up to the type's
// SlotsNeeded. Points awarded within the pass feed the running score
// snapshot, so later dates see earlier assignments; this is what spreads
// duty fairly. Ties on score break by ascending personnel id so two passes
// over the same inputs always produce the same plan.
//
// Preview and commit both call this function; the only difference between
// them is whether the outcome is persisted afterwards.
func Plan(cfg PlanConfig) (*PlanOutcome, error) {
	dates, err := DatesBetween(cfg.StartDate, cfg.EndDate)
	if err != nil {
		return nil, err
	}
	if cfg.Calendar == nil {
		return nil, fmt.Errorf("plan config has no calendar")
	}

	dutyTypes := activeDutyTypesByID(cfg.DutyTypes)
	scores := copyScores(cfg.Scores, cfg.Personnel)
	absences := buildAbsenceIndex(cfg.Absences)

	outcome := &PlanOutcome{
		Slots:    []PlannedSlot{},
		Warnings: []string{},
	}

	// assignedOn tracks who already holds a duty on each date within this
	// pass, enforcing one slot per (personnel, date).
	assignedOn := make(map[string]map[string]bool, len(dates))

	for _, date := range dates {
		day, err := ParseDate(date)
		if err != nil {
			return nil, err
		}
		if assignedOn[date] == nil {
			assignedOn[date] = make(map[string]bool)
		}

		for i := range dutyTypes {
			dutyType := &dutyTypes[i]
			remaining := dutyType.SlotsNeeded
			if remaining <= 0 {
				continue
			}

			candidates := make([]*model.Personnel, 0, len(cfg.Personnel))
			for j := range cfg.Personnel {
				p := &cfg.Personnel[j]
				if assignedOn[date][p.ID] {
					continue
				}
				if absences.isAbsent(p.ID, day) {
					continue
				}
				if !MeetsRequirements(p, dutyType) {
					continue
				}
				candidates = append(candidates, p)
			}

			sortByScore(candidates, scores)

			assigned := 0
			for _, candidate := range candidates {
				if assigned >= remaining {
					break
				}

				points := CalculateDutyPoints(date, dutyValueFor(cfg.Values, dutyType.ID), cfg.Calendar)
				scores[candidate.ID] = scores[candidate.ID].Add(points)
				assignedOn[date][candidate.ID] = true

				outcome.Slots = append(outcome.Slots, PlannedSlot{
					DutyTypeID:  dutyType.ID,
					PersonnelID: candidate.ID,
					Date:        date,
					Points:      points,
				})
				assigned++
			}

			outcome.SlotsCreated += assigned
			if assigned < remaining {
				shortfall := remaining - assigned
				outcome.SlotsSkipped += shortfall
				outcome.Warnings = append(outcome.Warnings, fmt.Sprintf(
					"no eligible personnel for %d of %d %s slot(s) on %s",
					shortfall, remaining, dutyType.Name, date))
			}
		}
	}

	outcome.Scores = scores
	return outcome, nil
}

// activeDutyTypesByID filters to active duty types and orders them by id so
// the per-date iteration order is deterministic.
func activeDutyTypesByID(dutyTypes []model.DutyType) []model.DutyType {
	active := make([]model.DutyType, 0, len(dutyTypes))
	for _, dt := range dutyTypes {
		if dt.Active {
			active = append(active, dt)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })
	return active
}

// copyScores builds the pass-local score snapshot. Personnel missing from
// the caller's snapshot seed from their stored duty score.
func copyScores(snapshot map[string]decimal.Decimal, personnel []model.Personnel) map[string]decimal.Decimal {
	scores := make(map[string]decimal.Decimal, len(personnel))
	for _, p := range personnel {
		scores[p.ID] = p.DutyScore
	}
	for id, score := range snapshot {
		scores[id] = score
	}
	return scores
}

// sortByScore orders candidates by ascending score, breaking ties by
// ascending personnel id.
func sortByScore(candidates []*model.Personnel, scores map[string]decimal.Decimal) {
	sort.Slice(candidates, func(i, j int) bool {
		si, sj := scores[candidates[i].ID], scores[candidates[j].ID]
		if !si.Equal(sj) {
			return si.LessThan(sj)
		}
		return candidates[i].ID < candidates[j].ID
	})
}

func dutyValueFor(values map[string]model.DutyValue, dutyTypeID string) *model.DutyValue {
	if values == nil {
		return nil
	}
	if v, ok := values[dutyTypeID]; ok {
		return &v
	}
	return nil
}
