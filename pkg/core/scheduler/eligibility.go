package scheduler

import (
	"time"

	"github.com/unitduty/dutyroster/pkg/core/model"
)

// MatchesFilter applies an include/exclude/none filter to a candidate value.
// A filter with mode none or an empty value set is inert and always passes.
func MatchesFilter(filter model.Filter, candidate string) bool {
	if filter.Mode == model.FilterNone || filter.Mode == "" || len(filter.Values) == 0 {
		return true
	}

	found := false
	for _, v := range filter.Values {
		if v == candidate {
			found = true
			break
		}
	}

	switch filter.Mode {
	case model.FilterInclude:
		return found
	case model.FilterExclude:
		return !found
	default:
		return true
	}
}

// absenceWindow is a pre-parsed approved non-availability window.
type absenceWindow struct {
	start time.Time
	end   time.Time
}

// absenceIndex maps personnel id to their approved absence windows.
type absenceIndex map[string][]absenceWindow

// buildAbsenceIndex indexes approved non-availability records by personnel.
// Records that are not approved or carry malformed dates are ignored.
func buildAbsenceIndex(absences []model.NonAvailability) absenceIndex {
	index := make(absenceIndex)
	for _, a := range absences {
		if a.Status != model.NonAvailabilityApproved {
			continue
		}
		start, err := ParseDate(a.StartDate)
		if err != nil {
			continue
		}
		end, err := ParseDate(a.EndDate)
		if err != nil {
			continue
		}
		index[a.PersonnelID] = append(index[a.PersonnelID], absenceWindow{start: start, end: end})
	}
	return index
}

// isAbsent reports whether the person has an approved absence covering the
// date. Both window ends are inclusive.
func (idx absenceIndex) isAbsent(personnelID string, date time.Time) bool {
	for _, w := range idx[personnelID] {
		if !date.Before(w.start) && !date.After(w.end) {
			return true
		}
	}
	return false
}

// isAbsentDuring reports whether any approved absence overlaps the inclusive
// [start, end] range. Standby coverage requires availability for the whole
// period, so any overlap disqualifies.
func (idx absenceIndex) isAbsentDuring(personnelID string, start, end time.Time) bool {
	for _, w := range idx[personnelID] {
		if !w.start.After(end) && !w.end.Before(start) {
			return true
		}
	}
	return false
}

// MeetsRequirements reports whether the person passes the duty type's rank
// filter, section filter, and required qualifications. Date-specific checks
// (absence, double-booking) live in the planner.
func MeetsRequirements(p *model.Personnel, dutyType *model.DutyType) bool {
	if !MatchesFilter(dutyType.RankFilter, p.Rank) {
		return false
	}
	if !MatchesFilter(dutyType.SectionFilter, p.UnitID) {
		return false
	}
	for _, q := range dutyType.RequiredQualifications {
		if !p.HasQualification(q) {
			return false
		}
	}
	return true
}
