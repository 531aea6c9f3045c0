package services

import (
	"github.com/shopspring/decimal"

	"github.com/unitduty/dutyroster/internal/config"
	"github.com/unitduty/dutyroster/pkg/core/model"
	"github.com/unitduty/dutyroster/pkg/db"
)

// toModelPersonnel converts store personnel records to domain personnel.
func toModelPersonnel(records []db.Personnel) []model.Personnel {
	personnel := make([]model.Personnel, len(records))
	for i, r := range records {
		personnel[i] = model.Personnel{
			ID:             r.ID,
			FirstName:      r.FirstName,
			LastName:       r.LastName,
			Rank:           r.Rank,
			UnitID:         r.UnitID,
			Qualifications: r.Qualifications,
			DutyScore:      r.DutyScore,
		}
	}
	return personnel
}

// toModelDutyTypes converts store duty type records to domain duty types.
func toModelDutyTypes(records []db.DutyType) []model.DutyType {
	dutyTypes := make([]model.DutyType, len(records))
	for i, r := range records {
		dutyTypes[i] = model.DutyType{
			ID:          r.ID,
			UnitID:      r.UnitID,
			Name:        r.Name,
			Active:      r.Active,
			SlotsNeeded: r.SlotsNeeded,
			RankFilter: model.Filter{
				Mode:   filterMode(r.RankFilterMode),
				Values: r.RankFilterValues,
			},
			SectionFilter: model.Filter{
				Mode:   filterMode(r.SectionFilterMode),
				Values: r.SectionFilterValues,
			},
			RequiredQualifications: r.RequiredQualifications,
			Supernumerary: model.SupernumeraryConfig{
				Required:   r.RequiresSupernumerary,
				Count:      r.SupernumeraryCount,
				PeriodType: model.PeriodType(r.SupernumeraryPeriodType),
				Value:      r.SupernumeraryValue,
			},
		}
	}
	return dutyTypes
}

// filterMode maps a stored filter mode to the closed FilterMode type.
// Unknown or empty modes collapse to the inert filter.
func filterMode(mode string) model.FilterMode {
	switch model.FilterMode(mode) {
	case model.FilterInclude:
		return model.FilterInclude
	case model.FilterExclude:
		return model.FilterExclude
	default:
		return model.FilterNone
	}
}

// toModelValues builds the point parameter map, synthesizing a value from
// the configured defaults for duty types without a stored DutyValue.
func toModelValues(records []db.DutyValue, dutyTypes []db.DutyType, cfg *config.Config) map[string]model.DutyValue {
	values := make(map[string]model.DutyValue, len(dutyTypes))
	for _, r := range records {
		values[r.DutyTypeID] = model.DutyValue{
			DutyTypeID:        r.DutyTypeID,
			BaseWeight:        r.BaseWeight,
			WeekendMultiplier: r.WeekendMultiplier,
			HolidayMultiplier: r.HolidayMultiplier,
		}
	}
	for _, dt := range dutyTypes {
		if _, ok := values[dt.ID]; !ok {
			values[dt.ID] = model.DutyValue{
				DutyTypeID:        dt.ID,
				BaseWeight:        decimal.NewFromFloat(cfg.Scheduler.DefaultBaseWeight),
				WeekendMultiplier: decimal.NewFromFloat(cfg.Scheduler.DefaultWeekendMultiplier),
				HolidayMultiplier: decimal.NewFromFloat(cfg.Scheduler.DefaultHolidayMultiplier),
			}
		}
	}
	return values
}

// toModelAbsences converts store non-availability records.
func toModelAbsences(records []db.NonAvailability) []model.NonAvailability {
	absences := make([]model.NonAvailability, len(records))
	for i, r := range records {
		absences[i] = model.NonAvailability{
			ID:          r.ID,
			PersonnelID: r.PersonnelID,
			StartDate:   r.StartDate,
			EndDate:     r.EndDate,
			Status:      r.Status,
		}
	}
	return absences
}

func unitIDs(units []db.Unit) []string {
	ids := make([]string, len(units))
	for i, u := range units {
		ids[i] = u.ID
	}
	return ids
}
