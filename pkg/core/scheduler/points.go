package scheduler

import (
	"github.com/shopspring/decimal"

	"github.com/unitduty/dutyroster/pkg/core/model"
)

// Default point parameters for duty types without a configured DutyValue.
var (
	DefaultBaseWeight        = decimal.NewFromFloat(1.0)
	DefaultWeekendMultiplier = decimal.NewFromFloat(1.5)
	DefaultHolidayMultiplier = decimal.NewFromFloat(2.0)
)

// CalculateDutyPoints computes the point value of a duty occurrence on the
// given date. The holiday multiplier strictly dominates the weekend
// multiplier when a date is both. Pass a nil value to use the defaults.
func CalculateDutyPoints(date string, value *model.DutyValue, cal Calendar) decimal.Decimal {
	base := DefaultBaseWeight
	weekend := DefaultWeekendMultiplier
	holiday := DefaultHolidayMultiplier

	if value != nil {
		base = value.BaseWeight
		weekend = value.WeekendMultiplier
		holiday = value.HolidayMultiplier
	}

	switch {
	case cal.IsHoliday(date):
		return base.Mul(holiday)
	case cal.IsWeekend(date):
		return base.Mul(weekend)
	default:
		return base
	}
}
