package scheduler

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// DateLayout is the calendar-date format used throughout the engine.
// Dates are wall-clock dates and deliberately carry no timezone, so they
// are never converted through UTC.
const DateLayout = "2006-01-02"

// Calendar classifies dates for the fairness scorer.
type Calendar interface {
	IsHoliday(date string) bool
	IsWeekend(date string) bool
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// DatesBetween returns every calendar date from start to end inclusive.
// Returns an error if either date is malformed or the range is inverted.
func DatesBetween(startDate, endDate string) ([]string, error) {
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

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates, nil
}

// HolidayCalendar is a Calendar backed by a fixed set of holiday dates.
// Recurring holidays are expanded from RRule strings over the window the
// calendar was built for.
type HolidayCalendar struct {
	holidays map[string]bool
}

// NewHolidayCalendar builds a calendar for the [startDate, endDate] window.
// dates are explicit YYYY-MM-DD holidays; rules are RRULE strings whose
// occurrences within the window (with a one-year lead-in for rule anchoring)
// are treated as holidays.
func NewHolidayCalendar(dates []string, rules []string, startDate, endDate string) (*HolidayCalendar, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return nil, err
	}

	holidays := make(map[string]bool)

	for _, d := range dates {
		if _, err := ParseDate(d); err != nil {
			return nil, err
		}
		holidays[d] = true
	}

	for i, ruleStr := range rules {
		rule, err := rrule.StrToRRule(ruleStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse holiday rule %d: %w", i, err)
		}

		// Anchor the rule well before the window so yearly rules with a
		// late-in-year anchor still produce occurrences at the window start.
		rule.DTStart(start.AddDate(-1, 0, 0))

		for _, occurrence := range rule.Between(start.AddDate(0, 0, -1), end.AddDate(0, 0, 1), true) {
			holidays[occurrence.Format(DateLayout)] = true
		}
	}

	return &HolidayCalendar{holidays: holidays}, nil
}

// IsHoliday reports whether the date is a recognized holiday.
func (c *HolidayCalendar) IsHoliday(date string) bool {
	return c.holidays[date]
}

// IsWeekend reports whether the date falls on a Saturday or Sunday.
// Malformed dates are never weekends.
func (c *HolidayCalendar) IsWeekend(date string) bool {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}
