package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatesBetween_Inclusive(t *testing.T) {
	dates, err := DatesBetween("2025-01-30", "2025-02-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-30", "2025-01-31", "2025-02-01", "2025-02-02"}, dates)
}

func TestDatesBetween_SingleDay(t *testing.T) {
	dates, err := DatesBetween("2025-06-15", "2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-15"}, dates)
}

func TestDatesBetween_InvertedRange(t *testing.T) {
	_, err := DatesBetween("2025-02-01", "2025-01-01")
	assert.Error(t, err)
}

func TestDatesBetween_MalformedDate(t *testing.T) {
	_, err := DatesBetween("2025-13-01", "2025-12-31")
	assert.Error(t, err)

	_, err = DatesBetween("not-a-date", "2025-12-31")
	assert.Error(t, err)
}

func TestHolidayCalendar_ExplicitDates(t *testing.T) {
	cal, err := NewHolidayCalendar([]string{"2025-07-04"}, nil, "2025-07-01", "2025-07-31")
	require.NoError(t, err)

	assert.True(t, cal.IsHoliday("2025-07-04"))
	assert.False(t, cal.IsHoliday("2025-07-05"))
}

func TestHolidayCalendar_RecurringRule(t *testing.T) {
	// Christmas every year
	cal, err := NewHolidayCalendar(nil, []string{"FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"}, "2025-12-01", "2025-12-31")
	require.NoError(t, err)

	assert.True(t, cal.IsHoliday("2025-12-25"))
	assert.False(t, cal.IsHoliday("2025-12-24"))
}

func TestHolidayCalendar_InvalidRule(t *testing.T) {
	_, err := NewHolidayCalendar(nil, []string{"FREQ=NONSENSE"}, "2025-01-01", "2025-01-31")
	assert.Error(t, err)
}

func TestHolidayCalendar_InvalidDate(t *testing.T) {
	_, err := NewHolidayCalendar([]string{"25/12/2025"}, nil, "2025-01-01", "2025-01-31")
	assert.Error(t, err)
}

func TestHolidayCalendar_IsWeekend(t *testing.T) {
	cal, err := NewHolidayCalendar(nil, nil, "2025-01-01", "2025-01-31")
	require.NoError(t, err)

	assert.True(t, cal.IsWeekend("2025-01-18"), "Saturday")
	assert.True(t, cal.IsWeekend("2025-01-19"), "Sunday")
	assert.False(t, cal.IsWeekend("2025-01-20"), "Monday")
}
