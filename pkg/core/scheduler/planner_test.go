package scheduler

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitduty/dutyroster/pkg/core/model"
)

func plannerPersonnel(ids ...string) []model.Personnel {
	personnel := make([]model.Personnel, len(ids))
	for i, id := range ids {
		personnel[i] = model.Personnel{ID: id, Rank: "E-5", UnitID: "unit-a"}
	}
	return personnel
}

func TestPlan_SpreadsDutyFairly(t *testing.T) {
	cfg := PlanConfig{
		StartDate: "2025-01-06",
		EndDate:   "2025-01-09",
		DutyTypes: []model.DutyType{
			{ID: "duty-1", Name: "Duty NCO", Active: true, SlotsNeeded: 1},
		},
		Personnel: plannerPersonnel("p1", "p2"),
		Calendar:  &fakeCalendar{},
	}

	outcome, err := Plan(cfg)
	require.NoError(t, err)
	require.Len(t, outcome.Slots, 4)

	// Ties break by ascending id, and each assignment raises the score, so
	// the two people alternate.
	assert.Equal(t, "p1", outcome.Slots[0].PersonnelID)
	assert.Equal(t, "p2", outcome.Slots[1].PersonnelID)
	assert.Equal(t, "p1", outcome.Slots[2].PersonnelID)
	assert.Equal(t, "p2", outcome.Slots[3].PersonnelID)

	assert.True(t, outcome.Scores["p1"].Equal(decimal.NewFromInt(2)))
	assert.True(t, outcome.Scores["p2"].Equal(decimal.NewFromInt(2)))
}

func TestPlan_PrefersLowestScore(t *testing.T) {
	cfg := PlanConfig{
		StartDate: "2025-01-06",
		EndDate:   "2025-01-06",
		DutyTypes: []model.DutyType{
			{ID: "duty-1", Name: "Duty NCO", Active: true, SlotsNeeded: 1},
		},
		Personnel: plannerPersonnel("p1", "p2"),
		Scores: map[string]decimal.Decimal{
			"p1": decimal.NewFromInt(10),
			"p2": decimal.NewFromInt(3),
		},
		Calendar: &fakeCalendar{},
	}

	outcome, err := Plan(cfg)
	require.NoError(t, err)
	require.Len(t, outcome.Slots, 1)
	assert.Equal(t, "p2", outcome.Slots[0].PersonnelID)
}

func TestPlan_OneDutyPerPersonPerDate(t *testing.T) {
	cfg := PlanConfig{
		StartDate: "2025-01-06",
		EndDate:   "2025-01-06",
		DutyTypes: []model.DutyType{
			{ID: "duty-a", Name: "Duty NCO", Active: true, SlotsNeeded: 1},
			{ID: "duty-b", Name: "Gate Guard", Active: true, SlotsNeeded: 1},
		},
		Personnel: plannerPersonnel("p1", "p2"),
		Calendar:  &fakeCalendar{},
	}

	outcome, err := Plan(cfg)
	require.NoError(t, err)
	require.Len(t, outcome.Slots, 2)
	assert.NotEqual(t, outcome.Slots[0].PersonnelID, outcome.Slots[1].PersonnelID)
}

func TestPlan_CoverageShortfallWarnsAndContinues(t *testing.T) {
	cfg := PlanConfig{
		StartDate: "2025-01-06",
		EndDate:   "2025-01-07",
		DutyTypes: []model.DutyType{
			{ID: "duty-1", Name: "Duty NCO", Active: true, SlotsNeeded: 3},
		},
		Personnel: plannerPersonnel("p1"),
		Calendar:  &fakeCalendar{},
	}

	outcome, err := Plan(cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.SlotsCreated)
	assert.Equal(t, 4, outcome.SlotsSkipped)
	assert.Len(t, outcome.Warnings, 2)
	assert.Contains(t, outcome.Warnings[0], "no eligible personnel")
}

func TestPlan_SkipsAbsentPersonnel(t *testing.T) {
	cfg := PlanConfig{
		StartDate: "2025-01-06",
		EndDate:   "2025-01-07",
		DutyTypes: []model.DutyType{
			{ID: "duty-1", Name: "Duty NCO", Active: true, SlotsNeeded: 1},
		},
		Personnel: plannerPersonnel("p1", "p2"),
		Absences: []model.NonAvailability{
			{PersonnelID: "p1", StartDate: "2025-01-06", EndDate: "2025-01-06", Status: model.NonAvailabilityApproved},
		},
		Calendar: &fakeCalendar{},
	}

	outcome, err := Plan(cfg)
	require.NoError(t, err)
	require.Len(t, outcome.Slots, 2)

	assert.Equal(t, "p2", outcome.Slots[0].PersonnelID)
	assert.Equal(t, "p1", outcome.Slots[1].PersonnelID)
}

func TestPlan_SkipsInactiveDutyTypes(t *testing.T) {
	cfg := PlanConfig{
		StartDate: "2025-01-06",
		EndDate:   "2025-01-06",
		DutyTypes: []model.DutyType{
			{ID: "duty-1", Name: "Duty NCO", Active: false, SlotsNeeded: 1},
		},
		Personnel: plannerPersonnel("p1"),
		Calendar:  &fakeCalendar{},
	}

	outcome, err := Plan(cfg)
	require.NoError(t, err)
	assert.Empty(t, outcome.Slots)
	assert.Empty(t, outcome.Warnings)
}

func TestPlan_DoesNotMutateCallerSnapshot(t *testing.T) {
	snapshot := map[string]decimal.Decimal{
		"p1": decimal.NewFromInt(5),
	}
	cfg := PlanConfig{
		StartDate: "2025-01-06",
		EndDate:   "2025-01-08",
		DutyTypes: []model.DutyType{
			{ID: "duty-1", Name: "Duty NCO", Active: true, SlotsNeeded: 1},
		},
		Personnel: plannerPersonnel("p1"),
		Scores:    snapshot,
		Calendar:  &fakeCalendar{},
	}

	_, err := Plan(cfg)
	require.NoError(t, err)
	assert.True(t, snapshot["p1"].Equal(decimal.NewFromInt(5)))
}

func TestPlan_WeekendPointsFeedFairness(t *testing.T) {
	// p1 takes the weekend slot for more points, so p2 catches up on the
	// following weekdays before p1 is assigned again.
	cfg := PlanConfig{
		StartDate: "2025-01-04",
		EndDate:   "2025-01-07",
		DutyTypes: []model.DutyType{
			{ID: "duty-1", Name: "Duty NCO", Active: true, SlotsNeeded: 1},
		},
		Personnel: plannerPersonnel("p1", "p2"),
		Calendar: &fakeCalendar{weekends: map[string]bool{
			"2025-01-04": true,
			"2025-01-05": true,
		}},
	}

	outcome, err := Plan(cfg)
	require.NoError(t, err)
	require.Len(t, outcome.Slots, 4)

	// Sat: tie, p1 (1.5). Sun: p2 (1.5). Mon: tie again, p1 (2.5).
	// Tue: p2 (2.5).
	assert.Equal(t, "p1", outcome.Slots[0].PersonnelID)
	assert.Equal(t, "p2", outcome.Slots[1].PersonnelID)
	assert.Equal(t, "p1", outcome.Slots[2].PersonnelID)
	assert.Equal(t, "p2", outcome.Slots[3].PersonnelID)

	assert.True(t, outcome.Slots[0].Points.Equal(decimal.NewFromFloat(1.5)))
	assert.True(t, outcome.Slots[2].Points.Equal(decimal.NewFromFloat(1.0)))
}

func TestPlan_Deterministic(t *testing.T) {
	cfg := PlanConfig{
		StartDate: "2025-01-06",
		EndDate:   "2025-01-10",
		DutyTypes: []model.DutyType{
			{ID: "duty-a", Name: "Duty NCO", Active: true, SlotsNeeded: 1},
			{ID: "duty-b", Name: "Gate Guard", Active: true, SlotsNeeded: 2},
		},
		Personnel: plannerPersonnel("p1", "p2", "p3", "p4"),
		Calendar:  &fakeCalendar{},
	}

	first, err := Plan(cfg)
	require.NoError(t, err)
	second, err := Plan(cfg)
	require.NoError(t, err)

	assert.Equal(t, first.Slots, second.Slots)
}

func TestPlan_MissingCalendar(t *testing.T) {
	_, err := Plan(PlanConfig{StartDate: "2025-01-06", EndDate: "2025-01-06"})
	assert.Error(t, err)
}
