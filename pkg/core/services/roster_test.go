package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unitduty/dutyroster/pkg/db"
)

// mockRosterStore implements a test double for the roster store
type mockRosterStore struct {
	units     []*db.Unit
	personnel []*db.Personnel
	dutyTypes []*db.DutyType

	insertUnitErr error
}

func (m *mockRosterStore) InsertUnit(ctx context.Context, unit *db.Unit) error {
	if m.insertUnitErr != nil {
		return m.insertUnitErr
	}
	m.units = append(m.units, unit)
	return nil
}

func (m *mockRosterStore) InsertPersonnel(ctx context.Context, p *db.Personnel) error {
	m.personnel = append(m.personnel, p)
	return nil
}

func (m *mockRosterStore) InsertDutyType(ctx context.Context, dt *db.DutyType) error {
	m.dutyTypes = append(m.dutyTypes, dt)
	return nil
}

func rosterSeedFixture() RosterSeed {
	return RosterSeed{
		Units: []SeedUnit{
			{ID: "unit-1", Name: "1st Battalion", RUC: "10100"},
			{Name: "Alpha Company", ParentID: "unit-1"},
		},
		Personnel: []SeedPersonnel{
			{ID: "p1", FirstName: "Alex", LastName: "Hale", Rank: "E-5", UnitID: "unit-1", DutyScore: 2.5},
			{FirstName: "Sam", LastName: "Reed", Rank: "E-5", UnitID: "unit-1", Qualifications: []string{"armorer"}},
		},
		DutyTypes: []SeedDutyType{
			{
				ID: "duty-1", UnitID: "unit-1", Name: "Duty NCO", Active: true, SlotsNeeded: 1,
				Supernumerary: SeedSupernumerary{Required: true, Count: 1, PeriodType: "weekly", Value: 0.5},
			},
		},
	}
}

func TestSeedRoster(t *testing.T) {
	mock := &mockRosterStore{}
	logger := zap.NewNop()

	result, err := SeedRoster(context.Background(), mock, logger, rosterSeedFixture())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Units)
	assert.Equal(t, 2, result.Personnel)
	assert.Equal(t, 1, result.DutyTypes)

	require.Len(t, mock.units, 2)
	assert.Equal(t, "unit-1", mock.units[0].ID)
	assert.Nil(t, mock.units[0].ParentID)
	require.NotNil(t, mock.units[1].ParentID)
	assert.Equal(t, "unit-1", *mock.units[1].ParentID)
	assert.NotEmpty(t, mock.units[1].ID, "missing id gets generated")

	require.Len(t, mock.personnel, 2)
	assert.True(t, mock.personnel[0].DutyScore.Equal(decimal.NewFromFloat(2.5)))
	assert.Equal(t, []string{"armorer"}, mock.personnel[1].Qualifications)

	require.Len(t, mock.dutyTypes, 1)
	assert.True(t, mock.dutyTypes[0].RequiresSupernumerary)
	assert.Equal(t, "weekly", mock.dutyTypes[0].SupernumeraryPeriodType)
	assert.True(t, mock.dutyTypes[0].SupernumeraryValue.Equal(decimal.NewFromFloat(0.5)))
}

func TestSeedRoster_RejectsInvalidRecords(t *testing.T) {
	mock := &mockRosterStore{}
	logger := zap.NewNop()

	seed := rosterSeedFixture()
	seed.Personnel[0].UnitID = ""

	_, err := SeedRoster(context.Background(), mock, logger, seed)
	assert.Error(t, err)
}

func TestSeedRoster_StopsOnInsertFailure(t *testing.T) {
	mock := &mockRosterStore{insertUnitErr: fmt.Errorf("duplicate key")}
	logger := zap.NewNop()

	_, err := SeedRoster(context.Background(), mock, logger, rosterSeedFixture())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1st Battalion")
	assert.Empty(t, mock.personnel)
}

// mockScoreHistoryStore implements a test double for the score history store
type mockScoreHistoryStore struct {
	events  []db.DutyScoreEvent
	queried []string
}

func (m *mockScoreHistoryStore) GetScoreEvents(ctx context.Context, personnelID string) ([]db.DutyScoreEvent, error) {
	m.queried = append(m.queried, personnelID)
	return m.events, nil
}

func TestGetScoreHistory(t *testing.T) {
	slotID := "slot-1"
	mock := &mockScoreHistoryStore{
		events: []db.DutyScoreEvent{
			{ID: "e2", PersonnelID: "p1", DutySlotID: &slotID, Points: decimal.NewFromInt(2), EventDate: "2025-01-02", Reason: "duty assignment", CreatedAt: time.Now()},
			{ID: "e1", PersonnelID: "p1", Points: decimal.NewFromInt(1), EventDate: "2025-01-01", Reason: "duty assignment", CreatedAt: time.Now().Add(-time.Hour)},
		},
	}
	logger := zap.NewNop()

	events, err := GetScoreHistory(context.Background(), mock, logger, "p1")
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, "e2", events[0].ID)
	assert.Equal(t, []string{"p1"}, mock.queried)
}

func TestGetScoreHistory_RequiresPersonnelID(t *testing.T) {
	mock := &mockScoreHistoryStore{}
	logger := zap.NewNop()

	_, err := GetScoreHistory(context.Background(), mock, logger, "")
	assert.Error(t, err)
	assert.Empty(t, mock.queried)
}
