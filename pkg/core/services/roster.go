package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/unitduty/dutyroster/pkg/db"
)

// RosterSeed is a declarative roster fixture: units, personnel, and duty
// types loaded in one pass. It is the YAML shape consumed by the seed
// command.
type RosterSeed struct {
	Units     []SeedUnit      `yaml:"units"`
	Personnel []SeedPersonnel `yaml:"personnel"`
	DutyTypes []SeedDutyType  `yaml:"duty_types"`
}

// SeedUnit describes one unit. ParentID references another unit in the same
// seed or one already stored.
type SeedUnit struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name" validate:"required"`
	RUC      string `yaml:"ruc"`
	ParentID string `yaml:"parent_id"`
}

// SeedPersonnel describes one person. DutyScore seeds the cumulative
// fairness score, usually zero for a fresh roster.
type SeedPersonnel struct {
	ID             string   `yaml:"id"`
	FirstName      string   `yaml:"first_name" validate:"required"`
	LastName       string   `yaml:"last_name" validate:"required"`
	Rank           string   `yaml:"rank"`
	UnitID         string   `yaml:"unit_id" validate:"required"`
	Qualifications []string `yaml:"qualifications"`
	DutyScore      float64  `yaml:"duty_score"`
}

// SeedDutyType describes one duty type with its eligibility filters and
// optional standby configuration.
type SeedDutyType struct {
	ID          string `yaml:"id"`
	UnitID      string `yaml:"unit_id" validate:"required"`
	Name        string `yaml:"name" validate:"required"`
	Active      bool   `yaml:"active"`
	SlotsNeeded int    `yaml:"slots_needed"`

	RankFilterMode      string   `yaml:"rank_filter_mode"`
	RankFilterValues    []string `yaml:"rank_filter_values"`
	SectionFilterMode   string   `yaml:"section_filter_mode"`
	SectionFilterValues []string `yaml:"section_filter_values"`

	RequiredQualifications []string `yaml:"required_qualifications"`

	Supernumerary SeedSupernumerary `yaml:"supernumerary"`
}

// SeedSupernumerary mirrors a duty type's standby configuration.
type SeedSupernumerary struct {
	Required   bool    `yaml:"required"`
	Count      int     `yaml:"count"`
	PeriodType string  `yaml:"period_type"`
	Value      float64 `yaml:"value"`
}

// SeedResult reports what a seeding pass created.
type SeedResult struct {
	Units     int `json:"units"`
	Personnel int `json:"personnel"`
	DutyTypes int `json:"duty_types"`
}

// RosterStore defines the database operations needed to load a roster.
type RosterStore interface {
	InsertUnit(ctx context.Context, unit *db.Unit) error
	InsertPersonnel(ctx context.Context, p *db.Personnel) error
	InsertDutyType(ctx context.Context, dt *db.DutyType) error
}

// SeedRoster inserts the seed's units, personnel, and duty types in that
// order, so parent references resolve within a single file. Records without
// an id get a generated one. The pass stops on the first insert failure;
// reruns against a populated database surface as key conflicts rather than
// silent duplicates.
func SeedRoster(ctx context.Context, store RosterStore, logger *zap.Logger, seed RosterSeed) (*SeedResult, error) {
	result := &SeedResult{}

	for i := range seed.Units {
		u := &seed.Units[i]
		if err := validate.Struct(u); err != nil {
			return nil, fmt.Errorf("invalid unit %d: %w", i, err)
		}
		unit := &db.Unit{
			ID:   idOrNew(u.ID),
			Name: u.Name,
			RUC:  u.RUC,
		}
		if u.ParentID != "" {
			parent := u.ParentID
			unit.ParentID = &parent
		}
		if err := store.InsertUnit(ctx, unit); err != nil {
			return nil, fmt.Errorf("failed to seed unit %s: %w", u.Name, err)
		}
		result.Units++
	}

	for i := range seed.Personnel {
		p := &seed.Personnel[i]
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("invalid personnel %d: %w", i, err)
		}
		if err := store.InsertPersonnel(ctx, &db.Personnel{
			ID:             idOrNew(p.ID),
			FirstName:      p.FirstName,
			LastName:       p.LastName,
			Rank:           p.Rank,
			UnitID:         p.UnitID,
			Qualifications: p.Qualifications,
			DutyScore:      decimal.NewFromFloat(p.DutyScore),
		}); err != nil {
			return nil, fmt.Errorf("failed to seed personnel %s %s: %w", p.FirstName, p.LastName, err)
		}
		result.Personnel++
	}

	for i := range seed.DutyTypes {
		dt := &seed.DutyTypes[i]
		if err := validate.Struct(dt); err != nil {
			return nil, fmt.Errorf("invalid duty type %d: %w", i, err)
		}
		if err := store.InsertDutyType(ctx, &db.DutyType{
			ID:                      idOrNew(dt.ID),
			UnitID:                  dt.UnitID,
			Name:                    dt.Name,
			Active:                  dt.Active,
			SlotsNeeded:             dt.SlotsNeeded,
			RankFilterMode:          dt.RankFilterMode,
			RankFilterValues:        dt.RankFilterValues,
			SectionFilterMode:       dt.SectionFilterMode,
			SectionFilterValues:     dt.SectionFilterValues,
			RequiredQualifications:  dt.RequiredQualifications,
			RequiresSupernumerary:   dt.Supernumerary.Required,
			SupernumeraryCount:      dt.Supernumerary.Count,
			SupernumeraryPeriodType: dt.Supernumerary.PeriodType,
			SupernumeraryValue:      decimal.NewFromFloat(dt.Supernumerary.Value),
		}); err != nil {
			return nil, fmt.Errorf("failed to seed duty type %s: %w", dt.Name, err)
		}
		result.DutyTypes++
	}

	logger.Info("Roster seeded",
		zap.Int("units", result.Units),
		zap.Int("personnel", result.Personnel),
		zap.Int("duty_types", result.DutyTypes))

	return result, nil
}

func idOrNew(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}

// ScoreHistoryStore defines the database operations needed to read a
// person's score audit trail.
type ScoreHistoryStore interface {
	GetScoreEvents(ctx context.Context, personnelID string) ([]db.DutyScoreEvent, error)
}

// GetScoreHistory returns a person's duty score events, newest first, as
// recorded by the schedule and standby apply layers.
func GetScoreHistory(ctx context.Context, store ScoreHistoryStore, logger *zap.Logger, personnelID string) ([]db.DutyScoreEvent, error) {
	if personnelID == "" {
		return nil, fmt.Errorf("personnel id is required")
	}

	events, err := store.GetScoreEvents(ctx, personnelID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch score events: %w", err)
	}

	logger.Debug("Fetched score history",
		zap.String("personnel_id", personnelID),
		zap.Int("events", len(events)))

	return events, nil
}
