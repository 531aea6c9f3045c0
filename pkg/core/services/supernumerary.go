package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/unitduty/dutyroster/internal/config"
	"github.com/unitduty/dutyroster/pkg/core/scheduler"
	"github.com/unitduty/dutyroster/pkg/db"
)

// SupernumeraryResult is the shared result shape for standby preview and
// apply.
type SupernumeraryResult struct {
	Preview     bool                       `json:"preview"`
	Created     int                        `json:"created"`
	Assignments []scheduler.PlannedStandby `json:"assignments"`
	Warnings    []string                   `json:"warnings"`
	Errors      []string                   `json:"errors"`
}

// SupernumeraryStore defines the database operations needed for standby
// coverage planning.
type SupernumeraryStore interface {
	GetUnitSubtree(ctx context.Context, unitID string) ([]db.Unit, error)
	GetActiveDutyTypes(ctx context.Context, unitIDs []string) ([]db.DutyType, error)
	GetPersonnelByUnits(ctx context.Context, unitIDs []string) ([]db.Personnel, error)
	GetNonAvailability(ctx context.Context, unitIDs []string, startDate, endDate string) ([]db.NonAvailability, error)
	GetSupernumeraryAssignments(ctx context.Context, dutyTypeIDs []string, startDate, endDate string) ([]db.SupernumeraryAssignment, error)
	DeleteSupernumeraryInRange(ctx context.Context, unitIDs []string, startDate, endDate string) error
	InsertSupernumeraryAssignment(ctx context.Context, assignment *db.SupernumeraryAssignment) error
	InsertScoreEvent(ctx context.Context, event *db.DutyScoreEvent) error
	AddToDutyScore(ctx context.Context, personnelID string, points decimal.Decimal) error
}

// PreviewSupernumeraryAssignments plans standby coverage for the unit
// subtree over the range and returns it without writing anything. When
// unitID is empty the organization root is used, so a whole-organization
// pass is a single call.
func PreviewSupernumeraryAssignments(ctx context.Context, store SupernumeraryStore, cfg *config.Config, logger *zap.Logger, unitID, organizationID, startDate, endDate string) (*SupernumeraryResult, error) {
	scope := unitID
	if scope == "" {
		scope = organizationID
	}
	if scope == "" {
		return nil, fmt.Errorf("either unit id or organization id is required")
	}
	if err := validateDateRange(cfg, startDate, endDate); err != nil {
		return nil, err
	}

	units, err := store.GetUnitSubtree(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve unit %s: %w", scope, err)
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("unit %s not found", scope)
	}
	ids := unitIDs(units)

	dutyTypes, err := store.GetActiveDutyTypes(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch duty types: %w", err)
	}

	personnel, err := store.GetPersonnelByUnits(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch personnel: %w", err)
	}

	absences, err := store.GetNonAvailability(ctx, ids, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch non-availability: %w", err)
	}

	typeIDs := make([]string, len(dutyTypes))
	for i, dt := range dutyTypes {
		typeIDs[i] = dt.ID
	}
	existing, err := store.GetSupernumeraryAssignments(ctx, typeIDs, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch existing coverage: %w", err)
	}

	coverage := make(map[string][]scheduler.Period)
	for _, a := range existing {
		coverage[a.DutyTypeID] = append(coverage[a.DutyTypeID], scheduler.Period{
			Start: a.PeriodStart,
			End:   a.PeriodEnd,
		})
	}

	outcome, err := scheduler.PlanSupernumerary(scheduler.SupernumeraryPlanConfig{
		StartDate:        startDate,
		EndDate:          endDate,
		DutyTypes:        toModelDutyTypes(dutyTypes),
		Personnel:        toModelPersonnel(personnel),
		Absences:         toModelAbsences(absences),
		ExistingCoverage: coverage,
	})
	if err != nil {
		return nil, fmt.Errorf("standby planning failed: %w", err)
	}

	logger.Info("Standby planning completed",
		zap.Int("assignments", len(outcome.Assignments)),
		zap.Int("warnings", len(outcome.Warnings)))

	return &SupernumeraryResult{
		Preview:     true,
		Assignments: outcome.Assignments,
		Warnings:    outcome.Warnings,
		Errors:      []string{},
	}, nil
}

// ApplySupernumeraryAssignments persists a previously previewed standby
// list verbatim, optionally clearing existing coverage in the range first.
// Like the slot apply layer it never re-plans.
func ApplySupernumeraryAssignments(ctx context.Context, store SupernumeraryStore, logger *zap.Logger, assignments []scheduler.PlannedStandby, clearExisting bool, startDate, endDate, unitID string) (*SupernumeraryResult, error) {
	result := &SupernumeraryResult{
		Preview:     false,
		Assignments: []scheduler.PlannedStandby{},
		Warnings:    []string{},
		Errors:      []string{},
	}

	if clearExisting {
		units, err := store.GetUnitSubtree(ctx, unitID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve unit %s: %w", unitID, err)
		}
		if len(units) == 0 {
			return nil, fmt.Errorf("unit %s not found", unitID)
		}
		if err := store.DeleteSupernumeraryInRange(ctx, unitIDs(units), startDate, endDate); err != nil {
			return nil, fmt.Errorf("failed to clear existing coverage: %w", err)
		}
	}

	for _, planned := range assignments {
		assignment := &db.SupernumeraryAssignment{
			ID:          uuid.New().String(),
			DutyTypeID:  planned.DutyTypeID,
			PersonnelID: planned.PersonnelID,
			PeriodStart: planned.PeriodStart,
			PeriodEnd:   planned.PeriodEnd,
			Points:      planned.Points,
		}

		if err := store.InsertSupernumeraryAssignment(ctx, assignment); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"failed to persist standby assignment for %s (%s to %s): %v",
				planned.PersonnelID, planned.PeriodStart, planned.PeriodEnd, err))
			continue
		}

		event := &db.DutyScoreEvent{
			ID:              uuid.New().String(),
			PersonnelID:     planned.PersonnelID,
			SupernumeraryID: &assignment.ID,
			Points:          planned.Points,
			EventDate:       planned.PeriodStart,
			Reason:          "standby coverage",
			CreatedAt:       time.Now(),
		}
		if err := store.InsertScoreEvent(ctx, event); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"failed to record score event for %s: %v", planned.PersonnelID, err))
			continue
		}
		if err := store.AddToDutyScore(ctx, planned.PersonnelID, planned.Points); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"failed to update duty score for %s: %v", planned.PersonnelID, err))
			continue
		}

		result.Created++
		result.Assignments = append(result.Assignments, planned)
	}

	logger.Info("Standby coverage applied",
		zap.Int("created", result.Created),
		zap.Int("errors", len(result.Errors)))

	return result, nil
}
