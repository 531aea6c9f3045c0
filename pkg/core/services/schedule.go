package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/unitduty/dutyroster/internal/config"
	"github.com/unitduty/dutyroster/pkg/core/scheduler"
	"github.com/unitduty/dutyroster/pkg/db"
)

var validate = validator.New()

// ScheduleRequest is a planning request for one unit subtree and date range.
type ScheduleRequest struct {
	UnitID        string `json:"unit_id" validate:"required"`
	StartDate     string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string `json:"end_date" validate:"required,datetime=2006-01-02"`
	AssignedBy    string `json:"assigned_by"`
	ClearExisting bool   `json:"clear_existing"`
}

// ScheduleResult is the shared result shape for preview and commit.
type ScheduleResult struct {
	Success      bool                    `json:"success"`
	Preview      bool                    `json:"preview"`
	SlotsCreated int                     `json:"slots_created"`
	SlotsSkipped int                     `json:"slots_skipped"`
	Errors       []string                `json:"errors"`
	Warnings     []string                `json:"warnings"`
	Slots        []scheduler.PlannedSlot `json:"slots"`
}

// ScheduleStore defines the database operations needed for planning and
// committing duty schedules.
type ScheduleStore interface {
	GetUnitSubtree(ctx context.Context, unitID string) ([]db.Unit, error)
	GetActiveDutyTypes(ctx context.Context, unitIDs []string) ([]db.DutyType, error)
	GetDutyValues(ctx context.Context, dutyTypeIDs []string) ([]db.DutyValue, error)
	GetPersonnelByUnits(ctx context.Context, unitIDs []string) ([]db.Personnel, error)
	GetNonAvailability(ctx context.Context, unitIDs []string, startDate, endDate string) ([]db.NonAvailability, error)
	GetSlotsInRange(ctx context.Context, unitIDs []string, startDate, endDate string) ([]db.DutySlot, error)
	DeleteSlotsInRange(ctx context.Context, unitIDs []string, startDate, endDate string) error
	InsertSlot(ctx context.Context, slot *db.DutySlot) error
	InsertScoreEvent(ctx context.Context, event *db.DutyScoreEvent) error
	AddToDutyScore(ctx context.Context, personnelID string, points decimal.Decimal) error
}

// PreviewSchedule runs a planning pass and returns the projected schedule
// without writing anything.
func PreviewSchedule(ctx context.Context, store ScheduleStore, cfg *config.Config, logger *zap.Logger, req ScheduleRequest) (*ScheduleResult, error) {
	outcome, err := planSchedule(ctx, store, cfg, logger, req)
	if err != nil {
		return nil, err
	}

	return &ScheduleResult{
		Success:      true,
		Preview:      true,
		SlotsCreated: outcome.SlotsCreated,
		SlotsSkipped: outcome.SlotsSkipped,
		Errors:       []string{},
		Warnings:     outcome.Warnings,
		Slots:        outcome.Slots,
	}, nil
}

// GenerateSchedule runs the identical planning pass as PreviewSchedule and
// immediately persists its outcome through the apply layer.
func GenerateSchedule(ctx context.Context, store ScheduleStore, cfg *config.Config, logger *zap.Logger, req ScheduleRequest) (*ScheduleResult, error) {
	outcome, err := planSchedule(ctx, store, cfg, logger, req)
	if err != nil {
		return nil, err
	}

	result, err := ApplyPreviewedSlots(ctx, store, logger, outcome.Slots, req)
	if err != nil {
		return nil, err
	}
	result.SlotsSkipped = outcome.SlotsSkipped
	result.Warnings = append(outcome.Warnings, result.Warnings...)
	return result, nil
}

// ApplyPreviewedSlots persists a previously previewed slot list verbatim.
// It never re-runs planning: what the caller reviewed is exactly what is
// written, even if the live fairness state has drifted since the preview.
// Per-slot persistence failures are reported individually and do not stop
// the rest of the batch.
func ApplyPreviewedSlots(ctx context.Context, store ScheduleStore, logger *zap.Logger, slots []scheduler.PlannedSlot, req ScheduleRequest) (*ScheduleResult, error) {
	if err := validateRequestShape(req); err != nil {
		return nil, err
	}

	result := &ScheduleResult{
		Preview:  false,
		Errors:   []string{},
		Warnings: []string{},
		Slots:    []scheduler.PlannedSlot{},
	}

	if req.ClearExisting {
		units, err := store.GetUnitSubtree(ctx, req.UnitID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve unit %s: %w", req.UnitID, err)
		}
		if len(units) == 0 {
			return nil, fmt.Errorf("unit %s not found", req.UnitID)
		}

		logger.Info("Clearing existing slots",
			zap.String("unit_id", req.UnitID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate))
		if err := store.DeleteSlotsInRange(ctx, unitIDs(units), req.StartDate, req.EndDate); err != nil {
			return nil, fmt.Errorf("failed to clear existing slots: %w", err)
		}
	}

	for _, planned := range slots {
		slot := &db.DutySlot{
			ID:           uuid.New().String(),
			DutyTypeID:   planned.DutyTypeID,
			PersonnelID:  planned.PersonnelID,
			AssignedDate: planned.Date,
			Points:       planned.Points,
			Status:       db.SlotScheduled,
		}

		if err := store.InsertSlot(ctx, slot); err != nil {
			logger.Warn("Failed to persist slot",
				zap.String("duty_type_id", planned.DutyTypeID),
				zap.String("personnel_id", planned.PersonnelID),
				zap.String("date", planned.Date),
				zap.Error(err))
			result.Errors = append(result.Errors, fmt.Sprintf(
				"failed to persist slot for %s on %s: %v", planned.PersonnelID, planned.Date, err))
			continue
		}

		event := &db.DutyScoreEvent{
			ID:          uuid.New().String(),
			PersonnelID: planned.PersonnelID,
			DutySlotID:  &slot.ID,
			Points:      planned.Points,
			EventDate:   planned.Date,
			Reason:      "duty assignment",
			CreatedAt:   time.Now(),
		}
		if err := store.InsertScoreEvent(ctx, event); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"failed to record score event for %s on %s: %v", planned.PersonnelID, planned.Date, err))
			continue
		}
		if err := store.AddToDutyScore(ctx, planned.PersonnelID, planned.Points); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"failed to update duty score for %s: %v", planned.PersonnelID, err))
			continue
		}

		result.SlotsCreated++
		result.Slots = append(result.Slots, planned)
	}

	result.Success = len(result.Errors) == 0

	logger.Info("Schedule applied",
		zap.Int("slots_created", result.SlotsCreated),
		zap.Int("errors", len(result.Errors)))

	return result, nil
}

// planSchedule is the single planning code path behind preview and commit.
func planSchedule(ctx context.Context, store ScheduleStore, cfg *config.Config, logger *zap.Logger, req ScheduleRequest) (*scheduler.PlanOutcome, error) {
	if err := validateScheduleRequest(cfg, req); err != nil {
		return nil, err
	}

	logger.Debug("Planning schedule",
		zap.String("unit_id", req.UnitID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
		zap.Bool("clear_existing", req.ClearExisting))

	units, err := store.GetUnitSubtree(ctx, req.UnitID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve unit %s: %w", req.UnitID, err)
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("unit %s not found", req.UnitID)
	}
	ids := unitIDs(units)

	dutyTypes, err := store.GetActiveDutyTypes(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch duty types: %w", err)
	}
	logger.Debug("Found duty types", zap.Int("count", len(dutyTypes)))

	typeIDs := make([]string, len(dutyTypes))
	for i, dt := range dutyTypes {
		typeIDs[i] = dt.ID
	}
	values, err := store.GetDutyValues(ctx, typeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch duty values: %w", err)
	}

	personnel, err := store.GetPersonnelByUnits(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch personnel: %w", err)
	}
	logger.Debug("Found personnel", zap.Int("count", len(personnel)))

	absences, err := store.GetNonAvailability(ctx, ids, req.StartDate, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch non-availability: %w", err)
	}

	calendar, err := scheduler.NewHolidayCalendar(cfg.Holidays.Dates, cfg.Holidays.Rules, req.StartDate, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to build holiday calendar: %w", err)
	}

	scores := make(map[string]decimal.Decimal, len(personnel))
	for _, p := range personnel {
		scores[p.ID] = p.DutyScore
	}

	// When existing slots are kept, points they already carry in the
	// requested range count toward the snapshot so the new plan stacks on
	// top of them instead of double-booking the same people.
	if !req.ClearExisting {
		existing, err := store.GetSlotsInRange(ctx, ids, req.StartDate, req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch existing slots: %w", err)
		}
		for _, slot := range existing {
			if slot.PersonnelID == "" {
				continue
			}
			if slot.Status == db.SlotApproved || slot.Status == db.SlotCompleted {
				scores[slot.PersonnelID] = scores[slot.PersonnelID].Add(slot.Points)
			}
		}
	}

	outcome, err := scheduler.Plan(scheduler.PlanConfig{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		DutyTypes: toModelDutyTypes(dutyTypes),
		Values:    toModelValues(values, dutyTypes, cfg),
		Personnel: toModelPersonnel(personnel),
		Absences:  toModelAbsences(absences),
		Scores:    scores,
		Calendar:  calendar,
	})
	if err != nil {
		return nil, fmt.Errorf("planning pass failed: %w", err)
	}

	logger.Info("Planning pass completed",
		zap.Int("slots_created", outcome.SlotsCreated),
		zap.Int("slots_skipped", outcome.SlotsSkipped),
		zap.Int("warnings", len(outcome.Warnings)))

	return outcome, nil
}

// validateScheduleRequest rejects malformed requests before any planning.
func validateScheduleRequest(cfg *config.Config, req ScheduleRequest) error {
	if err := validateRequestShape(req); err != nil {
		return err
	}

	return validateDateRange(cfg, req.StartDate, req.EndDate)
}

// validateDateRange rejects malformed, inverted, or over-long date ranges.
// Shared by the schedule and standby planning paths.
func validateDateRange(cfg *config.Config, startDate, endDate string) error {
	start, err := scheduler.ParseDate(startDate)
	if err != nil {
		return err
	}
	end, err := scheduler.ParseDate(endDate)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("date range is inverted: %s is after %s", startDate, endDate)
	}

	days := int(end.Sub(start).Hours()/24) + 1
	if cfg.Scheduler.MaxRangeDays > 0 && days > cfg.Scheduler.MaxRangeDays {
		return fmt.Errorf("date range of %d days exceeds the maximum of %d days", days, cfg.Scheduler.MaxRangeDays)
	}

	return nil
}

func validateRequestShape(req ScheduleRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid schedule request: %w", err)
	}
	return nil
}
