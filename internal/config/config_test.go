package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "duty_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromPath_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `databaseURL: postgres://localhost/duty`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/duty", cfg.DatabaseURL)
	assert.Equal(t, 90, cfg.Scheduler.MaxRangeDays)
	assert.Equal(t, 1.0, cfg.Scheduler.DefaultBaseWeight)
	assert.Equal(t, 1.5, cfg.Scheduler.DefaultWeekendMultiplier)
	assert.Equal(t, 2.0, cfg.Scheduler.DefaultHolidayMultiplier)
}

func TestLoadFromPath_FullConfig(t *testing.T) {
	path := writeConfig(t, `
databaseURL: postgres://localhost/duty
scheduler:
  maxRangeDays: 31
  defaultBaseWeight: 2.0
  defaultWeekendMultiplier: 3.0
  defaultHolidayMultiplier: 4.0
holidays:
  dates:
    - "2025-07-04"
  rules:
    - "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"
swapApprovalChain:
  - order: 1
    role: platoon_sergeant
    isApprover: true
  - order: 2
    role: first_sergeant
    isApprover: true
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, 31, cfg.Scheduler.MaxRangeDays)
	assert.Equal(t, []string{"2025-07-04"}, cfg.Holidays.Dates)
	require.Len(t, cfg.SwapApprovalChain, 2)
	assert.Equal(t, "platoon_sergeant", cfg.SwapApprovalChain[0].Role)
	assert.True(t, cfg.SwapApprovalChain[0].IsApprover)
}

func TestLoadFromPath_MissingDatabaseURL(t *testing.T) {
	path := writeConfig(t, `scheduler: {maxRangeDays: 31}`)

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestLoadFromPath_InvalidHolidayRule(t *testing.T) {
	path := writeConfig(t, `
databaseURL: postgres://localhost/duty
holidays:
  rules:
    - "FREQ=NONSENSE"
`)

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rrule")
}

func TestLoadFromPath_InvalidHolidayDate(t *testing.T) {
	path := writeConfig(t, `
databaseURL: postgres://localhost/duty
holidays:
  dates:
    - "04/07/2025"
`)

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestLoadFromPath_DuplicateApprovalOrder(t *testing.T) {
	path := writeConfig(t, `
databaseURL: postgres://localhost/duty
swapApprovalChain:
  - order: 1
    role: platoon_sergeant
    isApprover: true
  - order: 1
    role: first_sergeant
    isApprover: true
`)

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate approval order")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
