package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/chore-chart/internal/chart"
	"github.com/Veraticus/chore-chart/internal/common"
)

const householdDir = "testdata/household"

// harness runs commands against one database file.
type harness struct {
	t      *testing.T
	dbPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, key := range []string{
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "GOOGLE_SHEETS_CLIENT_ID", "GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN", "GOOGLE_SHEETS_SPREADSHEET_ID", "GOOGLE_SHEETS_SPREADSHEET_NAME",
	} {
		t.Setenv(key, "")
	}
	t.Cleanup(viper.Reset)
	return &harness{t: t, dbPath: filepath.Join(home, "data", "chores.db")}
}

// run executes the CLI with input as stdin and returns everything it printed.
func (h *harness) run(input string, args ...string) (string, error) {
	h.t.Helper()
	viper.Reset()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(append([]string{"--db", h.dbPath, "--log-level", "error"}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run("", args...)
	require.NoError(h.t, err, out)
	return out
}

func TestParseWeek(t *testing.T) {
	fallback := time.Date(2026, time.October, 26, 0, 0, 0, 0, time.UTC)

	week, err := parseWeek("", fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, week)

	week, err = parseWeek("2026-10-19", fallback)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC), week)

	_, err = parseWeek("2026-10-21", fallback)
	assert.ErrorIs(t, err, common.ErrInvalidWeek)
	assert.Contains(t, err.Error(), "Wednesday")

	_, err = parseWeek("next week", fallback)
	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)
}

func TestHouseholdWorkflow(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("import", householdDir)
	assert.Contains(t, out, "Imported 61 records")
	assert.NotContains(t, out, "problem(s)")

	preview := h.mustRun("schedule", "--week", "2026-10-19", "--seed", "7")
	assert.Contains(t, preview, "Chore chart for the week of 2026-10-19")
	assert.Contains(t, preview, "Seed 7")
	assert.Contains(t, preview, "Preview only")
	again := h.mustRun("schedule", "--week", "2026-10-19", "--seed", "7")
	assert.Equal(t, preview, again, "same seed and data give the same chart")

	_, err := h.run("", "show")
	assert.ErrorIs(t, err, common.ErrWeekNotPlanned, "previews are not saved")

	out = h.mustRun("schedule", "--week", "2026-10-19", "--seed", "7", "--commit")
	assert.Contains(t, out, "Saved week 2026-10-19")

	out, err = h.run("n\n", "schedule", "--week", "2026-10-19", "--seed", "8", "--commit")
	require.NoError(t, err)
	assert.Contains(t, out, "Replace it?")
	assert.Contains(t, out, "Kept the stored week.")

	out = h.mustRun("schedule", "--week", "2026-10-19", "--seed", "7", "--commit", "--force")
	assert.Contains(t, out, "Saved week 2026-10-19")

	out = h.mustRun("checkpoint", "list")
	assert.Contains(t, out, "auto-import-")
	assert.Contains(t, out, "auto-schedule-2026-10-19-")

	out = h.mustRun("show", "--output", "json")
	var c chart.Chart
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, "2026-10-19", c.Title())
	assert.Greater(t, c.TotalHours, 0.0)
	require.NotEmpty(t, c.Sections)
	assert.Equal(t, chart.SectionMeals, c.Sections[0].Title)

	out = h.mustRun("show", "--week", "2026-10-19", "--output", "yaml")
	assert.Contains(t, out, "week: 2026-10-19")
	assert.Contains(t, out, "total_hours:")

	out = h.mustRun("check")
	assert.Contains(t, out, "Household data is consistent.")
}

func TestDumpReimports(t *testing.T) {
	h := newHarness(t)
	h.mustRun("import", householdDir)

	dir := filepath.Join(t.TempDir(), "dump")
	out := h.mustRun("dump", dir)
	for _, name := range []string{"people.csv", "daily_tasks.csv", "seasonal_tasks.csv", "preferences.csv"} {
		assert.Contains(t, out, name)
		assert.FileExists(t, filepath.Join(dir, name))
	}

	out = h.mustRun("import", dir, "--dry-run")
	assert.Contains(t, out, "4 people, 11 tasks, 42 preferences and 0 requests")
	assert.Contains(t, out, "Household data is consistent.")
}

func TestRequests(t *testing.T) {
	h := newHarness(t)
	h.mustRun("import", householdDir)

	out := h.mustRun("request", "set", "4", "--week", "2026-10-26", "--in-town", "Mon,Tue", "--cook", "none")
	assert.Contains(t, out, "Saved availability for Dee, week of 2026-10-26")

	out = h.mustRun("request", "list", "--week", "2026-10-26")
	assert.Contains(t, out, "Mon,Tue")
	assert.Contains(t, out, "Ana")

	_, err := h.run("", "request", "set", "99", "--week", "2026-10-26")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = h.run("", "request", "set", "4", "--week", "2026-10-26", "--cook", "funday")
	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)
}

func TestCheckpointRestore(t *testing.T) {
	h := newHarness(t)
	h.mustRun("import", householdDir)
	h.mustRun("checkpoint", "create", "--tag", "before-schedule", "--description", "clean slate")
	h.mustRun("schedule", "--week", "2026-10-19", "--seed", "1", "--commit")

	out, err := h.run("n\n", "checkpoint", "restore", "before-schedule")
	require.NoError(t, err)
	assert.Contains(t, out, "clean slate")
	assert.Contains(t, out, "Restore cancelled.")
	h.mustRun("show")

	out = h.mustRun("checkpoint", "restore", "before-schedule", "--force")
	assert.Contains(t, out, "Restored from checkpoint before-schedule")
	_, err = h.run("", "show")
	assert.ErrorIs(t, err, common.ErrWeekNotPlanned)

	out = h.mustRun("checkpoint", "delete", "before-schedule", "--force")
	assert.Contains(t, out, "Deleted checkpoint before-schedule")
	_, err = h.run("", "checkpoint", "delete", "before-schedule", "--force")
	assert.Error(t, err)
}

func TestCommandErrors(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "schedule", "--week", "2026-10-20")
	assert.ErrorIs(t, err, common.ErrInvalidWeek)

	_, err = h.run("", "schedule", "--week", "2026-10-19")
	assert.ErrorContains(t, err, "Nobody is active on the roster")

	_, err = h.run("", "schedule", "--export")
	assert.ErrorContains(t, err, "--export needs --commit")

	_, err = h.run("", "show", "--week", "2026-10-19")
	assert.ErrorIs(t, err, common.ErrWeekNotPlanned)

	h.mustRun("import", householdDir)
	h.mustRun("schedule", "--week", "2026-10-19", "--seed", "1", "--commit")
	_, err = h.run("", "export")
	assert.ErrorContains(t, err, "Google Sheets is not configured")

	_, err = h.run("", "show", "--output", "xml")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = h.run("", "import", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorContains(t, err, "people.csv")
}

func TestMigrateAndVersion(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("migrate")
	assert.Contains(t, out, "schema version 4")
	_, err := os.Stat(h.dbPath)
	require.NoError(t, err)

	out = h.mustRun("migrate", "--status")
	assert.Contains(t, out, "Current version: 4")
	assert.Contains(t, out, "Latest version: 4")

	out = h.mustRun("version")
	assert.Contains(t, out, "chores dev")
}
