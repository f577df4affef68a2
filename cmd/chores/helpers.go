package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/chore-chart/internal/chart"
	"github.com/Veraticus/chore-chart/internal/cli"
	"github.com/Veraticus/chore-chart/internal/common"
	"github.com/Veraticus/chore-chart/internal/config"
	"github.com/Veraticus/chore-chart/internal/model"
	"github.com/Veraticus/chore-chart/internal/sheets"
	"github.com/Veraticus/chore-chart/internal/storage"
)

// openStorage opens the configured database and brings its schema up to date.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.DatabasePath()
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError("Could not open the household database at "+dbPath, err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// checkpointsFor returns the store's checkpoint manager, or nil for an
// in-memory database.
func checkpointsFor(store *storage.SQLiteStorage) (*storage.CheckpointManager, error) {
	manager, err := store.NewCheckpointManager()
	if errors.Is(err, storage.ErrInMemoryCheckpoint) {
		slog.Debug("Checkpoints disabled for in-memory database")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create checkpoint manager: %w", err)
	}
	return manager, nil
}

// parseWeek reads a --week value. Empty means fallback.
func parseWeek(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	week, err := time.Parse(model.WeekLayout, value)
	if err != nil {
		return time.Time{}, common.NewUserError(fmt.Sprintf("--week %q is not a date like 2026-10-19", value), err)
	}
	if week.Weekday() != time.Monday {
		return time.Time{}, common.NewUserError(fmt.Sprintf("--week %s is a %s", value, week.Weekday()), common.ErrInvalidWeek)
	}
	return week, nil
}

// latestWeek returns the most recent scheduled week.
func latestWeek(ctx context.Context, store *storage.SQLiteStorage) (time.Time, error) {
	weeks, err := store.ListScheduledWeeks(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if len(weeks) == 0 {
		return time.Time{}, common.NewUserError("No weeks have been scheduled yet; run 'chores schedule --commit' first", common.ErrWeekNotPlanned)
	}
	return weeks[len(weeks)-1], nil
}

// newChartBuilder honors chart.category_order when it is set.
func newChartBuilder() *chart.Builder {
	order := viper.GetStringSlice("chart.category_order")
	if len(order) == 0 {
		order = nil
	}
	return chart.NewBuilder(order)
}

// loadChart lays out a stored week.
func loadChart(ctx context.Context, store *storage.SQLiteStorage, builder *chart.Builder, week time.Time) (*chart.Chart, error) {
	schedule, err := store.GetSchedule(ctx, week)
	if errors.Is(err, common.ErrWeekNotPlanned) {
		return nil, common.NewUserError(fmt.Sprintf("Week %s has not been scheduled", week.Format(model.WeekLayout)), err)
	}
	if err != nil {
		return nil, err
	}
	catalog, err := store.GetCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load task catalog: %w", err)
	}
	people, err := store.ListPeople(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load people: %w", err)
	}
	return builder.Build(schedule, catalog, people)
}

// newSheetsWriter creates a Google Sheets writer from the sheets.* settings.
func newSheetsWriter(ctx context.Context) (*sheets.Writer, error) {
	cfg, err := config.LoadSheetsConfig()
	if err != nil {
		return nil, common.NewUserError("Google Sheets is not configured; run 'chores auth sheets' or set sheets.service_account_path", err)
	}
	writer, err := sheets.NewWriter(ctx, *cfg, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets writer: %w", err)
	}
	return writer, nil
}

// confirm asks a yes/no question on the command's input, defaulting to no.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	reader := cli.NewNonBlockingReader(cmd.InOrStdin())
	return cli.Confirm(cmd.Context(), reader, cmd.OutOrStdout(), question, false)
}
