package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/chore-chart/internal/cli"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Publish a scheduled week to Google Sheets",
		Long: `Write a stored week's chore chart to a Google Sheets tab named after the
week (e.g. 2026-10-19). An existing tab with that name is replaced.

Credentials come from the sheets.* settings: either a service account key
(sheets.service_account_path) or an OAuth2 client with the refresh token
saved by 'chores auth sheets'.`,
		RunE: runExport,
	}

	cmd.Flags().String("week", "", "Monday of the week to export (YYYY-MM-DD, default: latest)")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	weekFlag, _ := cmd.Flags().GetString("week")

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	week, err := parseWeek(weekFlag, time.Time{})
	if err != nil {
		return err
	}
	if week.IsZero() {
		if week, err = latestWeek(ctx, store); err != nil {
			return err
		}
	}

	c, err := loadChart(ctx, store, newChartBuilder(), week)
	if err != nil {
		return err
	}

	writer, err := newSheetsWriter(ctx)
	if err != nil {
		return err
	}
	if err := writer.Write(ctx, c); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported week %s (%d chores) to Google Sheets", c.Title(), c.RowCount())))
	return nil
}
