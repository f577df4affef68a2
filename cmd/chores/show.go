package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/chore-chart/internal/chart"
	"github.com/Veraticus/chore-chart/internal/cli"
	"github.com/Veraticus/chore-chart/internal/common"
	"github.com/Veraticus/chore-chart/internal/tui"
)

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a scheduled week's chore chart",
		Long: `Print the chore chart of a stored week, by default the latest one.

Use --output json or --output yaml for machine-readable output, or -i to
browse every scheduled week in an interactive viewer.`,
		RunE: runShow,
	}

	cmd.Flags().String("week", "", "Monday of the week to show (YYYY-MM-DD, default: latest)")
	cmd.Flags().StringP("output", "o", "table", "Output format (table, json, yaml)")
	cmd.Flags().BoolP("interactive", "i", false, "Browse weeks interactively")

	return cmd
}

func runShow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	weekFlag, _ := cmd.Flags().GetString("week")
	output, _ := cmd.Flags().GetString("output")
	interactive, _ := cmd.Flags().GetBool("interactive")

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	builder := newChartBuilder()

	if interactive {
		weeks, err := store.ListScheduledWeeks(ctx)
		if err != nil {
			return err
		}
		start := len(weeks) - 1
		if weekFlag != "" {
			week, err := parseWeek(weekFlag, time.Time{})
			if err != nil {
				return err
			}
			for i, w := range weeks {
				if w.Equal(week) {
					start = i
				}
			}
		}
		load := func(ctx context.Context, week time.Time) (*chart.Chart, error) {
			return loadChart(ctx, store, builder, week)
		}
		return tui.Run(ctx, load, weeks, start)
	}

	week, err := parseWeek(weekFlag, time.Time{})
	if err != nil {
		return err
	}
	if week.IsZero() {
		if week, err = latestWeek(ctx, store); err != nil {
			return err
		}
	}

	c, err := loadChart(ctx, store, builder, week)
	if err != nil {
		return err
	}
	return writeChart(cmd.OutOrStdout(), c, output)
}

func writeChart(w io.Writer, c *chart.Chart, format string) error {
	switch format {
	case "table", "":
		_, err := fmt.Fprintln(w, cli.RenderChart(c))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	default:
		return common.NewUserError(fmt.Sprintf("unknown output format %q (want table, json or yaml)", format), nil)
	}
}
