package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/chore-chart/internal/availability"
	"github.com/Veraticus/chore-chart/internal/cli"
	"github.com/Veraticus/chore-chart/internal/common"
	"github.com/Veraticus/chore-chart/internal/config"
	"github.com/Veraticus/chore-chart/internal/engine"
	"github.com/Veraticus/chore-chart/internal/model"
	"github.com/Veraticus/chore-chart/internal/scheduler"
)

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Compute a week's chore assignments",
		Long: `Run the allocation engine for one week and print the resulting chart.

The week defaults to the Monday after today. The previous week's leftover
hours are carried over as each person's deficit. Nothing is saved unless
--commit is given; committing replaces the week's stored assignments and takes
an automatic checkpoint first when the week already has rows.`,
		Example: `  # Preview next week
  chores schedule

  # Save a specific week, reproducing an earlier draw
  chores schedule --week 2026-10-19 --seed 42 --commit

  # Save and publish to Google Sheets
  chores schedule --commit --export`,
		RunE: runSchedule,
	}

	cmd.Flags().String("week", "", "Monday of the week to schedule (YYYY-MM-DD, default: next Monday)")
	cmd.Flags().Int64("seed", 0, "Random seed for the weighted weekly draw (default: from the clock)")
	cmd.Flags().Bool("commit", false, "Save the schedule, replacing the stored week")
	cmd.Flags().Bool("export", false, "Publish the committed chart to Google Sheets")
	cmd.Flags().BoolP("force", "f", false, "Replace an already scheduled week without asking")

	return cmd
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	commit, _ := cmd.Flags().GetBool("commit")
	export, _ := cmd.Flags().GetBool("export")
	force, _ := cmd.Flags().GetBool("force")
	weekFlag, _ := cmd.Flags().GetString("week")

	if export && !commit {
		return common.NewUserError("--export needs --commit; only saved weeks are published", nil)
	}

	engineConfig, err := config.LoadEngineConfig()
	if err != nil {
		return common.NewUserError("Invalid engine settings", err)
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	builder := newChartBuilder()
	opts := []scheduler.Option{scheduler.WithBuilder(builder)}
	manager, err := checkpointsFor(store)
	if err != nil {
		return err
	}
	if manager != nil {
		opts = append(opts, scheduler.WithCheckpoints(manager))
	}
	if export {
		writer, err := newSheetsWriter(ctx)
		if err != nil {
			return err
		}
		opts = append(opts, scheduler.WithWriter(writer))
	}
	runner := scheduler.NewRunner(store, engineConfig, opts...)

	week, err := parseWeek(weekFlag, runner.NextWeek())
	if err != nil {
		return err
	}
	seed := runner.NewSeed()
	if cmd.Flags().Changed("seed") {
		seed, _ = cmd.Flags().GetInt64("seed")
	}

	plan, err := runner.Plan(ctx, week, seed)
	if err != nil {
		return explainPlanError(err)
	}
	c, err := plan.Chart(builder)
	if err != nil {
		return fmt.Errorf("failed to build chart: %w", err)
	}

	fmt.Fprintln(out, cli.RenderChart(c))
	fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Seed %d (use --seed %d to reproduce this draw)", seed, seed)))

	if !commit {
		fmt.Fprintln(out, cli.FormatInfo("Preview only; nothing was saved. Add --commit to save this week."))
		return nil
	}

	exists, err := store.WeekHasRows(ctx, week)
	if err != nil {
		return err
	}
	if exists && !force {
		ok, err := confirm(cmd, fmt.Sprintf("Week %s is already scheduled. Replace it?", week.Format(model.WeekLayout)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, cli.FormatInfo("Kept the stored week."))
			return nil
		}
	}

	if err := runner.Commit(ctx, plan); err != nil {
		return fmt.Errorf("failed to save week: %w", err)
	}
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Saved week %s", plan.Schedule.Week())))

	if export {
		if err := runner.Publish(ctx, plan); err != nil {
			return common.NewUserError("The week was saved but could not be exported; retry with 'chores export'", err)
		}
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Exported week %s to Google Sheets", plan.Schedule.Week())))
	}
	return nil
}

// explainPlanError turns the engine's precondition failures into advice.
func explainPlanError(err error) error {
	switch {
	case errors.Is(err, engine.ErrEmptyRoster):
		return common.NewUserError("Nobody is active on the roster; import people first", err)
	case errors.Is(err, engine.ErrNoEffectivePeople):
		return common.NewUserError("Nobody is in town that week; record availability with 'chores request set'", err)
	case errors.Is(err, engine.ErrMissingRotationTask):
		return common.NewUserError("The daily task catalog is missing a rotation", err)
	case errors.Is(err, availability.ErrMalformedMask):
		return common.NewUserError("A stored availability request is malformed", err)
	default:
		return err
	}
}
