package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/chore-chart/internal/availability"
	"github.com/Veraticus/chore-chart/internal/cli"
	"github.com/Veraticus/chore-chart/internal/common"
	"github.com/Veraticus/chore-chart/internal/model"
)

func requestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Record and list weekly availability",
		Long: `Availability requests say, per person and week, which days they are in
town and which days they can cook, clean up, sweep or unload dishes.`,
	}

	cmd.AddCommand(setRequestCmd())
	cmd.AddCommand(listRequestsCmd())

	return cmd
}

// activityFlags maps each activity to its flag name.
var activityFlags = map[model.Activity]string{
	model.ActivityInTown:     "in-town",
	model.ActivityCook:       "cook",
	model.ActivityCleanup:    "cleanup",
	model.ActivityNightSweep: "night-sweep",
	model.ActivityDishesAM:   "dishes-am",
	model.ActivityDishesPM:   "dishes-pm",
}

func setRequestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <person-id>",
		Short: "Store one person's availability for a week",
		Long: `Store one person's availability for a week. Each flag takes a day list such
as "Mon,Wed,Fri", "all" or "none". --in-town defaults to the whole week; every
other activity defaults to the in-town days.`,
		Example: `  # Away at the weekend, cooks on Tuesday only
  chores request set 3 --in-town Mon,Tue,Wed,Thu,Fri --cook Tue`,
		Args: cobra.ExactArgs(1),
		RunE: runSetRequest,
	}

	cmd.Flags().String("week", "", "Monday of the week (YYYY-MM-DD, default: next Monday)")
	for _, a := range model.Activities {
		cmd.Flags().String(activityFlags[a], "", fmt.Sprintf("Days available for %s", a))
	}

	return cmd
}

func runSetRequest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	personID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("%q is not a person id", args[0]), err)
	}
	weekFlag, _ := cmd.Flags().GetString("week")
	week, err := parseWeek(weekFlag, model.NextMonday(time.Now()))
	if err != nil {
		return err
	}

	req := model.AvailabilityRequest{WeekStart: week, PersonID: personID, InTown: availability.FullWeek}
	if cmd.Flags().Changed(activityFlags[model.ActivityInTown]) {
		if req.InTown, err = dayFlag(cmd, model.ActivityInTown); err != nil {
			return err
		}
	}
	for _, a := range model.Activities[1:] {
		mask := req.InTown
		if cmd.Flags().Changed(activityFlags[a]) {
			if mask, err = dayFlag(cmd, a); err != nil {
				return err
			}
		}
		req.SetMask(a, mask)
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	person, err := store.GetPerson(ctx, personID)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("No person with id %d", personID), err)
	}
	if err := store.SaveRequest(ctx, req); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Saved availability for %s, week of %s", person.DisplayName(), week.Format(model.WeekLayout))))
	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderRequests([]model.Person{*person}, []model.AvailabilityRequest{req}))
	return nil
}

func dayFlag(cmd *cobra.Command, a model.Activity) (int, error) {
	name := activityFlags[a]
	value, _ := cmd.Flags().GetString(name)
	mask, err := availability.ParseDays(value)
	if err != nil {
		return 0, common.NewUserError(fmt.Sprintf("--%s %q is not a day list", name, value), err)
	}
	return mask, nil
}

func listRequestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show everyone's availability for a week",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			weekFlag, _ := cmd.Flags().GetString("week")
			week, err := parseWeek(weekFlag, model.NextMonday(time.Now()))
			if err != nil {
				return err
			}

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			people, err := store.ListPeople(ctx, true)
			if err != nil {
				return err
			}
			requests, err := store.GetRequests(ctx, week)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle("Availability for the week of "+week.Format(model.WeekLayout)))
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderRequests(people, requests))
			return nil
		},
	}

	cmd.Flags().String("week", "", "Monday of the week (YYYY-MM-DD, default: next Monday)")

	return cmd
}
