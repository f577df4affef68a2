package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/chore-chart/internal/cli"
	"github.com/Veraticus/chore-chart/internal/importer"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Load the household from CSV files",
		Long: `Import the roster, task catalogs, preferences and availability requests
from a directory of CSV files:

  people.csv             id, first_name, last_name, load_fraction, parent, active
  daily_tasks.csv        id, task, category, description, duration_hours, rotation
  weekly_tasks.csv       id, task, category, description, duration_hours
  seasonal_tasks.csv     ... start_date, end_date, frequency_days, last_performed
  occasional_tasks.csv   ... frequency_weeks, last_performed
  preferences.csv        task, task_type, person_id, preference
    or preferences_wide.csv with a task column and one column per first name
  requests.csv           week_start, person_id, in_town, cook, cleanup,
                         night_sweep, dishes_am, dishes_pm (optional)

Rows with an existing id are updated. An automatic checkpoint is taken first.`,
		Example: `  # Check the files without writing anything
  chores import ./household --dry-run

  # Import them
  chores import ./household`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("dry-run", false, "Validate the files without writing to the database")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	dir := args[0]
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	ds, err := importer.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}
	for _, w := range ds.Warnings {
		fmt.Fprintln(out, cli.FormatWarning(w))
	}

	if dryRun {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d people, %d tasks, %d preferences and %d requests would be imported.",
			len(ds.People), ds.Tasks(), len(ds.Preferences), len(ds.Requests))))
		fmt.Fprintln(out, cli.RenderProblems(importer.Check(ds.Catalog, ds.Preferences).Problems()))
		return nil
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Rows written so far are kept; restore the automatic checkpoint to undo them.")
	ctx, stop := handler.HandleInterrupts(cmd.Context())
	defer stop()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	manager, err := checkpointsFor(store)
	if err != nil {
		return err
	}
	if manager != nil {
		info, err := manager.AutoCheckpoint(ctx, "import")
		if err != nil {
			return err
		}
		slog.Debug("Checkpointed before import", "checkpoint", info.ID)
	}

	if err := importer.New(store, cmd.ErrOrStderr()).Load(ctx, ds); err != nil {
		if handler.WasInterrupted() {
			return fmt.Errorf("import interrupted: %w", err)
		}
		return err
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d records from %s", ds.Rows(), dir)))

	catalog, err := store.GetCatalog(ctx)
	if err != nil {
		return err
	}
	prefs, err := store.ListPreferences(ctx)
	if err != nil {
		return err
	}
	if report := importer.Check(catalog, prefs); !report.OK() {
		fmt.Fprintln(out, cli.RenderProblems(report.Problems()))
	}
	return nil
}

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <dir>",
		Short: "Write the household out as CSV files",
		Long: `Write the roster, the four task catalogs and the preferences to CSV files
in the layout 'chores import' reads. Importing a dump reproduces the data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ds, err := importer.Snapshot(ctx, store)
			if err != nil {
				return err
			}
			written, err := importer.WriteDir(args[0], ds)
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Wrote "+path))
			}
			return nil
		},
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check preferences against the task catalogs",
		Long: `List preference rows that name no catalog task, catalog tasks nobody has a
preference for (the engine can never assign them), and preferences filed
under the wrong task type.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			catalog, err := store.GetCatalog(ctx)
			if err != nil {
				return err
			}
			prefs, err := store.ListPreferences(ctx)
			if err != nil {
				return err
			}

			problems := importer.Check(catalog, prefs).Problems()
			fmt.Fprint(cmd.OutOrStdout(), cli.RenderProblems(problems))
			if len(problems) > 0 {
				return fmt.Errorf("found %d problem(s)", len(problems))
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}
