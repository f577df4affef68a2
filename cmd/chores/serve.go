package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/chore-chart/internal/common"
	"github.com/Veraticus/chore-chart/internal/config"
	"github.com/Veraticus/chore-chart/internal/metrics"
	"github.com/Veraticus/chore-chart/internal/scheduler"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Schedule next week automatically on a cron timer",
		Long: `Run in the foreground, computing and committing next week's chart every
time serve.cron fires (default: Sundays at 18:00). With serve.export the chart
is also published to Google Sheets. Prometheus metrics are served on
serve.metrics_addr; set it to "" to disable them.`,
		RunE: runServe,
	}

	cmd.Flags().String("cron", "", "Standard five-field cron expression (default \"0 18 * * 0\")")
	cmd.Flags().String("metrics-addr", "", "Address for the /metrics endpoint (default \":9090\")")
	cmd.Flags().Bool("export", false, "Publish every committed week to Google Sheets")
	cmd.Flags().Bool("run-now", false, "Schedule next week immediately on startup")

	_ = viper.BindPFlag("serve.cron", cmd.Flags().Lookup("cron"))
	_ = viper.BindPFlag("serve.metrics_addr", cmd.Flags().Lookup("metrics-addr"))
	_ = viper.BindPFlag("serve.export", cmd.Flags().Lookup("export"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	runNow, _ := cmd.Flags().GetBool("run-now")

	serveConfig, err := config.LoadServeConfig()
	if err != nil {
		return common.NewUserError("Invalid serve settings", err)
	}
	engineConfig, err := config.LoadEngineConfig()
	if err != nil {
		return common.NewUserError("Invalid engine settings", err)
	}

	store, err := openStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	recorder := metrics.NewRecorder(metrics.DefaultNamespace)
	opts := []scheduler.Option{
		scheduler.WithRecorder(recorder),
		scheduler.WithBuilder(newChartBuilder()),
	}
	manager, err := checkpointsFor(store)
	if err != nil {
		return err
	}
	if manager != nil {
		opts = append(opts, scheduler.WithCheckpoints(manager))
	}
	if serveConfig.Export {
		writer, err := newSheetsWriter(cmd.Context())
		if err != nil {
			return err
		}
		opts = append(opts, scheduler.WithWriter(writer))
	}

	runner := scheduler.NewRunner(store, engineConfig, opts...)
	service, err := scheduler.NewService(runner, serveConfig.Cron, time.Local)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return service.Run(ctx)
	})
	if serveConfig.MetricsAddr != "" {
		g.Go(func() error {
			return recorder.Serve(ctx, serveConfig.MetricsAddr)
		})
	}
	if runNow {
		g.Go(func() error {
			plan, err := runner.RunWeek(ctx, runner.NextWeek())
			if err != nil && plan == nil {
				return fmt.Errorf("initial run failed: %w", err)
			}
			if err != nil {
				slog.Warn("Initial run committed but was not published", "error", err)
			}
			return nil
		})
	}

	slog.Info("Serving chore scheduler", "cron", serveConfig.Cron, "metrics_addr", serveConfig.MetricsAddr, "export", serveConfig.Export)
	return g.Wait()
}
