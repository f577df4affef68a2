package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/Veraticus/chore-chart/internal/common"
	"github.com/Veraticus/chore-chart/internal/engine"
)

// ServeConfig controls the long-running weekly scheduler.
type ServeConfig struct {
	Cron        string
	MetricsAddr string
	Export      bool
}

// SetDefaults registers the default value of every key the commands read.
func SetDefaults() {
	defaults := engine.DefaultConfig()
	viper.SetDefault("database.path", DefaultDatabasePath())
	viper.SetDefault("engine.target_weekly_hours", defaults.TargetWeeklyHours)
	viper.SetDefault("engine.parent_credit_hours", defaults.ParentCreditHours)
	viper.SetDefault("engine.max_weekly_person_hours", defaults.MaxWeeklyPersonHours)
	viper.SetDefault("engine.min_cleanup_crew", defaults.MinCleanupCrew)
	viper.SetDefault("engine.primary_weekly_task", defaults.PrimaryWeeklyTask)
	viper.SetDefault("serve.cron", "0 18 * * 0")
	viper.SetDefault("serve.metrics_addr", ":9090")
	viper.SetDefault("serve.export", false)
}

// DatabasePath returns the configured database path with ~ expanded.
func DatabasePath() string {
	if path := viper.GetString("database.path"); path != "" {
		return ExpandPath(path)
	}
	return DefaultDatabasePath()
}

// LoadEngineConfig reads the household constants. Unset keys keep their defaults.
func LoadEngineConfig() (engine.Config, error) {
	cfg := engine.DefaultConfig()

	if viper.IsSet("engine.target_weekly_hours") {
		cfg.TargetWeeklyHours = viper.GetFloat64("engine.target_weekly_hours")
	}
	if viper.IsSet("engine.parent_credit_hours") {
		cfg.ParentCreditHours = viper.GetFloat64("engine.parent_credit_hours")
	}
	if viper.IsSet("engine.max_weekly_person_hours") {
		cfg.MaxWeeklyPersonHours = viper.GetFloat64("engine.max_weekly_person_hours")
	}
	if viper.IsSet("engine.min_cleanup_crew") {
		cfg.MinCleanupCrew = viper.GetInt("engine.min_cleanup_crew")
	}
	if viper.IsSet("engine.primary_weekly_task") {
		cfg.PrimaryWeeklyTask = viper.GetString("engine.primary_weekly_task")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return cfg, nil
}

// LoadServeConfig reads the serve.* keys and checks the cron expression.
func LoadServeConfig() (ServeConfig, error) {
	cfg := ServeConfig{
		Cron:        viper.GetString("serve.cron"),
		MetricsAddr: viper.GetString("serve.metrics_addr"),
		Export:      viper.GetBool("serve.export"),
	}
	if cfg.Cron == "" {
		return cfg, fmt.Errorf("%w: serve.cron", common.ErrMissingConfig)
	}
	if _, err := cron.ParseStandard(cfg.Cron); err != nil {
		return cfg, fmt.Errorf("%w: serve.cron %q: %w", common.ErrInvalidConfig, cfg.Cron, err)
	}
	return cfg, nil
}
