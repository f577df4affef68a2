package engine

import (
	"fmt"
	"strings"
)

// Config holds the household constants the engine plans against.
type Config struct {
	PrimaryWeeklyTask    string
	TargetWeeklyHours    float64
	ParentCreditHours    float64
	MaxWeeklyPersonHours float64
	MinCleanupCrew       int
}

// DefaultConfig returns the configuration the household has run with historically.
func DefaultConfig() Config {
	return Config{
		TargetWeeklyHours:    36,
		ParentCreditHours:    1,
		MaxWeeklyPersonHours: 6,
		MinCleanupCrew:       2,
		PrimaryWeeklyTask:    "Bathrm, Main",
	}
}

// Validate checks that the constants are usable.
func (c Config) Validate() error {
	if c.TargetWeeklyHours <= 0 {
		return fmt.Errorf("%w: target weekly hours must be positive", ErrInvalidConfig)
	}
	if c.ParentCreditHours < 0 {
		return fmt.Errorf("%w: parent credit hours cannot be negative", ErrInvalidConfig)
	}
	if c.MaxWeeklyPersonHours <= 0 {
		return fmt.Errorf("%w: max weekly person hours must be positive", ErrInvalidConfig)
	}
	if c.MinCleanupCrew < 0 {
		return fmt.Errorf("%w: min cleanup crew cannot be negative", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.PrimaryWeeklyTask) == "" {
		return fmt.Errorf("%w: primary weekly task name is empty", ErrInvalidConfig)
	}
	return nil
}
