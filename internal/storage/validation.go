// Package storage provides the SQLite persistence layer for the household.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/chore-chart/internal/availability"
	"github.com/Veraticus/chore-chart/internal/common"
	"github.com/Veraticus/chore-chart/internal/model"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrNilParameter      = errors.New("parameter cannot be nil")
	ErrInvalidPerson     = errors.New("invalid person")
	ErrInvalidTask       = errors.New("invalid task")
	ErrInvalidPreference = errors.New("invalid preference")
	ErrInvalidRequest    = errors.New("invalid availability request")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateWeek ensures a week key falls on a Monday.
func validateWeek(week time.Time) error {
	if week.IsZero() || week.Weekday() != time.Monday {
		return fmt.Errorf("%w: %s", common.ErrInvalidWeek, week.Format(model.WeekLayout))
	}
	return nil
}

func validatePerson(p *model.Person) error {
	if p == nil {
		return fmt.Errorf("%w: person", ErrNilParameter)
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPerson, err)
	}
	return nil
}

func validateTask(t *model.Task) error {
	if t == nil {
		return fmt.Errorf("%w: task", ErrNilParameter)
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}
	return nil
}

func validatePreference(p model.Preference) error {
	if strings.TrimSpace(p.Task) == "" {
		return fmt.Errorf("%w: missing task name", ErrInvalidPreference)
	}
	if p.PersonID <= 0 {
		return fmt.Errorf("%w: missing person", ErrInvalidPreference)
	}
	if p.Weight < 0 {
		return fmt.Errorf("%w: weight cannot be negative", ErrInvalidPreference)
	}
	return nil
}

func validateRequest(r model.AvailabilityRequest) error {
	if err := validateWeek(r.WeekStart); err != nil {
		return err
	}
	if r.PersonID <= 0 {
		return fmt.Errorf("%w: missing person", ErrInvalidRequest)
	}
	for _, a := range model.Activities {
		if err := availability.Validate(r.Mask(a)); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidRequest, a, err)
		}
	}
	return nil
}
