package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/chore-chart/internal/common"
	"github.com/Veraticus/chore-chart/internal/model"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name      string
		str       string
		paramName string
		wantErr   bool
	}{
		{
			name:      "valid string",
			str:       "chores.db",
			paramName: "param",
			wantErr:   false,
		},
		{
			name:      "empty string",
			str:       "",
			paramName: "param",
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			str:       "   ",
			paramName: "param",
			wantErr:   true,
		},
		{
			name:      "string with spaces",
			str:       "  test  ",
			paramName: "param",
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, tt.paramName)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.paramName) {
				t.Errorf("validateString() error should contain param name %s, got %v", tt.paramName, err)
			}
		})
	}
}

func TestValidateWeek(t *testing.T) {
	tests := []struct {
		week    time.Time
		name    string
		wantErr bool
	}{
		{name: "monday", week: time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)},
		{name: "sunday", week: time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC), wantErr: true},
		{name: "zero time", week: time.Time{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateWeek(tt.week)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateWeek() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, common.ErrInvalidWeek) {
				t.Errorf("validateWeek() error = %v, want ErrInvalidWeek", err)
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	week := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	valid := model.AvailabilityRequest{WeekStart: week, PersonID: 1, InTown: 127, Cook: 5}

	tests := []struct {
		wantErr error
		mutate  func(r *model.AvailabilityRequest)
		name    string
	}{
		{name: "valid request", mutate: func(_ *model.AvailabilityRequest) {}},
		{name: "missing person", mutate: func(r *model.AvailabilityRequest) { r.PersonID = 0 }, wantErr: ErrInvalidRequest},
		{name: "mask too wide", mutate: func(r *model.AvailabilityRequest) { r.DishesPM = 200 }, wantErr: ErrInvalidRequest},
		{name: "negative mask", mutate: func(r *model.AvailabilityRequest) { r.NightSweep = -1 }, wantErr: ErrInvalidRequest},
		{name: "not a monday", mutate: func(r *model.AvailabilityRequest) { r.WeekStart = week.AddDate(0, 0, 3) }, wantErr: common.ErrInvalidWeek},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := validateRequest(req)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("validateRequest() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateRequest() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePreference(t *testing.T) {
	tests := []struct {
		name    string
		pref    model.Preference
		wantErr bool
	}{
		{name: "valid", pref: model.Preference{Task: "Night Cleanup", PersonID: 1, Weight: 3}},
		{name: "zero weight is unwilling", pref: model.Preference{Task: "Night Cleanup", PersonID: 1}},
		{name: "blank task", pref: model.Preference{Task: "  ", PersonID: 1, Weight: 1}, wantErr: true},
		{name: "no person", pref: model.Preference{Task: "Night Cleanup", Weight: 1}, wantErr: true},
		{name: "negative weight", pref: model.Preference{Task: "Night Cleanup", PersonID: 1, Weight: -2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePreference(tt.pref)
			if (err != nil) != tt.wantErr {
				t.Errorf("validatePreference() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePersonAndTask(t *testing.T) {
	if err := validatePerson(nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("validatePerson(nil) error = %v, want ErrNilParameter", err)
	}
	if err := validatePerson(&model.Person{FirstName: "Ana", LoadFraction: 2}); !errors.Is(err, ErrInvalidPerson) {
		t.Errorf("validatePerson() error = %v, want ErrInvalidPerson", err)
	}
	if err := validateTask(nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("validateTask(nil) error = %v, want ErrNilParameter", err)
	}
	task := &model.Task{Name: "Clean Fridge", Kind: model.TaskKindOccasional, DurationHours: 1}
	if err := validateTask(task); !errors.Is(err, ErrInvalidTask) {
		t.Errorf("validateTask() error = %v, want ErrInvalidTask", err)
	}
	task.FrequencyWeeks = 4
	if err := validateTask(task); err != nil {
		t.Errorf("validateTask() unexpected error = %v", err)
	}
}
