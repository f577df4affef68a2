// Package model defines the household data types shared by the engine, storage and reporting layers.
package model

import (
	"fmt"
	"strings"
)

// Person is a resident on the household roster.
type Person struct {
	FirstName    string
	LastName     string
	ID           int64
	LoadFraction float64 // share of a full chore load, 0..1
	Parent       bool    // parents receive a fixed hour credit
	Active       bool
}

// DisplayName returns the name used on the chore chart.
func (p Person) DisplayName() string {
	if p.FirstName != "" {
		return p.FirstName
	}
	return strings.TrimSpace(p.LastName)
}

// Validate checks that the person record is usable. A zero ID is allowed
// for records not yet stored.
func (p *Person) Validate() error {
	if p.ID < 0 {
		return fmt.Errorf("person id cannot be negative, got %d", p.ID)
	}
	if strings.TrimSpace(p.FirstName) == "" && strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("person %d has no name", p.ID)
	}
	if p.LoadFraction < 0 || p.LoadFraction > 1 {
		return fmt.Errorf("person %d load fraction %.2f outside [0,1]", p.ID, p.LoadFraction)
	}
	return nil
}

// ClampLoadFraction bounds a load fraction to [0,1].
func ClampLoadFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
