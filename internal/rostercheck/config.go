// Package rostercheck drives a running diveplan service with random rosters
// and verifies every answer against the distribution invariants.
package rostercheck

import (
	"errors"
	"time"
)

// ErrViolations is returned by Run when at least one response broke an
// invariant.
var ErrViolations = errors.New("invariant violations detected")

// Config holds configuration for a check run.
type Config struct {
	BaseURL string        // Base URL of the service
	Rosters int           // Number of rosters to generate
	Size    int           // Maximum participants per roster
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	Seed    int64         // Seed for roster generation
	Verbose bool          // Log every violation
}

// Stats holds check statistics.
type Stats struct {
	Generated       int
	Submitted       int
	Planned         int
	Undistributable int
	Failed          int
	Violations      int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
