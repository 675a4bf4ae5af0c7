package rostercheck

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/diveplan/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging sends log output to both the console and a file. If logFile
// is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) error {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "roster_check_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithWriter(io.MultiWriter(os.Stdout, file))); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the roster check tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Diveplan Roster Check
=====================

Submits random rosters to a running diveplan service and verifies every
answer: each participant placed exactly once, at most two wards per escort,
wards younger than their escort, leads in seniority order, and failures
that match the roster's escort and ward counts.

Usage:
  go run ./cmd/roster-check [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8080")
  -rosters int
        Number of rosters to generate and submit (default 1000)
  -size int
        Maximum participants per roster (default 12)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -seed int
        Seed for roster generation (default: current time)
  -log string
        Log file for check output (default: roster_check_TIMESTAMP.log)
  -verbose
        Log every violation
  -help
        Show this help message

Examples:
  # Check with default settings
  go run ./cmd/roster-check

  # Large rosters against another instance
  go run ./cmd/roster-check -rosters 20000 -size 40 -url http://localhost:9090

  # Reproduce a run
  go run ./cmd/roster-check -seed 42 -verbose
`)
}
