package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/diveplan/internal/rostercheck"
)

// Default configuration constants.
const (
	defaultRosters      = 1000
	defaultSize         = 12
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 10 * time.Second
	defaultCheckTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8080", "Base URL of the service")
		rosters = flag.Int("rosters", defaultRosters, "Number of rosters to generate and submit")
		size    = flag.Int("size", defaultSize, "Maximum participants per roster")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "Seed for roster generation")
		logFile = flag.String("log", "", "Log file for check output (default: roster_check_TIMESTAMP.log)")
		verbose = flag.Bool("verbose", false, "Log every violation")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		rostercheck.ShowHelp(os.Stdout)
		return
	}

	if err := rostercheck.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultCheckTimeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	config := &rostercheck.Config{
		BaseURL: *baseURL,
		Rosters: *rosters,
		Size:    *size,
		Workers: *workers,
		Timeout: *timeout,
		Seed:    *seed,
		Verbose: *verbose,
	}

	if _, err := rostercheck.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Check failed: " + err.Error() + "\n")
		stop()
		cancel()
		os.Exit(1)
	}
}
