package rostercheck

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/diveplan/internal/domain/types"
	"github.com/okian/diveplan/pkg/logger"
)

// Runner configuration constants.
const (
	WorkerChannelMultiplier = 2
	PercentageMultiplier    = 100
	reportInterval          = time.Second
)

// Run executes a complete check and returns its statistics. The error is
// ErrViolations when any response broke an invariant.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting roster check",
		logger.String("baseURL", config.BaseURL),
		logger.Int("rosters", config.Rosters),
		logger.Int("size", config.Size),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Any("seed", config.Seed),
	)

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config.BaseURL); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate rosters
	rosters := GenerateRosters(rand.New(rand.NewSource(config.Seed)), config.Rosters, config.Size)
	stats.Generated = len(rosters)

	// Step 3: Submit and verify concurrently
	submitRosters(ctx, client, config, rosters, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("check interrupted: %w", err)
	}
	if stats.Violations > 0 {
		return stats, fmt.Errorf("%w: %d", ErrViolations, stats.Violations)
	}
	log.Info(ctx, "check completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, baseURL string) error {
	status, err := client.Get(ctx, baseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", status)
	}
	return nil
}

// outcome of one submitted roster.
type outcome uint8

const (
	outcomePlanned outcome = iota
	outcomeUndistributable
	outcomeFailed
)

// submitRosters posts rosters over a bounded worker pool and verifies each
// answer.
func submitRosters(ctx context.Context, client *HTTPClient, config *Config, rosters [][]types.Swimmer, stats *Stats) {
	url := config.BaseURL + "/api/distribution"
	log := logger.Get()

	var (
		submitted       atomic.Int64
		planned         atomic.Int64
		undistributable atomic.Int64
		failed          atomic.Int64
		violations      atomic.Int64
		lastReport      atomic.Int64
	)

	workers := max(config.Workers, 1)
	jobs := make(chan int, workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					return
				}
				roster := rosters[idx]
				res, found := submitSingle(ctx, client, url, roster)

				submitted.Add(1)
				switch res {
				case outcomePlanned:
					planned.Add(1)
				case outcomeUndistributable:
					undistributable.Add(1)
				case outcomeFailed:
					failed.Add(1)
				}
				if len(found) > 0 {
					violations.Add(int64(len(found)))
					if config.Verbose {
						for _, v := range found {
							log.Warn(ctx, "invariant violation", logger.Int("roster", idx), logger.String("violation", v))
						}
					}
				}

				now := time.Now().UnixNano()
				last := lastReport.Load()
				if now-last >= int64(reportInterval) && lastReport.CompareAndSwap(last, now) {
					log.Info(ctx, "progress",
						logger.Any("submitted", submitted.Load()),
						logger.Int("total", len(rosters)),
						logger.Any("violations", violations.Load()),
					)
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range rosters {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()

	stats.Submitted = int(submitted.Load())
	stats.Planned = int(planned.Load())
	stats.Undistributable = int(undistributable.Load())
	stats.Failed = int(failed.Load())
	stats.Violations = int(violations.Load())
}

// submitSingle posts one roster and verifies the response.
func submitSingle(ctx context.Context, client *HTTPClient, url string, roster []types.Swimmer) (outcome, []string) {
	status, body, err := client.PostJSON(ctx, url, types.DistributionRequest{Swimmers: roster})
	if err != nil {
		return outcomeFailed, nil
	}

	switch status {
	case http.StatusOK:
		var resp types.DistributionResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return outcomeFailed, []string{"malformed plan: " + err.Error()}
		}
		return outcomePlanned, VerifyPlan(roster, resp)
	case http.StatusUnprocessableEntity:
		var resp types.FailureResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return outcomeFailed, []string{"malformed failure: " + err.Error()}
		}
		return outcomeUndistributable, VerifyFailure(roster, resp)
	default:
		return outcomeFailed, nil
	}
}

// displayFinalStats logs the final check statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var plannedRate, rostersPerSecond float64
	if stats.Submitted > 0 {
		plannedRate = float64(stats.Planned) / float64(stats.Submitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		rostersPerSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("planned", stats.Planned),
		logger.Int("undistributable", stats.Undistributable),
		logger.Int("failed", stats.Failed),
		logger.Int("violations", stats.Violations),
		logger.Duration("duration", stats.Duration),
		logger.Float64("plannedRate", plannedRate),
		logger.Float64("rostersPerSecond", rostersPerSecond),
	)
}
