// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/diveplan/internal/domain/distribution"
	"github.com/okian/diveplan/internal/domain/failure"
	"github.com/okian/diveplan/internal/domain/instruction"
	"github.com/okian/diveplan/internal/domain/model"
	"github.com/okian/diveplan/pkg/logger"
	"github.com/okian/diveplan/pkg/metrics"
)

// Default service configuration.
const (
	defaultMaxParticipants = 200
	millisecondsPerSecond  = 1e3
)

// Sentinel kinds for service errors.
var (
	ErrNotStarted          = errors.New("service not started")
	ErrTooManyParticipants = errors.New("too many participants")
)

// Service runs distributions and resolves their instructions. It keeps no
// state between runs besides monitoring counters.
type Service struct {
	mu sync.RWMutex

	// Core components
	distributor distribution.Distributor
	resolver    *instruction.Resolver

	// Configuration
	locale          string
	maxParticipants int

	// State
	started   bool
	runs      atomic.Int64
	successes atomic.Int64
	failures  atomic.Int64

	// Observability
	logger  logger.Logger
	metrics *metrics.Manager
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLocale selects the phrase catalog used for instructions and
// diagnostics. It is validated by Start.
func WithLocale(locale string) Option {
	return func(s *Service) {
		s.locale = locale
	}
}

// WithMaxParticipants caps the roster size per run.
func WithMaxParticipants(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxParticipants = n
		}
	}
}

// WithDistributor replaces the distribution algorithm.
func WithDistributor(d distribution.Distributor) Option {
	return func(s *Service) {
		if d != nil {
			s.distributor = d
		}
	}
}

// WithMetrics records to m instead of the process-wide manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		distributor:     distribution.Greedy{},
		locale:          instruction.LocaleEnglish,
		maxParticipants: defaultMaxParticipants,
		logger:          nil, // Will be replaced when service starts
		metrics:         nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start resolves the locale catalog and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.metrics == nil {
		s.metrics = metrics.Global()
	}

	catalog, err := instruction.ForLocale(s.locale)
	if err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	s.resolver = instruction.NewResolver(instruction.WithCatalog(catalog))

	s.started = true
	s.logger.Info(ctx, "distribution service started",
		logger.String("locale", catalog.Locale),
		logger.Int("maxParticipants", s.maxParticipants),
	)
	return nil
}

// Stop marks the service as stopped. Runs in flight are unaffected.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "distribution service stopped")
}

func (s *Service) ready() (*instruction.Resolver, logger.Logger, *metrics.Manager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, nil, ErrNotStarted
	}
	return s.resolver, s.logger, s.metrics, nil
}

// Distribute runs one distribution and builds a Plan. Domain failures are
// returned as *failure.Failure.
func (s *Service) Distribute(ctx context.Context, participants []model.Participant) (model.Plan, error) {
	resolver, log, rec, err := s.ready()
	if err != nil {
		return model.Plan{}, err
	}

	runID := uuid.NewString()
	log = log.With(logger.String("run_id", runID))

	if len(participants) > s.maxParticipants {
		log.Info(ctx, "roster rejected",
			logger.Int("participants", len(participants)),
			logger.Int("max", s.maxParticipants),
		)
		return model.Plan{}, fmt.Errorf("%w: %d > %d", ErrTooManyParticipants, len(participants), s.maxParticipants)
	}

	s.runs.Add(1)
	start := time.Now()
	res, err := s.distributor.Distribute(participants)
	latencyMs := float64(time.Since(start).Microseconds()) / millisecondsPerSecond

	if err != nil {
		if f, ok := failure.As(err); ok {
			s.failures.Add(1)
			rec.RecordRun(metrics.OutcomeFailure, len(participants), latencyMs)
			rec.RecordFailure(f.Kind.String())
			log.Info(ctx, "distribution failed",
				logger.String("kind", f.Kind.String()),
				logger.Any("value", f.Value()),
				logger.Int("participants", len(participants)),
			)
			return model.Plan{}, err
		}
		rec.RecordRun(metrics.OutcomeError, len(participants), latencyMs)
		log.Error(ctx, "distribution error", logger.Error(err))
		return model.Plan{}, err
	}

	plan, err := buildPlan(runID, res.Assignment, resolver)
	if err != nil {
		rec.RecordRun(metrics.OutcomeError, len(participants), latencyMs)
		log.Error(ctx, "instruction lookup failed", logger.Error(err))
		return model.Plan{}, err
	}

	s.successes.Add(1)
	rec.RecordRun(metrics.OutcomeSuccess, len(participants), latencyMs)
	rec.RecordClassification(res.Escorts, res.Wards)
	rec.RecordRebalance(res.Rebalance.String())
	log.Debug(ctx, "distribution built",
		logger.Int("participants", len(participants)),
		logger.Int("escorts", res.Escorts),
		logger.Int("wards", res.Wards),
		logger.Int("freeEscorts", res.FreeEscorts),
		logger.String("rebalance", res.Rebalance.String()),
		logger.Int("groups", len(plan.Groups)),
		logger.Float64("latencyMs", latencyMs),
	)
	return plan, nil
}

// buildPlan resolves an instruction for every filled ward slot.
func buildPlan(runID string, a model.Assignment, r *instruction.Resolver) (model.Plan, error) {
	plan := model.Plan{RunID: runID, Groups: make([]model.PlannedGroup, 0, len(a))}
	for _, g := range a {
		pg := model.PlannedGroup{Escort: g.Escort}
		for _, w := range g.Wards() {
			text, err := r.ForParticipant(w)
			if err != nil {
				return model.Plan{}, err
			}
			pg.Wards = append(pg.Wards, model.PlannedWard{Participant: w, Instruction: text})
		}
		plan.Groups = append(plan.Groups, pg)
	}
	return plan, nil
}

// Describe renders the diagnostic text for a failure in the configured
// locale.
func (s *Service) Describe(f *failure.Failure) string {
	resolver, _, _, err := s.ready()
	if err != nil {
		return instruction.English().Describe(f)
	}
	return resolver.Catalog().Describe(f)
}

// MaxParticipants returns the configured roster cap.
func (s *Service) MaxParticipants() int { return s.maxParticipants }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"started":         s.started,
		"locale":          s.locale,
		"maxParticipants": s.maxParticipants,
		"runs":            s.runs.Load(),
		"successes":       s.successes.Load(),
		"failures":        s.failures.Load(),
	}
}
