package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// DefaultProbeTimeout bounds every probe.
const DefaultProbeTimeout = 5 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Probe is a named dependency check.
type Probe struct {
	Name    string
	Checker Checker
}

// Service coordinates health checks.
type Service struct {
	probes  []Probe
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a Service. Probes with a nil checker are skipped.
func New(logger *zap.Logger, probes ...Probe) *Service {
	kept := make([]Probe, 0, len(probes))
	for _, p := range probes {
		if p.Checker != nil {
			kept = append(kept, p)
		}
	}
	return &Service{probes: kept, timeout: DefaultProbeTimeout, logger: logger}
}

// Check runs every probe concurrently and aggregates the results.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.probes))
	var mu sync.Mutex

	// Probe errors are collected, not propagated: one failing probe must not cancel the rest.
	var g errgroup.Group
	for _, p := range s.probes {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			result := CheckOK
			if err := p.Checker.HealthCheck(pctx); err != nil {
				result = CheckError
				s.logger.Warn("Health probe failed", zap.String("probe", p.Name), zap.Error(err))
			}

			mu.Lock()
			checks[p.Name] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}

	status := Healthy
	switch {
	case failed == 0:
	case failed == len(checks):
		status = Unhealthy
	default:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
