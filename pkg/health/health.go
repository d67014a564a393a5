// Package health aggregates dependency probes into readiness and liveness
// endpoints. Checks registered as critical gate readiness; non-critical
// checks only degrade the reported status.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status is the reported state of a component or of the service overall.
type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

// Check probes one dependency. A nil error means the dependency is up; the
// optional detail string is surfaced in the report either way.
type Check func(ctx context.Context) (detail string, err error)

// ComponentHealth is one component's entry in a Report.
type ComponentHealth struct {
	Status   Status `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Critical bool   `json:"critical"`
	Latency  string `json:"latency,omitempty"`
}

// Report aggregates all component checks.
type Report struct {
	Status     Status                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
	Timestamp  string                     `json:"timestamp"`
}

type registration struct {
	name     string
	critical bool
	check    Check
}

// Checker runs registered checks concurrently and aggregates the results.
type Checker struct {
	mu     sync.RWMutex
	checks []registration
}

// NewChecker creates an empty Checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Register adds a named check. Critical checks take readiness down with
// them; non-critical checks only mark the service degraded.
func (c *Checker) Register(name string, critical bool, check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks = append(c.checks, registration{name: name, critical: critical, check: check})
}

type checkResult struct {
	name   string
	health ComponentHealth
}

// Run executes every check concurrently and returns the aggregate Report:
// down if any critical check failed, degraded if any other check failed, up
// otherwise.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	regs := make([]registration, len(c.checks))
	copy(regs, c.checks)
	c.mu.RUnlock()

	results := make(chan checkResult, len(regs))
	for _, reg := range regs {
		go func(reg registration) {
			start := time.Now()
			detail, err := reg.check(ctx)
			entry := ComponentHealth{
				Status:   StatusUp,
				Detail:   detail,
				Critical: reg.critical,
				Latency:  time.Since(start).Round(time.Millisecond).String(),
			}
			if err != nil {
				entry.Status = StatusDown
				entry.Detail = err.Error()
			}
			results <- checkResult{name: reg.name, health: entry}
		}(reg)
	}

	report := Report{
		Status:     StatusUp,
		Components: make(map[string]ComponentHealth, len(regs)),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
	for range regs {
		res := <-results
		report.Components[res.name] = res.health
		if res.health.Status == StatusDown {
			if res.health.Critical {
				report.Status = StatusDown
			} else if report.Status == StatusUp {
				report.Status = StatusDegraded
			}
		}
	}
	return report
}

// PingCheck adapts a ping-style probe (Redis PING, Postgres PingContext)
// into a Check.
func PingCheck(ping func(ctx context.Context) error) Check {
	return func(ctx context.Context) (string, error) {
		return "", ping(ctx)
	}
}

// StaticCheck reports a fixed detail and never fails. Used for state known
// without probing, such as a completed index build.
func StaticCheck(detail string) Check {
	return func(ctx context.Context) (string, error) {
		return detail, nil
	}
}

// LiveHandler serves liveness probes: the process is running.
func (c *Checker) LiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
	}
}

// ReadyHandler serves readiness probes. Degraded still reports ready; only a
// failed critical check returns 503.
func (c *Checker) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		report := c.Run(ctx)
		w.Header().Set("Content-Type", "application/json")
		if report.Status == StatusDown {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(report)
	}
}
