package router

import (
	"sync"
	"sync/atomic"
	"time"
)

type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

const (
	DefaultFailureThreshold = 3
	DefaultRecoveryTimeout  = 30 * time.Second
)

// ProviderStats tracks the health of a single analyzer behind a router.
type ProviderStats struct {
	mu sync.RWMutex

	avgLatency    time.Duration
	totalRequests int64
	totalFailures int64

	inflight atomic.Int64

	state               CircuitState
	consecutiveFailures int
	lastFailure         time.Time
}

func NewProviderStats() *ProviderStats {
	return &ProviderStats{
		state: CircuitClosed,
	}
}

// IsAvailable reports whether the provider may take a request. An open
// circuit moves to half-open once the recovery timeout has passed.
func (s *ProviderStats) IsAvailable(recoveryTimeout time.Duration) bool {
	s.mu.RLock()
	state := s.state
	lastFailure := s.lastFailure
	s.mu.RUnlock()

	switch state {
	case CircuitOpen:
		if time.Since(lastFailure) < recoveryTimeout {
			return false
		}

		s.mu.Lock()

		if s.state == CircuitOpen {
			s.state = CircuitHalfOpen
		}

		s.mu.Unlock()

		return true

	case CircuitHalfOpen:
		// a single probe request at a time
		return s.inflight.Load() == 0

	default:
		return true
	}
}

func (s *ProviderStats) State() CircuitState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

func (s *ProviderStats) GetMetrics() (state CircuitState, avgLatency time.Duration, totalRequests, totalFailures int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state, s.avgLatency, s.totalRequests, s.totalFailures
}

// RecordSuccess closes the circuit and folds latency into an exponential
// moving average weighted by alpha.
func (s *ProviderStats) RecordSuccess(latency time.Duration, alpha float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalRequests++
	s.consecutiveFailures = 0

	if s.totalRequests == 1 || s.avgLatency == 0 {
		s.avgLatency = latency
	} else {
		s.avgLatency = time.Duration(float64(latency)*alpha + float64(s.avgLatency)*(1-alpha))
	}

	s.state = CircuitClosed
}

func (s *ProviderStats) RecordFailure(failureThreshold int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalRequests++
	s.totalFailures++
	s.consecutiveFailures++
	s.lastFailure = time.Now()

	if s.state == CircuitHalfOpen || s.consecutiveFailures >= failureThreshold {
		s.state = CircuitOpen
	}
}

func (s *ProviderStats) GetLastFailure() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastFailure
}

func (s *ProviderStats) SetHalfOpen() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = CircuitHalfOpen
}

func (s *ProviderStats) AddInflight(delta int64) int64 {
	return s.inflight.Add(delta)
}
