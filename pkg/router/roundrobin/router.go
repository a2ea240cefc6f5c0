package roundrobin

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/adrianliechti/payroll/pkg/analyzer"
	"github.com/adrianliechti/payroll/pkg/router"
)

var _ analyzer.Provider = &Analyzer{}

// Analyzer spreads documents across equivalent analyzers, for example
// several Document Intelligence resources hosting the same models.
// Analyzers that keep failing are skipped until they recover.
type Analyzer struct {
	analyzers []analyzer.Provider
	stats     []*router.ProviderStats

	failureThreshold int
	recoveryTimeout  time.Duration
}

type Option func(*Analyzer)

func WithFailureThreshold(n int) Option {
	return func(a *Analyzer) {
		a.failureThreshold = n
	}
}

func WithRecoveryTimeout(d time.Duration) Option {
	return func(a *Analyzer) {
		a.recoveryTimeout = d
	}
}

func NewAnalyzer(analyzers []analyzer.Provider, options ...Option) (*Analyzer, error) {
	if len(analyzers) == 0 {
		return nil, errors.New("at least one analyzer is required")
	}

	a := &Analyzer{
		analyzers: analyzers,
		stats:     make([]*router.ProviderStats, len(analyzers)),

		failureThreshold: router.DefaultFailureThreshold,
		recoveryTimeout:  router.DefaultRecoveryTimeout,
	}

	for i := range a.stats {
		a.stats[i] = router.NewProviderStats()
	}

	for _, option := range options {
		option(a)
	}

	return a, nil
}

func (a *Analyzer) Analyze(ctx context.Context, model string, file analyzer.File) (*analyzer.Result, error) {
	index := a.selectAnalyzer()
	stats := a.stats[index]

	stats.AddInflight(1)
	defer stats.AddInflight(-1)

	t0 := time.Now()

	result, err := a.analyzers[index].Analyze(ctx, model, file)

	if err != nil {
		// rejected input and caller cancellation say nothing about the analyzer's health
		if !errors.Is(err, analyzer.ErrUnsupported) && ctx.Err() == nil {
			stats.RecordFailure(a.failureThreshold)
		}

		return nil, err
	}

	stats.RecordSuccess(time.Since(t0), 0.2)

	return result, nil
}

func (a *Analyzer) selectAnalyzer() int {
	candidates := make([]int, 0, len(a.analyzers))

	for i, s := range a.stats {
		if s.IsAvailable(a.recoveryTimeout) {
			candidates = append(candidates, i)
		}
	}

	if len(candidates) == 0 {
		return a.fallbackAnalyzer()
	}

	return candidates[rand.IntN(len(candidates))]
}

// fallbackAnalyzer probes the analyzer that failed longest ago when every circuit is open.
func (a *Analyzer) fallbackAnalyzer() int {
	best := 0

	var oldest time.Time

	for i, s := range a.stats {
		last := s.GetLastFailure()

		if i == 0 || last.Before(oldest) {
			oldest = last
			best = i
		}
	}

	a.stats[best].SetHalfOpen()

	return best
}
