package limiter

import (
	"context"

	"github.com/adrianliechti/payroll/pkg/analyzer"

	"golang.org/x/time/rate"
)

type Analyzer interface {
	Limiter
	analyzer.Provider
}

type limitedAnalyzer struct {
	limiter  *rate.Limiter
	provider analyzer.Provider
}

func NewAnalyzer(l *rate.Limiter, p analyzer.Provider) Analyzer {
	return &limitedAnalyzer{
		limiter:  l,
		provider: p,
	}
}

func (p *limitedAnalyzer) limiterSetup() {
}

func (p *limitedAnalyzer) Analyze(ctx context.Context, model string, file analyzer.File) (*analyzer.Result, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return p.provider.Analyze(ctx, model, file)
}
