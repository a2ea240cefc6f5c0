package roundrobin

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adrianliechti/payroll/pkg/analyzer"
	"github.com/adrianliechti/payroll/pkg/router"

	"github.com/stretchr/testify/require"
)

type mockAnalyzer struct {
	err   error
	calls atomic.Int64
}

func (m *mockAnalyzer) Analyze(ctx context.Context, model string, file analyzer.File) (*analyzer.Result, error) {
	m.calls.Add(1)

	if m.err != nil {
		return nil, m.err
	}

	return &analyzer.Result{ModelID: model}, nil
}

func TestNewAnalyzerRequiresAnalyzers(t *testing.T) {
	_, err := NewAnalyzer(nil)
	require.Error(t, err)
}

func TestAnalyzeDistributes(t *testing.T) {
	a1 := &mockAnalyzer{}
	a2 := &mockAnalyzer{}

	a, err := NewAnalyzer([]analyzer.Provider{a1, a2})
	require.NoError(t, err)

	for range 100 {
		result, err := a.Analyze(context.Background(), "rulex_new_2023-2024", analyzer.File{Name: "a.pdf"})
		require.NoError(t, err)
		require.Equal(t, "rulex_new_2023-2024", result.ModelID)
	}

	require.Equal(t, int64(100), a1.calls.Load()+a2.calls.Load())
	require.Positive(t, a1.calls.Load())
	require.Positive(t, a2.calls.Load())
}

func TestAnalyzeOpensCircuit(t *testing.T) {
	failing := &mockAnalyzer{err: errors.New("service unavailable")}
	healthy := &mockAnalyzer{}

	a, err := NewAnalyzer([]analyzer.Provider{failing, healthy}, WithFailureThreshold(1), WithRecoveryTimeout(time.Hour))
	require.NoError(t, err)

	for failing.calls.Load() == 0 {
		a.Analyze(context.Background(), "model", analyzer.File{})
	}

	require.Equal(t, router.CircuitOpen, a.stats[0].State())

	before := failing.calls.Load()

	for range 20 {
		_, err := a.Analyze(context.Background(), "model", analyzer.File{})
		require.NoError(t, err)
	}

	require.Equal(t, before, failing.calls.Load())
}

func TestAnalyzeIgnoresUnsupported(t *testing.T) {
	m := &mockAnalyzer{err: analyzer.ErrUnsupported}

	a, err := NewAnalyzer([]analyzer.Provider{m}, WithFailureThreshold(1))
	require.NoError(t, err)

	_, err = a.Analyze(context.Background(), "model", analyzer.File{})
	require.ErrorIs(t, err, analyzer.ErrUnsupported)

	require.Equal(t, router.CircuitClosed, a.stats[0].State())
}

func TestAnalyzeFallback(t *testing.T) {
	m := &mockAnalyzer{err: errors.New("down")}

	a, err := NewAnalyzer([]analyzer.Provider{m}, WithFailureThreshold(1), WithRecoveryTimeout(time.Hour))
	require.NoError(t, err)

	for range 3 {
		_, err := a.Analyze(context.Background(), "model", analyzer.File{})
		require.Error(t, err)
	}

	require.Equal(t, int64(3), m.calls.Load())

	m.err = nil

	_, err = a.Analyze(context.Background(), "model", analyzer.File{})
	require.NoError(t, err)

	require.Equal(t, router.CircuitClosed, a.stats[0].State())
}
