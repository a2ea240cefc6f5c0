package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adrianliechti/payroll/pkg/analyzer"
	"github.com/adrianliechti/payroll/pkg/extract"
	"github.com/adrianliechti/payroll/pkg/record"

	"github.com/stretchr/testify/require"
)

// mockAnalyzer answers with one string field per file, keyed by file name.
type mockAnalyzer struct {
	fields map[string]map[string]string
	fail   map[string]error
	delay  map[string]time.Duration

	calls   atomic.Int64
	active  atomic.Int64
	maxSeen atomic.Int64
}

func (m *mockAnalyzer) Analyze(ctx context.Context, model string, file analyzer.File) (*analyzer.Result, error) {
	m.calls.Add(1)

	n := m.active.Add(1)
	defer m.active.Add(-1)

	for {
		seen := m.maxSeen.Load()

		if n <= seen || m.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	if d := m.delay[file.Name]; d > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(d):
		}
	}

	if err := m.fail[file.Name]; err != nil {
		return nil, err
	}

	doc := analyzer.Document{
		Type: model,
	}

	for k, v := range m.fields[file.Name] {
		doc.Fields = append(doc.Fields, analyzer.Property{Name: k, Field: analyzer.StringField(v)})
	}

	return &analyzer.Result{
		ModelID:   model,
		Documents: []analyzer.Document{doc},
	}, nil
}

func files(names ...string) []analyzer.File {
	var result []analyzer.File

	for _, n := range names {
		result = append(result, analyzer.File{Name: n})
	}

	return result
}

func rowNames(d *record.Dataset) []string {
	var result []string

	for _, r := range d.Rows() {
		result = append(result, r.Name)
	}

	return result
}

func TestProcessUnionOfColumns(t *testing.T) {
	m := &mockAnalyzer{
		fields: map[string]map[string]string{
			"1.pdf": {"a": "1"},
			"2.pdf": {"b": "2"},
		},
	}

	p, err := New(m, extract.New(), "model")
	require.NoError(t, err)

	result, err := p.Process(context.Background(), files("1.pdf", "2.pdf"))
	require.NoError(t, err)

	require.NotEmpty(t, result.ID)
	require.Empty(t, result.Errors)

	d := result.Dataset

	require.Equal(t, []string{"a", "b"}, d.Columns())
	require.Equal(t, record.Number(1), d.Cell(0, "a"))
	require.True(t, d.Cell(0, "b").IsMissing())
	require.True(t, d.Cell(1, "a").IsMissing())
	require.Equal(t, record.Number(2), d.Cell(1, "b"))
}

func TestProcessFailureIsolation(t *testing.T) {
	failure := errors.New("service unavailable")

	m := &mockAnalyzer{
		fields: map[string]map[string]string{
			"1.pdf": {"a": "1"},
			"3.pdf": {"a": "3"},
		},
		fail: map[string]error{
			"2.pdf": failure,
		},
	}

	p, err := New(m, nil, "model")
	require.NoError(t, err)

	result, err := p.Process(context.Background(), files("1.pdf", "2.pdf", "3.pdf"))
	require.NoError(t, err)

	require.Equal(t, int64(3), m.calls.Load())
	require.Equal(t, []string{"1.pdf", "3.pdf"}, rowNames(result.Dataset))

	require.Len(t, result.Errors, 1)
	require.Equal(t, 1, result.Errors[0].Index)
	require.Equal(t, "2.pdf", result.Errors[0].Name)
	require.ErrorIs(t, result.Errors[0], ErrAnalysis)
	require.ErrorIs(t, result.Errors[0], failure)
	require.Contains(t, result.Errors[0].Error(), "2.pdf")
	require.Contains(t, result.Errors[0].Error(), "service unavailable")
}

func TestProcessAbortOnError(t *testing.T) {
	m := &mockAnalyzer{
		fail: map[string]error{
			"1.pdf": errors.New("boom"),
		},
	}

	p, err := New(m, nil, "model", WithAbortOnError(true))
	require.NoError(t, err)

	_, err = p.Process(context.Background(), files("1.pdf", "2.pdf", "3.pdf"))
	require.ErrorIs(t, err, ErrAnalysis)

	var docErr *DocumentError
	require.True(t, errors.As(err, &docErr))
	require.Equal(t, "1.pdf", docErr.Name)

	// sequential processing stops before the remaining documents
	require.Equal(t, int64(1), m.calls.Load())
}

func TestProcessOrderWithConcurrency(t *testing.T) {
	m := &mockAnalyzer{
		fields: map[string]map[string]string{
			"1.pdf": {"n": "1"},
			"2.pdf": {"n": "2"},
			"3.pdf": {"n": "3"},
			"4.pdf": {"n": "4"},
		},
		delay: map[string]time.Duration{
			"1.pdf": 40 * time.Millisecond,
			"2.pdf": 20 * time.Millisecond,
		},
	}

	p, err := New(m, nil, "model", WithConcurrency(4))
	require.NoError(t, err)

	result, err := p.Process(context.Background(), files("1.pdf", "2.pdf", "3.pdf", "4.pdf"))
	require.NoError(t, err)

	require.Equal(t, []string{"1.pdf", "2.pdf", "3.pdf", "4.pdf"}, rowNames(result.Dataset))

	for i := range 4 {
		require.Equal(t, record.Number(float64(i+1)), result.Dataset.Cell(i, "n"))
	}

	require.Greater(t, m.maxSeen.Load(), int64(1))
}

func TestProcessSequentialByDefault(t *testing.T) {
	m := &mockAnalyzer{
		delay: map[string]time.Duration{
			"1.pdf": 5 * time.Millisecond,
			"2.pdf": 5 * time.Millisecond,
			"3.pdf": 5 * time.Millisecond,
		},
	}

	p, err := New(m, nil, "model")
	require.NoError(t, err)

	_, err = p.Process(context.Background(), files("1.pdf", "2.pdf", "3.pdf"))
	require.NoError(t, err)

	require.Equal(t, int64(1), m.maxSeen.Load())
}

func TestProcessTimeout(t *testing.T) {
	m := &mockAnalyzer{
		fields: map[string]map[string]string{
			"fast.pdf": {"a": "1"},
		},
		delay: map[string]time.Duration{
			"slow.pdf": time.Hour,
		},
	}

	p, err := New(m, nil, "model", WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	result, err := p.Process(context.Background(), files("slow.pdf", "fast.pdf"))
	require.NoError(t, err)

	require.Equal(t, []string{"fast.pdf"}, rowNames(result.Dataset))
	require.Len(t, result.Errors, 1)
	require.ErrorIs(t, result.Errors[0], context.DeadlineExceeded)
}

func TestProcessCanceled(t *testing.T) {
	m := &mockAnalyzer{}

	p, err := New(m, nil, "model")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Process(ctx, files("1.pdf"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestProcessEmpty(t *testing.T) {
	p, err := New(&mockAnalyzer{}, nil, "model")
	require.NoError(t, err)

	result, err := p.Process(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 0, result.Dataset.Len())
}

func TestNewRequiresAnalyzer(t *testing.T) {
	_, err := New(nil, nil, "model")
	require.Error(t, err)
}

type brokenAnalyzer struct {
	panics bool
}

func (a *brokenAnalyzer) Analyze(ctx context.Context, model string, file analyzer.File) (*analyzer.Result, error) {
	if a.panics && file.Name == "2.pdf" {
		panic("malformed response")
	}

	if file.Name == "2.pdf" {
		return nil, nil
	}

	return &analyzer.Result{
		ModelID: model,
		Documents: []analyzer.Document{
			{Fields: []analyzer.Property{{Name: "a", Field: analyzer.StringField("1")}}},
		},
	}, nil
}

func TestProcessNilResult(t *testing.T) {
	p, err := New(&brokenAnalyzer{}, nil, "model")
	require.NoError(t, err)

	result, err := p.Process(context.Background(), files("1.pdf", "2.pdf", "3.pdf"))
	require.NoError(t, err)

	require.Equal(t, []string{"1.pdf", "3.pdf"}, rowNames(result.Dataset))
	require.Len(t, result.Errors, 1)
	require.Equal(t, "2.pdf", result.Errors[0].Name)
	require.ErrorIs(t, result.Errors[0], ErrEmptyResult)
}

func TestProcessAnalyzerPanic(t *testing.T) {
	p, err := New(&brokenAnalyzer{panics: true}, nil, "model", WithConcurrency(2))
	require.NoError(t, err)

	result, err := p.Process(context.Background(), files("1.pdf", "2.pdf", "3.pdf"))
	require.NoError(t, err)

	require.Equal(t, []string{"1.pdf", "3.pdf"}, rowNames(result.Dataset))
	require.Len(t, result.Errors, 1)
	require.Equal(t, 1, result.Errors[0].Index)
	require.ErrorContains(t, result.Errors[0], "malformed response")
}
