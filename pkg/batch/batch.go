package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/adrianliechti/payroll/pkg/analyzer"
	"github.com/adrianliechti/payroll/pkg/extract"
	"github.com/adrianliechti/payroll/pkg/record"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrAnalysis    = errors.New("analysis failed")
	ErrEmptyResult = errors.New("analyzer returned no result")
)

type Processor struct {
	analyzer  analyzer.Provider
	extractor *extract.Extractor

	model string

	timeout     time.Duration
	concurrency int
	abort       bool

	logger *slog.Logger
}

type Option func(*Processor)

// WithTimeout bounds every analyzer call. Zero means no limit.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Processor) {
		p.timeout = timeout
	}
}

// WithConcurrency sets how many documents are analyzed at once.
// Rows keep the input order regardless.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		p.concurrency = n
	}
}

// WithAbortOnError stops the batch at the first failed document.
func WithAbortOnError(abort bool) Option {
	return func(p *Processor) {
		p.abort = abort
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

func New(a analyzer.Provider, e *extract.Extractor, model string, options ...Option) (*Processor, error) {
	if a == nil {
		return nil, errors.New("missing analyzer")
	}

	if e == nil {
		e = extract.New()
	}

	p := &Processor{
		analyzer:  a,
		extractor: e,

		model: model,

		concurrency: 1,
	}

	for _, option := range options {
		option(p)
	}

	if p.concurrency < 1 {
		p.concurrency = 1
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p, nil
}

type Result struct {
	ID string

	Dataset *record.Dataset
	Errors  []*DocumentError
}

// DocumentError reports a document whose analysis failed.
type DocumentError struct {
	Index int
	Name  string

	Err error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %d (%s): %s: %v", e.Index, e.Name, ErrAnalysis, e.Err)
}

func (e *DocumentError) Unwrap() []error {
	return []error{ErrAnalysis, e.Err}
}

type outcome struct {
	record *record.Record
	err    error
}

// Process analyzes files and merges one row per successful document, in input order.
// Failed documents are listed in Result.Errors and have no row. With abort enabled,
// the first failure is returned as error instead.
func (p *Processor) Process(ctx context.Context, files []analyzer.File) (*Result, error) {
	id := uuid.NewString()
	logger := p.logger.With("batch", id, "model", p.model)

	outcomes := make([]outcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, file := range files {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i] = outcome{err: err}
				return nil
			}

			r, err := p.safeProcessFile(gctx, logger, i, file)

			outcomes[i] = outcome{
				record: r,
				err:    err,
			}

			if err != nil && p.abort {
				return &DocumentError{Index: i, Name: file.Name, Err: err}
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{
		ID: id,

		Dataset: record.NewDataset(),
	}

	for i, o := range outcomes {
		if o.err != nil {
			result.Errors = append(result.Errors, &DocumentError{
				Index: i,
				Name:  files[i].Name,
				Err:   o.err,
			})

			continue
		}

		result.Dataset.Append(files[i].Name, o.record)
	}

	logger.Info("batch processed", "documents", len(files), "rows", result.Dataset.Len(), "errors", len(result.Errors))

	return result, nil
}

// safeProcessFile turns a panicking analyzer into a failure of the single document.
func (p *Processor) safeProcessFile(ctx context.Context, logger *slog.Logger, index int, file analyzer.File) (r *record.Record, err error) {
	defer func() {
		if v := recover(); v != nil {
			logger.Error("document analysis panicked", "document", index, "file", file.Name, "panic", v)
			err = fmt.Errorf("analyzer panic: %v", v)
		}
	}()

	return p.processFile(ctx, logger, index, file)
}

func (p *Processor) processFile(ctx context.Context, logger *slog.Logger, index int, file analyzer.File) (*record.Record, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	logger = logger.With("document", index, "file", file.Name)
	logger.Debug("analyzing document")

	t0 := time.Now()

	result, err := p.analyzer.Analyze(ctx, p.model, file)

	if err != nil {
		logger.Error("document analysis failed", "error", err)
		return nil, err
	}

	if result == nil {
		logger.Error("document analysis failed", "error", ErrEmptyResult)
		return nil, ErrEmptyResult
	}

	logger.Info("document analyzed", "duration", time.Since(t0).Round(time.Millisecond), "documents", len(result.Documents))

	return p.extractor.Extract(result), nil
}
