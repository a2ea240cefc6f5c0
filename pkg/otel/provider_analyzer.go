package otel

import (
	"context"
	"time"

	"github.com/adrianliechti/payroll/pkg/analyzer"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type Analyzer interface {
	Observable
	analyzer.Provider
}

type observableAnalyzer struct {
	provider string

	analyzer analyzer.Provider

	documentsMetric metric.Int64Counter
	durationMetric  metric.Float64Histogram
}

func NewAnalyzer(provider string, p analyzer.Provider) Analyzer {
	meter := otel.Meter(instrumentationName)

	documentsMetric, _ := meter.Int64Counter("payroll.analyzer.documents",
		metric.WithDescription("Number of analyzed documents"),
		metric.WithUnit("{document}"),
	)

	durationMetric, _ := meter.Float64Histogram("payroll.analyzer.duration",
		metric.WithDescription("Duration of document analysis"),
		metric.WithUnit("s"),
	)

	return &observableAnalyzer{
		analyzer: p,

		provider: provider,

		documentsMetric: documentsMetric,
		durationMetric:  durationMetric,
	}
}

func (p *observableAnalyzer) otelSetup() {
}

func (p *observableAnalyzer) Analyze(ctx context.Context, model string, file analyzer.File) (*analyzer.Result, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "analyze "+model, trace.WithAttributes(
		attribute.String("analyzer.provider", p.provider),
		attribute.String("analyzer.model", model),
		attribute.String("document.name", file.Name),
		attribute.Int("document.size", len(file.Content)),
	))
	defer span.End()

	timestamp := time.Now()

	result, err := p.analyzer.Analyze(ctx, model, file)

	status := "ok"

	if err != nil {
		status = "error"

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	attrs := metric.WithAttributes(KeyValues([]KeyValue{
		String("analyzer.provider", p.provider),
		String("analyzer.model", model),
		String("status", status),
	}, EndUserAttrs(ctx))...)

	if p.documentsMetric != nil {
		p.documentsMetric.Add(ctx, 1, attrs)
	}

	if p.durationMetric != nil {
		p.durationMetric.Record(ctx, time.Since(timestamp).Seconds(), attrs)
	}

	return result, err
}
