package extract

import (
	"errors"
	"strconv"

	"github.com/adrianliechti/payroll/pkg/analyzer"
	"github.com/adrianliechti/payroll/pkg/flatten"
	"github.com/adrianliechti/payroll/pkg/number"
	"github.com/adrianliechti/payroll/pkg/record"
)

var (
	ErrUnsupportedShape = errors.New("unsupported field shape")
)

type Extractor struct {
	format   number.Format
	observer Observer

	strict   bool
	maxDepth int
}

type Option func(*Extractor)

func WithFormat(f number.Format) Option {
	return func(e *Extractor) {
		e.format = f
	}
}

func WithObserver(o Observer) Option {
	return func(e *Extractor) {
		e.observer = o
	}
}

// WithStrictNumbers keeps tokens with a non-numeric suffix as text
// instead of parsing their numeric prefix.
func WithStrictNumbers(strict bool) Option {
	return func(e *Extractor) {
		e.strict = strict
	}
}

func WithMaxDepth(depth int) Option {
	return func(e *Extractor) {
		e.maxDepth = depth
	}
}

func New(options ...Option) *Extractor {
	e := &Extractor{
		format:   number.Default,
		maxDepth: flatten.DefaultDepth,
	}

	for _, option := range options {
		option(e)
	}

	if e.observer == nil {
		e.observer = func(Event) {}
	}

	return e
}

// Extract reduces an analyzer result to one flat record. It never fails:
// unsupported nodes are skipped and unparsable numbers are kept as text.
func (e *Extractor) Extract(result *analyzer.Result) *record.Record {
	r := record.New()

	if result == nil {
		return r
	}

	for i, doc := range result.Documents {
		e.observer(Event{
			Kind:     EventDocument,
			Document: i,
			Value:    doc.Type + " (" + strconv.FormatFloat(doc.Confidence, 'f', 2, 64) + ")",
		})

		for _, p := range doc.Fields {
			switch p.Field.Kind() {
			case analyzer.KindString:
				r.Set(p.Name, e.coerce(i, p.Name, *p.Field.String))

			case analyzer.KindObject:
				for _, entry := range flatten.FlattenDepth(p.Field.Object, p.Name+"_", e.maxDepth) {
					if entry.Value == nil {
						r.Set(entry.Key, record.Missing())
						continue
					}

					r.Set(entry.Key, e.coerce(i, entry.Key, *entry.Value))
				}

			default:
				e.observer(Event{
					Kind:     EventSkipped,
					Document: i,
					Field:    p.Name,
					Value:    p.Field.Type,
					Err:      ErrUnsupportedShape,
				})
			}
		}
	}

	return r
}

func (e *Extractor) coerce(doc int, key, s string) record.Value {
	if !e.format.IsNumeric(s) {
		e.observer(Event{
			Kind:     EventField,
			Document: doc,
			Field:    key,
			Value:    s,
		})

		return record.Text(s)
	}

	if e.format.Truncated(s) {
		e.observer(Event{
			Kind:     EventTruncated,
			Document: doc,
			Field:    key,
			Value:    s,
		})

		if e.strict {
			return record.Text(s)
		}
	}

	v, err := e.format.Parse(s)

	if err != nil {
		e.observer(Event{
			Kind:     EventFallback,
			Document: doc,
			Field:    key,
			Value:    s,
			Err:      err,
		})

		return record.Text(s)
	}

	e.observer(Event{
		Kind:     EventField,
		Document: doc,
		Field:    key,
		Value:    s,
	})

	return record.Number(v)
}
