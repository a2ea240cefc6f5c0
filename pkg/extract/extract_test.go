package extract

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/adrianliechti/payroll/pkg/analyzer"
	"github.com/adrianliechti/payroll/pkg/number"
	"github.com/adrianliechti/payroll/pkg/record"

	"github.com/stretchr/testify/require"
)

func prop(name string, f analyzer.Field) analyzer.Property {
	return analyzer.Property{Name: name, Field: f}
}

func result(props ...analyzer.Property) *analyzer.Result {
	return &analyzer.Result{
		ModelID: "test",

		Documents: []analyzer.Document{
			{
				Type:       "payslip",
				Confidence: 0.9,

				Fields: props,
			},
		},
	}
}

type recorder struct {
	events []Event
}

func (r *recorder) observe(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) kinds(kind EventKind) []Event {
	var result []Event

	for _, e := range r.events {
		if e.Kind == kind {
			result = append(result, e)
		}
	}

	return result
}

func TestExtractStringLeaves(t *testing.T) {
	e := New()

	r := e.Extract(result(
		prop("Name", analyzer.StringField("abc")),
		prop("Gross", analyzer.StringField("1.234,56abc")),
		prop("Hours", analyzer.StringField("42")),
	))

	require.Equal(t, []string{"Name", "Gross", "Hours"}, r.Keys())

	name, _ := r.Get("Name")
	require.Equal(t, record.Text("abc"), name)

	gross, _ := r.Get("Gross")
	require.Equal(t, record.Number(1234.56), gross)

	hours, _ := r.Get("Hours")
	require.Equal(t, record.Number(42), hours)
}

func TestExtractObjectField(t *testing.T) {
	e := New()

	r := e.Extract(result(
		prop("Deductions", analyzer.ObjectField(
			prop("AHV", analyzer.ObjectField(
				prop("Rate", analyzer.StringField("5,3")),
				prop("Code", analyzer.StringField("A1")),
				prop("Amount", analyzer.Field{Type: "currency"}),
			)),
		)),
	))

	require.Equal(t, []string{"Deductions_AHV_Rate", "Deductions_AHV_Code", "Deductions_AHV_Amount"}, r.Keys())

	rate, _ := r.Get("Deductions_AHV_Rate")
	require.Equal(t, record.Number(5.3), rate)

	code, _ := r.Get("Deductions_AHV_Code")
	require.Equal(t, record.Text("A1"), code)

	amount, ok := r.Get("Deductions_AHV_Amount")
	require.True(t, ok)
	require.True(t, amount.IsMissing())
}

func TestExtractSkipsUnsupported(t *testing.T) {
	rec := &recorder{}
	e := New(WithObserver(rec.observe))

	r := e.Extract(result(
		prop("Name", analyzer.StringField("Muster")),
		prop("Items", analyzer.Field{Type: "array"}),
	))

	require.Equal(t, []string{"Name"}, r.Keys())

	skipped := rec.kinds(EventSkipped)

	require.Len(t, skipped, 1)
	require.Equal(t, "Items", skipped[0].Field)
	require.True(t, errors.Is(skipped[0].Err, ErrUnsupportedShape))
}

func TestExtractFallback(t *testing.T) {
	rec := &recorder{}
	e := New(WithObserver(rec.observe))

	r := e.Extract(result(
		prop("Separator", analyzer.StringField(",")),
		prop("Broken", analyzer.StringField("1,2,3")),
	))

	sep, _ := r.Get("Separator")
	require.Equal(t, record.Text(","), sep)

	broken, _ := r.Get("Broken")
	require.Equal(t, record.Text("1,2,3"), broken)

	fallbacks := rec.kinds(EventFallback)

	require.Len(t, fallbacks, 2)
	require.True(t, errors.Is(fallbacks[0].Err, number.ErrInvalidFormat))
}

func TestExtractTruncation(t *testing.T) {
	rec := &recorder{}

	lenient := New(WithObserver(rec.observe)).Extract(result(prop("Weight", analyzer.StringField("12kg"))))

	v, _ := lenient.Get("Weight")
	require.Equal(t, record.Number(12), v)
	require.Len(t, rec.kinds(EventTruncated), 1)

	rec = &recorder{}

	strict := New(WithStrictNumbers(true), WithObserver(rec.observe)).Extract(result(prop("Weight", analyzer.StringField("12kg"))))

	v, _ = strict.Get("Weight")
	require.Equal(t, record.Text("12kg"), v)

	truncated := rec.kinds(EventTruncated)
	require.Len(t, truncated, 1)
	require.Equal(t, "Weight", truncated[0].Field)
}

func TestExtractFormat(t *testing.T) {
	e := New(WithFormat(number.Format{Thousands: ",", Decimal: "."}))

	r := e.Extract(result(prop("Total", analyzer.StringField("1,234.56"))))

	v, _ := r.Get("Total")
	require.Equal(t, record.Number(1234.56), v)
}

func TestExtractEmpty(t *testing.T) {
	e := New()

	require.Equal(t, 0, e.Extract(nil).Len())
	require.Equal(t, 0, e.Extract(&analyzer.Result{}).Len())
}

func TestExtractMultipleDocuments(t *testing.T) {
	e := New()

	r := e.Extract(&analyzer.Result{
		Documents: []analyzer.Document{
			{Fields: []analyzer.Property{
				prop("a", analyzer.StringField("1")),
				prop("b", analyzer.StringField("x")),
			}},
			{Fields: []analyzer.Property{
				prop("c", analyzer.StringField("3")),
				prop("a", analyzer.StringField("2")),
			}},
		},
	})

	require.Equal(t, []string{"a", "b", "c"}, r.Keys())

	a, _ := r.Get("a")
	require.Equal(t, record.Number(2), a)
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	e := New(WithObserver(LogObserver(logger)))
	e.Extract(result(
		prop("Name", analyzer.StringField("Muster")),
		prop("Items", analyzer.Field{Type: "array"}),
	))

	require.Contains(t, buf.String(), "extract skipped")
	require.Contains(t, buf.String(), "field=Items")
	require.NotContains(t, buf.String(), "field=Name")
}
