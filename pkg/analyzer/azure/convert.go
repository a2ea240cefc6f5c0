package azure

import (
	"github.com/adrianliechti/payroll/pkg/analyzer"
)

func convertResult(r *AnalyzeResult) *analyzer.Result {
	result := &analyzer.Result{
		ModelID: r.ModelID,

		Documents: []analyzer.Document{},
	}

	for _, d := range r.Documents {
		result.Documents = append(result.Documents, analyzer.Document{
			Type:       d.DocType,
			Confidence: d.Confidence,

			Fields: convertFields(d.Fields),
		})
	}

	return result
}

func convertFields(fields Fields) []analyzer.Property {
	if len(fields) == 0 {
		return nil
	}

	result := make([]analyzer.Property, 0, len(fields))

	for _, f := range fields {
		result = append(result, analyzer.Property{
			Name:  f.Name,
			Field: convertField(f.Field),
		})
	}

	return result
}

// Only string and object values are carried over; every other value type
// surfaces as a field without a value.
func convertField(f DocumentField) analyzer.Field {
	field := analyzer.Field{
		Type: f.Type,

		Confidence: f.Confidence,
	}

	if f.ValueString != nil {
		val := *f.ValueString
		field.String = &val
	}

	if len(f.ValueObject) > 0 {
		field.Object = convertFields(f.ValueObject)
	}

	for _, s := range f.Spans {
		field.Spans = append(field.Spans, analyzer.Span{
			Offset: s.Offset,
			Length: s.Length,
		})
	}

	return field
}
