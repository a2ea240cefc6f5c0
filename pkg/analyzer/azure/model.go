package azure

import (
	"bytes"
	"encoding/json"
	"errors"
)

type OperationStatus string

const (
	OperationStatusSucceeded  OperationStatus = "succeeded"
	OperationStatusRunning    OperationStatus = "running"
	OperationStatusNotStarted OperationStatus = "notStarted"
	OperationStatusFailed     OperationStatus = "failed"
	OperationStatusCanceled   OperationStatus = "canceled"
)

type AnalyzeOperation struct {
	Status OperationStatus `json:"status"`

	Error *Error `json:"error,omitempty"`

	Result *AnalyzeResult `json:"analyzeResult,omitempty"`
}

type AnalyzeResult struct {
	APIVersion string `json:"apiVersion,omitempty"`
	ModelID    string `json:"modelId"`

	Content string `json:"content,omitempty"`

	Documents []Document `json:"documents"`
}

type Document struct {
	DocType    string  `json:"docType"`
	Confidence float64 `json:"confidence"`

	Fields Fields `json:"fields"`

	Spans []Span `json:"spans,omitempty"`
}

type DocumentField struct {
	Type string `json:"type"`

	Content string `json:"content,omitempty"`

	ValueString *string         `json:"valueString,omitempty"`
	ValueNumber *float64        `json:"valueNumber,omitempty"`
	ValueObject Fields          `json:"valueObject,omitempty"`
	ValueArray  []DocumentField `json:"valueArray,omitempty"`

	Confidence float64 `json:"confidence"`

	Spans []Span `json:"spans,omitempty"`
}

type Span struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	Innererror *Error `json:"innererror,omitempty"`
}

func (e *Error) Error() string {
	if e.Innererror != nil && e.Innererror.Message != "" {
		return e.Code + ": " + e.Message + " (" + e.Innererror.Message + ")"
	}

	return e.Code + ": " + e.Message
}

// Fields is a JSON object of named fields decoded in document order.
type Fields []NamedField

type NamedField struct {
	Name  string
	Field DocumentField
}

func (f *Fields) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()

	if err != nil {
		return err
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("fields: expected object")
	}

	var result Fields

	for dec.More() {
		tok, err := dec.Token()

		if err != nil {
			return err
		}

		name, ok := tok.(string)

		if !ok {
			return errors.New("fields: expected key")
		}

		var field DocumentField

		if err := dec.Decode(&field); err != nil {
			return err
		}

		result = append(result, NamedField{
			Name:  name,
			Field: field,
		})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*f = result

	return nil
}

func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(field.Name)

		if err != nil {
			return nil, err
		}

		val, err := json.Marshal(field.Field)

		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
