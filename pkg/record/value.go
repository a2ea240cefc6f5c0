package record

import (
	"encoding/json"
	"strconv"
)

type Kind int

const (
	KindMissing Kind = iota
	KindNumber
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "missing"
	}
}

// Value is a single cell: a number, a text or nothing.
type Value struct {
	kind Kind

	number float64
	text   string
}

func Number(v float64) Value {
	return Value{kind: KindNumber, number: v}
}

func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

func Missing() Value {
	return Value{}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsMissing() bool {
	return v.kind == KindMissing
}

func (v Value) Float() (float64, bool) {
	return v.number, v.kind == KindNumber
}

func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

// String renders the cell the way it is written to a CSV file.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// Any returns float64, string or nil.
func (v Value) Any() any {
	switch v.kind {
	case KindNumber:
		return v.number
	case KindText:
		return v.text
	default:
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch val := raw.(type) {
	case float64:
		*v = Number(val)
	case string:
		*v = Text(val)
	default:
		*v = Missing()
	}

	return nil
}
