package analyzer

import (
	"context"
	"errors"
)

type Provider interface {
	Analyze(ctx context.Context, model string, file File) (*Result, error)
}

var (
	ErrUnsupported = errors.New("unsupported type")
)

type File struct {
	Name string

	Content     []byte
	ContentType string
}

type Result struct {
	ModelID string

	Documents []Document
}

type Document struct {
	Type       string
	Confidence float64

	Fields []Property
}

type Property struct {
	Name  string
	Field Field
}

type Kind string

const (
	KindString      Kind = "string"
	KindObject      Kind = "object"
	KindUnsupported Kind = "unsupported"
)

type Field struct {
	Type string

	String *string
	Object []Property

	Confidence float64

	Spans []Span
}

type Span struct {
	Offset int
	Length int
}

// Kind classifies a node. A string value wins over an object value.
func (f Field) Kind() Kind {
	if f.String != nil {
		return KindString
	}

	if len(f.Object) > 0 {
		return KindObject
	}

	return KindUnsupported
}

func StringField(s string) Field {
	return Field{
		Type:   "string",
		String: &s,
	}
}

func ObjectField(props ...Property) Field {
	return Field{
		Type:   "object",
		Object: props,
	}
}
