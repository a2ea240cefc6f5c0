package export

import (
	"errors"
	"strings"

	"github.com/adrianliechti/payroll/pkg/record"
)

type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

type Output struct {
	Name string

	Content     []byte
	ContentType string
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil

	case "excel", "xlsx":
		return FormatExcel, nil
	}

	return "", ErrUnsupportedFormat
}

func Export(d *record.Dataset, format Format) (*Output, error) {
	if d == nil {
		d = record.NewDataset()
	}

	switch format {
	case FormatCSV:
		return exportCSV(d)

	case FormatExcel:
		return exportExcel(d)
	}

	return nil, ErrUnsupportedFormat
}
