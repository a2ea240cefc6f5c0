package export

import (
	"bytes"
	"encoding/csv"

	"github.com/adrianliechti/payroll/pkg/record"
)

const (
	CSVName        = "processed_data.csv"
	CSVContentType = "text/csv"
)

// The first column holds the row names, its header cell is empty.
func exportCSV(d *record.Dataset) (*Output, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)

	columns := d.Columns()

	if err := w.Write(append([]string{""}, columns...)); err != nil {
		return nil, err
	}

	for i, row := range d.Rows() {
		line := make([]string, 0, len(columns)+1)
		line = append(line, row.Name)

		for _, c := range columns {
			line = append(line, d.Cell(i, c).String())
		}

		if err := w.Write(line); err != nil {
			return nil, err
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, err
	}

	return &Output{
		Name: CSVName,

		Content:     buf.Bytes(),
		ContentType: CSVContentType,
	}, nil
}
