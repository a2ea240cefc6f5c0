package record

import (
	"encoding/json"
)

type Row struct {
	Name   string
	Record *Record
}

// Dataset stacks records into rows. Its columns are the union of all record
// keys in first-seen order.
type Dataset struct {
	columns []string
	index   map[string]int

	rows []Row
}

func NewDataset() *Dataset {
	return &Dataset{
		index: make(map[string]int),
	}
}

func (d *Dataset) Append(name string, r *Record) {
	if r == nil {
		r = New()
	}

	for _, key := range r.keys {
		if _, ok := d.index[key]; ok {
			continue
		}

		d.index[key] = len(d.columns)
		d.columns = append(d.columns, key)
	}

	d.rows = append(d.rows, Row{
		Name:   name,
		Record: r,
	})
}

func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

func (d *Dataset) Rows() []Row {
	return append([]Row(nil), d.rows...)
}

func (d *Dataset) Len() int {
	return len(d.rows)
}

// Cell returns the value of column in row, or Missing when the row lacks it.
func (d *Dataset) Cell(row int, column string) Value {
	if row < 0 || row >= len(d.rows) {
		return Missing()
	}

	v, ok := d.rows[row].Record.Get(column)

	if !ok {
		return Missing()
	}

	return v
}

type datasetJSON struct {
	Columns []string  `json:"columns"`
	Rows    []rowJSON `json:"rows"`
}

type rowJSON struct {
	Name   string           `json:"name"`
	Values map[string]Value `json:"values"`
}

func (d *Dataset) MarshalJSON() ([]byte, error) {
	result := datasetJSON{
		Columns: d.Columns(),
		Rows:    []rowJSON{},
	}

	if result.Columns == nil {
		result.Columns = []string{}
	}

	for i, row := range d.rows {
		values := make(map[string]Value, len(d.columns))

		for _, c := range d.columns {
			values[c] = d.Cell(i, c)
		}

		result.Rows = append(result.Rows, rowJSON{
			Name:   row.Name,
			Values: values,
		})
	}

	return json.Marshal(result)
}
