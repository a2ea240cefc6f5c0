package export

import (
	"github.com/adrianliechti/payroll/pkg/record"

	"github.com/xuri/excelize/v2"
)

const (
	ExcelName        = "processed_data.xlsx"
	ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func exportExcel(d *record.Dataset) (*Output, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	columns := d.Columns()

	for j, c := range columns {
		if err := setCell(f, sheet, j+2, 1, c); err != nil {
			return nil, err
		}
	}

	for i, row := range d.Rows() {
		if err := setCell(f, sheet, 1, i+2, row.Name); err != nil {
			return nil, err
		}

		for j, c := range columns {
			v := d.Cell(i, c)

			if v.IsMissing() {
				continue
			}

			if err := setCell(f, sheet, j+2, i+2, v.Any()); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()

	if err != nil {
		return nil, err
	}

	return &Output{
		Name: ExcelName,

		Content:     buf.Bytes(),
		ContentType: ExcelContentType,
	}, nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)

	if err != nil {
		return err
	}

	return f.SetCellValue(sheet, cell, value)
}
