package frame

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadXLSX reads the first sheet of an Excel workbook into a frame. The
// first row is the header. Short rows are padded with empty cells so every
// row matches the header width, which is how spreadsheet exports of the raw
// shipment dataset tend to arrive.
func ReadXLSX(path string) (*Frame, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "frame: open xlsx %s", path)
	}
	if len(file.Sheets) == 0 {
		return nil, eris.Errorf("frame: xlsx %s has no sheets", path)
	}

	sheet := file.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("frame: xlsx %s has no header row", path)
	}

	header := rowToStrings(sheet.Rows[0])
	f, err := New(header)
	if err != nil {
		return nil, err
	}

	for _, row := range sheet.Rows[1:] {
		cells := rowToStrings(row)
		for len(cells) < len(header) {
			cells = append(cells, "")
		}
		if len(cells) > len(header) {
			cells = cells[:len(header)]
		}
		if err := f.AppendRow(cells); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
