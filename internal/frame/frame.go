// Package frame provides the ordered, column-major table every pipeline
// stage mutates in place. Cells are stored as strings so a frame round-trips
// exactly through CSV; numeric stages parse and re-format columns on demand.
package frame

import (
	"strconv"

	"github.com/rotisserie/eris"
)

// Frame is an in-memory table with named, ordered columns.
type Frame struct {
	cols []string
	idx  map[string]int
	data [][]string // column-major; data[i] belongs to cols[i]
}

// New creates an empty frame with the given column order. Column names must
// be unique.
func New(columns []string) (*Frame, error) {
	f := &Frame{
		cols: append([]string(nil), columns...),
		idx:  make(map[string]int, len(columns)),
		data: make([][]string, len(columns)),
	}
	for i, c := range columns {
		if _, dup := f.idx[c]; dup {
			return nil, eris.Errorf("frame: duplicate column %q", c)
		}
		f.idx[c] = i
	}
	return f, nil
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.cols...)
}

// NumRows returns the row count.
func (f *Frame) NumRows() int {
	if len(f.data) == 0 {
		return 0
	}
	return len(f.data[0])
}

// NumCols returns the column count.
func (f *Frame) NumCols() int { return len(f.cols) }

// Has reports whether the frame contains the named column.
func (f *Frame) Has(name string) bool {
	_, ok := f.idx[name]
	return ok
}

// AppendRow adds one row. The row length must match the column count.
func (f *Frame) AppendRow(row []string) error {
	if len(row) != len(f.cols) {
		return eris.Errorf("frame: row has %d cells, frame has %d columns", len(row), len(f.cols))
	}
	for i, cell := range row {
		f.data[i] = append(f.data[i], cell)
	}
	return nil
}

// Column returns the raw string cells of a column. The returned slice is the
// frame's backing storage; callers that mutate it mutate the frame.
func (f *Frame) Column(name string) ([]string, error) {
	i, ok := f.idx[name]
	if !ok {
		return nil, eris.Errorf("frame: no column %q", name)
	}
	return f.data[i], nil
}

// Floats parses a column as float64.
func (f *Frame) Floats(name string) ([]float64, error) {
	cells, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(cells))
	for i, cell := range cells {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "frame: column %q row %d is not numeric", name, i)
		}
		out[i] = v
	}
	return out, nil
}

// Ints parses a column as int.
func (f *Frame) Ints(name string) ([]int, error) {
	cells, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(cells))
	for i, cell := range cells {
		v, err := strconv.Atoi(cell)
		if err != nil {
			return nil, eris.Wrapf(err, "frame: column %q row %d is not an integer", name, i)
		}
		out[i] = v
	}
	return out, nil
}

// SetColumn replaces an existing column's cells, or appends a new column at
// the end if the name is unknown. The value count must match the row count
// unless the frame is empty.
func (f *Frame) SetColumn(name string, cells []string) error {
	if n := f.NumRows(); f.NumCols() > 0 && len(cells) != n {
		return eris.Errorf("frame: column %q has %d cells, frame has %d rows", name, len(cells), n)
	}
	if i, ok := f.idx[name]; ok {
		f.data[i] = cells
		return nil
	}
	f.idx[name] = len(f.cols)
	f.cols = append(f.cols, name)
	f.data = append(f.data, cells)
	return nil
}

// SetFloats stores float values into a column using the shortest exact
// decimal representation.
func (f *Frame) SetFloats(name string, values []float64) error {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return f.SetColumn(name, cells)
}

// SetInts stores integer values into a column.
func (f *Frame) SetInts(name string, values []int) error {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = strconv.Itoa(v)
	}
	return f.SetColumn(name, cells)
}

// Drop removes the named columns. Unknown names are errors.
func (f *Frame) Drop(names ...string) error {
	for _, name := range names {
		i, ok := f.idx[name]
		if !ok {
			return eris.Errorf("frame: no column %q", name)
		}
		f.cols = append(f.cols[:i], f.cols[i+1:]...)
		f.data = append(f.data[:i], f.data[i+1:]...)
		delete(f.idx, name)
		for j := i; j < len(f.cols); j++ {
			f.idx[f.cols[j]] = j
		}
	}
	return nil
}

// Select returns a new frame holding copies of the named columns, in the
// given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	out, err := New(names)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		src, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		i := out.idx[name]
		out.data[i] = append([]string(nil), src...)
	}
	return out, nil
}

// Row materializes one row in column order.
func (f *Frame) Row(i int) ([]string, error) {
	if i < 0 || i >= f.NumRows() {
		return nil, eris.Errorf("frame: row %d out of range (%d rows)", i, f.NumRows())
	}
	row := make([]string, len(f.cols))
	for j := range f.cols {
		row[j] = f.data[j][i]
	}
	return row, nil
}

// Missing returns the subset of required column names absent from the frame.
func (f *Frame) Missing(required []string) []string {
	var missing []string
	for _, name := range required {
		if !f.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}
