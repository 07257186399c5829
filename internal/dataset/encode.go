package dataset

import (
	"github.com/sells-group/tradeflow-cli/internal/frame"
)

// EncodingTables maps each encoded column to its value→code table. Codes are
// assigned in first-seen order within a single run and are deliberately not
// persisted: a re-run over different data yields different codes, and the
// metadata document tells downstream consumers which columns carry per-run
// codes.
type EncodingTables map[string]map[string]int

// labelEncode assigns first-seen integer codes to a string column.
func labelEncode(cells []string) ([]int, map[string]int) {
	codes := make(map[string]int)
	out := make([]int, len(cells))
	for i, v := range cells {
		code, ok := codes[v]
		if !ok {
			code = len(codes)
			codes[v] = code
		}
		out[i] = code
	}
	return out, codes
}

// EncodeCategoricals replaces each listed column's values with integer codes
// in a single fit-and-apply pass, and returns the code tables.
func EncodeCategoricals(f *frame.Frame, columns []string) (EncodingTables, error) {
	tables := make(EncodingTables, len(columns))
	for _, col := range columns {
		cells, err := f.Column(col)
		if err != nil {
			return nil, err
		}
		encoded, codes := labelEncode(cells)
		if err := f.SetInts(col, encoded); err != nil {
			return nil, err
		}
		tables[col] = codes
	}
	return tables, nil
}
