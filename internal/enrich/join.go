package enrich

import (
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tradeflow-cli/internal/dataset"
	"github.com/sells-group/tradeflow-cli/internal/frame"
)

// Columns added by the enrichment join.
var (
	originColumns = []string{
		"Origin_LPI_Overall", "Origin_LPI_Customs", "Origin_LPI_Infrastructure",
		"Origin_LPI_Logistics", "Origin_LPI_Tracking", "Origin_LPI_Timeliness",
	}
	destColumns = []string{
		"Destination_LPI_Overall", "Destination_LPI_Customs", "Destination_LPI_Infrastructure",
		"Destination_LPI_Logistics", "Destination_LPI_Tracking", "Destination_LPI_Timeliness",
	}
	routeColumns = []string{
		"Route_LPI_Average", "Route_LPI_Difference",
		"Route_Customs_LPI_Average", "Route_Infrastructure_Gap",
	}
)

// JoinColumns lists every column the join adds, in output order.
func JoinColumns() []string {
	cols := append([]string(nil), originColumns...)
	cols = append(cols, destColumns...)
	return append(cols, routeColumns...)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func indexCells(idx Indices, ok bool) []string {
	if !ok {
		return []string{"", "", "", "", "", ""}
	}
	return []string{
		formatFloat(idx.Overall), formatFloat(idx.Customs),
		formatFloat(idx.Infrastructure), formatFloat(idx.Logistics),
		formatFloat(idx.Tracking), formatFloat(idx.Timeliness),
	}
}

func routeCells(origin, dest Indices, originOK, destOK bool) []string {
	if !originOK || !destOK {
		return []string{"", "", "", ""}
	}
	return []string{
		formatFloat((origin.Overall + dest.Overall) / 2),
		formatFloat(dest.Overall - origin.Overall),
		formatFloat((origin.Customs + dest.Customs) / 2),
		formatFloat(dest.Infrastructure - origin.Infrastructure),
	}
}

// Join adds the 12 per-country index columns and 4 route aggregates to the
// shipment frame. Rows whose origin or destination has no indicator entry
// receive empty cells; Validate turns those into a fatal error.
func Join(f *frame.Frame, lpi map[string]Indices) error {
	origins, err := f.Column(dataset.ColOriginCountry)
	if err != nil {
		return err
	}
	dests, err := f.Column(dataset.ColDestinationCountry)
	if err != nil {
		return err
	}

	n := f.NumRows()
	cells := make(map[string][]string, 16)
	for _, col := range JoinColumns() {
		cells[col] = make([]string, n)
	}

	for i := 0; i < n; i++ {
		origin, originOK := lpi[origins[i]]
		dest, destOK := lpi[dests[i]]

		for j, v := range indexCells(origin, originOK) {
			cells[originColumns[j]][i] = v
		}
		for j, v := range indexCells(dest, destOK) {
			cells[destColumns[j]][i] = v
		}
		for j, v := range routeCells(origin, dest, originOK, destOK) {
			cells[routeColumns[j]][i] = v
		}
	}

	for _, col := range JoinColumns() {
		if err := f.SetColumn(col, cells[col]); err != nil {
			return err
		}
	}
	return nil
}

// Validate counts empty cells across the joined columns. Any emptiness is
// fatal: the error carries the aggregate count and nothing is written.
func Validate(f *frame.Frame) error {
	var missing int
	for _, col := range JoinColumns() {
		cells, err := f.Column(col)
		if err != nil {
			return err
		}
		for _, cell := range cells {
			if cell == "" {
				missing++
			}
		}
	}
	if missing > 0 {
		return eris.Errorf("enrich: %d missing values after join; every row must have complete indicator data", missing)
	}
	return nil
}
