package dataset

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tradeflow-cli/internal/frame"
)

// Date layouts accepted by the loader. Times, when present, are discarded;
// every date is a naive calendar date with no timezone handling.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func parseDate(cell, column string, row int) (time.Time, error) {
	if cell == "" {
		return time.Time{}, eris.Errorf("dataset: empty date in column %q row %d", column, row)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t.Truncate(24 * time.Hour), nil
		}
	}
	return time.Time{}, eris.Errorf("dataset: unparseable date %q in column %q row %d", cell, column, row)
}

func parseDateColumn(f *frame.Frame, column string) ([]time.Time, error) {
	cells, err := f.Column(column)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, len(cells))
	for i, cell := range cells {
		t, err := parseDate(cell, column, i)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// wholeDays returns the signed whole-day difference b − a.
func wholeDays(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// DeriveTemporal parses the three date columns and adds the transit and
// calendar features: planned/actual transit days, signed arrival delay,
// shipment month (1–12), and shipment weekday (Monday=0). Any malformed or
// empty date cell fails the whole stage.
func DeriveTemporal(f *frame.Frame) error {
	shipped, err := parseDateColumn(f, ColShipmentDate)
	if err != nil {
		return err
	}
	estimated, err := parseDateColumn(f, ColEstimatedArrival)
	if err != nil {
		return err
	}
	actual, err := parseDateColumn(f, ColActualArrival)
	if err != nil {
		return err
	}

	n := f.NumRows()
	planned := make([]int, n)
	transit := make([]int, n)
	delay := make([]int, n)
	month := make([]int, n)
	weekday := make([]int, n)

	for i := 0; i < n; i++ {
		planned[i] = wholeDays(shipped[i], estimated[i])
		transit[i] = wholeDays(shipped[i], actual[i])
		delay[i] = wholeDays(estimated[i], actual[i])
		month[i] = int(shipped[i].Month())
		weekday[i] = (int(shipped[i].Weekday()) + 6) % 7
	}

	if err := f.SetInts(ColPlannedTransitDays, planned); err != nil {
		return err
	}
	if err := f.SetInts(ColActualTransitDays, transit); err != nil {
		return err
	}
	if err := f.SetInts(ColArrivalDelayDays, delay); err != nil {
		return err
	}
	if err := f.SetInts(ColShipmentMonth, month); err != nil {
		return err
	}
	return f.SetInts(ColShipmentWeekday, weekday)
}
