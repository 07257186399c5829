package enrich

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// Indices holds the six LPI sub-indices for one country.
type Indices struct {
	Overall        float64
	Customs        float64
	Infrastructure float64
	Logistics      float64
	Tracking       float64
	Timeliness     float64
}

// lpiRow mirrors one record of the indicator lookup CSV. Pointer fields
// distinguish absent values from zeros.
type lpiRow struct {
	CountryID      string   `csv:"country_id"`
	CountryName    string   `csv:"country_name"`
	Year           int      `csv:"year"`
	Overall        *float64 `csv:"LPI_Overall"`
	Customs        *float64 `csv:"LPI_Customs"`
	Infrastructure *float64 `csv:"LPI_Infrastructure"`
	Logistics      *float64 `csv:"LPI_Logistics"`
	Tracking       *float64 `csv:"LPI_Tracking"`
	Timeliness     *float64 `csv:"LPI_Timeliness"`
}

// LoadLPI reads the lookup CSV and returns dataset-country → indices for the
// given year, restricted to the target countries. The file being absent is
// fatal and reports the expected path.
func LoadLPI(path string, year int, countries []string, aliases *AliasTable) (map[string]Indices, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, eris.Errorf("enrich: LPI lookup file not found at %s", path)
		}
		return nil, eris.Wrapf(err, "enrich: open %s", path)
	}
	defer file.Close()

	dec, err := csvutil.NewDecoder(csv.NewReader(file))
	if err != nil {
		return nil, eris.Wrapf(err, "enrich: read %s header", path)
	}

	wanted := make(map[string]bool, len(countries))
	for _, c := range countries {
		wanted[c] = true
	}

	out := make(map[string]Indices)
	for {
		var row lpiRow
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrapf(err, "enrich: decode %s", path)
		}

		if row.Year != year {
			continue
		}
		country := aliases.Resolve(row.CountryName)
		if !wanted[country] {
			continue
		}
		if row.Overall == nil || row.Customs == nil || row.Infrastructure == nil ||
			row.Logistics == nil || row.Tracking == nil || row.Timeliness == nil {
			// Incomplete indicator rows are dropped here; the join-time
			// completeness check reports any country this leaves uncovered.
			continue
		}

		out[country] = Indices{
			Overall:        *row.Overall,
			Customs:        *row.Customs,
			Infrastructure: *row.Infrastructure,
			Logistics:      *row.Logistics,
			Tracking:       *row.Tracking,
			Timeliness:     *row.Timeliness,
		}
	}

	return out, nil
}
