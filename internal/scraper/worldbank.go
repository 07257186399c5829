package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tradeflow-cli/internal/config"
	"github.com/sells-group/tradeflow-cli/internal/fetcher"
	"github.com/sells-group/tradeflow-cli/internal/store"
)

// LPIIndicators maps World Bank LPI indicator codes to their export column names.
var LPIIndicators = map[string]string{
	"LP.LPI.OVRL.XQ": "LPI_Overall",
	"LP.LPI.CUST.XQ": "LPI_Customs",
	"LP.LPI.INFR.XQ": "LPI_Infrastructure",
	"LP.LPI.LOGS.XQ": "LPI_Logistics",
	"LP.LPI.TRAC.XQ": "LPI_Tracking",
	"LP.LPI.TIME.XQ": "LPI_Timeliness",
}

// LPIIndicatorOrder is the column order for LPI exports.
var LPIIndicatorOrder = []string{
	"LP.LPI.OVRL.XQ",
	"LP.LPI.CUST.XQ",
	"LP.LPI.INFR.XQ",
	"LP.LPI.LOGS.XQ",
	"LP.LPI.TRAC.XQ",
	"LP.LPI.TIME.XQ",
}

var tradeFacIndicators = []string{
	"IC.CUS.DURS",
	"IC.TRD.DURS",
}

var infraIndicators = []string{
	"IS.SHP.GOOD.TU",
	"IS.AIR.DPRT",
	"IS.AIR.PSGR",
	"LP.LPI.INFR.XQ",
}

// aggregateRegions are World Bank region/income rollups, not countries.
var aggregateRegions = map[string]bool{
	"WLD": true,
	"HIC": true,
	"LIC": true,
	"LMC": true,
	"UMC": true,
}

// WorldBank syncs a fixed set of indicator codes from the World Bank API v2.
type WorldBank struct {
	name       string
	cadence    Cadence
	indicators []string
	baseURL    string
	perPage    int
}

// NewWorldBankLPI returns the scraper for the six LPI component indicators.
func NewWorldBankLPI(cfg config.ScrapeConfig) *WorldBank {
	return &WorldBank{
		name:       "worldbank-lpi",
		cadence:    Annual,
		indicators: LPIIndicatorOrder,
		baseURL:    cfg.WorldBankBaseURL,
		perPage:    cfg.PerPage,
	}
}

// NewWorldBankTradeFac returns the scraper for trade facilitation indicators.
func NewWorldBankTradeFac(cfg config.ScrapeConfig) *WorldBank {
	return &WorldBank{
		name:       "worldbank-tradefac",
		cadence:    Annual,
		indicators: tradeFacIndicators,
		baseURL:    cfg.WorldBankBaseURL,
		perPage:    cfg.PerPage,
	}
}

// NewWorldBankInfra returns the scraper for port and air infrastructure indicators.
func NewWorldBankInfra(cfg config.ScrapeConfig) *WorldBank {
	return &WorldBank{
		name:       "worldbank-infra",
		cadence:    Annual,
		indicators: infraIndicators,
		baseURL:    cfg.WorldBankBaseURL,
		perPage:    cfg.PerPage,
	}
}

func (w *WorldBank) Name() string     { return w.name }
func (w *WorldBank) Cadence() Cadence { return w.cadence }

func (w *WorldBank) ShouldRun(now time.Time, lastSync *time.Time) bool {
	if lastSync == nil {
		return true
	}
	return now.Sub(*lastSync) >= w.cadence.interval()
}

// Sync fetches every indicator, collapses to the latest year per country,
// and upserts the observations. A failed indicator fails the whole sync so
// partial sets are never recorded as complete.
func (w *WorldBank) Sync(ctx context.Context, st store.Store, f fetcher.Fetcher) (*SyncResult, error) {
	log := zap.L().With(zap.String("scraper", w.name))

	var total int64
	for _, code := range w.indicators {
		raw, err := w.fetchIndicator(ctx, f, code)
		if err != nil {
			return nil, err
		}

		latest := latestByCountry(raw)
		n, err := st.UpsertObservations(ctx, latest)
		if err != nil {
			return nil, eris.Wrapf(err, "worldbank: store %s", code)
		}

		log.Info("indicator synced", zap.String("indicator", code), zap.Int64("rows", n))
		total += n
	}

	return &SyncResult{
		RowsSynced: total,
		Metadata:   map[string]any{"indicators": len(w.indicators)},
	}, nil
}

// wbObservation is one row of the World Bank API v2 response payload.
type wbObservation struct {
	Country struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	} `json:"country"`
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// wbMeta is the pagination header of the World Bank API v2 response.
type wbMeta struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	PerPage any `json:"per_page"`
	Total   int `json:"total"`
}

// fetchIndicator walks the paginated observation list for one indicator code.
// Aggregate regions (World, income groups) and null values are skipped.
func (w *WorldBank) fetchIndicator(ctx context.Context, f fetcher.Fetcher, code string) ([]store.Observation, error) {
	var results []store.Observation

	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/country/all/indicator/%s?format=json&per_page=%d&page=%d",
			w.baseURL, code, w.perPage, page)

		// The response is a two-element array: [meta, observations].
		var payload []json.RawMessage
		if err := fetcher.DownloadJSON(ctx, f, url, &payload); err != nil {
			return nil, eris.Wrapf(err, "worldbank: fetch %s page %d", code, page)
		}
		if len(payload) < 2 {
			break
		}

		var meta wbMeta
		if err := json.Unmarshal(payload[0], &meta); err != nil {
			return nil, eris.Wrapf(err, "worldbank: decode meta for %s", code)
		}
		var observations []wbObservation
		if err := json.Unmarshal(payload[1], &observations); err != nil {
			return nil, eris.Wrapf(err, "worldbank: decode observations for %s", code)
		}
		if len(observations) == 0 {
			break
		}

		for _, obs := range observations {
			if len(obs.Country.ID) > 0 && obs.Country.ID[0] == 'X' {
				continue
			}
			if aggregateRegions[obs.Country.ID] {
				continue
			}
			if obs.Value == nil {
				continue
			}
			year, err := strconv.Atoi(obs.Date)
			if err != nil {
				continue
			}
			results = append(results, store.Observation{
				Indicator:   code,
				CountryID:   obs.Country.ID,
				CountryName: obs.Country.Value,
				Year:        year,
				Value:       *obs.Value,
			})
		}

		if meta.Pages <= 0 || page >= meta.Pages {
			break
		}
	}

	return results, nil
}

// latestByCountry collapses observations to the most recent year per country.
func latestByCountry(raw []store.Observation) []store.Observation {
	latest := make(map[string]store.Observation)
	var order []string
	for _, obs := range raw {
		prev, ok := latest[obs.CountryID]
		if !ok {
			order = append(order, obs.CountryID)
			latest[obs.CountryID] = obs
			continue
		}
		if obs.Year > prev.Year {
			latest[obs.CountryID] = obs
		}
	}

	out := make([]store.Observation, 0, len(order))
	for _, cid := range order {
		out = append(out, latest[cid])
	}
	return out
}
