package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tradeflow-cli/internal/config"
	"github.com/sells-group/tradeflow-cli/internal/fetcher"
	"github.com/sells-group/tradeflow-cli/internal/store"
)

// TradeIndicator is the store indicator code for bilateral trade totals.
// Observations use the route code (ORIGIN-DEST ISO3) as the country id.
const TradeIndicator = "COMTRADE.TOTAL.USD"

// countryISO3 maps the dataset country names to UN Comtrade ISO3 codes.
var countryISO3 = map[string]string{
	"Australia":    "AUS",
	"Brazil":       "BRA",
	"China":        "CHN",
	"Germany":      "DEU",
	"India":        "IND",
	"Japan":        "JPN",
	"South Africa": "ZAF",
	"UAE":          "ARE",
	"UK":           "GBR",
	"USA":          "USA",
}

// Comtrade syncs total bilateral trade values for every ordered pair of the
// target countries from the UN Comtrade API.
type Comtrade struct {
	baseURL   string
	tradeYear int
	countries []string
}

// NewComtrade returns the bilateral trade scraper.
func NewComtrade(cfg config.ScrapeConfig) *Comtrade {
	return &Comtrade{
		baseURL:   cfg.ComtradeBaseURL,
		tradeYear: cfg.TradeYear,
		countries: config.DefaultCountries(),
	}
}

func (c *Comtrade) Name() string     { return "comtrade" }
func (c *Comtrade) Cadence() Cadence { return Annual }

func (c *Comtrade) ShouldRun(now time.Time, lastSync *time.Time) bool {
	if lastSync == nil {
		return true
	}
	return now.Sub(*lastSync) >= Annual.interval()
}

// comtradeResponse is the UN Comtrade API payload for one reporter/partner pair.
type comtradeResponse struct {
	Data []struct {
		TradeValue *float64 `json:"TradeValue"`
		Qty        *float64 `json:"qty"`
	} `json:"data"`
}

// Sync fetches trade totals for every ordered pair of target countries.
// Pairs with no reported data are skipped, not treated as errors: the API
// legitimately has gaps for some reporter/partner combinations.
func (c *Comtrade) Sync(ctx context.Context, st store.Store, f fetcher.Fetcher) (*SyncResult, error) {
	log := zap.L().With(zap.String("scraper", "comtrade"))

	var obs []store.Observation
	var pairs, empty int

	for _, origin := range c.countries {
		for _, dest := range c.countries {
			if origin == dest {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			pairs++

			originISO := countryISO3[origin]
			destISO := countryISO3[dest]

			url := fmt.Sprintf(
				"%s?type=C&freq=A&px=HS&ps=%d&r=%s&p=%s&rg=all&cc=TOTAL&fmt=json",
				c.baseURL, c.tradeYear, originISO, destISO)

			var resp comtradeResponse
			if err := fetcher.DownloadJSON(ctx, f, url, &resp); err != nil {
				return nil, eris.Wrapf(err, "comtrade: fetch %s -> %s", originISO, destISO)
			}

			if len(resp.Data) == 0 {
				empty++
				continue
			}

			var total float64
			for _, row := range resp.Data {
				if row.TradeValue != nil {
					total += *row.TradeValue
				}
			}

			obs = append(obs, store.Observation{
				Indicator:   TradeIndicator,
				CountryID:   originISO + "-" + destISO,
				CountryName: origin + " -> " + dest,
				Year:        c.tradeYear,
				Value:       total,
			})
		}
	}

	n, err := st.UpsertObservations(ctx, obs)
	if err != nil {
		return nil, eris.Wrap(err, "comtrade: store observations")
	}

	log.Info("bilateral trade synced",
		zap.Int("pairs", pairs),
		zap.Int("empty", empty),
		zap.Int64("rows", n),
	)

	return &SyncResult{
		RowsSynced: n,
		Metadata:   map[string]any{"pairs": pairs, "empty": empty},
	}, nil
}
