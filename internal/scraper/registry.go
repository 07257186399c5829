package scraper

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/tradeflow-cli/internal/config"
)

// Registry maps scraper names to their implementations.
type Registry struct {
	scrapers map[string]IndicatorScraper
	order    []string // insertion order for deterministic iteration
}

// NewRegistry creates a registry populated with all indicator scrapers.
func NewRegistry(cfg config.ScrapeConfig) *Registry {
	r := &Registry{
		scrapers: make(map[string]IndicatorScraper),
	}

	r.Register(NewWorldBankLPI(cfg))
	r.Register(NewWorldBankTradeFac(cfg))
	r.Register(NewWorldBankInfra(cfg))
	r.Register(NewComtrade(cfg))

	return r
}

// Register adds a scraper to the registry.
func (r *Registry) Register(s IndicatorScraper) {
	name := s.Name()
	r.scrapers[name] = s
	r.order = append(r.order, name)
}

// Get returns a scraper by name.
func (r *Registry) Get(name string) (IndicatorScraper, error) {
	s, ok := r.scrapers[name]
	if !ok {
		return nil, eris.Errorf("scraper: unknown scraper %q", name)
	}
	return s, nil
}

// Select returns the named scrapers, or all of them when names is empty.
func (r *Registry) Select(names []string) ([]IndicatorScraper, error) {
	if len(names) == 0 {
		return r.All(), nil
	}
	var result []IndicatorScraper
	for _, name := range names {
		s, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, nil
}

// All returns all scrapers in registration order.
func (r *Registry) All() []IndicatorScraper {
	result := make([]IndicatorScraper, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.scrapers[name])
	}
	return result
}

// AllNames returns all registered scraper names in registration order.
func (r *Registry) AllNames() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
