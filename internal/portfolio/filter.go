package portfolio

import (
	"sort"
	"strings"
)

// Facets holds the filter options derived from loaded data. Brands and
// channels come from set-deduplication over the SKU list; markets come from
// the markets fetch so empty markets still appear as options.
type Facets struct {
	Brands   []string
	Markets  []string
	Channels []string
}

// DeriveFacets recomputes the facet lists. Call it after every load and
// after a save replaces a SKU.
func DeriveFacets(skus []Sku, markets []Market) Facets {
	brands := make(map[string]struct{})
	channels := make(map[string]struct{})
	for _, s := range skus {
		if s.Brand != "" {
			brands[s.Brand] = struct{}{}
		}
		if s.PrimaryChannel != "" {
			channels[s.PrimaryChannel] = struct{}{}
		}
	}

	f := Facets{
		Brands:   make([]string, 0, len(brands)),
		Markets:  make([]string, 0, len(markets)),
		Channels: make([]string, 0, len(channels)),
	}
	for b := range brands {
		f.Brands = append(f.Brands, b)
	}
	for c := range channels {
		f.Channels = append(f.Channels, c)
	}
	for _, m := range markets {
		f.Markets = append(f.Markets, m.MarketName)
	}
	sort.Strings(f.Brands)
	sort.Strings(f.Channels)
	sort.Strings(f.Markets)
	return f
}

// Filter is the active portfolio filter. Empty fields match everything, so
// the zero value passes all rows. The three facet dimensions are
// independent: each tests a different SKU field, which is what makes
// application order irrelevant.
type Filter struct {
	Query   string // case-insensitive substring over sku_id and sku_name
	Brand   string
	Market  string
	Channel string
}

// IsZero reports whether no filter is active.
func (f Filter) IsZero() bool {
	return f.Query == "" && f.Brand == "" && f.Market == "" && f.Channel == ""
}

// Matches reports whether a single SKU passes the filter.
func (f Filter) Matches(s Sku) bool {
	if f.Brand != "" && s.Brand != f.Brand {
		return false
	}
	if f.Market != "" && s.TargetMarket != f.Market {
		return false
	}
	if f.Channel != "" && s.PrimaryChannel != f.Channel {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(s.SkuID), q) &&
			!strings.Contains(strings.ToLower(s.SkuName), q) {
			return false
		}
	}
	return true
}

// Apply returns the SKUs passing the filter, preserving input order.
func (f Filter) Apply(skus []Sku) []Sku {
	if f.IsZero() {
		return skus
	}
	out := make([]Sku, 0, len(skus))
	for _, s := range skus {
		if f.Matches(s) {
			out = append(out, s)
		}
	}
	return out
}

// CycleOption returns the next value after current in options, with ""
// (no filter) prepended to the ring. Used by the facet selectors.
func CycleOption(options []string, current string) string {
	if len(options) == 0 {
		return ""
	}
	if current == "" {
		return options[0]
	}
	for i, o := range options {
		if o == current {
			if i+1 < len(options) {
				return options[i+1]
			}
			return ""
		}
	}
	return ""
}
