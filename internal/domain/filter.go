package domain

import (
	"net/url"
	"strconv"
)

// Rank fields accepted by the scanner API.
const (
	RankByVolume = "volume"
	RankByAge    = "age"
	RankByMcap   = "mcap"
)

// ScannerFilter describes one filtered/sorted view of the scanner result set.
// It is immutable per request: changing any field means a new view, which
// invalidates the page index and restarts paging at 1.
type ScannerFilter struct {
	Chains          []string `json:"chain,omitempty" yaml:"chains"`
	MinVolume24H    int64    `json:"minVol24H,omitempty" yaml:"min_volume_24h"`
	MaxAgeHours     int      `json:"maxAge,omitempty" yaml:"max_age_hours"`
	ExcludeHoneypot bool     `json:"isNotHP,omitempty" yaml:"exclude_honeypot"`
	RankBy          string   `json:"rankBy,omitempty" yaml:"rank_by"`
	OrderBy         string   `json:"orderBy,omitempty" yaml:"order"`
}

// QueryValues serializes the filter for the REST scanner endpoint.
// Array-valued fields are repeated, one query parameter per element.
func (f ScannerFilter) QueryValues(page int) url.Values {
	v := url.Values{}
	for _, c := range f.Chains {
		v.Add("chain", c)
	}
	if f.MinVolume24H > 0 {
		v.Set("minVol24H", strconv.FormatInt(f.MinVolume24H, 10))
	}
	if f.MaxAgeHours > 0 {
		v.Set("maxAge", strconv.Itoa(f.MaxAgeHours))
	}
	if f.ExcludeHoneypot {
		v.Set("isNotHP", "true")
	}
	if f.RankBy != "" {
		v.Set("rankBy", f.RankBy)
	}
	if f.OrderBy != "" {
		v.Set("orderBy", f.OrderBy)
	}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	return v
}

// Equal reports whether two filters describe the same view. Used by the
// reconciler to detect stale fetch completions after a filter change.
func (f ScannerFilter) Equal(o ScannerFilter) bool {
	if len(f.Chains) != len(o.Chains) {
		return false
	}
	for i := range f.Chains {
		if f.Chains[i] != o.Chains[i] {
			return false
		}
	}
	return f.MinVolume24H == o.MinVolume24H &&
		f.MaxAgeHours == o.MaxAgeHours &&
		f.ExcludeHoneypot == o.ExcludeHoneypot &&
		f.RankBy == o.RankBy &&
		f.OrderBy == o.OrderBy
}
