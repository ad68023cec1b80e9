package domain

import (
	"strings"
	"time"
)

// FilterPreset is a user-saved scanner filter stored in the local database.
type FilterPreset struct {
	Name            string    `gorm:"primaryKey" json:"name"`
	Chains          string    `json:"chains"` // comma-separated chain names
	MinVolume24H    int64     `json:"min_volume_24h"`
	MaxAgeHours     int       `json:"max_age_hours"`
	ExcludeHoneypot bool      `json:"exclude_honeypot"`
	RankBy          string    `json:"rank_by"`
	OrderBy         string    `json:"order_by"`
	IsFavorite      bool      `gorm:"index" json:"is_favorite"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewFilterPreset builds a preset from a live filter.
func NewFilterPreset(name string, f ScannerFilter) *FilterPreset {
	return &FilterPreset{
		Name:            name,
		Chains:          strings.Join(f.Chains, ","),
		MinVolume24H:    f.MinVolume24H,
		MaxAgeHours:     f.MaxAgeHours,
		ExcludeHoneypot: f.ExcludeHoneypot,
		RankBy:          f.RankBy,
		OrderBy:         f.OrderBy,
		UpdatedAt:       time.Now(),
	}
}

// Filter converts the stored preset back to a live filter.
func (p *FilterPreset) Filter() ScannerFilter {
	var chains []string
	if p.Chains != "" {
		chains = strings.Split(p.Chains, ",")
	}
	return ScannerFilter{
		Chains:          chains,
		MinVolume24H:    p.MinVolume24H,
		MaxAgeHours:     p.MaxAgeHours,
		ExcludeHoneypot: p.ExcludeHoneypot,
		RankBy:          p.RankBy,
		OrderBy:         p.OrderBy,
	}
}

// AppConfig represents user-specific configuration (Key-Value)
type AppConfig struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
