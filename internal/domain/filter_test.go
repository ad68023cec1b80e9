package domain

import (
	"testing"
)

func TestScannerFilter_QueryValues(t *testing.T) {
	f := ScannerFilter{
		Chains:          []string{"SOL", "ETH"},
		MinVolume24H:    1000,
		MaxAgeHours:     168,
		ExcludeHoneypot: true,
		RankBy:          RankByVolume,
		OrderBy:         "desc",
	}

	v := f.QueryValues(2)

	if chains := v["chain"]; len(chains) != 2 || chains[0] != "SOL" || chains[1] != "ETH" {
		t.Errorf("Expected repeated chain params, got %v", chains)
	}
	if v.Get("minVol24H") != "1000" {
		t.Errorf("Expected minVol24H=1000, got %s", v.Get("minVol24H"))
	}
	if v.Get("maxAge") != "168" {
		t.Errorf("Expected maxAge=168, got %s", v.Get("maxAge"))
	}
	if v.Get("isNotHP") != "true" {
		t.Errorf("Expected isNotHP=true, got %s", v.Get("isNotHP"))
	}
	if v.Get("rankBy") != "volume" || v.Get("orderBy") != "desc" {
		t.Errorf("Unexpected ranking params: %v", v)
	}
	if v.Get("page") != "2" {
		t.Errorf("Expected page=2, got %s", v.Get("page"))
	}
}

func TestScannerFilter_QueryValuesOmitsZero(t *testing.T) {
	v := ScannerFilter{}.QueryValues(0)
	if len(v) != 0 {
		t.Errorf("Zero filter should encode empty, got %v", v)
	}
}

func TestScannerFilter_Equal(t *testing.T) {
	base := ScannerFilter{Chains: []string{"SOL"}, MinVolume24H: 100, RankBy: RankByVolume}

	tests := []struct {
		name  string
		other ScannerFilter
		want  bool
	}{
		{"identical", ScannerFilter{Chains: []string{"SOL"}, MinVolume24H: 100, RankBy: RankByVolume}, true},
		{"different chain", ScannerFilter{Chains: []string{"ETH"}, MinVolume24H: 100, RankBy: RankByVolume}, false},
		{"extra chain", ScannerFilter{Chains: []string{"SOL", "ETH"}, MinVolume24H: 100, RankBy: RankByVolume}, false},
		{"different volume", ScannerFilter{Chains: []string{"SOL"}, MinVolume24H: 200, RankBy: RankByVolume}, false},
		{"different rank", ScannerFilter{Chains: []string{"SOL"}, MinVolume24H: 100, RankBy: RankByAge}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Equal(tt.other); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterPreset_RoundTrip(t *testing.T) {
	f := ScannerFilter{
		Chains:          []string{"SOL", "BASE"},
		MinVolume24H:    500,
		MaxAgeHours:     72,
		ExcludeHoneypot: true,
		RankBy:          RankByMcap,
		OrderBy:         "asc",
	}

	got := NewFilterPreset("test", f).Filter()
	if !got.Equal(f) {
		t.Errorf("Preset round-trip lost data: %+v vs %+v", got, f)
	}
}

func TestFilterPreset_EmptyChains(t *testing.T) {
	got := NewFilterPreset("empty", ScannerFilter{}).Filter()
	if len(got.Chains) != 0 {
		t.Errorf("Empty chains must round-trip empty, got %v", got.Chains)
	}
}
