package storage

import (
	"path/filepath"
	"testing"

	"scanner_go/internal/domain"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := newStorageAt(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}
	return s
}

func TestStorage_PresetCRUD(t *testing.T) {
	s := setupTestStorage(t)

	f := domain.ScannerFilter{
		Chains:          []string{"SOL", "ETH"},
		MinVolume24H:    5000,
		ExcludeHoneypot: true,
		RankBy:          domain.RankByVolume,
		OrderBy:         "desc",
	}

	if err := s.SavePreset(domain.NewFilterPreset("degens", f)); err != nil {
		t.Fatalf("SavePreset failed: %v", err)
	}

	p, err := s.GetPreset("degens")
	if err != nil {
		t.Fatalf("GetPreset failed: %v", err)
	}
	if p == nil {
		t.Fatal("Expected preset, got nil")
	}
	if !p.Filter().Equal(f) {
		t.Errorf("Round-tripped filter differs: %+v vs %+v", p.Filter(), f)
	}

	// Save again updates rather than duplicating.
	f.MinVolume24H = 9000
	if err := s.SavePreset(domain.NewFilterPreset("degens", f)); err != nil {
		t.Fatalf("Re-save failed: %v", err)
	}
	all, err := s.ListPresets()
	if err != nil {
		t.Fatalf("ListPresets failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 preset after update, got %d", len(all))
	}
	if all[0].MinVolume24H != 9000 {
		t.Errorf("Expected updated min volume 9000, got %d", all[0].MinVolume24H)
	}

	if err := s.DeletePreset("degens"); err != nil {
		t.Fatalf("DeletePreset failed: %v", err)
	}
	p, err = s.GetPreset("degens")
	if err != nil {
		t.Fatalf("GetPreset after delete failed: %v", err)
	}
	if p != nil {
		t.Error("Expected nil after delete")
	}
}

func TestStorage_GetPresetNotFound(t *testing.T) {
	s := setupTestStorage(t)

	p, err := s.GetPreset("missing")
	if err != nil {
		t.Fatalf("Not-found must not be an error, got %v", err)
	}
	if p != nil {
		t.Error("Expected nil for missing preset")
	}
}

func TestStorage_ToggleFavorite(t *testing.T) {
	s := setupTestStorage(t)

	s.SavePreset(domain.NewFilterPreset("fav", domain.ScannerFilter{Chains: []string{"SOL"}}))

	on, err := s.ToggleFavorite("fav")
	if err != nil {
		t.Fatalf("ToggleFavorite failed: %v", err)
	}
	if !on {
		t.Error("Expected favorite on after first toggle")
	}

	off, err := s.ToggleFavorite("fav")
	if err != nil {
		t.Fatalf("Second toggle failed: %v", err)
	}
	if off {
		t.Error("Expected favorite off after second toggle")
	}

	if _, err := s.ToggleFavorite("missing"); err == nil {
		t.Error("Toggling a missing preset should error")
	}
}

func TestStorage_ConfigMap(t *testing.T) {
	s := setupTestStorage(t)

	s.SaveConfig("theme", "dark")
	s.SaveConfig("theme", "light") // overwrite
	s.SaveConfig("lang", "en")

	m, err := s.LoadConfigMap()
	if err != nil {
		t.Fatalf("LoadConfigMap failed: %v", err)
	}
	if m["theme"] != "light" || m["lang"] != "en" {
		t.Errorf("Unexpected config map: %v", m)
	}
}

func TestStorage_LastFilterRoundTrip(t *testing.T) {
	s := setupTestStorage(t)

	if _, ok, err := s.LoadLastFilter(); err != nil || ok {
		t.Fatalf("Expected no last filter on fresh DB, got ok=%v err=%v", ok, err)
	}

	f := domain.ScannerFilter{Chains: []string{"BASE"}, MaxAgeHours: 24, RankBy: domain.RankByAge}
	if err := s.SaveLastFilter(f); err != nil {
		t.Fatalf("SaveLastFilter failed: %v", err)
	}

	got, ok, err := s.LoadLastFilter()
	if err != nil {
		t.Fatalf("LoadLastFilter failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected a stored filter")
	}
	if !got.Equal(f) {
		t.Errorf("Round-tripped filter differs: %+v vs %+v", got, f)
	}
}
