package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"scanner_go/internal/domain"
)

const lastFilterKey = "last_filter"

// Storage persists user preferences: saved filter presets and app key-value
// config. Cache state (tokens, pages) is session-lived and never stored here.
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a new SQLite storage instance
func NewStorage() (*Storage, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve DB path: %w", err)
	}
	return newStorageAt(dbPath)
}

func newStorageAt(dbPath string) (*Storage, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.FilterPreset{}, &domain.AppConfig{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// getDBPath resolves the database file path based on OS
func getDBPath() (string, error) {
	var configDir string
	var err error

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("LOCALAPPDATA")
		if configDir == "" {
			configDir, err = os.UserConfigDir()
		}
	} else {
		configDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "ScannerGo", "data", "scanner.db"), nil
}

// ======================================================================================
// Preset Operations
// ======================================================================================

// SavePreset creates or updates a filter preset
func (s *Storage) SavePreset(p *domain.FilterPreset) error {
	return s.db.Save(p).Error
}

// GetPreset retrieves a preset by name
func (s *Storage) GetPreset(name string) (*domain.FilterPreset, error) {
	var p domain.FilterPreset
	err := s.db.First(&p, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Not found is not an error
	}
	return &p, err
}

// ListPresets retrieves all presets
func (s *Storage) ListPresets() ([]domain.FilterPreset, error) {
	var ps []domain.FilterPreset
	err := s.db.Find(&ps).Error
	return ps, err
}

// ToggleFavorite toggles the favorite status of a preset
func (s *Storage) ToggleFavorite(name string) (bool, error) {
	var p domain.FilterPreset
	if err := s.db.First(&p, "name = ?", name).Error; err != nil {
		return false, err
	}

	p.IsFavorite = !p.IsFavorite
	err := s.db.Save(&p).Error
	return p.IsFavorite, err
}

// DeletePreset deletes a preset
func (s *Storage) DeletePreset(name string) error {
	return s.db.Where("name = ?", name).Delete(&domain.FilterPreset{}).Error
}

// ======================================================================================
// Config Operations
// ======================================================================================

// SaveConfig saves a user configuration
func (s *Storage) SaveConfig(key, value string) error {
	config := domain.AppConfig{
		Key:   key,
		Value: value,
	}
	return s.db.Save(&config).Error
}

// LoadConfigMap loads all user configurations as a map
func (s *Storage) LoadConfigMap() (map[string]string, error) {
	var configs []domain.AppConfig
	if err := s.db.Find(&configs).Error; err != nil {
		return nil, err
	}

	result := make(map[string]string)
	for _, cfg := range configs {
		result[cfg.Key] = cfg.Value
	}
	return result, nil
}

// SaveLastFilter remembers the most recent view so the next session can
// restore it.
func (s *Storage) SaveLastFilter(f domain.ScannerFilter) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return s.SaveConfig(lastFilterKey, string(b))
}

// LoadLastFilter returns the filter of the previous session, if any.
func (s *Storage) LoadLastFilter() (domain.ScannerFilter, bool, error) {
	var cfg domain.AppConfig
	err := s.db.First(&cfg, "key = ?", lastFilterKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ScannerFilter{}, false, nil
	}
	if err != nil {
		return domain.ScannerFilter{}, false, err
	}

	var f domain.ScannerFilter
	if err := json.Unmarshal([]byte(cfg.Value), &f); err != nil {
		return domain.ScannerFilter{}, false, err
	}
	return f, true, nil
}
