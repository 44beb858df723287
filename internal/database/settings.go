package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/saltyorg/contentdb/internal/config"
	"github.com/saltyorg/contentdb/internal/logging"
	"github.com/saltyorg/contentdb/internal/maintenance"
)

// GetSetting retrieves a setting value by key
func (db *db) GetSetting(key string) (string, error) {
	var value string
	err := db.queryRow(context.Background(), "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

// GetSettingJSON retrieves a setting and unmarshal it from JSON
func (db *db) GetSettingJSON(key string, v any) error {
	value, err := db.GetSetting(key)
	if err != nil {
		return err
	}
	if value == "" {
		return nil
	}
	return json.Unmarshal([]byte(value), v)
}

// SetSetting stores a setting value
func (db *db) SetSetting(key, value string) error {
	_, err := db.exec(context.Background(), `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// SetSettingJSON stores a setting as JSON
func (db *db) SetSettingJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal setting %s: %w", key, err)
	}
	return db.SetSetting(key, string(data))
}

// GetAllSettings retrieves all settings
func (db *db) GetAllSettings() (map[string]string, error) {
	rows, err := db.query(context.Background(), "SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings[key] = value
	}

	return settings, rows.Err()
}

// DeleteSetting removes a setting
func (db *db) DeleteSetting(key string) error {
	_, err := db.exec(context.Background(), "DELETE FROM settings WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

// Default settings
var DefaultSettings = map[string]any{
	"log.level":                     "info",
	"log.max_size_mb":               logging.DefaultMaxSizeMB,
	"log.max_backups":               logging.DefaultMaxBackups,
	"log.max_age_days":              logging.DefaultMaxAgeDays,
	"log.compress":                  logging.DefaultCompress,
	"db.command_timeout":            config.DefaultTimeoutConfig().Command.String(),
	"maintenance.enabled":           true,
	"maintenance.optimize_schedule": maintenance.DefaultOptimizeSchedule,
	"maintenance.vacuum_schedule":   maintenance.DefaultVacuumSchedule, // "off" disables vacuum
}

// InitializeDefaults sets default values for settings that don't exist
func (db *db) InitializeDefaults() error {
	for key, value := range DefaultSettings {
		existing, err := db.GetSetting(key)
		if err != nil {
			return err
		}
		if existing != "" {
			continue
		}
		// Strings are stored raw so config.Loader reads them unquoted
		if s, ok := value.(string); ok {
			if s == "" {
				continue
			}
			if err := db.SetSetting(key, s); err != nil {
				return err
			}
			continue
		}
		if err := db.SetSettingJSON(key, value); err != nil {
			return err
		}
	}
	return nil
}
