// Package settings provides the concrete SQL-based implementation of the
// site settings repository.
package settings

import (
	"time"

	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/beaconworks/beacon-go/internal/infrastructure/persistence/database"
)

// SQLSettingsRepository is the SQL-based implementation of the settings Repository.
type SQLSettingsRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLSettingsRepository creates a new instance of the repository.
func NewSQLSettingsRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLSettingsRepository {
	return &SQLSettingsRepository{db: db, logger: logger}
}

// GetAll returns every stored key-value pair.
func (r *SQLSettingsRepository) GetAll() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		r.logger.Database().Error("Failed to load settings", "error", err.Error())
		return nil, err
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		values[key] = value
	}
	return values, rows.Err()
}

// SetMany upserts the supplied key-value pairs.
func (r *SQLSettingsRepository) SetMany(values map[string]string) error {
	const query = `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	now := time.Now().UTC().Format(time.RFC3339)
	for key, value := range values {
		if _, err := r.db.Exec(query, key, value, now); err != nil {
			r.logger.Database().Error("Failed to store setting", "error", err.Error(), "key", key)
			return err
		}
	}
	return nil
}
