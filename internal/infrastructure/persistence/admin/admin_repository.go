// Package admin provides the concrete SQL-based implementation of the admin
// account repository.
package admin

import (
	"database/sql"
	"time"

	"github.com/beaconworks/beacon-go/internal/domain/admin"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/beaconworks/beacon-go/internal/infrastructure/persistence/database"
)

// SQLAdminRepository is the SQL-based implementation of the admin Repository.
type SQLAdminRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLAdminRepository creates a new instance of the repository.
func NewSQLAdminRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLAdminRepository {
	return &SQLAdminRepository{db: db, logger: logger}
}

// FindByEmail retrieves an Admin by email address.
func (r *SQLAdminRepository) FindByEmail(email string) (*admin.Admin, error) {
	const query = `SELECT id, email, password_hash, created_at FROM admins WHERE email = ?`

	var a admin.Admin
	var createdAt string
	err := r.db.QueryRow(query, email).Scan(&a.ID, &a.Email, &a.PasswordHash, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		r.logger.Database().Error("Failed to load admin by email", "error", err.Error(), "email", email)
		return nil, err
	}

	a.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		a.CreatedAt, err = time.Parse("2006-01-02 15:04:05", createdAt)
		if err != nil {
			return nil, err
		}
	}
	return &a, nil
}
