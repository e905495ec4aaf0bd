// Package database provides schema instantiation
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/beaconworks/beacon-go/internal/infrastructure/security"
)

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the tables and indexes.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// SeedAdmin idempotently creates the initial admin account from the supplied
// credentials. A blank email or password skips seeding.
func (tc *TableCreator) SeedAdmin(db *sql.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM admins WHERE email = ?)", email).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check for admin existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = db.Exec(
		`INSERT INTO admins (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		security.GenerateULID(), email, hash, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert seed admin: %w", err)
	}
	return nil
}

// Schema definitions
var tables = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		visitor_id TEXT,
		device TEXT NOT NULL DEFAULT 'unknown',
		browser TEXT,
		browser_version TEXT,
		os TEXT,
		os_version TEXT,
		screen_width INTEGER NOT NULL DEFAULT 0,
		screen_height INTEGER NOT NULL DEFAULT 0,
		entry_page TEXT NOT NULL DEFAULT '/',
		exit_page TEXT NOT NULL DEFAULT '/',
		page_count INTEGER NOT NULL DEFAULT 1,
		duration_seconds INTEGER NOT NULL DEFAULT 0,
		max_scroll_depth INTEGER NOT NULL DEFAULT 0,
		click_count INTEGER NOT NULL DEFAULT 0,
		rage_click_count INTEGER NOT NULL DEFAULT 0,
		referrer TEXT,
		utm_source TEXT,
		utm_medium TEXT,
		utm_campaign TEXT,
		utm_term TEXT,
		utm_content TEXT,
		converted BOOLEAN NOT NULL DEFAULT 0,
		conversion_type TEXT,
		started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_activity_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		ended_at TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS interaction_events (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		page TEXT NOT NULL,
		event_type TEXT NOT NULL,
		x INTEGER,
		y INTEGER,
		viewport_width INTEGER NOT NULL DEFAULT 0,
		viewport_height INTEGER NOT NULL DEFAULT 0,
		page_height INTEGER NOT NULL DEFAULT 0,
		scroll_depth INTEGER,
		target_tag TEXT,
		target_id TEXT,
		target_class TEXT,
		target_text TEXT,
		device TEXT NOT NULL DEFAULT 'unknown',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS page_views (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		page TEXT NOT NULL,
		referrer TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS leads (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT,
		company TEXT,
		phone TEXT,
		source TEXT,
		source_page TEXT,
		session_id TEXT,
		ai_score INTEGER NOT NULL DEFAULT 0,
		ai_score_reasons TEXT NOT NULL DEFAULT '[]',
		ai_classification TEXT NOT NULL DEFAULT 'cold',
		pages_viewed INTEGER NOT NULL DEFAULT 0,
		time_on_site_seconds INTEGER NOT NULL DEFAULT 0,
		scroll_depth_avg INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'new',
		contacted_at TIMESTAMP,
		converted_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		excerpt TEXT,
		body_markdown TEXT NOT NULL DEFAULT '',
		cover_image_url TEXT,
		published BOOLEAN NOT NULL DEFAULT 0,
		published_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS admins (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_sessions_visitor_id ON sessions(visitor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_last_activity ON sessions(last_activity_at)`,
	`CREATE INDEX IF NOT EXISTS idx_events_session_id ON interaction_events(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_page_type ON interaction_events(page, event_type)`,
	`CREATE INDEX IF NOT EXISTS idx_events_created_at ON interaction_events(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_page_views_session_id ON page_views(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_page_views_page ON page_views(page)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(email)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_classification ON leads(ai_classification)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_slug ON posts(slug)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_published ON posts(published, published_at)`,
	`CREATE INDEX IF NOT EXISTS idx_admins_email ON admins(email)`,
}
