package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"core/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresRepository handles database operations: the listing catalog, the
// conversation source, and downstream storage of qualified profiles.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// ActiveInCity returns all active listings in a city, matched
// case-insensitively.
func (r *PostgresRepository) ActiveInCity(ctx context.Context, city string) ([]model.Property, error) {
	query := `
		SELECT id, title, price, city, area, bedrooms, bathrooms,
		       property_type, is_active, created_at, updated_at
		FROM listings
		WHERE is_active = true AND LOWER(city) = LOWER($1)
		ORDER BY id
	`

	properties := []model.Property{}
	if err := r.db.SelectContext(ctx, &properties, query, city); err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}

	return properties, nil
}

// GetProperty returns a single listing by id, or nil when it does not exist.
func (r *PostgresRepository) GetProperty(ctx context.Context, id int64) (*model.Property, error) {
	query := `
		SELECT id, title, price, city, area, bedrooms, bathrooms,
		       property_type, is_active, created_at, updated_at
		FROM listings
		WHERE id = $1
	`

	var property model.Property
	err := r.db.GetContext(ctx, &property, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing %d: %w", id, err)
	}

	return &property, nil
}

// GetConversation returns the ordered turns of a session. The core only
// reads conversations, never mutates them.
func (r *PostgresRepository) GetConversation(ctx context.Context, sessionID string) ([]model.ConversationTurn, error) {
	query := `
		SELECT role, text, position
		FROM conversation_turns
		WHERE session_id = $1
		ORDER BY position
	`

	turns := []model.ConversationTurn{}
	if err := r.db.SelectContext(ctx, &turns, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to query conversation %s: %w", sessionID, err)
	}

	return turns, nil
}

// SaveQualifiedProfile persists the outcome of a qualification run. The
// duration column has a positive check constraint; the qualifier floors the
// value before it reaches this layer.
func (r *PostgresRepository) SaveQualifiedProfile(ctx context.Context, sessionID string, profile *model.QualifiedProfile) error {
	query := `
		INSERT INTO qualified_profiles (
			session_id, budget, city, area, bedrooms, bathrooms,
			property_type, phone, confidence, discrepancies,
			needs_review, duration_ms, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
	`

	_, err := r.db.ExecContext(ctx, query,
		sessionID,
		profile.Budget,
		profile.City,
		profile.Area,
		profile.Bedrooms,
		profile.Bathrooms,
		profile.PropertyType,
		profile.Phone,
		profile.Confidence,
		profile.Discrepancies,
		profile.NeedsReview,
		profile.DurationMS,
		profile.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to save qualified profile for session %s: %w", sessionID, err)
	}

	return nil
}
