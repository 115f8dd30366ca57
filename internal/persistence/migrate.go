package persistence

import (
	"context"
	"fmt"
)

// schema holds the DDL for the PostgreSQL backend. Statements are idempotent
// so Migrate can run on every deploy.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		industry TEXT NOT NULL DEFAULT '',
		experience INTEGER NOT NULL DEFAULT 0,
		bio TEXT NOT NULL DEFAULT '',
		skills JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS industry_insights (
		industry TEXT PRIMARY KEY,
		salary_ranges JSONB NOT NULL DEFAULT '[]',
		growth_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		demand_level TEXT NOT NULL DEFAULT 'Medium',
		top_skills JSONB NOT NULL DEFAULT '[]',
		market_outlook TEXT NOT NULL DEFAULT 'Neutral',
		key_trends JSONB NOT NULL DEFAULT '[]',
		recommended_skills JSONB NOT NULL DEFAULT '[]',
		last_updated TIMESTAMPTZ NOT NULL,
		next_update TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS assessments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		quiz_score DOUBLE PRECISION NOT NULL,
		questions JSONB NOT NULL,
		category TEXT NOT NULL,
		improvement_tip TEXT,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assessments_user_created ON assessments (user_id, created_at)`,
}

// Migrate creates the tables and indexes if they do not exist.
func (p *PostgresDB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
