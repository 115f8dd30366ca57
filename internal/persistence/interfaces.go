// Package persistence provides the database abstraction for users, industry
// insights, and assessments, plus the PostgreSQL implementation.
package persistence

import (
	"context"
	"time"

	"careerly/internal/core"
)

// UserRepository handles user profile persistence.
type UserRepository interface {
	// Get retrieves a user by id, returning core.ErrUserNotFound when absent.
	Get(ctx context.Context, id string) (*core.User, error)

	// Create inserts a new user.
	Create(ctx context.Context, user *core.User) error

	// UpdateProfile updates the onboarding fields of an existing user.
	UpdateProfile(ctx context.Context, id string, update core.ProfileUpdate) error
}

// InsightRepository handles IndustryInsight persistence. Industry is the
// unique key; Create surfaces core.ErrDuplicateKey when another writer won
// a concurrent first-creation, so callers can read back the winner.
type InsightRepository interface {
	// GetByIndustry retrieves the insight for an industry, returning
	// core.ErrNotFound when none exists.
	GetByIndustry(ctx context.Context, industry string) (*core.IndustryInsight, error)

	// Create inserts a new insight, returning core.ErrDuplicateKey when the
	// industry already has one.
	Create(ctx context.Context, insight *core.IndustryInsight) error

	// Update overwrites the insight for insight.Industry. It never creates.
	Update(ctx context.Context, insight *core.IndustryInsight) error

	// ListIndustries returns every distinct industry currently on file.
	ListIndustries(ctx context.Context) ([]string, error)
}

// AssessmentRepository handles quiz assessment persistence. Assessments are
// immutable once created.
type AssessmentRepository interface {
	// Create inserts a new assessment.
	Create(ctx context.Context, assessment *core.Assessment) error

	// ListByUser retrieves a user's assessments ordered by creation time
	// ascending.
	ListByUser(ctx context.Context, userID string) ([]core.Assessment, error)
}

// Database bundles the repositories with transaction support.
type Database interface {
	Users() UserRepository
	Insights() InsightRepository
	Assessments() AssessmentRepository

	// InTx runs fn against transaction-scoped repositories, committing on nil
	// and rolling back otherwise. The timeout bounds the whole unit of work;
	// callers whose transactions include a synchronous model call pass a
	// budget well above single-statement latency.
	InTx(ctx context.Context, timeout time.Duration, fn func(tx Database) error) error

	Ping(ctx context.Context) error
	Close() error
}
