// Package users handles profile onboarding: the transactional profile
// update that seeds an industry's insight row, and onboarding status.
package users

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"careerly/internal/core"
	"careerly/internal/logger"
	"careerly/internal/persistence"
)

// ProfileTxTimeout bounds the combined insight-seed + profile-update
// transaction. An order of magnitude above single-statement latency because
// future callers may generate insights synchronously inside it.
const ProfileTxTimeout = 10 * time.Second

// Service updates user profiles and reports onboarding state.
type Service struct {
	db  persistence.Database
	log *slog.Logger
	now func() time.Time
}

// NewService creates the users service.
func NewService(db persistence.Database) *Service {
	return &Service{
		db:  db,
		log: logger.Get(),
		now: time.Now,
	}
}

// UpdateProfile writes the user's onboarding fields and guarantees an
// IndustryInsight row exists for the chosen industry, all inside one
// bounded transaction. A missing industry row is seeded with placeholder
// defaults; its empty salary data makes the next insight read regenerate it.
func (s *Service) UpdateProfile(ctx context.Context, userID string, update core.ProfileUpdate) (*core.User, error) {
	if strings.TrimSpace(update.Industry) == "" {
		return nil, core.ErrMissingIndustry
	}
	if _, err := s.db.Users().Get(ctx, userID); err != nil {
		return nil, err
	}

	err := s.db.InTx(ctx, ProfileTxTimeout, func(tx persistence.Database) error {
		_, err := tx.Insights().GetByIndustry(ctx, update.Industry)
		if errors.Is(err, core.ErrNotFound) {
			placeholder := core.PlaceholderInsight(update.Industry, s.now().UTC())
			if err := tx.Insights().Create(ctx, placeholder); err != nil && !errors.Is(err, core.ErrDuplicateKey) {
				return err
			}
		} else if err != nil {
			return err
		}

		return tx.Users().UpdateProfile(ctx, userID, update)
	})
	if err != nil {
		return nil, &core.PersistenceError{Op: "profile update", Err: err}
	}

	return s.db.Users().Get(ctx, userID)
}

// IsOnboarded reports whether the user has chosen an industry yet.
func (s *Service) IsOnboarded(ctx context.Context, userID string) (bool, error) {
	user, err := s.db.Users().Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.Industry != "", nil
}
