package insights

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"careerly/internal/core"
	"careerly/internal/logger"
	"careerly/internal/persistence"
)

// InsightCacher is an optional read-through cache for fresh insights.
// *cache.InsightCache satisfies it.
type InsightCacher interface {
	Get(ctx context.Context, industry string) (*core.IndustryInsight, error)
	Set(ctx context.Context, insight *core.IndustryInsight) error
}

// Service orchestrates the on-demand insight path: read the stored record,
// create it when absent, and regenerate it when stale.
type Service struct {
	db    persistence.Database
	gen   *Generator
	cache InsightCacher
	log   *slog.Logger
	now   func() time.Time
}

// NewService creates the insight service.
func NewService(db persistence.Database, gen *Generator) *Service {
	return &Service{
		db:  db,
		gen: gen,
		log: logger.Get(),
		now: time.Now,
	}
}

// WithCache attaches an optional response cache. Cached entries are only
// served while they would not be considered stale.
func (s *Service) WithCache(cache InsightCacher) *Service {
	s.cache = cache
	return s
}

// GetOrRefresh returns the insight for the user's industry, generating it on
// first access and regenerating it when stale. Regeneration failures on the
// refresh path are logged and the existing record is served instead; insight
// availability is prioritized over freshness. On the creation path there is
// nothing to fall back to, so generation failures propagate.
func (s *Service) GetOrRefresh(ctx context.Context, userID string) (*core.IndustryInsight, error) {
	user, err := s.db.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Industry == "" {
		return nil, core.ErrMissingIndustry
	}

	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, user.Industry); err == nil && hit != nil && !IsStale(hit, s.now()) {
			return hit, nil
		}
	}

	existing, err := s.db.Insights().GetByIndustry(ctx, user.Industry)
	if errors.Is(err, core.ErrNotFound) {
		created, err := s.createFirst(ctx, user.Industry)
		if err != nil {
			return nil, err
		}
		s.cachePut(ctx, created)
		return created, nil
	}
	if err != nil {
		return nil, &core.PersistenceError{Op: "insight lookup", Err: err}
	}

	if !IsStale(existing, s.now()) {
		s.cachePut(ctx, existing)
		return existing, nil
	}

	fresh, err := s.Refresh(ctx, user.Industry)
	if err != nil {
		s.log.Warn("insight refresh failed, serving stale record",
			"industry", user.Industry, "error", err)
		return existing, nil
	}
	s.cachePut(ctx, fresh)
	return fresh, nil
}

// cachePut writes through to the optional cache, best effort.
func (s *Service) cachePut(ctx context.Context, insight *core.IndustryInsight) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, insight); err != nil {
		s.log.Debug("insight cache write failed", "industry", insight.Industry, "error", err)
	}
}

// Refresh regenerates the insight for an industry and overwrites the stored
// record. Update-only: it never creates. The scheduler uses this directly.
func (s *Service) Refresh(ctx context.Context, industry string) (*core.IndustryInsight, error) {
	fresh, err := s.gen.Generate(ctx, industry)
	if err != nil {
		return nil, err
	}
	if err := s.db.Insights().Update(ctx, fresh); err != nil {
		return nil, &core.PersistenceError{Op: "insight update", Err: err}
	}
	return fresh, nil
}

// createFirst generates and persists the first insight for an industry. Two
// concurrent first-callers may race here; the store's unique constraint is
// the source of truth, and the loser reads back the winner's record instead
// of erroring.
func (s *Service) createFirst(ctx context.Context, industry string) (*core.IndustryInsight, error) {
	fresh, err := s.gen.Generate(ctx, industry)
	if err != nil {
		return nil, err
	}

	err = s.db.Insights().Create(ctx, fresh)
	if errors.Is(err, core.ErrDuplicateKey) {
		winner, readErr := s.db.Insights().GetByIndustry(ctx, industry)
		if readErr != nil {
			return nil, &core.PersistenceError{Op: "insight reread after duplicate create", Err: readErr}
		}
		return winner, nil
	}
	if err != nil {
		return nil, &core.PersistenceError{Op: "insight create", Err: err}
	}
	return fresh, nil
}
