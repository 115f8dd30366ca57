// Package scheduler wires up the cron job that periodically regenerates
// insights for every industry on file.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"careerly/internal/core"
	"careerly/internal/logger"
	"careerly/internal/persistence"
)

// DefaultSpec runs the sweep every Sunday at midnight.
const DefaultSpec = "0 0 * * 0"

// InsightRefresher regenerates and overwrites the stored insight for one
// industry. *insights.Service satisfies it.
type InsightRefresher interface {
	Refresh(ctx context.Context, industry string) (*core.IndustryInsight, error)
}

// Scheduler wraps robfig/cron and manages the weekly refresh sweep.
type Scheduler struct {
	cron      *cron.Cron
	insights  persistence.InsightRepository
	refresher InsightRefresher
	spec      string
	log       *slog.Logger
}

// New creates a Scheduler firing on the given cron spec.
func New(insights persistence.InsightRepository, refresher InsightRefresher, spec string) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	return &Scheduler{
		cron:      cron.New(),
		insights:  insights,
		refresher: refresher,
		spec:      spec,
		log:       logger.Get(),
	}
}

// Start registers the sweep job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if err := s.RunSweep(ctx); err != nil {
			s.log.Error("refresh sweep finished with failures", "error", err.Error())
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.Info("refresh scheduler started", "spec", s.spec)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("refresh scheduler stopped")
}

// RunSweep regenerates insights for every distinct industry currently on
// file. Industries are processed sequentially and independently: one
// industry's failure is logged and collected without aborting the rest.
func (s *Scheduler) RunSweep(ctx context.Context) error {
	industries, err := s.insights.ListIndustries(ctx)
	if err != nil {
		return fmt.Errorf("failed to list industries: %w", err)
	}

	if len(industries) == 0 {
		s.log.Info("refresh sweep found no industries on file")
		return nil
	}

	s.log.Info("refresh sweep started", "industries", len(industries))

	var failures []error
	for _, industry := range industries {
		if _, err := s.refresher.Refresh(ctx, industry); err != nil {
			s.log.Warn("industry refresh failed", "industry", industry, "error", err)
			failures = append(failures, fmt.Errorf("industry %q: %w", industry, err))
			continue
		}
		s.log.Debug("industry refreshed", "industry", industry)
	}

	s.log.Info("refresh sweep complete",
		"industries", len(industries), "failed", len(failures))
	return errors.Join(failures...)
}
