package cmd

import (
	"context"
	"fmt"

	"careerly/internal/cache"
	"careerly/internal/config"
	"careerly/internal/insights"
	"careerly/internal/llm"
	"careerly/internal/logger"
	"careerly/internal/persistence"
	"careerly/internal/quiz"
	"careerly/internal/store"
	"careerly/internal/users"
)

// app bundles the wired collaborators every command starts from. The model
// client is constructed here once and injected; nothing holds it globally.
type app struct {
	cfg      *config.Config
	db       persistence.Database
	client   *llm.Client
	insights *insights.Service
	quizzes  *quiz.Generator
	grader   *quiz.Grader
	users    *users.Service
	cache    *cache.InsightCache
}

// newApp loads configuration and wires the service graph. withModel skips
// the Gemini client for commands that never generate (e.g. migrate).
func newApp(ctx context.Context, withModel bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, db: db}

	if withModel {
		client, err := llm.NewClient(cfg.AI.Gemini.Model)
		if err != nil {
			db.Close()
			return nil, err
		}
		a.client = client

		gen := insights.NewGenerator(client)
		a.insights = insights.NewService(db, gen)
		a.quizzes = quiz.NewGenerator(client, db)
		a.grader = quiz.NewGrader(client, db)
	}
	a.users = users.NewService(db)

	if cfg.Cache.RedisURL != "" && a.insights != nil {
		insightCache, err := cache.New(ctx, cfg.Cache.RedisURL, cfg.Cache.CacheTTL())
		if err != nil {
			logger.Warn("redis cache unavailable, continuing without it", "error", err.Error())
		} else {
			a.cache = insightCache
			a.insights.WithCache(insightCache)
		}
	}

	return a, nil
}

// openDatabase selects Postgres when a URL is configured, otherwise the
// local SQLite store under the data directory.
func openDatabase(cfg *config.Config) (persistence.Database, error) {
	if cfg.Database.URL != "" {
		db, err := persistence.NewPostgresDB(cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return db, nil
	}

	db, err := store.NewStore(cfg.App.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	return db, nil
}

func (a *app) close() {
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if a.client != nil {
		_ = a.client.Close()
	}
	_ = a.db.Close()
}
