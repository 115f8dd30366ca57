// Package store is the SQLite-backed implementation of the persistence
// interfaces, used for local runs when no Postgres URL is configured.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"careerly/internal/core"
	"careerly/internal/persistence"
)

// Store is the SQLite database handle.
type Store struct {
	db   *sql.DB
	path string

	users       persistence.UserRepository
	insights    persistence.InsightRepository
	assessments persistence.AssessmentRepository
}

// NewStore opens (creating if necessary) the SQLite database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "careerly.db")
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	s.users = &sqliteUserRepo{db: db}
	s.insights = &sqliteInsightRepo{db: db}
	s.assessments = &sqliteAssessmentRepo{db: db}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

func (s *Store) initialize() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			industry TEXT NOT NULL DEFAULT '',
			experience INTEGER NOT NULL DEFAULT 0,
			bio TEXT NOT NULL DEFAULT '',
			skills TEXT NOT NULL DEFAULT '[]',
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS industry_insights (
			industry TEXT PRIMARY KEY,
			salary_ranges TEXT NOT NULL DEFAULT '[]',
			growth_rate REAL NOT NULL DEFAULT 0,
			demand_level TEXT NOT NULL DEFAULT 'Medium',
			top_skills TEXT NOT NULL DEFAULT '[]',
			market_outlook TEXT NOT NULL DEFAULT 'Neutral',
			key_trends TEXT NOT NULL DEFAULT '[]',
			recommended_skills TEXT NOT NULL DEFAULT '[]',
			last_updated DATETIME NOT NULL,
			next_update DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS assessments (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			quiz_score REAL NOT NULL,
			questions TEXT NOT NULL,
			category TEXT NOT NULL,
			improvement_tip TEXT,
			created_at DATETIME NOT NULL
		)`,
	}

	for _, table := range tables {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

func (s *Store) Users() persistence.UserRepository             { return s.users }
func (s *Store) Insights() persistence.InsightRepository       { return s.insights }
func (s *Store) Assessments() persistence.AssessmentRepository { return s.assessments }
func (s *Store) Ping(ctx context.Context) error                { return s.db.PingContext(ctx) }
func (s *Store) Close() error                                  { return s.db.Close() }

// InTx runs fn against transaction-scoped repositories.
func (s *Store) InTx(ctx context.Context, timeout time.Duration, fn func(tx persistence.Database) error) error {
	txCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txStore := &sqliteTxStore{
		users:       &sqliteUserRepo{tx: tx},
		insights:    &sqliteInsightRepo{tx: tx},
		assessments: &sqliteAssessmentRepo{tx: tx},
	}

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (after: %w)", rbErr, err)
		}
		return err
	}
	return tx.Commit()
}

type sqliteTxStore struct {
	users       persistence.UserRepository
	insights    persistence.InsightRepository
	assessments persistence.AssessmentRepository
}

func (t *sqliteTxStore) Users() persistence.UserRepository             { return t.users }
func (t *sqliteTxStore) Insights() persistence.InsightRepository       { return t.insights }
func (t *sqliteTxStore) Assessments() persistence.AssessmentRepository { return t.assessments }
func (t *sqliteTxStore) Ping(ctx context.Context) error                { return nil }
func (t *sqliteTxStore) Close() error                                  { return nil }

func (t *sqliteTxStore) InTx(ctx context.Context, timeout time.Duration, fn func(tx persistence.Database) error) error {
	return fmt.Errorf("nested transactions are not supported")
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// sqliteUserRepo implements persistence.UserRepository for SQLite.
type sqliteUserRepo struct {
	db *sql.DB
	tx *sql.Tx
}

func (r *sqliteUserRepo) query() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *sqliteUserRepo) Get(ctx context.Context, id string) (*core.User, error) {
	row := r.query().QueryRowContext(ctx,
		`SELECT id, email, industry, experience, bio, skills, created_at FROM users WHERE id = ?`, id)

	var user core.User
	var skillsJSON []byte
	err := row.Scan(&user.ID, &user.Email, &user.Industry, &user.Experience, &user.Bio, &skillsJSON, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrUserNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(skillsJSON, &user.Skills); err != nil {
		return nil, fmt.Errorf("failed to unmarshal skills: %w", err)
	}
	return &user, nil
}

func (r *sqliteUserRepo) Create(ctx context.Context, user *core.User) error {
	skillsJSON, err := json.Marshal(user.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = r.query().ExecContext(ctx,
		`INSERT INTO users (id, email, industry, experience, bio, skills, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Industry, user.Experience, user.Bio, skillsJSON, createdAt)
	if isUniqueViolation(err) {
		return core.ErrDuplicateKey
	}
	return err
}

func (r *sqliteUserRepo) UpdateProfile(ctx context.Context, id string, update core.ProfileUpdate) error {
	skillsJSON, err := json.Marshal(update.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}

	result, err := r.query().ExecContext(ctx,
		`UPDATE users SET industry = ?, experience = ?, bio = ?, skills = ? WHERE id = ?`,
		update.Industry, update.Experience, update.Bio, skillsJSON, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return core.ErrUserNotFound
	}
	return nil
}

// sqliteInsightRepo implements persistence.InsightRepository for SQLite.
type sqliteInsightRepo struct {
	db *sql.DB
	tx *sql.Tx
}

func (r *sqliteInsightRepo) query() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *sqliteInsightRepo) GetByIndustry(ctx context.Context, industry string) (*core.IndustryInsight, error) {
	row := r.query().QueryRowContext(ctx, `
		SELECT industry, salary_ranges, growth_rate, demand_level, top_skills,
		       market_outlook, key_trends, recommended_skills, last_updated, next_update
		FROM industry_insights WHERE industry = ?`, industry)

	var insight core.IndustryInsight
	var salaryRanges, topSkills, keyTrends, recommendedSkills []byte
	err := row.Scan(&insight.Industry, &salaryRanges, &insight.GrowthRate, &insight.DemandLevel,
		&topSkills, &insight.MarketOutlook, &keyTrends, &recommendedSkills,
		&insight.LastUpdated, &insight.NextUpdate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}

	for _, col := range []struct {
		data []byte
		dst  any
	}{
		{salaryRanges, &insight.SalaryRanges},
		{topSkills, &insight.TopSkills},
		{keyTrends, &insight.KeyTrends},
		{recommendedSkills, &insight.RecommendedSkills},
	} {
		if err := json.Unmarshal(col.data, col.dst); err != nil {
			return nil, fmt.Errorf("failed to unmarshal insight column: %w", err)
		}
	}
	return &insight, nil
}

func (r *sqliteInsightRepo) Create(ctx context.Context, insight *core.IndustryInsight) error {
	cols, err := marshalInsightColumns(insight)
	if err != nil {
		return err
	}

	result, err := r.query().ExecContext(ctx, `
		INSERT INTO industry_insights (industry, salary_ranges, growth_rate, demand_level, top_skills,
			market_outlook, key_trends, recommended_skills, last_updated, next_update)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (industry) DO NOTHING`,
		insight.Industry, cols[0], insight.GrowthRate, insight.DemandLevel, cols[1],
		insight.MarketOutlook, cols[2], cols[3], insight.LastUpdated, insight.NextUpdate)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrDuplicateKey
		}
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return core.ErrDuplicateKey
	}
	return nil
}

func (r *sqliteInsightRepo) Update(ctx context.Context, insight *core.IndustryInsight) error {
	cols, err := marshalInsightColumns(insight)
	if err != nil {
		return err
	}

	result, err := r.query().ExecContext(ctx, `
		UPDATE industry_insights
		SET salary_ranges = ?, growth_rate = ?, demand_level = ?, top_skills = ?,
		    market_outlook = ?, key_trends = ?, recommended_skills = ?, last_updated = ?, next_update = ?
		WHERE industry = ?`,
		cols[0], insight.GrowthRate, insight.DemandLevel, cols[1],
		insight.MarketOutlook, cols[2], cols[3], insight.LastUpdated, insight.NextUpdate,
		insight.Industry)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *sqliteInsightRepo) ListIndustries(ctx context.Context) ([]string, error) {
	rows, err := r.query().QueryContext(ctx, `SELECT industry FROM industry_insights ORDER BY industry`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var industries []string
	for rows.Next() {
		var industry string
		if err := rows.Scan(&industry); err != nil {
			return nil, err
		}
		industries = append(industries, industry)
	}
	return industries, rows.Err()
}

// marshalInsightColumns returns the JSON columns in declaration order:
// salary_ranges, top_skills, key_trends, recommended_skills.
func marshalInsightColumns(insight *core.IndustryInsight) ([4][]byte, error) {
	var cols [4][]byte
	for i, src := range []any{insight.SalaryRanges, insight.TopSkills, insight.KeyTrends, insight.RecommendedSkills} {
		data, err := json.Marshal(src)
		if err != nil {
			return cols, fmt.Errorf("failed to marshal insight column: %w", err)
		}
		cols[i] = data
	}
	return cols, nil
}

// sqliteAssessmentRepo implements persistence.AssessmentRepository for SQLite.
type sqliteAssessmentRepo struct {
	db *sql.DB
	tx *sql.Tx
}

func (r *sqliteAssessmentRepo) query() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *sqliteAssessmentRepo) Create(ctx context.Context, assessment *core.Assessment) error {
	questionsJSON, err := json.Marshal(assessment.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}
	tip := sql.NullString{String: assessment.ImprovementTip, Valid: assessment.ImprovementTip != ""}

	_, err = r.query().ExecContext(ctx, `
		INSERT INTO assessments (id, user_id, quiz_score, questions, category, improvement_tip, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		assessment.ID, assessment.UserID, assessment.QuizScore, questionsJSON,
		assessment.Category, tip, assessment.CreatedAt)
	return err
}

func (r *sqliteAssessmentRepo) ListByUser(ctx context.Context, userID string) ([]core.Assessment, error) {
	rows, err := r.query().QueryContext(ctx, `
		SELECT id, user_id, quiz_score, questions, category, improvement_tip, created_at
		FROM assessments WHERE user_id = ? ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assessments []core.Assessment
	for rows.Next() {
		var a core.Assessment
		var questionsJSON []byte
		var tip sql.NullString
		err := rows.Scan(&a.ID, &a.UserID, &a.QuizScore, &questionsJSON, &a.Category, &tip, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(questionsJSON, &a.Questions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
		}
		a.ImprovementTip = tip.String
		assessments = append(assessments, a)
	}
	return assessments, rows.Err()
}
