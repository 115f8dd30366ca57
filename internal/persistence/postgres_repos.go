package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"careerly/internal/core"
)

// uniqueViolation is the Postgres error code for unique-constraint failures.
const uniqueViolation = "23505"

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// postgresUserRepo implements UserRepository for PostgreSQL.
type postgresUserRepo struct {
	db *sql.DB
	tx *sql.Tx
}

func (r *postgresUserRepo) query() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *postgresUserRepo) Get(ctx context.Context, id string) (*core.User, error) {
	query := `SELECT id, email, industry, experience, bio, skills, created_at FROM users WHERE id = $1`
	row := r.query().QueryRowContext(ctx, query, id)

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

func (r *postgresUserRepo) Create(ctx context.Context, user *core.User) error {
	skillsJSON, err := json.Marshal(user.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO users (id, email, industry, experience, bio, skills, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.query().ExecContext(ctx, query,
		user.ID, user.Email, user.Industry, user.Experience, user.Bio, skillsJSON, createdAt,
	)
	if isUniqueViolation(err) {
		return core.ErrDuplicateKey
	}
	return err
}

func (r *postgresUserRepo) UpdateProfile(ctx context.Context, id string, update core.ProfileUpdate) error {
	skillsJSON, err := json.Marshal(update.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}

	query := `UPDATE users SET industry = $2, experience = $3, bio = $4, skills = $5 WHERE id = $1`
	result, err := r.query().ExecContext(ctx, query, id, update.Industry, update.Experience, update.Bio, skillsJSON)
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

// postgresInsightRepo implements InsightRepository for PostgreSQL.
type postgresInsightRepo struct {
	db *sql.DB
	tx *sql.Tx
}

func (r *postgresInsightRepo) query() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const insightColumns = `industry, salary_ranges, growth_rate, demand_level, top_skills, market_outlook, key_trends, recommended_skills, last_updated, next_update`

func (r *postgresInsightRepo) GetByIndustry(ctx context.Context, industry string) (*core.IndustryInsight, error) {
	query := `SELECT ` + insightColumns + ` FROM industry_insights WHERE industry = $1`
	row := r.query().QueryRowContext(ctx, query, industry)

	insight, err := scanInsight(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return insight, nil
}

func (r *postgresInsightRepo) Create(ctx context.Context, insight *core.IndustryInsight) error {
	cols, err := marshalInsight(insight)
	if err != nil {
		return err
	}

	// ON CONFLICT DO NOTHING keeps concurrent first-creators from failing
	// the statement; zero rows affected means another writer won.
	query := `
		INSERT INTO industry_insights (` + insightColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (industry) DO NOTHING
	`
	result, err := r.query().ExecContext(ctx, query,
		insight.Industry, cols.salaryRanges, insight.GrowthRate, insight.DemandLevel,
		cols.topSkills, insight.MarketOutlook, cols.keyTrends, cols.recommendedSkills,
		insight.LastUpdated, insight.NextUpdate,
	)
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

func (r *postgresInsightRepo) Update(ctx context.Context, insight *core.IndustryInsight) error {
	cols, err := marshalInsight(insight)
	if err != nil {
		return err
	}

	query := `
		UPDATE industry_insights
		SET salary_ranges = $2, growth_rate = $3, demand_level = $4, top_skills = $5,
		    market_outlook = $6, key_trends = $7, recommended_skills = $8,
		    last_updated = $9, next_update = $10
		WHERE industry = $1
	`
	result, err := r.query().ExecContext(ctx, query,
		insight.Industry, cols.salaryRanges, insight.GrowthRate, insight.DemandLevel,
		cols.topSkills, insight.MarketOutlook, cols.keyTrends, cols.recommendedSkills,
		insight.LastUpdated, insight.NextUpdate,
	)
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

func (r *postgresInsightRepo) ListIndustries(ctx context.Context) ([]string, error) {
	query := `SELECT industry FROM industry_insights ORDER BY industry`
	rows, err := r.query().QueryContext(ctx, query)
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

type insightJSONColumns struct {
	salaryRanges      []byte
	topSkills         []byte
	keyTrends         []byte
	recommendedSkills []byte
}

func marshalInsight(insight *core.IndustryInsight) (*insightJSONColumns, error) {
	salaryRanges, err := json.Marshal(insight.SalaryRanges)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal salary ranges: %w", err)
	}
	topSkills, err := json.Marshal(insight.TopSkills)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal top skills: %w", err)
	}
	keyTrends, err := json.Marshal(insight.KeyTrends)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key trends: %w", err)
	}
	recommendedSkills, err := json.Marshal(insight.RecommendedSkills)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recommended skills: %w", err)
	}
	return &insightJSONColumns{
		salaryRanges:      salaryRanges,
		topSkills:         topSkills,
		keyTrends:         keyTrends,
		recommendedSkills: recommendedSkills,
	}, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInsight(row rowScanner) (*core.IndustryInsight, error) {
	var insight core.IndustryInsight
	var salaryRanges, topSkills, keyTrends, recommendedSkills []byte

	err := row.Scan(&insight.Industry, &salaryRanges, &insight.GrowthRate, &insight.DemandLevel,
		&topSkills, &insight.MarketOutlook, &keyTrends, &recommendedSkills,
		&insight.LastUpdated, &insight.NextUpdate)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(salaryRanges, &insight.SalaryRanges); err != nil {
		return nil, fmt.Errorf("failed to unmarshal salary ranges: %w", err)
	}
	if err := json.Unmarshal(topSkills, &insight.TopSkills); err != nil {
		return nil, fmt.Errorf("failed to unmarshal top skills: %w", err)
	}
	if err := json.Unmarshal(keyTrends, &insight.KeyTrends); err != nil {
		return nil, fmt.Errorf("failed to unmarshal key trends: %w", err)
	}
	if err := json.Unmarshal(recommendedSkills, &insight.RecommendedSkills); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommended skills: %w", err)
	}
	return &insight, nil
}

// postgresAssessmentRepo implements AssessmentRepository for PostgreSQL.
type postgresAssessmentRepo struct {
	db *sql.DB
	tx *sql.Tx
}

func (r *postgresAssessmentRepo) query() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *postgresAssessmentRepo) Create(ctx context.Context, assessment *core.Assessment) error {
	questionsJSON, err := json.Marshal(assessment.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}

	tip := sql.NullString{String: assessment.ImprovementTip, Valid: assessment.ImprovementTip != ""}

	query := `
		INSERT INTO assessments (id, user_id, quiz_score, questions, category, improvement_tip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.query().ExecContext(ctx, query,
		assessment.ID, assessment.UserID, assessment.QuizScore, questionsJSON,
		assessment.Category, tip, assessment.CreatedAt,
	)
	return err
}

func (r *postgresAssessmentRepo) ListByUser(ctx context.Context, userID string) ([]core.Assessment, error) {
	query := `
		SELECT id, user_id, quiz_score, questions, category, improvement_tip, created_at
		FROM assessments WHERE user_id = $1 ORDER BY created_at ASC
	`
	rows, err := r.query().QueryContext(ctx, query, userID)
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
