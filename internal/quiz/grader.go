package quiz

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"careerly/internal/core"
	"careerly/internal/logger"
	"careerly/internal/persistence"
)

// Grader scores quiz submissions and persists them as assessments.
type Grader struct {
	client ContentGenerator
	db     persistence.Database
	log    *slog.Logger
	now    func() time.Time
}

// NewGrader creates a quiz grader.
func NewGrader(client ContentGenerator, db persistence.Database) *Grader {
	return &Grader{
		client: client,
		db:     db,
		log:    logger.Get(),
		now:    time.Now,
	}
}

// GradeAndSave pairs each question with the user's answer by position,
// marks correctness by exact string equality against the correct answer,
// and persists one immutable Assessment. When any answers are wrong, a
// single improvement tip is generated from only the missed questions; tip
// generation failure is non-fatal and the assessment is saved without one.
func (g *Grader) GradeAndSave(ctx context.Context, userID string, questions []core.QuizQuestion, answers []string, score float64) (*core.Assessment, error) {
	user, err := g.db.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	results := make([]core.QuestionResult, len(questions))
	var wrong []core.QuestionResult
	for i, q := range questions {
		userAnswer := ""
		if i < len(answers) {
			userAnswer = answers[i]
		}
		results[i] = core.QuestionResult{
			Question:    q.Question,
			Answer:      q.CorrectAnswer,
			UserAnswer:  userAnswer,
			IsCorrect:   q.CorrectAnswer == userAnswer,
			Explanation: q.Explanation,
		}
		if !results[i].IsCorrect {
			wrong = append(wrong, results[i])
		}
	}

	improvementTip := ""
	if len(wrong) > 0 {
		tip, err := g.client.GenerateContent(ctx, BuildImprovementPrompt(user.Industry, wrong))
		if err != nil {
			g.log.Warn("improvement tip generation failed, saving assessment without one",
				"user_id", userID, "error", err)
		} else {
			improvementTip = strings.TrimSpace(tip)
		}
	}

	assessment := &core.Assessment{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		QuizScore:      score,
		Questions:      results,
		Category:       "Technical",
		ImprovementTip: improvementTip,
		CreatedAt:      g.now().UTC(),
	}

	if err := g.db.Assessments().Create(ctx, assessment); err != nil {
		return nil, &core.PersistenceError{Op: "assessment create", Err: err}
	}
	return assessment, nil
}

// ListAssessments returns the user's assessments ordered by creation time
// ascending.
func (g *Grader) ListAssessments(ctx context.Context, userID string) ([]core.Assessment, error) {
	if _, err := g.db.Users().Get(ctx, userID); err != nil {
		return nil, err
	}
	assessments, err := g.db.Assessments().ListByUser(ctx, userID)
	if err != nil {
		return nil, &core.PersistenceError{Op: "assessment list", Err: err}
	}
	return assessments, nil
}
