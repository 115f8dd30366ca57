// Package quiz generates interview practice questions and grades quiz
// submissions into immutable assessment records.
package quiz

import (
	"context"
	"encoding/json"

	"careerly/internal/core"
	"careerly/internal/extract"
	"careerly/internal/persistence"
)

// ContentGenerator is the single model operation this package consumes.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Generator produces interview quizzes for a user's industry and skills.
type Generator struct {
	client ContentGenerator
	db     persistence.Database
}

// NewGenerator creates a quiz generator around an injected model client.
func NewGenerator(client ContentGenerator, db persistence.Database) *Generator {
	return &Generator{client: client, db: db}
}

// GenerateForUser builds a 10-question quiz for the user's industry and
// skill list. The parsed response must contain a questions array; unlike
// insight normalization this is structural validation only, with no
// field-level defaulting.
func (g *Generator) GenerateForUser(ctx context.Context, userID string) ([]core.QuizQuestion, error) {
	user, err := g.db.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Industry == "" {
		return nil, core.ErrMissingIndustry
	}

	raw, err := g.client.GenerateContent(ctx, BuildQuizPrompt(user.Industry, user.Skills))
	if err != nil {
		return nil, &core.GenerationError{Industry: user.Industry, Err: err}
	}

	obj, err := extract.Object(raw)
	if err != nil {
		return nil, &core.GenerationError{Industry: user.Industry, Err: err}
	}

	return parseQuestions(obj)
}

func parseQuestions(obj map[string]any) ([]core.QuizQuestion, error) {
	rawQuestions, ok := obj["questions"].([]any)
	if !ok {
		return nil, &core.InvalidQuizResponseError{Reason: "missing questions array"}
	}

	// Round-trip through JSON to decode the loosely-typed entries.
	encoded, err := json.Marshal(rawQuestions)
	if err != nil {
		return nil, &core.InvalidQuizResponseError{Reason: "questions array is not encodable"}
	}
	var questions []core.QuizQuestion
	if err := json.Unmarshal(encoded, &questions); err != nil {
		return nil, &core.InvalidQuizResponseError{Reason: "questions entries have the wrong shape"}
	}
	if len(questions) == 0 {
		return nil, &core.InvalidQuizResponseError{Reason: "questions array is empty"}
	}
	return questions, nil
}
