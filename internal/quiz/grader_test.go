package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"careerly/internal/core"
	"careerly/test/mocks"
)

func quizFixture() []core.QuizQuestion {
	return []core.QuizQuestion{
		{Question: "Q1", Options: []string{"a", "b"}, CorrectAnswer: "a", Explanation: "E1"},
		{Question: "Q2", Options: []string{"a", "b"}, CorrectAnswer: "b", Explanation: "E2"},
		{Question: "Q3", Options: []string{"a", "b"}, CorrectAnswer: "a", Explanation: "E3"},
	}
}

func TestGradeAndSave_WrongAnswersGetTip(t *testing.T) {
	db := mocks.NewMemoryDB()
	db.AddUser(&core.User{ID: "u1", Industry: "tech"})
	client := mocks.NewModelClient("Focus on fundamentals and practice daily.\n")
	grader := NewGrader(client, db)

	assessment, err := grader.GradeAndSave(context.Background(), "u1", quizFixture(), []string{"a", "a", "b"}, 33.3)
	if err != nil {
		t.Fatalf("GradeAndSave failed: %v", err)
	}

	if assessment.ImprovementTip != "Focus on fundamentals and practice daily." {
		t.Errorf("Expected trimmed tip, got %q", assessment.ImprovementTip)
	}
	if client.CallCount != 1 {
		t.Fatalf("Expected 1 tip call, got %d", client.CallCount)
	}

	// Only the missed questions feed the tip prompt.
	prompt := client.Prompts[0]
	if strings.Contains(prompt, `"Q1"`) {
		t.Errorf("Tip prompt includes a correctly answered question: %q", prompt)
	}
	for _, missed := range []string{`"Q2"`, `"Q3"`} {
		if !strings.Contains(prompt, missed) {
			t.Errorf("Tip prompt missing %s: %q", missed, prompt)
		}
	}

	if !assessment.Questions[0].IsCorrect || assessment.Questions[1].IsCorrect || assessment.Questions[2].IsCorrect {
		t.Errorf("Unexpected grading: %+v", assessment.Questions)
	}
	if assessment.Category != "Technical" {
		t.Errorf("Expected category Technical, got %q", assessment.Category)
	}
	if assessment.ID == "" {
		t.Error("Expected a generated assessment ID")
	}
}

func TestGradeAndSave_PerfectScoreSkipsTip(t *testing.T) {
	db := mocks.NewMemoryDB()
	db.AddUser(&core.User{ID: "u1", Industry: "tech"})
	client := mocks.NewModelClient("should never be called")
	grader := NewGrader(client, db)

	assessment, err := grader.GradeAndSave(context.Background(), "u1", quizFixture(), []string{"a", "b", "a"}, 100)
	if err != nil {
		t.Fatalf("GradeAndSave failed: %v", err)
	}
	if client.CallCount != 0 {
		t.Errorf("Expected no tip call for a perfect score, got %d", client.CallCount)
	}
	if assessment.ImprovementTip != "" {
		t.Errorf("Expected empty tip, got %q", assessment.ImprovementTip)
	}
}

func TestGradeAndSave_TipFailureIsNonFatal(t *testing.T) {
	db := mocks.NewMemoryDB()
	db.AddUser(&core.User{ID: "u1", Industry: "tech"})
	client := mocks.NewModelClient()
	client.Err = errors.New("model unavailable")
	grader := NewGrader(client, db)

	assessment, err := grader.GradeAndSave(context.Background(), "u1", quizFixture(), []string{"b", "a", "b"}, 0)
	if err != nil {
		t.Fatalf("Expected assessment to save despite tip failure, got %v", err)
	}
	if assessment.ImprovementTip != "" {
		t.Errorf("Expected empty tip after failure, got %q", assessment.ImprovementTip)
	}

	saved, err := db.Assessments().ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(saved) != 1 {
		t.Errorf("Expected 1 saved assessment, got %d", len(saved))
	}
}

func TestGradeAndSave_ShortAnswerListMarksMissingWrong(t *testing.T) {
	db := mocks.NewMemoryDB()
	db.AddUser(&core.User{ID: "u1", Industry: "tech"})
	grader := NewGrader(mocks.NewModelClient("tip"), db)

	assessment, err := grader.GradeAndSave(context.Background(), "u1", quizFixture(), []string{"a"}, 33.3)
	if err != nil {
		t.Fatalf("GradeAndSave failed: %v", err)
	}
	if !assessment.Questions[0].IsCorrect {
		t.Error("Expected the answered question to be correct")
	}
	for i := 1; i < 3; i++ {
		if assessment.Questions[i].IsCorrect {
			t.Errorf("Expected unanswered question %d to be wrong", i)
		}
		if assessment.Questions[i].UserAnswer != "" {
			t.Errorf("Expected empty user answer for question %d, got %q", i, assessment.Questions[i].UserAnswer)
		}
	}
}

func TestGradeAndSave_UnknownUser(t *testing.T) {
	grader := NewGrader(mocks.NewModelClient("tip"), mocks.NewMemoryDB())

	if _, err := grader.GradeAndSave(context.Background(), "ghost", quizFixture(), nil, 0); !errors.Is(err, core.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestListAssessments_Order(t *testing.T) {
	db := mocks.NewMemoryDB()
	db.AddUser(&core.User{ID: "u1", Industry: "tech"})
	grader := NewGrader(mocks.NewModelClient("tip"), db)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"second", "first"} {
		db.Assessments().Create(context.Background(), &core.Assessment{
			ID:        id,
			UserID:    "u1",
			CreatedAt: base.Add(time.Duration(1-i) * time.Hour),
		})
	}

	assessments, err := grader.ListAssessments(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListAssessments failed: %v", err)
	}
	if len(assessments) != 2 {
		t.Fatalf("Expected 2 assessments, got %d", len(assessments))
	}
	if assessments[0].ID != "first" || assessments[1].ID != "second" {
		t.Errorf("Expected ascending creation order, got %q then %q", assessments[0].ID, assessments[1].ID)
	}
}

func TestListAssessments_UnknownUser(t *testing.T) {
	grader := NewGrader(mocks.NewModelClient("tip"), mocks.NewMemoryDB())

	if _, err := grader.ListAssessments(context.Background(), "ghost"); !errors.Is(err, core.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
