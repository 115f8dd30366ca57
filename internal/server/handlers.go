package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"careerly/internal/core"
)

var serverStartTime = time.Now()

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// StatusResponse is the /api/status payload.
type StatusResponse struct {
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	if err := s.db.Ping(r.Context()); err != nil {
		checks["database"] = "error"
		s.respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status: "unhealthy",
			Checks: checks,
		})
		return
	}
	checks["database"] = "ok"

	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Checks: checks,
	})
}

// handleStatus handles GET /api/status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, StatusResponse{
		Version: "v1.2.0",
		Uptime:  time.Since(serverStartTime).String(),
	})
}

// handleGetInsights handles GET /api/insights: the on-demand get-or-refresh
// path for the current user's industry.
func (s *Server) handleGetInsights(w http.ResponseWriter, r *http.Request) {
	insight, err := s.insights.GetOrRefresh(r.Context(), currentUserID(r))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, insight)
}

// handleGenerateQuiz handles POST /api/quiz.
func (s *Server) handleGenerateQuiz(w http.ResponseWriter, r *http.Request) {
	questions, err := s.quizzes.GenerateForUser(r.Context(), currentUserID(r))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

// submitAssessmentRequest is the POST /api/assessments body.
type submitAssessmentRequest struct {
	Questions []core.QuizQuestion `json:"questions"`
	Answers   []string            `json:"answers"`
	Score     float64             `json:"score"`
}

// handleSubmitAssessment handles POST /api/assessments.
func (s *Server) handleSubmitAssessment(w http.ResponseWriter, r *http.Request) {
	var req submitAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.Questions) == 0 {
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "questions are required"})
		return
	}

	assessment, err := s.grader.GradeAndSave(r.Context(), currentUserID(r), req.Questions, req.Answers, req.Score)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, assessment)
}

// handleListAssessments handles GET /api/assessments.
func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	assessments, err := s.grader.ListAssessments(r.Context(), currentUserID(r))
	if err != nil {
		s.respondError(w, err)
		return
	}
	if assessments == nil {
		assessments = []core.Assessment{}
	}
	s.respondJSON(w, http.StatusOK, assessments)
}

// handleUpdateProfile handles PUT /api/profile.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update core.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), currentUserID(r), update)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, user)
}

// handleOnboardingStatus handles GET /api/profile/onboarding.
func (s *Server) handleOnboardingStatus(w http.ResponseWriter, r *http.Request) {
	onboarded, err := s.users.IsOnboarded(r.Context(), currentUserID(r))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"isOnboarded": onboarded})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("failed to encode response", "error", err.Error())
	}
}

// respondError maps the closed error set onto HTTP statuses. Raw model
// excerpts stay in the logs; callers only see a clear failure message.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	var (
		genErr     *core.GenerationError
		aiErr      *core.InvalidAIResponseError
		quizErr    *core.InvalidQuizResponseError
		persistErr *core.PersistenceError
	)

	switch {
	case errors.Is(err, core.ErrUnauthorized):
		s.respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	case errors.Is(err, core.ErrUserNotFound):
		s.respondJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
	case errors.Is(err, core.ErrMissingIndustry):
		s.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "industry is required; complete onboarding first"})
	case errors.As(err, &genErr), errors.As(err, &aiErr), errors.As(err, &quizErr):
		s.log.Error("generation failed", "error", err.Error())
		s.respondJSON(w, http.StatusBadGateway, map[string]string{"error": "failed to generate content"})
	case errors.As(err, &persistErr):
		s.log.Error("persistence failed", "error", err.Error())
		s.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	default:
		s.log.Error("request failed", "error", err.Error())
		s.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
