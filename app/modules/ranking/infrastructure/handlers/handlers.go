package rankinghandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vidhyasarthi/vidhyasarthi-api/app/middleware"
	rankingservice "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/ranking/application"
	userdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/user/infrastructure/repositories"
	"github.com/vidhyasarthi/vidhyasarthi-api/app/shared"
)

type Handlers struct {
	service *rankingservice.Service
	logger  *slog.Logger
}

func NewHandlers(service *rankingservice.Service, logger *slog.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// ScoreRoutes mounts the score/leaderboard endpoints.
func (h *Handlers) ScoreRoutes(auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.With(auth).Put("/update", h.UpdateScore)
	r.Get("/leaderboard", h.Leaderboard)
	r.Get("/leaderboard/export", h.ExportLeaderboard)
	r.Get("/leaderboard/{quizId}", h.Leaderboard)
	return r
}

// HistoryRoutes mounts the attempt-history endpoints.
func (h *Handlers) HistoryRoutes(auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth)
	r.Post("/attempt", h.RecordAttempt)
	r.Get("/attempts", h.History)
	r.Get("/quiz-rank/{quizId}", h.QuizRank)
	r.Get("/quiz-rank/{quizId}/chart", h.QuizRankChart)
	return r
}

type updateScoreRequest struct {
	UpdateBy     *int   `json:"updateBy"`
	Subject      string `json:"subject"`
	QuizID       string `json:"quizId"`
	TimeTaken    int    `json:"timeTaken"`
	QuestionData struct {
		NumberOfQues int `json:"numberOfQues"`
	} `json:"questionData"`
}

// UpdateScore records an attempt and adds the delta to the caller's
// cumulative score.
func (h *Handlers) UpdateScore(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var input updateScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.UpdateBy == nil {
		shared.RespondError(w, http.StatusBadRequest, "updateBy must be a number")
		return
	}

	result, err := h.service.SubmitAttempt(r.Context(), claims.Subject, rankingservice.SubmitAttemptInput{
		QuizID:       input.QuizID,
		Subject:      input.Subject,
		UpdateBy:     *input.UpdateBy,
		TimeTaken:    input.TimeTaken,
		NumberOfQues: input.QuestionData.NumberOfQues,
	})
	if err != nil {
		switch {
		case errors.Is(err, rankingservice.ErrNegativeDelta):
			shared.RespondError(w, http.StatusBadRequest, "updateBy must not be negative")
		case errors.Is(err, userdb.ErrUserNotFound):
			shared.RespondError(w, http.StatusNotFound, "User not found")
		default:
			h.logger.ErrorContext(r.Context(), "failed to update score", "error", err)
			shared.RespondError(w, http.StatusInternalServerError, "Server error while updating score")
		}
		return
	}

	shared.Respond(w, http.StatusOK, "Score updated successfully", result)
}

// Leaderboard serves both the global and the per-quiz leaderboard.
func (h *Handlers) Leaderboard(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := paginationParams(r, 1, 10)
	if !ok {
		shared.RespondError(w, http.StatusBadRequest, "Page and limit must be valid numbers")
		return
	}

	query := rankingservice.LeaderboardQuery{
		Page:   page,
		Limit:  limit,
		Stream: r.URL.Query().Get("stream"),
		QuizID: chi.URLParam(r, "quizId"),
	}

	result, err := h.service.GetLeaderboard(r.Context(), query)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to fetch leaderboard", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "Server error while fetching leaderboard")
		return
	}

	message := "Global leaderboard fetched successfully"
	if query.QuizID != "" {
		message = "Per quiz leaderboard fetched successfully"
	}
	shared.Respond(w, http.StatusOK, message, result)
}

// ExportLeaderboard streams the global leaderboard as an XLSX workbook.
func (h *Handlers) ExportLeaderboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.ExportLeaderboard(r.Context(), r.URL.Query().Get("stream"))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to export leaderboard", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "Server error while exporting leaderboard")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="leaderboard.xlsx"`)
	_, _ = w.Write(data)
}

type recordAttemptRequest struct {
	QuizID    string `json:"quizId"`
	TimeTaken *int   `json:"timeTaken"`
}

// RecordAttempt stores a bare attempt-history entry.
func (h *Handlers) RecordAttempt(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var input recordAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.QuizID == "" || input.TimeTaken == nil {
		shared.RespondError(w, http.StatusBadRequest, "quizId and timeTaken are required and timeTaken must be a number")
		return
	}

	attempt, err := h.service.RecordAttempt(r.Context(), claims.Subject, input.QuizID, *input.TimeTaken)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to record attempt", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "Server error while recording quiz attempt")
		return
	}

	shared.Respond(w, http.StatusCreated, "Quiz attempt recorded successfully", attempt)
}

// History returns the caller's attempt history.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	attempts, err := h.service.History(r.Context(), claims.Subject)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to fetch history", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "Server error while fetching quiz history")
		return
	}

	shared.Respond(w, http.StatusOK, "Quiz attempts fetched successfully", attempts)
}

// QuizRank returns the caller's rank summary for a quiz.
func (h *Handlers) QuizRank(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	quizID := chi.URLParam(r, "quizId")

	rank, err := h.service.GetQuizRank(r.Context(), claims.Subject, quizID)
	if err != nil {
		if errors.Is(err, rankingservice.ErrNoAttempts) {
			shared.RespondError(w, http.StatusNotFound, "No attempts found for this quiz")
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to fetch quiz rank", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "Server error while fetching quiz rank")
		return
	}

	message := "Rank fetched successfully"
	if rank.Rank == nil {
		message = "User hasn't attempted this quiz yet"
	}
	shared.Respond(w, http.StatusOK, message, rank)
}

// QuizRankChart renders the best-score distribution as a PNG.
func (h *Handlers) QuizRankChart(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizId")

	png, err := h.service.RenderScoreDistribution(r.Context(), quizID)
	if err != nil {
		if errors.Is(err, rankingservice.ErrNoAttempts) {
			shared.RespondError(w, http.StatusNotFound, "No attempts found for this quiz")
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to render rank chart", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "Server error while rendering chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func paginationParams(r *http.Request, defaultPage, defaultLimit int) (page, limit int, ok bool) {
	page, limit = defaultPage, defaultLimit

	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, false
		}
		page = n
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, false
		}
		limit = n
	}
	return page, limit, true
}
