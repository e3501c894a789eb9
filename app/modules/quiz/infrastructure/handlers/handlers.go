package quizhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vidhyasarthi/vidhyasarthi-api/app/middleware"
	quizservice "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/quiz/application"
	quizdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/quiz/infrastructure/repositories"
	"github.com/vidhyasarthi/vidhyasarthi-api/app/shared"
	"github.com/vidhyasarthi/vidhyasarthi-api/internal/retry"
)

type Handlers struct {
	service *quizservice.Service
	logger  *slog.Logger
}

func NewHandlers(service *quizservice.Service, logger *slog.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// Routes mounts the quiz catalog and authoring endpoints.
func (h *Handlers) Routes(auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.With(auth).Post("/generate", h.Generate)
	r.With(auth).Post("/create", h.Create)
	r.Get("/all", h.OrganizedByExam)
	r.Get("/quizzes", h.ListRecent)
	r.Get("/search", h.Search)
	r.Get("/filter/stream", h.FilterByStream)
	r.Get("/{quizId}", h.Get)
	r.With(auth).Put("/{quizId}", h.Update)
	r.With(auth).Delete("/{quizId}", h.Delete)
	return r
}

type generateRequest struct {
	PrepExam      string `json:"prepExam"`
	Subject       string `json:"subject"`
	NoOfQuestions int    `json:"noOfQuestions"`
}

// Generate drafts a quiz with the generative model. The draft is not
// persisted; the client reviews it and submits via Create.
func (h *Handlers) Generate(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var input generateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil ||
		input.PrepExam == "" || input.Subject == "" || input.NoOfQuestions <= 0 {
		shared.RespondError(w, http.StatusBadRequest, "prepExam, number of questions and subject are required to generate a quiz.")
		return
	}

	quiz, err := h.service.GenerateQuiz(r.Context(), claims.Subject, quizservice.GenerateQuizInput{
		PrepExam:      input.PrepExam,
		Subject:       input.Subject,
		NoOfQuestions: input.NoOfQuestions,
	})
	if err != nil {
		switch {
		case errors.Is(err, quizservice.ErrMalformedResponse):
			shared.RespondError(w, http.StatusInternalServerError, "Invalid format received for quiz.")
		case errors.Is(err, retry.ErrRetriesExhausted):
			shared.RespondError(w, http.StatusServiceUnavailable, "Quiz generation is temporarily unavailable, please try again later.")
		default:
			h.logger.ErrorContext(r.Context(), "failed to generate quiz", "error", err)
			shared.RespondError(w, http.StatusInternalServerError, "Error generating quiz")
		}
		return
	}

	shared.Respond(w, http.StatusCreated, "Quiz generated successfully", quiz)
}

type createRequest struct {
	QuizTitle       string               `json:"quizTitle"`
	QuizDescription string               `json:"quizDescription"`
	Tags            []string             `json:"tags"`
	TotalTime       int                  `json:"totalTime"`
	Subject         string               `json:"subject"`
	ForStreams      []string             `json:"forStreams"`
	QuestionsData   quizdb.QuestionsData `json:"questionsData"`
}

// Create stores an authored quiz.
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var input createRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "Missing required fields: quizTitle, tags, totalTime, subject, forStreams, or questionsData.")
		return
	}

	quiz, err := h.service.CreateQuiz(r.Context(), claims.Subject, quizservice.CreateQuizInput{
		QuizTitle:       input.QuizTitle,
		QuizDescription: input.QuizDescription,
		Tags:            input.Tags,
		TotalTime:       input.TotalTime,
		Subject:         input.Subject,
		ForStreams:      input.ForStreams,
		QuestionsData:   input.QuestionsData,
	})
	if err != nil {
		switch {
		case errors.Is(err, quizservice.ErrInvalidQuiz):
			shared.RespondError(w, http.StatusBadRequest, "Missing required fields: quizTitle, tags, totalTime, subject, forStreams, or questionsData.")
		case errors.Is(err, quizdb.ErrTitleTaken):
			shared.RespondError(w, http.StatusConflict, "Quiz title already exists. Please choose a different title.")
		default:
			h.logger.ErrorContext(r.Context(), "failed to create quiz", "error", err)
			shared.RespondError(w, http.StatusInternalServerError, "Error creating quiz")
		}
		return
	}

	shared.Respond(w, http.StatusCreated, "Quiz created successfully", quiz)
}

// Get fetches a single quiz with its questions.
func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizId")

	quiz, err := h.service.GetQuiz(r.Context(), quizID)
	if err != nil {
		if errors.Is(err, quizdb.ErrQuizNotFound) {
			shared.RespondError(w, http.StatusNotFound, "Quiz not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to fetch quiz", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "Server error while fetching quiz")
		return
	}

	shared.Respond(w, http.StatusOK, "Quiz fetched successfully", quiz)
}

type updateRequest struct {
	Title           string                `json:"title"`
	TimeInMinutes   int                   `json:"timeInMinutes"`
	Subject         string                `json:"subject"`
	SelectedStreams []string              `json:"selectedStreams"`
	QuizDescription string                `json:"quizDescription"`
	QuestionsData   *quizdb.QuestionsData `json:"questionsData"`
}

// Update rewrites quiz metadata and optionally its question set.
func (h *Handlers) Update(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizId")

	var input updateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	quiz, err := h.service.UpdateQuiz(r.Context(), quizID, quizservice.UpdateQuizInput{
		Title:           input.Title,
		TimeInMinutes:   input.TimeInMinutes,
		Subject:         input.Subject,
		SelectedStreams: input.SelectedStreams,
		QuizDescription: input.QuizDescription,
		QuestionsData:   input.QuestionsData,
	})
	if err != nil {
		switch {
		case errors.Is(err, quizservice.ErrInvalidQuiz):
			shared.RespondError(w, http.StatusBadRequest, "Invalid or missing quiz fields")
		case errors.Is(err, quizdb.ErrQuizNotFound):
			shared.RespondError(w, http.StatusNotFound, "Quiz not found")
		case errors.Is(err, quizdb.ErrTitleTaken):
			shared.RespondError(w, http.StatusConflict, "Quiz title already exists. Please choose a different title.")
		default:
			h.logger.ErrorContext(r.Context(), "failed to update quiz", "error", err)
			shared.RespondError(w, http.StatusInternalServerError, "Error updating quiz")
		}
		return
	}

	shared.Respond(w, http.StatusOK, "Quiz updated successfully", quiz)
}

// Delete removes a quiz; only its author may do so.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	quizID := chi.URLParam(r, "quizId")

	if err := h.service.DeleteQuiz(r.Context(), claims.Subject, quizID); err != nil {
		switch {
		case errors.Is(err, quizdb.ErrQuizNotFound):
			shared.RespondError(w, http.StatusNotFound, "Quiz not found")
		case errors.Is(err, quizservice.ErrNotOwner):
			shared.RespondError(w, http.StatusForbidden, "You are not authorized to delete this quiz")
		default:
			h.logger.ErrorContext(r.Context(), "failed to delete quiz", "error", err)
			shared.RespondError(w, http.StatusInternalServerError, "Error deleting quiz")
		}
		return
	}

	shared.Respond(w, http.StatusOK, "Quiz deleted successfully", nil)
}

// ListRecent pages the catalog newest first.
func (h *Handlers) ListRecent(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := paginationParams(r, 1, 12)
	if !ok {
		shared.RespondError(w, http.StatusBadRequest, "Page and limit must be valid numbers")
		return
	}

	result, err := h.service.ListRecent(r.Context(), page, limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list quizzes", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "Server error while fetching quizzes")
		return
	}

	shared.Respond(w, http.StatusOK, "Quizzes fetched successfully", result)
}

// Search matches quizzes by title, subject, tags or description.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	stream := r.URL.Query().Get("stream")
	if query == "" {
		shared.RespondError(w, http.StatusBadRequest, "Search query is required")
		return
	}
	if stream == "" {
		shared.RespondError(w, http.StatusBadRequest, "Stream parameter is required")
		return
	}

	page, limit, ok := paginationParams(r, 1, 12)
	if !ok {
		shared.RespondError(w, http.StatusBadRequest, "Page and limit must be valid numbers")
		return
	}

	result, err := h.service.Search(r.Context(), query, stream, page, limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to search quizzes", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "Error searching quizzes")
		return
	}

	message := "Quizzes found successfully"
	if len(result.Quizzes) == 0 {
		message = "No quizzes found matching your search criteria"
	}
	shared.Respond(w, http.StatusOK, message, result)
}

// FilterByStream pages quizzes targeting one stream.
func (h *Handlers) FilterByStream(w http.ResponseWriter, r *http.Request) {
	stream := r.URL.Query().Get("stream")
	if stream == "" {
		shared.RespondError(w, http.StatusBadRequest, "Stream parameter is required")
		return
	}

	page, limit, ok := paginationParams(r, 1, 12)
	if !ok {
		shared.RespondError(w, http.StatusBadRequest, "Page and limit must be valid numbers")
		return
	}

	result, err := h.service.FilterByStream(r.Context(), stream, page, limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to filter quizzes", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "Error filtering quizzes by stream")
		return
	}

	message := "Quizzes filtered by stream successfully"
	if len(result.Quizzes) == 0 {
		message = "No quizzes found for the specified stream"
	}
	shared.Respond(w, http.StatusOK, message, result)
}

// OrganizedByExam serves the browse page: quizzes bucketed per exam and
// subject.
func (h *Handlers) OrganizedByExam(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.OrganizedByExam(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to organize quizzes", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "Server error while fetching quizzes")
		return
	}

	shared.Respond(w, http.StatusOK, "Quizzes organized successfully", groups)
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
