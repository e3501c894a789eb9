package userhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidhyasarthi/vidhyasarthi-api/app/middleware"
	userservice "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/user/application"
	userdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/user/infrastructure/repositories"
	"github.com/vidhyasarthi/vidhyasarthi-api/app/shared"
)

type Handlers struct {
	service *userservice.Service
	logger  *slog.Logger
}

func NewHandlers(service *userservice.Service, logger *slog.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// Routes mounts the profile endpoints.
func (h *Handlers) Routes(auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	r.Post("/register", h.Register)
	r.With(auth).Get("/profile", h.Profile)
	r.Put("/make-admin", h.MakeAdmin)
	r.With(auth).Get("/all", h.ListStudents)
	return r
}

type loginRequest struct {
	Email string `json:"email"`
}

// loginResponse extends the shared envelope with the exists flag the
// onboarding flow keys on.
type loginResponse struct {
	shared.Response
	Exists bool `json:"exists"`
}

// Login checks whether the email belongs to a registered user. A hit
// returns the profile and a token; a miss tells the client to onboard.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Email == "" {
		shared.RespondError(w, http.StatusBadRequest, "Email is required")
		return
	}

	result, err := h.service.Login(r.Context(), input.Email)
	if err != nil {
		if errors.Is(err, userdb.ErrUserNotFound) {
			writeLogin(w, http.StatusOK, loginResponse{
				Response: shared.Response{Success: true, Message: "New user, onboarding required"},
				Exists:   false,
			})
			return
		}
		h.logger.ErrorContext(r.Context(), "login failed", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "Server error, please try again later")
		return
	}

	writeLogin(w, http.StatusOK, loginResponse{
		Response: shared.Response{Success: true, Message: "User exists", Data: result},
		Exists:   true,
	})
}

func writeLogin(w http.ResponseWriter, status int, body loginResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type registerRequest struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	PhoneNumber   string `json:"phoneNumber"`
	InstituteName string `json:"instituteName"`
	City          string `json:"city"`
	State         string `json:"state"`
	InstituteType string `json:"instituteType"`
	FullName      string `json:"fullName"`
	Stream        string `json:"stream"`
	PrepExam      string `json:"prepExam"`
	Role          string `json:"role"`
}

// Register onboards a new user.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var input registerRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	result, err := h.service.Register(r.Context(), userservice.RegisterInput{
		Username:      input.Username,
		Email:         input.Email,
		Password:      input.Password,
		PhoneNumber:   input.PhoneNumber,
		InstituteName: input.InstituteName,
		City:          input.City,
		State:         input.State,
		InstituteType: input.InstituteType,
		FullName:      input.FullName,
		Stream:        input.Stream,
		PrepExam:      input.PrepExam,
		Role:          input.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrMissingFields):
			shared.RespondError(w, http.StatusBadRequest, "All fields are required")
		case errors.Is(err, userdb.ErrEmailTaken):
			shared.RespondError(w, http.StatusBadRequest, "This email is already registered")
		case errors.Is(err, userdb.ErrPhoneTaken):
			shared.RespondError(w, http.StatusBadRequest, "This phone number is already registered")
		default:
			h.logger.ErrorContext(r.Context(), "registration failed", "error", err)
			shared.RespondError(w, http.StatusInternalServerError, "Server error, please try again later")
		}
		return
	}

	shared.Respond(w, http.StatusCreated, "User registered successfully", result)
}

// Profile returns the caller's profile.
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	user, err := h.service.Profile(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, userdb.ErrUserNotFound) {
			shared.RespondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "profile lookup failed", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "Server error, please try again later")
		return
	}

	shared.Respond(w, http.StatusOK, "User data retrieved successfully", user)
}

type makeAdminRequest struct {
	Email string `json:"email"`
}

// MakeAdmin promotes a user to the admin role by email.
func (h *Handlers) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	var input makeAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Email == "" {
		shared.RespondError(w, http.StatusBadRequest, "Email is required")
		return
	}

	user, err := h.service.MakeAdmin(r.Context(), input.Email)
	if err != nil {
		if errors.Is(err, userdb.ErrUserNotFound) {
			shared.RespondError(w, http.StatusBadRequest, "User not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "make-admin failed", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "Server error, please try again later")
		return
	}

	shared.Respond(w, http.StatusOK, "User role updated to admin successfully", user)
}

// ListStudents returns every user with the plain "user" role.
func (h *Handlers) ListStudents(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListStudents(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "user listing failed", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "Server error, please try again later")
		return
	}

	shared.Respond(w, http.StatusOK, "Users retrieved successfully", users)
}
