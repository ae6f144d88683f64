package accounts

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/careconnect/careconnect-api/pkg/logging"
)

// Handler handles HTTP requests for signup and login.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new accounts handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// SignupResponse is returned after a successful registration.
type SignupResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}

// Signup handles POST /api/auth/signup requests.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields), errors.Is(err, ErrInvalidRole), errors.Is(err, ErrEmailTaken):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("signup failed", "error", err)
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, SignupResponse{
		Message: "User created successfully",
		User:    user,
	})
}

// Login handles POST /api/auth/login requests.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.Error("login failed", "error", err)
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
