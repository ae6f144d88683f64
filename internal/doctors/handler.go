package doctors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/careconnect/careconnect-api/internal/identity"
	"github.com/careconnect/careconnect-api/pkg/logging"
)

// Handler handles HTTP requests for the doctor directory.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new doctors handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListDoctorsResponse is the response for the public doctor listing.
type ListDoctorsResponse struct {
	Doctors []*Doctor `json:"doctors"`
}

// List handles GET /api/doctors requests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list doctors", "error", err)
		http.Error(w, "Failed to fetch doctors. Please try again later.", http.StatusInternalServerError)
		return
	}

	for _, d := range list {
		d.ApplyDisplayDefaults()
	}

	writeJSON(w, http.StatusOK, ListDoctorsResponse{Doctors: list})
}

// GetProfile handles GET /api/doctors/profile for the authenticated doctor.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := identity.ClaimsFromContext(r.Context())
	if !ok || !claims.IsDoctor() {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	doc, err := h.repo.GetByID(r.Context(), claims.DoctorID)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			http.Error(w, "Doctor not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load doctor profile", "error", err, "doctor_id", claims.DoctorID)
		http.Error(w, "Failed to fetch profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*Doctor{"doctor": doc})
}

// UpdateProfile handles PATCH /api/doctors/profile for the authenticated doctor.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := identity.ClaimsFromContext(r.Context())
	if !ok || !claims.IsDoctor() {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	doc, err := h.repo.UpdateProfile(r.Context(), claims.DoctorID, &req)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			http.Error(w, "Doctor not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to update doctor profile", "error", err, "doctor_id", claims.DoctorID)
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	h.logger.Info("doctor profile updated", "doctor_id", doc.ID)
	writeJSON(w, http.StatusOK, map[string]*Doctor{"doctor": doc})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
