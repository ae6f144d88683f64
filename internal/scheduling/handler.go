package scheduling

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/careconnect/careconnect-api/internal/identity"
	"github.com/careconnect/careconnect-api/pkg/logging"
)

// Handler handles HTTP requests for appointments.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new scheduling handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// BookResponse is returned after a successful booking.
type BookResponse struct {
	Message     string       `json:"message"`
	Appointment *Appointment `json:"appointment"`
}

// Book handles POST /api/appointments/book requests.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	claims, ok := identity.ClaimsFromContext(r.Context())
	if !ok || !claims.IsPatient() {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.service.Book(r.Context(), claims, &req)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BookResponse{
		Message:     "Appointment booked successfully",
		Appointment: appt,
	})
}

func (h *Handler) writeBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		http.Error(w, "Missing required fields", http.StatusBadRequest)
	case errors.Is(err, ErrDoctorNotFound):
		http.Error(w, "Doctor not found", http.StatusNotFound)
	case errors.Is(err, ErrDoctorUnavailable):
		http.Error(w, ErrDoctorUnavailable.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrVideoNotSupported):
		http.Error(w, ErrVideoNotSupported.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrSlotTaken):
		http.Error(w, ErrSlotTaken.Error(), http.StatusConflict)
	default:
		h.logger.Error("booking failed", "error", err)
		http.Error(w, "Failed to book appointment", http.StatusInternalServerError)
	}
}

// UpdateStatus handles PATCH /api/appointments/{id} requests.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.service.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrAppointmentNotFound):
			http.Error(w, "Appointment not found", http.StatusNotFound)
		case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInvalidTransition):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("status update failed", "error", err, "appointment_id", id)
			http.Error(w, "Failed to update appointment", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]*Appointment{"appointment": appt})
}

// Cancel handles DELETE /api/appointments/{id} requests.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Cancel(r.Context(), id); err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			http.Error(w, "Appointment not found", http.StatusNotFound)
			return
		}
		h.logger.Error("cancel failed", "error", err, "appointment_id", id)
		http.Error(w, "Failed to cancel appointment", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment cancelled successfully"})
}

// ListForPatient handles GET /api/appointments/patient for the
// authenticated patient.
func (h *Handler) ListForPatient(w http.ResponseWriter, r *http.Request) {
	claims, ok := identity.ClaimsFromContext(r.Context())
	if !ok || !claims.IsPatient() {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	appts, err := h.service.ListByPatient(r.Context(), claims.PatientID)
	if err != nil {
		h.logger.Error("patient listing failed", "error", err, "patient_id", claims.PatientID)
		http.Error(w, "Failed to fetch appointments", http.StatusInternalServerError)
		return
	}
	if appts == nil {
		appts = []*Appointment{}
	}

	writeJSON(w, http.StatusOK, map[string][]*Appointment{"appointments": appts})
}

// ListForDoctor handles GET /api/doctors/appointments; accepts either a
// doctorId or a userId query parameter.
func (h *Handler) ListForDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID := r.URL.Query().Get("doctorId")
	userID := r.URL.Query().Get("userId")

	appts, err := h.service.ListByDoctor(r.Context(), doctorID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrDoctorNotFound):
			http.Error(w, "Doctor not found", http.StatusNotFound)
		case errors.Is(err, ErrInvalidRequest):
			http.Error(w, "Doctor ID required", http.StatusBadRequest)
		default:
			h.logger.Error("doctor listing failed", "error", err)
			http.Error(w, "Failed to fetch appointments", http.StatusInternalServerError)
		}
		return
	}
	if appts == nil {
		appts = []*Appointment{}
	}

	writeJSON(w, http.StatusOK, map[string][]*Appointment{"appointments": appts})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
