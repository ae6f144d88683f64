package triage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/careconnect/careconnect-api/internal/doctors"
	"github.com/careconnect/careconnect-api/pkg/logging"
)

// DoctorLister supplies the doctor directory for recommendations.
type DoctorLister interface {
	List(ctx context.Context) ([]*doctors.Doctor, error)
}

// Handler serves the symptom analysis endpoint.
type Handler struct {
	service *Service
	doctors DoctorLister
	logger  *logging.Logger
}

// NewHandler creates a new triage handler.
func NewHandler(service *Service, doctorLister DoctorLister, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, doctors: doctorLister, logger: logger}
}

// AnalyzeResponse combines the triage result with recommended doctors.
type AnalyzeResponse struct {
	IsEmergency      bool              `json:"isEmergency"`
	EmergencyDetails string            `json:"emergencyDetails,omitempty"`
	Analysis         string            `json:"analysis"`
	Specialties      []string          `json:"specialties"`
	IsFallback       bool              `json:"isFallback,omitempty"`
	Doctors          []*doctors.Doctor `json:"doctors"`
}

// Analyze handles POST /api/symptoms/analyze. A failure while matching
// doctors degrades to an empty doctors list; the analysis still returns.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Analyze(r.Context(), req.Symptoms)
	if err != nil {
		if errors.Is(err, ErrMissingSymptoms) {
			http.Error(w, "Symptoms are required", http.StatusBadRequest)
			return
		}
		h.logger.Error("symptom analysis failed", "error", err)
		http.Error(w, "Failed to analyze symptoms. Please try again later.", http.StatusInternalServerError)
		return
	}

	matched := []*doctors.Doctor{}
	if all, listErr := h.doctors.List(r.Context()); listErr != nil {
		h.logger.Warn("doctor match failed", "error", listErr)
	} else {
		for _, d := range all {
			d.ApplyDisplayDefaults()
		}
		matched = doctors.Match(result.Specialties, all)
	}

	resp := AnalyzeResponse{
		IsEmergency:      result.IsEmergency,
		EmergencyDetails: result.EmergencyDetails,
		Analysis:         result.Analysis,
		Specialties:      result.Specialties,
		IsFallback:       result.IsFallback,
		Doctors:          matched,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
