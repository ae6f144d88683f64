package triage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/careconnect/careconnect-api/internal/doctors"
	"github.com/careconnect/careconnect-api/pkg/logging"
)

type failingLister struct{}

func (failingLister) List(ctx context.Context) ([]*doctors.Doctor, error) {
	return nil, errors.New("db down")
}

func seedDoctors(t *testing.T) *doctors.InMemoryRepository {
	t.Helper()
	repo := doctors.NewInMemoryRepository()
	for _, d := range []doctors.Doctor{
		{ID: "doc-cardio", Name: "Dr. Pomfrey", Specialty: "Cardiology"},
		{ID: "doc-neuro", Name: "Dr. Lupin", Specialty: "Neurology"},
		{ID: "doc-general", Name: "Dr. McGonagall", Specialty: "General Medicine"},
	} {
		doc := d
		if _, err := repo.Create(context.Background(), &doc); err != nil {
			t.Fatalf("seed doctor: %v", err)
		}
	}
	return repo
}

// A failing AI path still yields a full response: emergency flags from
// the fallback plus doctors matched on the fallback specialty.
func TestHandlerAnalyzeEmergencyFallback(t *testing.T) {
	svc := NewService(&stubAnalyzer{err: errors.New("503")}, nil, 0, nil, logging.Default())
	h := NewHandler(svc, seedDoctors(t), logging.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/symptoms/analyze",
		strings.NewReader(`{"symptoms":"chest pain and cant breathe"}`))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AnalyzeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.IsEmergency {
		t.Error("expected emergency flag")
	}
	if resp.EmergencyDetails != "Please seek immediate medical attention" {
		t.Errorf("unexpected emergency details %q", resp.EmergencyDetails)
	}
	if len(resp.Specialties) != 1 || resp.Specialties[0] != "Cardiology" {
		t.Errorf("expected [Cardiology], got %v", resp.Specialties)
	}
	if !resp.IsFallback {
		t.Error("expected fallback marker")
	}
	if len(resp.Doctors) != 1 || resp.Doctors[0].ID != "doc-cardio" {
		t.Errorf("expected the cardiologist, got %+v", resp.Doctors)
	}
}

func TestHandlerAnalyzeAIResult(t *testing.T) {
	svc := NewService(&stubAnalyzer{result: &Result{
		Analysis:    "• Likely migraine\n• See Neurology",
		Specialties: []string{"Neurology"},
	}}, nil, 0, nil, logging.Default())
	h := NewHandler(svc, seedDoctors(t), logging.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/symptoms/analyze",
		strings.NewReader(`{"symptoms":"sar dard"}`))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	var resp AnalyzeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.IsFallback {
		t.Error("AI result must not be marked fallback")
	}
	if len(resp.Doctors) != 1 || resp.Doctors[0].ID != "doc-neuro" {
		t.Errorf("expected the neurologist, got %+v", resp.Doctors)
	}
}

func TestHandlerAnalyzeMissingSymptoms(t *testing.T) {
	svc := NewService(nil, nil, 0, nil, logging.Default())
	h := NewHandler(svc, seedDoctors(t), logging.Default())

	for _, body := range []string{`{}`, `{"symptoms":""}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/symptoms/analyze", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Analyze(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Symptoms are required") {
			t.Errorf("body %s: unexpected error %q", body, rec.Body.String())
		}
	}
}

func TestHandlerAnalyzeMalformedBody(t *testing.T) {
	svc := NewService(nil, nil, 0, nil, logging.Default())
	h := NewHandler(svc, seedDoctors(t), logging.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/symptoms/analyze", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// Doctor lookup failures degrade to an empty doctors array, never a 500.
func TestHandlerAnalyzeDegradesWithoutDoctors(t *testing.T) {
	svc := NewService(nil, nil, 0, nil, logging.Default())
	h := NewHandler(svc, failingLister{}, logging.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/symptoms/analyze",
		strings.NewReader(`{"symptoms":"rash"}`))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp AnalyzeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Doctors == nil || len(resp.Doctors) != 0 {
		t.Errorf("expected empty doctors array, got %+v", resp.Doctors)
	}
	if resp.Specialties[0] != "Dermatology" {
		t.Errorf("analysis must still arrive, got %v", resp.Specialties)
	}
}
