package triage

// Result is the outcome of a symptom analysis, from either the AI
// analyzer or the deterministic fallback.
type Result struct {
	IsEmergency      bool     `json:"isEmergency"`
	EmergencyDetails string   `json:"emergencyDetails,omitempty"`
	Analysis         string   `json:"analysis"`
	Specialties      []string `json:"specialties"`
	IsFallback       bool     `json:"isFallback,omitempty"`
}

// AnalyzeRequest is the body of a symptom analysis call.
type AnalyzeRequest struct {
	Symptoms string `json:"symptoms"`
}
