package triage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Analyzer produces a triage result for free-text symptoms.
type Analyzer interface {
	Analyze(ctx context.Context, symptoms string) (*Result, error)
}

const analyzePromptTemplate = `You are a medical symptom analyzer. Analyze the following symptoms and provide a structured response in JSON format.

IMPORTANT: The symptoms may be in any language (English, Hindi, Urdu, etc.). Common translations:
- "pet dard" = stomachache/abdominal pain
- "sar dard" = headache
- "chest pain" = chest pain
- "breathing problem" = respiratory issues

Symptoms: %s

Please provide a JSON response with the following structure:
{
  "isEmergency": boolean,
  "emergencyDetails": string (if emergency, otherwise null),
  "analysis": string (detailed analysis with bullet points, each point on a new line starting with "•"),
  "specialties": string[] (recommended medical specialties)
}

Important:
- If symptoms suggest a medical emergency (chest pain, severe bleeding, difficulty breathing, etc.), set isEmergency to true
- Provide a detailed analysis with bullet points (each point on a new line starting with "•") and in the analysis, do not ask the user for more information, and in the last point, suggest the most relevant medical specialization based on the symptoms.
- Recommend 2-3 relevant medical specialties
- Respond ONLY with valid JSON, no additional text`

// GeminiAnalyzer implements Analyzer with Google's Gemini API.
type GeminiAnalyzer struct {
	client  *genai.Client
	modelID string
}

// NewGeminiAnalyzer creates a Gemini-backed analyzer.
func NewGeminiAnalyzer(ctx context.Context, apiKey, modelID string) (*GeminiAnalyzer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("triage: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("triage: failed to create gemini client: %w", err)
	}

	return &GeminiAnalyzer{client: client, modelID: modelID}, nil
}

// Analyze sends the symptoms to Gemini and parses the structured reply.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, symptoms string) (*Result, error) {
	model := a.client.GenerativeModel(a.modelID)
	model.SetTemperature(0.3)
	model.SetMaxOutputTokens(1000)

	prompt := fmt.Sprintf(analyzePromptTemplate, symptoms)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("triage: gemini completion failed: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, errors.New("triage: gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, errors.New("triage: gemini returned empty content")
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	return ParseAnalysis(text.String())
}

// Close releases resources held by the Gemini client.
func (a *GeminiAnalyzer) Close() error {
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}

var (
	fencedJSON  = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	fencedPlain = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// ParseAnalysis extracts and validates the JSON body of a model reply.
// The model sometimes wraps the JSON in a fenced code block.
func ParseAnalysis(text string) (*Result, error) {
	body := strings.TrimSpace(text)
	if m := fencedJSON.FindStringSubmatch(body); m != nil {
		body = m[1]
	} else if m := fencedPlain.FindStringSubmatch(body); m != nil {
		body = m[1]
	}

	var raw struct {
		IsEmergency      *bool    `json:"isEmergency"`
		EmergencyDetails string   `json:"emergencyDetails"`
		Analysis         *string  `json:"analysis"`
		Specialties      []string `json:"specialties"`
	}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("triage: parse ai response: %w", err)
	}
	if raw.IsEmergency == nil || raw.Analysis == nil || raw.Specialties == nil {
		return nil, errors.New("triage: invalid response structure")
	}

	return &Result{
		IsEmergency:      *raw.IsEmergency,
		EmergencyDetails: raw.EmergencyDetails,
		Analysis:         *raw.Analysis,
		Specialties:      raw.Specialties,
	}, nil
}
