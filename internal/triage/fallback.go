package triage

import (
	"fmt"
	"strings"
)

// emergencyKeywords flag symptoms that need immediate attention. They are
// checked independently of the specialty categories.
var emergencyKeywords = []string{
	"chest pain",
	"heart attack",
	"stroke",
	"severe bleeding",
	"difficulty breathing",
	"unconscious",
	"seizure",
	"cant breathe",
	"breathing problem",
}

type fallbackCategory struct {
	specialty string
	keywords  []string
	analysis  string
}

// fallbackCategories are evaluated in order; the first category with a
// keyword hit wins. Keywords include Hindi/Urdu transliterations ("pet
// dard" stomachache, "sar dard" headache) so non-English input still
// routes somewhere sensible.
var fallbackCategories = []fallbackCategory{
	{
		specialty: "Cardiology",
		keywords:  []string{"heart", "chest"},
		analysis: "• Based on your symptoms: %q\n" +
			"• Chest pain can indicate various conditions from mild to serious\n" +
			"• Possible causes include heart disease, acid reflux, muscle strain, anxiety\n" +
			"• The severity, duration, and associated symptoms are crucial for diagnosis\n" +
			"• Please consult with a healthcare professional immediately",
	},
	{
		specialty: "Neurology",
		keywords:  []string{"head", "brain", "dard", "sar"},
		analysis: "• Based on your symptoms: %q\n" +
			"• Headaches can range from mild to severe and have various causes\n" +
			"• Possible causes include tension headaches, migraines, sinus infections, dehydration, eye strain\n" +
			"• The severity, location, duration, and associated symptoms are crucial for diagnosis\n" +
			"• Please consult with a healthcare professional for proper diagnosis",
	},
	{
		specialty: "Gastroenterology",
		keywords:  []string{"stomach", "digestive", "pet", "abdomen"},
		analysis: "• Based on your symptoms: %q\n" +
			"• Abdominal pain can indicate various digestive system issues\n" +
			"• Possible causes include gastritis, ulcers, IBS, food poisoning, appendicitis\n" +
			"• The location, severity, duration, and associated symptoms are crucial for diagnosis\n" +
			"• Please consult with a healthcare professional for proper diagnosis",
	},
	{
		specialty: "Pulmonology",
		keywords:  []string{"breathing", "lung", "respiratory", "breathe", "cant breathe"},
		analysis: "• Based on your symptoms: %q\n" +
			"• Breathing problems can indicate various respiratory conditions\n" +
			"• Possible causes include asthma, bronchitis, pneumonia, anxiety, allergies, COPD\n" +
			"• The severity, duration, and associated symptoms are crucial for diagnosis\n" +
			"• If severe, please seek immediate medical attention\n" +
			"• Please consult with a healthcare professional for proper diagnosis",
	},
	{
		specialty: "Dermatology",
		keywords:  []string{"skin", "rash"},
		analysis: "• Based on your symptoms: %q\n" +
			"• Skin conditions can range from mild irritation to serious infections\n" +
			"• Possible causes include allergies, infections, autoimmune conditions, contact dermatitis\n" +
			"• The appearance, location, duration, and associated symptoms are crucial for diagnosis\n" +
			"• Please consult with a healthcare professional for proper diagnosis",
	},
	{
		specialty: "Orthopedics",
		keywords:  []string{"bone", "joint", "muscle"},
		analysis: "• Based on your symptoms: %q\n" +
			"• Joint and muscle pain can indicate various musculoskeletal conditions\n" +
			"• Possible causes include arthritis, injury, overuse, inflammation, nerve compression\n" +
			"• The location, severity, duration, and associated symptoms are crucial for diagnosis\n" +
			"• Please consult with a healthcare professional for proper diagnosis",
	},
}

const defaultFallbackAnalysis = "• Based on your symptoms: %q\n" +
	"• This is a preliminary analysis using our local system\n" +
	"• Please consult with a healthcare professional for proper diagnosis"

const emergencyDetails = "Please seek immediate medical attention"

// AnalyzeFallback classifies symptoms with keyword matching. It is pure
// and cannot fail, which makes it the safety net behind the AI analyzer.
func AnalyzeFallback(symptoms string) *Result {
	lower := strings.ToLower(symptoms)

	result := &Result{
		Analysis:    fmt.Sprintf(defaultFallbackAnalysis, symptoms),
		Specialties: []string{"General Medicine"},
		IsFallback:  true,
	}

	for _, kw := range emergencyKeywords {
		if strings.Contains(lower, kw) {
			result.IsEmergency = true
			result.EmergencyDetails = emergencyDetails
			break
		}
	}

	for _, cat := range fallbackCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				result.Specialties = []string{cat.specialty}
				result.Analysis = fmt.Sprintf(cat.analysis, symptoms)
				return result
			}
		}
	}
	return result
}
