package doctors

import (
	"encoding/json"
	"time"
)

// Default display values applied when a doctor has not filled in a field.
const (
	defaultSpecialty = "General Medicine"
	defaultDetail    = "Not specified"
	defaultFee       = "Contact for pricing"
	defaultImage     = "https://images.unsplash.com/photo-1559839734-2b71ea197ec2?auto=format&fit=crop&q=80&w=200&h=200"
)

// Doctor represents a doctor profile joined with its user account.
type Doctor struct {
	ID                string    `json:"id"`
	UserID            string    `json:"-"`
	Name              string    `json:"name"`
	Email             string    `json:"email,omitempty"`
	Specialty         string    `json:"specialty"`
	Experience        string    `json:"experience"`
	Location          string    `json:"location"`
	Address           string    `json:"address"`
	Expertise         []string  `json:"expertise"`
	Languages         []string  `json:"languages"`
	ConsultationFee   string    `json:"consultationFee"`
	Available         bool      `json:"available"`
	VideoConsultation bool      `json:"videoConsultation"`
	Image             string    `json:"image"`
	CreatedAt         time.Time `json:"-"`
}

// ApplyDisplayDefaults fills empty profile fields with the placeholder values
// the listing endpoints have always returned.
func (d *Doctor) ApplyDisplayDefaults() {
	if d.Specialty == "" {
		d.Specialty = defaultSpecialty
	}
	if d.Experience == "" {
		d.Experience = defaultDetail
	}
	if d.Location == "" {
		d.Location = defaultDetail
	}
	if d.Address == "" {
		d.Address = defaultDetail
	}
	if len(d.Expertise) == 0 {
		d.Expertise = []string{"General Practice"}
	}
	if len(d.Languages) == 0 {
		d.Languages = []string{"English"}
	}
	if d.ConsultationFee == "" {
		d.ConsultationFee = defaultFee
	}
	if d.Image == "" {
		d.Image = defaultImage
	}
}

// StringList accepts either a JSON array of strings or a single string,
// normalizing the latter to a one-element slice. Older clients submit
// expertise and languages as plain strings.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*s = []string{single}
	return nil
}

// UpdateProfileRequest is the payload for a doctor editing their own profile.
type UpdateProfileRequest struct {
	Specialty         string     `json:"specialty"`
	Experience        string     `json:"experience"`
	Location          string     `json:"location"`
	Address           string     `json:"address"`
	Expertise         StringList `json:"expertise"`
	Languages         StringList `json:"languages"`
	ConsultationFee   string     `json:"consultationFee"`
	Available         bool       `json:"available"`
	VideoConsultation bool       `json:"videoConsultation"`
}
