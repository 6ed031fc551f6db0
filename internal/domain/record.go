package domain

import "time"

// Gender values accepted on patient demographics.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ValidGender reports whether the gender is one of the known values.
func ValidGender(g Gender) bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// AllergySeverity grades an allergy entry.
type AllergySeverity string

const (
	SeverityMild     AllergySeverity = "mild"
	SeverityModerate AllergySeverity = "moderate"
	SeveritySevere   AllergySeverity = "severe"
)

// ValidSeverity reports whether the severity is one of the known values.
func ValidSeverity(s AllergySeverity) bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// Patient holds demographic data embedded in a record.
type Patient struct {
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	Gender      Gender    `json:"gender"`
}

// Diagnosis is a single diagnosed condition within a record.
type Diagnosis struct {
	Condition        string    `json:"condition"`
	DiagnosedDate    time.Time `json:"diagnosedDate"`
	Notes            string    `json:"notes,omitempty"`
	TreatingDoctorID string    `json:"treatingDoctorId"`
}

// Medication is a prescribed medication within a record.
type Medication struct {
	Name           string     `json:"name"`
	Dosage         string     `json:"dosage"`
	Frequency      string     `json:"frequency"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	PrescribedByID string     `json:"prescribedById"`
}

// Allergy is a recorded allergy within a record.
type Allergy struct {
	Allergen string          `json:"allergen"`
	Severity AllergySeverity `json:"severity,omitempty"`
	Reaction string          `json:"reaction,omitempty"`
}

// MedicalRecord is the document aggregate for one patient chart. The nested
// collections are persisted as JSONB, keeping the document shape intact.
type MedicalRecord struct {
	ID              string       `json:"id"`
	Patient         Patient      `json:"patient"`
	Diagnoses       []Diagnosis  `json:"diagnosis"`
	Medications     []Medication `json:"medications"`
	Allergies       []Allergy    `json:"allergies"`
	LastUpdatedByID string       `json:"lastUpdatedBy"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}
