package dto

import "github.com/spec-kit/medical-records-service/internal/domain"

// RecordRequest payload for creating or updating a medical record. The
// nested shapes reuse the domain document types directly.
type RecordRequest struct {
	Patient     domain.Patient      `json:"patient"`
	Diagnoses   []domain.Diagnosis  `json:"diagnosis"`
	Medications []domain.Medication `json:"medications"`
	Allergies   []domain.Allergy    `json:"allergies"`
}
