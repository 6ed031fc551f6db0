package service

import (
	"context"

	"github.com/spec-kit/medical-records-service/internal/domain"
	"github.com/spec-kit/medical-records-service/internal/events"
	"github.com/spec-kit/medical-records-service/internal/repository"
	apperrors "github.com/spec-kit/medical-records-service/pkg/util"
)

// RecordService coordinates medical record workflows.
type RecordService struct {
	records    repository.RecordRepository
	dispatcher events.Dispatcher
}

// RecordDependencies bundles requirements for record service.
type RecordDependencies struct {
	RecordRepo repository.RecordRepository
	Dispatcher events.Dispatcher
}

// RecordInput describes a record create or update payload.
type RecordInput struct {
	Patient     domain.Patient
	Diagnoses   []domain.Diagnosis
	Medications []domain.Medication
	Allergies   []domain.Allergy
}

// RecordFilter describes listing pagination.
type RecordFilter struct {
	Limit  int
	Offset int
}

// NewRecordService constructs the service.
func NewRecordService(deps RecordDependencies) *RecordService {
	return &RecordService{
		records:    deps.RecordRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateRecord validates and stores a new record, stamping the acting user.
func (s *RecordService) CreateRecord(ctx context.Context, actor *domain.User, input RecordInput) (*domain.MedicalRecord, error) {
	if err := validateRecordInput(input); err != nil {
		return nil, err
	}

	record := &domain.MedicalRecord{
		Patient:         input.Patient,
		Diagnoses:       emptyIfNilDiagnoses(input.Diagnoses),
		Medications:     emptyIfNilMedications(input.Medications),
		Allergies:       emptyIfNilAllergies(input.Allergies),
		LastUpdatedByID: actor.ID,
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.EventRecordCreated, actor.ID, events.RecordMutationPayload{RecordID: record.ID}))
	return record, nil
}

// UpdateRecord replaces the document content of an existing record.
func (s *RecordService) UpdateRecord(ctx context.Context, actor *domain.User, id string, input RecordInput) (*domain.MedicalRecord, error) {
	if err := validateRecordInput(input); err != nil {
		return nil, err
	}

	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record.Patient = input.Patient
	record.Diagnoses = emptyIfNilDiagnoses(input.Diagnoses)
	record.Medications = emptyIfNilMedications(input.Medications)
	record.Allergies = emptyIfNilAllergies(input.Allergies)
	record.LastUpdatedByID = actor.ID

	if err := s.records.Update(ctx, record); err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.EventRecordUpdated, actor.ID, events.RecordMutationPayload{RecordID: record.ID}))
	return record, nil
}

// GetRecord fetches one record by id.
func (s *RecordService) GetRecord(ctx context.Context, id string) (*domain.MedicalRecord, error) {
	return s.records.GetByID(ctx, id)
}

// ListRecords returns a page of records, most recently updated first.
func (s *RecordService) ListRecords(ctx context.Context, filter RecordFilter) ([]domain.MedicalRecord, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	return s.records.List(ctx, limit, offset)
}

// DeleteRecord removes a record.
func (s *RecordService) DeleteRecord(ctx context.Context, actor *domain.User, id string) error {
	if err := s.records.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.New(events.EventRecordDeleted, actor.ID, events.RecordMutationPayload{RecordID: id}))
	return nil
}

func validateRecordInput(input RecordInput) error {
	if input.Patient.FirstName == "" || input.Patient.LastName == "" {
		return apperrors.NewBadRequest("patient first and last name required")
	}
	if input.Patient.DateOfBirth.IsZero() {
		return apperrors.NewBadRequest("patient date of birth required")
	}
	if !domain.ValidGender(input.Patient.Gender) {
		return apperrors.NewBadRequest("patient gender must be male, female or other")
	}
	for _, d := range input.Diagnoses {
		if d.Condition == "" || d.DiagnosedDate.IsZero() || d.TreatingDoctorID == "" {
			return apperrors.NewBadRequest("diagnosis requires condition, diagnosedDate and treatingDoctorId")
		}
	}
	for _, m := range input.Medications {
		if m.Name == "" || m.Dosage == "" || m.Frequency == "" || m.PrescribedByID == "" {
			return apperrors.NewBadRequest("medication requires name, dosage, frequency and prescribedById")
		}
	}
	for _, a := range input.Allergies {
		if a.Severity != "" && !domain.ValidSeverity(a.Severity) {
			return apperrors.NewBadRequest("allergy severity must be mild, moderate or severe")
		}
	}
	return nil
}

func emptyIfNilDiagnoses(in []domain.Diagnosis) []domain.Diagnosis {
	if in == nil {
		return []domain.Diagnosis{}
	}
	return in
}

func emptyIfNilMedications(in []domain.Medication) []domain.Medication {
	if in == nil {
		return []domain.Medication{}
	}
	return in
}

func emptyIfNilAllergies(in []domain.Allergy) []domain.Allergy {
	if in == nil {
		return []domain.Allergy{}
	}
	return in
}

func (s *RecordService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
