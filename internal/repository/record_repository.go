package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/medical-records-service/internal/domain"
)

// RecordRepository encapsulates medical record persistence. The nested
// patient, diagnosis, medication and allergy collections live in JSONB
// columns, preserving the document shape of a record.
type RecordRepository interface {
	Create(ctx context.Context, record *domain.MedicalRecord) error
	Update(ctx context.Context, record *domain.MedicalRecord) error
	GetByID(ctx context.Context, id string) (*domain.MedicalRecord, error)
	List(ctx context.Context, limit, offset int) ([]domain.MedicalRecord, error)
	Delete(ctx context.Context, id string) error
}

type recordRepository struct {
	pool *pgxpool.Pool
}

// NewRecordRepository instantiates repository.
func NewRecordRepository(pool *pgxpool.Pool) RecordRepository {
	return &recordRepository{pool: pool}
}

func (r *recordRepository) Create(ctx context.Context, record *domain.MedicalRecord) error {
	const query = `
        INSERT INTO medical_records (patient, diagnoses, medications, allergies, last_updated_by)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		record.Patient,
		record.Diagnoses,
		record.Medications,
		record.Allergies,
		record.LastUpdatedByID,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
}

func (r *recordRepository) Update(ctx context.Context, record *domain.MedicalRecord) error {
	const query = `
        UPDATE medical_records
        SET patient=$1, diagnoses=$2, medications=$3, allergies=$4, last_updated_by=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		record.Patient,
		record.Diagnoses,
		record.Medications,
		record.Allergies,
		record.LastUpdatedByID,
		record.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *recordRepository) GetByID(ctx context.Context, id string) (*domain.MedicalRecord, error) {
	const query = `
        SELECT id, patient, diagnoses, medications, allergies, last_updated_by, created_at, updated_at
        FROM medical_records WHERE id=$1`

	var record domain.MedicalRecord
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&record.ID,
		&record.Patient,
		&record.Diagnoses,
		&record.Medications,
		&record.Allergies,
		&record.LastUpdatedByID,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *recordRepository) List(ctx context.Context, limit, offset int) ([]domain.MedicalRecord, error) {
	const query = `
        SELECT id, patient, diagnoses, medications, allergies, last_updated_by, created_at, updated_at
        FROM medical_records ORDER BY updated_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.MedicalRecord
	for rows.Next() {
		var record domain.MedicalRecord
		if err := rows.Scan(
			&record.ID,
			&record.Patient,
			&record.Diagnoses,
			&record.Medications,
			&record.Allergies,
			&record.LastUpdatedByID,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *recordRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM medical_records WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
