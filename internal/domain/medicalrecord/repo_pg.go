package medicalrecord

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ehr/hms/internal/platform/db"
)

type recordRepoPG struct {
	q db.Querier
}

func NewRepo(q db.Querier) Repository {
	return &recordRepoPG{q: q}
}

const recordCols = `id, patient_id, staff_id, record_date, diagnosis, treatment, notes, vital_signs, created_at`

func (r *recordRepoPG) Create(ctx context.Context, rec *MedicalRecord) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO medical_records (patient_id, staff_id, record_date, diagnosis, treatment, notes, vital_signs)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		rec.PatientID, rec.StaffID, rec.RecordDate, rec.Diagnosis, rec.Treatment, rec.Notes, rec.VitalSigns,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert medical record: %w", err)
	}
	return nil
}

func (r *recordRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error) {
	rec, err := scanRecord(r.q.QueryRow(ctx, `SELECT `+recordCols+` FROM medical_records WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get medical record %s: %w", id, err)
	}
	return rec, nil
}

func (r *recordRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*MedicalRecord, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM medical_records WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count medical records: %w", err)
	}

	rows, err := r.q.Query(ctx, `SELECT `+recordCols+` FROM medical_records
		WHERE patient_id = $1 ORDER BY record_date DESC, created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list medical records: %w", err)
	}
	defer rows.Close()

	var out []*MedicalRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}

func scanRecord(row pgx.Row) (*MedicalRecord, error) {
	var rec MedicalRecord
	err := row.Scan(&rec.ID, &rec.PatientID, &rec.StaffID, &rec.RecordDate,
		&rec.Diagnosis, &rec.Treatment, &rec.Notes, &rec.VitalSigns, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
