package medicalrecord

import (
	"context"

	"github.com/google/uuid"

	"github.com/ehr/hms/internal/platform/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, r *MedicalRecord) error {
	var fields []string
	if r.PatientID == uuid.Nil {
		fields = append(fields, "patient_id is required")
	}
	if r.StaffID == uuid.Nil {
		fields = append(fields, "staff_id is required")
	}
	if r.RecordDate.IsZero() {
		fields = append(fields, "record_date is required")
	}
	if len(fields) > 0 {
		return &apperr.ValidationError{Fields: fields}
	}
	return s.repo.Create(ctx, r)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*MedicalRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*MedicalRecord, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}
