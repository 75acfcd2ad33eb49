package medicalrecord

import (
	"time"

	"github.com/google/uuid"
)

// VitalSigns is stored as jsonb.
type VitalSigns struct {
	Recorded bool   `json:"recorded"`
	Note     string `json:"note,omitempty"`
}

// MedicalRecord maps to the medical_records table.
type MedicalRecord struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	PatientID  uuid.UUID  `db:"patient_id" json:"patient_id"`
	StaffID    uuid.UUID  `db:"staff_id" json:"staff_id"`
	RecordDate time.Time  `db:"record_date" json:"record_date"`
	Diagnosis  string     `db:"diagnosis" json:"diagnosis"`
	Treatment  string     `db:"treatment" json:"treatment"`
	Notes      string     `db:"notes" json:"notes"`
	VitalSigns VitalSigns `db:"vital_signs" json:"vital_signs"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
