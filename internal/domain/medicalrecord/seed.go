package medicalrecord

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultDiagnosis    = "Initial assessment pending"
	DefaultTreatment    = "No current treatment"
	NoKnownAllergies    = "No known allergies"
	VitalsNotRecorded   = "Vital signs not recorded at registration"
	allergiesNotePrefix = "Allergies: "
)

// SeedInput is the registration data a seed record is derived from.
type SeedInput struct {
	PatientID          uuid.UUID
	StaffID            uuid.UUID
	ChronicConditions  string
	CurrentMedications string
	Allergies          []string
}

// NewSeed builds the first medical record written for a newly registered
// patient. The record is dated on the calendar day of now.
func NewSeed(in SeedInput, now time.Time) *MedicalRecord {
	diagnosis := strings.TrimSpace(in.ChronicConditions)
	if diagnosis == "" {
		diagnosis = DefaultDiagnosis
	}
	treatment := strings.TrimSpace(in.CurrentMedications)
	if treatment == "" {
		treatment = DefaultTreatment
	}

	notes := NoKnownAllergies
	if len(in.Allergies) > 0 {
		notes = allergiesNotePrefix + strings.Join(in.Allergies, ", ")
	}

	y, m, d := now.Date()
	return &MedicalRecord{
		PatientID:  in.PatientID,
		StaffID:    in.StaffID,
		RecordDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Diagnosis:  diagnosis,
		Treatment:  treatment,
		Notes:      notes,
		VitalSigns: VitalSigns{Recorded: false, Note: VitalsNotRecorded},
	}
}
