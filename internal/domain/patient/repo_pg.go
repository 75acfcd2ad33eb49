package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ehr/hms/internal/platform/db"
)

type patientRepoPG struct {
	q db.Querier
}

func NewRepo(q db.Querier) Repository {
	return &patientRepoPG{q: q}
}

const patientCols = `id, first_name, last_name, date_of_birth, gender, marital_status,
	address, city, state, zip_code, phone, email, blood_type,
	allergies, current_medications, past_surgeries, chronic_conditions,
	emergency_contact_name, emergency_contact_relationship, emergency_contact_phone,
	insurance_provider, insurance_id, insurance_group_number, insurance_policy_holder,
	insurance_relationship_to_patient,
	status, created_at, updated_at`

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO patients (
			first_name, last_name, date_of_birth, gender, marital_status,
			address, city, state, zip_code, phone, email, blood_type,
			allergies, current_medications, past_surgeries, chronic_conditions,
			emergency_contact_name, emergency_contact_relationship, emergency_contact_phone,
			insurance_provider, insurance_id, insurance_group_number, insurance_policy_holder,
			insurance_relationship_to_patient, status
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,
			$13,$14,$15,$16,$17,$18,$19,
			$20,$21,$22,$23,$24,$25
		)
		RETURNING id, created_at, updated_at`,
		p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.MaritalStatus,
		p.Address, p.City, p.State, p.ZipCode, p.Phone, p.Email, p.BloodType,
		p.Allergies, p.CurrentMedications, p.PastSurgeries, p.ChronicConditions,
		p.EmergencyContactName, p.EmergencyContactRelationship, p.EmergencyContactPhone,
		p.InsuranceProvider, p.InsuranceID, p.InsuranceGroupNumber, p.InsurancePolicyHolder,
		p.InsuranceRelationshipToPatient, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := scanPatient(r.q.QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get patient %s: %w", id, err)
	}
	return p, nil
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	err := r.q.QueryRow(ctx, `
		UPDATE patients SET
			first_name=$2, last_name=$3, date_of_birth=$4, gender=$5, marital_status=$6,
			address=$7, city=$8, state=$9, zip_code=$10, phone=$11, email=$12, blood_type=$13,
			allergies=$14, current_medications=$15, past_surgeries=$16, chronic_conditions=$17,
			emergency_contact_name=$18, emergency_contact_relationship=$19, emergency_contact_phone=$20,
			insurance_provider=$21, insurance_id=$22, insurance_group_number=$23,
			insurance_policy_holder=$24, insurance_relationship_to_patient=$25,
			status=$26, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		p.ID,
		p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.MaritalStatus,
		p.Address, p.City, p.State, p.ZipCode, p.Phone, p.Email, p.BloodType,
		p.Allergies, p.CurrentMedications, p.PastSurgeries, p.ChronicConditions,
		p.EmergencyContactName, p.EmergencyContactRelationship, p.EmergencyContactPhone,
		p.InsuranceProvider, p.InsuranceID, p.InsuranceGroupNumber,
		p.InsurancePolicyHolder, p.InsuranceRelationshipToPatient,
		p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPatientNotFound
	}
	if err != nil {
		return fmt.Errorf("update patient %s: %w", p.ID, err)
	}
	return nil
}

func (r *patientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete patient %s: %w", id, err)
	}
	return nil
}

func (r *patientRepoPG) Search(ctx context.Context, f Filter, limit, offset int) ([]*Patient, int, error) {
	qb := db.NewSearchQuery("patients", patientCols)
	qb.ContainsAny(f.Name, "first_name", "last_name")
	qb.Equals("status", f.Status)
	qb.OrderBy("last_name, first_name, id")

	var total int
	if err := r.q.QueryRow(ctx, qb.CountSQL(), qb.CountArgs()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count patients: %w", err)
	}

	rows, err := r.q.Query(ctx, qb.DataSQL(), qb.DataArgs(limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("search patients: %w", err)
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, p)
	}
	return patients, total, rows.Err()
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Gender, &p.MaritalStatus,
		&p.Address, &p.City, &p.State, &p.ZipCode, &p.Phone, &p.Email, &p.BloodType,
		&p.Allergies, &p.CurrentMedications, &p.PastSurgeries, &p.ChronicConditions,
		&p.EmergencyContactName, &p.EmergencyContactRelationship, &p.EmergencyContactPhone,
		&p.InsuranceProvider, &p.InsuranceID, &p.InsuranceGroupNumber, &p.InsurancePolicyHolder,
		&p.InsuranceRelationshipToPatient,
		&p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
