package patient

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultStatus    = "Admitted"
	BloodTypeUnknown = "unknown"
	dateLayout       = "2006-01-02"
)

var bloodTypes = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

// Patient maps to the patients table.
type Patient struct {
	ID            uuid.UUID `db:"id" json:"id"`
	FirstName     string    `db:"first_name" json:"first_name"`
	LastName      string    `db:"last_name" json:"last_name"`
	DateOfBirth   time.Time `db:"date_of_birth" json:"date_of_birth"`
	Gender        string    `db:"gender" json:"gender"`
	MaritalStatus *string   `db:"marital_status" json:"marital_status,omitempty"`
	Address       string    `db:"address" json:"address"`
	City          *string   `db:"city" json:"city,omitempty"`
	State         *string   `db:"state" json:"state,omitempty"`
	ZipCode       *string   `db:"zip_code" json:"zip_code,omitempty"`
	Phone         string    `db:"phone" json:"phone"`
	Email         string    `db:"email" json:"email"`
	BloodType     *string   `db:"blood_type" json:"blood_type,omitempty"`

	Allergies          []string `db:"allergies" json:"allergies,omitempty"`
	CurrentMedications *string  `db:"current_medications" json:"current_medications,omitempty"`
	PastSurgeries      *string  `db:"past_surgeries" json:"past_surgeries,omitempty"`
	ChronicConditions  *string  `db:"chronic_conditions" json:"chronic_conditions,omitempty"`

	EmergencyContactName         *string `db:"emergency_contact_name" json:"emergency_contact_name,omitempty"`
	EmergencyContactRelationship *string `db:"emergency_contact_relationship" json:"emergency_contact_relationship,omitempty"`
	EmergencyContactPhone        *string `db:"emergency_contact_phone" json:"emergency_contact_phone,omitempty"`

	InsuranceProvider              *string `db:"insurance_provider" json:"insurance_provider,omitempty"`
	InsuranceID                    *string `db:"insurance_id" json:"insurance_id,omitempty"`
	InsuranceGroupNumber           *string `db:"insurance_group_number" json:"insurance_group_number,omitempty"`
	InsurancePolicyHolder          *string `db:"insurance_policy_holder" json:"insurance_policy_holder,omitempty"`
	InsuranceRelationshipToPatient *string `db:"insurance_relationship_to_patient" json:"insurance_relationship_to_patient,omitempty"`

	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// UnmarshalJSON accepts date_of_birth as a YYYY-MM-DD date, the layout the
// registration form uses, as well as an RFC 3339 timestamp.
func (p *Patient) UnmarshalJSON(b []byte) error {
	type plain Patient
	aux := struct {
		*plain
		DateOfBirth string `json:"date_of_birth"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.DateOfBirth == "" {
		return nil
	}
	dob, err := parseDate(aux.DateOfBirth)
	if err != nil {
		return err
	}
	p.DateOfBirth = dob
	return nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("date_of_birth %q must be YYYY-MM-DD or RFC 3339", raw)
	}
	return t, nil
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// FormValues is the registration form as submitted. Allergies is free text
// with comma-separated entries.
type FormValues struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	DateOfBirth   string `json:"dateOfBirth"`
	Gender        string `json:"gender"`
	MaritalStatus string `json:"maritalStatus"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zipCode"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	BloodType     string `json:"bloodType"`

	HasAllergies       bool   `json:"hasAllergies"`
	Allergies          string `json:"allergies"`
	CurrentMedications string `json:"currentMedications"`
	PastSurgeries      string `json:"pastSurgeries"`
	ChronicConditions  string `json:"chronicConditions"`

	EmergencyContactName         string `json:"emergencyContactName"`
	EmergencyContactRelationship string `json:"emergencyContactRelationship"`
	EmergencyContactPhone        string `json:"emergencyContactPhone"`

	HasInsurance                   bool   `json:"hasInsurance"`
	InsuranceProvider              string `json:"insuranceProvider"`
	InsuranceID                    string `json:"insuranceId"`
	InsuranceGroupNumber           string `json:"insuranceGroupNumber"`
	InsurancePolicyHolder          string `json:"insurancePolicyHolder"`
	InsuranceRelationshipToPatient string `json:"insuranceRelationshipToPatient"`

	Status string `json:"status"`
}

// ToPatient maps the form onto a new Patient. Insurance and allergy columns
// are populated only when their flag is set; otherwise they stay NULL
// whatever the raw form holds. A set flag requires its data: all five
// insurance fields, or at least one allergy.
func (f FormValues) ToPatient() (*Patient, error) {
	var fields []string
	fields = appendRequired(fields, "firstName", f.FirstName)
	fields = appendRequired(fields, "lastName", f.LastName)
	fields = appendRequired(fields, "gender", f.Gender)
	fields = appendRequired(fields, "address", f.Address)
	fields = appendRequired(fields, "phone", f.Phone)
	fields = appendRequired(fields, "email", f.Email)

	dob, err := time.Parse(dateLayout, strings.TrimSpace(f.DateOfBirth))
	if err != nil {
		fields = append(fields, "dateOfBirth must be a YYYY-MM-DD date")
	}
	bloodType, ok := NormalizeBloodType(f.BloodType)
	if !ok {
		fields = append(fields, "bloodType is not a recognised blood group")
	}
	if f.HasAllergies && len(SplitList(f.Allergies)) == 0 {
		fields = append(fields, "allergies is required when hasAllergies is set")
	}
	if f.HasInsurance {
		fields = appendRequired(fields, "insuranceProvider", f.InsuranceProvider)
		fields = appendRequired(fields, "insuranceId", f.InsuranceID)
		fields = appendRequired(fields, "insuranceGroupNumber", f.InsuranceGroupNumber)
		fields = appendRequired(fields, "insurancePolicyHolder", f.InsurancePolicyHolder)
		fields = appendRequired(fields, "insuranceRelationshipToPatient", f.InsuranceRelationshipToPatient)
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	p := &Patient{
		FirstName:     strings.TrimSpace(f.FirstName),
		LastName:      strings.TrimSpace(f.LastName),
		DateOfBirth:   dob,
		Gender:        f.Gender,
		MaritalStatus: optional(f.MaritalStatus),
		Address:       f.Address,
		City:          optional(f.City),
		State:         optional(f.State),
		ZipCode:       optional(f.ZipCode),
		Phone:         f.Phone,
		Email:         strings.TrimSpace(f.Email),
		BloodType:     bloodType,

		CurrentMedications: optional(f.CurrentMedications),
		PastSurgeries:      optional(f.PastSurgeries),
		ChronicConditions:  optional(f.ChronicConditions),

		EmergencyContactName:         optional(f.EmergencyContactName),
		EmergencyContactRelationship: optional(f.EmergencyContactRelationship),
		EmergencyContactPhone:        optional(f.EmergencyContactPhone),

		Status: f.Status,
	}
	if p.Status == "" {
		p.Status = DefaultStatus
	}
	if f.HasAllergies {
		p.Allergies = SplitList(f.Allergies)
	}
	if f.HasInsurance {
		p.InsuranceProvider = optional(f.InsuranceProvider)
		p.InsuranceID = optional(f.InsuranceID)
		p.InsuranceGroupNumber = optional(f.InsuranceGroupNumber)
		p.InsurancePolicyHolder = optional(f.InsurancePolicyHolder)
		p.InsuranceRelationshipToPatient = optional(f.InsuranceRelationshipToPatient)
	}
	return p, nil
}

// NormalizeBloodType maps the form's blood type to its stored value. Empty
// and "unknown" become nil; ok is false for anything unrecognised.
func NormalizeBloodType(raw string) (*string, bool) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" || strings.EqualFold(v, BloodTypeUnknown) {
		return nil, true
	}
	if !bloodTypes[v] {
		return nil, false
	}
	return &v, true
}

// SplitList splits comma-separated free text, dropping blank entries. It
// returns nil when nothing remains.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// insuranceComplete reports whether the insurance columns are all set or
// all NULL.
func (p *Patient) insuranceComplete() bool {
	set := 0
	for _, v := range []*string{
		p.InsuranceProvider, p.InsuranceID, p.InsuranceGroupNumber,
		p.InsurancePolicyHolder, p.InsuranceRelationshipToPatient,
	} {
		if v != nil && strings.TrimSpace(*v) != "" {
			set++
		}
	}
	return set == 0 || set == 5
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func appendRequired(fields []string, name, value string) []string {
	if strings.TrimSpace(value) == "" {
		return append(fields, name+" is required")
	}
	return fields
}

// Filter narrows a patient listing. Name matches first or last name.
type Filter struct {
	Name   string
	Status string
}
