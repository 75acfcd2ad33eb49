package patient

import (
	"errors"
	"strings"
	"testing"
)

func validForm() FormValues {
	return FormValues{
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: "1985-04-12",
		Gender:      "female",
		Address:     "1 Main St",
		Phone:       "555-0100",
		Email:       "jane@example.com",
		BloodType:   "O+",
	}
}

func TestToPatient_InsuranceNullWithoutFlag(t *testing.T) {
	f := validForm()
	f.HasInsurance = false
	f.InsuranceProvider = "Acme Health"
	f.InsuranceID = "INS-1"
	f.InsuranceGroupNumber = "G-7"
	f.InsurancePolicyHolder = "Jane Doe"
	f.InsuranceRelationshipToPatient = "self"

	p, err := f.ToPatient()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for name, v := range map[string]*string{
		"provider":     p.InsuranceProvider,
		"id":           p.InsuranceID,
		"group":        p.InsuranceGroupNumber,
		"holder":       p.InsurancePolicyHolder,
		"relationship": p.InsuranceRelationshipToPatient,
	} {
		if v != nil {
			t.Errorf("expected insurance %s to be nil, got %q", name, *v)
		}
	}
}

func TestToPatient_InsuranceWithFlag(t *testing.T) {
	f := validForm()
	f.HasInsurance = true
	f.InsuranceProvider = "Acme Health"
	f.InsuranceID = "INS-1"
	f.InsuranceGroupNumber = "G-7"
	f.InsurancePolicyHolder = "Jane Doe"
	f.InsuranceRelationshipToPatient = "self"

	p, _ := f.ToPatient()
	if p.InsuranceProvider == nil || *p.InsuranceProvider != "Acme Health" {
		t.Errorf("expected insurance provider to be set, got %v", p.InsuranceProvider)
	}
	if p.InsuranceRelationshipToPatient == nil || *p.InsuranceRelationshipToPatient != "self" {
		t.Errorf("expected relationship to be set, got %v", p.InsuranceRelationshipToPatient)
	}
}

func TestToPatient_PartialInsuranceRejected(t *testing.T) {
	f := validForm()
	f.HasInsurance = true
	f.InsuranceProvider = "Acme Health"

	p, err := f.ToPatient()
	if p != nil {
		t.Fatalf("expected no patient for partial insurance, got %+v", p)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 4 {
		t.Errorf("expected the four missing insurance fields, got %v", verr.Fields)
	}
	for _, name := range []string{"insuranceId", "insuranceGroupNumber", "insurancePolicyHolder", "insuranceRelationshipToPatient"} {
		if !strings.Contains(verr.Error(), name+" is required") {
			t.Errorf("expected %s to be reported, got %v", name, verr.Fields)
		}
	}
}

func TestToPatient_AllergiesFlagWithoutEntriesRejected(t *testing.T) {
	f := validForm()
	f.HasAllergies = true
	f.Allergies = " , "

	_, err := f.ToPatient()
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 1 {
		t.Fatalf("expected one validation failure, got %v", err)
	}
	if !strings.Contains(verr.Fields[0], "allergies") {
		t.Errorf("unexpected failure %q", verr.Fields[0])
	}
}

func TestToPatient_AllergiesNullWithoutFlag(t *testing.T) {
	f := validForm()
	f.HasAllergies = false
	f.Allergies = "penicillin, latex"

	p, _ := f.ToPatient()
	if p.Allergies != nil {
		t.Errorf("expected allergies to be nil, got %v", p.Allergies)
	}
}

func TestToPatient_AllergiesWithFlag(t *testing.T) {
	f := validForm()
	f.HasAllergies = true
	f.Allergies = "penicillin, latex, ,"

	p, _ := f.ToPatient()
	if len(p.Allergies) != 2 || p.Allergies[0] != "penicillin" || p.Allergies[1] != "latex" {
		t.Errorf("unexpected allergies %v", p.Allergies)
	}
}

func TestToPatient_Defaults(t *testing.T) {
	p, err := validForm().ToPatient()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != "Admitted" {
		t.Errorf("expected default status Admitted, got %s", p.Status)
	}
	if p.City != nil || p.MaritalStatus != nil {
		t.Error("expected blank optional fields to be nil")
	}
	if p.DateOfBirth.Year() != 1985 || p.DateOfBirth.Day() != 12 {
		t.Errorf("unexpected date of birth %s", p.DateOfBirth)
	}
}

func TestToPatient_RequiredFields(t *testing.T) {
	_, err := FormValues{DateOfBirth: "12/04/1985", BloodType: "Z"}.ToPatient()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	// six required fields, the date and the blood type
	if len(verr.Fields) != 8 {
		t.Errorf("expected 8 failing fields, got %d: %v", len(verr.Fields), verr.Fields)
	}
}

func TestNormalizeBloodType(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		isNil  bool
		wantOK bool
	}{
		{"unknown", "", true, true},
		{"Unknown", "", true, true},
		{"", "", true, true},
		{"A+", "A+", false, true},
		{"AB-", "AB-", false, true},
		{"o-", "O-", false, true},
		{"C+", "", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeBloodType(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if tt.isNil {
				if got != nil {
					t.Errorf("expected nil, got %q", *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("expected %q, got %v", tt.want, got)
			}
		})
	}
}

func TestToPatient_UnknownBloodTypeIsNull(t *testing.T) {
	f := validForm()
	f.BloodType = "unknown"
	p, _ := f.ToPatient()
	if p.BloodType != nil {
		t.Errorf("expected nil blood type, got %q", *p.BloodType)
	}

	f.BloodType = "B-"
	p, _ = f.ToPatient()
	if p.BloodType == nil || *p.BloodType != "B-" {
		t.Errorf("expected B-, got %v", p.BloodType)
	}
}
