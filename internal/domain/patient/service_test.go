package patient

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/ehr/hms/internal/domain/medicalrecord"
	"github.com/ehr/hms/internal/platform/events"
	"github.com/ehr/hms/internal/platform/metrics"
)

// -- Mock Patient Repository --

type mockPatientRepo struct {
	patients  map[uuid.UUID]*Patient
	createErr error
	updates   []uuid.UUID
	deletes   []uuid.UUID
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	if m.createErr != nil {
		return m.createErr
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPatientRepo) Update(_ context.Context, p *Patient) error {
	m.updates = append(m.updates, p.ID)
	if _, ok := m.patients[p.ID]; !ok {
		return ErrPatientNotFound
	}
	p.UpdatedAt = time.Now()
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockPatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.deletes = append(m.deletes, id)
	delete(m.patients, id)
	return nil
}

func (m *mockPatientRepo) Search(_ context.Context, f Filter, limit, offset int) ([]*Patient, int, error) {
	var out []*Patient
	for _, p := range m.patients {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Name != "" && !strings.Contains(strings.ToLower(p.FullName()), strings.ToLower(f.Name)) {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

// -- Collaborator fakes --

type stubSelector struct {
	id  uuid.UUID
	ok  bool
	err error
}

func (s stubSelector) SelectRecorder(context.Context) (uuid.UUID, bool, error) {
	return s.id, s.ok, s.err
}

type mockRecordWriter struct {
	records []*medicalrecord.MedicalRecord
	err     error
}

func (m *mockRecordWriter) Create(_ context.Context, r *medicalrecord.MedicalRecord) error {
	if m.err != nil {
		return m.err
	}
	r.ID = uuid.New()
	m.records = append(m.records, r)
	return nil
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.events = append(p.events, evt)
	return nil
}

type testEnv struct {
	svc     *Service
	repo    *mockPatientRepo
	records *mockRecordWriter
	pub     *recordingPublisher
	metrics *metrics.Collector
	logs    *bytes.Buffer
}

func newTestEnv(sel RecorderSelector) *testEnv {
	env := &testEnv{
		repo:    newMockPatientRepo(),
		records: &mockRecordWriter{},
		pub:     &recordingPublisher{},
		metrics: metrics.NewCollector(prometheus.NewRegistry(), "hms"),
		logs:    &bytes.Buffer{},
	}
	env.svc = NewService(env.repo, sel, env.records, env.pub, env.metrics, zerolog.New(env.logs))
	env.svc.now = func() time.Time { return time.Date(2024, 9, 3, 14, 0, 0, 0, time.UTC) }
	return env
}

func withStaff() stubSelector {
	return stubSelector{id: uuid.New(), ok: true}
}

func TestRegister_SeedsMedicalRecord(t *testing.T) {
	sel := withStaff()
	env := newTestEnv(sel)

	f := validForm()
	f.ChronicConditions = "Asthma"
	f.HasAllergies = true
	f.Allergies = "peanuts, dust"

	reg, err := env.svc.Register(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Seed.Status != SeedCreated {
		t.Fatalf("expected seed created, got %s (%s)", reg.Seed.Status, reg.Seed.Reason)
	}
	if len(env.records.records) != 1 {
		t.Fatalf("expected 1 medical record, got %d", len(env.records.records))
	}
	rec := env.records.records[0]
	if rec.PatientID != reg.Patient.ID || rec.StaffID != sel.id {
		t.Error("expected record to link the new patient and the selected staff member")
	}
	if rec.Diagnosis != "Asthma" || rec.Treatment != "No current treatment" {
		t.Errorf("unexpected derivation: %q / %q", rec.Diagnosis, rec.Treatment)
	}
	if rec.Notes != "Allergies: peanuts, dust" {
		t.Errorf("unexpected notes %q", rec.Notes)
	}
	if !rec.RecordDate.Equal(time.Date(2024, 9, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected record date %s", rec.RecordDate)
	}
	if reg.Seed.Record != rec {
		t.Error("expected outcome to carry the stored record")
	}
	if got := testutil.ToFloat64(env.metrics.SeedRecordsTotal.WithLabelValues("created")); got != 1 {
		t.Errorf("expected created seed counter 1, got %v", got)
	}
	if len(env.pub.events) != 1 || env.pub.events[0].Type != events.TypePatientRegistered {
		t.Errorf("expected patient.registered event, got %+v", env.pub.events)
	}
}

func TestRegister_NoStaffSkipsSeed(t *testing.T) {
	env := newTestEnv(stubSelector{ok: false})

	reg, err := env.svc.Register(context.Background(), validForm())
	if err != nil {
		t.Fatalf("expected success without staff, got %v", err)
	}
	if len(env.repo.patients) != 1 {
		t.Error("expected the patient to be inserted")
	}
	if len(env.records.records) != 0 {
		t.Error("expected no medical record")
	}
	if reg.Seed.Status != SeedSkippedNoStaff || reg.Seed.Record != nil {
		t.Errorf("expected skipped_no_staff outcome, got %+v", reg.Seed)
	}
	if !strings.Contains(env.logs.String(), "no staff available") {
		t.Errorf("expected skip to be logged, got %s", env.logs.String())
	}
}

func TestRegister_SelectorErrorReportedAsFailedSeed(t *testing.T) {
	env := newTestEnv(stubSelector{err: errors.New("connection reset")})

	reg, err := env.svc.Register(context.Background(), validForm())
	if err != nil {
		t.Fatalf("expected registration to succeed, got %v", err)
	}
	if reg.Seed.Status != SeedFailed || !strings.Contains(reg.Seed.Reason, "connection reset") {
		t.Errorf("expected failed outcome with reason, got %+v", reg.Seed)
	}
	if len(env.records.records) != 0 {
		t.Error("expected no medical record")
	}
}

func TestRegister_RecordInsertFailureSwallowed(t *testing.T) {
	env := newTestEnv(withStaff())
	env.records.err = errors.New("foreign key violation")

	reg, err := env.svc.Register(context.Background(), validForm())
	if err != nil {
		t.Fatalf("expected registration to succeed, got %v", err)
	}
	if len(env.repo.patients) != 1 {
		t.Error("expected the patient row to remain")
	}
	if reg.Seed.Status != SeedFailed || !strings.Contains(reg.Seed.Reason, "foreign key violation") {
		t.Errorf("expected failed outcome, got %+v", reg.Seed)
	}
	if !strings.Contains(env.logs.String(), `"level":"warn"`) {
		t.Error("expected the seed failure to be logged at warn level")
	}
}

func TestRegister_PatientInsertFailureAborts(t *testing.T) {
	env := newTestEnv(withStaff())
	env.repo.createErr = errors.New("duplicate key")

	reg, err := env.svc.Register(context.Background(), validForm())
	if err == nil {
		t.Fatal("expected error from patient insert")
	}
	if reg != nil {
		t.Error("expected no registration")
	}
	if len(env.records.records) != 0 {
		t.Error("expected no medical record insert to be attempted")
	}
	if len(env.pub.events) != 0 {
		t.Error("expected no event")
	}
}

func TestRegister_InvalidForm(t *testing.T) {
	env := newTestEnv(withStaff())
	_, err := env.svc.Register(context.Background(), FormValues{})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(env.repo.patients) != 0 {
		t.Error("expected nothing stored")
	}
}

func storedPatient(t *testing.T, env *testEnv, first string) *Patient {
	t.Helper()
	f := validForm()
	f.FirstName = first
	reg, err := env.svc.Register(context.Background(), f)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return reg.Patient
}

func TestUpdate_TouchesOnlyGivenID(t *testing.T) {
	env := newTestEnv(withStaff())
	a := storedPatient(t, env, "Alice")
	b := storedPatient(t, env, "Bob")

	changed := *a
	changed.Phone = "555-9999"
	unknown := "unknown"
	changed.BloodType = &unknown

	got, err := env.svc.Update(context.Background(), &changed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BloodType != nil {
		t.Error("expected unknown blood type to be stored as nil")
	}
	if len(env.repo.updates) != 1 || env.repo.updates[0] != a.ID {
		t.Errorf("expected a single update of %s, got %v", a.ID, env.repo.updates)
	}
	if env.repo.patients[a.ID].Phone != "555-9999" {
		t.Error("expected stored phone to change")
	}
	if env.repo.patients[b.ID].Phone != "555-0100" {
		t.Error("expected other patient to be untouched")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	env := newTestEnv(withStaff())
	p, _ := validForm().ToPatient()
	p.ID = uuid.New()

	if _, err := env.svc.Update(context.Background(), p); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestUpdate_Validation(t *testing.T) {
	env := newTestEnv(withStaff())
	a := storedPatient(t, env, "Alice")
	changed := *a
	changed.Email = ""
	bad := "Q+"
	changed.BloodType = &bad

	_, err := env.svc.Update(context.Background(), &changed)
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 2 {
		t.Fatalf("expected 2 validation failures, got %v", err)
	}
	if len(env.repo.updates) != 0 {
		t.Error("expected no update to reach the repository")
	}
}

func TestUpdate_PartialInsuranceRejected(t *testing.T) {
	env := newTestEnv(withStaff())
	a := storedPatient(t, env, "Alice")
	changed := *a
	provider := "Acme Health"
	changed.InsuranceProvider = &provider

	_, err := env.svc.Update(context.Background(), &changed)
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 1 {
		t.Fatalf("expected one validation failure, got %v", err)
	}
	if len(env.repo.updates) != 0 {
		t.Error("expected no update to reach the repository")
	}
}

func TestDelete_RemovesOnlyGivenID(t *testing.T) {
	env := newTestEnv(withStaff())
	a := storedPatient(t, env, "Alice")
	b := storedPatient(t, env, "Bob")

	if err := env.svc.Delete(context.Background(), a.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := env.repo.patients[a.ID]; ok {
		t.Error("expected patient to be deleted")
	}
	if _, ok := env.repo.patients[b.ID]; !ok {
		t.Error("expected other patient to remain")
	}

	// Deleting again is not an error.
	if err := env.svc.Delete(context.Background(), a.ID); err != nil {
		t.Errorf("expected idempotent delete, got %v", err)
	}
}

func TestList_FiltersByName(t *testing.T) {
	env := newTestEnv(withStaff())
	storedPatient(t, env, "Alice")
	storedPatient(t, env, "Bob")

	items, total, err := env.svc.List(context.Background(), Filter{Name: "ali"}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || items[0].FirstName != "Alice" {
		t.Errorf("expected only Alice, got %d", total)
	}
}
