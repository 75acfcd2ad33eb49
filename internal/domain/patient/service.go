package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ehr/hms/internal/domain/medicalrecord"
	"github.com/ehr/hms/internal/platform/events"
	"github.com/ehr/hms/internal/platform/metrics"
	"github.com/ehr/hms/internal/platform/tracing"
)

// RecorderSelector chooses the staff member credited with a new patient's
// seed medical record. ok is false when nobody is available.
type RecorderSelector interface {
	SelectRecorder(ctx context.Context) (staffID uuid.UUID, ok bool, err error)
}

// RecordWriter persists medical records.
type RecordWriter interface {
	Create(ctx context.Context, r *medicalrecord.MedicalRecord) error
}

type SeedStatus string

const (
	SeedCreated        SeedStatus = "created"
	SeedSkippedNoStaff SeedStatus = "skipped_no_staff"
	SeedFailed         SeedStatus = "failed"
)

// SeedOutcome reports what happened to the seed medical record after the
// patient row was written.
type SeedOutcome struct {
	Status SeedStatus                   `json:"status"`
	Record *medicalrecord.MedicalRecord `json:"record,omitempty"`
	Reason string                       `json:"reason,omitempty"`
}

// Registration is a registered patient together with its seed outcome.
type Registration struct {
	Patient *Patient
	Seed    SeedOutcome
}

type Service struct {
	repo      Repository
	recorders RecorderSelector
	records   RecordWriter
	events    events.Publisher
	metrics   *metrics.Collector
	tracer    trace.Tracer
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(repo Repository, recorders RecorderSelector, records RecordWriter, pub events.Publisher, m *metrics.Collector, logger zerolog.Logger) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{
		repo:      repo,
		recorders: recorders,
		records:   records,
		events:    pub,
		metrics:   m,
		tracer:    tracing.Tracer("hms/patient"),
		logger:    logger.With().Str("component", "patient").Logger(),
		now:       time.Now,
	}
}

// Register inserts the patient described by f and then tries to seed one
// medical record for it. Only a failure to insert the patient is returned as
// an error; the seed step reports through Registration.Seed. The two writes
// are not atomic.
func (s *Service) Register(ctx context.Context, f FormValues) (*Registration, error) {
	ctx, span := s.tracer.Start(ctx, "patient.Register")
	defer span.End()

	p, err := f.ToPatient()
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("patient.id", p.ID.String()))
	s.metrics.PatientRegistered()

	seed := s.seed(ctx, p)
	span.SetAttributes(attribute.String("patient.seed", string(seed.Status)))
	s.metrics.SeedOutcome(string(seed.Status))

	s.logger.Info().
		Str("patient_id", p.ID.String()).
		Str("seed", string(seed.Status)).
		Msg("patient registered")

	s.publish(ctx, events.TypePatientRegistered, registered{
		PatientID: p.ID,
		Status:    p.Status,
		Seed:      seed.Status,
	})
	return &Registration{Patient: p, Seed: seed}, nil
}

func (s *Service) seed(ctx context.Context, p *Patient) SeedOutcome {
	log := s.logger.With().Str("patient_id", p.ID.String()).Logger()

	staffID, ok, err := s.recorders.SelectRecorder(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("seed medical record: recorder lookup failed")
		return SeedOutcome{Status: SeedFailed, Reason: fmt.Sprintf("select recorder: %v", err)}
	}
	if !ok {
		log.Warn().Msg("seed medical record skipped: no staff available")
		return SeedOutcome{Status: SeedSkippedNoStaff}
	}

	rec := medicalrecord.NewSeed(medicalrecord.SeedInput{
		PatientID:          p.ID,
		StaffID:            staffID,
		ChronicConditions:  deref(p.ChronicConditions),
		CurrentMedications: deref(p.CurrentMedications),
		Allergies:          p.Allergies,
	}, s.now())
	if err := s.records.Create(ctx, rec); err != nil {
		log.Warn().Err(err).Str("staff_id", staffID.String()).Msg("seed medical record: insert failed")
		return SeedOutcome{Status: SeedFailed, Reason: fmt.Sprintf("insert medical record: %v", err)}
	}
	return SeedOutcome{Status: SeedCreated, Record: rec}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Patient, int, error) {
	return s.repo.Search(ctx, f, limit, offset)
}

// Update overwrites the stored patient with p. A blood type of "unknown" is
// stored as NULL.
func (s *Service) Update(ctx context.Context, p *Patient) (*Patient, error) {
	ctx, span := s.tracer.Start(ctx, "patient.Update", trace.WithAttributes(attribute.String("patient.id", p.ID.String())))
	defer span.End()

	if err := s.normalize(p); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) normalize(p *Patient) error {
	var fields []string
	if p.ID == uuid.Nil {
		fields = append(fields, "id is required")
	}
	fields = appendRequired(fields, "first_name", p.FirstName)
	fields = appendRequired(fields, "last_name", p.LastName)
	fields = appendRequired(fields, "gender", p.Gender)
	fields = appendRequired(fields, "address", p.Address)
	fields = appendRequired(fields, "phone", p.Phone)
	fields = appendRequired(fields, "email", p.Email)
	if p.DateOfBirth.IsZero() {
		fields = append(fields, "date_of_birth is required")
	}
	if !p.insuranceComplete() {
		fields = append(fields, "insurance fields must be all set or all empty")
	}

	if p.BloodType != nil {
		bt, ok := NormalizeBloodType(*p.BloodType)
		if !ok {
			fields = append(fields, "blood_type is not a recognised blood group")
		}
		p.BloodType = bt
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	if strings.TrimSpace(p.Status) == "" {
		p.Status = DefaultStatus
	}
	if len(p.Allergies) == 0 {
		p.Allergies = nil
	}
	for _, v := range []**string{
		&p.InsuranceProvider, &p.InsuranceID, &p.InsuranceGroupNumber,
		&p.InsurancePolicyHolder, &p.InsuranceRelationshipToPatient,
	} {
		if *v != nil && strings.TrimSpace(**v) == "" {
			*v = nil
		}
	}
	return nil
}

type registered struct {
	PatientID uuid.UUID  `json:"patient_id"`
	Status    string     `json:"status"`
	Seed      SeedStatus `json:"seed"`
}

func (s *Service) publish(ctx context.Context, eventType string, payload interface{}) {
	evt, err := events.New(eventType, payload)
	if err == nil {
		err = s.events.Publish(ctx, evt)
	}
	s.metrics.EventPublished(eventType, err)
	if err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("event publish failed")
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
