package staff

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ehr/hms/internal/platform/cache"
	"github.com/ehr/hms/internal/platform/events"
	"github.com/ehr/hms/internal/platform/metrics"
	"github.com/ehr/hms/internal/platform/tracing"
	"github.com/ehr/hms/pkg/pagination"
)

const facetsKey = "staff:facets"

type Service struct {
	repo    Repository
	cache   cache.Cache
	events  events.Publisher
	metrics *metrics.Collector
	tracer  trace.Tracer
	logger  zerolog.Logger
	now     func() time.Time
}

func NewService(repo Repository, c cache.Cache, pub events.Publisher, m *metrics.Collector, logger zerolog.Logger) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{
		repo:    repo,
		cache:   c,
		events:  pub,
		metrics: m,
		tracer:  tracing.Tracer("hms/staff"),
		logger:  logger.With().Str("component", "staff").Logger(),
		now:     time.Now,
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Staff, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Staff, int, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	return s.repo.List(ctx, f, limit, offset)
}

// Fetch returns a 0-based page of staff matching f.
func (s *Service) Fetch(ctx context.Context, f Filter, page, pageSize int) (*Page, error) {
	ctx, span := s.tracer.Start(ctx, "staff.Fetch")
	defer span.End()

	p := pagination.FromPage(page, pageSize)
	items, total, err := s.List(ctx, f, p.Limit, p.Offset)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("staff.total", total))
	return &Page{Items: items, Total: total}, nil
}

func (s *Service) Create(ctx context.Context, st *Staff) error {
	if st.Status == "" {
		st.Status = StatusActive
	}
	if st.JoiningDate.IsZero() {
		y, m, d := s.now().Date()
		st.JoiningDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	if err := validate(st); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return err
	}
	s.invalidateFacets(ctx)
	s.logger.Info().Str("staff_id", st.ID.String()).Str("department", st.Department).Msg("staff member created")
	return nil
}

// Update persists st. A status change is published as staff.status_changed.
func (s *Service) Update(ctx context.Context, st *Staff) error {
	ctx, span := s.tracer.Start(ctx, "staff.Update", trace.WithAttributes(attribute.String("staff.id", st.ID.String())))
	defer span.End()

	if err := validate(st); err != nil {
		tracing.RecordError(span, err)
		return err
	}
	prev, err := s.repo.GetByID(ctx, st.ID)
	if err != nil {
		tracing.RecordError(span, err)
		return err
	}
	if st.JoiningDate.IsZero() {
		st.JoiningDate = prev.JoiningDate
	}
	if err := s.repo.Update(ctx, st); err != nil {
		tracing.RecordError(span, err)
		return err
	}
	s.invalidateFacets(ctx)

	if prev.Status != st.Status {
		s.metrics.StaffStatusChanged(string(st.Status))
		s.publish(ctx, events.TypeStaffStatusChanged, statusChanged{
			StaffID: st.ID,
			From:    prev.Status,
			To:      st.Status,
		})
	}
	return nil
}

// Facets returns departments, roles and status counts, served from the cache
// when possible. Cache failures fall through to the database.
func (s *Service) Facets(ctx context.Context) (*Facets, error) {
	var f Facets
	found, err := s.cache.Get(ctx, facetsKey, &f)
	switch {
	case err != nil:
		s.metrics.CacheLookup("error")
		s.logger.Warn().Err(err).Msg("facets cache read failed")
	case found:
		s.metrics.CacheLookup("hit")
		return &f, nil
	default:
		s.metrics.CacheLookup("miss")
	}

	depts, err := s.repo.Departments(ctx)
	if err != nil {
		return nil, err
	}
	roles, err := s.repo.Roles(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	f = Facets{Departments: depts, Roles: roles, Stats: stats}

	if err := s.cache.Set(ctx, facetsKey, f); err != nil {
		s.logger.Warn().Err(err).Msg("facets cache write failed")
	}
	return &f, nil
}

type statusChanged struct {
	StaffID uuid.UUID `json:"staff_id"`
	From    Status    `json:"from"`
	To      Status    `json:"to"`
}

func (s *Service) invalidateFacets(ctx context.Context) {
	if err := s.cache.Delete(ctx, facetsKey); err != nil {
		s.logger.Warn().Err(err).Msg("facets cache invalidation failed")
	}
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

func validate(st *Staff) error {
	var fields []string
	if strings.TrimSpace(st.FirstName) == "" {
		fields = append(fields, "first_name is required")
	}
	if strings.TrimSpace(st.LastName) == "" {
		fields = append(fields, "last_name is required")
	}
	if strings.TrimSpace(st.Role) == "" {
		fields = append(fields, "role is required")
	}
	if strings.TrimSpace(st.Department) == "" {
		fields = append(fields, "department is required")
	}
	if _, err := mail.ParseAddress(st.Email); err != nil {
		fields = append(fields, "email is invalid")
	}
	if !st.Status.Valid() {
		fields = append(fields, fmt.Sprintf("status %q is invalid", st.Status))
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// AnyStaff picks whichever staff member the database returns first. It is
// the recorder used for seed medical records until registrations carry the
// acting clinician.
type AnyStaff struct {
	repo Repository
}

func NewAnyStaff(repo Repository) AnyStaff {
	return AnyStaff{repo: repo}
}

func (a AnyStaff) SelectRecorder(ctx context.Context) (uuid.UUID, bool, error) {
	st, err := a.repo.FindAny(ctx)
	if errors.Is(err, ErrStaffNotFound) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	return st.ID, true, nil
}
