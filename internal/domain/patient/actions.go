package patient

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ehr/hms/internal/platform/apperr"
	"github.com/ehr/hms/pkg/result"
)

// RegistrationResult is the result of CreatePatient. Seed is present
// whenever the patient row was written.
type RegistrationResult struct {
	result.Result
	Seed *SeedOutcome `json:"seed,omitempty"`
}

// Actions converts every service error into a failed result.Result so
// callers only ever branch on Success.
type Actions struct {
	svc    *Service
	logger zerolog.Logger
}

func NewActions(svc *Service, logger zerolog.Logger) *Actions {
	return &Actions{svc: svc, logger: logger.With().Str("component", "patient_actions").Logger()}
}

func (a *Actions) CreatePatient(ctx context.Context, f FormValues) RegistrationResult {
	reg, err := a.svc.Register(ctx, f)
	if err != nil {
		a.logFailure("create patient", err)
		return RegistrationResult{Result: result.Fail(err)}
	}
	seed := reg.Seed
	return RegistrationResult{Result: result.OK(reg.Patient), Seed: &seed}
}

func (a *Actions) UpdatePatient(ctx context.Context, p *Patient) result.Result {
	updated, err := a.svc.Update(ctx, p)
	if err != nil {
		a.logFailure("update patient", err)
		return result.Fail(err)
	}
	return result.OK(updated)
}

func (a *Actions) DeletePatient(ctx context.Context, id uuid.UUID) result.Result {
	if err := a.svc.Delete(ctx, id); err != nil {
		a.logFailure("delete patient", err)
		return result.Fail(err)
	}
	return result.OK(nil)
}

func (a *Actions) logFailure(op string, err error) {
	evt := a.logger.Warn()
	if apperr.KindOf(err) == apperr.KindInternal {
		evt = a.logger.Error()
	}
	evt.Err(err).Str("op", op).Msg("patient action failed")
}
