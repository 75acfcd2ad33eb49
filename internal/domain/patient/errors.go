package patient

import "github.com/ehr/hms/internal/platform/apperr"

var ErrPatientNotFound = apperr.NotFound("patient not found")

type ValidationError = apperr.ValidationError
