package staff

import "github.com/ehr/hms/internal/platform/apperr"

var (
	ErrStaffNotFound  = apperr.NotFound("staff member not found")
	ErrInvalidStatus  = apperr.Invalid("status must be one of active, inactive, on-leave")
	ErrDuplicateEmail = apperr.Conflict("a staff member with this email already exists")
)

type ValidationError = apperr.ValidationError
