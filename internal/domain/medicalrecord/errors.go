package medicalrecord

import "github.com/ehr/hms/internal/platform/apperr"

var ErrRecordNotFound = apperr.NotFound("medical record not found")
