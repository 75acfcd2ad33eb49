// Package result defines the uniform {success, data?, error?} envelope that
// every mutation action returns to its caller.
package result

import (
	"github.com/labstack/echo/v4"

	"github.com/ehr/hms/internal/platform/apperr"
)

// Result is the outcome of an action. Err keeps the original error for
// callers in-process; only its message crosses the wire.
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Err     error       `json:"-"`
}

// OK builds a successful result. A nil data value is omitted from JSON.
func OK(data interface{}) Result {
	return Result{Success: true, Data: data}
}

// Fail builds a failed result carrying err.
func Fail(err error) Result {
	r := Result{Success: false, Err: err}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// JSON writes r to the response: okStatus on success, otherwise the status
// derived from the error's classification.
func JSON(c echo.Context, okStatus int, r Result) error {
	status := okStatus
	if !r.Success {
		status = apperr.HTTPStatus(r.Err)
	}
	return c.JSON(status, r)
}
