package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ehr/hms/pkg/result"
)

// RequestTimeout bounds each request's context. The handler runs on the
// request goroutine, so panics still reach Recovery; database calls observe
// the deadline and return early. If the deadline has passed and nothing was
// written, the response is a 504 with a failed Result body.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)
			if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Response().Committed {
				return c.JSON(http.StatusGatewayTimeout, result.Fail(errors.New("request timed out")))
			}
			return err
		}
	}
}
