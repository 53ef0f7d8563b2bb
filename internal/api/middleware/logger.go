package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RequestLogger writes one structured line per request.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// Let the error handler write the response so the status is final.
				c.Error(err)
			}

			status := c.Response().Status
			event := log.Info()
			if status >= 500 {
				event = log.Error()
			} else if status >= 400 {
				event = log.Warn()
			}

			event.
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Str("client_ip", c.RealIP()).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("http request")

			return nil
		}
	}
}
