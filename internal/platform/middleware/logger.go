package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Logger emits one structured line per completed request, carrying the
// request id assigned upstream so lines can be correlated across middleware.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			begin := time.Now()

			err := next(c)

			req, res := c.Request(), c.Response()
			level := zerolog.InfoLevel
			if err != nil || res.Status >= http.StatusInternalServerError {
				level = zerolog.ErrorLevel
			}
			rid, _ := c.Get("request_id").(string)

			logger.WithLevel(level).
				Err(err).
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_ip", c.RealIP()).
				Int("status", res.Status).
				Int64("bytes_out", res.Size).
				Dur("took", time.Since(begin)).
				Msg("request")

			return err
		}
	}
}
