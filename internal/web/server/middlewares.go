package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github.com/thomiceli/gistgrep/internal/web/context"
)

func (s *Server) useCustomContext() {
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(context.NewContext(c))
		}
	})
}

func (s *Server) registerMiddlewares() {
	s.echo.Pre(middleware.RemoveTrailingSlash())
	s.echo.Pre(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.echo.Pre(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI: true, LogStatus: true, LogMethod: true, LogRequestID: true, HandleError: true,
		LogValuesFunc: func(ctx echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().Str("uri", v.URI).Int("status", v.Status).Str("method", v.Method).
				Str("ip", ctx.RealIP()).Str("request_id", v.RequestID).
				TimeDiff("duration", time.Now(), v.StartTime).
				Msg("HTTP")
			return nil
		},
	}))
	s.echo.Use(middleware.Recover())

	if s.metrics != nil {
		s.echo.Use(s.metrics.Middleware())
	}
}

// errorHandler answers routing errors with their JSON message. Anything else
// is an unhandled error: it is logged and answered with a bare 500.
func (s *Server) errorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if err := ctx.JSON(httpErr.Code, httpErr); err != nil {
			log.Error().Err(err).Send()
		}
		return
	}

	log.Error().Err(err).Str("uri", ctx.Request().RequestURI).
		Str("request_id", ctx.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("Unhandled error")

	if err := ctx.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)); err != nil {
		log.Error().Err(err).Send()
	}
}

func noStore(next Handler) Handler {
	return func(ctx *context.Context) error {
		ctx.Response().Header().Set("Cache-Control", "no-store")
		return next(ctx)
	}
}
