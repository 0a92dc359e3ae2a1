package server

import (
	gocontext "context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/thomiceli/gistgrep/internal/config"
	"github.com/thomiceli/gistgrep/internal/validator"
	"github.com/thomiceli/gistgrep/internal/web/handlers/gist"
	"github.com/thomiceli/gistgrep/internal/web/handlers/metrics"
)

type Server struct {
	echo *echo.Echo

	config   *config.Config
	searcher gist.Searcher
	metrics  *metrics.Metrics
}

func NewServer(cfg *config.Config, searcher gist.Searcher) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.NewValidator()

	s := &Server{echo: e, config: cfg, searcher: searcher}
	if cfg.MetricsEnabled {
		s.metrics = metrics.New()
	}

	s.useCustomContext()
	s.registerMiddlewares()
	s.echo.HTTPErrorHandler = s.errorHandler

	s.registerRoutes()

	return s
}

func (s *Server) Start() {
	addr := s.config.HttpAddr()

	log.Info().Msg("Starting HTTP server on http://" + addr)
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func (s *Server) Shutdown(ctx gocontext.Context) error {
	log.Info().Msg("Stopping HTTP server...")
	return s.echo.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
