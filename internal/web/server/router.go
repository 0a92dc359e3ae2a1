package server

import (
	"github.com/labstack/echo/v4"
	"github.com/thomiceli/gistgrep/internal/web/context"
	"github.com/thomiceli/gistgrep/internal/web/handlers/gist"
	"github.com/thomiceli/gistgrep/internal/web/handlers/health"
)

func (s *Server) registerRoutes() {
	r := NewRouter(s.echo.Group(""))

	{
		r.GET("/ping", health.Ping)
		r.GET("/healthcheck", health.Healthcheck)

		if s.metrics != nil {
			r.GET("/metrics", s.metrics.Handler)
		}

		sA := r.SubGroup("/api/v1", noStore)
		{
			sA.POST("/search", gist.Search(s.searcher, s.metrics))
		}
	}
}

// Router wraps echo.Group to provide custom Handler support
type Router struct {
	*echo.Group
}

func NewRouter(g *echo.Group) *Router {
	return &Router{Group: g}
}

func (r *Router) SubGroup(prefix string, m ...Middleware) *Router {
	echoMiddleware := make([]echo.MiddlewareFunc, len(m))
	for i, mw := range m {
		mw := mw
		echoMiddleware[i] = func(next echo.HandlerFunc) echo.HandlerFunc {
			return chain(func(c *context.Context) error {
				return next(c)
			}, mw).toEcho()
		}
	}
	return NewRouter(r.Group.Group(prefix, echoMiddleware...))
}

func (r *Router) GET(path string, h Handler, m ...Middleware) {
	r.Group.GET(path, chain(h, m...).toEcho())
}

func (r *Router) POST(path string, h Handler, m ...Middleware) {
	r.Group.POST(path, chain(h, m...).toEcho())
}
