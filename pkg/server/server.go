package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/netlayout/pkg/force"
	"github.com/matzehuels/netlayout/pkg/host"
	"github.com/matzehuels/netlayout/pkg/httputil"
	"github.com/matzehuels/netlayout/pkg/layout"
	"github.com/matzehuels/netlayout/pkg/observability"
)

// DefaultMaxNodes bounds generated and uploaded networks.
const DefaultMaxNodes = 20000

// Options configures a [Server].
type Options struct {
	// MaxNodes rejects larger networks. Zero means DefaultMaxNodes.
	MaxNodes int

	// Layout and Force are the defaults for new networks; requests may
	// override individual fields.
	Layout layout.Options
	Force  force.Params

	// Animation decides whether /svg may draw a layout in progress.
	Animation layout.AnimationPolicy
}

// Server is the HTTP front end to a set of layout sessions.
type Server struct {
	ctx    context.Context
	loop   *host.Loop
	opts   Options
	logger *log.Logger
	router chi.Router

	// nets is owned by the loop goroutine.
	nets map[string]*entry
}

// New creates a server whose sessions run on loop. ctx drives the
// sessions: cancelling it pauses every running layout. The caller runs the
// loop, typically with [host.Loop.Run].
func New(ctx context.Context, loop *host.Loop, opts Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.MaxNodes == 0 {
		opts.MaxNodes = DefaultMaxNodes
	}
	opts.Layout.SetDefaults()
	opts.Force.SetDefaults()

	s := &Server{
		ctx:    ctx,
		loop:   loop,
		opts:   opts,
		logger: logger,
		nets:   make(map[string]*entry),
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/networks", func(r chi.Router) {
		r.Post("/", s.create)
		r.Get("/", s.list)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.get)
			r.Delete("/", s.remove)
			r.Post("/layout", s.requestLayout)
			r.Post("/shake", s.shake)
			r.Post("/stop", s.stop)
			r.Post("/resume", s.resume)
			r.Get("/positions", s.positions)
			r.Get("/svg", s.svg)
		})
	})
	return r
}

// observe reports each request to the HTTP hooks under its route pattern
// and logs it at debug level.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// onLoop runs fn on the loop and returns its error, or the request
// context's error if the client goes away first.
func (s *Server) onLoop(r *http.Request, fn func() error) error {
	var err error
	if doErr := s.loop.Do(r.Context(), func() { err = fn() }); doErr != nil {
		return doErr
	}
	return err
}
