package httpapi

import (
	"io"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-contactform/pkg/controller"
	"github.com/goliatone/go-contactform/pkg/render"
)

// Option configures the HTTP surface.
type Option func(*Handler)

// WithLogger sets the request and handler logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.log = logger
		}
	}
}

// WithRenderer sets the renderer behind GET /. Without one the page route
// is not mounted.
func WithRenderer(renderer render.Renderer) Option {
	return func(h *Handler) {
		h.renderer = renderer
	}
}

// WithRenderOptions sets the defaults passed to the renderer. A "locale"
// query parameter overrides Locale per request.
func WithRenderOptions(opts render.RenderOptions) Option {
	return func(h *Handler) {
		h.renderOpts = opts
	}
}

// NewRouter mounts the page and the controller API for ctrl.
func NewRouter(ctrl *controller.Controller, options ...Option) *chi.Mux {
	h := newHandler(ctrl, options...)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.log))

	if h.renderer != nil {
		r.Get("/", h.Page)
	}

	r.Route("/api/v1/form", func(r chi.Router) {
		r.Get("/", h.Snapshot)

		r.Put("/fields/{name}", h.SetField)
		r.Delete("/fields/{name}", h.ClearField)
		r.Put("/required/{name}", h.SetRequired)

		r.Post("/groups/{group}/select", h.Select)
		r.Post("/groups/{group}/check", h.Check)
		r.Post("/groups/{group}/uncheck", h.Uncheck)

		r.Post("/attachment", h.Attach)
		r.Delete("/attachment", h.Detach)

		r.Post("/submit", h.Submit)

		r.Post("/banners/{kind}/show", h.ShowBanner)
		r.Post("/banners/{kind}/hide", h.HideBanner)
	})

	return r
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
