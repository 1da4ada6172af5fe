package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jaminalder/reversi/internal/app"
)

// NewServer wires routes and returns an http.Handler. A nil logger is
// replaced by a no-op one.
func NewServer(s *app.Service, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := &handlers{svc: s, tpl: loadTemplates(), log: log}
	r.Get("/", h.index)
	r.Post("/game", h.create)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/join", h.join)
		r.Post("/play", h.play)
		r.Post("/pass", h.pass)
		r.Post("/undo", h.undo)
		r.Post("/redo", h.redo)
		r.Post("/ai", h.aiMove)
		r.Get("/events", h.events)
		r.Get("/ws", h.ws)
		r.Get("/state", h.state)
		r.Get("/evaluate", h.evaluate)
		r.Get("/replay", h.replay)
	})
	return r
}
