package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jaminalder/reversi/internal/ai"
	"github.com/jaminalder/reversi/internal/app"
	"github.com/jaminalder/reversi/internal/domain"
)

type handlers struct {
	svc *app.Service
	tpl *templates
	log *zap.Logger
}

func (h *handlers) renderBoard(v app.GameView, errMsg string) []byte {
	return renderTemplate(h.tpl.board, "", boardData{View: v, Error: errMsg})
}

func (h *handlers) writeBoard(w http.ResponseWriter, v app.GameView, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderBoard(v, errMsg))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.index, "base", []string{"red", "white"}))
}

// seatStrategy maps a form value to an engine strategy; nil is a human seat.
func seatStrategy(name string, depth int) (*ai.Strategy, error) {
	if name == "" || strings.EqualFold(name, "human") {
		return nil, nil
	}
	st, err := ai.ParseStrategy(name, depth)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	depth, _ := strconv.Atoi(r.Form.Get("depth"))
	red, err := seatStrategy(r.Form.Get("red"), depth)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	white, err := seatStrategy(r.Form.Get("white"), depth)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	gv, err := h.svc.CreateGame(app.Options{Red: red, White: white})
	if err != nil {
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game/"+gv.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	// ensure cookie and auto-claim seat
	pid := ensurePlayerCookie(w, r)
	_, _, _ = h.svc.Join(id, pid)

	gv, ok := h.svc.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.game, "base", boardData{View: *gv}))
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	_, gv, err := h.svc.Join(id, pid)
	if err != nil || gv == nil {
		http.NotFound(w, r)
		return
	}
	h.writeBoard(w, *gv, "")
}

// errorMessage turns service and rule errors into text for the board.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, app.ErrNotAPlayer):
		return "You are a spectator"
	case errors.Is(err, app.ErrNoAISeat):
		return "No engine plays this side"
	case errors.Is(err, app.ErrEngineConflict):
		return "The game changed while the engine was thinking"
	case errors.Is(err, domain.ErrOccupied):
		return "Cell is occupied"
	case errors.Is(err, domain.ErrNoCapture):
		return "Move captures nothing"
	case errors.Is(err, domain.ErrOutOfBounds):
		return "Out of bounds"
	case errors.Is(err, domain.ErrNotActive):
		return "Reviewing history: redo to the latest step to play"
	case errors.Is(err, domain.ErrHistoryUnderflow):
		return "Nothing to take back"
	case errors.Is(err, domain.ErrCannotPass):
		return "You still have a legal move"
	case errors.Is(err, domain.ErrGameOver):
		return "Game is over"
	default:
		return "Invalid move"
	}
}

// action runs a player command and answers with the board fragment,
// showing any error above it.
func (h *handlers) action(w http.ResponseWriter, r *http.Request, do func(id, pid string) (*app.GameView, error)) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	gv, err := do(id, pid)
	if errors.Is(err, app.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	var errMsg string
	if err != nil {
		errMsg = errorMessage(err)
		h.log.Debug("action rejected", zap.String("game", id), zap.String("path", r.URL.Path), zap.Error(err))
		if gv == nil {
			if g, ok := h.svc.Get(id); ok {
				gv = g
			}
		}
	}
	if gv == nil {
		http.NotFound(w, r)
		return
	}
	h.writeBoard(w, *gv, errMsg)
}

// engineReply lets engine seats answer until a human is to move.
func (h *handlers) engineReply(ctx context.Context, gv *app.GameView) *app.GameView {
	if gv.RedAI == "" && gv.WhiteAI == "" {
		return gv
	}
	next, err := h.svc.Autoplay(ctx, gv.ID, 0)
	if err != nil {
		h.log.Warn("engine reply failed", zap.String("game", gv.ID), zap.Error(err))
		return gv
	}
	return next
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	ri, rErr := strconv.Atoi(r.Form.Get("r"))
	ci, cErr := strconv.Atoi(r.Form.Get("c"))
	h.action(w, r, func(id, pid string) (*app.GameView, error) {
		if rErr != nil || cErr != nil {
			return nil, fmt.Errorf("cell %q,%q: %w", r.Form.Get("r"), r.Form.Get("c"), domain.ErrOutOfBounds)
		}
		gv, err := h.svc.Play(id, pid, ri, ci)
		if err != nil {
			return nil, err
		}
		return h.engineReply(r.Context(), gv), nil
	})
}

func (h *handlers) pass(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(id, pid string) (*app.GameView, error) {
		gv, err := h.svc.Pass(id, pid)
		if err != nil {
			return nil, err
		}
		return h.engineReply(r.Context(), gv), nil
	})
}

func (h *handlers) undo(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.svc.Undo)
}

func (h *handlers) redo(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.svc.Redo)
}

func (h *handlers) aiMove(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(id, _ string) (*app.GameView, error) {
		return h.svc.AIMove(id)
	})
}

var heartbeatInterval = 15 * time.Second

// writeSSE emits one event; every line of a multi-line payload gets its
// own data field.
func writeSSE(w io.Writer, event string, payload []byte) {
	_, _ = fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range strings.Split(strings.TrimRight(string(payload), "\n"), "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = io.WriteString(w, "\n")
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer unsub()
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case v, ok := <-ch:
			if !ok {
				return
			}
			writeSSE(w, "board", h.renderBoard(v, ""))
			flusher.Flush()
		}
	}
}
