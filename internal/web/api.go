package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jaminalder/reversi/internal/ai"
	"github.com/jaminalder/reversi/internal/app"
	"github.com/jaminalder/reversi/internal/domain"
)

type apiError struct {
	Error string `json:"error"`
}

type evaluation struct {
	Player domain.Player `json:"player"`
	Kind   string        `json:"kind"`
	Score  int           `json:"score"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrNotAPlayer):
		return http.StatusForbidden
	case errors.Is(err, ai.ErrUnknownKind), errors.Is(err, errBadPlayer):
		return http.StatusBadRequest
	default:
		return http.StatusConflict
	}
}

func writeAPIError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), apiError{Error: err.Error()})
}

var errBadPlayer = errors.New("player must be red or white")

func parsePlayer(s string) (domain.Player, error) {
	switch strings.ToLower(s) {
	case "red", "":
		return domain.PlayerRed, nil
	case "white":
		return domain.PlayerWhite, nil
	}
	return 0, errBadPlayer
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
	gv, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		writeAPIError(w, app.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, gv)
}

// evaluate scores the displayed board: ?player=red|white&kind=h1|h2.
func (h *handlers) evaluate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, err := parsePlayer(q.Get("player"))
	if err != nil {
		writeAPIError(w, err)
		return
	}
	kindName := q.Get("kind")
	if kindName == "" {
		kindName = "positional"
	}
	kind, err := ai.ParseKind(kindName)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	score, err := h.svc.Evaluate(chi.URLParam(r, "id"), p, kind)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, evaluation{Player: p, Kind: kind.String(), Score: score})
}

func (h *handlers) replay(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.svc.Replay(chi.URLParam(r, "id"))
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snaps)
}
