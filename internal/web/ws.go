package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jaminalder/reversi/internal/app"
)

var wsIdlePingInterval = 30 * time.Second

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func stateMessage(v app.GameView) []byte {
	return mustMarshal(wsMessage{Type: "state", Payload: mustMarshal(v)})
}

// writeWSWithHeartbeat drains send onto conn and pings when idle.
func writeWSWithHeartbeat(ctx context.Context, conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload := mustMarshal(wsMessage{Type: "ping"})

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-send:
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}

// ws pushes the game state as JSON on every change. Clients may send
// {"type":"request_state"} to get the current state again.
func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	gv, ok := h.svc.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", zap.String("game", id), zap.Error(err))
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		_ = conn.Close()
		return
	}
	defer unsub()

	send := make(chan []byte, 16)
	enqueue := func(b []byte) {
		select {
		case send <- b:
		case <-ctx.Done():
		}
	}
	enqueue(stateMessage(*gv))

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(ctx, conn, send); err != nil {
			h.log.Debug("websocket write failed", zap.String("game", id), zap.Error(err))
		}
		cancel()
	}()
	go func() {
		for v := range updates {
			enqueue(stateMessage(v))
		}
		// dropped as a slow subscriber or unsubscribed
		cancel()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_state":
			if cur, ok := h.svc.Get(id); ok {
				enqueue(stateMessage(*cur))
			}
		}
	}
}
