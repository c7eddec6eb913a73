package transport

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/roelstierum/plcsim-go/internal/obslog"
	"github.com/roelstierum/plcsim-go/internal/varspace"
)

// hub fans out PlcToEco diffs to every connected client, grounded on
// the teacher's api/websocket.go Hub/Client/register/unregister/
// broadcast pattern.
type hub struct {
	mu      sync.Mutex
	clients map[*wsClient]bool
	log     *obslog.Logger
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func newHub() *hub {
	return &hub{clients: make(map[*wsClient]bool), log: obslog.New("transport.ws")}
}

func (h *hub) register(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
}

func (h *hub) unregister(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *hub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			close(c.send)
			delete(h.clients, c)
		}
	}
}

// run drains the Space's Subscription and broadcasts each PlcToEco
// change as JSON until sub is closed (by the Router on shutdown).
func (h *hub) run(sub *varspace.Subscription) {
	for change := range sub.C {
		if !strings.HasPrefix(change.Path, "PlcToEco/") {
			continue
		}
		msg, err := json.Marshal(wireChange{Path: change.Path, Value: wireValue(change.Value)})
		if err != nil {
			h.log.Warn("marshal change failed", "path", change.Path, "err", err)
			continue
		}
		h.broadcast(msg)
	}
}

type wireChange struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

func wireValue(v varspace.Value) any {
	switch v.Kind {
	case varspace.KindBool:
		return v.B
	case varspace.KindString:
		return v.S
	default:
		return v.I
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func (rt *Router) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		rt.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	client := &wsClient{conn: conn, send: make(chan []byte, 256)}
	rt.hub.register(client)

	go func() {
		defer func() {
			rt.hub.unregister(client)
			_ = conn.Close()
		}()
		for msg := range client.send {
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	// Drain and discard inbound frames; this stream is publish-only.
	go func() {
		defer func() {
			rt.hub.unregister(client)
			_ = conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
