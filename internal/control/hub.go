package control

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/devbydaniel/whisperclip/internal/domain/dictation"
	"github.com/devbydaniel/whisperclip/pkg/logger"
)

const writeTimeout = 5 * time.Second

// StatusEvent is pushed to websocket subscribers whenever the recording
// indicator changes.
type StatusEvent struct {
	Recording bool   `json:"recording"`
	Text      string `json:"text,omitempty"`
}

// Hub is the status indicator for editor hosts: it keeps the latest
// indicator state and streams changes to every connected websocket client.
type Hub struct {
	logger   *logger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	last    StatusEvent
	clients map[chan StatusEvent]struct{}
}

var _ dictation.Indicator = (*Hub)(nil)

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		logger: log.Named("hub"),
		upgrader: websocket.Upgrader{
			// Only non-browser clients (editor extensions, the CLI) send no Origin.
			CheckOrigin: func(r *http.Request) bool { return r.Header.Get("Origin") == "" },
		},
		clients: make(map[chan StatusEvent]struct{}),
	}
}

// Show marks the recording as active.
func (h *Hub) Show(text string) {
	h.broadcast(StatusEvent{Recording: true, Text: text})
}

// Hide clears the recording indicator.
func (h *Hub) Hide() {
	h.broadcast(StatusEvent{})
}

// Last returns the most recent indicator state.
func (h *Hub) Last() StatusEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

func (h *Hub) broadcast(ev StatusEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = ev
	for ch := range h.clients {
		select {
		case ch <- ev:
		default:
			h.logger.Warn("dropping status event for slow subscriber")
		}
	}
}

func (h *Hub) subscribe() (chan StatusEvent, StatusEvent) {
	ch := make(chan StatusEvent, 8)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[ch] = struct{}{}
	return ch, h.last
}

func (h *Hub) unsubscribe(ch chan StatusEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, ch)
}

// Subscribers returns the number of connected clients.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and streams status events until the client
// goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", logger.Error(err))
		return
	}
	defer conn.Close()

	ch, last := h.subscribe()
	defer h.unsubscribe(ch)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.write(conn, last); err != nil {
		return
	}
	for {
		select {
		case ev := <-ch:
			if err := h.write(conn, ev); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (h *Hub) write(conn *websocket.Conn, ev StatusEvent) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(ev); err != nil {
		if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			h.logger.Debug("websocket write failed", logger.Error(err))
		}
		return err
	}
	return nil
}
