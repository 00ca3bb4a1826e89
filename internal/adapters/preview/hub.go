package preview

import (
	"bufio"
	"net/http"
	"sync"
	"time"
)

// HeartbeatInterval is how often idle SSE streams receive a comment line.
const HeartbeatInterval = 30 * time.Second

const clientBuffer = 8

// Hub fans reload tokens out to Server-Sent Events clients.
type Hub struct {
	mu      sync.RWMutex
	nextID  int
	clients map[int]*client
	metrics *Metrics
	closed  bool
	last    string
}

type client struct {
	ch   chan string
	done chan struct{}
}

// NewHub creates an empty hub. metrics may be nil.
func NewHub(metrics *Metrics) *Hub {
	return &Hub{clients: make(map[int]*client), metrics: metrics}
}

// ServeHTTP streams reload events until the client disconnects or the hub shuts down.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	id, c, current, ok := h.register()
	if !ok {
		http.Error(w, "preview shutting down", http.StatusServiceUnavailable)
		return
	}
	defer h.remove(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	bw := bufio.NewWriter(w)
	send := func(s string) bool {
		if _, err := bw.WriteString(s); err != nil {
			return false
		}
		if err := bw.Flush(); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	hello := ": connected\n\n"
	if current != "" {
		hello += "event: hello\ndata: " + payload(current) + "\n\n"
	}
	if !send(hello) {
		return
	}

	heartbeat := time.NewTicker(HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-c.done:
			return
		case <-heartbeat.C:
			if !send(": ping\n\n") {
				return
			}
		case token := <-c.ch:
			if !send("event: reload\ndata: " + payload(token) + "\n\n") {
				return
			}
		}
	}
}

func payload(token string) string {
	return `{"token":"` + token + `"}`
}

func (h *Hub) register() (int, *client, string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, nil, "", false
	}
	c := &client{ch: make(chan string, clientBuffer), done: make(chan struct{})}
	id := h.nextID
	h.nextID++
	h.clients[id] = c
	h.metrics.setClients(len(h.clients))
	return id, c, h.last, true
}

func (h *Hub) remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.done)
		h.metrics.setClients(len(h.clients))
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends token to every client. Clients whose buffer is full are
// disconnected rather than waited for. It returns the number of clients reached.
func (h *Hub) Broadcast(token string) int {
	h.mu.Lock()
	if h.closed || token == "" {
		h.mu.Unlock()
		return 0
	}
	h.last = token
	snapshot := make(map[int]*client, len(h.clients))
	for id, c := range h.clients {
		snapshot[id] = c
	}
	h.mu.Unlock()

	sent := 0
	for id, c := range snapshot {
		select {
		case c.ch <- token:
			sent++
		default:
			h.remove(id)
		}
	}
	h.metrics.incReloads()
	return sent
}

// Shutdown disconnects every client and rejects new ones.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.done)
	}
	h.metrics.setClients(0)
}
