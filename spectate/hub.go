// Package spectate streams the state of a running stage to websocket
// clients after every frame.
package spectate

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512

	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	id   uuid.UUID
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans frames out to every connected spectator. Publish never blocks
// the simulation; a spectator that falls behind is dropped.
type Hub struct {
	log log.FieldLogger

	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	count      atomic.Int64
	done       chan struct{}

	mu       sync.RWMutex
	latest   []byte
	frame    Frame
	run      string
	lastTick int
}

func NewHub(logger log.FieldLogger) *Hub {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Hub{
		log:        logger,
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for c := range h.clients {
				h.remove(c)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			h.count.Store(int64(len(h.clients)))
			if data := h.Latest(); data != nil {
				c.send <- data
			}
			h.log.WithFields(log.Fields{"spectator": c.id, "clients": len(h.clients)}).Info("spectator joined")

		case c := <-h.unregister:
			h.remove(c)

		case data := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- data:
				default:
					h.log.Warn("spectator too slow, dropping")
					h.remove(c)
				}
			}
		}
	}
}

func (h *Hub) remove(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.count.Store(int64(len(h.clients)))
	h.log.WithFields(log.Fields{"spectator": c.id, "clients": len(h.clients)}).Info("spectator left")
}

// Clients is the number of connected spectators.
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

// Publish stamps f with the current run, sends it to every spectator and
// keeps it for late joiners. A tick count lower than the last one means the
// stage was reloaded, which starts a new run.
func (h *Hub) Publish(f Frame) error {
	h.mu.Lock()
	if h.run == "" || f.Tick < h.lastTick {
		h.run = uuid.NewString()
		h.log.WithField("run", h.run).Info("spectate: new run")
	}
	h.lastTick = f.Tick
	f.Run = h.run
	data, err := json.Marshal(f)
	if err == nil {
		h.latest = data
		h.frame = f
	}
	h.mu.Unlock()
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- data:
	default:
		h.log.Debug("spectate: broadcast queue full, frame skipped")
	}
	return nil
}

// Latest returns the last published frame as JSON, or nil.
func (h *Hub) Latest() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// LatestFrame returns the last published frame, if any.
func (h *Hub) LatestFrame() (Frame, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.frame, h.latest != nil
}

// ServeWS upgrades the request and subscribes the connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	c := &client{id: uuid.New(), hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump only watches for the connection closing; spectators do not send
// anything.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.WithError(err).Warn("spectator read")
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
