// internal/feed/hub.go
//
// Websocket fan-out of game views.
// Every socket subscribes to one game ID; after each state change the
// HTTP layer publishes the new view and the hub forwards it to all sockets
// watching that game. The hub's maps are only touched by the Run loop.

package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBuffer = 16
)

// Message is one frame sent to subscribers.
type Message struct {
	GameID string `json:"gameId"`
	Event  string `json:"event"`
	Data   any    `json:"data,omitempty"`
}

type client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	gameID string
}

// Hub maintains sockets per game and broadcasts messages to them.
type Hub struct {
	upgrader   websocket.Upgrader
	games      map[string]map[*client]bool
	broadcast  chan *Message
	register   chan *client
	unregister chan *client
	count      chan chan map[string]int
	done       chan struct{}
}

// NewHub creates a hub accepting sockets from origin ("" or "*" allows any).
func NewHub(origin string) *Hub {
	h := &Hub{
		games:      make(map[string]map[*client]bool),
		broadcast:  make(chan *Message, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		count:      make(chan chan map[string]int),
		done:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			o := r.Header.Get("Origin")
			return origin == "" || origin == "*" || o == "" || o == origin
		},
	}
	return h
}

// Run is the hub's event loop; it returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.games {
				for c := range clients {
					close(c.send)
				}
			}
			h.games = make(map[string]map[*client]bool)
			return
		case c := <-h.register:
			if h.games[c.gameID] == nil {
				h.games[c.gameID] = make(map[*client]bool)
			}
			h.games[c.gameID][c] = true
			log.Debug().Str("gameId", c.gameID).Int("clients", len(h.games[c.gameID])).Msg("feed subscribe")
		case c := <-h.unregister:
			h.drop(c)
		case m := <-h.broadcast:
			h.fanOut(m)
		case reply := <-h.count:
			out := make(map[string]int, len(h.games))
			for id, clients := range h.games {
				out[id] = len(clients)
			}
			reply <- out
		}
	}
}

func (h *Hub) drop(c *client) {
	clients, ok := h.games[c.gameID]
	if !ok || !clients[c] {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.games, c.gameID)
	}
	log.Debug().Str("gameId", c.gameID).Int("clients", len(clients)).Msg("feed unsubscribe")
}

func (h *Hub) fanOut(m *Message) {
	data, err := json.Marshal(m)
	if err != nil {
		log.Warn().Err(err).Str("gameId", m.GameID).Msg("marshal feed message")
		return
	}
	for c := range h.games[m.GameID] {
		select {
		case c.send <- data:
		default:
			// slow subscriber
			h.drop(c)
		}
	}
}

// Publish queues an event for every socket watching gameID. It never
// blocks the caller; when the queue is full the message is dropped.
func (h *Hub) Publish(gameID, event string, data any) {
	select {
	case h.broadcast <- &Message{GameID: gameID, Event: event, Data: data}:
	default:
		log.Warn().Str("gameId", gameID).Str("event", event).Msg("feed queue full, dropping message")
	}
}

// Subscribers returns the number of sockets per game.
func (h *Hub) Subscribers(ctx context.Context) map[string]int {
	reply := make(chan map[string]int, 1)
	select {
	case h.count <- reply:
	case <-h.done:
		return nil
	case <-ctx.Done():
		return nil
	}
	select {
	case m := <-reply:
		return m
	case <-ctx.Done():
		return nil
	}
}

// ServeWS upgrades the request and subscribes it to gameID. The initial
// message, when non-nil, is sent before any broadcast.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, gameID string, initial any) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("websocket upgrade failed")
		return
	}
	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer), gameID: gameID}
	if initial != nil {
		if data, err := json.Marshal(&Message{GameID: gameID, Event: "state", Data: initial}); err == nil {
			c.send <- data
		}
	}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump discards client frames and detects disconnects.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("gameId", c.gameID).Msg("websocket read")
			}
			return
		}
	}
}

// writePump forwards queued messages and keeps the connection alive.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
