// Package websocket pushes game state snapshots to spectator screens. Rooms
// are keyed by session id so every screen watching one party sees the same
// updates.
package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
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
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Screens connect from phones on the same LAN or via the tunnel.
		return true
	},
}

// Message is one pushed update: which game changed and its fresh state.
type Message struct {
	Game  string      `json:"game"`
	Event string      `json:"event"`
	State interface{} `json:"state,omitempty"`
}

// Client is one connected screen.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// Hub maintains the set of active clients per session and fans out updates.
type Hub struct {
	sessions   map[string]map[*Client]bool
	broadcast  chan *sessionMessage
	register   chan *Client
	unregister chan *Client
	log        zerolog.Logger
}

type sessionMessage struct {
	sessionID string
	payload   []byte
}

// NewHub creates an empty hub. Call Run in a goroutine before serving.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *sessionMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run starts the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

// ServeWS upgrades the request and joins the client to its session's room.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// Broadcast pushes a state update to every screen watching the session.
// Safe to call from request handlers; never blocks them.
func (h *Hub) Broadcast(sessionID, game string, state interface{}) {
	data, err := json.Marshal(&Message{Game: game, Event: "state_update", State: state})
	if err != nil {
		h.log.Error().Err(err).Msg("marshal websocket message")
		return
	}

	select {
	case h.broadcast <- &sessionMessage{sessionID: sessionID, payload: data}:
	default:
		h.log.Warn().Str("session", sessionID).Msg("websocket broadcast queue full, dropping update")
	}
}

func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true
	h.log.Debug().Str("session", client.sessionID).Int("clients", len(h.sessions[client.sessionID])).Msg("screen connected")
}

func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.sessions[client.sessionID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.sessions, client.sessionID)
	}
	h.log.Debug().Str("session", client.sessionID).Int("clients", len(clients)).Msg("screen disconnected")
}

func (h *Hub) fanOut(msg *sessionMessage) {
	for client := range h.sessions[msg.sessionID] {
		select {
		case client.send <- msg.payload:
		default:
			h.unregisterClient(client)
		}
	}
}

// readPump drains the connection; screens send nothing we act on, reading
// only keeps the ping/pong cycle alive.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
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
				c.hub.log.Debug().Err(err).Msg("websocket read")
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the connection.
func (c *Client) writePump() {
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

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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
