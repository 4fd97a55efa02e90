package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"secure-dashboard/models"
	"secure-dashboard/templates"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	broadcastBuffer = 64
	writeWait       = 5 * time.Second
)

const sessionExpiredHTML = `<div class="error-message" id="feed-error">Your session has ended. Please <a href="/login">sign in</a> again.</div>`

type Client struct {
	conn      *websocket.Conn
	sessionID string
	mutex     sync.Mutex
}

func (cl *Client) write(msg []byte) error {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return cl.conn.WriteMessage(websocket.TextMessage, msg)
}

func (cl *Client) close() {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	cl.conn.Close()
}

// Hub pushes newly appended records to every connected dashboard.
type Hub struct {
	clients   map[*Client]bool
	broadcast chan string
	mutex     sync.Mutex
	upgrader  websocket.Upgrader
	sessions  *SessionRegistry
	logger    *slog.Logger
}

func NewHub(sessions *SessionRegistry, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:   make(map[*Client]bool),
		broadcast: make(chan string, broadcastBuffer),
		sessions:  sessions,
		logger:    logger,
	}
}

// ServeWS upgrades an authenticated request and keeps the client registered
// until it disconnects or its session ends.
func (h *Hub) ServeWS(c *gin.Context) {
	session, ok := CurrentSession(c)
	if !ok || !session.Authenticated() {
		c.String(http.StatusUnauthorized, "Unauthorized")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{conn: conn, sessionID: session.ID}
	h.mutex.Lock()
	h.clients[client] = true
	h.mutex.Unlock()
	h.logger.Debug("feed client joined", "user", session.Username)

	defer func() {
		h.remove(client)
		client.close()
		h.logger.Debug("feed client left", "user", session.Username)
	}()

	// A logout or a newer login may have landed between the auth check and
	// registration; CloseSession would have missed this client.
	if _, valid := h.sessions.Get(session.ID); !valid {
		_ = client.write([]byte(sessionExpiredHTML))
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}

		if _, valid := h.sessions.Get(session.ID); !valid {
			if err := client.write([]byte(sessionExpiredHTML)); err != nil {
				h.logger.Debug("session expired notice not delivered", "error", err)
			}
			return
		}
	}
}

// Publish queues record for delivery. When the queue is full the record is
// dropped from the live feed; it is still part of the list.
func (h *Hub) Publish(ctx context.Context, record models.Record) {
	html, err := templates.RenderString(ctx, templates.RecordItem(record))
	if err != nil {
		h.logger.Error("render record for feed", "error", err)
		return
	}

	select {
	case h.broadcast <- html:
	default:
		h.logger.Warn("feed queue full, dropping record", "record_id", record.ID)
	}
}

// Run delivers queued messages until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.broadcast:
			h.send([]byte(msg))
		}
	}
}

// CloseSession disconnects every client bound to sessionID.
func (h *Hub) CloseSession(sessionID string) {
	h.mutex.Lock()
	var dropped []*Client
	for client := range h.clients {
		if client.sessionID == sessionID {
			dropped = append(dropped, client)
			delete(h.clients, client)
		}
	}
	h.mutex.Unlock()

	for _, client := range dropped {
		_ = client.write([]byte(sessionExpiredHTML))
		client.close()
	}
}

func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) send(msg []byte) {
	h.mutex.Lock()
	targets := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		targets = append(targets, client)
	}
	h.mutex.Unlock()

	for _, client := range targets {
		if err := client.write(msg); err != nil {
			h.remove(client)
			client.close()
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	delete(h.clients, client)
	h.mutex.Unlock()
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	clients := h.clients
	h.clients = make(map[*Client]bool)
	h.mutex.Unlock()

	for client := range clients {
		client.close()
	}
}
