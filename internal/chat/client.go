package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Deep-1402/cafe/pkg/logger"
	"github.com/Deep-1402/cafe/prometheus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Events exchanged over the socket.
const (
	EventJoinRoom    = "join_room"
	EventSendMessage = "send_message"
)

// Envelope is the wire format for both directions.
type Envelope struct {
	Event      string `json:"event"`
	ChatID     uint   `json:"chat_id,omitempty"`
	ReceiverID uint   `json:"receiver_id,omitempty"`
	SenderID   uint   `json:"sender_id,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Client is one websocket connection bound to an authenticated staff
// user of one tenant.
type Client struct {
	hub    *Hub
	store  *Store
	conn   *websocket.Conn
	send   chan []byte
	userID uint
	dbName string
	joined map[string]struct{}

	closeOnce sync.Once
}

// NewClient binds a websocket connection to the hub for one
// authenticated user. Run starts the pumps and blocks until the
// connection drops.
func NewClient(hub *Hub, store *Store, conn *websocket.Conn, userID uint, dbName string) *Client {
	return &Client{
		hub:    hub,
		store:  store,
		conn:   conn,
		send:   make(chan []byte, 64),
		userID: userID,
		dbName: dbName,
		joined: make(map[string]struct{}),
	}
}

// Run services the connection until it closes.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.hub.remove(c)
		close(c.send)
		c.conn.Close()
	})
}

func (c *Client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	log := logger.GetLogger().With(
		zap.Uint("user_id", c.userID),
		zap.String("tenant_db", c.dbName))

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("Unexpected socket close", zap.Error(err))
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Warn("Malformed chat event", zap.Error(err))
			continue
		}

		switch env.Event {
		case EventJoinRoom:
			c.handleJoin(env, log)
		case EventSendMessage:
			c.handleSend(env, log)
		}
	}
}

func (c *Client) handleJoin(env Envelope, log *zap.Logger) {
	chat, err := c.store.Get(context.Background(), env.ChatID)
	if err != nil || !chat.Involves(c.userID) {
		log.Warn("Join rejected", zap.Uint("chat_id", env.ChatID))
		return
	}
	c.hub.join(c, chat.ID)
	log.Debug("Joined chat room", zap.Uint("chat_id", chat.ID))
}

// handleSend persists the message through the tenant's entities, then
// relays it to the room. The sender is joined to the chat's room so a
// fresh pair starts receiving replies without an explicit join.
func (c *Client) handleSend(env Envelope, log *zap.Logger) {
	if env.Message == "" || env.ReceiverID == 0 {
		return
	}

	msg, err := c.store.SaveMessage(context.Background(), c.userID, env.ReceiverID, env.Message)
	if err != nil {
		log.Error("Failed to persist chat message", zap.Error(err))
		return
	}
	prometheus.ChatMessageCounter.Inc()

	c.hub.join(c, msg.ChatID)

	out, err := json.Marshal(Envelope{
		Event:    EventSendMessage,
		ChatID:   msg.ChatID,
		SenderID: c.userID,
		Message:  msg.Body,
	})
	if err != nil {
		return
	}
	c.hub.broadcast(c, msg.ChatID, out)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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
