package relay

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/HiQain/Task-Manager/internal/types"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 4096
)

type Client struct {
	conn *websocket.Conn
	rs   *Server
	log  *log.Logger
	user types.User
	send chan *ServerEnvelope

	stop     chan struct{}
	stopOnce sync.Once

	// Router state: which conversation this connection is currently
	// viewing. Guarded by rs.mu, cleared implicitly on unregister.
	activePeerId *int
	activeTaskId *int

	connectedAt time.Time
}

func NewClient(user types.User, conn *websocket.Conn, rs *Server, l *log.Logger) *Client {
	return &Client{
		conn: conn,
		rs:   rs,
		log:  l,
		user: user,
		send: make(chan *ServerEnvelope, 256),
		stop: make(chan struct{}),
	}
}

func (c *Client) Write() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.log.Println("write exiting")
	}()

	for {
		select {
		case env, ok := <-c.send:
			if !ok {
				return
			}

			bytes, err := serializeEnvelope(env)
			if err != nil {
				c.log.Println("failed to serialize envelope:", err)
				continue
			}

			if !c.sendMessage(websocket.TextMessage, bytes) {
				return
			}
		case <-c.stop:
			return
		case <-ticker.C:
			if !c.sendMessage(websocket.PingMessage, nil) {
				return
			}
		}
	}
}

func (c *Client) Read() {
	defer func() {
		c.conn.Close()
		c.cleanup()
		c.log.Println("read exiting")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(appData string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.log.Printf("ws: read: %v", err)
			}
			break
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			// malformed frames are dropped, nothing is echoed back
			c.log.Println("error parsing envelope:", err)
			continue
		}

		c.handleEnvelope(&env)
	}
}

func (c *Client) handleEnvelope(env *Envelope) {
	switch env.Type {
	case TypeActiveRoom:
		var p ActiveRoomPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			c.log.Println("invalid active-room payload:", err)
			return
		}
		c.rs.SetActiveRoom(c, p.ActiveUserId)
	case TypeActiveTaskGroup:
		var p ActiveTaskGroupPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			c.log.Println("invalid active-task-group payload:", err)
			return
		}
		c.rs.SetActiveTaskGroup(c, p.ActiveTaskId)
	case TypeTyping:
		var p TypingPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			c.log.Println("invalid typing payload:", err)
			return
		}
		c.rs.RelayTyping(c.user.Id, p)
	case TypeWebRTCSignal:
		var p SignalPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			c.log.Println("invalid signal payload:", err)
			return
		}
		c.rs.RelaySignal(c.user.Id, p)
	default:
		c.log.Printf("unknown envelope type %q", env.Type)
	}
}

func (c *Client) queueEnvelope(env *ServerEnvelope) bool {
	select {
	case c.send <- env:
	default:
		c.log.Println("failed to queue envelope, channel is full")
		return false
	}

	return true
}

func (c *Client) sendMessage(msgType int, msg []byte) bool {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := c.conn.WriteMessage(msgType, msg); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
			websocket.CloseNormalClosure) {
			c.log.Printf("write message: %s", err)
		}
		return false
	}

	return true
}

func (c *Client) stopClient() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

func (c *Client) cleanup() {
	c.rs.Unregister(c)
	c.stopClient()
}
