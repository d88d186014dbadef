package network

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/fusebox-party/fusebox/pkg/log"
	"github.com/fusebox-party/fusebox/pkg/messages"
	"github.com/fusebox-party/fusebox/pkg/queue"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	// writeWait bounds a single frame write.
	writeWait = 10 * time.Second

	// pongWait is the idle read deadline; a connection that misses it
	// without a pong is closed.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait so pings arrive before
	// the deadline.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds inbound frames.
	maxMessageSize = 4096

	// inboundRate and inboundBurst bound inbound frames per connection;
	// frames over the limit are dropped, not errored.
	inboundRate  = 20
	inboundBurst = 40
)

// Conn is one player's websocket connection: an inbound read pump, an
// outbound write pump, and a bounded outbox between the session layer
// and the wire.
type Conn struct {
	playerID string
	ws       *websocket.Conn
	outbox   *queue.Outbox
	limiter  *rate.Limiter

	closeOnce sync.Once
}

func newConn(playerID string, ws *websocket.Conn) *Conn {
	return &Conn{
		playerID: playerID,
		ws:       ws,
		outbox:   queue.NewOutbox(queue.DefaultCapacity),
		limiter:  rate.NewLimiter(rate.Limit(inboundRate), inboundBurst),
	}
}

// PlayerID returns the player this connection belongs to.
func (c *Conn) PlayerID() string {
	return c.playerID
}

// TrySend offers a message to the outbound queue. Delivery is
// at-most-once: a full queue drops the message rather than blocking
// the caller.
func (c *Conn) TrySend(msg *messages.Message) bool {
	ok := c.outbox.TryEnqueue(msg)
	if !ok {
		log.Debug("Dropped outbound %s message for player %s", msg.Type, c.playerID)
	}
	return ok
}

// Close shuts the outbox and the underlying socket. Idempotent.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		c.outbox.Close()
		c.ws.Close()
	})
}

// readPump reads inbound frames until the connection dies. Malformed
// frames and frames over the rate limit are dropped with a local log.
func (c *Conn) readPump(handler func(*messages.Message), onClose func()) {
	defer func() {
		c.Close()
		onClose()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("Read error for player %s: %v", c.playerID, err)
			}
			return
		}
		if !c.limiter.Allow() {
			log.Warn("Rate limit exceeded for player %s, dropping frame", c.playerID)
			continue
		}
		var msg messages.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug("Dropping malformed frame from player %s: %v", c.playerID, err)
			continue
		}
		handler(&msg)
	}
}

// writePump drains the outbox onto the wire and keeps the connection
// alive with periodic pings.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case msg, ok := <-c.outbox.Messages():
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteJSON(msg); err != nil {
				log.Debug("Write error for player %s: %v", c.playerID, err)
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
