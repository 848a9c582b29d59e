package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"wordduel/internal/app"
	"wordduel/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client is one WebSocket connection attached to a match. A client that
// connected without a player ID is a spectator until it sends join_match.
type Client struct {
	conn   *websocket.Conn
	hub    *app.Hub
	coord  *app.Coordinator
	send   chan []byte
	done   chan struct{}
	logger zerolog.Logger

	mu       sync.Mutex
	playerID string
	closed   bool
}

// NewClient creates a client for coord. playerID may be empty.
func NewClient(conn *websocket.Conn, hub *app.Hub, coord *app.Coordinator, playerID string, logger zerolog.Logger) *Client {
	return &Client{
		conn:     conn,
		hub:      hub,
		coord:    coord,
		playerID: playerID,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// GetPlayerID returns the player ID for this client
func (c *Client) GetPlayerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID
}

// Send implements app.ClientConnection. Match events are translated into
// server messages; anything else is written as is.
func (c *Client) Send(message interface{}) error {
	if ev, ok := message.(*domain.MatchEvent); ok {
		msg, ok := fromEvent(ev)
		if !ok {
			return nil
		}
		message = msg
	}

	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn().Str("playerId", c.playerID).Msg("send buffer full, message dropped")
		return nil
	}
}

// Close implements app.ClientConnection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		// A resumed seat has already replaced this client; leave it connected
		if id := c.GetPlayerID(); id != "" && c.coord.UnregisterClient(id, c) {
			c.coord.DisconnectPlayer(id)
		}
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug().Err(err).Msg("websocket read error")
			}
			break
		}

		c.handleMessage(message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
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

// inbound is the envelope of a client message before its payload is decoded
type inbound struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type joinPayload struct {
	Name string `json:"name"`
}

// submitPayload carries the client's own timestamp, which is advisory:
// lateness is judged by the time the server receives the word.
type submitPayload struct {
	Word        string `json:"word"`
	SubmittedAt int64  `json:"submittedAt,omitempty"`
}

func (c *Client) handleMessage(data []byte) {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgJoinMatch:
		var p joinPayload
		if len(msg.Payload) > 0 && json.Unmarshal(msg.Payload, &p) != nil {
			c.sendError(ErrCodeInvalidMessage, "Invalid payload")
			return
		}
		c.handleJoinMatch(p)
	case MsgSubmitWord:
		var p submitPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			c.sendError(ErrCodeInvalidMessage, "Invalid payload")
			return
		}
		c.handleSubmitWord(p, time.Now())
	case MsgPing:
		c.Send(NewServerMessage(MsgPong, nil))
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

func (c *Client) handleJoinMatch(p joinPayload) {
	if c.GetPlayerID() != "" {
		c.sendError(ErrCodeAlreadyJoined, "Already seated in this match")
		return
	}

	handle, err := c.hub.JoinMatch(c.coord.MatchID(), p.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMatchFull):
			c.sendError(ErrCodeMatchFull, "Match is full")
		case errors.Is(err, domain.ErrMatchNotFound):
			c.sendError(string(domain.ReasonMatchNotFound), "Match not found")
		default:
			c.sendError(ErrCodeInternalError, err.Error())
		}
		return
	}

	c.mu.Lock()
	c.playerID = handle.PlayerID
	c.mu.Unlock()

	c.coord.RegisterClient(handle.PlayerID, c)
	c.sendConnected()
}

func (c *Client) handleSubmitWord(p submitPayload, receivedAt time.Time) {
	playerID := c.GetPlayerID()
	if playerID == "" {
		c.sendError(ErrCodeNotJoined, "Join the match before submitting")
		return
	}

	receipt, err := c.coord.SubmitWord(playerID, p.Word, receivedAt)
	if err != nil {
		if reason, ok := domain.ReasonFor(err); ok {
			c.sendError(string(reason), err.Error())
			return
		}
		c.sendError(ErrCodeInternalError, err.Error())
		return
	}

	c.Send(NewServerMessage(MsgSubmissionAck, &SubmissionAckPayload{
		Late:          receipt.Late,
		BothSubmitted: receipt.BothSubmitted,
	}))
}

func (c *Client) sendConnected() {
	playerID := c.GetPlayerID()
	c.Send(NewServerMessage(MsgConnected, &ConnectedPayload{
		PlayerID: playerID,
		MatchID:  c.coord.MatchID(),
		Snapshot: c.coord.Snapshot(playerID),
	}))
}

func (c *Client) sendError(code, message string) {
	c.Send(NewServerMessage(MsgError, &ErrorPayload{
		Code:    code,
		Message: message,
	}))
}
