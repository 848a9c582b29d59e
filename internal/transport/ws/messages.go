package ws

import (
	"time"

	"wordduel/internal/app"
	"wordduel/internal/domain"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgJoinMatch  MessageType = "join_match"
	MsgSubmitWord MessageType = "submit_word"
	MsgPing       MessageType = "ping"
)

// Server → Client message types
const (
	MsgConnected         MessageType = "connected"
	MsgError             MessageType = "error"
	MsgLobbyUpdate       MessageType = "lobby_update"
	MsgRoundStarted      MessageType = "round_started"
	MsgSubmissionsOpen   MessageType = "submissions_open"
	MsgSubmissionAck     MessageType = "submission_accepted"
	MsgOpponentSubmitted MessageType = "opponent_submitted"
	MsgRoundResolved     MessageType = "round_resolved"
	MsgMatchResolved     MessageType = "match_resolved"
	MsgPong              MessageType = "pong"
)

// eventMessages maps match events onto the wire vocabulary
var eventMessages = map[domain.EventType]MessageType{
	domain.EventPlayerJoined:      MsgLobbyUpdate,
	domain.EventPlayerLeft:        MsgLobbyUpdate,
	domain.EventPlayerReconnected: MsgLobbyUpdate,
	domain.EventRoundStarted:      MsgRoundStarted,
	domain.EventSubmissionsOpen:   MsgSubmissionsOpen,
	domain.EventOpponentSubmitted: MsgOpponentSubmitted,
	domain.EventRoundResolved:     MsgRoundResolved,
	domain.EventMatchResolved:     MsgMatchResolved,
}

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// fromEvent converts a match event; ok is false for unmapped events
func fromEvent(ev *domain.MatchEvent) (*ServerMessage, bool) {
	msgType, ok := eventMessages[ev.Type]
	if !ok {
		return nil, false
	}
	return &ServerMessage{
		Type:      msgType,
		Payload:   ev.Payload,
		Timestamp: ev.Timestamp.UTC().Format(time.RFC3339),
	}, true
}

// Server message payloads

// ConnectedPayload is the payload for connected message
type ConnectedPayload struct {
	PlayerID string       `json:"playerId"`
	MatchID  string       `json:"matchId"`
	Snapshot app.Snapshot `json:"snapshot"`
}

// SubmissionAckPayload confirms a submission was recorded
type SubmissionAckPayload struct {
	Late          bool `json:"late"`
	BothSubmitted bool `json:"bothSubmitted"`
}

// ErrorPayload is the payload for error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes. Submission rejections use the domain.RejectedReason values.
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeMatchFull      = "MATCH_FULL"
	ErrCodeNotJoined      = "NOT_JOINED"
	ErrCodeAlreadyJoined  = "ALREADY_JOINED"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)
