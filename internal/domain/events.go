package domain

import "time"

// EventType represents the type of match event
type EventType string

const (
	EventPlayerJoined      EventType = "PLAYER_JOINED"
	EventPlayerLeft        EventType = "PLAYER_LEFT"
	EventPlayerReconnected EventType = "PLAYER_RECONNECTED"
	EventRoundStarted      EventType = "ROUND_STARTED"
	EventSubmissionsOpen   EventType = "SUBMISSIONS_OPEN"
	EventOpponentSubmitted EventType = "OPPONENT_SUBMITTED"
	EventRoundResolved     EventType = "ROUND_RESOLVED"
	EventMatchResolved     EventType = "MATCH_RESOLVED"
)

// MatchEvent represents an event that occurred in a match
type MatchEvent struct {
	Type      EventType   `json:"type"`
	MatchID   string      `json:"matchId"`
	PlayerID  string      `json:"playerId,omitempty"` // If event is player-specific
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new match event
func NewEvent(eventType EventType, matchID string, payload interface{}) *MatchEvent {
	return &MatchEvent{
		Type:      eventType,
		MatchID:   matchID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewPlayerEvent creates a new player-specific match event
func NewPlayerEvent(eventType EventType, matchID, playerID string, payload interface{}) *MatchEvent {
	return &MatchEvent{
		Type:      eventType,
		MatchID:   matchID,
		PlayerID:  playerID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for different events

// LobbyPayload is sent when seats change
type LobbyPayload struct {
	Players [2]PlayerInfo `json:"players"`
	Phase   Phase         `json:"phase"`
}

// RoundStartedPayload is sent when a rack is dealt
type RoundStartedPayload struct {
	Round                int         `json:"round"`
	TotalRounds          int         `json:"totalRounds"`
	Rack                 []Letter    `json:"rack"`
	BonusTiles           []BonusTile `json:"bonusTiles"`
	OpensAtEpochMs       int64       `json:"opensAtEpochMs"`
	RoundDeadlineEpochMs int64       `json:"roundDeadlineEpochMs"`
}

// SubmissionsOpenPayload is sent when the countdown ends
type SubmissionsOpenPayload struct {
	Round                int   `json:"round"`
	RoundDeadlineEpochMs int64 `json:"roundDeadlineEpochMs"`
}

// OpponentSubmittedPayload carries no content; the word stays hidden
// until the round resolves
type OpponentSubmittedPayload struct{}

// RoundResolvedPayload is sent once per round
type RoundResolvedPayload struct {
	Result RoundResult `json:"result"`
}

// MatchResolvedPayload is sent once when the match ends
type MatchResolvedPayload struct {
	State MatchState `json:"state"`
}

// NewRoundStartedPayload builds the payload for the current round
func NewRoundStartedPayload(m *Match) *RoundStartedPayload {
	r := m.Current
	rack := r.Rack.Clone()
	return &RoundStartedPayload{
		Round:                r.Number,
		TotalRounds:          m.Settings.TotalRounds,
		Rack:                 rack.Letters,
		BonusTiles:           rack.Bonuses,
		OpensAtEpochMs:       r.OpensAt.UnixMilli(),
		RoundDeadlineEpochMs: r.Deadline.UnixMilli(),
	}
}
