package domain

import "time"

// ConnectionStatus represents a player's connection state
type ConnectionStatus string

const (
	StatusConnected    ConnectionStatus = "CONNECTED"
	StatusDisconnected ConnectionStatus = "DISCONNECTED"
)

// Seat identifies one side of a duel
type Seat int

const (
	SeatA Seat = 0
	SeatB Seat = 1
)

// Other returns the opposing seat
func (s Seat) Other() Seat {
	return 1 - s
}

// Outcome returns the outcome value meaning "this seat won"
func (s Seat) Outcome() Outcome {
	if s == SeatA {
		return OutcomePlayerA
	}
	return OutcomePlayerB
}

// Player represents one of the two duelists
type Player struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	IsBot    bool             `json:"isBot"`
	Status   ConnectionStatus `json:"status"`
	JoinedAt time.Time        `json:"joinedAt"`
}

// NewPlayer creates a new player with the given ID and name
func NewPlayer(id, name string, isBot bool) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		IsBot:    isBot,
		Status:   StatusConnected,
		JoinedAt: time.Now(),
	}
}

// IsConnected returns true if the player is currently connected.
// Bots are always connected.
func (p *Player) IsConnected() bool {
	return p.IsBot || p.Status == StatusConnected
}

// Disconnect marks the player as disconnected
func (p *Player) Disconnect() {
	p.Status = StatusDisconnected
}

// Reconnect marks the player as connected
func (p *Player) Reconnect() {
	p.Status = StatusConnected
}

// PlayerInfo is the public view of a player
type PlayerInfo struct {
	ID     string           `json:"id"`
	Name   string           `json:"name"`
	IsBot  bool             `json:"isBot"`
	Status ConnectionStatus `json:"status"`
}

// ToInfo converts a Player to PlayerInfo
func (p *Player) ToInfo() PlayerInfo {
	if p == nil {
		return PlayerInfo{}
	}
	return PlayerInfo{
		ID:     p.ID,
		Name:   p.Name,
		IsBot:  p.IsBot,
		Status: p.Status,
	}
}
