package app

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"wordduel/internal/domain"
	"wordduel/internal/random"
	"wordduel/internal/words"
)

const (
	// DefaultStaleAfter is how long an idle match is kept
	DefaultStaleAfter = 2 * time.Hour

	// DefaultCleanupInterval is how often idle matches are swept
	DefaultCleanupInterval = 10 * time.Minute

	botIDPrefix = "bot-"
)

// HubConfig holds the collaborators a Hub is built from. Index is
// required; everything else has a default.
type HubConfig struct {
	Index           *words.Index
	Random          random.Source
	Names           NameGenerator
	Sinks           []EventSink
	Logger          zerolog.Logger
	StaleAfter      time.Duration
	CleanupInterval time.Duration
}

// MatchHandle identifies a match and the caller's seat in it
type MatchHandle struct {
	MatchID  string      `json:"matchId"`
	PlayerID string      `json:"playerId"`
	Seat     domain.Seat `json:"seat"`
}

// WordCheck reports the dictionary status of a single word
type WordCheck struct {
	Word    string `json:"word"`
	Valid   bool   `json:"valid"`
	Blocked bool   `json:"blocked"`
}

// Stats summarizes the hub
type Stats struct {
	ActiveMatches   int         `json:"activeMatches"`
	FinishedMatches int         `json:"finishedMatches"`
	Dictionary      words.Stats `json:"dictionary"`
}

// Hub manages all live matches
type Hub struct {
	coordinators map[string]*Coordinator
	mu           sync.RWMutex

	index      *words.Index
	rules      map[domain.Tier]Rules
	names      NameGenerator
	sinks      []EventSink
	logger     zerolog.Logger
	staleAfter time.Duration

	done      chan struct{}
	closeOnce sync.Once
}

// NewHub creates a hub and starts its cleanup loop
func NewHub(cfg HubConfig) *Hub {
	src := random.New()
	if cfg.Random != nil {
		src = random.Locked(cfg.Random)
	}
	if cfg.Names == nil {
		cfg.Names = NewBotNames(src)
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = DefaultStaleAfter
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultCleanupInterval
	}

	rules := make(map[domain.Tier]Rules)
	for _, tier := range []domain.Tier{domain.TierYoung, domain.TierStandard, domain.TierExpert} {
		rules[tier] = NewRules(cfg.Index, tier, src)
	}

	h := &Hub{
		coordinators: make(map[string]*Coordinator),
		index:        cfg.Index,
		rules:        rules,
		names:        cfg.Names,
		sinks:        cfg.Sinks,
		logger:       cfg.Logger,
		staleAfter:   cfg.StaleAfter,
		done:         make(chan struct{}),
	}

	go h.cleanupLoop(cfg.CleanupInterval)

	return h
}

// StartMatch creates a match and seats the caller. In vs_bot mode the bot
// takes the second seat at once and round 1 begins; in duel mode the match
// waits for JoinMatch.
func (h *Hub) StartMatch(settings domain.MatchSettings, playerName string) (MatchHandle, error) {
	match, err := domain.NewMatch(uuid.NewString(), settings)
	if err != nil {
		return MatchHandle{}, err
	}

	coord := NewCoordinator(match, h.rules[settings.Tier], h.logger.With().Str("matchId", match.ID).Logger(), h.sinks...)

	h.mu.Lock()
	h.coordinators[match.ID] = coord
	h.mu.Unlock()

	h.logger.Info().
		Str("matchId", match.ID).
		Str("mode", string(settings.Mode)).
		Str("tier", string(settings.Tier)).
		Int("rounds", settings.TotalRounds).
		Msg("match created")

	handle, err := h.seat(coord, playerName, "Player 1")
	if err != nil {
		h.DeleteMatch(match.ID)
		return MatchHandle{}, err
	}

	if settings.Mode == domain.ModeVsBot {
		bot := domain.NewPlayer(botIDPrefix+uuid.NewString(), h.names.Next(), true)
		if _, err := coord.AddPlayer(bot); err != nil {
			h.DeleteMatch(match.ID)
			return MatchHandle{}, err
		}
	}

	return handle, nil
}

// JoinMatch takes the free seat of a duel
func (h *Hub) JoinMatch(matchID, playerName string) (MatchHandle, error) {
	coord, err := h.GetMatch(matchID)
	if err != nil {
		return MatchHandle{}, err
	}
	return h.seat(coord, playerName, "Player 2")
}

func (h *Hub) seat(coord *Coordinator, name, fallback string) (MatchHandle, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fallback
	}
	player := domain.NewPlayer(uuid.NewString(), name, false)
	seat, err := coord.AddPlayer(player)
	if err != nil {
		return MatchHandle{}, err
	}
	return MatchHandle{MatchID: coord.MatchID(), PlayerID: player.ID, Seat: seat}, nil
}

// SubmitWord routes a submission to its match
func (h *Hub) SubmitWord(matchID, playerID, word string, at time.Time) (domain.SubmitReceipt, error) {
	coord, err := h.GetMatch(matchID)
	if err != nil {
		return domain.SubmitReceipt{}, err
	}
	return coord.SubmitWord(playerID, word, at)
}

// GetMatch returns the coordinator of a match
func (h *Hub) GetMatch(matchID string) (*Coordinator, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	coord, ok := h.coordinators[matchID]
	if !ok {
		return nil, domain.ErrMatchNotFound
	}
	return coord, nil
}

// MatchState returns a snapshot of a match
func (h *Hub) MatchState(matchID string) (domain.MatchState, error) {
	coord, err := h.GetMatch(matchID)
	if err != nil {
		return domain.MatchState{}, err
	}
	return coord.State(), nil
}

// DeleteMatch stops and removes a match
func (h *Hub) DeleteMatch(matchID string) {
	h.mu.Lock()
	coord, ok := h.coordinators[matchID]
	delete(h.coordinators, matchID)
	h.mu.Unlock()

	if ok {
		coord.Close()
		h.logger.Info().Str("matchId", matchID).Msg("match deleted")
	}
}

// CheckWord reports whether a word is playable in principle
func (h *Hub) CheckWord(word string) WordCheck {
	w := domain.Normalize(word)
	return WordCheck{Word: w, Valid: h.index.IsValid(w), Blocked: h.index.IsBlocked(w)}
}

// MatchCount returns the number of matches held by the hub
func (h *Hub) MatchCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.coordinators)
}

// Stats summarizes live matches and the dictionary
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	coords := lo.Values(h.coordinators)
	h.mu.RUnlock()

	finished := lo.CountBy(coords, func(c *Coordinator) bool { return c.IsOver() })
	return Stats{
		ActiveMatches:   len(coords) - finished,
		FinishedMatches: finished,
		Dictionary:      h.index.Stats(),
	}
}

// Close shuts down the hub and all matches
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })

	h.mu.Lock()
	coords := h.coordinators
	h.coordinators = make(map[string]*Coordinator)
	h.mu.Unlock()

	for _, coord := range coords {
		coord.Close()
	}
}

// cleanupLoop periodically removes idle matches
func (h *Hub) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.cleanupStale(time.Now())
		}
	}
}

// cleanupStale removes matches with no activity for staleAfter. Live
// matches always have activity at least once per round, so only finished
// or abandoned ones qualify.
func (h *Hub) cleanupStale(now time.Time) int {
	h.mu.Lock()
	stale := make([]*Coordinator, 0)
	for id, coord := range h.coordinators {
		if now.Sub(coord.LastActivity()) > h.staleAfter {
			stale = append(stale, coord)
			delete(h.coordinators, id)
		}
	}
	h.mu.Unlock()

	for _, coord := range stale {
		coord.Close()
		h.logger.Info().Str("matchId", coord.MatchID()).Msg("stale match cleaned up")
	}
	return len(stale)
}
