package app

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"wordduel/internal/domain"
)

// ClientConnection represents a connected client
type ClientConnection interface {
	Send(message interface{}) error
	GetPlayerID() string
	Close() error
}

// EventSink observes every match event after clients have been sent it
type EventSink interface {
	HandleEvent(event *domain.MatchEvent)
}

const eventQueueSize = 100

// Coordinator drives one match in real time. All match mutations happen
// under mu, so a submission and a firing deadline are always applied in a
// single order.
type Coordinator struct {
	match  *domain.Match
	rules  Rules
	mu     sync.Mutex
	logger zerolog.Logger

	clients   map[string]ClientConnection // playerID -> client
	clientsMu sync.RWMutex
	sinks     []EventSink

	// step is the pending countdown, deadline or inter-round timer.
	// Bumping stepGen invalidates callbacks of timers already in flight.
	step      *time.Timer
	stepGen   uint64
	botTimers []*time.Timer

	events chan *domain.MatchEvent
	done   chan struct{}
	closed bool
}

// NewCoordinator wraps match. Rounds start once both seats are filled.
func NewCoordinator(match *domain.Match, rules Rules, logger zerolog.Logger, sinks ...EventSink) *Coordinator {
	c := &Coordinator{
		match:   match,
		rules:   rules,
		logger:  logger,
		clients: make(map[string]ClientConnection),
		sinks:   sinks,
		events:  make(chan *domain.MatchEvent, eventQueueSize),
		done:    make(chan struct{}),
	}

	go c.eventLoop()

	return c
}

// MatchID returns the match ID
func (c *Coordinator) MatchID() string {
	return c.match.ID
}

// CreatedAt returns when the match was created
func (c *Coordinator) CreatedAt() time.Time {
	return c.match.CreatedAt
}

// LastActivity returns when the match state last changed
func (c *Coordinator) LastActivity() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.match.UpdatedAt
}

// IsOver reports whether the match has reached its terminal phase
func (c *Coordinator) IsOver() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.match.Phase.IsTerminal()
}

// State returns a snapshot of the match
func (c *Coordinator) State() domain.MatchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.match.State()
}

// Snapshot is what a (re)connecting player needs to render the match
type Snapshot struct {
	State     domain.MatchState           `json:"state"`
	Round     *domain.RoundStartedPayload `json:"round,omitempty"`
	Submitted bool                        `json:"submitted"`
}

// Snapshot returns the match state plus the live round, if one is running
func (c *Coordinator) Snapshot(playerID string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{State: c.match.State()}
	switch c.match.Phase {
	case domain.PhaseCountdown, domain.PhaseAccepting:
		snap.Round = domain.NewRoundStartedPayload(c.match)
		if seat, err := c.match.SeatOf(playerID); err == nil {
			snap.Submitted = c.match.Current.HasSubmitted(seat) || c.match.Current.Late[seat]
		}
	}
	return snap
}

// RegisterClient registers a client connection for a player. A client
// already registered for the player is replaced and closed.
func (c *Coordinator) RegisterClient(playerID string, client ClientConnection) {
	c.clientsMu.Lock()
	defer c.clientsMu.Unlock()
	if prev, ok := c.clients[playerID]; ok && prev != client {
		prev.Close()
	}
	c.clients[playerID] = client
}

// UnregisterClient removes client if it is still the one registered for
// playerID. It reports false when a newer connection has taken over.
func (c *Coordinator) UnregisterClient(playerID string, client ClientConnection) bool {
	c.clientsMu.Lock()
	defer c.clientsMu.Unlock()
	if c.clients[playerID] != client {
		return false
	}
	delete(c.clients, playerID)
	return true
}

// AddPlayer seats a player; the second seat starts round 1
func (c *Coordinator) AddPlayer(p *domain.Player) (domain.Seat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, domain.ErrMatchNotFound
	}

	seat, err := c.match.AddPlayer(p)
	if err != nil {
		return 0, err
	}

	c.logger.Info().Str("playerId", p.ID).Str("name", p.Name).Bool("bot", p.IsBot).Int("seat", int(seat)).Msg("player joined")
	c.queueEvent(domain.NewEvent(domain.EventPlayerJoined, c.match.ID, c.lobbyPayload()))

	if c.match.Phase == domain.PhaseAwaitingRack {
		c.startRoundLocked()
	}
	return seat, nil
}

// DisconnectPlayer marks a player as disconnected. The match keeps
// running; a disconnected player simply misses deadlines.
func (c *Coordinator) DisconnectPlayer(playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	seat, err := c.match.SeatOf(playerID)
	if err != nil {
		return
	}
	c.match.Player(seat).Disconnect()
	c.queueEvent(domain.NewEvent(domain.EventPlayerLeft, c.match.ID, c.lobbyPayload()))
}

// ReconnectPlayer marks a player as reconnected
func (c *Coordinator) ReconnectPlayer(playerID string) (*domain.Player, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	seat, err := c.match.SeatOf(playerID)
	if err != nil {
		return nil, err
	}
	p := c.match.Player(seat)
	p.Reconnect()
	c.queueEvent(domain.NewEvent(domain.EventPlayerReconnected, c.match.ID, c.lobbyPayload()))
	return p, nil
}

// SubmitWord records a player's word stamped at time at. Rejections are
// returned as errors (see domain.ReasonFor); a late submission is not an
// error and is reported on the receipt.
func (c *Coordinator) SubmitWord(playerID, word string, at time.Time) (domain.SubmitReceipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.SubmitReceipt{}, domain.ErrMatchNotFound
	}
	return c.submitLocked(playerID, word, at)
}

func (c *Coordinator) submitLocked(playerID, word string, at time.Time) (domain.SubmitReceipt, error) {
	receipt, err := c.match.Submit(playerID, word, at)
	if err != nil {
		c.logger.Debug().Err(err).Str("playerId", playerID).Msg("submission rejected")
		return receipt, err
	}

	if receipt.Late {
		c.logger.Debug().Str("playerId", playerID).Int("round", c.match.Round).Msg("late submission dropped")
	} else if seat, err := c.match.SeatOf(playerID); err == nil {
		// The opponent only learns that a word is in, never which
		if opp := c.match.Player(seat.Other()); opp != nil && !opp.IsBot {
			c.queueEvent(domain.NewPlayerEvent(domain.EventOpponentSubmitted, c.match.ID, opp.ID, &domain.OpponentSubmittedPayload{}))
		}
	}

	if c.match.ShouldResolve(at) {
		c.resolveLocked()
	}
	return receipt, nil
}

// startRoundLocked deals the rack and starts the countdown
func (c *Coordinator) startRoundLocked() {
	rack := c.rules.Racks.Generate(c.rules.Profile)
	if err := c.match.BeginRound(rack, time.Now()); err != nil {
		c.logger.Error().Err(err).Msg("failed to begin round")
		return
	}

	c.logger.Info().Int("round", c.match.Round).Str("rack", rack.String()).Msg("round started")
	c.queueEvent(domain.NewEvent(domain.EventRoundStarted, c.match.ID, domain.NewRoundStartedPayload(c.match)))

	c.scheduleLocked(c.match.Settings.Countdown, c.openSubmissionsLocked)
}

// openSubmissionsLocked ends the countdown, arms the deadline and
// schedules any bot's move
func (c *Coordinator) openSubmissionsLocked() {
	if err := c.match.OpenSubmissions(); err != nil {
		c.logger.Error().Err(err).Msg("failed to open submissions")
		return
	}

	round := c.match.Current
	c.queueEvent(domain.NewEvent(domain.EventSubmissionsOpen, c.match.ID, &domain.SubmissionsOpenPayload{
		Round:                round.Number,
		RoundDeadlineEpochMs: round.Deadline.UnixMilli(),
	}))

	c.scheduleLocked(time.Until(round.Deadline), c.deadlineLocked)
	c.scheduleBotsLocked()
}

func (c *Coordinator) deadlineLocked() {
	if c.match.Phase != domain.PhaseAccepting {
		return
	}
	c.logger.Debug().Int("round", c.match.Round).Int("submitted", c.match.Current.SubmittedCount()).Msg("round deadline reached")
	c.resolveLocked()
}

// scheduleBotsLocked asks the bot for a move now and plays it after the
// bot's delay, if the same round is still accepting by then
func (c *Coordinator) scheduleBotsLocked() {
	for _, p := range c.match.Players {
		if p == nil || !p.IsBot {
			continue
		}

		move := c.rules.Bot.SelectMove(c.match.Current.Rack, c.match.Settings.Difficulty)
		botID, round := p.ID, c.match.Round

		c.botTimers = append(c.botTimers, time.AfterFunc(move.Delay, func() {
			c.mu.Lock()
			defer c.mu.Unlock()

			if c.closed || c.match.Round != round || c.match.Phase != domain.PhaseAccepting {
				return
			}
			if _, err := c.submitLocked(botID, move.Word, time.Now()); err != nil {
				c.logger.Debug().Err(err).Str("playerId", botID).Msg("bot move rejected")
			}
		}))
	}
}

// resolveLocked scores the round and either finishes the match or
// schedules the next round
func (c *Coordinator) resolveLocked() {
	c.stopTimersLocked()

	result, err := c.match.Resolve(c.rules.Referee)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to resolve round")
		return
	}

	c.logger.Info().
		Int("round", result.Round).
		Str("winner", string(result.Winner)).
		Int("scoreA", result.Players[domain.SeatA].Score).
		Int("scoreB", result.Players[domain.SeatB].Score).
		Msg("round resolved")
	c.queueEvent(domain.NewEvent(domain.EventRoundResolved, c.match.ID, &domain.RoundResolvedPayload{Result: *result}))

	if c.match.Round >= c.match.Settings.TotalRounds {
		c.advanceLocked()
		return
	}
	c.scheduleLocked(c.match.Settings.InterRound, c.advanceLocked)
}

func (c *Coordinator) advanceLocked() {
	over, err := c.match.Advance()
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to advance match")
		return
	}

	if over {
		state := c.match.State()
		c.logger.Info().
			Str("winner", string(state.Winner)).
			Ints("scores", state.Scores[:]).
			Msg("match resolved")
		c.queueEvent(domain.NewEvent(domain.EventMatchResolved, c.match.ID, &domain.MatchResolvedPayload{State: state}))
		return
	}

	c.startRoundLocked()
}

// scheduleLocked replaces the pending step timer
func (c *Coordinator) scheduleLocked(d time.Duration, step func()) {
	if c.step != nil {
		c.step.Stop()
	}
	c.stepGen++
	gen := c.stepGen

	c.step = time.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if c.closed || gen != c.stepGen {
			return
		}
		step()
	})
}

func (c *Coordinator) stopTimersLocked() {
	if c.step != nil {
		c.step.Stop()
		c.step = nil
	}
	c.stepGen++

	for _, t := range c.botTimers {
		t.Stop()
	}
	c.botTimers = nil
}

func (c *Coordinator) lobbyPayload() *domain.LobbyPayload {
	return &domain.LobbyPayload{
		Players: [2]domain.PlayerInfo{c.match.Players[domain.SeatA].ToInfo(), c.match.Players[domain.SeatB].ToInfo()},
		Phase:   c.match.Phase,
	}
}

// queueEvent adds an event to the broadcast queue. Only progress events
// are dropped when the queue is full; resolutions wait for room.
func (c *Coordinator) queueEvent(event *domain.MatchEvent) {
	select {
	case c.events <- event:
		return
	default:
	}

	switch event.Type {
	case domain.EventRoundResolved, domain.EventMatchResolved:
		select {
		case c.events <- event:
		case <-c.done:
			c.logger.Warn().Str("type", string(event.Type)).Msg("match closed, event lost")
		}
	default:
		c.logger.Warn().Str("type", string(event.Type)).Msg("event queue full, dropping event")
	}
}

// eventLoop processes events and broadcasts to clients. Once the match is
// closed, events still queued go to the sinks only.
func (c *Coordinator) eventLoop() {
	for {
		select {
		case <-c.done:
			for {
				select {
				case event := <-c.events:
					c.notifySinks(event)
				default:
					return
				}
			}
		case event := <-c.events:
			c.broadcastEvent(event)
			c.notifySinks(event)
		}
	}
}

func (c *Coordinator) notifySinks(event *domain.MatchEvent) {
	for _, sink := range c.sinks {
		sink.HandleEvent(event)
	}
}

// broadcastEvent sends an event to the appropriate clients
func (c *Coordinator) broadcastEvent(event *domain.MatchEvent) {
	c.clientsMu.RLock()
	defer c.clientsMu.RUnlock()

	// If player-specific, send only to that player
	if event.PlayerID != "" {
		if client, ok := c.clients[event.PlayerID]; ok {
			if err := client.Send(event); err != nil {
				c.logger.Debug().Err(err).Str("playerId", event.PlayerID).Msg("failed to send to client")
			}
		}
		return
	}

	for playerID, client := range c.clients {
		if err := client.Send(event); err != nil {
			c.logger.Debug().Err(err).Str("playerId", playerID).Msg("failed to send to client")
		}
	}
}

// Close stops all timers and disconnects clients
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopTimersLocked()
	close(c.done)
	c.mu.Unlock()

	c.clientsMu.Lock()
	for _, client := range c.clients {
		client.Close()
	}
	c.clients = make(map[string]ClientConnection)
	c.clientsMu.Unlock()
}
