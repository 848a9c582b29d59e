package domain

import (
	"fmt"
	"time"
)

// Mode selects who sits in the second seat
type Mode string

const (
	ModeVsBot Mode = "vs_bot" // Second seat is filled by a bot at creation
	ModeDuel  Mode = "duel"   // Second seat is filled by another human
)

// Tier is the age/skill tier; it sets rack size and minimum word length
type Tier string

const (
	TierYoung    Tier = "young"
	TierStandard Tier = "standard"
	TierExpert   Tier = "expert"
)

// Difficulty is the bot strength
type Difficulty string

const (
	DifficultyVeryEasy Difficulty = "very_easy"
	DifficultyEasy     Difficulty = "easy"
	DifficultyMedium   Difficulty = "medium"
	DifficultyHard     Difficulty = "hard"
)

// MatchSettings holds per-match parameters
type MatchSettings struct {
	Mode          Mode          `json:"mode"`
	Tier          Tier          `json:"tier"`
	Difficulty    Difficulty    `json:"difficulty,omitempty"`
	TotalRounds   int           `json:"totalRounds"`
	RoundDuration time.Duration `json:"roundDuration"`
	Countdown     time.Duration `json:"countdown"`
	InterRound    time.Duration `json:"interRound"`
}

// DefaultMatchSettings returns the default match settings
func DefaultMatchSettings() MatchSettings {
	return MatchSettings{
		Mode:          ModeVsBot,
		Tier:          TierStandard,
		Difficulty:    DifficultyMedium,
		TotalRounds:   7,
		RoundDuration: 45 * time.Second,
		Countdown:     3 * time.Second,
		InterRound:    4 * time.Second,
	}
}

// MaxRounds caps TotalRounds for a single match
const MaxRounds = 25

// Validate checks the settings describe a playable match
func (s MatchSettings) Validate() error {
	switch s.Mode {
	case ModeVsBot, ModeDuel:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidSettings, s.Mode)
	}
	switch s.Tier {
	case TierYoung, TierStandard, TierExpert:
	default:
		return fmt.Errorf("%w: unknown tier %q", ErrInvalidSettings, s.Tier)
	}
	if s.Mode == ModeVsBot {
		switch s.Difficulty {
		case DifficultyVeryEasy, DifficultyEasy, DifficultyMedium, DifficultyHard:
		default:
			return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidSettings, s.Difficulty)
		}
	}
	if s.TotalRounds < 1 || s.TotalRounds > MaxRounds {
		return fmt.Errorf("%w: total rounds must be between 1 and %d", ErrInvalidSettings, MaxRounds)
	}
	if s.RoundDuration <= 0 || s.Countdown < 0 || s.InterRound < 0 {
		return fmt.Errorf("%w: negative or zero durations", ErrInvalidSettings)
	}
	return nil
}

// Match is the authoritative round/match state machine for one duel.
// It holds no timers; callers supply the current time and drive the
// transitions. A Match is not safe for concurrent use.
type Match struct {
	ID        string        `json:"id"`
	Settings  MatchSettings `json:"settings"`
	Players   [2]*Player    `json:"players"`
	Phase     Phase         `json:"phase"`
	Round     int           `json:"round"`
	Current   *Round        `json:"currentRound,omitempty"`
	History   []RoundResult `json:"history"`
	Scores    [2]int        `json:"scores"`
	Winner    Outcome       `json:"winner,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// NewMatch creates a new match waiting for its two players
func NewMatch(id string, settings MatchSettings) (*Match, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	return &Match{
		ID:        id,
		Settings:  settings,
		Phase:     PhaseWaitingForPlayers,
		History:   []RoundResult{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// AddPlayer seats a player. Once both seats are filled the match moves to
// AwaitingRackGeneration for round 1.
func (m *Match) AddPlayer(p *Player) (Seat, error) {
	if _, err := m.SeatOf(p.ID); err == nil {
		return 0, fmt.Errorf("%w: player %s already seated", ErrMatchFull, p.ID)
	}

	var seat Seat
	switch {
	case m.Players[SeatA] == nil:
		seat = SeatA
	case m.Players[SeatB] == nil:
		seat = SeatB
	default:
		return 0, ErrMatchFull
	}
	m.Players[seat] = p

	if m.Players[SeatA] != nil && m.Players[SeatB] != nil {
		m.Round = 1
		if err := m.transition(PhaseAwaitingRack); err != nil {
			return 0, err
		}
	}
	return seat, nil
}

// SeatOf returns the seat occupied by playerID
func (m *Match) SeatOf(playerID string) (Seat, error) {
	for i, p := range m.Players {
		if p != nil && p.ID == playerID {
			return Seat(i), nil
		}
	}
	return 0, ErrPlayerNotFound
}

// Player returns the player in a seat (nil if empty)
func (m *Match) Player(seat Seat) *Player {
	return m.Players[seat]
}

// IsFull reports whether both seats are taken
func (m *Match) IsFull() bool {
	return m.Players[SeatA] != nil && m.Players[SeatB] != nil
}

// BeginRound stores the dealt rack as the current round and starts the
// countdown. The rack is immutable for the round's lifetime.
func (m *Match) BeginRound(rack Rack, now time.Time) error {
	if m.Phase != PhaseAwaitingRack {
		return fmt.Errorf("%w: begin round in %s", ErrInvalidTransition, m.Phase)
	}
	if err := rack.Validate(); err != nil {
		return err
	}
	m.Current = NewRound(m.Round, rack.Clone(), now, m.Settings.Countdown, m.Settings.RoundDuration)
	return m.transition(PhaseCountdown)
}

// OpenSubmissions ends the countdown
func (m *Match) OpenSubmissions() error {
	return m.transition(PhaseAccepting)
}

// Submit records a player's word for the current round. A submission
// stamped at or after the deadline is dropped without error and reported
// as late; the player is then scored as having submitted nothing.
func (m *Match) Submit(playerID, word string, at time.Time) (SubmitReceipt, error) {
	if m.Phase.IsTerminal() {
		return SubmitReceipt{}, ErrMatchOver
	}

	seat, err := m.SeatOf(playerID)
	if err != nil {
		return SubmitReceipt{}, err
	}

	if m.Phase != PhaseAccepting || m.Current == nil {
		return SubmitReceipt{}, ErrRoundNotAccepting
	}

	if m.Current.HasSubmitted(seat) {
		return SubmitReceipt{}, ErrAlreadySubmitted
	}

	if m.Current.DeadlinePassed(at) {
		m.Current.Late[seat] = true
		return SubmitReceipt{Late: true, BothSubmitted: m.Current.AllSubmitted()}, nil
	}

	m.Current.Submissions[seat] = NewSubmission(playerID, word, at)
	m.UpdatedAt = time.Now()

	return SubmitReceipt{BothSubmitted: m.Current.AllSubmitted()}, nil
}

// ShouldResolve reports whether the accepting window is over: both seats
// have submitted or the deadline has passed.
func (m *Match) ShouldResolve(now time.Time) bool {
	if m.Phase != PhaseAccepting || m.Current == nil {
		return false
	}
	return m.Current.AllSubmitted() || m.Current.DeadlinePassed(now)
}

// Resolve judges both submissions, updates cumulative scores and records
// the round result. A round resolves at most once.
func (m *Match) Resolve(judge Judge) (*RoundResult, error) {
	if err := m.transition(PhaseResolving); err != nil {
		return nil, err
	}

	round := m.Current
	result := RoundResult{
		Round: round.Number,
		Rack:  round.Rack.Clone(),
	}

	var scores [2]int
	for i := range round.Submissions {
		seat := Seat(i)
		pr := PlayerRoundResult{PlayerID: m.Players[seat].ID}

		sub := round.Submissions[seat]
		switch {
		case sub != nil && sub.Word != "":
			j := judge.Judge(sub.Word, round.Rack)
			pr.Word, pr.Score, pr.Verdict = sub.Word, j.Score, j.Verdict
		case round.Late[seat]:
			pr.Verdict = VerdictLate
		default:
			pr.Verdict = VerdictEmpty
		}

		scores[seat] = pr.Score
		m.Scores[seat] += pr.Score
		pr.Total = m.Scores[seat]
		result.Players[seat] = pr
	}

	result.Winner = Compare(scores[SeatA], scores[SeatB])
	result.BestWord, result.BestScore = judge.BestPlay(round.Rack)

	round.Result = &result
	m.History = append(m.History, result)

	if err := m.transition(PhaseRoundComplete); err != nil {
		return nil, err
	}
	return &result, nil
}

// Advance leaves RoundComplete. It returns true when the match has ended,
// in which case Winner holds the overall outcome (a tie is valid).
func (m *Match) Advance() (bool, error) {
	if m.Phase != PhaseRoundComplete {
		return false, fmt.Errorf("%w: advance in %s", ErrInvalidTransition, m.Phase)
	}

	if m.Round >= m.Settings.TotalRounds {
		if err := m.transition(PhaseMatchComplete); err != nil {
			return false, err
		}
		m.Winner = Compare(m.Scores[SeatA], m.Scores[SeatB])
		return true, nil
	}

	m.Round++
	return false, m.transition(PhaseAwaitingRack)
}

// State returns a snapshot of the match suitable for broadcasting
func (m *Match) State() MatchState {
	history := make([]RoundResult, len(m.History))
	copy(history, m.History)

	return MatchState{
		MatchID:     m.ID,
		Settings:    m.Settings,
		Phase:       m.Phase,
		Round:       m.Round,
		TotalRounds: m.Settings.TotalRounds,
		Players:     [2]PlayerInfo{m.Players[SeatA].ToInfo(), m.Players[SeatB].ToInfo()},
		Scores:      m.Scores,
		Terminal:    m.Phase.IsTerminal(),
		Winner:      m.Winner,
		History:     history,
	}
}

// transition moves to target if the phase table allows it
func (m *Match) transition(target Phase) error {
	if !m.Phase.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.Phase, target)
	}
	m.Phase = target
	m.UpdatedAt = time.Now()
	return nil
}

// MatchState is a read-only snapshot of a match
type MatchState struct {
	MatchID     string        `json:"matchId"`
	Settings    MatchSettings `json:"settings"`
	Phase       Phase         `json:"phase"`
	Round       int           `json:"round"`
	TotalRounds int           `json:"totalRounds"`
	Players     [2]PlayerInfo `json:"players"`
	Scores      [2]int        `json:"scores"`
	Terminal    bool          `json:"terminal"`
	Winner      Outcome       `json:"winner,omitempty"`
	History     []RoundResult `json:"history"`
}
