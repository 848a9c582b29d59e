package app

import (
	"fmt"
	"time"

	"wordduel/internal/domain"
	"wordduel/internal/engine"
)

// OfflineRunner plays a match without timers: the caller owns a virtual
// clock and advances it explicitly. It drives the same domain.Match as
// the Coordinator, so both adapters share one set of rules. It is not safe
// for concurrent use.
type OfflineRunner struct {
	match *domain.Match
	rules Rules
	now   time.Time
}

// NewOfflineRunner seats both players and readies round 1. The clock
// starts at start.
func NewOfflineRunner(id string, settings domain.MatchSettings, rules Rules, a, b *domain.Player, start time.Time) (*OfflineRunner, error) {
	match, err := domain.NewMatch(id, settings)
	if err != nil {
		return nil, err
	}
	for _, p := range []*domain.Player{a, b} {
		if _, err := match.AddPlayer(p); err != nil {
			return nil, err
		}
	}
	return &OfflineRunner{match: match, rules: rules, now: start}, nil
}

// Now returns the virtual clock
func (r *OfflineRunner) Now() time.Time {
	return r.now
}

// Elapse moves the virtual clock forward
func (r *OfflineRunner) Elapse(d time.Duration) {
	if d > 0 {
		r.now = r.now.Add(d)
	}
}

// Match exposes the underlying match, for reading only
func (r *OfflineRunner) Match() *domain.Match {
	return r.match
}

// StartRound deals a rack, runs the countdown and opens submissions
func (r *OfflineRunner) StartRound() (*domain.RoundStartedPayload, error) {
	rack := r.rules.Racks.Generate(r.rules.Profile)
	if err := r.match.BeginRound(rack, r.now); err != nil {
		return nil, err
	}
	payload := domain.NewRoundStartedPayload(r.match)

	r.now = r.match.Current.OpensAt
	if err := r.match.OpenSubmissions(); err != nil {
		return nil, err
	}
	return payload, nil
}

// Submit records a word at the current virtual time
func (r *OfflineRunner) Submit(playerID, word string) (domain.SubmitReceipt, error) {
	return r.match.Submit(playerID, word, r.now)
}

// BotMove asks the bot for a move on the current rack
func (r *OfflineRunner) BotMove(difficulty domain.Difficulty) (engine.Move, error) {
	if r.match.Current == nil || r.match.Phase != domain.PhaseAccepting {
		return engine.Move{}, domain.ErrRoundNotAccepting
	}
	return r.rules.Bot.SelectMove(r.match.Current.Rack, difficulty), nil
}

// ResolveRound scores the round. If a seat is still missing, the clock
// jumps to the deadline first, as a real timer would.
func (r *OfflineRunner) ResolveRound() (*domain.RoundResult, error) {
	if r.match.Phase != domain.PhaseAccepting {
		return nil, fmt.Errorf("%w: resolve in %s", domain.ErrInvalidTransition, r.match.Phase)
	}
	if !r.match.ShouldResolve(r.now) {
		r.now = r.match.Current.Deadline
	}
	return r.match.Resolve(r.rules.Referee)
}

// NextRound leaves a completed round. It returns true once the match is
// over; otherwise the inter-round pause elapses and the match awaits the
// next rack.
func (r *OfflineRunner) NextRound() (bool, error) {
	over, err := r.match.Advance()
	if err != nil || over {
		return over, err
	}
	r.Elapse(r.match.Settings.InterRound)
	return false, nil
}

// PlayBots plays the whole match with a bot in each seat at the given
// difficulties. Each bot submits after its own delay; a delay past the
// deadline counts as late.
func (r *OfflineRunner) PlayBots(difficulties [2]domain.Difficulty) (domain.MatchState, error) {
	for !r.match.Phase.IsTerminal() {
		if _, err := r.StartRound(); err != nil {
			return domain.MatchState{}, err
		}

		opens := r.now
		var moves [2]engine.Move
		for seat := range moves {
			m, err := r.BotMove(difficulties[seat])
			if err != nil {
				return domain.MatchState{}, err
			}
			moves[seat] = m
		}

		// Earlier delay submits first
		order := []domain.Seat{domain.SeatA, domain.SeatB}
		if moves[domain.SeatB].Delay < moves[domain.SeatA].Delay {
			order[0], order[1] = domain.SeatB, domain.SeatA
		}
		for _, seat := range order {
			r.now = opens.Add(moves[seat].Delay)
			if _, err := r.Submit(r.match.Player(seat).ID, moves[seat].Word); err != nil {
				return domain.MatchState{}, err
			}
		}

		if _, err := r.ResolveRound(); err != nil {
			return domain.MatchState{}, err
		}
		if _, err := r.NextRound(); err != nil {
			return domain.MatchState{}, err
		}
	}
	return r.match.State(), nil
}

// State returns a snapshot of the match
func (r *OfflineRunner) State() domain.MatchState {
	return r.match.State()
}
