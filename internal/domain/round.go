package domain

import "time"

// Outcome names the winner of a round or match
type Outcome string

const (
	OutcomeNone    Outcome = ""
	OutcomePlayerA Outcome = "PLAYER_A"
	OutcomePlayerB Outcome = "PLAYER_B"
	OutcomeTie     Outcome = "TIE"
)

// Compare decides an outcome from two scores; equal scores are a tie
func Compare(a, b int) Outcome {
	switch {
	case a > b:
		return OutcomePlayerA
	case b > a:
		return OutcomePlayerB
	default:
		return OutcomeTie
	}
}

// Verdict explains how a submitted word was judged
type Verdict string

const (
	VerdictOK              Verdict = "ok"
	VerdictEmpty           Verdict = "empty"
	VerdictLate            Verdict = "late"
	VerdictTooShort        Verdict = "too_short"
	VerdictNotInDictionary Verdict = "not_in_dictionary"
	VerdictBlocked         Verdict = "blocked"
	VerdictNotBuildable    Verdict = "not_buildable"
)

// Judgement is the verdict and score for one word against one rack
type Judgement struct {
	Verdict Verdict `json:"verdict"`
	Score   int     `json:"score"`
}

// Judge validates and scores words. Invalid words score 0; judging
// never fails.
type Judge interface {
	Judge(word string, rack Rack) Judgement
	BestPlay(rack Rack) (word string, score int)
}

// Round represents a single timed round of a match
type Round struct {
	Number      int            `json:"number"`
	Rack        Rack           `json:"rack"`
	Submissions [2]*Submission `json:"-"`
	Late        [2]bool        `json:"-"`
	StartedAt   time.Time      `json:"startedAt"`
	OpensAt     time.Time      `json:"opensAt"`
	Deadline    time.Time      `json:"deadline"`
	Result      *RoundResult   `json:"result,omitempty"`
}

// NewRound creates a new round whose submissions open after countdown and
// close duration later
func NewRound(number int, rack Rack, now time.Time, countdown, duration time.Duration) *Round {
	opens := now.Add(countdown)
	return &Round{
		Number:    number,
		Rack:      rack,
		StartedAt: now,
		OpensAt:   opens,
		Deadline:  opens.Add(duration),
	}
}

// HasSubmitted reports whether the seat already holds a submission
func (r *Round) HasSubmitted(seat Seat) bool {
	return r.Submissions[seat] != nil
}

// AllSubmitted returns true if both seats have submitted
func (r *Round) AllSubmitted() bool {
	return r.Submissions[SeatA] != nil && r.Submissions[SeatB] != nil
}

// DeadlinePassed reports whether now is at or after the round deadline
func (r *Round) DeadlinePassed(now time.Time) bool {
	return !now.Before(r.Deadline)
}

// SubmittedCount returns the number of seats that have submitted
func (r *Round) SubmittedCount() int {
	n := 0
	for _, s := range r.Submissions {
		if s != nil {
			n++
		}
	}
	return n
}

// PlayerRoundResult is one side of a resolved round
type PlayerRoundResult struct {
	PlayerID string  `json:"playerId"`
	Word     string  `json:"word"`
	Score    int     `json:"score"`
	Verdict  Verdict `json:"verdict"`
	Total    int     `json:"total"`
}

// RoundResult is emitted exactly once per round
type RoundResult struct {
	Round     int                  `json:"round"`
	Rack      Rack                 `json:"rack"`
	Players   [2]PlayerRoundResult `json:"players"`
	Winner    Outcome              `json:"winner"`
	BestWord  string               `json:"bestWord,omitempty"`
	BestScore int                  `json:"bestScore,omitempty"`
}
