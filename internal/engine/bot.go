package engine

import (
	"math"
	"time"

	"wordduel/internal/domain"
	"wordduel/internal/random"
)

// Move is a bot's chosen word with its score and thinking time. Delay is
// advisory; the caller owns scheduling.
type Move struct {
	Word  string        `json:"word"`
	Score int           `json:"score"`
	Delay time.Duration `json:"delay"`
}

// hardBestChance is the probability a hard bot plays the single best word
const hardBestChance = 0.7

// Bot picks words for an automated opponent
type Bot struct {
	referee *Referee
	src     random.Source
}

// NewBot creates a bot that plays by referee's rules
func NewBot(referee *Referee, src random.Source) *Bot {
	return &Bot{referee: referee, src: src}
}

// SelectMove ranks all candidates for the rack and picks one according to
// difficulty. With no candidates the move is empty and scores 0.
func (b *Bot) SelectMove(rack domain.Rack, difficulty domain.Difficulty) Move {
	move := Move{Delay: b.delay(difficulty)}

	candidates := b.referee.Candidates(rack)
	if len(candidates) == 0 {
		return move
	}

	pick := candidates[SelectIndex(b.src, len(candidates), difficulty)]
	move.Word, move.Score = pick.Word, pick.Score
	return move
}

func (b *Bot) delay(d domain.Difficulty) time.Duration {
	r := DelayFor(d)
	return time.Duration(random.Between(b.src, float64(r.Min), float64(r.Max)))
}

// SelectIndex chooses a position in a best-first list of n candidates:
//   - very easy: uniform over the bottom half
//   - easy: uniform over the 30th to 70th percentile, never the best
//   - medium: uniform over the top 40%
//   - hard: the best 70% of the time, else uniform over the top 3
func SelectIndex(src random.Source, n int, d domain.Difficulty) int {
	if n <= 1 {
		return 0
	}

	var lo, hi int
	switch d {
	case domain.DifficultyVeryEasy:
		lo, hi = n/2, n
	case domain.DifficultyEasy:
		lo = max(int(math.Floor(0.3*float64(n))), 1)
		hi = int(math.Ceil(0.7 * float64(n)))
	case domain.DifficultyHard:
		if src.Float64() < hardBestChance {
			return 0
		}
		lo, hi = 0, min(3, n)
	default:
		lo, hi = 0, int(math.Ceil(0.4*float64(n)))
	}

	if hi <= lo {
		hi = lo + 1
	}
	return lo + src.Intn(hi-lo)
}
