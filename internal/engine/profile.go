// Package engine holds the pure rules of the duel: rack generation,
// scoring, submission judging and bot move selection. Nothing here owns
// timers or shared mutable state; randomness comes from an injected
// random.Source.
package engine

import (
	"time"

	"wordduel/internal/domain"
)

// TierProfile sets the rack shape and word rules for an age/skill tier
type TierProfile struct {
	RackSize      int
	MinVowels     int
	MaxRare       int
	MinWordLength int
}

var tierProfiles = map[domain.Tier]TierProfile{
	domain.TierYoung:    {RackSize: 6, MinVowels: 2, MaxRare: 0, MinWordLength: 2},
	domain.TierStandard: {RackSize: 7, MinVowels: 2, MaxRare: 1, MinWordLength: 3},
	domain.TierExpert:   {RackSize: 9, MinVowels: 3, MaxRare: 2, MinWordLength: 3},
}

// ProfileFor returns the profile of a tier, falling back to standard
func ProfileFor(tier domain.Tier) TierProfile {
	if p, ok := tierProfiles[tier]; ok {
		return p
	}
	return tierProfiles[domain.TierStandard]
}

// DelayRange is the span a bot's thinking time is drawn from
type DelayRange struct {
	Min time.Duration
	Max time.Duration
}

var botDelays = map[domain.Difficulty]DelayRange{
	domain.DifficultyVeryEasy: {9 * time.Second, 14 * time.Second},
	domain.DifficultyEasy:     {7 * time.Second, 11 * time.Second},
	domain.DifficultyMedium:   {4 * time.Second, 8 * time.Second},
	domain.DifficultyHard:     {2 * time.Second, 5 * time.Second},
}

// DelayFor returns the delay range for a difficulty, falling back to medium
func DelayFor(d domain.Difficulty) DelayRange {
	if r, ok := botDelays[d]; ok {
		return r
	}
	return botDelays[domain.DifficultyMedium]
}
