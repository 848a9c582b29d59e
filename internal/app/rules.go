package app

import (
	"wordduel/internal/domain"
	"wordduel/internal/engine"
	"wordduel/internal/random"
	"wordduel/internal/words"
)

// Rules bundles the engine components a match is played with
type Rules struct {
	Profile engine.TierProfile
	Racks   *engine.RackGenerator
	Referee *engine.Referee
	Bot     *engine.Bot
}

// NewRules builds the rules for a tier. src must be safe for concurrent
// use if the rules are shared between matches.
func NewRules(index *words.Index, tier domain.Tier, src random.Source) Rules {
	referee := engine.NewReferee(index, tier)
	return Rules{
		Profile: engine.ProfileFor(tier),
		Racks:   engine.NewRackGenerator(src),
		Referee: referee,
		Bot:     engine.NewBot(referee, src),
	}
}
