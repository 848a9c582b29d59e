package app

import (
	"fmt"

	"wordduel/internal/random"
)

// NameGenerator produces display names for bot opponents
type NameGenerator interface {
	Next() string
}

// BotAdjectives and BotNouns are combined into names like "Quick Quill"
var (
	BotAdjectives = []string{
		"Quick", "Clever", "Sly", "Brave", "Witty",
		"Nimble", "Lucky", "Bold", "Curious", "Jolly",
		"Mighty", "Silent", "Swift", "Wise", "Zany",
	}

	BotNouns = []string{
		"Quill", "Owl", "Scribe", "Fox", "Raven",
		"Inkwell", "Sphinx", "Parrot", "Lexicon", "Tile",
		"Badger", "Otter", "Puzzler", "Wren", "Riddler",
	}
)

// BotNames draws names from the adjective and noun lists
type BotNames struct {
	src random.Source
}

// NewBotNames creates a generator drawing from src
func NewBotNames(src random.Source) *BotNames {
	return &BotNames{src: src}
}

// Next returns a random bot name
func (b *BotNames) Next() string {
	adj := BotAdjectives[b.src.Intn(len(BotAdjectives))]
	noun := BotNouns[b.src.Intn(len(BotNouns))]
	return fmt.Sprintf("%s %s", adj, noun)
}

// FixedNames hands out names in order and then repeats the last one.
// Useful for reproducible simulations and tests.
type FixedNames []string

// Next returns the next name in the list
func (f *FixedNames) Next() string {
	if len(*f) == 0 {
		return "Bot"
	}
	name := (*f)[0]
	if len(*f) > 1 {
		*f = (*f)[1:]
	}
	return name
}
