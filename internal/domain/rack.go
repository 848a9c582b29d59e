package domain

import (
	"fmt"
	"strings"
)

// BonusKind is the multiplier a bonus tile confers when its slot is used
type BonusKind string

const (
	DoubleLetter BonusKind = "DOUBLE_LETTER"
	TripleLetter BonusKind = "TRIPLE_LETTER"
	DoubleWord   BonusKind = "DOUBLE_WORD"
)

// BonusKinds lists every bonus kind, in a fixed order
var BonusKinds = []BonusKind{DoubleLetter, TripleLetter, DoubleWord}

// BonusTile attaches a bonus kind to a rack position
type BonusTile struct {
	Index int       `json:"index"`
	Kind  BonusKind `json:"kind"`
}

// Rack is the set of tiles both players build from in a round.
// Letter order matters for display and bonus placement only.
type Rack struct {
	Letters []Letter    `json:"letters"`
	Bonuses []BonusTile `json:"bonuses"`
}

// NewRack builds and validates a rack from a letter string
func NewRack(letters string, bonuses ...BonusTile) (Rack, error) {
	letters = Normalize(letters)
	r := Rack{
		Letters: make([]Letter, 0, len(letters)),
		Bonuses: append([]BonusTile(nil), bonuses...),
	}
	for _, c := range letters {
		r.Letters = append(r.Letters, Letter(c))
	}
	if err := r.Validate(); err != nil {
		return Rack{}, err
	}
	return r, nil
}

// MustRack is NewRack for fixtures; it panics on invalid input
func MustRack(letters string, bonuses ...BonusTile) Rack {
	r, err := NewRack(letters, bonuses...)
	if err != nil {
		panic(err)
	}
	return r
}

// Validate checks letters are A-Z and bonus indices are in range and distinct
func (r Rack) Validate() error {
	if len(r.Letters) == 0 {
		return fmt.Errorf("%w: no letters", ErrInvalidRack)
	}
	for i, l := range r.Letters {
		if !l.IsValid() {
			return fmt.Errorf("%w: letter %q at %d", ErrInvalidRack, rune(l), i)
		}
	}
	seen := make(map[int]bool, len(r.Bonuses))
	for _, b := range r.Bonuses {
		if b.Index < 0 || b.Index >= len(r.Letters) {
			return fmt.Errorf("%w: bonus index %d out of range", ErrInvalidRack, b.Index)
		}
		if seen[b.Index] {
			return fmt.Errorf("%w: duplicate bonus index %d", ErrInvalidRack, b.Index)
		}
		seen[b.Index] = true
	}
	return nil
}

// Len returns the number of tiles in the rack
func (r Rack) Len() int {
	return len(r.Letters)
}

// String returns the rack letters as a contiguous string
func (r Rack) String() string {
	var sb strings.Builder
	for _, l := range r.Letters {
		sb.WriteRune(rune(l))
	}
	return sb.String()
}

// Signature returns the sorted-letter form of the whole rack
func (r Rack) Signature() string {
	return Signature(r.String())
}

// BonusAt returns the bonus kind on slot i, if any
func (r Rack) BonusAt(i int) (BonusKind, bool) {
	for _, b := range r.Bonuses {
		if b.Index == i {
			return b.Kind, true
		}
	}
	return "", false
}

// Assign maps each letter of word onto a rack slot, scanning the word
// left to right and claiming the lowest-index unused slot holding that
// letter. It returns false if some letter cannot be matched.
func (r Rack) Assign(word string) ([]int, bool) {
	word = Normalize(word)
	if word == "" {
		return nil, false
	}
	used := make([]bool, len(r.Letters))
	slots := make([]int, 0, len(word))
	for _, c := range word {
		found := -1
		for i, l := range r.Letters {
			if !used[i] && rune(l) == c {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, false
		}
		used[found] = true
		slots = append(slots, found)
	}
	return slots, true
}

// CanBuild reports whether word's letters are a sub-multiset of the rack
func (r Rack) CanBuild(word string) bool {
	_, ok := r.Assign(word)
	return ok
}

// Clone returns a deep copy of the rack
func (r Rack) Clone() Rack {
	return Rack{
		Letters: append([]Letter(nil), r.Letters...),
		Bonuses: append([]BonusTile(nil), r.Bonuses...),
	}
}
