package engine

import "wordduel/internal/domain"

// lengthBonuses maps a word length to its flat bonus; 9 and above use the
// last entry
var lengthBonuses = map[int]int{6: 2, 7: 5, 8: 8, 9: 12}

// LengthBonus returns the flat bonus for a word of n letters
func LengthBonus(n int) int {
	if n >= 9 {
		return lengthBonuses[9]
	}
	return lengthBonuses[n]
}

// Score returns the point value of word built from rack. It does not
// consult a dictionary; a word that cannot be built from the rack scores 0.
func Score(word string, rack domain.Rack) int {
	slots, ok := rack.Assign(word)
	if !ok {
		return 0
	}

	sum, multiplier := 0, 1
	for _, slot := range slots {
		letter := rack.Letters[slot]
		value := letter.Points()
		if kind, has := rack.BonusAt(slot); has {
			switch kind {
			case domain.DoubleLetter:
				value *= 2
			case domain.TripleLetter:
				value *= 3
			case domain.DoubleWord:
				multiplier *= 2
			}
		}
		sum += value
	}

	return sum*multiplier + LengthBonus(len(slots))
}
