package engine

import (
	"wordduel/internal/domain"
	"wordduel/internal/random"
)

// letterWeights approximates English letter frequency using the standard
// English tile distribution
var letterWeights = map[domain.Letter]int{
	'A': 9, 'B': 2, 'C': 2, 'D': 4, 'E': 12,
	'F': 2, 'G': 3, 'H': 2, 'I': 9, 'J': 1,
	'K': 1, 'L': 4, 'M': 2, 'N': 6, 'O': 8,
	'P': 2, 'Q': 1, 'R': 6, 'S': 4, 'T': 6,
	'U': 4, 'V': 2, 'W': 2, 'X': 1, 'Y': 2,
	'Z': 1,
}

// buildPool expands the weight table into a flat slice, in alphabetical
// order so seeded draws are reproducible
func buildPool() []domain.Letter {
	var pool []domain.Letter
	for l := domain.Letter('A'); l <= 'Z'; l++ {
		for i := 0; i < letterWeights[l]; i++ {
			pool = append(pool, l)
		}
	}
	return pool
}

// maxRareRedraws bounds the reject-and-redraw loop for a single slot
const maxRareRedraws = 64

// RackGenerator deals racks. Its safety for concurrent use is that of its
// random source.
type RackGenerator struct {
	src  random.Source
	pool []domain.Letter
}

// NewRackGenerator creates a generator drawing from src
func NewRackGenerator(src random.Source) *RackGenerator {
	return &RackGenerator{src: src, pool: buildPool()}
}

// Generate deals a rack for a tier profile
func (g *RackGenerator) Generate(p TierProfile) domain.Rack {
	return g.GenerateWith(p.RackSize, p.MinVowels, p.MaxRare)
}

// GenerateWith deals n letters with at most maxRare of JKQXZ, tries to
// reach minVowels, then places one or two bonus tiles on distinct slots.
// The vowel minimum is best effort: when no replaceable slot remains the
// rack is returned short of it.
func (g *RackGenerator) GenerateWith(n, minVowels, maxRare int) domain.Rack {
	if n < 1 {
		n = 1
	}
	letters := make([]domain.Letter, 0, n)
	rare := 0
	for len(letters) < n {
		l := g.draw()
		for tries := 0; l.IsRare() && rare >= maxRare && tries < maxRareRedraws; tries++ {
			l = g.draw()
		}
		if l.IsRare() {
			if rare >= maxRare {
				l = 'E'
			} else {
				rare++
			}
		}
		letters = append(letters, l)
	}

	g.repairVowels(letters, minVowels)

	random.Shuffle(g.src, len(letters), func(i, j int) {
		letters[i], letters[j] = letters[j], letters[i]
	})

	count := 1 + g.src.Intn(2)
	indices := random.Pick(g.src, len(letters), count)
	bonuses := make([]domain.BonusTile, 0, len(indices))
	for _, idx := range indices {
		bonuses = append(bonuses, domain.BonusTile{
			Index: idx,
			Kind:  domain.BonusKinds[g.src.Intn(len(domain.BonusKinds))],
		})
	}

	return domain.Rack{Letters: letters, Bonuses: bonuses}
}

func (g *RackGenerator) draw() domain.Letter {
	return g.pool[g.src.Intn(len(g.pool))]
}

// repairVowels replaces random consonant slots that are not rare with
// vowels until minVowels is met or no such slot is left
func (g *RackGenerator) repairVowels(letters []domain.Letter, minVowels int) {
	vowels := 0
	var replaceable []int
	for i, l := range letters {
		switch {
		case l.IsVowel():
			vowels++
		case !l.IsRare():
			replaceable = append(replaceable, i)
		}
	}

	for vowels < minVowels && len(replaceable) > 0 {
		k := g.src.Intn(len(replaceable))
		slot := replaceable[k]
		replaceable[k] = replaceable[len(replaceable)-1]
		replaceable = replaceable[:len(replaceable)-1]

		letters[slot] = domain.Letter(domain.Vowels[g.src.Intn(len(domain.Vowels))])
		vowels++
	}
}
