package engine

import (
	"testing"

	"wordduel/internal/domain"
	"wordduel/internal/random"
)

func TestScoreExamples(t *testing.T) {
	tl := domain.BonusTile{Index: 2, Kind: domain.TripleLetter}
	rack := domain.MustRack("WORDERS", tl)

	cases := []struct {
		word string
		want int
	}{
		{"WORDS", 11},
		{"WORDERS", 18},
		{"words", 11},
		{"", 0},
		{"WORDY", 0},   // no Y on the rack
		{"DROSS", 0},   // only one S
		{"ROW", 8},     // R claims slot 2 first: 3 + 1 + 4
		{"ORDERS", 11}, // O1 R3 D2 E1 R1 S1 = 9, +2 length bonus
	}
	for _, c := range cases {
		if got := Score(c.word, rack); got != c.want {
			t.Errorf("Score(%q) = %d, want %d", c.word, got, c.want)
		}
	}
}

func TestScoreMultipliers(t *testing.T) {
	cases := []struct {
		name string
		rack domain.Rack
		word string
		want int
	}{
		{"no bonus", domain.MustRack("CAT"), "CAT", 5},
		{"double letter", domain.MustRack("CAT", domain.BonusTile{Index: 0, Kind: domain.DoubleLetter}), "CAT", 8},
		{"double word", domain.MustRack("CAT", domain.BonusTile{Index: 1, Kind: domain.DoubleWord}), "CAT", 10},
		{"two double words stack", domain.MustRack("CAT",
			domain.BonusTile{Index: 0, Kind: domain.DoubleWord},
			domain.BonusTile{Index: 2, Kind: domain.DoubleWord}), "CAT", 20},
		{"unused bonus", domain.MustRack("CATS", domain.BonusTile{Index: 3, Kind: domain.TripleLetter}), "CAT", 5},
		{"length bonus 6", domain.MustRack("ORANGE"), "ORANGE", 7 + 2},
		{"length bonus 9+", domain.MustRack("ASTEROIDS"), "ASTEROIDS", 10 + 12},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Score(c.word, c.rack); got != c.want {
				t.Errorf("Score(%q) = %d, want %d", c.word, got, c.want)
			}
		})
	}
}

func TestLengthBonus(t *testing.T) {
	want := map[int]int{1: 0, 5: 0, 6: 2, 7: 5, 8: 8, 9: 12, 10: 12, 15: 12}
	for n, b := range want {
		if got := LengthBonus(n); got != b {
			t.Errorf("LengthBonus(%d) = %d, want %d", n, got, b)
		}
	}
}

func TestScoreImpliesSubMultiset(t *testing.T) {
	gen := NewRackGenerator(random.NewSeeded(11))
	probes := []string{"WORD", "EAT", "TEA", "QUIZ", "SEE", "ERASE", "STONE", "AA", "RATIO"}

	for i := 0; i < 500; i++ {
		rack := gen.Generate(ProfileFor(domain.TierExpert))
		for _, w := range probes {
			if Score(w, rack) > 0 && !subMultiset(w, rack.String()) {
				t.Fatalf("%s scored on rack %s without being buildable", w, rack)
			}
		}
	}
}

func TestScoreIsOrderIndependent(t *testing.T) {
	// Same multiset, bonus stays on the same letter instance
	a := domain.MustRack("WORDERS", domain.BonusTile{Index: 2, Kind: domain.TripleLetter})
	b := domain.MustRack("SREDROW", domain.BonusTile{Index: 1, Kind: domain.TripleLetter})

	for _, w := range []string{"WORDS", "WORDERS", "DOES", "SWORD", "ODE"} {
		if sa, sb := Score(w, a), Score(w, b); sa != sb {
			t.Errorf("Score(%q): %d vs %d after permuting the rack", w, sa, sb)
		}
	}
}

func subMultiset(word, letters string) bool {
	counts := make(map[rune]int)
	for _, c := range letters {
		counts[c]++
	}
	for _, c := range word {
		counts[c]--
		if counts[c] < 0 {
			return false
		}
	}
	return true
}
