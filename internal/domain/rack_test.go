package domain

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestRackAssignLowestIndex(t *testing.T) {
	rack := MustRack("WORDERS")

	cases := []struct {
		word  string
		slots []int
		ok    bool
	}{
		{"WORDS", []int{0, 1, 2, 3, 6}, true},
		{"ERR", []int{4, 2, 5}, true},
		{"rod", []int{2, 1, 3}, true},
		{"WORDERS", []int{0, 1, 2, 3, 4, 5, 6}, true},
		{"RRR", nil, false},
		{"", nil, false},
		{"CAT", nil, false},
	}
	for _, c := range cases {
		slots, ok := rack.Assign(c.word)
		if ok != c.ok || !reflect.DeepEqual(slots, c.slots) {
			t.Errorf("Assign(%q) = %v, %v; want %v, %v", c.word, slots, ok, c.slots, c.ok)
		}
	}
}

func TestRackValidate(t *testing.T) {
	if _, err := NewRack("AB1"); !errors.Is(err, ErrInvalidRack) {
		t.Errorf("non-letter: got %v", err)
	}
	if _, err := NewRack(""); !errors.Is(err, ErrInvalidRack) {
		t.Errorf("empty: got %v", err)
	}
	if _, err := NewRack("ABC", BonusTile{Index: 3, Kind: DoubleWord}); !errors.Is(err, ErrInvalidRack) {
		t.Errorf("out of range bonus: got %v", err)
	}
	dup := []BonusTile{{Index: 1, Kind: DoubleWord}, {Index: 1, Kind: TripleLetter}}
	if _, err := NewRack("ABC", dup...); !errors.Is(err, ErrInvalidRack) {
		t.Errorf("duplicate bonus index: got %v", err)
	}
	if r, err := NewRack(" abc "); err != nil || r.String() != "ABC" {
		t.Errorf("NewRack(abc) = %v, %v", r, err)
	}
}

func TestRackCloneIsDeep(t *testing.T) {
	r := MustRack("ABC", BonusTile{Index: 0, Kind: DoubleLetter})
	c := r.Clone()
	c.Letters[0] = 'Z'
	c.Bonuses[0].Kind = DoubleWord
	if r.Letters[0] != 'A' || r.Bonuses[0].Kind != DoubleLetter {
		t.Error("Clone shares storage with the original")
	}
}

func TestRackJSON(t *testing.T) {
	r := MustRack("WORD", BonusTile{Index: 2, Kind: TripleLetter})
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"letters":["W","O","R","D"],"bonuses":[{"index":2,"kind":"TRIPLE_LETTER"}]}`
	if string(b) != want {
		t.Errorf("json = %s", b)
	}
}

func TestSignatureAndPoints(t *testing.T) {
	if Signature("Words") != "DORSW" {
		t.Errorf("Signature(Words) = %s", Signature("Words"))
	}
	if Signature("sword") != Signature("WORDS") {
		t.Error("anagrams must share a signature")
	}
	points := map[Letter]int{'A': 1, 'D': 2, 'W': 4, 'K': 5, 'J': 8, 'Q': 10, '?': 0}
	for l, want := range points {
		if got := l.Points(); got != want {
			t.Errorf("%c.Points() = %d, want %d", l, got, want)
		}
	}
	if !Letter('Q').IsRare() || Letter('E').IsRare() || !Letter('U').IsVowel() {
		t.Error("letter classes are wrong")
	}
}
