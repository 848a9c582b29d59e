package words

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"wordduel/internal/domain"
)

func mustLoad(t *testing.T, words, blocked string, opts Options) *Index {
	t.Helper()
	ix, err := Load(strings.NewReader(words), strings.NewReader(blocked), opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return ix
}

func TestLoadNormalizesAndFilters(t *testing.T) {
	ix := mustLoad(t, "word\n  Words \n\n# comment\nrow\nr0w\nx\nWORD\ndarn\n", "DARN\n", DefaultOptions())

	cases := []struct {
		word string
		want bool
	}{
		{"WORD", true},
		{"word", true},
		{" Words ", true},
		{"ROW", true},
		{"R0W", false},  // non-alpha dropped
		{"X", false},    // below minimum length
		{"DARN", false}, // blocked
		{"ORDER", false},
	}
	for _, c := range cases {
		if got := ix.IsValid(c.word); got != c.want {
			t.Errorf("IsValid(%q) = %v, want %v", c.word, got, c.want)
		}
	}

	if !ix.IsBlocked("darn") {
		t.Error("IsBlocked should be case-insensitive")
	}
	if got := ix.Stats(); got.Words != 3 || got.Blocked != 1 {
		t.Errorf("Stats = %+v, want 3 words and 1 blocked", got)
	}
}

func TestLoadEmptyWordList(t *testing.T) {
	_, err := Load(strings.NewReader("# nothing\n\n"), nil, DefaultOptions())
	var dle *DictionaryLoadError
	if !errors.As(err, &dle) {
		t.Fatalf("expected DictionaryLoadError, got %v", err)
	}
	if !errors.Is(err, ErrEmptyWordList) {
		t.Errorf("expected ErrEmptyWordList, got %v", err)
	}
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	wordPath := filepath.Join(dir, "words.txt")
	if err := os.WriteFile(wordPath, []byte("cat\nact\ntac\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ix, err := LoadFiles(wordPath, "", DefaultOptions())
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if got := ix.Anagrams("tca"); len(got) != 3 || got[0] != "ACT" {
		t.Errorf("Anagrams(TCA) = %v", got)
	}

	_, err = LoadFiles(filepath.Join(dir, "missing.txt"), "", DefaultOptions())
	var dle *DictionaryLoadError
	if !errors.As(err, &dle) {
		t.Fatalf("missing word list: expected DictionaryLoadError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should unwrap to ErrNotExist: %v", err)
	}

	_, err = LoadFiles(wordPath, filepath.Join(dir, "missing-block.txt"), DefaultOptions())
	if !errors.As(err, &dle) {
		t.Fatalf("missing blocklist: expected DictionaryLoadError, got %v", err)
	}
}

func TestLoadDefault(t *testing.T) {
	ix, err := LoadDefault(DefaultOptions())
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	for _, w := range []string{"WORD", "WORDS", "ORDER"} {
		if !ix.IsValid(w) {
			t.Errorf("embedded list should contain %s", w)
		}
	}
	if ix.IsValid("DAMN") {
		t.Error("embedded blocklist should exclude DAMN")
	}
}

func TestFindBuildableWords(t *testing.T) {
	ix := mustLoad(t,
		"WORD\nWORDS\nROW\nROWS\nSWORD\nDROSS\nORDER\nDO\nSO\nRED\nBAD\n",
		"ROWS\n",
		Options{MinLength: 2, CacheSize: 16})

	got := ix.FindBuildableWords("worders", 3)
	want := []string{"ORDER", "RED", "ROW", "SWORD", "WORD", "WORDS"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("FindBuildableWords(WORDERS, 3) = %v, want %v", got, want)
	}

	// DROSS needs two S tiles
	for _, w := range got {
		if w == "DROSS" || w == "ROWS" {
			t.Errorf("unexpected %s in result", w)
		}
	}

	got = ix.FindBuildableWords("WORDERS", 2)
	if len(got) != len(want)+2 {
		t.Errorf("min length 2 should add DO and SO: %v", got)
	}
}

func TestFindBuildableWordsIsSoundAndComplete(t *testing.T) {
	ix, err := LoadDefault(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	racks := []string{"WORDERS", "STATION", "AEIRNOT", "QQQ", "A", "EEERRSS"}
	for _, letters := range racks {
		rack := domain.MustRack(letters)
		got := ix.FindBuildableWords(letters, 2)

		if !sort.StringsAreSorted(got) {
			t.Errorf("%s: result not sorted: %v", letters, got)
		}
		seen := make(map[string]bool)
		for _, w := range got {
			if seen[w] {
				t.Errorf("%s: duplicate %s", letters, w)
			}
			seen[w] = true
			if !rack.CanBuild(w) {
				t.Errorf("%s: %s is not buildable", letters, w)
			}
			if !ix.IsValid(w) || ix.IsBlocked(w) {
				t.Errorf("%s: %s is not a valid unblocked word", letters, w)
			}
		}

		// completeness against a brute-force scan of the list
		for w := range ix.words {
			if rack.CanBuild(w) && !seen[w] {
				t.Errorf("%s: missing %s", letters, w)
			}
		}
	}
}

func TestFindBuildableWordsCacheReturnsCopies(t *testing.T) {
	ix := mustLoad(t, "ACT\nCAT\n", "", Options{MinLength: 2, CacheSize: 4})

	first := ix.FindBuildableWords("TAC", 3)
	first[0] = "MUTATED"

	second := ix.FindBuildableWords("CTA", 3)
	if len(second) != 2 || second[0] != "ACT" {
		t.Errorf("cached result was mutated: %v", second)
	}
}

func TestFindBuildableWordsRejectsNonAlpha(t *testing.T) {
	ix := mustLoad(t, "CAT\n", "", DefaultOptions())
	if got := ix.FindBuildableWords("C4T", 2); got != nil {
		t.Errorf("expected nil for non-alpha letters, got %v", got)
	}
}
