package main

import (
	"errors"
	"testing"

	"wordduel/internal/domain"
	"wordduel/internal/words"
)

func TestPlayOneIsReproducible(t *testing.T) {
	index, err := words.LoadDefault(words.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	settings := domain.DefaultMatchSettings()
	settings.TotalRounds = 3
	diffs := [2]domain.Difficulty{domain.DifficultyHard, domain.DifficultyEasy}

	first, err := playOne(0, 99, settings, diffs, index)
	if err != nil {
		t.Fatal(err)
	}
	again, err := playOne(1, 99, settings, diffs, index)
	if err != nil {
		t.Fatal(err)
	}
	if !first.state.Terminal || len(first.state.History) != 3 {
		t.Fatalf("match not played out: %+v", first.state)
	}
	if first.state.Scores != again.state.Scores || first.state.Players[0].Name != again.state.Players[0].Name {
		t.Errorf("same seed gave %v and %v", first.state.Scores, again.state.Scores)
	}
}

func TestParseDifficultiesChecksBothBots(t *testing.T) {
	settings := domain.DefaultMatchSettings()

	got, err := parseDifficulties(settings, "hard", "easy")
	if err != nil {
		t.Fatal(err)
	}
	if got != [2]domain.Difficulty{domain.DifficultyHard, domain.DifficultyEasy} {
		t.Errorf("difficulties = %v", got)
	}

	for _, pair := range [][2]string{{"hrad", "easy"}, {"hard", "hrad"}, {"hard", ""}} {
		if _, err := parseDifficulties(settings, pair[0], pair[1]); !errors.Is(err, domain.ErrInvalidSettings) {
			t.Errorf("%q/%q: err = %v, want ErrInvalidSettings", pair[0], pair[1], err)
		}
	}
}
