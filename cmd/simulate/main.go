// Command simulate plays bot-against-bot matches offline and reports how
// two difficulties fare against each other.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"wordduel/internal/app"
	"wordduel/internal/config"
	"wordduel/internal/domain"
	"wordduel/internal/random"
	"wordduel/internal/store"
	"wordduel/internal/words"
)

type result struct {
	index int
	state domain.MatchState
	ended time.Time
}

func main() {
	var (
		num       = flag.Int("n", 100, "Number of matches to simulate")
		rounds    = flag.Int("rounds", 7, "Rounds per match")
		tier      = flag.String("tier", string(domain.TierStandard), "Tier: young, standard or expert")
		diffA     = flag.String("a", string(domain.DifficultyHard), "Difficulty of bot A")
		diffB     = flag.String("b", string(domain.DifficultyMedium), "Difficulty of bot B")
		seed      = flag.Int64("seed", 0, "Base seed; 0 draws a random one")
		parallel  = flag.Int("p", 4, "Matches played concurrently")
		wordsFile = flag.String("words", "", "Word list file (default: embedded list)")
		dbPath    = flag.String("db", "", "Archive finished matches to this SQLite file")
		logLevel  = flag.String("log", "info", "Log level")
	)
	flag.Parse()

	logger := config.LoggingConfig{Level: *logLevel, Format: "console"}.NewLogger(os.Stderr)

	settings := domain.DefaultMatchSettings()
	settings.Tier = domain.Tier(*tier)
	settings.TotalRounds = *rounds
	difficulties, err := parseDifficulties(settings, *diffA, *diffB)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid match settings")
	}
	settings.Difficulty = difficulties[domain.SeatA]

	index, err := words.LoadDefault(words.DefaultOptions())
	if *wordsFile != "" {
		index, err = words.LoadFiles(*wordsFile, "", words.DefaultOptions())
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("load dictionary")
	}

	var archive *store.Archive
	if *dbPath != "" {
		if archive, err = store.Open(*dbPath, logger); err != nil {
			logger.Fatal().Err(err).Msg("open archive")
		}
		defer archive.Close()
	}

	if *seed == 0 {
		*seed = int64(random.New().Intn(1 << 30))
	}
	logger.Info().Int64("seed", *seed).Int("matches", *num).Str("tier", *tier).
		Str("a", *diffA).Str("b", *diffB).Msg("simulating")

	// Every match has its own seeded source, so results do not depend on
	// scheduling
	p := pool.NewWithResults[result]().WithErrors().WithMaxGoroutines(max(*parallel, 1))
	for i := 0; i < *num; i++ {
		i := i
		p.Go(func() (result, error) {
			return playOne(i, *seed+int64(i), settings, difficulties, index)
		})
	}
	results, err := p.Wait()
	if err != nil {
		logger.Fatal().Err(err).Msg("simulation failed")
	}
	slices.SortFunc(results, func(a, b result) int { return a.index - b.index })

	var (
		wins   [2]int
		ties   int
		totals [2]int
	)
	for _, r := range results {
		switch r.state.Winner {
		case domain.OutcomePlayerA:
			wins[domain.SeatA]++
		case domain.OutcomePlayerB:
			wins[domain.SeatB]++
		default:
			ties++
		}
		totals[domain.SeatA] += r.state.Scores[domain.SeatA]
		totals[domain.SeatB] += r.state.Scores[domain.SeatB]

		logger.Debug().Int("match", r.index+1).Ints("scores", r.state.Scores[:]).
			Str("winner", string(r.state.Winner)).Msg("match finished")

		if archive != nil {
			if err := archive.Record(context.Background(), r.state, r.ended); err != nil {
				logger.Warn().Err(err).Str("matchId", r.state.MatchID).Msg("archive match")
			}
		}
	}

	n := max(len(results), 1)
	logger.Info().
		Int("winsA", wins[domain.SeatA]).
		Int("winsB", wins[domain.SeatB]).
		Int("ties", ties).
		Float64("avgScoreA", float64(totals[domain.SeatA])/float64(n)).
		Float64("avgScoreB", float64(totals[domain.SeatB])/float64(n)).
		Msg("simulation complete")
}

// parseDifficulties checks both bot difficulties against settings
func parseDifficulties(settings domain.MatchSettings, a, b string) ([2]domain.Difficulty, error) {
	var out [2]domain.Difficulty
	settings.Mode = domain.ModeVsBot
	for i, name := range [2]string{a, b} {
		settings.Difficulty = domain.Difficulty(name)
		if err := settings.Validate(); err != nil {
			return out, fmt.Errorf("bot %c: %w", 'A'+i, err)
		}
		out[i] = settings.Difficulty
	}
	return out, nil
}

func playOne(i int, seed int64, settings domain.MatchSettings, difficulties [2]domain.Difficulty, index *words.Index) (result, error) {
	src := random.NewSeeded(seed)
	names := app.NewBotNames(src)
	runner, err := app.NewOfflineRunner(uuid.NewString(), settings, app.NewRules(index, settings.Tier, src),
		domain.NewPlayer("bot-a", names.Next(), true),
		domain.NewPlayer("bot-b", names.Next(), true),
		time.Now())
	if err != nil {
		return result{}, err
	}
	state, err := runner.PlayBots(difficulties)
	if err != nil {
		return result{}, err
	}
	return result{index: i, state: state, ended: runner.Now()}, nil
}

