package app

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"wordduel/internal/domain"
	"wordduel/internal/random"
	"wordduel/internal/words"
)

const waitTimeout = 3 * time.Second

func testIndex(t *testing.T) *words.Index {
	t.Helper()
	ix, err := words.LoadDefault(words.DefaultOptions())
	if err != nil {
		t.Fatalf("load words: %v", err)
	}
	return ix
}

// recorder is both a client connection and an event sink
type recorder struct {
	playerID string
	events   chan *domain.MatchEvent
}

func newRecorder(playerID string) *recorder {
	return &recorder{playerID: playerID, events: make(chan *domain.MatchEvent, 256)}
}

func (r *recorder) Send(message interface{}) error {
	if ev, ok := message.(*domain.MatchEvent); ok {
		r.events <- ev
	}
	return nil
}

func (r *recorder) GetPlayerID() string { return r.playerID }

func (r *recorder) Close() error { return nil }

func (r *recorder) HandleEvent(ev *domain.MatchEvent) { r.events <- ev }

// waitFor skips events until one of type typ arrives
func (r *recorder) waitFor(t *testing.T, typ domain.EventType) *domain.MatchEvent {
	t.Helper()
	deadline := time.After(waitTimeout)
	for {
		select {
		case ev := <-r.events:
			if ev.Type == typ {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", typ)
			return nil
		}
	}
}

func newTestHub(t *testing.T, sinks ...EventSink) *Hub {
	t.Helper()
	names := FixedNames{"Test Bot"}
	hub := NewHub(HubConfig{
		Index:  testIndex(t),
		Random: random.NewSeeded(1),
		Names:  &names,
		Sinks:  sinks,
		Logger: zerolog.Nop(),
	})
	t.Cleanup(hub.Close)
	return hub
}

func duelSettings(rounds int, roundDuration time.Duration) domain.MatchSettings {
	return domain.MatchSettings{
		Mode:          domain.ModeDuel,
		Tier:          domain.TierStandard,
		TotalRounds:   rounds,
		RoundDuration: roundDuration,
		Countdown:     5 * time.Millisecond,
		InterRound:    5 * time.Millisecond,
	}
}

func TestDuelResolvesAsSoonAsBothSubmit(t *testing.T) {
	sink := newRecorder("")
	hub := newTestHub(t, sink)

	a, err := hub.StartMatch(duelSettings(2, time.Minute), "Ann")
	if err != nil {
		t.Fatalf("StartMatch: %v", err)
	}
	coord, err := hub.GetMatch(a.MatchID)
	if err != nil {
		t.Fatal(err)
	}
	clientA := newRecorder(a.PlayerID)
	coord.RegisterClient(a.PlayerID, clientA)

	b, err := hub.JoinMatch(a.MatchID, "Ben")
	if err != nil {
		t.Fatalf("JoinMatch: %v", err)
	}
	if b.Seat != domain.SeatB {
		t.Errorf("joiner seat = %d", b.Seat)
	}
	if _, err := hub.JoinMatch(a.MatchID, "Cat"); !errors.Is(err, domain.ErrMatchFull) {
		t.Errorf("third join: got %v", err)
	}

	var totals [2]int
	for round := 1; round <= 2; round++ {
		sink.waitFor(t, domain.EventSubmissionsOpen)
		snap := coord.Snapshot(a.PlayerID)
		if snap.Round == nil || snap.Round.Round != round {
			t.Fatalf("snapshot round = %+v", snap.Round)
		}
		rack := domain.Rack{Letters: snap.Round.Rack, Bonuses: snap.Round.BonusTiles}
		best, bestScore := hub.rules[domain.TierStandard].Referee.BestPlay(rack)

		if _, err := hub.SubmitWord(a.MatchID, a.PlayerID, best, time.Now()); err != nil {
			t.Fatalf("submit A: %v", err)
		}
		if _, err := hub.SubmitWord(a.MatchID, a.PlayerID, best, time.Now()); !errors.Is(err, domain.ErrAlreadySubmitted) {
			t.Errorf("resubmit A: got %v", err)
		}

		rec, err := hub.SubmitWord(a.MatchID, b.PlayerID, "ZZZZ", time.Now())
		if err != nil || !rec.BothSubmitted {
			t.Fatalf("submit B: %+v, %v", rec, err)
		}

		// Resolution happened inside the second submission, long before
		// the one-minute deadline
		state := coord.State()
		if len(state.History) != round {
			t.Fatalf("round %d not resolved after both submitted: history %d", round, len(state.History))
		}
		res := state.History[round-1]
		if res.Players[domain.SeatA].Score != bestScore {
			t.Errorf("seat A scored %d, want %d", res.Players[domain.SeatA].Score, bestScore)
		}
		if res.BestWord != best || res.BestScore != bestScore {
			t.Errorf("best play reported as %s/%d, want %s/%d", res.BestWord, res.BestScore, best, bestScore)
		}
		if res.Players[domain.SeatB].Verdict != domain.VerdictNotInDictionary {
			t.Errorf("seat B verdict = %s", res.Players[domain.SeatB].Verdict)
		}
		totals[domain.SeatA] += res.Players[domain.SeatA].Score

		ev := clientA.waitFor(t, domain.EventOpponentSubmitted)
		if ev.PlayerID != a.PlayerID {
			t.Errorf("opponent notice addressed to %s", ev.PlayerID)
		}
		sink.waitFor(t, domain.EventRoundResolved)
	}

	ev := sink.waitFor(t, domain.EventMatchResolved)
	state := ev.Payload.(*domain.MatchResolvedPayload).State
	if !state.Terminal || state.Scores != totals {
		t.Errorf("final state terminal=%v scores=%v, want %v", state.Terminal, state.Scores, totals)
	}

	if _, err := hub.SubmitWord(a.MatchID, a.PlayerID, "WORD", time.Now()); !errors.Is(err, domain.ErrMatchOver) {
		t.Errorf("submit after match end: got %v", err)
	}
}

func TestDeadlineResolvesWithoutSubmissions(t *testing.T) {
	sink := newRecorder("")
	hub := newTestHub(t, sink)

	a, err := hub.StartMatch(duelSettings(1, 30*time.Millisecond), "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := hub.JoinMatch(a.MatchID, ""); err != nil {
		t.Fatal(err)
	}

	ev := sink.waitFor(t, domain.EventRoundResolved)
	res := ev.Payload.(*domain.RoundResolvedPayload).Result
	for seat, p := range res.Players {
		if p.Verdict != domain.VerdictEmpty || p.Score != 0 {
			t.Errorf("seat %d = %+v", seat, p)
		}
	}
	if res.Winner != domain.OutcomeTie {
		t.Errorf("winner = %s, want tie", res.Winner)
	}

	ev = sink.waitFor(t, domain.EventMatchResolved)
	if w := ev.Payload.(*domain.MatchResolvedPayload).State.Winner; w != domain.OutcomeTie {
		t.Errorf("match winner = %s", w)
	}

	state, err := hub.MatchState(a.MatchID)
	if err != nil {
		t.Fatal(err)
	}
	if state.Players[domain.SeatA].Name != "Player 1" || state.Players[domain.SeatB].Name != "Player 2" {
		t.Errorf("default names = %+v", state.Players)
	}

	// Once resolved, the round no longer accepts words
	if _, err := hub.SubmitWord(a.MatchID, a.PlayerID, "WORD", time.Now()); err == nil {
		t.Error("submission after the round resolved should be rejected")
	}
}

func TestVsBotSeatsBotAndStartsRound(t *testing.T) {
	sink := newRecorder("")
	hub := newTestHub(t, sink)

	settings := domain.DefaultMatchSettings()
	settings.RoundDuration = 40 * time.Millisecond
	settings.Countdown = 0
	settings.TotalRounds = 1

	h, err := hub.StartMatch(settings, "Ann")
	if err != nil {
		t.Fatal(err)
	}

	started := sink.waitFor(t, domain.EventRoundStarted).Payload.(*domain.RoundStartedPayload)
	if len(started.Rack) != 7 || len(started.BonusTiles) < 1 {
		t.Errorf("round started payload = %+v", started)
	}

	state, _ := hub.MatchState(h.MatchID)
	bot := state.Players[domain.SeatB]
	if !bot.IsBot || bot.Name != "Test Bot" {
		t.Errorf("seat B = %+v, want the bot", bot)
	}

	// The bot is slower than this round, so nobody plays
	ev := sink.waitFor(t, domain.EventMatchResolved)
	if !ev.Payload.(*domain.MatchResolvedPayload).State.Terminal {
		t.Error("match should be over")
	}
}

func TestHubRejections(t *testing.T) {
	hub := newTestHub(t)

	bad := domain.DefaultMatchSettings()
	bad.TotalRounds = 0
	if _, err := hub.StartMatch(bad, "x"); !errors.Is(err, domain.ErrInvalidSettings) {
		t.Errorf("invalid settings: got %v", err)
	}

	_, err := hub.SubmitWord("nope", "p", "WORD", time.Now())
	if reason, ok := domain.ReasonFor(err); !ok || reason != domain.ReasonMatchNotFound {
		t.Errorf("unknown match: %v -> %s", err, reason)
	}
	if _, err := hub.JoinMatch("nope", "x"); !errors.Is(err, domain.ErrMatchNotFound) {
		t.Errorf("join unknown match: got %v", err)
	}

	a, err := hub.StartMatch(duelSettings(1, time.Minute), "Ann")
	if err != nil {
		t.Fatal(err)
	}
	// Seats are not full, no round is running
	_, err = hub.SubmitWord(a.MatchID, a.PlayerID, "WORD", time.Now())
	if reason, _ := domain.ReasonFor(err); reason != domain.ReasonRoundNotAccepting {
		t.Errorf("submit before start: %v", err)
	}
}

func TestHubStatsAndCleanup(t *testing.T) {
	hub := newTestHub(t)

	for i := 0; i < 3; i++ {
		if _, err := hub.StartMatch(duelSettings(1, time.Minute), ""); err != nil {
			t.Fatal(err)
		}
	}
	stats := hub.Stats()
	if stats.ActiveMatches != 3 || stats.FinishedMatches != 0 || stats.Dictionary.Words == 0 {
		t.Errorf("stats = %+v", stats)
	}

	if n := hub.cleanupStale(time.Now()); n != 0 {
		t.Errorf("fresh matches cleaned up: %d", n)
	}
	if n := hub.cleanupStale(time.Now().Add(DefaultStaleAfter + time.Minute)); n != 3 {
		t.Errorf("cleaned %d stale matches, want 3", n)
	}
	if hub.MatchCount() != 0 {
		t.Errorf("%d matches left", hub.MatchCount())
	}
}

func TestCheckWord(t *testing.T) {
	hub := newTestHub(t)
	if got := hub.CheckWord(" word "); !got.Valid || got.Blocked || got.Word != "WORD" {
		t.Errorf("CheckWord(word) = %+v", got)
	}
	if got := hub.CheckWord("damn"); got.Valid || !got.Blocked {
		t.Errorf("CheckWord(damn) = %+v", got)
	}
}

func TestBotNames(t *testing.T) {
	names := NewBotNames(random.NewSeeded(4))
	for i := 0; i < 20; i++ {
		if n := names.Next(); n == "" {
			t.Fatal("empty bot name")
		}
	}

	fixed := FixedNames{"One", "Two"}
	if a, b, c := fixed.Next(), fixed.Next(), fixed.Next(); a != "One" || b != "Two" || c != "Two" {
		t.Errorf("fixed names = %s %s %s", a, b, c)
	}
}

func TestReplacedClientDoesNotUnregisterNewer(t *testing.T) {
	hub := newTestHub(t)
	a, err := hub.StartMatch(duelSettings(1, time.Minute), "Ann")
	if err != nil {
		t.Fatal(err)
	}
	coord, _ := hub.GetMatch(a.MatchID)

	old, current := newRecorder(a.PlayerID), newRecorder(a.PlayerID)
	coord.RegisterClient(a.PlayerID, old)
	coord.RegisterClient(a.PlayerID, current)

	if coord.UnregisterClient(a.PlayerID, old) {
		t.Error("stale client removed the current registration")
	}
	if _, err := hub.JoinMatch(a.MatchID, "Ben"); err != nil {
		t.Fatal(err)
	}
	current.waitFor(t, domain.EventRoundStarted)

	if !coord.UnregisterClient(a.PlayerID, current) {
		t.Error("current client should unregister")
	}
}

func bareCoordinator(queue int, sink EventSink) *Coordinator {
	return &Coordinator{
		logger:  zerolog.Nop(),
		clients: make(map[string]ClientConnection),
		sinks:   []EventSink{sink},
		events:  make(chan *domain.MatchEvent, queue),
		done:    make(chan struct{}),
	}
}

func TestFullQueueKeepsResolutions(t *testing.T) {
	sink := newRecorder("")
	c := bareCoordinator(1, sink)

	c.queueEvent(domain.NewEvent(domain.EventRoundStarted, "m", nil))
	c.queueEvent(domain.NewEvent(domain.EventSubmissionsOpen, "m", nil)) // dropped
	queued := make(chan struct{})
	go func() {
		c.queueEvent(domain.NewEvent(domain.EventMatchResolved, "m", nil))
		close(queued)
	}()

	go c.eventLoop()
	t.Cleanup(func() { close(c.done) })

	if ev := sink.waitFor(t, domain.EventRoundStarted); ev == nil {
		return
	}
	next := sink.waitFor(t, domain.EventMatchResolved)
	if next == nil {
		return
	}
	<-queued
	select {
	case ev := <-sink.events:
		t.Errorf("unexpected event %s", ev.Type)
	default:
	}
}

func TestClosedCoordinatorDrainsToSinks(t *testing.T) {
	sink := newRecorder("")
	c := bareCoordinator(4, sink)
	client := newRecorder("a")
	c.clients["a"] = client

	c.queueEvent(domain.NewEvent(domain.EventRoundResolved, "m", nil))
	c.queueEvent(domain.NewEvent(domain.EventMatchResolved, "m", nil))
	close(c.done)
	c.eventLoop()

	if len(sink.events) != 2 {
		t.Errorf("sink got %d events, want 2", len(sink.events))
	}
	if len(client.events) != 0 {
		t.Errorf("closed match still sent %d events to clients", len(client.events))
	}
}
