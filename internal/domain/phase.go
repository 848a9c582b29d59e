package domain

// Phase represents the current phase of a match
type Phase string

const (
	PhaseWaitingForPlayers Phase = "WAITING_FOR_PLAYERS"      // Seats not yet filled
	PhaseAwaitingRack      Phase = "AWAITING_RACK_GENERATION" // Next rack not yet dealt
	PhaseCountdown         Phase = "COUNTDOWN_TO_START"       // Rack dealt, clients animating
	PhaseAccepting         Phase = "ACCEPTING"                // Submissions open until deadline
	PhaseResolving         Phase = "RESOLVING"                // Scoring both submissions
	PhaseRoundComplete     Phase = "ROUND_COMPLETE"           // Result emitted, waiting to advance
	PhaseMatchComplete     Phase = "MATCH_COMPLETE"           // Terminal
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// IsTerminal reports whether no further transitions are possible
func (p Phase) IsTerminal() bool {
	return p == PhaseMatchComplete
}

// CanTransitionTo checks if a transition from current phase to target phase is valid
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseWaitingForPlayers: {PhaseAwaitingRack},
		PhaseAwaitingRack:      {PhaseCountdown},
		PhaseCountdown:         {PhaseAccepting},
		PhaseAccepting:         {PhaseResolving},
		PhaseResolving:         {PhaseRoundComplete},
		PhaseRoundComplete:     {PhaseAwaitingRack, PhaseMatchComplete},
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}
