package domain

import "time"

// Submission represents the single word a player entered for a round.
// It is never mutated once accepted.
type Submission struct {
	PlayerID    string    `json:"playerId"`
	Word        string    `json:"word"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// NewSubmission creates a new submission
func NewSubmission(playerID, word string, submittedAt time.Time) *Submission {
	return &Submission{
		PlayerID:    playerID,
		Word:        Normalize(word),
		SubmittedAt: submittedAt,
	}
}

// SubmitReceipt describes what happened to a submission that was not
// rejected outright
type SubmitReceipt struct {
	// Late is set when the submission arrived after the deadline and was
	// dropped; the player is scored as having submitted nothing.
	Late bool `json:"late"`
	// BothSubmitted is set once both seats hold a submission
	BothSubmitted bool `json:"bothSubmitted"`
}
