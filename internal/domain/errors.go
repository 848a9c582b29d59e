package domain

import "errors"

// Domain errors
var (
	ErrMatchNotFound     = errors.New("match not found")
	ErrMatchFull         = errors.New("match is full")
	ErrMatchOver         = errors.New("match is over")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrAlreadySubmitted  = errors.New("already submitted this round")
	ErrRoundNotAccepting = errors.New("round is not accepting submissions")
	ErrInvalidTransition = errors.New("invalid phase transition")
	ErrInvalidRack       = errors.New("invalid rack")
	ErrInvalidSettings   = errors.New("invalid match settings")
)

// RejectedReason is reported synchronously to a player whose submission
// was refused. It is never forwarded to the opponent.
type RejectedReason string

const (
	ReasonAlreadySubmitted  RejectedReason = "ALREADY_SUBMITTED"
	ReasonRoundNotAccepting RejectedReason = "ROUND_NOT_ACCEPTING"
	ReasonMatchNotFound     RejectedReason = "MATCH_NOT_FOUND"
)

// ReasonFor maps a submission error onto the rejection vocabulary.
// The second return value is false for errors that are not rejections.
func ReasonFor(err error) (RejectedReason, bool) {
	switch {
	case errors.Is(err, ErrAlreadySubmitted):
		return ReasonAlreadySubmitted, true
	case errors.Is(err, ErrRoundNotAccepting), errors.Is(err, ErrMatchOver):
		return ReasonRoundNotAccepting, true
	case errors.Is(err, ErrMatchNotFound):
		return ReasonMatchNotFound, true
	default:
		return "", false
	}
}
