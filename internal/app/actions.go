package app

import "dominoscore/internal/domain"

// Action is a verb issued by a surface into the session.
type Action interface {
	isAction()
}

// SetTargetScore changes the target used by the next match.
type SetTargetScore struct {
	Score int
}

// StartMatch seats four players, the first two against the last two.
type StartMatch struct {
	Players [PlayersPerMatch]string
}

// AddRound scores one round. Teams missing from Scores score 0.
type AddRound struct {
	Scores domain.RoundScores
}

// ConfirmPenalty applies the pending overshoot penalty.
type ConfirmPenalty struct{}

// NewMatch starts over with the same teams, keeping the archive.
type NewMatch struct{}

// ResetTable returns the table to setup, keeping the archive.
type ResetTable struct{}

// ClearHistory empties the archive.
type ClearHistory struct{}

func (SetTargetScore) isAction() {}
func (StartMatch) isAction()     {}
func (AddRound) isAction()       {}
func (ConfirmPenalty) isAction() {}
func (NewMatch) isAction()       {}
func (ResetTable) isAction()     {}
func (ClearHistory) isAction()   {}
