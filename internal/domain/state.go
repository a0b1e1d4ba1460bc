package domain

import "time"

// Status represents the lifecycle stage of a scored match.
type Status string

const (
	// StatusActive indicates rounds are being scored and no decision is pending.
	StatusActive Status = "active"
	// StatusPendingPenalty indicates a team sits on the overshoot value and the
	// table must confirm the penalty.
	StatusPendingPenalty Status = "pending_penalty"
	// StatusComplete indicates a team reached the target score.
	StatusComplete Status = "complete"
)

// WinType classifies how a completed match was won.
type WinType string

const (
	WinStandard         WinType = "standard"
	WinShutout          WinType = "shutout"
	WinOvershootPenalty WinType = "overshoot_penalty"
)

// TeamSlot indexes one of the two teams at a table.
type TeamSlot int

const (
	SlotA TeamSlot = iota
	SlotB
)

// Other returns the opposing slot.
func (s TeamSlot) Other() TeamSlot {
	if s == SlotA {
		return SlotB
	}
	return SlotA
}

// Team is a pair of players scored together.
type Team struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"name"`
	Players     [2]string `json:"players"`
}

// Round holds the point delta of each team for one turn, indexed by slot.
type Round struct {
	Deltas     [2]int
	Corrective bool // injected by a confirmed overshoot penalty
}

// RoundScores is the id-keyed form of a round used outside the core.
type RoundScores map[string]int

// IsCorrective reports whether the scores carry a penalty adjustment.
// Ordinary rounds never hold a negative delta.
func (rs RoundScores) IsCorrective() bool {
	for _, v := range rs {
		if v < 0 {
			return true
		}
	}
	return false
}

// Outcome captures how a completed match ended.
type Outcome struct {
	Winner      TeamSlot
	Loser       TeamSlot
	WinnerScore int
	LoserScore  int
	WinType     WinType
	Totals      [2]int
}

// Match is the state of the match currently being scored at a table.
type Match struct {
	Teams       [2]Team
	TargetScore int
	Rounds      []Round
	Status      Status

	// PenalizedSlot is meaningful only while Status is StatusPendingPenalty.
	PenalizedSlot TeamSlot

	// Outcome is set once Status is StatusComplete.
	Outcome *Outcome
}

// MatchRecord is the archived, immutable result of one completed match.
type MatchRecord struct {
	ID          string        `json:"id"`
	Winner      Team          `json:"winner"`
	Loser       Team          `json:"loser"`
	WinnerScore int           `json:"winnerScore"`
	LoserScore  int           `json:"loserScore"`
	WinType     WinType       `json:"winType"`
	Timestamp   time.Time     `json:"date"`
	Rounds      []RoundScores `json:"rounds"`
}
