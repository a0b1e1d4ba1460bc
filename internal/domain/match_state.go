package domain

import "time"

// NewMatch starts an active match with no rounds.
func NewMatch(teams [2]Team, targetScore int) Match {
	return Match{
		Teams:       teams,
		TargetScore: CoerceTargetScore(targetScore),
		Status:      StatusActive,
	}
}

// Totals returns the current totals of the match.
func (m Match) Totals() [2]int {
	return Totals(m.Rounds)
}

// IsComplete reports whether the match has been decided.
func (m Match) IsComplete() bool {
	return m.Status == StatusComplete
}

// ApplyRound appends a round and re-evaluates the match. The receiver is not
// modified; the round history of the returned match is a fresh slice.
// A completed match is returned unchanged.
func (m Match) ApplyRound(r Round) Match {
	if m.IsComplete() {
		return m
	}
	next := m.withRound(r)
	eval := Evaluate(next.Totals(), next.TargetScore)

	switch eval.Decision {
	case CompleteDecision:
		outcome := eval.Outcome
		next.Status = StatusComplete
		next.PenalizedSlot = SlotA
		next.Outcome = &outcome
	case PenaltyDecision:
		next.Status = StatusPendingPenalty
		next.PenalizedSlot = eval.Penalized
	}
	// NoDecision keeps the previous status: a penalty that is still owed stays
	// pending until it is confirmed.
	return next
}

// ConfirmPenalty appends the corrective round for the pending penalty and
// returns the match to active play. ok is false when no penalty is pending.
func (m Match) ConfirmPenalty() (next Match, ok bool) {
	if m.Status != StatusPendingPenalty {
		return m, false
	}
	next = m.withRound(CorrectiveRound(m.Rounds, m.PenalizedSlot))
	next.Status = StatusActive
	next.PenalizedSlot = SlotA
	return next, true
}

// Record snapshots a completed match for the archive. ok is false while the
// match is still undecided.
func (m Match) Record(id string, at time.Time) (MatchRecord, bool) {
	if m.Status != StatusComplete || m.Outcome == nil {
		return MatchRecord{}, false
	}
	rounds := make([]RoundScores, len(m.Rounds))
	for i, r := range m.Rounds {
		rounds[i] = r.Scores(m.Teams)
	}
	return MatchRecord{
		ID:          id,
		Winner:      m.Teams[m.Outcome.Winner],
		Loser:       m.Teams[m.Outcome.Loser],
		WinnerScore: m.Outcome.WinnerScore,
		LoserScore:  m.Outcome.LoserScore,
		WinType:     m.Outcome.WinType,
		Timestamp:   at.UTC(),
		Rounds:      rounds,
	}, true
}

func (m Match) withRound(r Round) Match {
	rounds := make([]Round, len(m.Rounds), len(m.Rounds)+1)
	copy(rounds, m.Rounds)
	m.Rounds = append(rounds, r)
	return m
}
