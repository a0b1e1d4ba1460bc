package domain

import (
	"testing"
	"time"
)

func testTeams() [2]Team {
	return NewTeams([4]string{"Ali", "Badr", "Chadi", "Dani"})
}

func playRounds(m Match, rounds ...[2]int) Match {
	for _, d := range rounds {
		m = m.ApplyRound(Round{Deltas: d})
	}
	return m
}

func TestMatchScenarios(t *testing.T) {
	tests := []struct {
		name        string
		rounds      [][2]int
		status      Status
		totals      [2]int
		winner      TeamSlot
		winType     WinType
		penalized   TeamSlot
		winnerScore int
		loserScore  int
	}{
		{
			name:        "Standard win",
			rounds:      [][2]int{{60, 20}, {50, 10}},
			status:      StatusComplete,
			totals:      [2]int{110, 30},
			winner:      SlotA,
			winType:     WinStandard,
			winnerScore: 110,
			loserScore:  30,
		},
		{
			name:      "Overshoot pending",
			rounds:    [][2]int{{0, 106}},
			status:    StatusPendingPenalty,
			totals:    [2]int{0, 106},
			penalized: SlotB,
		},
		{
			name:        "Shutout",
			rounds:      [][2]int{{100, 0}},
			status:      StatusComplete,
			totals:      [2]int{100, 0},
			winner:      SlotA,
			winType:     WinShutout,
			winnerScore: 100,
			loserScore:  0,
		},
		{
			name:        "Overshoot on the winning round",
			rounds:      [][2]int{{0, 90}, {100, 16}},
			status:      StatusComplete,
			totals:      [2]int{100, 106},
			winner:      SlotA,
			winType:     WinOvershootPenalty,
			winnerScore: 100,
			loserScore:  106,
		},
		{
			name:   "Still active",
			rounds: [][2]int{{30, 40}, {25, 5}},
			status: StatusActive,
			totals: [2]int{55, 45},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := playRounds(NewMatch(testTeams(), 100), tt.rounds...)
			if m.Status != tt.status {
				t.Fatalf("status = %s, want %s", m.Status, tt.status)
			}
			if got := m.Totals(); got != tt.totals {
				t.Fatalf("totals = %v, want %v", got, tt.totals)
			}
			switch tt.status {
			case StatusPendingPenalty:
				if m.PenalizedSlot != tt.penalized {
					t.Fatalf("penalized = %v, want %v", m.PenalizedSlot, tt.penalized)
				}
			case StatusComplete:
				if m.Outcome == nil {
					t.Fatalf("expected outcome for completed match")
				}
				if m.Outcome.Winner != tt.winner || m.Outcome.WinType != tt.winType {
					t.Fatalf("outcome = %+v, want winner %v type %s", *m.Outcome, tt.winner, tt.winType)
				}
				if m.Outcome.WinnerScore != tt.winnerScore || m.Outcome.LoserScore != tt.loserScore {
					t.Fatalf("score = %d-%d, want %d-%d", m.Outcome.WinnerScore, m.Outcome.LoserScore, tt.winnerScore, tt.loserScore)
				}
			default:
				if m.Outcome != nil {
					t.Fatalf("unexpected outcome %+v", *m.Outcome)
				}
			}
		})
	}
}

func TestConfirmPenalty(t *testing.T) {
	m := playRounds(NewMatch(testTeams(), 150), [2]int{30, 50}, [2]int{10, 56})
	if m.Status != StatusPendingPenalty || m.PenalizedSlot != SlotB {
		t.Fatalf("expected pending penalty on B, got %s/%v", m.Status, m.PenalizedSlot)
	}

	next, ok := m.ConfirmPenalty()
	if !ok {
		t.Fatalf("ConfirmPenalty returned ok=false")
	}
	if next.Status != StatusActive {
		t.Fatalf("status = %s, want active", next.Status)
	}
	if got := next.Totals(); got != [2]int{40, 0} {
		t.Fatalf("totals = %v, want [40 0]", got)
	}
	last := next.Rounds[len(next.Rounds)-1]
	if !last.Corrective || last.Deltas != [2]int{0, -106} {
		t.Fatalf("corrective round = %+v", last)
	}
	if PlayedRounds(next.Rounds) != 2 {
		t.Fatalf("played rounds = %d, want 2", PlayedRounds(next.Rounds))
	}
	if len(m.Rounds) != 2 {
		t.Fatalf("ConfirmPenalty mutated the receiver")
	}
}

func TestConfirmPenaltyWithoutPending(t *testing.T) {
	m := playRounds(NewMatch(testTeams(), 100), [2]int{10, 10})
	next, ok := m.ConfirmPenalty()
	if ok {
		t.Fatalf("expected ok=false without a pending penalty")
	}
	if len(next.Rounds) != 1 {
		t.Fatalf("rounds = %d, want 1", len(next.Rounds))
	}
}

func TestPendingPenaltySurvivesFurtherRounds(t *testing.T) {
	m := playRounds(NewMatch(testTeams(), 200), [2]int{0, 106}, [2]int{20, 4})
	if m.Status != StatusPendingPenalty || m.PenalizedSlot != SlotB {
		t.Fatalf("expected penalty on B to stay pending, got %s/%v", m.Status, m.PenalizedSlot)
	}

	// The confirmation zeroes whatever the penalized team holds now.
	next, _ := m.ConfirmPenalty()
	if got := next.Totals(); got != [2]int{20, 0} {
		t.Fatalf("totals = %v, want [20 0]", got)
	}
}

func TestPendingPenaltyClearedByWin(t *testing.T) {
	m := playRounds(NewMatch(testTeams(), 200), [2]int{0, 106}, [2]int{200, 0})
	if m.Status != StatusComplete {
		t.Fatalf("status = %s, want complete", m.Status)
	}
	if m.Outcome.WinType != WinOvershootPenalty {
		t.Fatalf("win type = %s, want overshoot penalty", m.Outcome.WinType)
	}
	if _, ok := m.ConfirmPenalty(); ok {
		t.Fatalf("completed match should not accept a penalty confirmation")
	}
}

func TestApplyRoundIgnoredAfterCompletion(t *testing.T) {
	m := playRounds(NewMatch(testTeams(), 100), [2]int{100, 20})
	after := m.ApplyRound(Round{Deltas: [2]int{5, 5}})
	if len(after.Rounds) != 1 || after.Totals() != [2]int{100, 20} {
		t.Fatalf("completed match accepted a round: %+v", after.Rounds)
	}
}

func TestApplyRoundDoesNotShareHistory(t *testing.T) {
	base := playRounds(NewMatch(testTeams(), 300), [2]int{1, 2})
	a := base.ApplyRound(Round{Deltas: [2]int{3, 4}})
	b := base.ApplyRound(Round{Deltas: [2]int{5, 6}})
	if a.Rounds[1].Deltas == b.Rounds[1].Deltas {
		t.Fatalf("branches share round storage")
	}
	if len(base.Rounds) != 1 {
		t.Fatalf("base match was mutated")
	}
}

func TestNewMatchCoercesTarget(t *testing.T) {
	if got := NewMatch(testTeams(), 0).TargetScore; got != MinTargetScore {
		t.Fatalf("target = %d, want %d", got, MinTargetScore)
	}
	if got := NewMatch(testTeams(), -40).TargetScore; got != MinTargetScore {
		t.Fatalf("target = %d, want %d", got, MinTargetScore)
	}
}

func TestRecord(t *testing.T) {
	at := time.Date(2025, 3, 1, 20, 30, 0, 0, time.FixedZone("X", 3600))
	m := playRounds(NewMatch(testTeams(), 100), [2]int{0, 90}, [2]int{100, 16})

	rec, ok := m.Record("rec-1", at)
	if !ok {
		t.Fatalf("Record returned ok=false for a completed match")
	}
	if rec.Winner.ID != TeamAID || rec.Loser.ID != TeamBID {
		t.Fatalf("winner/loser = %s/%s", rec.Winner.ID, rec.Loser.ID)
	}
	if rec.WinnerScore != 100 || rec.LoserScore != 106 || rec.WinType != WinOvershootPenalty {
		t.Fatalf("unexpected record %+v", rec)
	}
	if !rec.Timestamp.Equal(at) || rec.Timestamp.Location() != time.UTC {
		t.Fatalf("timestamp = %v", rec.Timestamp)
	}
	if len(rec.Rounds) != 2 || rec.Rounds[1][TeamBID] != 16 {
		t.Fatalf("rounds = %+v", rec.Rounds)
	}

	if _, ok := NewMatch(testTeams(), 100).Record("x", at); ok {
		t.Fatalf("Record should refuse an undecided match")
	}
}
