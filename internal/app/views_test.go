package app

import (
	"testing"

	"dominoscore/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestBuildMatchViewWithPenalty(t *testing.T) {
	svc := newTestService()
	s := startedSession(t, svc, 200)
	s, _ = mustApply(t, svc, s, round(20, 106))

	view := BuildMatchView(*s.Match)
	assert.Equal(t, domain.StatusPendingPenalty, view.Status)
	if assert.NotNil(t, view.PendingPenalty) {
		assert.Equal(t, domain.TeamBID, view.PendingPenalty.ID)
	}

	s, _ = mustApply(t, svc, s, ConfirmPenalty{})
	s, _ = mustApply(t, svc, s, round(5, 7))
	view = BuildMatchView(*s.Match)

	assert.Nil(t, view.PendingPenalty)
	assert.Nil(t, view.Outcome)
	assert.Equal(t, 2, view.PlayedRounds)
	assert.Len(t, view.Rounds, 3)
	assert.Equal(t, []int{1, 0, 2}, []int{view.Rounds[0].Number, view.Rounds[1].Number, view.Rounds[2].Number})
	assert.True(t, view.Rounds[1].Corrective)
	assert.Equal(t, domain.RoundScores{domain.TeamAID: 20, domain.TeamBID: 0}, view.Rounds[1].Cumulative)
	assert.Equal(t, map[string]int{domain.TeamAID: 25, domain.TeamBID: 7}, view.Totals)
}

func TestBuildMatchViewCompleted(t *testing.T) {
	svc := newTestService()
	s := startedSession(t, svc, 100)
	s, _ = mustApply(t, svc, s, round(100, 0))

	view := BuildMatchView(*s.Match)
	if assert.NotNil(t, view.Outcome) {
		assert.Equal(t, "Ali & Badr", view.Outcome.Winner.DisplayName)
		assert.Equal(t, domain.WinShutout, view.Outcome.WinType)
		assert.Equal(t, 100, view.Outcome.WinnerScore)
	}
}

func TestBuildStatsView(t *testing.T) {
	svc := newTestService()
	s := startedSession(t, svc, 100)
	s, _ = mustApply(t, svc, s, round(100, 0))
	s, _ = mustApply(t, svc, s, NewMatch{})
	s, _ = mustApply(t, svc, s, round(30, 110))

	view := BuildStatsView(s.History)
	assert.Equal(t, 2, view.TotalGames)
	assert.Equal(t, 1, view.ShutoutWins)
	assert.Len(t, view.Players, 4)
	assert.Len(t, view.Teams, 2)
	for _, line := range view.Players {
		assert.Equal(t, 50, line.WinPercent, line.Name)
	}
	assert.Equal(t, 1, view.Teams[0].Wins)

	empty := BuildStatsView(nil)
	assert.Equal(t, 0, empty.TotalGames)
	assert.Empty(t, empty.Players)
	assert.Empty(t, empty.Recent)
}

func TestBuildStatsViewRecentNewestFirst(t *testing.T) {
	svc := newTestService()
	s := startedSession(t, svc, 100)
	s, _ = mustApply(t, svc, s, round(100, 0))
	s, _ = mustApply(t, svc, s, NewMatch{})
	s, _ = mustApply(t, svc, s, round(30, 110))
	s, _ = mustApply(t, svc, s, NewMatch{})
	s, _ = mustApply(t, svc, s, round(0, 106))
	s, _ = mustApply(t, svc, s, round(101, 0))

	recent := BuildStatsView(s.History).Recent
	if !assert.Len(t, recent, 3) {
		return
	}
	ids := []string{recent[0].ID, recent[1].ID, recent[2].ID}
	assert.Equal(t, []string{"rec-3", "rec-2", "rec-1"}, ids)

	assert.Equal(t, MatchSummary{
		ID:          "rec-3",
		PlayedAt:    fixedNow,
		Winner:      "Ali & Badr",
		Loser:       "Chadi & Dani",
		WinnerScore: 101,
		LoserScore:  106,
		WinType:     domain.WinOvershootPenalty,
	}, recent[0])
	assert.Equal(t, "Chadi & Dani", recent[1].Winner)
	assert.Equal(t, domain.WinShutout, recent[2].WinType)

	// The archive itself keeps its order.
	assert.Equal(t, "rec-1", s.History[0].ID)
}
