package app

import (
	"time"

	"dominoscore/internal/domain"
)

// RoundView is one row of the score sheet.
type RoundView struct {
	Number     int                `json:"number"` // 0 for corrective rounds
	Corrective bool               `json:"corrective"`
	Scores     domain.RoundScores `json:"scores"`
	Cumulative domain.RoundScores `json:"cumulative"`
}

// OutcomeView describes a decided match.
type OutcomeView struct {
	Winner      domain.Team    `json:"winner"`
	Loser       domain.Team    `json:"loser"`
	WinnerScore int            `json:"winnerScore"`
	LoserScore  int            `json:"loserScore"`
	WinType     domain.WinType `json:"winType"`
	Totals      map[string]int `json:"totals"`
}

// MatchView is the read-only picture of the match being scored.
type MatchView struct {
	Teams          [2]domain.Team `json:"teams"`
	TargetScore    int            `json:"targetScore"`
	Status         domain.Status  `json:"status"`
	Rounds         []RoundView    `json:"rounds"`
	Totals         map[string]int `json:"totals"`
	PlayedRounds   int            `json:"playedRounds"`
	PendingPenalty *domain.Team   `json:"pendingPenalty,omitempty"`
	Outcome        *OutcomeView   `json:"outcome,omitempty"`
}

// BuildMatchView renders a match for display.
func BuildMatchView(m domain.Match) MatchView {
	numbers := domain.RoundNumbers(m.Rounds)
	cumulative := domain.CumulativeTotals(m.Rounds)

	rounds := make([]RoundView, len(m.Rounds))
	for i, r := range m.Rounds {
		rounds[i] = RoundView{
			Number:     numbers[i],
			Corrective: r.Corrective,
			Scores:     r.Scores(m.Teams),
			Cumulative: domain.Round{Deltas: cumulative[i]}.Scores(m.Teams),
		}
	}

	view := MatchView{
		Teams:        m.Teams,
		TargetScore:  m.TargetScore,
		Status:       m.Status,
		Rounds:       rounds,
		Totals:       domain.TeamTotals(m.Teams, m.Rounds),
		PlayedRounds: domain.PlayedRounds(m.Rounds),
	}
	if m.Status == domain.StatusPendingPenalty {
		team := m.Teams[m.PenalizedSlot]
		view.PendingPenalty = &team
	}
	if m.Outcome != nil {
		view.Outcome = &OutcomeView{
			Winner:      m.Teams[m.Outcome.Winner],
			Loser:       m.Teams[m.Outcome.Loser],
			WinnerScore: m.Outcome.WinnerScore,
			LoserScore:  m.Outcome.LoserScore,
			WinType:     m.Outcome.WinType,
			Totals:      view.Totals,
		}
	}
	return view
}

// StatLine is one row of a statistics table.
type StatLine struct {
	Name          string `json:"name"`
	GamesPlayed   int    `json:"gamesPlayed"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	ShutoutLosses int    `json:"shutoutLosses"`
	WinPercent    int    `json:"winPercent"`
}

// MatchSummary is one entry of the game log.
type MatchSummary struct {
	ID          string         `json:"id"`
	PlayedAt    time.Time      `json:"playedAt"`
	Winner      string         `json:"winner"`
	Loser       string         `json:"loser"`
	WinnerScore int            `json:"winnerScore"`
	LoserScore  int            `json:"loserScore"`
	WinType     domain.WinType `json:"winType"`
}

// StatsView is the statistics screen, rows ranked by wins. Recent lists every
// archived match, newest first.
type StatsView struct {
	TotalGames         int            `json:"totalGames"`
	ShutoutWins        int            `json:"shutoutWins"`
	OvershootPenalties int            `json:"overshootPenalties"`
	Players            []StatLine     `json:"players"`
	Teams              []StatLine     `json:"teams"`
	Recent             []MatchSummary `json:"recent"`
}

// BuildStatsView aggregates the archive for display.
func BuildStatsView(records []domain.MatchRecord) StatsView {
	stats := domain.Aggregate(records)
	return StatsView{
		TotalGames:         stats.TotalGames,
		ShutoutWins:        stats.ShutoutWins,
		OvershootPenalties: stats.OvershootPenalties,
		Players:            statLines(stats.RankedPlayers()),
		Teams:              statLines(stats.RankedTeams()),
		Recent:             matchLog(records),
	}
}

// matchLog summarises the archive, which is kept oldest first, in reverse.
func matchLog(records []domain.MatchRecord) []MatchSummary {
	log := make([]MatchSummary, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		log = append(log, MatchSummary{
			ID:          r.ID,
			PlayedAt:    r.Timestamp,
			Winner:      r.Winner.DisplayName,
			Loser:       r.Loser.DisplayName,
			WinnerScore: r.WinnerScore,
			LoserScore:  r.LoserScore,
			WinType:     r.WinType,
		})
	}
	return log
}

func statLines(ranked []domain.NamedStat) []StatLine {
	lines := make([]StatLine, len(ranked))
	for i, r := range ranked {
		lines[i] = StatLine{
			Name:          r.Name,
			GamesPlayed:   r.GamesPlayed,
			Wins:          r.Wins,
			Losses:        r.Losses,
			ShutoutLosses: r.ShutoutLosses,
			WinPercent:    r.WinPercent(),
		}
	}
	return lines
}
