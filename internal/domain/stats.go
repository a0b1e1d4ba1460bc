package domain

import "sort"

// Stat is a win/loss tally derived from the archive.
type Stat struct {
	GamesPlayed   int `json:"gamesPlayed"`
	Wins          int `json:"wins"`
	Losses        int `json:"losses"`
	ShutoutLosses int `json:"shutoutLosses"`
}

// PlayerStat tallies one player across every team they played in.
type PlayerStat = Stat

// TeamStat tallies one pairing of players.
type TeamStat = Stat

// WinRate returns wins over games played, or 0 when nothing was played.
func (s Stat) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed)
}

// WinPercent returns the win rate as a whole percentage, rounded half up.
func (s Stat) WinPercent() int {
	if s.GamesPlayed == 0 {
		return 0
	}
	return (s.Wins*200 + s.GamesPlayed) / (s.GamesPlayed * 2)
}

// HistoryStats is the aggregate view over the full archive.
type HistoryStats struct {
	TotalGames         int                   `json:"totalGames"`
	ShutoutWins        int                   `json:"shutoutWins"`
	OvershootPenalties int                   `json:"overshootPenalties"`
	Players            map[string]PlayerStat `json:"players"`
	Teams              map[string]TeamStat   `json:"teams"`
}

// NamedStat pairs a player name or team key with its tally.
type NamedStat struct {
	Name string `json:"name"`
	Stat
}

// Aggregate folds the archive into player and team statistics. It keeps no
// state between calls.
func Aggregate(records []MatchRecord) HistoryStats {
	stats := HistoryStats{
		TotalGames: len(records),
		Players:    make(map[string]PlayerStat),
		Teams:      make(map[string]TeamStat),
	}

	for _, rec := range records {
		shutout := rec.WinType == WinShutout
		switch rec.WinType {
		case WinShutout:
			stats.ShutoutWins++
		case WinOvershootPenalty:
			stats.OvershootPenalties++
		}

		for _, name := range rec.Winner.Players {
			s := stats.Players[name]
			s.GamesPlayed++
			s.Wins++
			stats.Players[name] = s
		}
		for _, name := range rec.Loser.Players {
			s := stats.Players[name]
			s.GamesPlayed++
			s.Losses++
			if shutout {
				s.ShutoutLosses++
			}
			stats.Players[name] = s
		}

		winKey := TeamKey(rec.Winner.Players)
		w := stats.Teams[winKey]
		w.GamesPlayed++
		w.Wins++
		stats.Teams[winKey] = w

		loseKey := TeamKey(rec.Loser.Players)
		l := stats.Teams[loseKey]
		l.GamesPlayed++
		l.Losses++
		if shutout {
			l.ShutoutLosses++
		}
		stats.Teams[loseKey] = l
	}

	return stats
}

// RankedPlayers lists players by wins, most first, then by name.
func (h HistoryStats) RankedPlayers() []NamedStat {
	return rank(h.Players)
}

// RankedTeams lists team pairings by wins, most first, then by key.
func (h HistoryStats) RankedTeams() []NamedStat {
	return rank(h.Teams)
}

func rank(m map[string]Stat) []NamedStat {
	out := make([]NamedStat, 0, len(m))
	for name, s := range m {
		out = append(out, NamedStat{Name: name, Stat: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].Name < out[j].Name
	})
	return out
}
