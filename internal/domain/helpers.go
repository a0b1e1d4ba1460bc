package domain

import (
	"sort"
	"strings"
)

// Totals returns each team's running total: the sum of its deltas across all
// rounds, corrective rounds included.
func Totals(rounds []Round) [2]int {
	var totals [2]int
	for _, r := range rounds {
		totals[SlotA] += r.Deltas[SlotA]
		totals[SlotB] += r.Deltas[SlotB]
	}
	return totals
}

// CumulativeTotals returns the totals after each round, in round order.
func CumulativeTotals(rounds []Round) [][2]int {
	out := make([][2]int, len(rounds))
	var running [2]int
	for i, r := range rounds {
		running[SlotA] += r.Deltas[SlotA]
		running[SlotB] += r.Deltas[SlotB]
		out[i] = running
	}
	return out
}

// TeamTotals returns the totals keyed by team id.
func TeamTotals(teams [2]Team, rounds []Round) map[string]int {
	totals := Totals(rounds)
	return map[string]int{
		teams[SlotA].ID: totals[SlotA],
		teams[SlotB].ID: totals[SlotB],
	}
}

// SlotOf returns the slot holding the team with the given id.
func SlotOf(teams [2]Team, teamID string) (TeamSlot, bool) {
	switch teamID {
	case teams[SlotA].ID:
		return SlotA, true
	case teams[SlotB].ID:
		return SlotB, true
	}
	return SlotA, false
}

// RoundFromScores maps id-keyed scores onto slots. Missing teams score 0 and
// unknown ids are ignored.
func RoundFromScores(teams [2]Team, scores RoundScores) Round {
	var r Round
	for slot := SlotA; slot <= SlotB; slot++ {
		r.Deltas[slot] = scores[teams[slot].ID]
	}
	return r
}

// Scores converts a round into its id-keyed form.
func (r Round) Scores(teams [2]Team) RoundScores {
	return RoundScores{
		teams[SlotA].ID: r.Deltas[SlotA],
		teams[SlotB].ID: r.Deltas[SlotB],
	}
}

// NewTeams builds the two teams of a table from four player names in seat
// order: the first two play together against the last two.
func NewTeams(players [4]string) [2]Team {
	return [2]Team{
		{ID: TeamAID, DisplayName: players[0] + " & " + players[1], Players: [2]string{players[0], players[1]}},
		{ID: TeamBID, DisplayName: players[2] + " & " + players[3], Players: [2]string{players[2], players[3]}},
	}
}

// TeamKey identifies a pairing of players independent of seat order or team
// id, so the same two players count as one team across matches.
func TeamKey(players [2]string) string {
	names := []string{players[0], players[1]}
	sort.Strings(names)
	return strings.Join(names, " & ")
}

// CoerceTargetScore clamps a requested target to the minimum.
func CoerceTargetScore(target int) int {
	if target < MinTargetScore {
		return MinTargetScore
	}
	return target
}
