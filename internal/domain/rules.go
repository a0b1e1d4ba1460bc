package domain

// Decision is the classification of a match after a round is appended.
type Decision int

const (
	// NoDecision means the match continues.
	NoDecision Decision = iota
	// PenaltyDecision means exactly one team sits on the overshoot value.
	PenaltyDecision
	// CompleteDecision means at least one team reached the target.
	CompleteDecision
)

// Evaluation is the result of classifying a pair of totals.
type Evaluation struct {
	Decision  Decision
	Penalized TeamSlot // set for PenaltyDecision
	Outcome   Outcome  // set for CompleteDecision
}

// Evaluate classifies the totals of a match against its target.
//
// A total equal to the overshoot value never reaches the target, even when
// the target is lower. Reaching the target always wins over the overshoot
// check, so a team landing on the overshoot value in the same round the other
// team wins is classified as an overshoot loss rather than a pending penalty.
// When both teams reach the target with equal totals the team in slot A wins.
func Evaluate(totals [2]int, target int) Evaluation {
	exceedA := ReachesTarget(totals[SlotA], target)
	exceedB := ReachesTarget(totals[SlotB], target)

	if !exceedA && !exceedB {
		onA := totals[SlotA] == OvershootValue
		onB := totals[SlotB] == OvershootValue
		switch {
		case onA && !onB:
			return Evaluation{Decision: PenaltyDecision, Penalized: SlotA}
		case onB && !onA:
			return Evaluation{Decision: PenaltyDecision, Penalized: SlotB}
		}
		return Evaluation{Decision: NoDecision}
	}

	winner := SlotA
	if exceedB && (!exceedA || totals[SlotB] > totals[SlotA]) {
		winner = SlotB
	}
	loser := winner.Other()

	return Evaluation{
		Decision: CompleteDecision,
		Outcome: Outcome{
			Winner:      winner,
			Loser:       loser,
			WinnerScore: totals[winner],
			LoserScore:  totals[loser],
			WinType:     ClassifyWinType(totals[loser]),
			Totals:      totals,
		},
	}
}

// ReachesTarget reports whether a total ends the match.
func ReachesTarget(total, target int) bool {
	return total >= target && total != OvershootValue
}

// ClassifyWinType derives the win type from the loser's final total.
// The overshoot penalty takes precedence over a shutout.
func ClassifyWinType(loserTotal int) WinType {
	switch {
	case loserTotal == OvershootValue:
		return WinOvershootPenalty
	case loserTotal == 0:
		return WinShutout
	default:
		return WinStandard
	}
}
