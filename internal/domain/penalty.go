package domain

// CorrectiveRound builds the round that brings the penalized team's total back
// to zero and leaves the other team untouched.
func CorrectiveRound(rounds []Round, penalized TeamSlot) Round {
	totals := Totals(rounds)
	r := Round{Corrective: true}
	r.Deltas[penalized] = -totals[penalized]
	return r
}

// RoundNumbers returns the display number of each round. Corrective rounds are
// not numbered and get 0.
func RoundNumbers(rounds []Round) []int {
	numbers := make([]int, len(rounds))
	played := 0
	for i, r := range rounds {
		if r.Corrective {
			continue
		}
		played++
		numbers[i] = played
	}
	return numbers
}

// PlayedRounds counts the rounds that were actually played, excluding
// corrective rounds.
func PlayedRounds(rounds []Round) int {
	n := 0
	for _, r := range rounds {
		if !r.Corrective {
			n++
		}
	}
	return n
}
