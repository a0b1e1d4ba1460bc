package app

import (
	"strconv"
	"strings"

	"dominoscore/internal/domain"
)

// leadingInt reads the optionally signed run of digits at the start of raw,
// ignoring surrounding whitespace and anything after the digits. ok is false
// when raw does not start with a number.
func leadingInt(raw string) (n int, ok bool) {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseScore reads a round score typed by a scorer: the leading integer
// counts ("12.5" is 12, "15abc" is 15). Input without a leading number, or a
// negative one, scores 0.
func ParseScore(raw string) int {
	n, ok := leadingInt(raw)
	if !ok || n < 0 {
		return 0
	}
	return n
}

// ParseTargetScore reads a requested target score; unreadable or
// non-positive input becomes the minimum target.
func ParseTargetScore(raw string) int {
	n, _ := leadingInt(raw)
	return domain.CoerceTargetScore(n)
}

// NormalizeScores returns a copy of scores with negative deltas replaced by 0.
// Only corrective rounds, which the core builds itself, may be negative.
func NormalizeScores(scores domain.RoundScores) domain.RoundScores {
	out := make(domain.RoundScores, len(scores))
	for id, v := range scores {
		if v < 0 {
			v = 0
		}
		out[id] = v
	}
	return out
}
