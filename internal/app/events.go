package app

import "dominoscore/internal/domain"

// EventKind identifies emitted session events for dispatch by a surface.
type EventKind string

const (
	EventTargetScoreSet EventKind = "target_score_set"
	EventMatchStarted   EventKind = "match_started"
	EventRoundAdded     EventKind = "round_added"
	EventPenaltyPending EventKind = "penalty_pending"
	EventPenaltyApplied EventKind = "penalty_applied"
	EventMatchCompleted EventKind = "match_completed"
	EventTableReset     EventKind = "table_reset"
	EventHistoryCleared EventKind = "history_cleared"
)

// Event is a session event. Surfaces broadcast it and perform any side effect
// it implies (persisting the archive) after the transition is committed.
type Event struct {
	Kind    EventKind
	Payload any
}

type TargetScoreSetPayload struct {
	TargetScore int
}

type MatchStartedPayload struct {
	Teams       [2]domain.Team
	TargetScore int
}

type RoundAddedPayload struct {
	Number int // 1-based, corrective rounds excluded
	Scores domain.RoundScores
	Totals map[string]int
}

type PenaltyPendingPayload struct {
	Team  domain.Team
	Total int
}

type PenaltyAppliedPayload struct {
	Team       domain.Team
	Adjustment int
}

type MatchCompletedPayload struct {
	Record domain.MatchRecord
	Totals map[string]int
}

type HistoryClearedPayload struct {
	Removed int
}
