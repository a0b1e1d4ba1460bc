package domain

const (
	// DefaultTargetScore is the target a table starts with.
	DefaultTargetScore = 100
	// MinTargetScore is the floor applied when a non-positive target is requested.
	MinTargetScore = 1
	// OvershootValue is the total that triggers the overshoot penalty. It does
	// not follow the target score.
	OvershootValue = 106
)

// Team ids assigned at match start.
const (
	TeamAID = "team1"
	TeamBID = "team2"
)
