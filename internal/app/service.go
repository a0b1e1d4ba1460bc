package app

import (
	"errors"
	"strings"
	"time"

	"dominoscore/internal/domain"

	"github.com/google/uuid"
)

// Session is everything a score table holds: the target for the next match,
// the match being scored (nil during setup) and the archive of completed
// matches, oldest first.
type Session struct {
	TargetScore int
	Match       *domain.Match
	History     []domain.MatchRecord
}

// NewSession returns a table in setup with the given archive.
func NewSession(history []domain.MatchRecord) Session {
	return Session{
		TargetScore: domain.DefaultTargetScore,
		History:     history,
	}
}

// Service applies table verbs to sessions.
type Service struct {
	now           func() time.Time
	newID         func() string
	defaultTarget int
}

// NewService constructs a Service. now and newID may be nil to use the wall
// clock and random UUIDs.
func NewService(now func() time.Time, newID func() string) *Service {
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &Service{now: now, newID: newID, defaultTarget: domain.DefaultTargetScore}
}

// WithDefaultTarget returns a copy of s whose new sessions and resets use
// target instead of the built-in default.
func (s *Service) WithDefaultTarget(target int) *Service {
	c := *s
	c.defaultTarget = domain.CoerceTargetScore(target)
	return &c
}

// DefaultTarget is the target a fresh or reset table starts with.
func (s *Service) DefaultTarget() int {
	return s.defaultTarget
}

// NewSession returns a table in setup at the service's default target.
func (s *Service) NewSession(history []domain.MatchRecord) Session {
	session := NewSession(history)
	session.TargetScore = s.defaultTarget
	return session
}

var (
	ErrIncompleteSetup  = errors.New("all four player names are required")
	ErrNoActiveMatch    = errors.New("no match in progress")
	ErrMatchComplete    = errors.New("match already complete")
	ErrNoPendingPenalty = errors.New("no penalty pending")
	ErrUnknownAction    = errors.New("unknown action")
)

// Apply is the table's transition function. The given session is never
// modified; when err is non-nil the action was rejected and the returned
// session equals the input.
func (s *Service) Apply(session Session, action Action) (Session, []Event, error) {
	switch a := action.(type) {
	case SetTargetScore:
		return s.setTargetScore(session, a)
	case StartMatch:
		return s.startMatch(session, a)
	case AddRound:
		return s.addRound(session, a)
	case ConfirmPenalty:
		return s.confirmPenalty(session)
	case NewMatch:
		return s.newMatch(session)
	case ResetTable:
		return s.resetTable(session)
	case ClearHistory:
		return s.clearHistory(session)
	default:
		return session, nil, ErrUnknownAction
	}
}

func (s *Service) setTargetScore(session Session, a SetTargetScore) (Session, []Event, error) {
	session.TargetScore = domain.CoerceTargetScore(a.Score)
	return session, []Event{{
		Kind:    EventTargetScoreSet,
		Payload: TargetScoreSetPayload{TargetScore: session.TargetScore},
	}}, nil
}

func (s *Service) startMatch(session Session, a StartMatch) (Session, []Event, error) {
	var players [PlayersPerMatch]string
	for i, name := range a.Players {
		players[i] = strings.TrimSpace(name)
		if players[i] == "" {
			return session, nil, ErrIncompleteSetup
		}
	}

	match := domain.NewMatch(domain.NewTeams(players), session.TargetScore)
	session.Match = &match
	return session, []Event{{
		Kind:    EventMatchStarted,
		Payload: MatchStartedPayload{Teams: match.Teams, TargetScore: match.TargetScore},
	}}, nil
}

func (s *Service) addRound(session Session, a AddRound) (Session, []Event, error) {
	if session.Match == nil {
		return session, nil, ErrNoActiveMatch
	}
	prev := *session.Match
	if prev.IsComplete() {
		return session, nil, ErrMatchComplete
	}

	round := domain.RoundFromScores(prev.Teams, NormalizeScores(a.Scores))
	next := prev.ApplyRound(round)
	session.Match = &next

	events := []Event{{
		Kind: EventRoundAdded,
		Payload: RoundAddedPayload{
			Number: domain.PlayedRounds(next.Rounds),
			Scores: round.Scores(next.Teams),
			Totals: domain.TeamTotals(next.Teams, next.Rounds),
		},
	}}

	switch next.Status {
	case domain.StatusPendingPenalty:
		if prev.Status != domain.StatusPendingPenalty || prev.PenalizedSlot != next.PenalizedSlot {
			events = append(events, Event{
				Kind: EventPenaltyPending,
				Payload: PenaltyPendingPayload{
					Team:  next.Teams[next.PenalizedSlot],
					Total: next.Totals()[next.PenalizedSlot],
				},
			})
		}
	case domain.StatusComplete:
		record, _ := next.Record(s.newID(), s.now())
		// Full slice expression so the caller's archive is never appended to in place.
		session.History = append(session.History[:len(session.History):len(session.History)], record)
		events = append(events, Event{
			Kind: EventMatchCompleted,
			Payload: MatchCompletedPayload{
				Record: record,
				Totals: domain.TeamTotals(next.Teams, next.Rounds),
			},
		})
	}

	return session, events, nil
}

func (s *Service) confirmPenalty(session Session) (Session, []Event, error) {
	if session.Match == nil {
		return session, nil, ErrNoPendingPenalty
	}
	prev := *session.Match
	next, ok := prev.ConfirmPenalty()
	if !ok {
		return session, nil, ErrNoPendingPenalty
	}
	session.Match = &next

	corrective := next.Rounds[len(next.Rounds)-1]
	return session, []Event{{
		Kind: EventPenaltyApplied,
		Payload: PenaltyAppliedPayload{
			Team:       prev.Teams[prev.PenalizedSlot],
			Adjustment: corrective.Deltas[prev.PenalizedSlot],
		},
	}}, nil
}

func (s *Service) newMatch(session Session) (Session, []Event, error) {
	if session.Match == nil {
		return session, nil, ErrNoActiveMatch
	}
	match := domain.NewMatch(session.Match.Teams, session.TargetScore)
	session.Match = &match
	return session, []Event{{
		Kind:    EventMatchStarted,
		Payload: MatchStartedPayload{Teams: match.Teams, TargetScore: match.TargetScore},
	}}, nil
}

func (s *Service) resetTable(session Session) (Session, []Event, error) {
	session.Match = nil
	session.TargetScore = s.defaultTarget
	return session, []Event{{Kind: EventTableReset}}, nil
}

func (s *Service) clearHistory(session Session) (Session, []Event, error) {
	removed := len(session.History)
	session.History = nil
	return session, []Event{{
		Kind:    EventHistoryCleared,
		Payload: HistoryClearedPayload{Removed: removed},
	}}, nil
}
