package nakama

import (
	"context"
	"database/sql"
	"errors"

	"dominoscore/internal/app"
	"dominoscore/internal/config"
	"dominoscore/internal/domain"
	"dominoscore/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	MatchLabelKey_Owner = "owner" // Key for the owner's user id in the match label
	labelStateSetup     = "setup"
	signalCleared       = "cleared"
)

// TableState holds the authoritative runtime state of one score table.
type TableState struct {
	MatchID   string                      `json:"match_id"`
	OwnerID   string                      `json:"owner_id"` // Scorekeeper; the only user allowed to send verbs
	Tick      int64                       `json:"tick"`
	IdleTicks int                         `json:"idle_ticks"` // Consecutive ticks with nobody connected
	Presences map[string]runtime.Presence `json:"-"`          // Map UserId -> Presence for targeted messaging
	Session   app.Session                 `json:"-"`
	App       *app.Service                `json:"-"`
	Store     ports.HistoryStore          `json:"-"`
	History   *app.HistoryGateway         `json:"-"` // Bound once the owner is known
}

// TableSnapshot is the full table picture sent to clients.
type TableSnapshot struct {
	OwnerID      string         `json:"ownerId"`
	TargetScore  int            `json:"targetScore"`
	Match        *app.MatchView `json:"match,omitempty"`
	HistoryCount int            `json:"historyCount"`
	Tick         int64          `json:"tick"`
}

type errorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// tableParams are the MatchCreate params understood by the table.
type tableParams struct {
	OwnerID     string `mapstructure:"owner_id"`
	TargetScore int    `mapstructure:"target_score"`
}

type matchHandler struct{}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

// MatchInit is called when the table is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing score table.")

	var p tableParams
	if err := mapstructure.WeakDecode(params, &p); err != nil {
		logger.Warn("MatchInit: Ignoring malformed params: %v", err)
	}

	// A target given at creation is where this table starts and resets.
	target := config.DefaultTargetScore()
	if p.TargetScore > 0 {
		target = p.TargetScore
	}
	svc := app.NewService(nil, nil).WithDefaultTarget(target)

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	state := &TableState{
		MatchID:   matchID,
		Presences: make(map[string]runtime.Presence),
		Session:   svc.NewSession(nil),
		App:       svc,
		Store:     NewNakamaHistoryAdapter(nk),
	}
	if p.OwnerID != "" {
		mh.bindOwner(ctx, state, logger, p.OwnerID)
	}

	label, err := tableLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	return state, config.TickRate(), label
}

// bindOwner makes userID the scorekeeper and loads their archive.
func (mh *matchHandler) bindOwner(ctx context.Context, state *TableState, logger runtime.Logger, userID string) {
	state.OwnerID = userID
	state.History = app.NewHistoryGateway(state.Store, userID, logger)
	state.Session.History = state.History.Load(ctx)
	logger.Debug("Table: Owner set to %s with %d archived matches.", userID, len(state.Session.History))
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	tableState, ok := state.(*TableState)
	if !ok {
		return state, false, "state not found"
	}

	userID := presence.GetUserId()
	if tableState.OwnerID == "" || tableState.OwnerID == userID {
		return state, true, ""
	}

	owner, err := inviteService.Verify(metadata[InviteMetadataKey], tableState.MatchID)
	if err != nil {
		logger.Info("MatchJoinAttempt: Rejected %s: %v", userID, err)
		return state, false, "invite required"
	}
	if owner != tableState.OwnerID {
		logger.Info("MatchJoinAttempt: Rejected %s: invite from %s, owner is %s", userID, owner, tableState.OwnerID)
		return state, false, "invite required"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	tableState, ok := state.(*TableState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		tableState.Presences[p.GetUserId()] = p
		if tableState.OwnerID == "" {
			mh.bindOwner(ctx, tableState, logger, p.GetUserId())
		}
	}
	tableState.IdleTicks = 0

	mh.updateLabel(tableState, dispatcher, logger)
	mh.broadcastSnapshot(tableState, dispatcher, logger, nil)
	mh.broadcastStats(tableState, dispatcher, logger, presences)

	return tableState
}

func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	tableState, ok := state.(*TableState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(tableState.Presences, p.GetUserId())
		logger.Debug("MatchLeave: User %s left.", p.GetUserId())
	}

	_, ownerPresent := tableState.Presences[tableState.OwnerID]
	if !ownerPresent && len(tableState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating table %s, everyone left.", tableState.MatchID)
		return nil
	}

	mh.updateLabel(tableState, dispatcher, logger)
	return tableState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	tableState, ok := state.(*TableState)
	if !ok {
		return state
	}

	tableState.Tick = tick

	for _, msg := range messages {
		mh.handleMessage(ctx, tableState, dispatcher, logger, msg)
	}

	if len(tableState.Presences) == 0 {
		tableState.IdleTicks++
		if limit := config.IdleTicksBeforeClose(); limit > 0 && tableState.IdleTicks >= limit {
			logger.Info("MatchLoop: Closing idle table %s after %d ticks.", tableState.MatchID, tableState.IdleTicks)
			return nil
		}
	} else {
		tableState.IdleTicks = 0
	}

	return tableState
}

func (mh *matchHandler) handleMessage(ctx context.Context, state *TableState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if senderID != state.OwnerID {
		logger.Warn("Table: User %s sent opcode %d but is not the owner (%s)", senderID, msg.GetOpCode(), state.OwnerID)
		mh.sendError(state, dispatcher, logger, senderID, errCodeForbidden, "only the scorekeeper can change the table")
		return
	}

	action, err := decodeAction(msg.GetOpCode(), msg.GetData())
	if err != nil {
		logger.Warn("Table: Invalid message from %s (opcode %d): %v", senderID, msg.GetOpCode(), err)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, err.Error())
		return
	}

	if err := mh.apply(ctx, state, dispatcher, logger, action); err != nil {
		logger.Warn("Table: Rejected %T from %s: %v", action, senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
	}
}

// apply runs action through the reducer, then persists and broadcasts the
// committed result. A rejected action leaves the table untouched.
func (mh *matchHandler) apply(ctx context.Context, state *TableState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, action app.Action) error {
	next, events, err := state.App.Apply(state.Session, action)
	if err != nil {
		return err
	}

	// Persist only what has been committed.
	state.Session = next
	state.History.Persist(ctx, state.Session, events)

	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastSnapshot(state, dispatcher, logger, nil)
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
	return nil
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, app.ErrIncompleteSetup), errors.Is(err, app.ErrUnknownAction):
		return errCodeBadRequest
	default:
		return errCodeConflict
	}
}

// broadcastEvent forwards the events clients render specially; every change
// is also reflected in the snapshot.
func (mh *matchHandler) broadcastEvent(state *TableState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	var payload any

	switch ev.Kind {
	case app.EventPenaltyPending:
		p := ev.Payload.(app.PenaltyPendingPayload)
		logger.Debug("Event: penalty_pending (team=%s, total=%d)", p.Team.ID, p.Total)
		opCode = OpPenaltyPending
		payload = struct {
			Team  domain.Team `json:"team"`
			Total int         `json:"total"`
		}{p.Team, p.Total}
	case app.EventMatchCompleted:
		p := ev.Payload.(app.MatchCompletedPayload)
		logger.Info("Event: match_completed (winner=%s, %d-%d, %s)", p.Record.Winner.DisplayName, p.Record.WinnerScore, p.Record.LoserScore, p.Record.WinType)
		opCode = OpMatchCompleted
		payload = struct {
			Record domain.MatchRecord `json:"record"`
			Totals map[string]int     `json:"totals"`
		}{p.Record, p.Totals}
		defer mh.broadcastStats(state, dispatcher, logger, nil)
	case app.EventHistoryCleared:
		mh.broadcastStats(state, dispatcher, logger, nil)
		return
	default:
		return
	}

	bytes, err := encodePayload(payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}
	dispatcher.BroadcastMessage(opCode, bytes, nil, nil, true)
}

func (mh *matchHandler) snapshot(state *TableState) TableSnapshot {
	snap := TableSnapshot{
		OwnerID:      state.OwnerID,
		TargetScore:  state.Session.TargetScore,
		HistoryCount: len(state.Session.History),
		Tick:         state.Tick,
	}
	if state.Session.Match != nil {
		view := app.BuildMatchView(*state.Session.Match)
		snap.Match = &view
	}
	return snap
}

// broadcastSnapshot sends the table picture to recipients, or everyone when nil.
func (mh *matchHandler) broadcastSnapshot(state *TableState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, recipients []runtime.Presence) {
	bytes, err := encodePayload(mh.snapshot(state))
	if err != nil {
		logger.Error("Snapshot: Failed to marshal: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpTableSnapshot, bytes, recipients, nil, true)
}

func (mh *matchHandler) broadcastStats(state *TableState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, recipients []runtime.Presence) {
	bytes, err := encodePayload(app.BuildStatsView(state.Session.History))
	if err != nil {
		logger.Error("Stats: Failed to marshal: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpStats, bytes, recipients, nil, true)
}

// sendError sends an error event to a specific user.
func (mh *matchHandler) sendError(state *TableState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	bytes, err := encodePayload(errorPayload{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal error event: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpError, bytes, []runtime.Presence{presence}, nil, true)
}

// tableLabel renders the searchable match label.
func tableLabel(state *TableState) (string, error) {
	status := labelStateSetup
	if state.Session.Match != nil {
		status = string(state.Session.Match.Status)
	}
	_, ownerPresent := state.Presences[state.OwnerID]

	label, err := structpb.NewStruct(map[string]interface{}{
		"open":              ownerPresent || state.OwnerID == "",
		"state":             status,
		"target":            state.Session.TargetScore,
		MatchLabelKey_Owner: state.OwnerID,
	})
	if err != nil {
		return "", err
	}
	labelBytes, err := protojson.Marshal(label)
	if err != nil {
		return "", err
	}
	return string(labelBytes), nil
}

func (mh *matchHandler) updateLabel(state *TableState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := tableLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Table terminated, grace %d seconds", graceSeconds)
	return state
}

// MatchSignal answers SignalOwner with the owner's user id. SignalClearHistory
// empties the live archive so a later save cannot bring cleared records back.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	tableState, ok := state.(*TableState)
	if !ok {
		return state, ""
	}
	switch data {
	case SignalOwner:
		return tableState, tableState.OwnerID
	case SignalClearHistory:
		if err := mh.apply(ctx, tableState, dispatcher, logger, app.ClearHistory{}); err != nil {
			logger.Error("MatchSignal: Failed to clear archive of table %s: %v", tableState.MatchID, err)
			return tableState, ""
		}
		logger.Info("MatchSignal: Cleared archive of table %s", tableState.MatchID)
		return tableState, signalCleared
	default:
		logger.Warn("MatchSignal: Unknown signal %q", data)
		return tableState, ""
	}
}
