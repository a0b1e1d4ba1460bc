package nakama

const (
	// RpcCreateTable finds the caller's open table or creates one.
	RpcCreateTable  = "create_table"
	// RpcTableInvite issues an invite token for a table the caller owns.
	RpcTableInvite  = "table_invite"
	RpcHistoryStats = "history_stats"
	RpcClearHistory = "clear_history"

	// MatchNameDominoTable is the authoritative match handler name registered with Nakama.
	MatchNameDominoTable = "domino_table"

	// SignalOwner asks a running table for its owner's user id.
	SignalOwner        = "owner"
	// SignalClearHistory makes a running table empty its archive.
	SignalClearHistory = "clear_history"

	// InviteMetadataKey is the join metadata field carrying an invite token.
	InviteMetadataKey = "invite"
)

// Op codes for client messages and server events.
const (
	// Client -> Server, owner only
	OpSetTargetScore int64 = 1
	OpStartMatch     int64 = 2
	OpAddRound       int64 = 3
	OpConfirmPenalty int64 = 4
	OpNewMatch       int64 = 5
	OpResetTable     int64 = 6
	OpClearHistory   int64 = 7

	// Server -> Client events
	OpTableSnapshot  int64 = 101
	OpPenaltyPending int64 = 102
	OpMatchCompleted int64 = 103
	OpStats          int64 = 104
	OpError          int64 = 110
)

// Error codes sent with OpError.
const (
	errCodeBadRequest = 400
	errCodeForbidden  = 403
	errCodeConflict   = 409
)
