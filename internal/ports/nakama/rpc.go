package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"dominoscore/internal/app"
	"dominoscore/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/grpc/codes"
)

// inviteService signs table invites. Set by InitModule.
var inviteService *app.InviteService

// CreateTableRequest is the optional create_table payload.
type CreateTableRequest struct {
	TargetScore int `json:"target_score"`
}

// CreateTableResponse is returned by create_table.
type CreateTableResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

type tableInviteRequest struct {
	MatchID string `json:"match_id"`
}

type tableInviteResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	rpcs := map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcCreateTable:  RpcCreateTableHandler,
		RpcTableInvite:  RpcTableInviteHandler,
		RpcHistoryStats: RpcHistoryStatsHandler,
		RpcClearHistory: RpcClearHistoryHandler,
	}
	for id, fn := range rpcs {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return fmt.Errorf("register rpc %s: %w", id, err)
		}
	}
	return nil
}

func callerID(ctx context.Context) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", int(codes.Unauthenticated))
	}
	return userID, nil
}

// findOwnedTable returns the id of the running table owned by userID, or ""
// when there is none.
func findOwnedTable(ctx context.Context, nk runtime.NakamaModule, userID string) (string, error) {
	query := fmt.Sprintf("+label.%s:%q", MatchLabelKey_Owner, userID)
	matches, err := nk.MatchList(ctx, 1, true, "", nil, nil, query)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}
	return matches[0].GetMatchId(), nil
}

// RpcCreateTableHandler returns the caller's running table, creating one if needed.
func RpcCreateTableHandler(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}

	var req CreateTableRequest
	if strings.TrimSpace(payload) != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid payload", int(codes.InvalidArgument))
		}
	}

	existing, err := findOwnedTable(ctx, nk, userID)
	if err != nil {
		logger.Error("RpcCreateTable [User:%s]: Failed to list tables: %v", userID, err)
		return "", runtime.NewError("failed to list tables", int(codes.Internal))
	}

	resp := CreateTableResponse{}
	if existing != "" {
		resp.MatchID = existing
		logger.Info("RpcCreateTable [User:%s]: Found existing table %s", userID, resp.MatchID)
	} else {
		params := map[string]interface{}{"owner_id": userID}
		if req.TargetScore > 0 {
			params["target_score"] = req.TargetScore
		}
		resp.MatchID, err = nk.MatchCreate(ctx, MatchNameDominoTable, params)
		if err != nil {
			logger.Error("RpcCreateTable [User:%s]: Failed to create table: %v", userID, err)
			return "", runtime.NewError("failed to create table", int(codes.Internal))
		}
		resp.IsNew = true
		logger.Info("RpcCreateTable [User:%s]: Created new table %s", userID, resp.MatchID)
	}

	b, _ := json.Marshal(resp)
	return string(b), nil
}

// RpcTableInviteHandler issues an invite token for a table owned by the caller.
func RpcTableInviteHandler(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	if inviteService == nil {
		return "", runtime.NewError("invites are not configured", int(codes.Unavailable))
	}

	var req tableInviteRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.MatchID == "" {
		return "", runtime.NewError("match_id is required", int(codes.InvalidArgument))
	}

	owner, err := nk.MatchSignal(ctx, req.MatchID, SignalOwner)
	if err != nil {
		logger.Warn("RpcTableInvite [User:%s]: Table %s unavailable: %v", userID, req.MatchID, err)
		return "", runtime.NewError("table not found", int(codes.NotFound))
	}
	if owner != userID {
		return "", runtime.NewError("only the table owner can invite", int(codes.PermissionDenied))
	}

	token, err := inviteService.Issue(req.MatchID, userID)
	if err != nil {
		logger.Error("RpcTableInvite [User:%s]: Failed to issue invite: %v", userID, err)
		return "", runtime.NewError("failed to issue invite", int(codes.Internal))
	}

	b, _ := json.Marshal(tableInviteResponse{Token: token, ExpiresIn: int(config.InviteTTL().Seconds())})
	return string(b), nil
}

// RpcHistoryStatsHandler aggregates the caller's archive.
func RpcHistoryStatsHandler(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}

	records, err := NewNakamaHistoryAdapter(nk).Load(ctx, userID)
	if err != nil {
		logger.Error("RpcHistoryStats [User:%s]: %v", userID, err)
		return "", runtime.NewError("failed to read history", int(codes.Internal))
	}

	b, err := json.Marshal(app.BuildStatsView(records))
	if err != nil {
		return "", runtime.NewError("failed to encode stats", int(codes.Internal))
	}
	return string(b), nil
}

// RpcClearHistoryHandler deletes the caller's archive, including the copy held
// by a table the caller is currently scoring.
func RpcClearHistoryHandler(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}

	matchID, err := findOwnedTable(ctx, nk, userID)
	if err != nil {
		logger.Error("RpcClearHistory [User:%s]: Failed to list tables: %v", userID, err)
		return "", runtime.NewError("failed to list tables", int(codes.Internal))
	}
	if matchID != "" {
		if _, err := nk.MatchSignal(ctx, matchID, SignalClearHistory); err != nil {
			logger.Error("RpcClearHistory [User:%s]: Table %s did not clear: %v", userID, matchID, err)
			return "", runtime.NewError("table is busy, try again", int(codes.Unavailable))
		}
	}

	if err := NewNakamaHistoryAdapter(nk).Clear(ctx, userID); err != nil {
		logger.Error("RpcClearHistory [User:%s]: %v", userID, err)
		return "", runtime.NewError("failed to clear history", int(codes.Internal))
	}
	logger.Info("RpcClearHistory [User:%s]: Archive cleared", userID)
	return `{"cleared":true}`, nil
}
