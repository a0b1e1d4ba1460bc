package nakama

import (
	"context"
	"database/sql"

	"dominoscore/internal/app"
	"dominoscore/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, hooks and the table match handler for the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	vars, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	env, err := config.DecodeEnv(vars)
	if err != nil {
		return err
	}

	if err := config.LoadGameConfig(env.ConfigPath); err != nil {
		logger.Warn("InitModule: Could not load game config, using defaults: %v", err)
	}

	if env.InviteSecret == "" {
		logger.Warn("InitModule: SCORE_INVITE_SECRET not set, table invites are disabled.")
	} else {
		inviteService = app.NewInviteService(env.InviteSecret, env.InviteIssuer, config.InviteTTL())
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameDominoTable, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(), nil
	}); err != nil {
		return err
	}

	logger.Info("Domino scorekeeper module loaded.")
	return nil
}
